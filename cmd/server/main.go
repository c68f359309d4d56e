/*
main.go - Application entry point

PURPOSE:
  Starts the leave & termination-pay compliance engine server: opens the
  SQLite store, loads the holiday calendar, wires the HTTP handlers, and
  runs with graceful shutdown.

COMMAND-LINE FLAGS:
  -port          HTTP server port (default: 8080)
  -db            SQLite database path (default: compliance.db)
                 Use ":memory:" for an in-memory database
  -jurisdiction  Holiday-table jurisdiction code (default: NZ)

HOLIDAY TABLES:
  Stored tables take precedence; when the database holds none for the
  jurisdiction, the embedded gazetted tables are used. Updating a year's
  table is a data change, not a deploy.

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM: stop accepting connections, wait up to 30s for active
  requests, close the database, exit.
*/
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/compliance-engine/api"
	"github.com/warp/compliance-engine/calendar"
	"github.com/warp/compliance-engine/store/sqlite"
)

func main() {
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "compliance.db", "SQLite database path")
	jurisdiction := flag.String("jurisdiction", "NZ", "holiday-table jurisdiction code")
	flag.Parse()

	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	cal, err := loadCalendar(context.Background(), store, *jurisdiction)
	if err != nil {
		log.Fatalf("Failed to load holiday calendar: %v", err)
	}
	minYear, maxYear := cal.SupportedYears()
	log.Printf("Holiday calendar: %s, years %d-%d", cal.Jurisdiction(), minYear, maxYear)

	handler := api.NewHandler(store, cal)
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// loadCalendar prefers tables stored in the database and falls back to the
// embedded gazetted tables.
func loadCalendar(ctx context.Context, store *sqlite.Store, jurisdiction string) (*calendar.Calendar, error) {
	tables, err := store.LoadTables(ctx, jurisdiction)
	if err != nil {
		return nil, err
	}
	if len(tables) > 0 {
		return calendar.New(jurisdiction, tables...), nil
	}
	if jurisdiction == "NZ" {
		return calendar.NZ(), nil
	}
	return nil, fmt.Errorf("no holiday tables stored for jurisdiction %q", jurisdiction)
}
