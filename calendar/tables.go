package calendar

import (
	"embed"
	"fmt"
	"io"
	"io/fs"

	"gopkg.in/yaml.v3"

	"github.com/warp/compliance-engine/employment"
)

// =============================================================================
// TABLE FORMAT - One YAML document per jurisdiction-year
// =============================================================================

// Table is one jurisdiction-year of gazetted holidays.
type Table struct {
	Jurisdiction string
	Year         int
	Holidays     []PublicHoliday
}

type tableDoc struct {
	Jurisdiction string       `yaml:"jurisdiction"`
	Year         int          `yaml:"year"`
	Holidays     []holidayDoc `yaml:"holidays"`
}

type holidayDoc struct {
	Date     string `yaml:"date"`
	Observed string `yaml:"observed,omitempty"`
	Name     string `yaml:"name"`
	Scope    string `yaml:"scope"`
	Region   string `yaml:"region,omitempty"`
}

// LoadTable parses a single year table from YAML.
func LoadTable(r io.Reader) (Table, error) {
	var doc tableDoc
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return Table{}, fmt.Errorf("parse holiday table: %w", err)
	}
	if doc.Year == 0 {
		return Table{}, fmt.Errorf("holiday table missing year")
	}

	t := Table{Jurisdiction: doc.Jurisdiction, Year: doc.Year}
	for _, h := range doc.Holidays {
		date, err := employment.ParseDate(h.Date)
		if err != nil {
			return Table{}, fmt.Errorf("holiday %q: %w", h.Name, err)
		}
		entry := PublicHoliday{
			Date:   date,
			Name:   h.Name,
			Scope:  Scope(h.Scope),
			Region: h.Region,
		}
		if entry.Scope == "" {
			entry.Scope = ScopeNational
		}
		if h.Observed != "" {
			observed, err := employment.ParseDate(h.Observed)
			if err != nil {
				return Table{}, fmt.Errorf("holiday %q observed: %w", h.Name, err)
			}
			entry.Observed = observed
		}
		t.Holidays = append(t.Holidays, entry)
	}
	return t, nil
}

// =============================================================================
// EMBEDDED NZ TABLES
// =============================================================================

//go:embed tables/*.yaml
var tableFS embed.FS

// NZ returns a calendar loaded from the embedded New Zealand tables.
// The embedded data is validated at build time by calendar tests, so a
// parse failure here is a programming error.
func NZ() *Calendar {
	tables, err := loadDir(tableFS, "tables")
	if err != nil {
		panic(err)
	}
	return New("NZ", tables...)
}

func loadDir(fsys fs.FS, dir string) ([]Table, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, err
	}
	var tables []Table
	for _, e := range entries {
		f, err := fsys.Open(dir + "/" + e.Name())
		if err != nil {
			return nil, err
		}
		t, err := LoadTable(f)
		f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		tables = append(tables, t)
	}
	return tables, nil
}
