/*
errors.go - The structural-error tier of the engine

PURPOSE:
  The engine distinguishes two failure tiers. Business-rule failures
  (insufficient notice, insufficient balance, ineligible tenure) are never
  errors; they accumulate into issue lists so callers can show every
  problem at once. This file defines the OTHER tier: structural input
  errors that indicate a caller bug and abort the calculation.

USAGE:
  Callers can branch on the error kind:

    if employment.IsValidationError(err) {
        // 400-class problem: malformed input
    }

SEE ALSO:
  - types.go: Validate() methods producing these errors
*/
package employment

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidDateRange is returned when an end date precedes its start date.
	ErrInvalidDateRange = errors.New("invalid date range: end before start")

	// ErrNegativeAmount is returned for negative monetary or quantity inputs
	// where the domain requires non-negative values.
	ErrNegativeAmount = errors.New("negative amount")

	// ErrUnknownEnum is returned for unrecognized enumeration values.
	ErrUnknownEnum = errors.New("unknown enumeration value")
)

// =============================================================================
// VALIDATION ERROR - Structural input failure with context
// =============================================================================

// ValidationError reports structurally invalid input: the calculation never
// ran. Legitimate domain states (negative stored balance, dates far in the
// past) are NOT validation errors; those are reported in result issues.
type ValidationError struct {
	Field  string
	Reason string
	Err    error // optional sentinel for errors.Is
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return e.Err }

// IsValidationError reports whether err is (or wraps) a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
