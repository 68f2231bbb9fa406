package estimate

import (
	"fmt"
	"strings"
)

// MalformedResponseError reports raw text with no parseable JSON object.
// Excerpt carries the offending text, truncated for display.
type MalformedResponseError struct {
	Excerpt string
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("no parseable JSON object in response: %q", e.Excerpt)
}
func (e *MalformedResponseError) Retryable() bool { return false }

// IncompleteFieldsError reports required fields that are missing or
// non-numeric in the extracted object.
type IncompleteFieldsError struct {
	Fields []string
}

func (e *IncompleteFieldsError) Error() string {
	return fmt.Sprintf("missing or non-numeric fields: %s", strings.Join(e.Fields, ", "))
}
func (e *IncompleteFieldsError) Retryable() bool { return false }

// RangeViolationError reports a field value outside its permitted range.
type RangeViolationError struct {
	Field string
	Value float64
	Bound float64
}

func (e *RangeViolationError) Error() string {
	if e.Value < e.Bound {
		return fmt.Sprintf("field %q value %g is below bound %g", e.Field, e.Value, e.Bound)
	}
	return fmt.Sprintf("field %q value %g exceeds bound %g", e.Field, e.Value, e.Bound)
}
func (e *RangeViolationError) Retryable() bool { return false }
