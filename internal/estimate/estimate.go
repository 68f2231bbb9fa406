// Package estimate turns free-form model output into a validated travel cost
// estimate. Parsing runs three short-circuiting gates: structural extraction,
// field completeness, and range checks.
package estimate

import (
	"math"
	"time"

	"github.com/voyago/tripcost/internal/logging"
)

// Field bounds for a single cost value, in currency units.
const (
	maxFieldValue = 100000
	lowValueFloor = 1
)

// requiredFields are the three cost keys the model must return, in report
// order.
var requiredFields = []string{"flight", "roomsPerNight", "foodDaily"}

// Estimate is a parsed, validated cost estimate: flight total, per-night
// lodging, and per-day food.
type Estimate struct {
	Flight        float64   `json:"flight" yaml:"flight"`
	RoomsPerNight float64   `json:"roomsPerNight" yaml:"roomsPerNight"`
	FoodDaily     float64   `json:"foodDaily" yaml:"foodDaily"`
	GeneratedAt   time.Time `json:"generatedAt" yaml:"generatedAt"`
}

// Parse extracts and validates the three cost fields from raw model output.
//
// Gate 1 locates the first balanced JSON object in the text (code fences and
// surrounding prose tolerated) and fails with *MalformedResponseError.
// Gate 2 requires all three fields as finite numbers and fails with
// *IncompleteFieldsError naming the offenders.
// Gate 3 enforces 0 <= value <= 100000 per field and fails with
// *RangeViolationError; values under $1 and lodging far above the flight
// cost are logged as warnings, never fatal.
//
// Parse holds no state: the same text always yields the same field values.
func Parse(raw string) (*Estimate, error) {
	obj, ok := extractObject(raw)
	if !ok {
		return nil, &MalformedResponseError{Excerpt: excerpt(raw)}
	}

	values := make(map[string]float64, len(requiredFields))
	var bad []string
	for _, field := range requiredFields {
		v, ok := obj[field].(float64)
		if !ok || math.IsNaN(v) || math.IsInf(v, 0) {
			bad = append(bad, field)
			continue
		}
		values[field] = v
	}
	if len(bad) > 0 {
		return nil, &IncompleteFieldsError{Fields: bad}
	}

	for _, field := range requiredFields {
		v := values[field]
		if v < 0 {
			return nil, &RangeViolationError{Field: field, Value: v, Bound: 0}
		}
		if v > maxFieldValue {
			return nil, &RangeViolationError{Field: field, Value: v, Bound: maxFieldValue}
		}
		if v > 0 && v < lowValueFloor {
			logging.Warnf("field %q value %g is suspiciously low", field, v)
		}
	}

	// No universal threshold exists for lodging vs. flight cost, so gross
	// mismatches are reported but never rejected.
	if flight := values["flight"]; flight > 0 && values["roomsPerNight"] > flight {
		logging.Warnf("per-night lodging (%g) exceeds flight cost (%g); estimate may be implausible",
			values["roomsPerNight"], flight)
	}

	return &Estimate{
		Flight:        values["flight"],
		RoomsPerNight: values["roomsPerNight"],
		FoodDaily:     values["foodDaily"],
		GeneratedAt:   time.Now().UTC(),
	}, nil
}
