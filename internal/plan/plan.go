// Package plan holds travel-plan bookkeeping around the estimation core:
// trip fields, saved estimates, derived totals, and a file-backed store.
package plan

import (
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/voyago/tripcost/internal/estimate"
)

const dateLayout = "2006-01-02"

// Trip describes one journey to estimate: route, dates, and necessity flags
// for lodging and dining.
type Trip struct {
	DepartureCity  string `json:"departureCity" yaml:"departureCity"`
	ArrivalCity    string `json:"arrivalCity" yaml:"arrivalCity"`
	StartDate      string `json:"startDate" yaml:"startDate"` // YYYY-MM-DD
	EndDate        string `json:"endDate" yaml:"endDate"`     // YYYY-MM-DD
	IncludeLodging bool   `json:"includeLodging" yaml:"includeLodging"`
	IncludeFood    bool   `json:"includeFood" yaml:"includeFood"`
}

// Validate checks that the trip has a route and a coherent date range.
func (t Trip) Validate() error {
	if strings.TrimSpace(t.DepartureCity) == "" {
		return fmt.Errorf("departure city is required")
	}
	if strings.TrimSpace(t.ArrivalCity) == "" {
		return fmt.Errorf("arrival city is required")
	}
	start, err := time.Parse(dateLayout, t.StartDate)
	if err != nil {
		return fmt.Errorf("start date %q: expected YYYY-MM-DD", t.StartDate)
	}
	end, err := time.Parse(dateLayout, t.EndDate)
	if err != nil {
		return fmt.Errorf("end date %q: expected YYYY-MM-DD", t.EndDate)
	}
	if end.Before(start) {
		return fmt.Errorf("end date %s is before start date %s", t.EndDate, t.StartDate)
	}
	return nil
}

// Nights returns the number of lodging nights (end minus start). Invalid
// dates yield zero; Validate catches those first.
func (t Trip) Nights() int {
	start, err1 := time.Parse(dateLayout, t.StartDate)
	end, err2 := time.Parse(dateLayout, t.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 0
	}
	return int(end.Sub(start).Hours() / 24)
}

// Days returns the number of travel days, inclusive of both endpoints.
func (t Trip) Days() int {
	if t.Nights() == 0 && (t.StartDate == "" || t.EndDate == "") {
		return 0
	}
	return t.Nights() + 1
}

// Plan is one stored travel plan, optionally carrying a cost estimate.
type Plan struct {
	ID        string             `json:"id"`
	Trip      Trip               `json:"trip"`
	Estimate  *estimate.Estimate `json:"estimate,omitempty"`
	CreatedAt time.Time          `json:"createdAt"`
	UpdatedAt time.Time          `json:"updatedAt"`
}

// New creates a plan for trip with a fresh ULID.
func New(trip Trip) *Plan {
	now := time.Now().UTC()
	return &Plan{
		ID:        ulid.Make().String(),
		Trip:      trip,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// SetEstimate attaches est to the plan and bumps UpdatedAt.
func (p *Plan) SetEstimate(est *estimate.Estimate) {
	p.Estimate = est
	p.UpdatedAt = time.Now().UTC()
}

// Total computes the derived trip total: flight plus nights of lodging plus
// days of food, honoring the necessity flags. The second return is false
// when no estimate is attached.
func (p *Plan) Total() (float64, bool) {
	if p.Estimate == nil {
		return 0, false
	}
	total := p.Estimate.Flight
	if p.Trip.IncludeLodging {
		total += float64(p.Trip.Nights()) * p.Estimate.RoomsPerNight
	}
	if p.Trip.IncludeFood {
		total += float64(p.Trip.Days()) * p.Estimate.FoodDaily
	}
	return total, true
}
