// Package prompt renders estimate prompts from trip fields. The builder is
// passed to callers as an explicit collaborator so alternative phrasings can
// be injected without touching shared state.
package prompt

import "strings"

// Params are the trip fields the estimate prompt is rendered from.
type Params struct {
	DepartureCity  string
	ArrivalCity    string
	StartDate      string // YYYY-MM-DD
	EndDate        string // YYYY-MM-DD
	IncludeLodging bool
	IncludeFood    bool
}

// Builder renders a prompt string from trip fields.
type Builder interface {
	Build(p Params) string
}

// TemplateBuilder renders the embedded estimate template.
type TemplateBuilder struct{}

// Build substitutes trip fields into the estimate template.
func (TemplateBuilder) Build(p Params) string {
	out := EstimateTemplate

	out = strings.ReplaceAll(out, "{{FROM}}", p.DepartureCity)
	out = strings.ReplaceAll(out, "{{TO}}", p.ArrivalCity)
	out = strings.ReplaceAll(out, "{{START}}", p.StartDate)
	out = strings.ReplaceAll(out, "{{END}}", p.EndDate)

	if p.IncludeLodging {
		out = strings.ReplaceAll(out, "{{LODGING_CLAUSE}}", lodgingWanted)
	} else {
		out = strings.ReplaceAll(out, "{{LODGING_CLAUSE}}", lodgingSkipped)
	}

	if p.IncludeFood {
		out = strings.ReplaceAll(out, "{{FOOD_CLAUSE}}", foodWanted)
	} else {
		out = strings.ReplaceAll(out, "{{FOOD_CLAUSE}}", foodSkipped)
	}

	return out
}
