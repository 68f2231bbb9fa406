package prompt

import _ "embed"

// Template files embedded at compile time.
var (
	//go:embed templates/estimate.txt
	EstimateTemplate string
)

// Clauses substituted into the estimate template depending on the trip's
// necessity flags.
const (
	lodgingWanted  = "- Lodging: needed, mid-range hotel or similar"
	lodgingSkipped = "- Lodging: not needed (staying with friends or family)"
	foodWanted     = "- Dining: needed, three meals a day at moderate prices"
	foodSkipped    = "- Dining: not needed (meals are covered)"
)
