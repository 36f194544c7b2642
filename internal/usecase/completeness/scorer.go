// Package completeness scores a profile snapshot against the field
// and document registry, and gates submission on the result. Scoring
// is pure: same inputs, same report, no side effects.
package completeness

import (
	"math"

	"ilmfund-backend/pkg/registry"
)

// Report is the scorer output, returned verbatim by the completeness
// endpoint for frontend progress display.
type Report struct {
	Percent          int                     `json:"percent"`
	FieldPercent     int                     `json:"field_completion_percent"`
	DocumentPercent  int                     `json:"document_completion_percent"`
	MissingFields    []string                `json:"missing_fields"`
	MissingDocuments []registry.DocumentType `json:"missing_documents"`
}

// missing implements the single missing-value rule: nil, empty string,
// or NaN for numeric fields.
func missing(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	case float64:
		return math.IsNaN(t)
	case float32:
		return math.IsNaN(float64(t))
	default:
		return false
	}
}

func percent(done, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(100 * float64(done) / float64(total)))
}

// Score computes completeness for a profile snapshot (registry field
// key → value) and the set of already-uploaded document types.
func Score(snapshot map[string]any, uploaded []registry.DocumentType) Report {
	fields := registry.RequiredFields()
	missingFields := make([]string, 0)
	for _, key := range fields {
		if missing(snapshot[key]) {
			missingFields = append(missingFields, key)
		}
	}

	have := make(map[registry.DocumentType]struct{}, len(uploaded))
	for _, t := range uploaded {
		have[t] = struct{}{}
	}
	missingDocs := MissingDocuments(uploaded)

	filledFields := len(fields) - len(missingFields)
	presentDocs := len(registry.RequiredDocuments()) - len(missingDocs)

	return Report{
		Percent:          percent(filledFields+presentDocs, len(fields)+len(registry.RequiredDocuments())),
		FieldPercent:     percent(filledFields, len(fields)),
		DocumentPercent:  percent(presentDocs, len(registry.RequiredDocuments())),
		MissingFields:    missingFields,
		MissingDocuments: missingDocs,
	}
}

// MissingDocuments lists required document types not present at least
// once in uploaded. Used both by the scorer and by the approval-stage
// document check.
func MissingDocuments(uploaded []registry.DocumentType) []registry.DocumentType {
	have := make(map[registry.DocumentType]struct{}, len(uploaded))
	for _, t := range uploaded {
		have[t] = struct{}{}
	}
	out := make([]registry.DocumentType, 0)
	for _, t := range registry.RequiredDocuments() {
		if _, ok := have[t]; !ok {
			out = append(out, t)
		}
	}
	return out
}
