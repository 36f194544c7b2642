package completeness

import (
	"errors"
	"strings"

	"ilmfund-backend/pkg/registry"
)

// ErrProfileIncomplete is wrapped by IncompleteError; the gate only
// looks at field completion, documents are verified later in review.
var ErrProfileIncomplete = errors.New("profile incomplete")

type IncompleteError struct {
	MissingFields []string
}

func (e *IncompleteError) Error() string {
	names := registry.ReadableFieldNames(e.MissingFields)
	return "profile incomplete, missing: " + strings.Join(names, ", ")
}

func (e *IncompleteError) Unwrap() error { return ErrProfileIncomplete }

// CanSubmit reports whether a DRAFT application owned by this profile
// may advance to PENDING: all required fields filled, documents not
// considered.
func CanSubmit(snapshot map[string]any, uploaded []registry.DocumentType) bool {
	return Score(snapshot, uploaded).FieldPercent == 100
}

// AssertCanSubmit is the failing variant: nil when submission is
// permitted, otherwise an IncompleteError carrying the missing fields.
func AssertCanSubmit(snapshot map[string]any, uploaded []registry.DocumentType) error {
	rep := Score(snapshot, uploaded)
	if rep.FieldPercent == 100 {
		return nil
	}
	return &IncompleteError{MissingFields: rep.MissingFields}
}
