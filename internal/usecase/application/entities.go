package application

import (
	"errors"
	"fmt"
	"time"

	"ilmfund-backend/pkg/registry"
)

// ErrMissingDocuments blocks approval while required documents are
// absent, unless the admin forces the approval.
var ErrMissingDocuments = errors.New("required documents missing")

type MissingDocumentsError struct {
	Missing []registry.DocumentType
}

func (e *MissingDocumentsError) Error() string {
	return fmt.Sprintf("cannot approve: %d required documents missing", len(e.Missing))
}

func (e *MissingDocumentsError) Unwrap() error { return ErrMissingDocuments }

type CreateInput struct {
	StudentID string `json:"student_id"`
	Term      string `json:"term"`
	Amount    int64  `json:"amount"`
	Currency  string `json:"currency"`
}

type ReviewInput struct {
	ApplicationID string
	Note          string
	// Force lets an admin approve despite missing documents; the
	// override is logged for the audit trail.
	Force bool
}

type ApplicationDTO struct {
	ApplicationID string     `json:"application_id"`
	StudentID     string     `json:"student_id"`
	Term          string     `json:"term"`
	Amount        int64      `json:"amount"`
	Currency      string     `json:"currency"`
	Status        string     `json:"status"`
	Note          string     `json:"note,omitempty"`
	SubmittedAt   *time.Time `json:"submitted_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
}

type ListInput struct {
	Status string
	Page   int
	Limit  int
}

type ListResult struct {
	Applications []ApplicationDTO `json:"applications"`
	Total        int64            `json:"total"`
	Page         int              `json:"page"`
	Limit        int              `json:"limit"`
	Pages        int64            `json:"pages"`
}
