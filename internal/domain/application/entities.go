package application

import (
	"errors"
	"fmt"
	"time"

	"ilmfund-backend/internal/domain/student"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("application not found")
	// ErrInvalidTransition covers every (status, event) pair outside
	// the transition table. Wrapped by TransitionError.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrStatusConflict is returned by the repository when a
	// conditional status write finds the row no longer in the expected
	// status (a concurrent transition won).
	ErrStatusConflict = errors.New("application status changed concurrently")
	ErrOpenExists     = errors.New("student already has an open application for this term")
)

type Status string

const (
	StatusDraft      Status = "DRAFT"
	StatusPending    Status = "PENDING"
	StatusProcessing Status = "PROCESSING"
	StatusApproved   Status = "APPROVED"
	StatusRejected   Status = "REJECTED"
)

type Event string

const (
	EventSubmit      Event = "submit"
	EventBeginReview Event = "begin_review"
	EventApprove     Event = "approve"
	EventReject      Event = "reject"
)

// transitions is the complete edge set. Anything absent is invalid;
// APPROVED and REJECTED are terminal.
var transitions = map[Status]map[Event]Status{
	StatusDraft: {
		EventSubmit: StatusPending,
	},
	StatusPending: {
		EventBeginReview: StatusProcessing,
		EventReject:      StatusRejected,
	},
	StatusProcessing: {
		EventApprove: StatusApproved,
		EventReject:  StatusRejected,
	},
}

// Next resolves an event against the transition table. The returned
// TransitionError names the current status and the attempted event so
// stale clients can see exactly what they raced.
func Next(from Status, ev Event) (Status, error) {
	if to, ok := transitions[from][ev]; ok {
		return to, nil
	}
	return "", &TransitionError{From: from, Event: ev}
}

// Terminal reports whether s has no outgoing edges.
func Terminal(s Status) bool { return len(transitions[s]) == 0 }

// ValidEvent reports whether ev is a known event name.
func ValidEvent(ev Event) bool {
	switch ev {
	case EventSubmit, EventBeginReview, EventApprove, EventReject:
		return true
	}
	return false
}

type TransitionError struct {
	From  Status
	Event Event
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("invalid transition: cannot %s an application in status %s", e.Event, e.From)
}

func (e *TransitionError) Unwrap() error { return ErrInvalidTransition }

// Application is one funding request owned by a student profile.
type Application struct {
	ID            uint64 `gorm:"primaryKey;column:id" json:"-"`
	ApplicationID string `gorm:"size:32;uniqueIndex:ux_applications_application_id_active" json:"application_id"`
	StudentID     uint64 `gorm:"column:student_id;not null;index:idx_applications_student_active" json:"-"`
	Term          string `gorm:"size:32;not null" json:"term"`
	Amount        int64  `gorm:"not null" json:"amount"`
	Currency      string `gorm:"size:3;not null" json:"currency"`
	Status        Status `gorm:"size:16;default:'DRAFT';index" json:"status"`
	Note          string `gorm:"type:text" json:"note"`

	// What the submission gate saw, frozen at submit time.
	SubmissionSnapshot datatypes.JSON `gorm:"column:submission_snapshot" json:"submission_snapshot,omitempty"`

	SubmittedAt     *time.Time `json:"submitted_at"`
	StatusUpdatedAt time.Time  `gorm:"autoCreateTime" json:"status_updated_at"`

	Student *student.Profile `gorm:"foreignKey:StudentID" json:"student,omitempty"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Application) TableName() string { return "applications" }

// New is the only way to build an Application and it always yields
// DRAFT. There is deliberately no status parameter: creation must
// never bypass the submission gate.
func New(applicationID string, studentID uint64, term string, amount int64, currency string) *Application {
	return &Application{
		ApplicationID:   applicationID,
		StudentID:       studentID,
		Term:            term,
		Amount:          amount,
		Currency:        currency,
		Status:          StatusDraft,
		StatusUpdatedAt: time.Now().UTC(),
	}
}
