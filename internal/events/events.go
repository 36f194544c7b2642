// Package events publishes domain events (status changes, phase
// changes, phase-sync failures) for downstream consumers such as the
// notification and reconciliation services.
package events

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	Source  = "ilmfund-backend"
	Version = "1.0"
)

// Topics double as event types; one topic per type.
const (
	TopicApplicationStatusChanged = "application.status_changed"
	TopicStudentPhaseChanged      = "student.phase_changed"
	TopicStudentPhaseSyncFailed   = "student.phase_sync_failed"
)

type Event struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Source    string    `json:"source"`
	Version   string    `json:"version"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
}

// New builds an event envelope for the given type and payload.
func New(eventType string, data any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		Source:    Source,
		Version:   Version,
		Timestamp: time.Now().UTC(),
		Data:      data,
	}
}

type Publisher interface {
	Publish(ctx context.Context, e Event) error
	Close() error
}

// StatusChanged is the payload of TopicApplicationStatusChanged.
type StatusChanged struct {
	ApplicationID string `json:"application_id"`
	StudentID     string `json:"student_id"`
	From          string `json:"from"`
	To            string `json:"to"`
}

// PhaseChanged is the payload of TopicStudentPhaseChanged.
type PhaseChanged struct {
	StudentID string `json:"student_id"`
	From      string `json:"from"`
	To        string `json:"to"`
}

// PhaseSyncFailed is the payload of TopicStudentPhaseSyncFailed; it is
// the reconciliation signal for approvals whose phase advance failed.
type PhaseSyncFailed struct {
	StudentID     string `json:"student_id"`
	ApplicationID string `json:"application_id"`
	Reason        string `json:"reason"`
}

// NoopPublisher drops every event; used when no broker is configured.
type NoopPublisher struct{}

func (NoopPublisher) Publish(context.Context, Event) error { return nil }
func (NoopPublisher) Close() error                         { return nil }
