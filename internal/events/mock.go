package events

import (
	"context"
	"sync"
)

// MockPublisher records events in memory for tests.
type MockPublisher struct {
	mu     sync.Mutex
	events []Event
}

func NewMockPublisher() *MockPublisher { return &MockPublisher{} }

func (m *MockPublisher) Publish(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

func (m *MockPublisher) Close() error { return nil }

func (m *MockPublisher) PublishedEvents() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Event, len(m.events))
	copy(out, m.events)
	return out
}

func (m *MockPublisher) ClearEvents() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = nil
}
