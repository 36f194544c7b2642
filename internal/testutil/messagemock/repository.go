package messagemock

import (
	"context"
	"sync"

	domain "ilmfund-backend/internal/domain/message"
)

var _ domain.Repository = (*Repo)(nil)

// Repo records created messages in memory; override the function
// fields to simulate failures.
type Repo struct {
	mu      sync.Mutex
	created []domain.Message

	CreateFn        func(ctx context.Context, m *domain.Message) error
	ListByStudentFn func(ctx context.Context, studentID uint64, limit, offset int) ([]domain.Message, error)
}

func (m *Repo) Create(ctx context.Context, msg *domain.Message) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, msg)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created = append(m.created, *msg)
	return nil
}

func (m *Repo) ListByStudent(ctx context.Context, studentID uint64, limit, offset int) ([]domain.Message, error) {
	if m.ListByStudentFn != nil {
		return m.ListByStudentFn(ctx, studentID, limit, offset)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Message
	for _, msg := range m.created {
		if msg.StudentID == studentID {
			out = append(out, msg)
		}
	}
	return out, nil
}

// Created returns a copy of everything stored via the default Create.
func (m *Repo) Created() []domain.Message {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Message, len(m.created))
	copy(out, m.created)
	return out
}
