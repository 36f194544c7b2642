package studentmock

import (
	"context"

	domain "ilmfund-backend/internal/domain/student"
	"ilmfund-backend/pkg/registry"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Fill only the fields a test needs; unfilled ones return zero values.
type Repo struct {
	CreateFn            func(ctx context.Context, p *domain.Profile) error
	GetByStudentIDFn    func(ctx context.Context, studentID string) (*domain.Profile, error)
	GetByIDFn           func(ctx context.Context, id uint64) (*domain.Profile, error)
	SaveFn              func(ctx context.Context, p *domain.Profile) error
	AdvancePhaseFn      func(ctx context.Context, id uint64, from, to domain.Phase) (bool, error)
	AddDocumentFn       func(ctx context.Context, d *domain.Document) error
	ListDocumentTypesFn func(ctx context.Context, studentID uint64) ([]registry.DocumentType, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Profile) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) GetByStudentID(ctx context.Context, studentID string) (*domain.Profile, error) {
	if m.GetByStudentIDFn != nil {
		return m.GetByStudentIDFn(ctx, studentID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Profile, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) Save(ctx context.Context, p *domain.Profile) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, p)
	}
	return nil
}

func (m *Repo) AdvancePhase(ctx context.Context, id uint64, from, to domain.Phase) (bool, error) {
	if m.AdvancePhaseFn != nil {
		return m.AdvancePhaseFn(ctx, id, from, to)
	}
	return true, nil
}

func (m *Repo) AddDocument(ctx context.Context, d *domain.Document) error {
	if m.AddDocumentFn != nil {
		return m.AddDocumentFn(ctx, d)
	}
	return nil
}

func (m *Repo) ListDocumentTypes(ctx context.Context, studentID uint64) ([]registry.DocumentType, error) {
	if m.ListDocumentTypesFn != nil {
		return m.ListDocumentTypesFn(ctx, studentID)
	}
	return nil, nil
}
