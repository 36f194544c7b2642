package applicationmock

import (
	"context"

	domain "ilmfund-backend/internal/domain/application"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn                      func(ctx context.Context, a *domain.Application) error
	GetByApplicationIDFn          func(ctx context.Context, applicationID string) (*domain.Application, error)
	GetByApplicationIDForUpdateFn func(ctx context.Context, applicationID string) (*domain.Application, error)
	GetOpenByStudentAndTermFn     func(ctx context.Context, studentID uint64, term string) (*domain.Application, error)
	UpdateStatusFn                func(ctx context.Context, a *domain.Application, from domain.Status) error
	SaveFn                        func(ctx context.Context, a *domain.Application) error
	ListFn                        func(ctx context.Context, f domain.ListFilter) ([]domain.Application, int64, error)
	ListAllFn                     func(ctx context.Context) ([]domain.Application, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.Application, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, applicationID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*domain.Application, error) {
	if m.GetByApplicationIDForUpdateFn != nil {
		return m.GetByApplicationIDForUpdateFn(ctx, applicationID)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) GetOpenByStudentAndTerm(ctx context.Context, studentID uint64, term string) (*domain.Application, error) {
	if m.GetOpenByStudentAndTermFn != nil {
		return m.GetOpenByStudentAndTermFn(ctx, studentID, term)
	}
	return nil, domain.ErrNotFound
}

func (m *Repo) UpdateStatus(ctx context.Context, a *domain.Application, from domain.Status) error {
	if m.UpdateStatusFn != nil {
		return m.UpdateStatusFn(ctx, a, from)
	}
	return nil
}

func (m *Repo) Save(ctx context.Context, a *domain.Application) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}

func (m *Repo) List(ctx context.Context, f domain.ListFilter) ([]domain.Application, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, 0, nil
}

func (m *Repo) ListAll(ctx context.Context) ([]domain.Application, error) {
	if m.ListAllFn != nil {
		return m.ListAllFn(ctx)
	}
	return nil, nil
}
