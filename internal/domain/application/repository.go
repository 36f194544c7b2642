package application

import "context"

type ListFilter struct {
	Status    *Status
	StudentID *uint64
	Limit     int
	Offset    int
}

type Repository interface {
	Create(ctx context.Context, a *Application) error
	GetByApplicationID(ctx context.Context, applicationID string) (*Application, error)
	// GetByApplicationIDForUpdate locks the row for the enclosing
	// transaction; every transition goes through this.
	GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*Application, error)
	GetOpenByStudentAndTerm(ctx context.Context, studentID uint64, term string) (*Application, error)
	// UpdateStatus writes a's status fields only while the row still
	// holds `from` (compare-and-swap); returns ErrStatusConflict when
	// a concurrent transition won.
	UpdateStatus(ctx context.Context, a *Application, from Status) error
	Save(ctx context.Context, a *Application) error
	List(ctx context.Context, f ListFilter) ([]Application, int64, error)
	// ListAll returns every application with its student preloaded,
	// for the admin export.
	ListAll(ctx context.Context) ([]Application, error)
}
