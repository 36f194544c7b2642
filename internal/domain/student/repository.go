package student

import (
	"context"

	"ilmfund-backend/pkg/registry"
)

type Repository interface {
	Create(ctx context.Context, p *Profile) error
	GetByStudentID(ctx context.Context, studentID string) (*Profile, error)
	GetByID(ctx context.Context, id uint64) (*Profile, error)
	Save(ctx context.Context, p *Profile) error

	// AdvancePhase performs a conditional forward move: the row is
	// updated only while it still holds `from`. Returns false (no
	// error) when another writer got there first.
	AdvancePhase(ctx context.Context, id uint64, from, to Phase) (bool, error)

	AddDocument(ctx context.Context, d *Document) error
	ListDocumentTypes(ctx context.Context, studentID uint64) ([]registry.DocumentType, error)
}
