package mysql

import (
	"context"
	"errors"

	studentDomain "ilmfund-backend/internal/domain/student"
	"ilmfund-backend/pkg/registry"

	"gorm.io/gorm"
)

type StudentRepository struct{ db *gorm.DB }

func NewStudentRepository(db *gorm.DB) *StudentRepository { return &StudentRepository{db: db} }

func (r *StudentRepository) Create(ctx context.Context, p *studentDomain.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

func (r *StudentRepository) Save(ctx context.Context, p *studentDomain.Profile) error {
	return r.db.WithContext(ctx).Save(p).Error
}

func (r *StudentRepository) GetByStudentID(ctx context.Context, studentID string) (*studentDomain.Profile, error) {
	var out studentDomain.Profile
	res := r.db.WithContext(ctx).Where("student_id = ?", studentID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, studentDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

func (r *StudentRepository) GetByID(ctx context.Context, idNum uint64) (*studentDomain.Profile, error) {
	var out studentDomain.Profile
	res := r.db.WithContext(ctx).First(&out, idNum)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, studentDomain.ErrNotFound
	}
	if res.Error != nil {
		return nil, res.Error
	}
	return &out, nil
}

// AdvancePhase writes the phase only while the row still holds `from`.
// RowsAffected == 0 means another writer moved it first; that is not
// an error, the caller re-reads.
func (r *StudentRepository) AdvancePhase(ctx context.Context, idNum uint64, from, to studentDomain.Phase) (bool, error) {
	res := r.db.WithContext(ctx).
		Model(&studentDomain.Profile{}).
		Where("id = ? AND phase = ?", idNum, from).
		Update("phase", to)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *StudentRepository) AddDocument(ctx context.Context, d *studentDomain.Document) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *StudentRepository) ListDocumentTypes(ctx context.Context, studentID uint64) ([]registry.DocumentType, error) {
	var types []registry.DocumentType
	res := r.db.WithContext(ctx).
		Model(&studentDomain.Document{}).
		Where("student_id = ?", studentID).
		Distinct().
		Pluck("type", &types)
	if res.Error != nil {
		return nil, res.Error
	}
	return types, nil
}
