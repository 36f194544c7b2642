package mysql

import (
	"context"
	"errors"

	appDomain "ilmfund-backend/internal/domain/application"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func (r *ApplicationRepository) Create(ctx context.Context, a *appDomain.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) Save(ctx context.Context, a *appDomain.Application) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ApplicationRepository) GetByApplicationID(ctx context.Context, applicationID string) (*appDomain.Application, error) {
	var out appDomain.Application
	res := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&out)
	return &out, notFoundMapped(res.Error)
}

func (r *ApplicationRepository) GetByApplicationIDForUpdate(ctx context.Context, applicationID string) (*appDomain.Application, error) {
	var out appDomain.Application
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("application_id = ?", applicationID).
		First(&out)
	return &out, notFoundMapped(res.Error)
}

func (r *ApplicationRepository) GetOpenByStudentAndTerm(ctx context.Context, studentID uint64, term string) (*appDomain.Application, error) {
	var out appDomain.Application
	res := r.db.WithContext(ctx).
		Where("student_id = ? AND term = ? AND status NOT IN ?", studentID, term,
			[]appDomain.Status{appDomain.StatusApproved, appDomain.StatusRejected}).
		Order("id DESC").
		First(&out)
	return &out, notFoundMapped(res.Error)
}

// UpdateStatus is the compare-and-swap write backing every transition:
// the status fields are written only while the row still holds `from`.
func (r *ApplicationRepository) UpdateStatus(ctx context.Context, a *appDomain.Application, from appDomain.Status) error {
	res := r.db.WithContext(ctx).
		Model(&appDomain.Application{}).
		Where("id = ? AND status = ?", a.ID, from).
		Updates(map[string]any{
			"status":              a.Status,
			"note":                a.Note,
			"submission_snapshot": a.SubmissionSnapshot,
			"submitted_at":        a.SubmittedAt,
			"status_updated_at":   a.StatusUpdatedAt,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return appDomain.ErrStatusConflict
	}
	return nil
}

func (r *ApplicationRepository) List(ctx context.Context, f appDomain.ListFilter) ([]appDomain.Application, int64, error) {
	q := r.db.WithContext(ctx).Model(&appDomain.Application{})
	if f.Status != nil {
		q = q.Where("status = ?", *f.Status)
	}
	if f.StudentID != nil {
		q = q.Where("student_id = ?", *f.StudentID)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var out []appDomain.Application
	res := q.Order("id DESC").Limit(f.Limit).Offset(f.Offset).Find(&out)
	if res.Error != nil {
		return nil, 0, res.Error
	}
	return out, total, nil
}

func (r *ApplicationRepository) ListAll(ctx context.Context) ([]appDomain.Application, error) {
	var out []appDomain.Application
	res := r.db.WithContext(ctx).Preload("Student").Order("id ASC").Find(&out)
	if res.Error != nil {
		return nil, res.Error
	}
	return out, nil
}

func notFoundMapped(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return appDomain.ErrNotFound
	}
	return err
}
