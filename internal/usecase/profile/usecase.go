// Package profile serves profile reads/edits, the completeness
// endpoint backing the frontend progress bar, and the admin phase
// advance.
package profile

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"ilmfund-backend/internal/domain/message"
	"ilmfund-backend/internal/domain/student"
	"ilmfund-backend/internal/usecase/completeness"

	"github.com/redis/go-redis/v9"
)

const completenessKeyPrefix = "completeness:"

type Usecase struct {
	students student.Repository
	messages message.Repository
	cache    *redis.Client // nil disables caching
	cacheTTL time.Duration
	logger   *slog.Logger
}

func NewUsecase(students student.Repository, messages message.Repository, cache *redis.Client, cacheTTL time.Duration, logger *slog.Logger) *Usecase {
	return &Usecase{
		students: students,
		messages: messages,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger,
	}
}

func (u *Usecase) Get(ctx context.Context, studentID string) (*student.Profile, error) {
	return u.students.GetByStudentID(ctx, studentID)
}

// Completeness returns the scorer output for the profile, cache-aside:
// cached copies are served until the TTL or a profile write
// invalidates them. Cache failures degrade to a fresh computation.
func (u *Usecase) Completeness(ctx context.Context, studentID string) (*completeness.Report, error) {
	key := completenessKeyPrefix + studentID

	if u.cache != nil {
		if raw, err := u.cache.Get(ctx, key).Bytes(); err == nil {
			var rep completeness.Report
			if err := json.Unmarshal(raw, &rep); err == nil {
				return &rep, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			u.logger.Warn("completeness cache read failed", "student_id", studentID, "error", err)
		}
	}

	prof, err := u.students.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	docs, err := u.students.ListDocumentTypes(ctx, prof.ID)
	if err != nil {
		return nil, err
	}
	rep := completeness.Score(prof.Snapshot(), docs)

	if u.cache != nil {
		if raw, err := json.Marshal(rep); err == nil {
			if err := u.cache.Set(ctx, key, raw, u.cacheTTL).Err(); err != nil {
				u.logger.Warn("completeness cache write failed", "student_id", studentID, "error", err)
			}
		}
	}
	return &rep, nil
}

// UpdateInput carries a partial profile edit; nil fields are left
// unchanged.
type UpdateInput struct {
	Name                  *string  `json:"name"`
	CNIC                  *string  `json:"cnic"`
	GuardianName          *string  `json:"guardianName"`
	GuardianCNIC          *string  `json:"guardianCnic"`
	Phone                 *string  `json:"phone"`
	Address               *string  `json:"address"`
	City                  *string  `json:"city"`
	Province              *string  `json:"province"`
	University            *string  `json:"university"`
	Program               *string  `json:"program"`
	GPA                   *float64 `json:"gpa" validate:"omitempty,gte=0,lte=4"`
	GradYear              *int     `json:"gradYear" validate:"omitempty,gte=1990,lte=2099"`
	CurrentInstitution    *string  `json:"currentInstitution"`
	CurrentCity           *string  `json:"currentCity"`
	CurrentCompletionYear *int     `json:"currentCompletionYear" validate:"omitempty,gte=1990,lte=2099"`
	PersonalIntroduction  *string  `json:"personalIntroduction"`
	FamilySize            *int     `json:"familySize" validate:"omitempty,gte=1"`
	ParentsOccupation     *string  `json:"parentsOccupation"`
}

// Update applies an edit, re-validates invariants, persists and
// invalidates the cached completeness for this student.
func (u *Usecase) Update(ctx context.Context, studentID string, in UpdateInput) (*student.Profile, error) {
	prof, err := u.students.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	applyString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	applyString(&prof.Name, in.Name)
	applyString(&prof.CNIC, in.CNIC)
	applyString(&prof.GuardianName, in.GuardianName)
	applyString(&prof.GuardianCNIC, in.GuardianCNIC)
	applyString(&prof.Phone, in.Phone)
	applyString(&prof.Address, in.Address)
	applyString(&prof.City, in.City)
	applyString(&prof.Province, in.Province)
	applyString(&prof.University, in.University)
	applyString(&prof.Program, in.Program)
	applyString(&prof.CurrentInstitution, in.CurrentInstitution)
	applyString(&prof.CurrentCity, in.CurrentCity)
	applyString(&prof.PersonalIntroduction, in.PersonalIntroduction)
	applyString(&prof.ParentsOccupation, in.ParentsOccupation)
	if in.GPA != nil {
		prof.GPA = in.GPA
	}
	if in.GradYear != nil {
		prof.GradYear = in.GradYear
	}
	if in.CurrentCompletionYear != nil {
		prof.CurrentCompletionYear = in.CurrentCompletionYear
	}
	if in.FamilySize != nil {
		prof.FamilySize = in.FamilySize
	}

	if err := prof.Validate(); err != nil {
		return nil, err
	}
	if err := u.students.Save(ctx, prof); err != nil {
		return nil, err
	}

	u.invalidateCompleteness(ctx, studentID)
	return prof, nil
}

// AdvancePhase is the admin phase move; it only ever goes forward.
func (u *Usecase) AdvancePhase(ctx context.Context, studentID string, to student.Phase) (*student.Profile, error) {
	if !to.Valid() {
		return nil, errors.New("unknown phase")
	}
	prof, err := u.students.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	if prof.Phase == to {
		return prof, nil // idempotent
	}
	if !prof.Phase.CanAdvanceTo(to) {
		return nil, student.ErrPhaseRegression
	}

	advanced, err := u.students.AdvancePhase(ctx, prof.ID, prof.Phase, to)
	if err != nil {
		return nil, err
	}
	if !advanced {
		// Re-read: a concurrent writer moved the phase; regression is
		// still impossible, so just report the current state.
		return u.students.GetByStudentID(ctx, studentID)
	}
	prof.Phase = to
	return prof, nil
}

// Messages lists the student's status notifications, newest first.
func (u *Usecase) Messages(ctx context.Context, studentID string, page, limit int) ([]message.Message, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	prof, err := u.students.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return u.messages.ListByStudent(ctx, prof.ID, limit, (page-1)*limit)
}

func (u *Usecase) invalidateCompleteness(ctx context.Context, studentID string) {
	if u.cache == nil {
		return
	}
	if err := u.cache.Del(ctx, completenessKeyPrefix+studentID).Err(); err != nil {
		u.logger.Warn("completeness cache invalidation failed", "student_id", studentID, "error", err)
	}
}
