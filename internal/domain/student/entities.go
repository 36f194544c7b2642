package student

import (
	"errors"
	"time"

	"ilmfund-backend/pkg/registry"

	"gorm.io/gorm"
)

var (
	ErrNotFound        = errors.New("student not found")
	ErrPhaseRegression = errors.New("student phase cannot move backwards")
	// ErrPhaseSync marks a failed phase advance after an approval was
	// already committed. The approval stands; the sync is retryable.
	ErrPhaseSync = errors.New("student phase sync failed")
)

// Phase is the coarse lifecycle stage of a student, distinct from the
// status of any single application.
type Phase string

const (
	PhaseApplication Phase = "APPLICATION"
	PhaseActive      Phase = "ACTIVE"
	PhaseGraduated   Phase = "GRADUATED"
)

var phaseRank = map[Phase]int{
	PhaseApplication: 0,
	PhaseActive:      1,
	PhaseGraduated:   2,
}

// Valid reports whether p is a known phase.
func (p Phase) Valid() bool { _, ok := phaseRank[p]; return ok }

// CanAdvanceTo reports whether moving from p to q goes strictly
// forward. Phases never regress.
func (p Phase) CanAdvanceTo(q Phase) bool {
	return p.Valid() && q.Valid() && phaseRank[q] > phaseRank[p]
}

// PhaseSyncError reports a phase advance that failed after the owning
// application was approved. It never reverts the approval.
type PhaseSyncError struct {
	StudentID string
	Cause     error
}

func (e *PhaseSyncError) Error() string {
	return "phase sync failed for student " + e.StudentID + ": " + e.Cause.Error()
}

func (e *PhaseSyncError) Unwrap() error { return ErrPhaseSync }

// Profile is one applicant's biographical/academic record.
type Profile struct {
	ID        uint64 `gorm:"primaryKey;column:id" json:"-"`
	StudentID string `gorm:"size:32;uniqueIndex:ux_students_student_id_active" json:"student_id"`
	Name      string `gorm:"size:120" json:"name"`
	Email     string `gorm:"size:190;index" json:"email"`

	// Required profile fields (see pkg/registry). Strings left empty
	// and numeric pointers left nil count as missing.
	CNIC                  string   `gorm:"size:13;column:cnic" json:"cnic"`
	GuardianName          string   `gorm:"size:120" json:"guardianName"`
	GuardianCNIC          string   `gorm:"size:13;column:guardian_cnic" json:"guardianCnic"`
	Phone                 string   `gorm:"size:20" json:"phone"`
	Address               string   `gorm:"type:text" json:"address"`
	City                  string   `gorm:"size:80" json:"city"`
	Province              string   `gorm:"size:80" json:"province"`
	University            string   `gorm:"size:190" json:"university"`
	Program               string   `gorm:"size:190" json:"program"`
	GPA                   *float64 `gorm:"type:decimal(3,2);column:gpa" json:"gpa"`
	GradYear              *int     `gorm:"column:grad_year" json:"gradYear"`
	CurrentInstitution    string   `gorm:"size:190" json:"currentInstitution"`
	CurrentCity           string   `gorm:"size:80" json:"currentCity"`
	CurrentCompletionYear *int     `gorm:"column:current_completion_year" json:"currentCompletionYear"`

	// Optional fields, never counted toward completeness.
	PersonalIntroduction string `gorm:"type:text" json:"personalIntroduction"`
	FamilySize           *int   `json:"familySize"`
	ParentsOccupation    string `gorm:"size:190" json:"parentsOccupation"`

	Phase Phase `gorm:"size:16;default:'APPLICATION';index" json:"phase"`

	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (Profile) TableName() string { return "students" }

// Snapshot maps registry field keys to the profile's current values,
// the shape the completeness scorer consumes. Unset numeric fields map
// to nil so the scorer's missing-value rule applies uniformly.
func (p *Profile) Snapshot() map[string]any {
	snap := map[string]any{
		registry.FieldCNIC:               p.CNIC,
		registry.FieldGuardianName:       p.GuardianName,
		registry.FieldGuardianCNIC:       p.GuardianCNIC,
		registry.FieldAddress:            p.Address,
		registry.FieldCity:               p.City,
		registry.FieldProvince:           p.Province,
		registry.FieldUniversity:         p.University,
		registry.FieldProgram:            p.Program,
		registry.FieldCurrentInstitution: p.CurrentInstitution,
		registry.FieldCurrentCity:        p.CurrentCity,
	}
	if p.GPA != nil {
		snap[registry.FieldGPA] = *p.GPA
	} else {
		snap[registry.FieldGPA] = nil
	}
	if p.GradYear != nil {
		snap[registry.FieldGradYear] = *p.GradYear
	} else {
		snap[registry.FieldGradYear] = nil
	}
	if p.CurrentCompletionYear != nil {
		snap[registry.FieldCurrentCompletionYear] = *p.CurrentCompletionYear
	} else {
		snap[registry.FieldCurrentCompletionYear] = nil
	}
	return snap
}

// Validate checks the scalar invariants: GPA within [0, 4] and years
// within a bounded recent/future range. Missing values are allowed
// here; presence is the scorer's concern.
func (p *Profile) Validate() error {
	if p.GPA != nil && (*p.GPA < 0 || *p.GPA > 4) {
		return errors.New("gpa must be between 0.0 and 4.0")
	}
	for _, y := range []*int{p.GradYear, p.CurrentCompletionYear} {
		if y != nil && (*y < 1990 || *y > time.Now().Year()+10) {
			return errors.New("year out of accepted range")
		}
	}
	return nil
}
