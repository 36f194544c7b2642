package profile

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"ilmfund-backend/internal/domain/message"
	"ilmfund-backend/internal/domain/student"
	"ilmfund-backend/internal/testutil/messagemock"
	"ilmfund-backend/internal/testutil/studentmock"
	"ilmfund-backend/pkg/registry"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

const testStudentID = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testProfile() *student.Profile {
	gpa := 3.1
	return &student.Profile{
		ID:        9,
		StudentID: testStudentID,
		Name:      "Bilal Ahmed",
		CNIC:      "3520212345671",
		GPA:       &gpa,
		Phase:     student.PhaseApplication,
	}
}

func newCached(t *testing.T, students *studentmock.Repo, messages *messagemock.Repo) (*Usecase, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return NewUsecase(students, messages, rdb, 5*time.Minute, testLogger()), mr
}

func TestCompleteness_CacheAside(t *testing.T) {
	prof := testProfile()
	scoreCalls := 0
	students := &studentmock.Repo{
		GetByStudentIDFn: func(context.Context, string) (*student.Profile, error) {
			scoreCalls++
			return prof, nil
		},
		ListDocumentTypesFn: func(context.Context, uint64) ([]registry.DocumentType, error) {
			return []registry.DocumentType{registry.DocCNIC}, nil
		},
	}
	uc, _ := newCached(t, students, &messagemock.Repo{})
	ctx := context.Background()

	first, err := uc.Completeness(ctx, testStudentID)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if first.DocumentPercent != 10 {
		t.Fatalf("DocumentPercent = %d, want 10", first.DocumentPercent)
	}

	// Second call must come from the cache, not recompute.
	second, err := uc.Completeness(ctx, testStudentID)
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if scoreCalls != 1 {
		t.Fatalf("profile loaded %d times, want 1 (cache miss only)", scoreCalls)
	}
	if second.Percent != first.Percent || second.FieldPercent != first.FieldPercent {
		t.Fatalf("cached report differs: %+v vs %+v", second, first)
	}
}

func TestCompleteness_NilCacheStillWorks(t *testing.T) {
	prof := testProfile()
	students := &studentmock.Repo{
		GetByStudentIDFn: func(context.Context, string) (*student.Profile, error) { return prof, nil },
	}
	uc := NewUsecase(students, &messagemock.Repo{}, nil, 0, testLogger())

	rep, err := uc.Completeness(context.Background(), testStudentID)
	if err != nil {
		t.Fatalf("Completeness: %v", err)
	}
	if rep.FieldPercent == 100 {
		t.Fatal("sparse profile should not be complete")
	}
}

func TestUpdate_SavesAndInvalidatesCache(t *testing.T) {
	prof := testProfile()
	saved := false
	students := &studentmock.Repo{
		GetByStudentIDFn: func(context.Context, string) (*student.Profile, error) { return prof, nil },
		SaveFn: func(_ context.Context, p *student.Profile) error {
			saved = true
			return nil
		},
	}
	uc, mr := newCached(t, students, &messagemock.Repo{})
	ctx := context.Background()

	// Warm the cache, then edit.
	if _, err := uc.Completeness(ctx, testStudentID); err != nil {
		t.Fatalf("warm: %v", err)
	}
	if !mr.Exists("completeness:" + testStudentID) {
		t.Fatal("cache should be warm")
	}

	city := "Karachi"
	got, err := uc.Update(ctx, testStudentID, UpdateInput{City: &city})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}
	if !saved || got.City != "Karachi" {
		t.Fatalf("saved=%v city=%q", saved, got.City)
	}
	if mr.Exists("completeness:" + testStudentID) {
		t.Fatal("cache entry should be invalidated by the edit")
	}
	// untouched fields stay put
	if got.Name != "Bilal Ahmed" {
		t.Fatalf("name changed: %q", got.Name)
	}
}

func TestUpdate_RejectsInvalidGPA(t *testing.T) {
	prof := testProfile()
	students := &studentmock.Repo{
		GetByStudentIDFn: func(context.Context, string) (*student.Profile, error) { return prof, nil },
		SaveFn: func(context.Context, *student.Profile) error {
			t.Fatal("invalid profile must not be saved")
			return nil
		},
	}
	uc := NewUsecase(students, &messagemock.Repo{}, nil, 0, testLogger())

	bad := 5.0
	if _, err := uc.Update(context.Background(), testStudentID, UpdateInput{GPA: &bad}); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestAdvancePhase(t *testing.T) {
	tests := []struct {
		name    string
		current student.Phase
		to      student.Phase
		wantErr error
		want    student.Phase
	}{
		{"forward", student.PhaseApplication, student.PhaseActive, nil, student.PhaseActive},
		{"skip ahead", student.PhaseApplication, student.PhaseGraduated, nil, student.PhaseGraduated},
		{"idempotent same phase", student.PhaseActive, student.PhaseActive, nil, student.PhaseActive},
		{"regression", student.PhaseGraduated, student.PhaseActive, student.ErrPhaseRegression, student.PhaseGraduated},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			prof := testProfile()
			prof.Phase = tc.current
			students := &studentmock.Repo{
				GetByStudentIDFn: func(context.Context, string) (*student.Profile, error) { return prof, nil },
				AdvancePhaseFn: func(_ context.Context, _ uint64, from, to student.Phase) (bool, error) {
					if prof.Phase != from {
						return false, nil
					}
					prof.Phase = to
					return true, nil
				},
			}
			uc := NewUsecase(students, &messagemock.Repo{}, nil, 0, testLogger())

			got, err := uc.AdvancePhase(context.Background(), testStudentID, tc.to)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if err == nil && got.Phase != tc.want {
				t.Fatalf("phase = %s, want %s", got.Phase, tc.want)
			}
			if prof.Phase != tc.want {
				t.Fatalf("stored phase = %s, want %s", prof.Phase, tc.want)
			}
		})
	}
}

func TestAdvancePhase_UnknownPhase(t *testing.T) {
	uc := NewUsecase(&studentmock.Repo{}, &messagemock.Repo{}, nil, 0, testLogger())
	if _, err := uc.AdvancePhase(context.Background(), testStudentID, student.Phase("LIMBO")); err == nil {
		t.Fatal("unknown phase should be rejected")
	}
}

func TestMessages_ResolvesStudentAndPages(t *testing.T) {
	prof := testProfile()
	var gotLimit, gotOffset int
	students := &studentmock.Repo{
		GetByStudentIDFn: func(context.Context, string) (*student.Profile, error) { return prof, nil },
	}
	messages := &messagemock.Repo{
		ListByStudentFn: func(_ context.Context, sid uint64, limit, offset int) ([]message.Message, error) {
			if sid != prof.ID {
				t.Fatalf("listed wrong student %d", sid)
			}
			gotLimit, gotOffset = limit, offset
			return []message.Message{{Text: "hi"}}, nil
		},
	}
	uc := NewUsecase(students, messages, nil, 0, testLogger())

	out, err := uc.Messages(context.Background(), testStudentID, 3, 10)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(out) != 1 || gotLimit != 10 || gotOffset != 20 {
		t.Fatalf("len=%d limit=%d offset=%d", len(out), gotLimit, gotOffset)
	}
}
