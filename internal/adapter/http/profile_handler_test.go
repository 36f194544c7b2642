package http

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"testing"

	"ilmfund-backend/internal/domain/student"
	"ilmfund-backend/internal/testutil/messagemock"
	"ilmfund-backend/internal/testutil/studentmock"
	"ilmfund-backend/internal/usecase/profile"
	"ilmfund-backend/pkg/registry"
)

func newProfileHandler(prof *student.Profile) *ProfileHandler {
	students := &studentmock.Repo{
		GetByStudentIDFn: func(_ context.Context, sid string) (*student.Profile, error) {
			if sid != prof.StudentID {
				return nil, student.ErrNotFound
			}
			return prof, nil
		},
		AdvancePhaseFn: func(_ context.Context, _ uint64, from, to student.Phase) (bool, error) {
			if prof.Phase != from {
				return false, nil
			}
			prof.Phase = to
			return true, nil
		},
		ListDocumentTypesFn: func(context.Context, uint64) ([]registry.DocumentType, error) {
			return nil, nil
		},
	}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewProfileHandler(profile.NewUsecase(students, &messagemock.Repo{}, nil, 0, logger))
}

func TestCompletenessHandler(t *testing.T) {
	prof := fullProfile()
	h := newProfileHandler(prof)
	e := newTestEcho()
	e.GET("/students/:student_id/completeness", h.Completeness)

	rec := serve(t, e, http.MethodGet, "/students/"+tStudentID+"/completeness", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["field_completion_percent"] != float64(100) {
		t.Fatalf("field_completion_percent = %v", body["field_completion_percent"])
	}
	if body["document_completion_percent"] != float64(0) {
		t.Fatalf("document_completion_percent = %v", body["document_completion_percent"])
	}

	rec = serve(t, e, http.MethodGet, "/students/ffffffffffffffffffffffffffffffff/completeness", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown student: want 404, got %d", rec.Code)
	}
}

func TestUpdateProfileHandler_CNICValidation(t *testing.T) {
	prof := fullProfile()
	h := newProfileHandler(prof)
	e := newTestEcho()
	e.PATCH("/students/:student_id", h.Update)

	rec := serve(t, e, http.MethodPatch, "/students/"+tStudentID, `{"cnic":"123-456"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad cnic: want 422, got %d (%s)", rec.Code, rec.Body.String())
	}

	rec = serve(t, e, http.MethodPatch, "/students/"+tStudentID, `{"cnic":"3520298765432","city":"Multan"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if prof.CNIC != "3520298765432" || prof.City != "Multan" {
		t.Fatalf("profile not updated: %+v", prof)
	}
}

func TestAdvancePhaseHandler(t *testing.T) {
	prof := fullProfile()
	prof.Phase = student.PhaseActive
	h := newProfileHandler(prof)
	e := newTestEcho()
	e.PATCH("/students/:student_id/phase", h.AdvancePhase)
	target := "/students/" + tStudentID + "/phase"

	// unknown phase rejected by the validator
	rec := serve(t, e, http.MethodPatch, target, `{"phase":"LIMBO"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown phase: want 422, got %d", rec.Code)
	}

	// APPLICATION is not a valid target either (phases never regress)
	rec = serve(t, e, http.MethodPatch, target, `{"phase":"APPLICATION"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("regression target: want 422, got %d", rec.Code)
	}

	rec = serve(t, e, http.MethodPatch, target, `{"phase":"GRADUATED"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if prof.Phase != student.PhaseGraduated {
		t.Fatalf("phase = %s", prof.Phase)
	}
}

func TestMessagesHandler(t *testing.T) {
	prof := fullProfile()
	h := newProfileHandler(prof)
	e := newTestEcho()
	e.GET("/students/:student_id/messages", h.Messages)

	rec := serve(t, e, http.MethodGet, "/students/"+tStudentID+"/messages", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}
