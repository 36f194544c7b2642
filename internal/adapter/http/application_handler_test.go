package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	domainApp "ilmfund-backend/internal/domain/application"
	"ilmfund-backend/internal/domain/student"
	"ilmfund-backend/internal/domain/uow"
	"ilmfund-backend/internal/events"
	"ilmfund-backend/internal/testutil/applicationmock"
	"ilmfund-backend/internal/testutil/messagemock"
	"ilmfund-backend/internal/testutil/studentmock"
	"ilmfund-backend/internal/testutil/uowmock"
	"ilmfund-backend/internal/usecase/application"
	"ilmfund-backend/pkg/registry"

	"github.com/labstack/echo/v4"
)

const (
	tStudentID     = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	tApplicationID = "cccccccccccccccccccccccccccccccc"
)

type appFixture struct {
	app      *domainApp.Application
	prof     *student.Profile
	docs     []registry.DocumentType
	students *studentmock.Repo
	apps     *applicationmock.Repo
	handler  *ApplicationHandler
}

func fullProfile() *student.Profile {
	gpa := 3.4
	gradYear := 2028
	doneYear := 2024
	return &student.Profile{
		ID: 7, StudentID: tStudentID, Name: "Ayesha Khan",
		CNIC: "3520212345671", GuardianName: "Imran Khan", GuardianCNIC: "3520212345672",
		Address: "House 12", City: "Lahore", Province: "Punjab",
		University: "LUMS", Program: "BS CS",
		GPA: &gpa, GradYear: &gradYear,
		CurrentInstitution: "Govt College", CurrentCity: "Lahore", CurrentCompletionYear: &doneYear,
		Phase: student.PhaseApplication,
	}
}

func newAppFixture(t *testing.T, status domainApp.Status) *appFixture {
	t.Helper()
	f := &appFixture{prof: fullProfile()}
	f.app = domainApp.New(tApplicationID, f.prof.ID, "2026-FALL", 120_000, "PKR")
	f.app.ID = 42
	f.app.Status = status

	f.students = &studentmock.Repo{
		GetByStudentIDFn: func(_ context.Context, sid string) (*student.Profile, error) {
			if sid != f.prof.StudentID {
				return nil, student.ErrNotFound
			}
			return f.prof, nil
		},
		GetByIDFn: func(_ context.Context, id uint64) (*student.Profile, error) {
			return f.prof, nil
		},
		ListDocumentTypesFn: func(context.Context, uint64) ([]registry.DocumentType, error) {
			return f.docs, nil
		},
	}
	f.apps = &applicationmock.Repo{
		GetByApplicationIDFn: func(_ context.Context, aid string) (*domainApp.Application, error) {
			if aid != f.app.ApplicationID {
				return nil, domainApp.ErrNotFound
			}
			cp := *f.app
			return &cp, nil
		},
		GetByApplicationIDForUpdateFn: func(_ context.Context, aid string) (*domainApp.Application, error) {
			if aid != f.app.ApplicationID {
				return nil, domainApp.ErrNotFound
			}
			cp := *f.app
			return &cp, nil
		},
		UpdateStatusFn: func(_ context.Context, a *domainApp.Application, from domainApp.Status) error {
			if f.app.Status != from {
				return domainApp.ErrStatusConflict
			}
			*f.app = *a
			return nil
		},
	}
	tx := uowmock.Passthrough(uow.Repos{Students: f.students, Applications: f.apps, Messages: &messagemock.Repo{}})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	uc := application.NewUsecase(f.students, f.apps, &messagemock.Repo{}, tx, events.NewMockPublisher(), logger)
	f.handler = NewApplicationHandler(uc)
	return f
}

func newTestEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	return e
}

func serve(t *testing.T, e *echo.Echo, method, target string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != "" {
		rd = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, rd)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode body %q: %v", rec.Body.String(), err)
	}
	return out
}

func TestCreateHandler(t *testing.T) {
	f := newAppFixture(t, domainApp.StatusDraft)
	e := newTestEcho()
	e.POST("/applications", f.handler.Create)

	// validation failure: malformed student_id
	rec := serve(t, e, http.MethodPost, "/applications",
		`{"student_id":"nope","term":"2026-FALL","amount":1000,"currency":"PKR"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad student_id: want 422, got %d", rec.Code)
	}

	// bad term format
	rec = serve(t, e, http.MethodPost, "/applications",
		`{"student_id":"`+tStudentID+`","term":"fall-26","amount":1000,"currency":"PKR"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("bad term: want 422, got %d", rec.Code)
	}

	// success
	rec = serve(t, e, http.MethodPost, "/applications",
		`{"student_id":"`+tStudentID+`","term":"2027-SPRING","amount":1000,"currency":"PKR"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("want 201, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["status"] != "DRAFT" {
		t.Fatalf("status = %v, want DRAFT", body["status"])
	}
}

func TestSubmitHandler_Incomplete422(t *testing.T) {
	f := newAppFixture(t, domainApp.StatusDraft)
	f.prof.GuardianCNIC = "" // one required field missing

	e := newTestEcho()
	e.POST("/applications/:application_id/submit", f.handler.Submit)

	rec := serve(t, e, http.MethodPost, "/applications/"+tApplicationID+"/submit", "")
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	missing, ok := body["missing_fields"].([]any)
	if !ok || len(missing) != 1 || missing[0] != "Guardian CNIC" {
		t.Fatalf("missing_fields = %v", body["missing_fields"])
	}
	if f.app.Status != domainApp.StatusDraft {
		t.Fatalf("status moved to %s", f.app.Status)
	}
}

func TestSubmitHandler_OKThenConflict(t *testing.T) {
	f := newAppFixture(t, domainApp.StatusDraft)
	e := newTestEcho()
	e.POST("/applications/:application_id/submit", f.handler.Submit)

	rec := serve(t, e, http.MethodPost, "/applications/"+tApplicationID+"/submit", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if body := decode(t, rec); body["status"] != "PENDING" {
		t.Fatalf("status = %v", body["status"])
	}

	// second submit races against itself: 409 with the current status
	rec = serve(t, e, http.MethodPost, "/applications/"+tApplicationID+"/submit", "")
	if rec.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d", rec.Code)
	}
	if body := decode(t, rec); body["status"] != "PENDING" || body["event"] != "submit" {
		t.Fatalf("conflict payload = %v", body)
	}
}

func TestUpdateStatusHandler(t *testing.T) {
	f := newAppFixture(t, domainApp.StatusPending)
	f.docs = registry.RequiredDocuments()
	e := newTestEcho()
	e.PATCH("/applications/:application_id/status", f.handler.UpdateStatus)
	target := "/applications/" + tApplicationID + "/status"

	// unknown event rejected before touching the usecase
	rec := serve(t, e, http.MethodPatch, target, `{"event":"escalate"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("unknown event: want 422, got %d", rec.Code)
	}
	// submit is not an admin event
	rec = serve(t, e, http.MethodPatch, target, `{"event":"submit"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("submit via admin: want 422, got %d", rec.Code)
	}

	// approve straight from PENDING: 409
	rec = serve(t, e, http.MethodPatch, target, `{"event":"approve"}`)
	if rec.Code != http.StatusConflict {
		t.Fatalf("approve from PENDING: want 409, got %d (%s)", rec.Code, rec.Body.String())
	}

	// begin_review then approve
	rec = serve(t, e, http.MethodPatch, target, `{"event":"begin_review"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("begin_review: want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	rec = serve(t, e, http.MethodPatch, target, `{"event":"approve","note":"verified"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("approve: want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
	if body := decode(t, rec); body["status"] != "APPROVED" {
		t.Fatalf("status = %v", body["status"])
	}
}

func TestUpdateStatusHandler_MissingDocuments(t *testing.T) {
	f := newAppFixture(t, domainApp.StatusProcessing)
	f.docs = nil
	e := newTestEcho()
	e.PATCH("/applications/:application_id/status", f.handler.UpdateStatus)
	target := "/applications/" + tApplicationID + "/status"

	rec := serve(t, e, http.MethodPatch, target, `{"event":"approve"}`)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d (%s)", rec.Code, rec.Body.String())
	}
	body := decode(t, rec)
	if body["requires_override"] != true {
		t.Fatalf("payload = %v", body)
	}

	rec = serve(t, e, http.MethodPatch, target, `{"event":"approve","force":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("forced approve: want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}

func TestGetHandler_NotFoundAndBadID(t *testing.T) {
	f := newAppFixture(t, domainApp.StatusDraft)
	e := newTestEcho()
	e.GET("/applications/:application_id", f.handler.Get)

	rec := serve(t, e, http.MethodGet, "/applications/ffffffffffffffffffffffffffffffff", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("want 404, got %d", rec.Code)
	}
	rec = serve(t, e, http.MethodGet, "/applications/short", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
}

func TestListHandler_BadStatusFilter(t *testing.T) {
	f := newAppFixture(t, domainApp.StatusDraft)
	e := newTestEcho()
	e.GET("/applications", f.handler.List)

	rec := serve(t, e, http.MethodGet, "/applications?status=LIMBO", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
	rec = serve(t, e, http.MethodGet, "/applications?status=PENDING&page=2&limit=5", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d (%s)", rec.Code, rec.Body.String())
	}
}
