package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	domainApp "ilmfund-backend/internal/domain/application"
	"ilmfund-backend/internal/domain/message"
	"ilmfund-backend/internal/domain/student"
	"ilmfund-backend/internal/domain/uow"
	"ilmfund-backend/internal/events"
	"ilmfund-backend/internal/usecase/completeness"
	"ilmfund-backend/pkg/id"
)

// statusMessages are the best-effort notifications written to the
// student on each review transition.
var statusMessages = map[domainApp.Status]string{
	domainApp.StatusPending:    "Your application has been submitted and is under initial review.",
	domainApp.StatusProcessing: "Your application is being processed by our review team.",
	domainApp.StatusApproved:   "Congratulations! Your application has been approved.",
	domainApp.StatusRejected:   "We regret to inform you that your application has been rejected.",
}

type Usecase struct {
	students  student.Repository
	apps      domainApp.Repository
	messages  message.Repository
	uow       uow.UnitOfWork
	publisher events.Publisher
	logger    *slog.Logger
}

func NewUsecase(
	students student.Repository,
	apps domainApp.Repository,
	messages message.Repository,
	tx uow.UnitOfWork,
	publisher events.Publisher,
	logger *slog.Logger,
) *Usecase {
	return &Usecase{
		students:  students,
		apps:      apps,
		messages:  messages,
		uow:       tx,
		publisher: publisher,
		logger:    logger,
	}
}

// Create opens a new funding request. The application always starts in
// DRAFT regardless of how complete the profile already is; submission
// is a separate, gated step.
func (u *Usecase) Create(ctx context.Context, in CreateInput) (*ApplicationDTO, error) {
	if len(in.StudentID) != 32 || in.Term == "" {
		return nil, errors.New("invalid input: student_id and term are required")
	}
	if in.Amount <= 0 || in.Currency == "" {
		return nil, errors.New("invalid input: amount must be positive and currency set")
	}

	prof, err := u.students.GetByStudentID(ctx, in.StudentID)
	if err != nil {
		return nil, err
	}

	// Block a second open application for the same term.
	open, err := u.apps.GetOpenByStudentAndTerm(ctx, prof.ID, in.Term)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", domainApp.ErrOpenExists, open.ApplicationID)
	case !errors.Is(err, domainApp.ErrNotFound):
		return nil, err
	}

	a := domainApp.New(id.New(), prof.ID, in.Term, in.Amount, in.Currency)
	if err := u.apps.Create(ctx, a); err != nil {
		return nil, err
	}
	return toDTO(a, prof.StudentID), nil
}

// Submit runs the submission gate and, if it passes, moves the locked
// application DRAFT → PENDING with the completeness report frozen onto
// the row. Of two concurrent submits exactly one wins; the loser gets
// a TransitionError.
func (u *Usecase) Submit(ctx context.Context, applicationID string) (*ApplicationDTO, error) {
	var (
		dto     *ApplicationDTO
		changed *events.StatusChanged
		notifyA *domainApp.Application
	)

	err := u.uow.WithinApplicationTx(ctx, applicationID, func(r uow.Repos, a *domainApp.Application) error {
		next, err := domainApp.Next(a.Status, domainApp.EventSubmit)
		if err != nil {
			return err
		}

		prof, err := r.Students.GetByID(ctx, a.StudentID)
		if err != nil {
			return err
		}
		docs, err := r.Students.ListDocumentTypes(ctx, a.StudentID)
		if err != nil {
			return err
		}

		rep := completeness.Score(prof.Snapshot(), docs)
		if rep.FieldPercent != 100 {
			return &completeness.IncompleteError{MissingFields: rep.MissingFields}
		}

		snap, err := json.Marshal(rep)
		if err != nil {
			return err
		}

		from := a.Status
		now := time.Now().UTC()
		a.Status = next
		a.SubmittedAt = &now
		a.StatusUpdatedAt = now
		a.SubmissionSnapshot = snap

		if err := u.writeStatus(ctx, r, a, from, domainApp.EventSubmit); err != nil {
			return err
		}

		dto = toDTO(a, prof.StudentID)
		changed = &events.StatusChanged{
			ApplicationID: a.ApplicationID,
			StudentID:     prof.StudentID,
			From:          string(from),
			To:            string(next),
		}
		notifyA = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.afterTransition(ctx, notifyA, changed, "")
	return dto, nil
}

// BeginReview moves PENDING → PROCESSING (case-worker picks it up).
func (u *Usecase) BeginReview(ctx context.Context, in ReviewInput) (*ApplicationDTO, error) {
	return u.review(ctx, in, domainApp.EventBeginReview, nil)
}

// Reject moves PENDING or PROCESSING → REJECTED.
func (u *Usecase) Reject(ctx context.Context, in ReviewInput) (*ApplicationDTO, error) {
	return u.review(ctx, in, domainApp.EventReject, nil)
}

// Approve moves PROCESSING → APPROVED. Required documents must be
// present unless forced; the student's phase advance runs after the
// approval commits and can never roll it back.
func (u *Usecase) Approve(ctx context.Context, in ReviewInput) (*ApplicationDTO, error) {
	var prof *student.Profile

	dto, err := u.review(ctx, in, domainApp.EventApprove, func(r uow.Repos, a *domainApp.Application) error {
		p, err := r.Students.GetByID(ctx, a.StudentID)
		if err != nil {
			return err
		}
		docs, err := r.Students.ListDocumentTypes(ctx, a.StudentID)
		if err != nil {
			return err
		}
		if missing := completeness.MissingDocuments(docs); len(missing) > 0 {
			if !in.Force {
				return &MissingDocumentsError{Missing: missing}
			}
			u.logger.Warn("force approval despite missing documents",
				"application_id", a.ApplicationID,
				"student_id", p.StudentID,
				"missing", missing)
		}
		prof = p
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Approval is committed and authoritative from here on; phase sync
	// is best-effort and retryable.
	u.syncPhase(ctx, prof, in.ApplicationID)
	return dto, nil
}

func (u *Usecase) Get(ctx context.Context, applicationID string) (*ApplicationDTO, error) {
	a, err := u.apps.GetByApplicationID(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	return toDTO(a, studentPublicID(a)), nil
}

func (u *Usecase) List(ctx context.Context, in ListInput) (*ListResult, error) {
	if in.Page < 1 {
		in.Page = 1
	}
	if in.Limit < 1 || in.Limit > 100 {
		in.Limit = 20
	}

	f := domainApp.ListFilter{Limit: in.Limit, Offset: (in.Page - 1) * in.Limit}
	if in.Status != "" {
		st := domainApp.Status(in.Status)
		f.Status = &st
	}

	apps, total, err := u.apps.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]ApplicationDTO, 0, len(apps))
	for i := range apps {
		out = append(out, *toDTO(&apps[i], studentPublicID(&apps[i])))
	}
	return &ListResult{
		Applications: out,
		Total:        total,
		Page:         in.Page,
		Limit:        in.Limit,
		Pages:        (total + int64(in.Limit) - 1) / int64(in.Limit),
	}, nil
}

// review is the shared admin transition: lock the row, resolve the
// event against the table, run the extra guard if any, and write the
// new status conditionally.
func (u *Usecase) review(ctx context.Context, in ReviewInput, ev domainApp.Event, guard func(r uow.Repos, a *domainApp.Application) error) (*ApplicationDTO, error) {
	if u.uow == nil {
		return nil, domainApp.ErrInvalidTransition
	}

	var (
		dto     *ApplicationDTO
		changed *events.StatusChanged
		notifyA *domainApp.Application
	)

	err := u.uow.WithinApplicationTx(ctx, in.ApplicationID, func(r uow.Repos, a *domainApp.Application) error {
		next, err := domainApp.Next(a.Status, ev)
		if err != nil {
			return err
		}
		if guard != nil {
			if err := guard(r, a); err != nil {
				return err
			}
		}

		prof, err := r.Students.GetByID(ctx, a.StudentID)
		if err != nil {
			return err
		}

		from := a.Status
		a.Status = next
		a.StatusUpdatedAt = time.Now().UTC()
		if in.Note != "" {
			a.Note = in.Note
		}

		if err := u.writeStatus(ctx, r, a, from, ev); err != nil {
			return err
		}

		dto = toDTO(a, prof.StudentID)
		changed = &events.StatusChanged{
			ApplicationID: a.ApplicationID,
			StudentID:     prof.StudentID,
			From:          string(from),
			To:            string(next),
		}
		notifyA = a
		return nil
	})
	if err != nil {
		return nil, err
	}

	u.afterTransition(ctx, notifyA, changed, in.Note)
	return dto, nil
}

// writeStatus performs the conditional status write and converts a
// lost race into the same TransitionError a stale client would get.
func (u *Usecase) writeStatus(ctx context.Context, r uow.Repos, a *domainApp.Application, from domainApp.Status, ev domainApp.Event) error {
	err := r.Applications.UpdateStatus(ctx, a, from)
	if err == nil {
		return nil
	}
	if errors.Is(err, domainApp.ErrStatusConflict) {
		cur, rerr := r.Applications.GetByApplicationID(ctx, a.ApplicationID)
		if rerr != nil {
			return &domainApp.TransitionError{From: from, Event: ev}
		}
		return &domainApp.TransitionError{From: cur.Status, Event: ev}
	}
	return err
}

// afterTransition runs the post-commit side effects: event publish and
// the best-effort student notification. Neither can fail the
// transition that already committed.
func (u *Usecase) afterTransition(ctx context.Context, a *domainApp.Application, changed *events.StatusChanged, note string) {
	if changed != nil {
		if err := u.publisher.Publish(ctx, events.New(events.TopicApplicationStatusChanged, *changed)); err != nil {
			u.logger.Error("failed to publish status change", "application_id", changed.ApplicationID, "error", err)
		}
	}
	if a == nil {
		return
	}
	text, ok := statusMessages[a.Status]
	if !ok {
		return
	}
	if note != "" {
		text = text + " Note: " + note
	}
	appID := a.ID
	m := &message.Message{
		MessageID:     id.New(),
		StudentID:     a.StudentID,
		ApplicationID: &appID,
		Text:          "Status Update: " + text,
		FromRole:      "admin",
	}
	if err := u.messages.Create(ctx, m); err != nil {
		u.logger.Error("failed to write status notification", "application_id", a.ApplicationID, "error", err)
	}
}

// syncPhase advances the owning student APPLICATION → ACTIVE after an
// approval. Idempotent: a student already ACTIVE or later is left
// untouched. Failures are logged and published for reconciliation,
// never returned — the approval stands.
func (u *Usecase) syncPhase(ctx context.Context, prof *student.Profile, applicationID string) {
	if prof == nil || prof.Phase != student.PhaseApplication {
		return
	}

	advanced, err := u.students.AdvancePhase(ctx, prof.ID, student.PhaseApplication, student.PhaseActive)
	if err != nil {
		serr := &student.PhaseSyncError{StudentID: prof.StudentID, Cause: err}
		u.logger.Error("phase sync failed after approval",
			"student_id", prof.StudentID,
			"application_id", applicationID,
			"error", serr)
		if perr := u.publisher.Publish(ctx, events.New(events.TopicStudentPhaseSyncFailed, events.PhaseSyncFailed{
			StudentID:     prof.StudentID,
			ApplicationID: applicationID,
			Reason:        err.Error(),
		})); perr != nil {
			u.logger.Error("failed to publish phase sync failure", "student_id", prof.StudentID, "error", perr)
		}
		return
	}
	if !advanced {
		// Another approval already moved the student forward.
		return
	}

	u.logger.Info("student transitioned to ACTIVE phase", "student_id", prof.StudentID)
	if err := u.publisher.Publish(ctx, events.New(events.TopicStudentPhaseChanged, events.PhaseChanged{
		StudentID: prof.StudentID,
		From:      string(student.PhaseApplication),
		To:        string(student.PhaseActive),
	})); err != nil {
		u.logger.Error("failed to publish phase change", "student_id", prof.StudentID, "error", err)
	}
}

func studentPublicID(a *domainApp.Application) string {
	if a.Student != nil {
		return a.Student.StudentID
	}
	return ""
}

func toDTO(a *domainApp.Application, studentID string) *ApplicationDTO {
	return &ApplicationDTO{
		ApplicationID: a.ApplicationID,
		StudentID:     studentID,
		Term:          a.Term,
		Amount:        a.Amount,
		Currency:      a.Currency,
		Status:        string(a.Status),
		Note:          a.Note,
		SubmittedAt:   a.SubmittedAt,
		CreatedAt:     a.CreatedAt,
	}
}
