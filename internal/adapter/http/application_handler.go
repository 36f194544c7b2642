package http

import (
	"net/http"

	domainApp "ilmfund-backend/internal/domain/application"
	"ilmfund-backend/internal/usecase/application"

	"github.com/labstack/echo/v4"
)

type ApplicationHandler struct{ uc *application.Usecase }

func NewApplicationHandler(uc *application.Usecase) *ApplicationHandler {
	return &ApplicationHandler{uc: uc}
}

type createApplicationReq struct {
	StudentID string `json:"student_id" validate:"required,hex32"`
	Term      string `json:"term"       validate:"required,term"`
	Amount    int64  `json:"amount"     validate:"required,gt=0"`
	Currency  string `json:"currency"   validate:"required,len=3"`
}

func (h *ApplicationHandler) Create(c echo.Context) error {
	var req createApplicationReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Create(c.Request().Context(), application.CreateInput(req))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

// Submit runs the submission gate; a complete profile moves the
// application DRAFT → PENDING, an incomplete one gets a 422 listing
// what is missing.
func (h *ApplicationHandler) Submit(c echo.Context) error {
	applicationID := c.Param("application_id")
	if !reHex32.MatchString(applicationID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id"})
	}

	dto, err := h.uc.Submit(c.Request().Context(), applicationID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

type updateStatusReq struct {
	Event string `json:"event" validate:"required,oneof=begin_review approve reject"`
	Note  string `json:"note"`
	Force bool   `json:"force"`
}

// UpdateStatus is the admin review surface: begin_review, approve and
// reject all go through the one endpoint, resolved against the
// transition table. submit is not accepted here; students submit via
// their own endpoint.
func (h *ApplicationHandler) UpdateStatus(c echo.Context) error {
	applicationID := c.Param("application_id")
	if !reHex32.MatchString(applicationID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id"})
	}

	var req updateStatusReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := application.ReviewInput{ApplicationID: applicationID, Note: req.Note, Force: req.Force}
	var (
		dto *application.ApplicationDTO
		err error
	)
	switch domainApp.Event(req.Event) {
	case domainApp.EventBeginReview:
		dto, err = h.uc.BeginReview(c.Request().Context(), in)
	case domainApp.EventApprove:
		dto, err = h.uc.Approve(c.Request().Context(), in)
	case domainApp.EventReject:
		dto, err = h.uc.Reject(c.Request().Context(), in)
	}
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) Get(c echo.Context) error {
	applicationID := c.Param("application_id")
	if !reHex32.MatchString(applicationID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid application_id"})
	}
	dto, err := h.uc.Get(c.Request().Context(), applicationID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *ApplicationHandler) List(c echo.Context) error {
	in := application.ListInput{
		Status: c.QueryParam("status"),
		Page:   intQuery(c, "page", 1),
		Limit:  intQuery(c, "limit", 20),
	}
	if in.Status != "" && !validStatusFilter(in.Status) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "unknown status filter"})
	}
	res, err := h.uc.List(c.Request().Context(), in)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, res)
}

func validStatusFilter(s string) bool {
	switch domainApp.Status(s) {
	case domainApp.StatusDraft, domainApp.StatusPending, domainApp.StatusProcessing,
		domainApp.StatusApproved, domainApp.StatusRejected:
		return true
	}
	return false
}
