package http

import (
	"net/http"

	"ilmfund-backend/internal/domain/student"
	"ilmfund-backend/internal/usecase/profile"

	"github.com/labstack/echo/v4"
)

type ProfileHandler struct{ uc *profile.Usecase }

func NewProfileHandler(uc *profile.Usecase) *ProfileHandler { return &ProfileHandler{uc: uc} }

func (h *ProfileHandler) Get(c echo.Context) error {
	studentID := c.Param("student_id")
	if !reHex32.MatchString(studentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid student_id"})
	}
	p, err := h.uc.Get(c.Request().Context(), studentID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

type updateProfileReq struct {
	profile.UpdateInput
	// CNIC fields re-declared so the validator sees the custom tag.
	CNIC         *string `json:"cnic"         validate:"omitempty,cnic13"`
	GuardianCNIC *string `json:"guardianCnic" validate:"omitempty,cnic13"`
}

func (h *ProfileHandler) Update(c echo.Context) error {
	studentID := c.Param("student_id")
	if !reHex32.MatchString(studentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid student_id"})
	}

	var req updateProfileReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}
	req.UpdateInput.CNIC = req.CNIC
	req.UpdateInput.GuardianCNIC = req.GuardianCNIC

	p, err := h.uc.Update(c.Request().Context(), studentID, req.UpdateInput)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

// Completeness backs the profile progress bar.
func (h *ProfileHandler) Completeness(c echo.Context) error {
	studentID := c.Param("student_id")
	if !reHex32.MatchString(studentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid student_id"})
	}
	rep, err := h.uc.Completeness(c.Request().Context(), studentID)
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, rep)
}

type advancePhaseReq struct {
	Phase string `json:"phase" validate:"required,oneof=ACTIVE GRADUATED"`
}

// AdvancePhase is the manual admin override; the usecase still refuses
// backwards moves.
func (h *ProfileHandler) AdvancePhase(c echo.Context) error {
	studentID := c.Param("student_id")
	if !reHex32.MatchString(studentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid student_id"})
	}

	var req advancePhaseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	p, err := h.uc.AdvancePhase(c.Request().Context(), studentID, student.Phase(req.Phase))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, p)
}

func (h *ProfileHandler) Messages(c echo.Context) error {
	studentID := c.Param("student_id")
	if !reHex32.MatchString(studentID) {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid student_id"})
	}
	msgs, err := h.uc.Messages(c.Request().Context(), studentID, intQuery(c, "page", 1), intQuery(c, "limit", 20))
	if err != nil {
		return writeDomainError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"messages": msgs})
}
