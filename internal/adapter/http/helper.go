package http

import (
	"errors"
	"net/http"
	"strconv"

	appDomain "ilmfund-backend/internal/domain/application"
	studentDomain "ilmfund-backend/internal/domain/student"
	appUsecase "ilmfund-backend/internal/usecase/application"
	"ilmfund-backend/internal/usecase/completeness"
	"ilmfund-backend/pkg/registry"

	"github.com/labstack/echo/v4"
)

// writeDomainError maps domain errors to HTTP responses. Anything
// unrecognized becomes a 500 without leaking internals.
func writeDomainError(c echo.Context, err error) error {
	var incomplete *completeness.IncompleteError
	if errors.As(err, &incomplete) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error":          "profile incomplete",
			"missing_fields": registry.ReadableFieldNames(incomplete.MissingFields),
		})
	}

	var missingDocs *appUsecase.MissingDocumentsError
	if errors.As(err, &missingDocs) {
		return c.JSON(http.StatusUnprocessableEntity, map[string]any{
			"error":             "required documents missing",
			"missing_documents": missingDocs.Missing,
			"requires_override": true,
		})
	}

	var transition *appDomain.TransitionError
	if errors.As(err, &transition) {
		return c.JSON(http.StatusConflict, map[string]any{
			"error":  transition.Error(),
			"status": transition.From,
			"event":  transition.Event,
		})
	}

	switch {
	case errors.Is(err, appDomain.ErrNotFound), errors.Is(err, studentDomain.ErrNotFound):
		return c.JSON(http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.Is(err, appDomain.ErrOpenExists):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	case errors.Is(err, studentDomain.ErrPhaseRegression):
		return c.JSON(http.StatusConflict, map[string]string{"error": err.Error()})
	}

	return c.JSON(http.StatusInternalServerError, map[string]string{"error": "internal error"})
}

func intQuery(c echo.Context, name string, def int) int {
	raw := c.QueryParam(name)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
