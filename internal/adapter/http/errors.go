package http

import (
	"errors"
	"net/http"

	"expense-approval-service/internal/domain/approval"
	"expense-approval-service/internal/domain/company"
	"expense-approval-service/internal/domain/expense"
	"expense-approval-service/internal/domain/flow"
	"expense-approval-service/internal/usecase/flowadmin"

	"github.com/labstack/echo/v4"
)

// statusForError maps domain sentinel errors to HTTP codes. NotAuthorized is
// intentionally the answer for both "wrong user" and "wrong step" so callers
// cannot probe workflow structure.
func statusForError(err error) int {
	switch {
	case errors.Is(err, expense.ErrNotFound),
		errors.Is(err, approval.ErrNotFound),
		errors.Is(err, company.ErrNotFound),
		errors.Is(err, flow.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, expense.ErrNotAuthorized):
		return http.StatusForbidden
	case errors.Is(err, expense.ErrInvalidState),
		errors.Is(err, flow.ErrNoNextStep),
		errors.Is(err, flow.ErrEscalationNotReady):
		return http.StatusConflict
	case errors.Is(err, expense.ErrInvalidAmount),
		errors.Is(err, flowadmin.ErrInvalidFlow):
		return http.StatusBadRequest
	case errors.Is(err, flow.ErrResolver):
		// flow misconfiguration, the operation aborted with nothing persisted
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c echo.Context, err error) error {
	code := statusForError(err)
	msg := err.Error()
	if code == http.StatusInternalServerError {
		msg = "internal error"
	}
	return c.JSON(code, ErrorResponse{Error: msg})
}
