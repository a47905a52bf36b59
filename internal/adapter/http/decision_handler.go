package http

import (
	"errors"
	"net/http"

	"expense-approval-service/internal/domain/flow"
	"expense-approval-service/internal/usecase/decision"

	"github.com/labstack/echo/v4"
)

type DecisionHandler struct{ uc *decision.Usecase }

func NewDecisionHandler(uc *decision.Usecase) *DecisionHandler { return &DecisionHandler{uc: uc} }

type decisionReq struct {
	Comments string `json:"comments" validate:"omitempty,max=2000"`
}

type escalateReq struct {
	TargetStepOrder int    `json:"target_step_order" validate:"omitempty,gte=1"`
	Comments        string `json:"comments"          validate:"omitempty,max=2000"`
}

func (h *DecisionHandler) bindDecision(c echo.Context) (decision.DecisionInput, *ErrorResponse) {
	actor := actingUserID(c)
	if actor == "" {
		return decision.DecisionInput{}, &ErrorResponse{Error: "missing " + HeaderActingUser + " header"}
	}
	expenseID := c.Param("expense_id")
	if expenseID == "" {
		return decision.DecisionInput{}, &ErrorResponse{Error: "missing expense_id path param"}
	}
	var req decisionReq
	if err := c.Bind(&req); err != nil {
		return decision.DecisionInput{}, &ErrorResponse{Error: "invalid body"}
	}
	return decision.DecisionInput{ExpenseID: expenseID, ActingUserID: actor, Comments: req.Comments}, nil
}

func (h *DecisionHandler) Approve(c echo.Context) error {
	in, badReq := h.bindDecision(c)
	if badReq != nil {
		return c.JSON(http.StatusBadRequest, badReq)
	}
	dto, err := h.uc.Approve(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DecisionHandler) Reject(c echo.Context) error {
	in, badReq := h.bindDecision(c)
	if badReq != nil {
		return c.JSON(http.StatusBadRequest, badReq)
	}
	dto, err := h.uc.Reject(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DecisionHandler) Escalate(c echo.Context) error {
	actor := actingUserID(c)
	if actor == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + HeaderActingUser + " header"})
	}
	expenseID := c.Param("expense_id")
	if expenseID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing expense_id path param"})
	}
	var req escalateReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	dto, err := h.uc.Escalate(c.Request().Context(), decision.EscalateInput{
		ExpenseID:       expenseID,
		ActingUserID:    actor,
		TargetStepOrder: req.TargetStepOrder,
		Comments:        req.Comments,
	})
	// the no-next-step outcome is dual: a fallback approval may have been
	// committed even though escalating forward was impossible
	if errors.Is(err, flow.ErrNoNextStep) && dto != nil {
		return c.JSON(http.StatusConflict, dto)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}

func (h *DecisionHandler) PendingApprovals(c echo.Context) error {
	actor := actingUserID(c)
	if actor == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + HeaderActingUser + " header"})
	}
	out, err := h.uc.PendingForApprover(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]any{"approvals": out})
}
