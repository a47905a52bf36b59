package http

import (
	"net/http"
	"time"

	"expense-approval-service/internal/usecase/submission"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type ExpenseHandler struct{ uc *submission.Usecase }

func NewExpenseHandler(uc *submission.Usecase) *ExpenseHandler { return &ExpenseHandler{uc: uc} }

type submitExpenseReq struct {
	Amount      float64 `json:"amount"       validate:"required,gt=0,dec2"`
	Currency    string  `json:"currency"     validate:"required,currency3"`
	Category    string  `json:"category"     validate:"required"`
	Description string  `json:"description"`
	// Canonical date `YYYY-MM-DD`; defaults to today when omitted
	ExpenseDate string `json:"expense_date" validate:"omitempty,datetime=2006-01-02"`
}

func (h *ExpenseHandler) SubmitExpense(c echo.Context) error {
	actor := actingUserID(c)
	if actor == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + HeaderActingUser + " header"})
	}
	var req submitExpenseReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := submission.SubmitInput{
		EmployeeID:  actor,
		Amount:      decimal.NewFromFloat(req.Amount),
		Currency:    req.Currency,
		Category:    req.Category,
		Description: req.Description,
	}
	if req.ExpenseDate != "" {
		d, _ := time.Parse("2006-01-02", req.ExpenseDate)
		in.ExpenseDate = d.UTC()
	}

	dto, err := h.uc.Submit(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *ExpenseHandler) GetExpense(c echo.Context) error {
	actor := actingUserID(c)
	if actor == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + HeaderActingUser + " header"})
	}
	expenseID := c.Param("expense_id")
	if expenseID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing expense_id path param"})
	}
	dto, err := h.uc.Get(c.Request().Context(), expenseID, actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
