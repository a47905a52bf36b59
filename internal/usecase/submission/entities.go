package submission

import (
	"time"

	"github.com/shopspring/decimal"
)

type SubmitInput struct {
	EmployeeID  string // public user_id of the submitting employee
	Amount      decimal.Decimal
	Currency    string
	Category    string
	Description string
	ExpenseDate time.Time
}

type ApprovalDTO struct {
	ApprovalID     string `json:"approval_id"`
	ApproverUserID string `json:"approver_user_id"`
	// nil for manager-chain approvals outside any flow step
	StepOrder *int       `json:"step_order,omitempty"`
	Status    string     `json:"status"`
	Comments  string     `json:"comments,omitempty"`
	DecidedAt *time.Time `json:"decided_at,omitempty"`
}

type ExpenseDTO struct {
	ExpenseID        string           `json:"expense_id"`
	EmployeeUserID   string           `json:"employee_user_id"`
	Amount           decimal.Decimal  `json:"amount"`
	Currency         string           `json:"currency"`
	AmountConverted  *decimal.Decimal `json:"amount_converted,omitempty"`
	Category         string           `json:"category"`
	Description      string           `json:"description"`
	ExpenseDate      time.Time        `json:"expense_date"`
	Status           string           `json:"status"`
	CurrentStepOrder *int             `json:"current_step_order,omitempty"`
	// Operator-facing condition, e.g. the first step resolved to no approvers.
	Warning   string        `json:"warning,omitempty"`
	Approvals []ApprovalDTO `json:"approvals"`
	CreatedAt time.Time     `json:"created_at"`
}
