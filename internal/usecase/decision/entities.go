package decision

import (
	"time"

	"github.com/shopspring/decimal"
)

// Outcome messages exposed to callers.
const (
	MsgFullyApproved = "Expense fully approved"
	MsgStepApproved  = "Step approved successfully"
	MsgRejected      = "Expense rejected"
	MsgEscalated     = "Step escalated to next approver"
	MsgNoNextStep    = "No next step available for escalation"
)

type DecisionInput struct {
	ExpenseID    string
	ActingUserID string // public user_id of the decider
	Comments     string
}

type EscalateInput struct {
	ExpenseID    string
	ActingUserID string
	// 0 targets the current step
	TargetStepOrder int
	Comments        string
}

type DecisionDTO struct {
	ExpenseID        string `json:"expense_id"`
	Status           string `json:"status"`
	CurrentStepOrder *int   `json:"current_step_order,omitempty"`
	Message          string `json:"message"`
	// Operator-facing condition, e.g. a step that resolved to no approvers.
	Warning            string `json:"warning,omitempty"`
	FallbackApprovalID string `json:"fallback_approval_id,omitempty"`
}

type PendingApprovalDTO struct {
	ApprovalID string          `json:"approval_id"`
	ExpenseID  string          `json:"expense_id"`
	StepOrder  *int            `json:"step_order,omitempty"`
	Amount     decimal.Decimal `json:"amount"`
	Currency   string          `json:"currency"`
	Category   string          `json:"category"`
	CreatedAt  time.Time       `json:"created_at"`
}
