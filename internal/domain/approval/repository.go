package approval

import (
	"context"

	"expense-approval-service/internal/domain/company"
)

type Repository interface {
	Create(ctx context.Context, a *Approval) error
	Save(ctx context.Context, a *Approval) error

	// Get by public approval_id
	GetByApprovalID(ctx context.Context, approvalID string) (*Approval, error)

	// All approvals of an expense, oldest first
	ListByExpenseID(ctx context.Context, expenseID uint64) ([]Approval, error)
	// Pending approvals of an expense, oldest first
	ListPendingByExpenseID(ctx context.Context, expenseID uint64) ([]Approval, error)
	// All approvals of an expense at one step (stepID nil = manager-chain rows)
	ListByExpenseStep(ctx context.Context, expenseID uint64, stepID *uint64) ([]Approval, error)

	// Actionable pending approvals for a user: directly assigned ones, plus
	// role-step placeholders at the owning expense's current step whose step
	// role matches the user's role. Terminal expenses are excluded.
	ListPendingForApprover(ctx context.Context, approverID uint64, role company.Role) ([]Approval, error)
}
