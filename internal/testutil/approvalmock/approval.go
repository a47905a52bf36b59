package approvalmock

import (
	"context"

	domain "expense-approval-service/internal/domain/approval"
	"expense-approval-service/internal/domain/company"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies approval.Repository.
type Repo struct {
	CreateFn                 func(ctx context.Context, a *domain.Approval) error
	SaveFn                   func(ctx context.Context, a *domain.Approval) error
	GetByApprovalIDFn        func(ctx context.Context, approvalID string) (*domain.Approval, error)
	ListByExpenseIDFn        func(ctx context.Context, expenseID uint64) ([]domain.Approval, error)
	ListPendingByExpenseIDFn func(ctx context.Context, expenseID uint64) ([]domain.Approval, error)
	ListByExpenseStepFn      func(ctx context.Context, expenseID uint64, stepID *uint64) ([]domain.Approval, error)
	ListPendingForApproverFn func(ctx context.Context, approverID uint64, role company.Role) ([]domain.Approval, error)
}

func (m *Repo) Create(ctx context.Context, a *domain.Approval) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, a *domain.Approval) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, a)
	}
	return nil
}
func (m *Repo) GetByApprovalID(ctx context.Context, approvalID string) (*domain.Approval, error) {
	if m.GetByApprovalIDFn != nil {
		return m.GetByApprovalIDFn(ctx, approvalID)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByExpenseID(ctx context.Context, expenseID uint64) ([]domain.Approval, error) {
	if m.ListByExpenseIDFn != nil {
		return m.ListByExpenseIDFn(ctx, expenseID)
	}
	return nil, context.Canceled
}
func (m *Repo) ListPendingByExpenseID(ctx context.Context, expenseID uint64) ([]domain.Approval, error) {
	if m.ListPendingByExpenseIDFn != nil {
		return m.ListPendingByExpenseIDFn(ctx, expenseID)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByExpenseStep(ctx context.Context, expenseID uint64, stepID *uint64) ([]domain.Approval, error) {
	if m.ListByExpenseStepFn != nil {
		return m.ListByExpenseStepFn(ctx, expenseID, stepID)
	}
	return nil, context.Canceled
}
func (m *Repo) ListPendingForApprover(ctx context.Context, approverID uint64, role company.Role) ([]domain.Approval, error) {
	if m.ListPendingForApproverFn != nil {
		return m.ListPendingForApproverFn(ctx, approverID, role)
	}
	return nil, context.Canceled
}
