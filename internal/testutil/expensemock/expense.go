package expensemock

import (
	"context"

	domain "expense-approval-service/internal/domain/expense"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies expense.Repository.
type Repo struct {
	CreateFn                  func(ctx context.Context, e *domain.Expense) error
	SaveFn                    func(ctx context.Context, e *domain.Expense) error
	GetByExpenseIDFn          func(ctx context.Context, expenseID string) (*domain.Expense, error)
	GetByIDFn                 func(ctx context.Context, id uint64) (*domain.Expense, error)
	GetByExpenseIDForUpdateFn func(ctx context.Context, expenseID string) (*domain.Expense, error)
	ListByEmployeeIDFn        func(ctx context.Context, employeeID uint64) ([]domain.Expense, error)
}

func (m *Repo) Create(ctx context.Context, e *domain.Expense) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, e)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, e *domain.Expense) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, e)
	}
	return nil
}
func (m *Repo) GetByExpenseID(ctx context.Context, expenseID string) (*domain.Expense, error) {
	if m.GetByExpenseIDFn != nil {
		return m.GetByExpenseIDFn(ctx, expenseID)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Expense, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByExpenseIDForUpdate(ctx context.Context, expenseID string) (*domain.Expense, error) {
	if m.GetByExpenseIDForUpdateFn != nil {
		return m.GetByExpenseIDForUpdateFn(ctx, expenseID)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByEmployeeID(ctx context.Context, employeeID uint64) ([]domain.Expense, error) {
	if m.ListByEmployeeIDFn != nil {
		return m.ListByEmployeeIDFn(ctx, employeeID)
	}
	return nil, context.Canceled
}
