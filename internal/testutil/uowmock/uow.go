package uowmock

import (
	"context"
	"errors"

	"expense-approval-service/internal/domain/expense"
	"expense-approval-service/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinExpenseTxFn func(ctx context.Context, expenseID string, fn func(r uow.Repos, e *expense.Expense) error) error
}

// Convenience fluent setters
func New() *UoW { return &UoW{} }
func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}
func (m *UoW) WithWithinExpenseTx(fn func(context.Context, string, func(uow.Repos, *expense.Expense) error) error) *UoW {
	m.WithinExpenseTxFn = fn
	return m
}
func (m *UoW) Reset() { *m = UoW{} }

// Methods implementing UnitOfWork
func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
func (m *UoW) WithinExpenseTx(ctx context.Context, expenseID string, fn func(r uow.Repos, e *expense.Expense) error) error {
	if m.WithinExpenseTxFn != nil {
		return m.WithinExpenseTxFn(ctx, expenseID, fn)
	}
	return errUnimplemented
}

// Passthrough returns a UoW whose tx methods simply invoke the callback with
// the given repos and, for WithinExpenseTx, the expense loaded via
// GetByExpenseIDForUpdate. Handy when the test only cares about repo behavior.
func Passthrough(r uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(ctx context.Context, fn func(uow.Repos) error) error {
			return fn(r)
		},
		WithinExpenseTxFn: func(ctx context.Context, expenseID string, fn func(uow.Repos, *expense.Expense) error) error {
			e, err := r.Expenses.GetByExpenseIDForUpdate(ctx, expenseID)
			if err != nil {
				return err
			}
			return fn(r, e)
		},
	}
}
