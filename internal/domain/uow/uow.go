package uow

import (
	"context"

	"expense-approval-service/internal/domain/approval"
	"expense-approval-service/internal/domain/company"
	"expense-approval-service/internal/domain/expense"
	"expense-approval-service/internal/domain/flow"
)

type Repos struct {
	Users     company.Repository
	Expenses  expense.Repository
	Approvals approval.Repository
	Flows     flow.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// convenience: lock the expense row first, then pass it in. This is the
	// serialization point for concurrent decisions on one expense.
	WithinExpenseTx(ctx context.Context, expenseID string, fn func(r Repos, e *expense.Expense) error) error
}
