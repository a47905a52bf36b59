package expense

import "context"

type Repository interface {
	Create(ctx context.Context, e *Expense) error
	Save(ctx context.Context, e *Expense) error

	// Get by public expense_id
	GetByExpenseID(ctx context.Context, expenseID string) (*Expense, error)
	// Get by internal numeric id
	GetByID(ctx context.Context, id uint64) (*Expense, error)
	// Same, but with a row lock (SELECT ... FOR UPDATE) so that concurrent
	// decisions on one expense serialize. Only meaningful inside a tx.
	GetByExpenseIDForUpdate(ctx context.Context, expenseID string) (*Expense, error)

	ListByEmployeeID(ctx context.Context, employeeID uint64) ([]Expense, error)
}
