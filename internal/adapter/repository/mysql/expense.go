package mysql

import (
	"context"
	"errors"

	expenseDomain "expense-approval-service/internal/domain/expense"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ExpenseRepository struct{ db *gorm.DB }

func NewExpenseRepository(db *gorm.DB) *ExpenseRepository { return &ExpenseRepository{db: db} }

func (r *ExpenseRepository) Create(ctx context.Context, e *expenseDomain.Expense) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *ExpenseRepository) Save(ctx context.Context, e *expenseDomain.Expense) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *ExpenseRepository) GetByExpenseID(ctx context.Context, expenseID string) (*expenseDomain.Expense, error) {
	var out expenseDomain.Expense
	res := r.db.WithContext(ctx).Where("expense_id = ?", expenseID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, expenseDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *ExpenseRepository) GetByID(ctx context.Context, id uint64) (*expenseDomain.Expense, error) {
	var out expenseDomain.Expense
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, expenseDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *ExpenseRepository) GetByExpenseIDForUpdate(ctx context.Context, expenseID string) (*expenseDomain.Expense, error) {
	q := r.db.WithContext(ctx)
	// sqlite has no row locks; its writes serialize anyway
	if q.Dialector.Name() != "sqlite" {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	var out expenseDomain.Expense
	res := q.Where("expense_id = ?", expenseID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, expenseDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *ExpenseRepository) ListByEmployeeID(ctx context.Context, employeeID uint64) ([]expenseDomain.Expense, error) {
	var out []expenseDomain.Expense
	res := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("id DESC").
		Find(&out)
	return out, res.Error
}
