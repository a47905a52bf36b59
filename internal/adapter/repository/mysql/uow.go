package mysql

import (
	"context"

	"expense-approval-service/internal/domain/expense"
	"expense-approval-service/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func txRepos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Users:     &UserRepository{db: tx},
		Expenses:  &ExpenseRepository{db: tx},
		Approvals: &ApprovalRepository{db: tx},
		Flows:     &FlowRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(txRepos(tx))
	})
}

func (u *GormUoW) WithinExpenseTx(ctx context.Context, expenseID string, fn func(r uow.Repos, e *expense.Expense) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := txRepos(tx)
		// lock the expense row up-front so concurrent decisions serialize
		e, err := r.Expenses.GetByExpenseIDForUpdate(ctx, expenseID)
		if err != nil {
			return err
		}
		return fn(r, e)
	})
}
