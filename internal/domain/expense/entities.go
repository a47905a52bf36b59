package expense

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("expense not found")
	// Operation attempted on a terminal expense, or a decision replay.
	ErrInvalidState = errors.New("expense is not pending")
	// Acting user has no matching pending approval at the current step.
	// Deliberately the same error for "wrong user" and "wrong step".
	ErrNotAuthorized = errors.New("no pending approval for this user")
	ErrInvalidAmount = errors.New("amount must be greater than zero")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Table: expenses
type Expense struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	ExpenseID string `gorm:"column:expense_id;type:char(32);not null;uniqueIndex"`
	// FK to users.id (submitting employee)
	EmployeeID uint64 `gorm:"column:employee_id;not null;index"`
	// FK to companies.id, denormalized from the employee for per-tenant queries
	CompanyID uint64          `gorm:"column:company_id;not null;index"`
	Amount    decimal.Decimal `gorm:"column:amount;type:decimal(18,2);not null"`
	Currency  string          `gorm:"column:currency;type:char(3);not null"`
	// Amount in the company default currency, for reporting only. Never
	// consulted by routing decisions.
	AmountConverted decimal.NullDecimal `gorm:"column:amount_converted;type:decimal(18,2)"`
	Category        string              `gorm:"column:category;size:64"`
	Description     string              `gorm:"column:description;type:text"`
	ExpenseDate     time.Time           `gorm:"column:expense_date;type:date;not null"`
	Status          Status              `gorm:"column:status;type:enum('pending','approved','rejected');default:'pending'"`
	// FK to approval_steps.id awaiting action; nil when terminal or flow-less.
	CurrentStepID   *uint64        `gorm:"column:current_step_id;index"`
	StatusUpdatedAt time.Time      `gorm:"column:status_updated_at;autoCreateTime"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Expense) TableName() string { return "expenses" }
