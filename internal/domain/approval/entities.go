package approval

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("approval not found")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

// Approval is one approver's pending/decided verdict on an expense.
//
// Table: approvals
type Approval struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	ApprovalID string `gorm:"column:approval_id;type:char(32);not null;uniqueIndex"`
	// FK to expenses.id (numeric)
	ExpenseID uint64 `gorm:"column:expense_id;not null;index"`
	// FK to approval_steps.id; nil for manager-chain approvals that sit
	// outside any flow step.
	StepID *uint64 `gorm:"column:step_id;index"`
	// FK to users.id. For role-resolved placeholders this is rebound to the
	// actual decider at decision time.
	ApproverID uint64 `gorm:"column:approver_id;not null;index"`
	Status     Status `gorm:"column:status;type:enum('pending','approved','rejected');default:'pending'"`
	Comments   string `gorm:"column:comments;type:text"`
	// Set exactly once, on decision.
	DecidedAt *time.Time     `gorm:"column:decided_at"`
	CreatedAt time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Approval) TableName() string { return "approvals" }
