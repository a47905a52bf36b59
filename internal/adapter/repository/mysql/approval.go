package mysql

import (
	"context"
	"errors"

	approvalDomain "expense-approval-service/internal/domain/approval"
	companyDomain "expense-approval-service/internal/domain/company"
	expenseDomain "expense-approval-service/internal/domain/expense"
	flowDomain "expense-approval-service/internal/domain/flow"

	"gorm.io/gorm"
)

type ApprovalRepository struct{ db *gorm.DB }

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository { return &ApprovalRepository{db: db} }

func (r *ApprovalRepository) Create(ctx context.Context, a *approvalDomain.Approval) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApprovalRepository) Save(ctx context.Context, a *approvalDomain.Approval) error {
	return r.db.WithContext(ctx).Save(a).Error
}

func (r *ApprovalRepository) GetByApprovalID(ctx context.Context, approvalID string) (*approvalDomain.Approval, error) {
	var out approvalDomain.Approval
	res := r.db.WithContext(ctx).Where("approval_id = ?", approvalID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, approvalDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *ApprovalRepository) ListByExpenseID(ctx context.Context, expenseID uint64) ([]approvalDomain.Approval, error) {
	var out []approvalDomain.Approval
	res := r.db.WithContext(ctx).
		Where("expense_id = ?", expenseID).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *ApprovalRepository) ListPendingByExpenseID(ctx context.Context, expenseID uint64) ([]approvalDomain.Approval, error) {
	var out []approvalDomain.Approval
	res := r.db.WithContext(ctx).
		Where("expense_id = ? AND status = ?", expenseID, approvalDomain.StatusPending).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *ApprovalRepository) ListByExpenseStep(ctx context.Context, expenseID uint64, stepID *uint64) ([]approvalDomain.Approval, error) {
	q := r.db.WithContext(ctx).Where("expense_id = ?", expenseID)
	if stepID == nil {
		q = q.Where("step_id IS NULL")
	} else {
		q = q.Where("step_id = ?", *stepID)
	}
	var out []approvalDomain.Approval
	res := q.Order("id ASC").Find(&out)
	return out, res.Error
}

// ListPendingForApprover joins through expenses and steps so that only
// actionable rows come back: the owning expense must still be pending, and
// step-bound approvals must sit at that expense's current step. Manager-chain
// rows (step_id NULL) are actionable for their direct assignee at any point
// while the expense is pending.
func (r *ApprovalRepository) ListPendingForApprover(ctx context.Context, approverID uint64, role companyDomain.Role) ([]approvalDomain.Approval, error) {
	var out []approvalDomain.Approval
	res := r.db.WithContext(ctx).
		Model(&approvalDomain.Approval{}).
		Joins("JOIN expenses ON expenses.id = approvals.expense_id").
		Joins("LEFT JOIN approval_steps ON approval_steps.id = approvals.step_id").
		Where("approvals.status = ?", approvalDomain.StatusPending).
		Where("expenses.status = ?", expenseDomain.StatusPending).
		Where("approvals.step_id IS NULL OR approval_steps.id = expenses.current_step_id").
		Where("approvals.approver_id = ? OR (approval_steps.approver_type = ? AND approval_steps.approver_ref = ?)",
			approverID, flowDomain.ApproverRole, string(role)).
		Order("approvals.id ASC").
		Find(&out)
	return out, res.Error
}
