package mysql

import (
	"context"
	"errors"

	flowDomain "expense-approval-service/internal/domain/flow"

	"gorm.io/gorm"
)

type FlowRepository struct{ db *gorm.DB }

func NewFlowRepository(db *gorm.DB) *FlowRepository { return &FlowRepository{db: db} }

func (r *FlowRepository) Create(ctx context.Context, f *flowDomain.Flow) error {
	// gorm cascades Steps and Rules through the associations
	return r.db.WithContext(ctx).Create(f).Error
}

func (r *FlowRepository) Save(ctx context.Context, f *flowDomain.Flow) error {
	return r.db.WithContext(ctx).Omit("Steps", "Rules").Save(f).Error
}

func (r *FlowRepository) withDefinition(q *gorm.DB) *gorm.DB {
	return q.
		Preload("Steps", func(db *gorm.DB) *gorm.DB { return db.Order("step_order ASC") }).
		Preload("Rules", func(db *gorm.DB) *gorm.DB { return db.Order("id ASC") })
}

// GetActiveFlow applies the deterministic selection policy: among the
// company's active flows, lowest id (creation order) wins.
func (r *FlowRepository) GetActiveFlow(ctx context.Context, companyID uint64) (*flowDomain.Flow, error) {
	var out flowDomain.Flow
	res := r.withDefinition(r.db.WithContext(ctx)).
		Where("company_id = ? AND is_active = ?", companyID, true).
		Order("id ASC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, flowDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *FlowRepository) GetByID(ctx context.Context, id uint64) (*flowDomain.Flow, error) {
	var out flowDomain.Flow
	res := r.withDefinition(r.db.WithContext(ctx)).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, flowDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *FlowRepository) GetByFlowID(ctx context.Context, flowID string) (*flowDomain.Flow, error) {
	var out flowDomain.Flow
	res := r.withDefinition(r.db.WithContext(ctx)).Where("flow_id = ?", flowID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, flowDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *FlowRepository) GetStep(ctx context.Context, id uint64) (*flowDomain.Step, error) {
	var out flowDomain.Step
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, flowDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *FlowRepository) DeactivateOthers(ctx context.Context, companyID uint64, keepID uint64) error {
	return r.db.WithContext(ctx).
		Model(&flowDomain.Flow{}).
		Where("company_id = ? AND id <> ? AND is_active = ?", companyID, keepID, true).
		Update("is_active", false).Error
}
