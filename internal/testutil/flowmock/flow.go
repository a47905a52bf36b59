package flowmock

import (
	"context"

	domain "expense-approval-service/internal/domain/flow"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies flow.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, f *domain.Flow) error
	SaveFn             func(ctx context.Context, f *domain.Flow) error
	GetActiveFlowFn    func(ctx context.Context, companyID uint64) (*domain.Flow, error)
	GetByIDFn          func(ctx context.Context, id uint64) (*domain.Flow, error)
	GetByFlowIDFn      func(ctx context.Context, flowID string) (*domain.Flow, error)
	GetStepFn          func(ctx context.Context, id uint64) (*domain.Step, error)
	DeactivateOthersFn func(ctx context.Context, companyID uint64, keepID uint64) error
}

func (m *Repo) Create(ctx context.Context, f *domain.Flow) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, f)
	}
	return nil
}
func (m *Repo) Save(ctx context.Context, f *domain.Flow) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, f)
	}
	return nil
}
func (m *Repo) GetActiveFlow(ctx context.Context, companyID uint64) (*domain.Flow, error) {
	if m.GetActiveFlowFn != nil {
		return m.GetActiveFlowFn(ctx, companyID)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.Flow, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByFlowID(ctx context.Context, flowID string) (*domain.Flow, error) {
	if m.GetByFlowIDFn != nil {
		return m.GetByFlowIDFn(ctx, flowID)
	}
	return nil, context.Canceled
}
func (m *Repo) GetStep(ctx context.Context, id uint64) (*domain.Step, error) {
	if m.GetStepFn != nil {
		return m.GetStepFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) DeactivateOthers(ctx context.Context, companyID uint64, keepID uint64) error {
	if m.DeactivateOthersFn != nil {
		return m.DeactivateOthersFn(ctx, companyID, keepID)
	}
	return nil
}
