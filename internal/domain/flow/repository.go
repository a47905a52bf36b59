package flow

import "context"

type Repository interface {
	// Create persists the flow together with its steps and rules.
	Create(ctx context.Context, f *Flow) error
	Save(ctx context.Context, f *Flow) error

	// GetActiveFlow picks the company's active flow: lowest numeric id wins,
	// i.e. creation order. Steps come back ordered by step_order, rules by
	// creation order. ErrNotFound when the company has no active flow.
	GetActiveFlow(ctx context.Context, companyID uint64) (*Flow, error)

	// Get by internal numeric id, steps and rules loaded
	GetByID(ctx context.Context, id uint64) (*Flow, error)
	// Get by public flow_id, steps and rules loaded
	GetByFlowID(ctx context.Context, flowID string) (*Flow, error)

	// GetStep loads a single step by numeric id.
	GetStep(ctx context.Context, id uint64) (*Step, error)

	// DeactivateOthers flips is_active off on every other flow of the company.
	DeactivateOthers(ctx context.Context, companyID uint64, keepID uint64) error
}
