package flowadmin

import (
	"context"
	"errors"
	"fmt"

	"expense-approval-service/internal/domain/company"
	domainExpense "expense-approval-service/internal/domain/expense"
	"expense-approval-service/internal/domain/flow"
	"expense-approval-service/internal/domain/uow"
	"expense-approval-service/pkg/id"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var ErrInvalidFlow = errors.New("invalid flow definition")

// Usecase manages flow definitions. Flows are immutable once created except
// for deactivation, which is how a company retires a flow without breaking
// the expenses already routed through it.
type Usecase struct {
	repos uow.Repos
	uow   uow.UnitOfWork
	log   *zap.Logger
}

func NewUsecase(r uow.Repos, tx uow.UnitOfWork, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repos: r, uow: tx, log: log}
}

func (u *Usecase) Create(ctx context.Context, in CreateFlowInput) (*FlowDTO, error) {
	f, err := buildFlow(in)
	if err != nil {
		return nil, err
	}
	var dto *FlowDTO

	err = u.uow.WithinTx(ctx, func(r uow.Repos) error {
		actor, err := r.Users.GetByUserID(ctx, in.ActingUserID)
		if err != nil {
			if errors.Is(err, company.ErrNotFound) {
				return domainExpense.ErrNotAuthorized
			}
			return err
		}
		if actor.Role != company.RoleAdmin {
			return domainExpense.ErrNotAuthorized
		}
		f.CompanyID = actor.CompanyID

		// USER-type references must resolve inside the company up-front,
		// rather than failing submissions later
		for _, s := range f.Steps {
			if s.ApproverType != flow.ApproverUser {
				continue
			}
			ref, err := r.Users.GetByUserID(ctx, s.ApproverRef)
			if err != nil {
				if errors.Is(err, company.ErrNotFound) {
					return fmt.Errorf("%w: step %d references unknown user %s", ErrInvalidFlow, s.StepOrder, s.ApproverRef)
				}
				return err
			}
			if ref.CompanyID != actor.CompanyID {
				return fmt.Errorf("%w: step %d references a user outside the company", ErrInvalidFlow, s.StepOrder)
			}
		}

		if err := r.Flows.Create(ctx, f); err != nil {
			return err
		}
		if in.Activate {
			if err := r.Flows.DeactivateOthers(ctx, actor.CompanyID, f.ID); err != nil {
				return err
			}
		}
		u.log.Info("approval flow created",
			zap.String("flow_id", f.FlowID),
			zap.Int("steps", len(f.Steps)),
			zap.Int("rules", len(f.Rules)))
		dto = flowDTO(f)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Deactivate retires a flow; in-flight expenses keep their step links.
func (u *Usecase) Deactivate(ctx context.Context, actingUserID, flowID string) error {
	return u.uow.WithinTx(ctx, func(r uow.Repos) error {
		actor, err := r.Users.GetByUserID(ctx, actingUserID)
		if err != nil {
			if errors.Is(err, company.ErrNotFound) {
				return domainExpense.ErrNotAuthorized
			}
			return err
		}
		if actor.Role != company.RoleAdmin {
			return domainExpense.ErrNotAuthorized
		}
		f, err := r.Flows.GetByFlowID(ctx, flowID)
		if err != nil {
			return err
		}
		if f.CompanyID != actor.CompanyID {
			return flow.ErrNotFound
		}
		if !f.IsActive {
			return nil
		}
		f.IsActive = false
		return r.Flows.Save(ctx, f)
	})
}

// GetActive returns the flow new expenses of the actor's company would route
// through.
func (u *Usecase) GetActive(ctx context.Context, actingUserID string) (*FlowDTO, error) {
	actor, err := u.repos.Users.GetByUserID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	f, err := u.repos.Flows.GetActiveFlow(ctx, actor.CompanyID)
	if err != nil {
		return nil, err
	}
	return flowDTO(f), nil
}

func buildFlow(in CreateFlowInput) (*flow.Flow, error) {
	if in.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidFlow)
	}
	seq := flow.SequenceType(in.SequenceType)
	if seq == "" {
		seq = flow.SequenceSequential
	}
	if seq != flow.SequenceSequential && seq != flow.SequenceParallel {
		return nil, fmt.Errorf("%w: unknown sequence type %q", ErrInvalidFlow, in.SequenceType)
	}
	pct := in.MinApprovalPercentage
	if pct == 0 {
		pct = 100
	}
	if pct < 1 || pct > 100 {
		return nil, fmt.Errorf("%w: min approval percentage must be within 1-100", ErrInvalidFlow)
	}
	if len(in.Steps) == 0 {
		return nil, fmt.Errorf("%w: at least one step is required", ErrInvalidFlow)
	}

	f := &flow.Flow{
		FlowID:                id.NewID32(),
		Name:                  in.Name,
		IsActive:              in.Activate,
		SequenceType:          seq,
		MinApprovalPercentage: pct,
	}

	seen := make(map[int]bool, len(in.Steps))
	for _, s := range in.Steps {
		if s.StepOrder <= 0 {
			return nil, fmt.Errorf("%w: step order must be positive", ErrInvalidFlow)
		}
		if seen[s.StepOrder] {
			return nil, fmt.Errorf("%w: duplicate step order %d", ErrInvalidFlow, s.StepOrder)
		}
		seen[s.StepOrder] = true
		if s.CanEscalateIn < 0 {
			return nil, fmt.Errorf("%w: can_escalate_in cannot be negative", ErrInvalidFlow)
		}
		switch flow.ApproverType(s.ApproverType) {
		case flow.ApproverUser:
			if !id.Valid(s.ApproverRef) {
				return nil, fmt.Errorf("%w: step %d user reference must be a 32-char hex id", ErrInvalidFlow, s.StepOrder)
			}
		case flow.ApproverRole:
			if !company.Role(s.ApproverRef).Valid() {
				return nil, fmt.Errorf("%w: step %d references unknown role %q", ErrInvalidFlow, s.StepOrder, s.ApproverRef)
			}
		default:
			return nil, fmt.Errorf("%w: step %d has unknown approver type %q", ErrInvalidFlow, s.StepOrder, s.ApproverType)
		}
		f.Steps = append(f.Steps, flow.Step{
			StepOrder:     s.StepOrder,
			ApproverType:  flow.ApproverType(s.ApproverType),
			ApproverRef:   s.ApproverRef,
			CanEscalateIn: s.CanEscalateIn,
		})
	}

	for _, rin := range in.Rules {
		rule := flow.Rule{RuleType: flow.RuleType(rin.RuleType)}
		switch rule.RuleType {
		case flow.RulePercentage:
			if rin.Threshold == nil || !rin.Threshold.IsPositive() {
				return nil, fmt.Errorf("%w: percentage rule needs a positive threshold", ErrInvalidFlow)
			}
			rule.Threshold = decimal.NewNullDecimal(*rin.Threshold)
		case flow.RuleSpecificApprover:
			if !id.Valid(rin.ApproverRef) {
				return nil, fmt.Errorf("%w: specific-approver rule needs a 32-char hex user id", ErrInvalidFlow)
			}
			rule.ApproverRef = rin.ApproverRef
			rule.SkipRemaining = rin.SkipRemaining
		case flow.RuleHybrid:
			// accepted but inert
		default:
			return nil, fmt.Errorf("%w: unknown rule type %q", ErrInvalidFlow, rin.RuleType)
		}
		f.Rules = append(f.Rules, rule)
	}
	return f, nil
}

func flowDTO(f *flow.Flow) *FlowDTO {
	dto := &FlowDTO{
		FlowID:                f.FlowID,
		Name:                  f.Name,
		IsActive:              f.IsActive,
		SequenceType:          string(f.SequenceType),
		MinApprovalPercentage: f.MinApprovalPercentage,
		Steps:                 make([]StepInput, 0, len(f.Steps)),
		Rules:                 make([]RuleDTO, 0, len(f.Rules)),
	}
	for _, s := range f.Steps {
		dto.Steps = append(dto.Steps, StepInput{
			StepOrder:     s.StepOrder,
			ApproverType:  string(s.ApproverType),
			ApproverRef:   s.ApproverRef,
			CanEscalateIn: s.CanEscalateIn,
		})
	}
	for _, r := range f.Rules {
		rd := RuleDTO{
			RuleType:      string(r.RuleType),
			ApproverRef:   r.ApproverRef,
			SkipRemaining: r.SkipRemaining,
		}
		if r.Threshold.Valid {
			th := r.Threshold.Decimal
			rd.Threshold = &th
		}
		dto.Rules = append(dto.Rules, rd)
	}
	return dto
}
