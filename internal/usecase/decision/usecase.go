package decision

import (
	"context"
	"errors"
	"fmt"
	"time"

	domainApproval "expense-approval-service/internal/domain/approval"
	"expense-approval-service/internal/domain/company"
	domainExpense "expense-approval-service/internal/domain/expense"
	"expense-approval-service/internal/domain/flow"
	"expense-approval-service/internal/domain/uow"
	"expense-approval-service/pkg/id"

	"go.uber.org/zap"
)

// Usecase is the approval state machine: it drives an expense through its
// flow one decision at a time. Every mutating operation runs inside a single
// expense-locked transaction, so at most one terminal or step-advancing
// transition commits per expense for any set of concurrent attempts.
type Usecase struct {
	repos uow.Repos
	uow   uow.UnitOfWork
	log   *zap.Logger
	// unit for Step.CanEscalateIn; minutes unless configured otherwise
	escalateUnit time.Duration
}

// NewUsecase: direct repos serve the read paths, the UoW serves decisions.
func NewUsecase(r uow.Repos, tx uow.UnitOfWork, log *zap.Logger, escalateUnit time.Duration) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	if escalateUnit <= 0 {
		escalateUnit = time.Minute
	}
	return &Usecase{repos: r, uow: tx, log: log, escalateUnit: escalateUnit}
}

// Approve marks the acting user's pending approval approved, then either
// keeps the step open (parallel step below its percentage), advances to the
// next step, or finishes the flow. Conditional rules are evaluated first and
// their outcome takes precedence: a firing rule finishes the flow, so no
// later step is ever materialized by that decision.
func (u *Usecase) Approve(ctx context.Context, in DecisionInput) (*DecisionDTO, error) {
	if u.uow == nil {
		return nil, domainExpense.ErrInvalidState
	}
	var dto *DecisionDTO

	err := u.uow.WithinExpenseTx(ctx, in.ExpenseID, func(r uow.Repos, e *domainExpense.Expense) error {
		actor, flw, step, err := u.guardDecision(ctx, r, e, in.ActingUserID)
		if err != nil {
			return err
		}
		matched, err := matchPendingApproval(ctx, r, e, actor, step)
		if err != nil {
			return err
		}
		if matched == nil {
			return domainExpense.ErrNotAuthorized
		}

		now := time.Now().UTC()
		decide(matched, domainApproval.StatusApproved, actor.ID, in.Comments, now)
		if err := r.Approvals.Save(ctx, matched); err != nil {
			return err
		}

		msg := MsgStepApproved
		warning := ""
		switch {
		// rules run before any advancement; an auto-approve outcome ends the
		// flow here and leaves the remaining steps without approval rows
		case flw != nil && flow.EvaluateRules(flw.Rules, e.Amount, in.ActingUserID) == flow.OutcomeAutoApprove:
			finalize(e, domainExpense.StatusApproved, now)
			msg = MsgFullyApproved

		// advancement applies only when the decided approval sits at the
		// current flow step; manager-chain decisions don't move the step
		case step != nil && matched.StepID != nil && *matched.StepID == step.ID:
			done, err := stepComplete(ctx, r, e, flw, step)
			if err != nil {
				return err
			}
			if !done {
				break
			}
			if next := flw.NextStep(step.StepOrder); next != nil {
				e.CurrentStepID = &next.ID
				total, err := u.materializeStep(ctx, r, e, next)
				if err != nil {
					return err
				}
				if total == 0 {
					warning = noApproversWarning(next)
					u.log.Warn("step resolved to no approvers",
						zap.String("expense_id", e.ExpenseID),
						zap.Int("step_order", next.StepOrder),
						zap.String("approver_ref", next.ApproverRef))
				}
			} else {
				finalize(e, domainExpense.StatusApproved, now)
				msg = MsgFullyApproved
			}
		}

		if err := r.Expenses.Save(ctx, e); err != nil {
			return err
		}
		dto = decisionDTO(e, flw, msg, warning)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Reject is always terminal: a single rejection at any step ends the flow.
// No rule evaluation, no advancement.
func (u *Usecase) Reject(ctx context.Context, in DecisionInput) (*DecisionDTO, error) {
	if u.uow == nil {
		return nil, domainExpense.ErrInvalidState
	}
	var dto *DecisionDTO

	err := u.uow.WithinExpenseTx(ctx, in.ExpenseID, func(r uow.Repos, e *domainExpense.Expense) error {
		actor, flw, step, err := u.guardDecision(ctx, r, e, in.ActingUserID)
		if err != nil {
			return err
		}
		matched, err := matchPendingApproval(ctx, r, e, actor, step)
		if err != nil {
			return err
		}
		if matched == nil {
			return domainExpense.ErrNotAuthorized
		}

		now := time.Now().UTC()
		decide(matched, domainApproval.StatusRejected, actor.ID, in.Comments, now)
		if err := r.Approvals.Save(ctx, matched); err != nil {
			return err
		}

		finalize(e, domainExpense.StatusRejected, now)
		if err := r.Expenses.Save(ctx, e); err != nil {
			return err
		}
		dto = decisionDTO(e, flw, MsgRejected, "")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Escalate forces an expense past a stalled step. Admin only. When a next
// step exists, the target step's pending approvals are rejected with an
// escalation comment and the next step is materialized. On the last step the
// operation deliberately has a dual outcome: a fallback admin approval may be
// created at the same step, and flow.ErrNoNextStep is still returned
// alongside the DTO.
func (u *Usecase) Escalate(ctx context.Context, in EscalateInput) (*DecisionDTO, error) {
	if u.uow == nil {
		return nil, domainExpense.ErrInvalidState
	}
	var (
		dto    *DecisionDTO
		noNext bool
	)

	err := u.uow.WithinExpenseTx(ctx, in.ExpenseID, func(r uow.Repos, e *domainExpense.Expense) error {
		if e.Status != domainExpense.StatusPending {
			return domainExpense.ErrInvalidState
		}
		actor, err := r.Users.GetByUserID(ctx, in.ActingUserID)
		if err != nil {
			if errors.Is(err, company.ErrNotFound) {
				return domainExpense.ErrNotAuthorized
			}
			return err
		}
		if actor.CompanyID != e.CompanyID || actor.Role != company.RoleAdmin {
			return domainExpense.ErrNotAuthorized
		}

		flw, current, err := loadFlowContext(ctx, r, e)
		if err != nil {
			return err
		}
		if flw == nil || current == nil {
			return flow.ErrNotFound
		}
		target := current
		if in.TargetStepOrder > 0 {
			if target = flw.StepByOrder(in.TargetStepOrder); target == nil {
				return flow.ErrNotFound
			}
		}

		now := time.Now().UTC()
		pendingAtStep, err := pendingRows(ctx, r, e, target)
		if err != nil {
			return err
		}
		if err := u.checkEscalatable(target, pendingAtStep, now); err != nil {
			return err
		}

		comment := in.Comments
		if comment == "" {
			comment = "escalated past step"
		}

		if next := flw.NextStep(target.StepOrder); next != nil {
			// decided, not silently discarded
			for i := range pendingAtStep {
				a := &pendingAtStep[i]
				decide(a, domainApproval.StatusRejected, a.ApproverID, comment, now)
				if err := r.Approvals.Save(ctx, a); err != nil {
					return err
				}
			}
			e.CurrentStepID = &next.ID
			total, err := u.materializeStep(ctx, r, e, next)
			if err != nil {
				return err
			}
			warning := ""
			if total == 0 {
				warning = noApproversWarning(next)
				u.log.Warn("escalation target step resolved to no approvers",
					zap.String("expense_id", e.ExpenseID),
					zap.Int("step_order", next.StepOrder))
			}
			if err := r.Expenses.Save(ctx, e); err != nil {
				return err
			}
			dto = decisionDTO(e, flw, MsgEscalated, warning)
			return nil
		}

		// no step after the target: try a fallback admin at the same step
		noNext = true
		dto = decisionDTO(e, flw, MsgNoNextStep, "")
		fb, err := r.Users.FindFallbackAdmin(ctx, e.CompanyID, actor.ID)
		if err != nil {
			if errors.Is(err, company.ErrNotFound) {
				return nil
			}
			return err
		}
		if fb.ID == e.EmployeeID || hasPendingFor(pendingAtStep, fb.ID) {
			return nil
		}
		a := &domainApproval.Approval{
			ApprovalID: id.NewID32(),
			ExpenseID:  e.ID,
			StepID:     &target.ID,
			ApproverID: fb.ID,
			Status:     domainApproval.StatusPending,
		}
		if err := r.Approvals.Create(ctx, a); err != nil {
			return err
		}
		dto.FallbackApprovalID = a.ApprovalID
		return nil
	})
	if err != nil {
		return nil, err
	}
	if noNext {
		return dto, flow.ErrNoNextStep
	}
	return dto, nil
}

// PendingForApprover lists the acting user's actionable approvals: direct
// assignments plus role-step placeholders at each expense's current step.
func (u *Usecase) PendingForApprover(ctx context.Context, actingUserID string) ([]PendingApprovalDTO, error) {
	actor, err := u.repos.Users.GetByUserID(ctx, actingUserID)
	if err != nil {
		return nil, err
	}
	rows, err := u.repos.Approvals.ListPendingForApprover(ctx, actor.ID, actor.Role)
	if err != nil {
		return nil, err
	}
	out := make([]PendingApprovalDTO, 0, len(rows))
	for _, a := range rows {
		e, err := u.repos.Expenses.GetByID(ctx, a.ExpenseID)
		if err != nil {
			return nil, err
		}
		dto := PendingApprovalDTO{
			ApprovalID: a.ApprovalID,
			ExpenseID:  e.ExpenseID,
			Amount:     e.Amount,
			Currency:   e.Currency,
			Category:   e.Category,
			CreatedAt:  a.CreatedAt,
		}
		if a.StepID != nil {
			step, err := u.repos.Flows.GetStep(ctx, *a.StepID)
			if err != nil {
				return nil, err
			}
			dto.StepOrder = &step.StepOrder
		}
		out = append(out, dto)
	}
	return out, nil
}

// ---- shared transition helpers ----

// guardDecision re-checks the Approve/Reject preconditions and loads the
// transition context; both operations share it so the checks never diverge.
func (u *Usecase) guardDecision(ctx context.Context, r uow.Repos, e *domainExpense.Expense, actingUserID string) (*company.User, *flow.Flow, *flow.Step, error) {
	if e.Status != domainExpense.StatusPending {
		return nil, nil, nil, domainExpense.ErrInvalidState
	}
	actor, err := r.Users.GetByUserID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return nil, nil, nil, domainExpense.ErrNotAuthorized
		}
		return nil, nil, nil, err
	}
	if actor.CompanyID != e.CompanyID || actor.ID == e.EmployeeID {
		// wrong tenant, or an employee trying to decide their own expense
		return nil, nil, nil, domainExpense.ErrNotAuthorized
	}
	flw, step, err := loadFlowContext(ctx, r, e)
	if err != nil {
		return nil, nil, nil, err
	}
	return actor, flw, step, nil
}

// loadFlowContext resolves the expense's current step and its owning flow
// (steps + rules). Both are nil for flow-less expenses.
func loadFlowContext(ctx context.Context, r uow.Repos, e *domainExpense.Expense) (*flow.Flow, *flow.Step, error) {
	if e.CurrentStepID == nil {
		return nil, nil, nil
	}
	step, err := r.Flows.GetStep(ctx, *e.CurrentStepID)
	if err != nil {
		return nil, nil, err
	}
	flw, err := r.Flows.GetByID(ctx, step.FlowID)
	if err != nil {
		return nil, nil, err
	}
	return flw, flw.StepByID(step.ID), nil
}

// matchPendingApproval is the single predicate both Approve and Reject use:
// a pending approval assigned to the actor directly (at the current step or
// the step-less manager-chain row), or any placeholder at the current ROLE
// step whose role matches the actor's.
func matchPendingApproval(ctx context.Context, r uow.Repos, e *domainExpense.Expense, actor *company.User, step *flow.Step) (*domainApproval.Approval, error) {
	pendings, err := r.Approvals.ListPendingByExpenseID(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	for i := range pendings {
		a := &pendings[i]
		if a.ApproverID != actor.ID {
			continue
		}
		if a.StepID == nil {
			return a, nil
		}
		if step != nil && *a.StepID == step.ID {
			return a, nil
		}
	}
	if step != nil && step.ApproverType == flow.ApproverRole && string(actor.Role) == step.ApproverRef {
		rows, err := r.Approvals.ListByExpenseStep(ctx, e.ID, &step.ID)
		if err != nil {
			return nil, err
		}
		// a decider who already voted at this step must not claim a peer's
		// placeholder; a replay is an invalid transition, not a new vote
		for i := range rows {
			if rows[i].Status != domainApproval.StatusPending && rows[i].ApproverID == actor.ID {
				return nil, domainExpense.ErrInvalidState
			}
		}
		for i := range pendings {
			a := &pendings[i]
			if a.StepID != nil && *a.StepID == step.ID {
				return a, nil
			}
		}
	}
	return nil, nil
}

func decide(a *domainApproval.Approval, st domainApproval.Status, approverID uint64, comments string, now time.Time) {
	a.Status = st
	a.ApproverID = approverID
	if comments != "" {
		a.Comments = comments
	}
	a.DecidedAt = &now
}

func finalize(e *domainExpense.Expense, st domainExpense.Status, now time.Time) {
	e.Status = st
	e.CurrentStepID = nil
	e.StatusUpdatedAt = now
}

// stepComplete decides whether the current step is satisfied after one more
// approval. Sequential flows advance on the first approval at the step;
// parallel flows wait for min_approval_percentage of the step's approvers.
func stepComplete(ctx context.Context, r uow.Repos, e *domainExpense.Expense, flw *flow.Flow, step *flow.Step) (bool, error) {
	if flw.SequenceType != flow.SequenceParallel {
		return true, nil
	}
	rows, err := r.Approvals.ListByExpenseStep(ctx, e.ID, &step.ID)
	if err != nil {
		return false, err
	}
	if len(rows) == 0 {
		return true, nil
	}
	approved := 0
	for _, a := range rows {
		if a.Status == domainApproval.StatusApproved {
			approved++
		}
	}
	required := flw.MinApprovalPercentage
	if required <= 0 || required > 100 {
		required = 100
	}
	return approved*100 >= required*len(rows), nil
}

// materializeStep re-resolves the step's approvers and creates pending rows
// for those who lack one, never the submitting employee. Returns the number
// of approval rows at the step afterwards; zero means the step stands with
// no approvals and the condition must be surfaced.
func (u *Usecase) materializeStep(ctx context.Context, r uow.Repos, e *domainExpense.Expense, step *flow.Step) (int, error) {
	resolved, err := flow.ResolveStepApprovers(ctx, r.Users, *step, e.CompanyID, e.EmployeeID)
	if err != nil {
		return 0, err
	}
	existing, err := r.Approvals.ListByExpenseStep(ctx, e.ID, &step.ID)
	if err != nil {
		return 0, err
	}
	have := make(map[uint64]bool, len(existing))
	for _, a := range existing {
		have[a.ApproverID] = true
	}
	created := 0
	for _, usr := range resolved {
		if have[usr.ID] {
			continue
		}
		a := &domainApproval.Approval{
			ApprovalID: id.NewID32(),
			ExpenseID:  e.ID,
			StepID:     &step.ID,
			ApproverID: usr.ID,
			Status:     domainApproval.StatusPending,
		}
		if err := r.Approvals.Create(ctx, a); err != nil {
			return 0, err
		}
		created++
	}
	return len(existing) + created, nil
}

func pendingRows(ctx context.Context, r uow.Repos, e *domainExpense.Expense, step *flow.Step) ([]domainApproval.Approval, error) {
	rows, err := r.Approvals.ListByExpenseStep(ctx, e.ID, &step.ID)
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, a := range rows {
		if a.Status == domainApproval.StatusPending {
			out = append(out, a)
		}
	}
	return out, nil
}

// checkEscalatable enforces the step's can_escalate_in window, measured from
// the newest pending approval at the step.
func (u *Usecase) checkEscalatable(step *flow.Step, pending []domainApproval.Approval, now time.Time) error {
	if step.CanEscalateIn <= 0 || len(pending) == 0 {
		return nil
	}
	newest := pending[0].CreatedAt
	for _, a := range pending[1:] {
		if a.CreatedAt.After(newest) {
			newest = a.CreatedAt
		}
	}
	if now.Sub(newest) < time.Duration(step.CanEscalateIn)*u.escalateUnit {
		return flow.ErrEscalationNotReady
	}
	return nil
}

func hasPendingFor(pending []domainApproval.Approval, approverID uint64) bool {
	for _, a := range pending {
		if a.ApproverID == approverID {
			return true
		}
	}
	return false
}

func noApproversWarning(step *flow.Step) string {
	return fmt.Sprintf("no approvers found for step %d; expense cannot advance without operator attention", step.StepOrder)
}

func decisionDTO(e *domainExpense.Expense, flw *flow.Flow, msg, warning string) *DecisionDTO {
	dto := &DecisionDTO{
		ExpenseID: e.ExpenseID,
		Status:    string(e.Status),
		Message:   msg,
		Warning:   warning,
	}
	if e.CurrentStepID != nil && flw != nil {
		if s := flw.StepByID(*e.CurrentStepID); s != nil {
			order := s.StepOrder
			dto.CurrentStepOrder = &order
		}
	}
	return dto
}
