package submission

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

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Converter supplies the company-currency amount for reporting. Conversion
// results are never consulted by routing decisions, so a failing converter
// degrades to an unconverted expense rather than blocking submission.
type Converter interface {
	Convert(amount decimal.Decimal, from, to string) (decimal.Decimal, error)
}

// Usecase creates expenses and materializes their initial approval set:
// the manager-chain gate when the employee's manager participates in
// approvals, plus the active flow's first step.
type Usecase struct {
	repos uow.Repos
	uow   uow.UnitOfWork
	fx    Converter
	log   *zap.Logger
}

func NewUsecase(r uow.Repos, tx uow.UnitOfWork, fx Converter, log *zap.Logger) *Usecase {
	if log == nil {
		log = zap.NewNop()
	}
	return &Usecase{repos: r, uow: tx, fx: fx, log: log}
}

func (u *Usecase) Submit(ctx context.Context, in SubmitInput) (*ExpenseDTO, error) {
	if !in.Amount.IsPositive() {
		return nil, domainExpense.ErrInvalidAmount
	}
	if u.uow == nil {
		return nil, errors.New("submission: no unit of work configured")
	}
	var dto *ExpenseDTO

	err := u.uow.WithinTx(ctx, func(r uow.Repos) error {
		emp, err := r.Users.GetByUserID(ctx, in.EmployeeID)
		if err != nil {
			return err
		}
		comp, err := r.Users.GetCompany(ctx, emp.CompanyID)
		if err != nil {
			return err
		}

		expenseDate := in.ExpenseDate
		if expenseDate.IsZero() {
			expenseDate = time.Now().UTC()
		}
		e := &domainExpense.Expense{
			ExpenseID:   id.NewID32(),
			EmployeeID:  emp.ID,
			CompanyID:   emp.CompanyID,
			Amount:      in.Amount,
			Currency:    in.Currency,
			Category:    in.Category,
			Description: in.Description,
			ExpenseDate: expenseDate,
			Status:      domainExpense.StatusPending,
		}
		u.convert(e, comp)
		if err := r.Expenses.Create(ctx, e); err != nil {
			return err
		}

		var created []domainApproval.Approval

		// manager-chain gate: an extra approval layered alongside the flow,
		// not a flow step
		if emp.ManagerID != nil {
			mgr, err := r.Users.GetByID(ctx, *emp.ManagerID)
			switch {
			case errors.Is(err, company.ErrNotFound):
				u.log.Warn("employee references a missing manager",
					zap.String("employee_id", emp.UserID))
			case err != nil:
				return err
			case mgr.IsManagerApprover && mgr.ID != emp.ID:
				a := domainApproval.Approval{
					ApprovalID: id.NewID32(),
					ExpenseID:  e.ID,
					ApproverID: mgr.ID,
					Status:     domainApproval.StatusPending,
				}
				if err := r.Approvals.Create(ctx, &a); err != nil {
					return err
				}
				created = append(created, a)
			}
		}

		warning := ""
		var flw *flow.Flow
		flw, err = r.Flows.GetActiveFlow(ctx, emp.CompanyID)
		if err != nil && !errors.Is(err, flow.ErrNotFound) {
			return err
		}
		if flw != nil {
			if first := flw.FirstStep(); first != nil {
				stepApprovals, err := u.materializeFirstStep(ctx, r, e, emp, first)
				if err != nil {
					return err
				}
				if len(stepApprovals) > 0 {
					e.CurrentStepID = &first.ID
					if err := r.Expenses.Save(ctx, e); err != nil {
						return err
					}
					created = append(created, stepApprovals...)
				} else {
					warning = fmt.Sprintf("no approvers found for step %d; expense requires operator attention", first.StepOrder)
					u.log.Warn("first step resolved to no approvers",
						zap.String("expense_id", e.ExpenseID),
						zap.Int("step_order", first.StepOrder),
						zap.String("approver_ref", first.ApproverRef))
				}
			}
		}

		dto = u.expenseDTO(ctx, r, e, flw, created, warning)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return dto, nil
}

// Get returns an expense with its approval records; callers must belong to
// the expense's company.
func (u *Usecase) Get(ctx context.Context, expenseID, actingUserID string) (*ExpenseDTO, error) {
	actor, err := u.repos.Users.GetByUserID(ctx, actingUserID)
	if err != nil {
		if errors.Is(err, company.ErrNotFound) {
			return nil, domainExpense.ErrNotAuthorized
		}
		return nil, err
	}
	e, err := u.repos.Expenses.GetByExpenseID(ctx, expenseID)
	if err != nil {
		return nil, err
	}
	if actor.CompanyID != e.CompanyID {
		// same shape as a missing expense, tenants must not probe each other
		return nil, domainExpense.ErrNotFound
	}
	rows, err := u.repos.Approvals.ListByExpenseID(ctx, e.ID)
	if err != nil {
		return nil, err
	}
	var flw *flow.Flow
	if e.CurrentStepID != nil {
		step, err := u.repos.Flows.GetStep(ctx, *e.CurrentStepID)
		if err != nil {
			return nil, err
		}
		if flw, err = u.repos.Flows.GetByID(ctx, step.FlowID); err != nil {
			return nil, err
		}
	}
	return u.expenseDTO(ctx, u.repos, e, flw, rows, ""), nil
}

func (u *Usecase) convert(e *domainExpense.Expense, comp *company.Company) {
	if u.fx == nil || e.Currency == comp.DefaultCurrency {
		return
	}
	conv, err := u.fx.Convert(e.Amount, e.Currency, comp.DefaultCurrency)
	if err != nil {
		u.log.Warn("currency conversion failed",
			zap.String("from", e.Currency),
			zap.String("to", comp.DefaultCurrency),
			zap.Error(err))
		return
	}
	e.AmountConverted = decimal.NewNullDecimal(conv)
}

// materializeFirstStep resolves the flow's first step and creates one pending
// approval per resolved approver, silently excluding the submitting employee.
// Later steps are materialized on advancement, not here.
func (u *Usecase) materializeFirstStep(ctx context.Context, r uow.Repos, e *domainExpense.Expense, emp *company.User, first *flow.Step) ([]domainApproval.Approval, error) {
	resolved, err := flow.ResolveStepApprovers(ctx, r.Users, *first, emp.CompanyID, emp.ID)
	if err != nil {
		return nil, err
	}
	out := make([]domainApproval.Approval, 0, len(resolved))
	for _, usr := range resolved {
		a := domainApproval.Approval{
			ApprovalID: id.NewID32(),
			ExpenseID:  e.ID,
			StepID:     &first.ID,
			ApproverID: usr.ID,
			Status:     domainApproval.StatusPending,
		}
		if err := r.Approvals.Create(ctx, &a); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, nil
}

func (u *Usecase) expenseDTO(ctx context.Context, r uow.Repos, e *domainExpense.Expense, flw *flow.Flow, approvals []domainApproval.Approval, warning string) *ExpenseDTO {
	dto := &ExpenseDTO{
		ExpenseID:   e.ExpenseID,
		Amount:      e.Amount,
		Currency:    e.Currency,
		Category:    e.Category,
		Description: e.Description,
		ExpenseDate: e.ExpenseDate,
		Status:      string(e.Status),
		Warning:     warning,
		Approvals:   make([]ApprovalDTO, 0, len(approvals)),
		CreatedAt:   e.CreatedAt,
	}
	if e.AmountConverted.Valid {
		conv := e.AmountConverted.Decimal
		dto.AmountConverted = &conv
	}
	if emp, err := r.Users.GetByID(ctx, e.EmployeeID); err == nil {
		dto.EmployeeUserID = emp.UserID
	}
	if e.CurrentStepID != nil && flw != nil {
		if s := flw.StepByID(*e.CurrentStepID); s != nil {
			order := s.StepOrder
			dto.CurrentStepOrder = &order
		}
	}
	for _, a := range approvals {
		ad := ApprovalDTO{
			ApprovalID: a.ApprovalID,
			Status:     string(a.Status),
			Comments:   a.Comments,
			DecidedAt:  a.DecidedAt,
		}
		if usr, err := r.Users.GetByID(ctx, a.ApproverID); err == nil {
			ad.ApproverUserID = usr.UserID
		}
		if a.StepID != nil && flw != nil {
			if s := flw.StepByID(*a.StepID); s != nil {
				order := s.StepOrder
				ad.StepOrder = &order
			}
		}
		dto.Approvals = append(dto.Approvals, ad)
	}
	return dto
}
