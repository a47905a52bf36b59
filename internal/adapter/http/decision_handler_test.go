package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	domainApproval "expense-approval-service/internal/domain/approval"
	"expense-approval-service/internal/domain/company"
	domainExpense "expense-approval-service/internal/domain/expense"
	"expense-approval-service/internal/domain/flow"
	"expense-approval-service/internal/domain/uow"
	"expense-approval-service/internal/testutil/approvalmock"
	"expense-approval-service/internal/testutil/expensemock"
	"expense-approval-service/internal/testutil/flowmock"
	"expense-approval-service/internal/testutil/usermock"
	"expense-approval-service/internal/testutil/uowmock"
	"expense-approval-service/internal/usecase/decision"
)

var (
	adminUserID   = strings.Repeat("a", 32)
	testExpenseID = strings.Repeat("e", 32)
)

func newDecisionServer(t *testing.T, r uow.Repos) *echo.Echo {
	t.Helper()
	e := echo.New()
	e.Validator = NewValidator()
	h := NewDecisionHandler(decision.NewUsecase(r, uowmock.Passthrough(r), nil, 0))
	e.POST("/expenses/:expense_id/approve", h.Approve)
	e.POST("/expenses/:expense_id/reject", h.Reject)
	e.POST("/expenses/:expense_id/escalate", h.Escalate)
	e.GET("/approvals/pending", h.PendingApprovals)
	return e
}

// lastStepRepos sets up an admin escalating a single-step flow with no
// fallback admin available: the dual-outcome path.
func lastStepRepos() uow.Repos {
	stepID := uint64(51)
	return uow.Repos{
		Users: &usermock.Repo{
			GetByUserIDFn: func(_ context.Context, userID string) (*company.User, error) {
				if userID == adminUserID {
					return &company.User{ID: 3, UserID: adminUserID, CompanyID: 1, Role: company.RoleAdmin}, nil
				}
				return nil, company.ErrNotFound
			},
			FindFallbackAdminFn: func(_ context.Context, companyID uint64, excludeID uint64) (*company.User, error) {
				return nil, company.ErrNotFound
			},
		},
		Expenses: &expensemock.Repo{
			GetByExpenseIDForUpdateFn: func(_ context.Context, expenseID string) (*domainExpense.Expense, error) {
				if expenseID != testExpenseID {
					return nil, domainExpense.ErrNotFound
				}
				return &domainExpense.Expense{
					ID: 7, ExpenseID: testExpenseID, EmployeeID: 2, CompanyID: 1,
					Status: domainExpense.StatusPending, CurrentStepID: &stepID,
				}, nil
			},
		},
		Approvals: &approvalmock.Repo{
			ListByExpenseStepFn: func(_ context.Context, expenseID uint64, sid *uint64) ([]domainApproval.Approval, error) {
				return nil, nil
			},
		},
		Flows: &flowmock.Repo{
			GetStepFn: func(_ context.Context, id uint64) (*flow.Step, error) {
				return &flow.Step{ID: stepID, FlowID: 50, StepOrder: 1, ApproverType: flow.ApproverRole, ApproverRef: "MANAGER"}, nil
			},
			GetByIDFn: func(_ context.Context, id uint64) (*flow.Flow, error) {
				return &flow.Flow{
					ID: 50, CompanyID: 1, IsActive: true, SequenceType: flow.SequenceSequential,
					Steps: []flow.Step{{ID: stepID, FlowID: 50, StepOrder: 1, ApproverType: flow.ApproverRole, ApproverRef: "MANAGER"}},
				}, nil
			},
		},
	}
}

func TestApprove_ErrorMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown expense", domainExpense.ErrNotFound, http.StatusNotFound},
		{"not the approver", domainExpense.ErrNotAuthorized, http.StatusForbidden},
		{"terminal expense", domainExpense.ErrInvalidState, http.StatusConflict},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			e.Validator = NewValidator()
			tx := uowmock.New().WithWithinExpenseTx(func(context.Context, string, func(uow.Repos, *domainExpense.Expense) error) error {
				return tc.err
			})
			h := NewDecisionHandler(decision.NewUsecase(uow.Repos{}, tx, nil, 0))
			e.POST("/expenses/:expense_id/approve", h.Approve)

			rec := postJSON(e, "/expenses/"+testExpenseID+"/approve", `{"comments":"lgtm"}`, adminUserID)
			if rec.Code != tc.want {
				t.Fatalf("want %d, got %d body=%s", tc.want, rec.Code, rec.Body.String())
			}
		})
	}
}

func TestDecision_MissingActingUser(t *testing.T) {
	e := newDecisionServer(t, lastStepRepos())
	for _, path := range []string{"/approve", "/reject", "/escalate"} {
		rec := postJSON(e, "/expenses/"+testExpenseID+path, `{}`, "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("%s without actor: want 400, got %d", path, rec.Code)
		}
	}
}

func TestEscalate_NoNextStepReturns409WithBody(t *testing.T) {
	e := newDecisionServer(t, lastStepRepos())

	rec := postJSON(e, "/expenses/"+testExpenseID+"/escalate", `{}`, adminUserID)
	if rec.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d body=%s", rec.Code, rec.Body.String())
	}
	// the dual outcome answers with the decision DTO, not an error shape
	if !strings.Contains(rec.Body.String(), decision.MsgNoNextStep) {
		t.Fatalf("body should carry the no-next-step message, got %s", rec.Body.String())
	}
}

func TestEscalate_RejectsBadTargetStep(t *testing.T) {
	e := newDecisionServer(t, lastStepRepos())
	rec := postJSON(e, "/expenses/"+testExpenseID+"/escalate", `{"target_step_order":-1}`, adminUserID)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("want 422, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestPendingApprovals(t *testing.T) {
	r := lastStepRepos()
	r.Approvals.(*approvalmock.Repo).ListPendingForApproverFn = func(_ context.Context, approverID uint64, role company.Role) ([]domainApproval.Approval, error) {
		return nil, nil
	}
	e := newDecisionServer(t, r)

	req := httptest.NewRequest(http.MethodGet, "/approvals/pending", nil)
	req.Header.Set(HeaderActingUser, adminUserID)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("want 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), `"approvals":[]`) {
		t.Fatalf("want empty approvals array, got %s", rec.Body.String())
	}
}
