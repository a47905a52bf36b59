package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"expense-approval-service/internal/adapter/middleware"
	domainApproval "expense-approval-service/internal/domain/approval"
	"expense-approval-service/internal/domain/company"
	"expense-approval-service/internal/testutil/approvalmock"
	"expense-approval-service/internal/testutil/uowmock"
	"expense-approval-service/internal/usecase/decision"
	"expense-approval-service/internal/usecase/flowadmin"
	"expense-approval-service/internal/usecase/submission"

	"github.com/labstack/echo/v4"
)

func newRoutedServer(t *testing.T) *echo.Echo {
	t.Helper()
	r := lastStepRepos()
	r.Approvals = &approvalmock.Repo{
		ListPendingForApproverFn: func(context.Context, uint64, company.Role) ([]domainApproval.Approval, error) {
			return nil, nil
		},
	}
	e := echo.New()
	e.Validator = NewValidator()
	// idempotency is exercised in its own package; a pass-through stands in
	noop := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	RegisterRoutes(e,
		NewHandler(),
		NewExpenseHandler(submission.NewUsecase(r, uowmock.Passthrough(r), nil, nil)),
		NewDecisionHandler(decision.NewUsecase(r, uowmock.Passthrough(r), nil, 0)),
		NewFlowHandler(flowadmin.NewUsecase(r, uowmock.Passthrough(r), nil)),
		middleware.Identity(), noop)
	return e
}

func TestRoutes_HealthNeedsNoIdentity(t *testing.T) {
	e := newRoutedServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /health without headers = %d, want 200", rec.Code)
	}
}

func TestRoutes_BusinessRoutesRequireIdentity(t *testing.T) {
	e := newRoutedServer(t)

	for _, path := range []string{"/approvals/pending", "/flows/active", "/expenses/" + testExpenseID} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)

		if rec.Code != http.StatusBadRequest {
			t.Errorf("GET %s without %s = %d, want 400", path, middleware.HeaderActingUser, rec.Code)
		}
	}
}

func TestRoutes_BusinessRouteAcceptsIdentity(t *testing.T) {
	e := newRoutedServer(t)

	req := httptest.NewRequest(http.MethodGet, "/approvals/pending", nil)
	req.Header.Set(middleware.HeaderActingUser, adminUserID)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("GET /approvals/pending with identity = %d, want 200: %s", rec.Code, rec.Body.String())
	}
}
