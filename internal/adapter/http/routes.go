package http

import "github.com/labstack/echo/v4"

// RegisterRoutes wires the API surface. Health stays outside the identity
// requirement so load balancers and probes can call it bare; every business
// route runs behind ident, and mutating routes additionally behind idemp.
func RegisterRoutes(e *echo.Echo, h *Handler, eh *ExpenseHandler, dh *DecisionHandler, fh *FlowHandler, ident, idemp echo.MiddlewareFunc) {
	e.GET("/health", h.Health)

	api := e.Group("", ident)
	api.POST("/expenses", eh.SubmitExpense, idemp)
	api.GET("/expenses/:expense_id", eh.GetExpense)
	api.POST("/expenses/:expense_id/approve", dh.Approve, idemp)
	api.POST("/expenses/:expense_id/reject", dh.Reject, idemp)
	api.POST("/expenses/:expense_id/escalate", dh.Escalate, idemp)
	api.GET("/approvals/pending", dh.PendingApprovals)

	api.POST("/flows", fh.CreateFlow, idemp)
	api.DELETE("/flows/:flow_id", fh.DeactivateFlow)
	api.GET("/flows/active", fh.GetActiveFlow)
}
