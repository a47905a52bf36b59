package http

import (
	"net/http"

	"expense-approval-service/internal/usecase/flowadmin"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type FlowHandler struct{ uc *flowadmin.Usecase }

func NewFlowHandler(uc *flowadmin.Usecase) *FlowHandler { return &FlowHandler{uc: uc} }

type flowStepReq struct {
	StepOrder     int    `json:"step_order"      validate:"required,gte=1"`
	ApproverType  string `json:"approver_type"   validate:"required,oneof=USER ROLE"`
	ApproverRef   string `json:"approver_ref"    validate:"required"`
	CanEscalateIn int    `json:"can_escalate_in" validate:"omitempty,gte=0"`
}

type flowRuleReq struct {
	RuleType      string   `json:"rule_type"      validate:"required,oneof=PERCENTAGE SPECIFIC_APPROVER HYBRID"`
	Threshold     *float64 `json:"threshold"      validate:"omitempty,gt=0,dec2"`
	ApproverRef   string   `json:"approver_ref"   validate:"omitempty,hex32"`
	SkipRemaining bool     `json:"skip_remaining"`
}

type createFlowReq struct {
	Name                  string        `json:"name"                    validate:"required,max=255"`
	SequenceType          string        `json:"sequence_type"           validate:"omitempty,oneof=SEQUENTIAL PARALLEL"`
	MinApprovalPercentage int           `json:"min_approval_percentage" validate:"omitempty,gte=1,lte=100"`
	Activate              bool          `json:"activate"`
	Steps                 []flowStepReq `json:"steps"                   validate:"required,min=1,dive"`
	Rules                 []flowRuleReq `json:"rules"                   validate:"omitempty,dive"`
}

func (h *FlowHandler) CreateFlow(c echo.Context) error {
	actor := actingUserID(c)
	if actor == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + HeaderActingUser + " header"})
	}
	var req createFlowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:   "validation failed",
			Details: ToFieldErrors(err),
		})
	}

	in := flowadmin.CreateFlowInput{
		ActingUserID:          actor,
		Name:                  req.Name,
		SequenceType:          req.SequenceType,
		MinApprovalPercentage: req.MinApprovalPercentage,
		Activate:              req.Activate,
	}
	for _, s := range req.Steps {
		in.Steps = append(in.Steps, flowadmin.StepInput(s))
	}
	for _, r := range req.Rules {
		rin := flowadmin.RuleInput{
			RuleType:      r.RuleType,
			ApproverRef:   r.ApproverRef,
			SkipRemaining: r.SkipRemaining,
		}
		if r.Threshold != nil {
			th := decimal.NewFromFloat(*r.Threshold)
			rin.Threshold = &th
		}
		in.Rules = append(in.Rules, rin)
	}

	dto, err := h.uc.Create(c.Request().Context(), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, dto)
}

func (h *FlowHandler) DeactivateFlow(c echo.Context) error {
	actor := actingUserID(c)
	if actor == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + HeaderActingUser + " header"})
	}
	flowID := c.Param("flow_id")
	if flowID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing flow_id path param"})
	}
	if err := h.uc.Deactivate(c.Request().Context(), actor, flowID); err != nil {
		return writeError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *FlowHandler) GetActiveFlow(c echo.Context) error {
	actor := actingUserID(c)
	if actor == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing " + HeaderActingUser + " header"})
	}
	dto, err := h.uc.GetActive(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, dto)
}
