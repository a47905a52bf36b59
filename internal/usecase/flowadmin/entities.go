package flowadmin

import "github.com/shopspring/decimal"

type StepInput struct {
	StepOrder    int    `json:"step_order"`
	ApproverType string `json:"approver_type"`
	ApproverRef  string `json:"approver_ref"`
	// In escalation units (minutes by default); 0 = escalatable immediately
	CanEscalateIn int `json:"can_escalate_in"`
}

type RuleInput struct {
	RuleType      string           `json:"rule_type"`
	Threshold     *decimal.Decimal `json:"threshold,omitempty"`
	ApproverRef   string           `json:"approver_ref,omitempty"`
	SkipRemaining bool             `json:"skip_remaining,omitempty"`
}

type CreateFlowInput struct {
	ActingUserID          string
	Name                  string
	SequenceType          string
	MinApprovalPercentage int
	// Deactivate the company's other flows so this one is the selectable flow
	Activate bool
	Steps    []StepInput
	Rules    []RuleInput
}

type RuleDTO struct {
	RuleType      string           `json:"rule_type"`
	Threshold     *decimal.Decimal `json:"threshold,omitempty"`
	ApproverRef   string           `json:"approver_ref,omitempty"`
	SkipRemaining bool             `json:"skip_remaining,omitempty"`
}

type FlowDTO struct {
	FlowID                string      `json:"flow_id"`
	Name                  string      `json:"name"`
	IsActive              bool        `json:"is_active"`
	SequenceType          string      `json:"sequence_type"`
	MinApprovalPercentage int         `json:"min_approval_percentage"`
	Steps                 []StepInput `json:"steps"`
	Rules                 []RuleDTO   `json:"rules"`
}
