package flow

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("flow not found")
	// A USER-type step reference does not resolve to an existing user in the
	// company. Configuration error: the triggering operation aborts entirely.
	ErrResolver = errors.New("step approver reference cannot be resolved")
	// Escalation requested with no step after the target step.
	ErrNoNextStep = errors.New("no next step available for escalation")
	// Step has a can_escalate_in window that has not elapsed yet.
	ErrEscalationNotReady = errors.New("step is not escalatable yet")
)

type SequenceType string

const (
	SequenceSequential SequenceType = "SEQUENTIAL"
	SequenceParallel   SequenceType = "PARALLEL"
)

type ApproverType string

const (
	ApproverUser ApproverType = "USER"
	ApproverRole ApproverType = "ROLE"
)

type RuleType string

const (
	// Misleadingly named upstream: threshold is an amount cutoff, not a
	// percentage. Kept for wire/data compatibility.
	RulePercentage       RuleType = "PERCENTAGE"
	RuleSpecificApprover RuleType = "SPECIFIC_APPROVER"
	// Reserved; evaluates to no outcome until a concrete policy exists.
	RuleHybrid RuleType = "HYBRID"
)

// Flow is a company's configured approval sequence plus conditional rules.
// Flows are immutable per version from the state machine's point of view;
// deactivation is the only lifecycle change.
//
// Table: approval_flows
type Flow struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	FlowID    string `gorm:"column:flow_id;type:char(32);not null;uniqueIndex"`
	CompanyID uint64 `gorm:"column:company_id;not null;index"`
	Name      string `gorm:"column:name;size:255;not null"`
	// Inactive flows are never selected for new expenses; historical links
	// from in-flight expenses remain valid.
	IsActive     bool         `gorm:"column:is_active;not null;default:true"`
	SequenceType SequenceType `gorm:"column:sequence_type;type:enum('SEQUENTIAL','PARALLEL');default:'SEQUENTIAL'"`
	// For PARALLEL flows: percentage of a step's approvers required before
	// the step completes. 1-100, default 100.
	MinApprovalPercentage int            `gorm:"column:min_approval_percentage;not null;default:100"`
	Steps                 []Step         `gorm:"foreignKey:FlowID;references:ID"`
	Rules                 []Rule         `gorm:"foreignKey:FlowID;references:ID"`
	CreatedAt             time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt             time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt             gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Flow) TableName() string { return "approval_flows" }

// Table: approval_steps
type Step struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// FK to approval_flows.id (numeric)
	FlowID uint64 `gorm:"column:flow_id;not null;index;uniqueIndex:ux_steps_flow_order"`
	// Positive, unique within the flow; defines the sequence.
	StepOrder    int          `gorm:"column:step_order;not null;uniqueIndex:ux_steps_flow_order"`
	ApproverType ApproverType `gorm:"column:approver_type;type:enum('USER','ROLE');not null"`
	// users.user_id when type=USER, a Role name when type=ROLE
	ApproverRef string `gorm:"column:approver_ref;size:64;not null"`
	// Minutes (by default config) after which the step becomes escalatable.
	// Zero means escalatable immediately.
	CanEscalateIn int            `gorm:"column:can_escalate_in;not null;default:0"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Step) TableName() string { return "approval_steps" }

// Rule params are modeled as explicit columns rather than a JSON bag: the
// rule set is closed (see RuleType) so each kind's parameters are known.
//
// Table: approval_rules
type Rule struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// FK to approval_flows.id (numeric)
	FlowID   uint64   `gorm:"column:flow_id;not null;index"`
	RuleType RuleType `gorm:"column:rule_type;type:enum('PERCENTAGE','SPECIFIC_APPROVER','HYBRID');not null"`
	// PERCENTAGE: expenses strictly below this amount auto-approve.
	Threshold decimal.NullDecimal `gorm:"column:threshold;type:decimal(18,2)"`
	// SPECIFIC_APPROVER: public user_id of the privileged approver.
	ApproverRef string `gorm:"column:approver_ref;size:64"`
	// SPECIFIC_APPROVER: whether that approver short-circuits remaining steps.
	SkipRemaining bool           `gorm:"column:skip_remaining;not null;default:false"`
	CreatedAt     time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt     gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Rule) TableName() string { return "approval_rules" }

// FirstStep returns the step with the lowest order, or nil for an empty flow.
func (f *Flow) FirstStep() *Step {
	var first *Step
	for i := range f.Steps {
		if first == nil || f.Steps[i].StepOrder < first.StepOrder {
			first = &f.Steps[i]
		}
	}
	return first
}

// NextStep returns the step with the smallest order strictly greater than
// after, or nil when the flow is exhausted.
func (f *Flow) NextStep(after int) *Step {
	var next *Step
	for i := range f.Steps {
		if f.Steps[i].StepOrder <= after {
			continue
		}
		if next == nil || f.Steps[i].StepOrder < next.StepOrder {
			next = &f.Steps[i]
		}
	}
	return next
}

// StepByID returns the flow's step with the given numeric id, or nil.
func (f *Flow) StepByID(id uint64) *Step {
	for i := range f.Steps {
		if f.Steps[i].ID == id {
			return &f.Steps[i]
		}
	}
	return nil
}

// StepByOrder returns the flow's step with the given order, or nil.
func (f *Flow) StepByOrder(order int) *Step {
	for i := range f.Steps {
		if f.Steps[i].StepOrder == order {
			return &f.Steps[i]
		}
	}
	return nil
}
