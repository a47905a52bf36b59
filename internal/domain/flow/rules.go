package flow

import "github.com/shopspring/decimal"

// Outcome of evaluating a flow's rules after one decision.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeAutoApprove
)

// EvaluateRules runs the flow's rules in creation order against the expense
// amount and the user who just decided; the first rule that fires wins. This
// is a pure function of rule params + expense + decider — it never consults
// other pending approvals.
func EvaluateRules(rules []Rule, amount decimal.Decimal, deciderUserID string) Outcome {
	for _, r := range rules {
		if evaluateRule(r, amount, deciderUserID) == OutcomeAutoApprove {
			return OutcomeAutoApprove
		}
	}
	return OutcomeNone
}

func evaluateRule(r Rule, amount decimal.Decimal, deciderUserID string) Outcome {
	switch r.RuleType {
	case RulePercentage:
		// Amount cutoff (strictly below), despite the rule's name.
		if r.Threshold.Valid && amount.LessThan(r.Threshold.Decimal) {
			return OutcomeAutoApprove
		}
	case RuleSpecificApprover:
		if r.SkipRemaining && r.ApproverRef != "" && r.ApproverRef == deciderUserID {
			return OutcomeAutoApprove
		}
	case RuleHybrid:
		// Reserved: inert until a concrete policy is specified.
	}
	return OutcomeNone
}
