package flow

import (
	"context"
	"errors"
	"fmt"

	"expense-approval-service/internal/domain/company"
)

// UserDirectory is the slice of the user repository the resolver needs.
type UserDirectory interface {
	GetByUserID(ctx context.Context, userID string) (*company.User, error)
	ListByCompanyAndRole(ctx context.Context, companyID uint64, role company.Role) ([]company.User, error)
}

// ResolveStepApprovers resolves a step reference into concrete users of the
// company. Resolution is pure and re-run at decision time, never cached
// across steps.
//
// USER steps resolve to exactly one user; a dangling or cross-company
// reference is a configuration error (ErrResolver) so that no orphan
// approvals get created. ROLE steps resolve to every company user holding
// the role; an empty result is not an error here — callers must record the
// step without approvals and surface the condition.
//
// excludeID (0 = none) drops one user from the result, e.g. "pick a
// different approver than the current one" during escalation, or the
// submitting employee (self-approval is never allowed).
func ResolveStepApprovers(ctx context.Context, users UserDirectory, step Step, companyID uint64, excludeID uint64) ([]company.User, error) {
	switch step.ApproverType {
	case ApproverUser:
		u, err := users.GetByUserID(ctx, step.ApproverRef)
		if err != nil {
			if errors.Is(err, company.ErrNotFound) {
				return nil, fmt.Errorf("%w: user %s", ErrResolver, step.ApproverRef)
			}
			return nil, err
		}
		if u.CompanyID != companyID {
			return nil, fmt.Errorf("%w: user %s belongs to another company", ErrResolver, step.ApproverRef)
		}
		if u.ID == excludeID {
			return nil, nil
		}
		return []company.User{*u}, nil

	case ApproverRole:
		role := company.Role(step.ApproverRef)
		if !role.Valid() {
			return nil, fmt.Errorf("%w: unknown role %q", ErrResolver, step.ApproverRef)
		}
		matched, err := users.ListByCompanyAndRole(ctx, companyID, role)
		if err != nil {
			return nil, err
		}
		out := matched[:0]
		for _, u := range matched {
			if u.ID == excludeID {
				continue
			}
			out = append(out, u)
		}
		return out, nil

	default:
		return nil, fmt.Errorf("%w: unknown approver type %q", ErrResolver, step.ApproverType)
	}
}
