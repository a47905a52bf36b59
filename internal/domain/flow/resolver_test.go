package flow

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"expense-approval-service/internal/domain/company"
)

// directory is a tiny in-memory UserDirectory for resolver tests.
type directory struct {
	users []company.User
}

func (d *directory) GetByUserID(_ context.Context, userID string) (*company.User, error) {
	for i := range d.users {
		if d.users[i].UserID == userID {
			return &d.users[i], nil
		}
	}
	return nil, company.ErrNotFound
}

func (d *directory) ListByCompanyAndRole(_ context.Context, companyID uint64, role company.Role) ([]company.User, error) {
	var out []company.User
	for _, u := range d.users {
		if u.CompanyID == companyID && u.Role == role {
			out = append(out, u)
		}
	}
	return out, nil
}

func TestResolveStepApprovers_UserStep(t *testing.T) {
	dir := &directory{users: []company.User{
		{ID: 1, UserID: "aaaa", CompanyID: 10, Role: company.RoleManager},
		{ID: 2, UserID: "bbbb", CompanyID: 20, Role: company.RoleManager},
	}}

	t.Run("resolves to exactly one user", func(t *testing.T) {
		got, err := ResolveStepApprovers(context.Background(), dir, Step{ApproverType: ApproverUser, ApproverRef: "aaaa"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, uint64(1), got[0].ID)
	})

	t.Run("dangling reference", func(t *testing.T) {
		_, err := ResolveStepApprovers(context.Background(), dir, Step{ApproverType: ApproverUser, ApproverRef: "missing"}, 10, 0)
		assert.ErrorIs(t, err, ErrResolver)
	})

	t.Run("cross-company reference", func(t *testing.T) {
		_, err := ResolveStepApprovers(context.Background(), dir, Step{ApproverType: ApproverUser, ApproverRef: "bbbb"}, 10, 0)
		assert.ErrorIs(t, err, ErrResolver)
	})

	t.Run("excluded user resolves to nobody", func(t *testing.T) {
		got, err := ResolveStepApprovers(context.Background(), dir, Step{ApproverType: ApproverUser, ApproverRef: "aaaa"}, 10, 1)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}

func TestResolveStepApprovers_RoleStep(t *testing.T) {
	dir := &directory{users: []company.User{
		{ID: 1, UserID: "aaaa", CompanyID: 10, Role: company.RoleManager},
		{ID: 2, UserID: "bbbb", CompanyID: 10, Role: company.RoleManager},
		{ID: 3, UserID: "cccc", CompanyID: 10, Role: company.RoleEmployee},
		{ID: 4, UserID: "dddd", CompanyID: 20, Role: company.RoleManager},
	}}

	t.Run("all role holders in the company", func(t *testing.T) {
		got, err := ResolveStepApprovers(context.Background(), dir, Step{ApproverType: ApproverRole, ApproverRef: "MANAGER"}, 10, 0)
		require.NoError(t, err)
		require.Len(t, got, 2)
	})

	t.Run("exclusion filters the match set", func(t *testing.T) {
		got, err := ResolveStepApprovers(context.Background(), dir, Step{ApproverType: ApproverRole, ApproverRef: "MANAGER"}, 10, 1)
		require.NoError(t, err)
		require.Len(t, got, 1)
		assert.Equal(t, uint64(2), got[0].ID)
	})

	t.Run("empty match is not an error", func(t *testing.T) {
		got, err := ResolveStepApprovers(context.Background(), dir, Step{ApproverType: ApproverRole, ApproverRef: "ADMIN"}, 10, 0)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("unknown role name", func(t *testing.T) {
		_, err := ResolveStepApprovers(context.Background(), dir, Step{ApproverType: ApproverRole, ApproverRef: "WIZARD"}, 10, 0)
		assert.ErrorIs(t, err, ErrResolver)
	})
}

func TestResolveStepApprovers_UnknownApproverType(t *testing.T) {
	_, err := ResolveStepApprovers(context.Background(), &directory{}, Step{ApproverType: "GROUP"}, 10, 0)
	assert.ErrorIs(t, err, ErrResolver)
}

func TestResolveStepApprovers_PropagatesRepoError(t *testing.T) {
	boom := errors.New("db down")
	_, err := ResolveStepApprovers(context.Background(), failingDirectory{err: boom}, Step{ApproverType: ApproverUser, ApproverRef: "aaaa"}, 10, 0)
	assert.ErrorIs(t, err, boom)
}

type failingDirectory struct{ err error }

func (f failingDirectory) GetByUserID(context.Context, string) (*company.User, error) {
	return nil, f.err
}
func (f failingDirectory) ListByCompanyAndRole(context.Context, uint64, company.Role) ([]company.User, error) {
	return nil, f.err
}
