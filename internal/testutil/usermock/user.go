package usermock

import (
	"context"

	domain "expense-approval-service/internal/domain/company"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies company.Repository.
// Only methods you need are included; add more as tests require.
type Repo struct {
	CreateCompanyFn        func(ctx context.Context, c *domain.Company) error
	GetCompanyFn           func(ctx context.Context, id uint64) (*domain.Company, error)
	CreateUserFn           func(ctx context.Context, u *domain.User) error
	GetByUserIDFn          func(ctx context.Context, userID string) (*domain.User, error)
	GetByIDFn              func(ctx context.Context, id uint64) (*domain.User, error)
	ListByCompanyAndRoleFn func(ctx context.Context, companyID uint64, role domain.Role) ([]domain.User, error)
	FindFallbackAdminFn    func(ctx context.Context, companyID uint64, excludeID uint64) (*domain.User, error)
}

func (m *Repo) CreateCompany(ctx context.Context, c *domain.Company) error {
	if m.CreateCompanyFn != nil {
		return m.CreateCompanyFn(ctx, c)
	}
	return nil
}
func (m *Repo) GetCompany(ctx context.Context, id uint64) (*domain.Company, error) {
	if m.GetCompanyFn != nil {
		return m.GetCompanyFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) CreateUser(ctx context.Context, u *domain.User) error {
	if m.CreateUserFn != nil {
		return m.CreateUserFn(ctx, u)
	}
	return nil
}
func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}
func (m *Repo) GetByID(ctx context.Context, id uint64) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, context.Canceled
}
func (m *Repo) ListByCompanyAndRole(ctx context.Context, companyID uint64, role domain.Role) ([]domain.User, error) {
	if m.ListByCompanyAndRoleFn != nil {
		return m.ListByCompanyAndRoleFn(ctx, companyID, role)
	}
	return nil, context.Canceled
}
func (m *Repo) FindFallbackAdmin(ctx context.Context, companyID uint64, excludeID uint64) (*domain.User, error) {
	if m.FindFallbackAdminFn != nil {
		return m.FindFallbackAdminFn(ctx, companyID, excludeID)
	}
	return nil, context.Canceled
}
