package company

import "context"

type Repository interface {
	CreateCompany(ctx context.Context, c *Company) error
	GetCompany(ctx context.Context, id uint64) (*Company, error)

	CreateUser(ctx context.Context, u *User) error
	// Get by public user_id
	GetByUserID(ctx context.Context, userID string) (*User, error)
	// Get by internal numeric id
	GetByID(ctx context.Context, id uint64) (*User, error)
	// All users of a company holding the given role (exact match)
	ListByCompanyAndRole(ctx context.Context, companyID uint64, role Role) ([]User, error)
	// Any ADMIN of the company other than excludeID; ErrNotFound when none exist
	FindFallbackAdmin(ctx context.Context, companyID uint64, excludeID uint64) (*User, error)
}
