package mysql

import (
	"context"
	"errors"

	companyDomain "expense-approval-service/internal/domain/company"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) CreateCompany(ctx context.Context, c *companyDomain.Company) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *UserRepository) GetCompany(ctx context.Context, id uint64) (*companyDomain.Company, error) {
	var out companyDomain.Company
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, companyDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *UserRepository) CreateUser(ctx context.Context, u *companyDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*companyDomain.User, error) {
	var out companyDomain.User
	res := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, companyDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *UserRepository) GetByID(ctx context.Context, id uint64) (*companyDomain.User, error) {
	var out companyDomain.User
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, companyDomain.ErrNotFound
	}
	return &out, res.Error
}

func (r *UserRepository) ListByCompanyAndRole(ctx context.Context, companyID uint64, role companyDomain.Role) ([]companyDomain.User, error) {
	var out []companyDomain.User
	res := r.db.WithContext(ctx).
		Where("company_id = ? AND role = ?", companyID, role).
		Order("id ASC").
		Find(&out)
	return out, res.Error
}

func (r *UserRepository) FindFallbackAdmin(ctx context.Context, companyID uint64, excludeID uint64) (*companyDomain.User, error) {
	var out companyDomain.User
	res := r.db.WithContext(ctx).
		Where("company_id = ? AND role = ? AND id <> ?", companyID, companyDomain.RoleAdmin, excludeID).
		Order("id ASC").
		First(&out)
	if errors.Is(res.Error, gorm.ErrRecordNotFound) {
		return nil, companyDomain.ErrNotFound
	}
	return &out, res.Error
}
