package mysql

import (
	"context"
	"errors"
	"testing"
	"time"

	companyDomain "expense-approval-service/internal/domain/company"
	"expense-approval-service/pkg/id"

	"gorm.io/gorm"
)

type companySQLite struct {
	ID              uint64         `gorm:"primaryKey;column:id"`
	CompanyID       string         `gorm:"size:32;column:company_id"`
	Name            string         `gorm:"column:name"`
	DefaultCurrency string         `gorm:"size:3;column:default_currency"`
	Country         string         `gorm:"column:country"`
	CreatedAt       time.Time      `gorm:"column:created_at"`
	UpdatedAt       time.Time      `gorm:"column:updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (companySQLite) TableName() string { return "companies" }

type userSQLite struct {
	ID                uint64         `gorm:"primaryKey;column:id"`
	UserID            string         `gorm:"size:32;column:user_id"`
	CompanyID         uint64         `gorm:"column:company_id"`
	Email             string         `gorm:"column:email"`
	Name              string         `gorm:"column:name"`
	Role              string         `gorm:"type:text;column:role"` // ← no enum
	ManagerID         *uint64        `gorm:"column:manager_id"`
	IsManagerApprover bool           `gorm:"column:is_manager_approver"`
	CreatedAt         time.Time      `gorm:"column:created_at"`
	UpdatedAt         time.Time      `gorm:"column:updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at"`
}

func (userSQLite) TableName() string { return "users" }

func makeUser(companyID uint64, role companyDomain.Role) *companyDomain.User {
	return &companyDomain.User{
		UserID:    id.NewID32(),
		CompanyID: companyID,
		Email:     "someone@example.com",
		Name:      "Someone",
		Role:      role,
	}
}

func TestUserCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := makeUser(1, companyDomain.RoleEmployee)
	if err := repo.CreateUser(ctx, u); err != nil {
		t.Fatalf("CreateUser: %v", err)
	}
	if u.ID == 0 {
		t.Fatalf("CreateUser did not set auto-increment ID")
	}

	got, err := repo.GetByUserID(ctx, u.UserID)
	if err != nil {
		t.Fatalf("GetByUserID: %v", err)
	}
	if got.ID != u.ID || got.Role != companyDomain.RoleEmployee {
		t.Errorf("unexpected user: %+v", got)
	}

	if _, err := repo.GetByID(ctx, u.ID); err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if _, err := repo.GetByUserID(ctx, "00000000000000000000000000000000"); !errors.Is(err, companyDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestCompanyCreateAndGet(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	c := &companyDomain.Company{
		CompanyID:       id.NewID32(),
		Name:            "Acme",
		DefaultCurrency: "USD",
	}
	if err := repo.CreateCompany(ctx, c); err != nil {
		t.Fatalf("CreateCompany: %v", err)
	}

	got, err := repo.GetCompany(ctx, c.ID)
	if err != nil {
		t.Fatalf("GetCompany: %v", err)
	}
	if got.DefaultCurrency != "USD" {
		t.Errorf("DefaultCurrency = %q", got.DefaultCurrency)
	}
	if _, err := repo.GetCompany(ctx, 999); !errors.Is(err, companyDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListByCompanyAndRole(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	adm1 := makeUser(1, companyDomain.RoleAdmin)
	adm2 := makeUser(1, companyDomain.RoleAdmin)
	mgr := makeUser(1, companyDomain.RoleManager)
	otherCompany := makeUser(2, companyDomain.RoleAdmin)
	for _, u := range []*companyDomain.User{adm1, adm2, mgr, otherCompany} {
		if err := repo.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}

	got, err := repo.ListByCompanyAndRole(ctx, 1, companyDomain.RoleAdmin)
	if err != nil {
		t.Fatalf("ListByCompanyAndRole: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].ID != adm1.ID || got[1].ID != adm2.ID {
		t.Errorf("unexpected order: %d then %d", got[0].ID, got[1].ID)
	}
}

func TestFindFallbackAdmin(t *testing.T) {
	db := openTestDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	adm1 := makeUser(1, companyDomain.RoleAdmin)
	adm2 := makeUser(1, companyDomain.RoleAdmin)
	for _, u := range []*companyDomain.User{adm1, adm2} {
		if err := repo.CreateUser(ctx, u); err != nil {
			t.Fatalf("CreateUser: %v", err)
		}
	}

	// excluding the first admin yields the second
	got, err := repo.FindFallbackAdmin(ctx, 1, adm1.ID)
	if err != nil {
		t.Fatalf("FindFallbackAdmin: %v", err)
	}
	if got.ID != adm2.ID {
		t.Errorf("fallback = %d, want %d", got.ID, adm2.ID)
	}

	// excluding nothing picks the lowest id
	got, err = repo.FindFallbackAdmin(ctx, 1, 0)
	if err != nil {
		t.Fatalf("FindFallbackAdmin: %v", err)
	}
	if got.ID != adm1.ID {
		t.Errorf("fallback = %d, want %d", got.ID, adm1.ID)
	}

	// no other admin left
	if err := db.Delete(&userSQLite{}, adm2.ID).Error; err != nil {
		t.Fatal(err)
	}
	if _, err := repo.FindFallbackAdmin(ctx, 1, adm1.ID); !errors.Is(err, companyDomain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
