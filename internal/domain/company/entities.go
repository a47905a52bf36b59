package company

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrNotFound = errors.New("company or user not found")
)

type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
	RoleAdmin    Role = "ADMIN"
)

// Valid reports whether r is one of the known roles. Role matching elsewhere
// is case-sensitive against these exact values.
func (r Role) Valid() bool {
	switch r {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// Table: companies
type Company struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	// Public identifier (32-char lowercase hex)
	CompanyID       string         `gorm:"column:company_id;type:char(32);not null;uniqueIndex"`
	Name            string         `gorm:"column:name;size:255;not null"`
	DefaultCurrency string         `gorm:"column:default_currency;type:char(3);not null"`
	Country         string         `gorm:"column:country;size:64"`
	CreatedAt       time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (Company) TableName() string { return "companies" }

// Table: users
type User struct {
	ID     uint64 `gorm:"column:id;primaryKey;autoIncrement"`
	UserID string `gorm:"column:user_id;type:char(32);not null;uniqueIndex"`
	// FK to companies.id (numeric)
	CompanyID uint64 `gorm:"column:company_id;not null;index"`
	Email     string `gorm:"column:email;size:255;not null"`
	Name      string `gorm:"column:name;size:255;not null"`
	Role      Role   `gorm:"column:role;type:enum('EMPLOYEE','MANAGER','ADMIN');default:'EMPLOYEE'"`
	// Self-referential FK to users.id; nil when the user has no manager.
	ManagerID *uint64 `gorm:"column:manager_id;index"`
	// Marks whether this user, acting as someone's manager, participates in
	// approvals. Distinct from Role.
	IsManagerApprover bool           `gorm:"column:is_manager_approver;not null;default:false"`
	CreatedAt         time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt         time.Time      `gorm:"column:updated_at;autoUpdateTime"`
	DeletedAt         gorm.DeletedAt `gorm:"column:deleted_at;index"`
}

func (User) TableName() string { return "users" }
