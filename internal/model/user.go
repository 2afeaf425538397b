package model

import (
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role codes as constants. CUSTOMER is the default for new accounts and
// has no access to any protected page.
const (
	RoleAdmin    = "ADMIN"
	RoleManager  = "MANAGER"
	RoleSeller   = "SELLER"
	RoleCustomer = "CUSTOMER"
)

// StaffRoles are the roles allowed past the access gate at all.
var StaffRoles = []string{RoleSeller, RoleManager, RoleAdmin}

// ManagerRoles can see full order history, reports and customer records.
var ManagerRoles = []string{RoleManager, RoleAdmin}

// User represents an authenticated account with its profile data.
type User struct {
	BaseModel
	Email        string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email" validate:"required,email"`
	Password     string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	FullName     string     `gorm:"type:varchar(255)" json:"full_name" validate:"required"`
	Phone        string     `gorm:"type:varchar(20)" json:"phone"`
	Address      string     `gorm:"type:text" json:"address"`
	CPF          *string    `gorm:"type:varchar(14);uniqueIndex" json:"cpf,omitempty" validate:"omitempty,cpf"`
	BirthDate    *time.Time `gorm:"type:date" json:"birth_date,omitempty"`
	Avatar       string     `gorm:"type:varchar(255)" json:"avatar,omitempty"`
	Role         string     `gorm:"type:varchar(20);not null;default:'CUSTOMER';index" json:"role" validate:"omitempty,oneof=ADMIN MANAGER SELLER CUSTOMER"`
	IsActive     bool       `gorm:"default:true" json:"is_active"`
	TokenVersion string     `gorm:"type:varchar(255);default:''" json:"-"` // Single session enforcement
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// IsSeller reports whether the user is a seller or higher.
func (u *User) IsSeller() bool {
	return u.Role == RoleSeller || u.Role == RoleManager || u.Role == RoleAdmin
}

// IsManager reports whether the user is a manager or higher.
func (u *User) IsManager() bool {
	return u.Role == RoleManager || u.Role == RoleAdmin
}

// UserResponse is used for API responses (without sensitive data)
type UserResponse struct {
	ID        uuid.UUID  `json:"id"`
	Email     string     `json:"email"`
	FullName  string     `json:"full_name"`
	Phone     string     `json:"phone"`
	Address   string     `json:"address"`
	CPF       *string    `json:"cpf,omitempty"`
	BirthDate *time.Time `json:"birth_date,omitempty"`
	Avatar    string     `json:"avatar,omitempty"`
	Role      string     `json:"role"`
	IsActive  bool       `json:"is_active"`
	CreatedAt time.Time  `json:"created_at"`
}

// ToResponse converts User to UserResponse
func (u *User) ToResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Address:   u.Address,
		CPF:       u.CPF,
		BirthDate: u.BirthDate,
		Avatar:    u.Avatar,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}
