package user

import (
	"time"

	"github.com/google/uuid"
	userDatamodel "github.com/mustafakh994/forms-management/internal/core/datamodel/user"
)

type User struct {
	ID           uuid.UUID  `json:"id"`
	DepartmentID *uuid.UUID `json:"department_id,omitempty"`
	Email        string     `json:"email"`
	Name         string     `json:"name"`
	RoleID       *uuid.UUID `json:"role_id,omitempty"`
	RoleName     string     `json:"role_name,omitempty"`
	Profile      *string    `json:"profile,omitempty"`
	IsSuperAdmin bool       `json:"is_super_admin"`
	IsActive     bool       `json:"is_active"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`

	passwordHash string
}

func (u *User) PasswordHash() string {
	return u.passwordHash
}

func (u *User) SetPasswordHash(hash string) {
	u.passwordHash = hash
}

func (u *User) Touch() {
	now := time.Now().UTC()
	u.UpdatedAt = &now
}

func ToDataModel(u *User) *userDatamodel.User {
	return &userDatamodel.User{
		ID:           u.ID,
		DepartmentID: u.DepartmentID,
		Email:        u.Email,
		PasswordHash: u.passwordHash,
		Name:         u.Name,
		RoleID:       u.RoleID,
		Profile:      u.Profile,
		IsSuperAdmin: u.IsSuperAdmin,
		IsActive:     u.IsActive,
		LastLoginAt:  u.LastLoginAt,
		CreatedAt:    u.CreatedAt,
		UpdatedAt:    u.UpdatedAt,
	}
}

func FromDataModel(d *userDatamodel.User) *User {
	return &User{
		ID:           d.ID,
		DepartmentID: d.DepartmentID,
		Email:        d.Email,
		Name:         d.Name,
		RoleID:       d.RoleID,
		Profile:      d.Profile,
		IsSuperAdmin: d.IsSuperAdmin,
		IsActive:     d.IsActive,
		LastLoginAt:  d.LastLoginAt,
		CreatedAt:    d.CreatedAt,
		UpdatedAt:    d.UpdatedAt,
		passwordHash: d.PasswordHash,
	}
}
