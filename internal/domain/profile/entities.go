package profile

import (
	"errors"
	"strings"
	"time"
)

var ErrNotFound = errors.New("profile not found")

type Role string

const (
	RoleUser            Role = "user"
	RoleAdmin           Role = "admin"
	RoleSuperAdmin      Role = "super_admin"
	RoleEnterpriseAdmin Role = "enterprise_admin"
	RoleEducator        Role = "educator"
)

// CanReview reports whether the role may act on applications.
func (r Role) CanReview() bool { return r == RoleAdmin || r == RoleSuperAdmin }

// Table: profiles (one row per user account)
type Profile struct {
	ID        string    `gorm:"column:id;primaryKey;type:varchar(36)" json:"id"`
	Email     string    `gorm:"column:email;not null" json:"email"`
	FirstName string    `gorm:"column:first_name" json:"first_name"`
	LastName  string    `gorm:"column:last_name" json:"last_name"`
	Role      Role      `gorm:"column:role;type:varchar(32);not null;default:'user'" json:"role"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Profile) TableName() string { return "profiles" }

func (p *Profile) DisplayName() string { return DisplayName(p.FirstName, p.LastName) }

// DisplayName falls back to "Admin" (plus last name) when no first name is set.
func DisplayName(first, last string) string {
	first, last = strings.TrimSpace(first), strings.TrimSpace(last)
	if first == "" {
		first = "Admin"
	}
	return strings.TrimSpace(first + " " + last)
}
