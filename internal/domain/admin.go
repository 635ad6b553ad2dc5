package domain

import "time"

// AdminRole enumerates supported administrator roles.
type AdminRole string

const (
	AdminRoleAdmin      AdminRole = "admin"
	AdminRoleSuperAdmin AdminRole = "superadmin"
)

// Valid reports whether r is a known role.
func (r AdminRole) Valid() bool {
	return r == AdminRoleAdmin || r == AdminRoleSuperAdmin
}

// Admin is an account allowed to open an administrative session.
type Admin struct {
	ID           string
	Username     string
	PasswordHash string
	Role         AdminRole
	CreatedAt    time.Time
	UpdatedAt    time.Time
	LastLoginAt  *time.Time
}

// IsSuperAdmin reports whether the admin may run destructive bulk operations.
func (a Admin) IsSuperAdmin() bool {
	return a.Role == AdminRoleSuperAdmin
}
