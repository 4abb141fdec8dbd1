package domain

import "time"

// UserRole identifies the authorization level of an account.
type UserRole string

const (
	RoleUser       UserRole = "USER"
	RoleAdmin      UserRole = "ADMIN"
	RoleSuperAdmin UserRole = "SUPER_ADMIN"
)

// UserStatus represents lifecycle states for an account. Accounts are never
// physically deleted; deactivation flips status to INACTIVE.
type UserStatus string

const (
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

// User is the domain model for accounts. Salt and PasswordHash are always
// written together.
type User struct {
	ID           string
	Email        string
	FullName     string
	Salt         string
	PasswordHash string
	Role         UserRole
	Status       UserStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsActive reports whether the account may authenticate.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}
