package domain

import (
	"time"

	"github.com/google/uuid"
)

// UserRole distinguishes vendor accounts from back-office admins.
type UserRole string

const (
	RoleVendor UserRole = "vendor"
	RoleAdmin  UserRole = "admin"
)

// UserStatus represents the state of a vendor account.
type UserStatus string

const (
	UserStatusActive    UserStatus = "ACTIVE"
	UserStatusSuspended UserStatus = "SUSPENDED"
)

// User represents a registered vendor or admin account. Vendors own a
// custodial wallet and submit payouts; admins approve topups and browse
// the full transaction history.
type User struct {
	ID           uuid.UUID  `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // Never expose
	Role         UserRole   `json:"role"`
	Status       UserStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// IsActive returns true if the account may transact.
func (u *User) IsActive() bool {
	return u.Status == UserStatusActive
}

// IsAdmin returns true for back-office accounts.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
