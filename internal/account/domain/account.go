package domain

import (
	"errors"
	"time"
)

// Role is an account's effective role, derived from which profile record is
// linked to the account. The role column on the account row is a denormalized
// cache and must never be trusted over the linkage for privilege decisions.
type Role string

const (
	RoleAdmin    Role = "Admin"
	RoleFounder  Role = "StartupFounder"
	RoleEmployee Role = "Employee"
	RoleUser     Role = "User"
)

// Account is the core identity record: credentials, status, and the
// password-reset token slot.
type Account struct {
	ID                int64
	Email             string // unique, stored lowercase
	Username          string // denormalized convenience field; email is the login identifier
	Name              string
	Phone             string
	Role              Role // derived cache of the profile linkage
	PasswordHash      []byte
	PasswordSalt      []byte
	Active            bool
	ResetToken        string
	ResetTokenExpires *time.Time
	Version           int64 // optimistic concurrency guard
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

// Validate validates the account for persistence.
func (a *Account) Validate() error {
	if a.Email == "" {
		return errors.New("email is required")
	}
	if len(a.PasswordHash) == 0 || len(a.PasswordSalt) == 0 {
		return errors.New("password hash and salt are required")
	}
	if a.Role == "" {
		a.Role = RoleUser
	}
	return nil
}

// ClearResetToken removes any pending reset token from the account.
func (a *Account) ClearResetToken() {
	a.ResetToken = ""
	a.ResetTokenExpires = nil
}
