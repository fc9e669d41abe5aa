package models

import "time"

// Role is stored as an open string but only one value is issued today.
type Role string

const RoleUser Role = "User"

// Account is a registered identity. An account starts inactive with a
// pending activation token; confirming the email activates it and clears
// the token. Soft-deleted accounts stay in storage but are excluded from
// all normal lookups.
type Account struct {
	ID              int64     `json:"id"`
	Name            string    `json:"name"`
	Email           string    `json:"email"`
	Role            Role      `json:"role"`
	PasswordHash    string    `json:"-"`
	IsActive        bool      `json:"is_active"`
	ActivationToken *string   `json:"-"`
	IsDeleted       bool      `json:"-"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
