// Package models defines the platform user account aggregate.
package models

import (
	"time"

	id "admissio/pkg/domain"
	dErrors "admissio/pkg/domain-errors"
)

// Role is the coarse authorization role carried in issued tokens.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleHRManager Role = "hr_manager"
	RoleApplicant Role = "applicant"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleHRManager, RoleApplicant:
		return true
	}
	return false
}

// Account is a platform user. Applicant accounts are created by promotion
// and linked back to the applicant profile.
type Account struct {
	ID           id.AccountID `json:"id"`
	Username     string       `json:"username"`
	Email        string       `json:"email"`
	PasswordHash string       `json:"-"`
	Role         Role         `json:"role"`
	CreatedAt    time.Time    `json:"created_at"`
}

// NewAccount builds an account with an already-hashed password.
func NewAccount(username, email, passwordHash string, role Role, now time.Time) (*Account, error) {
	if username == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "username", "username is required")
	}
	if email == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "email", "email is required")
	}
	if passwordHash == "" {
		return nil, dErrors.NewField(dErrors.CodeValidation, "password", "password is required")
	}
	if !role.Valid() {
		return nil, dErrors.NewField(dErrors.CodeValidation, "role", "unknown role")
	}
	return &Account{
		ID:           id.NewAccountID(),
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		Role:         role,
		CreatedAt:    now,
	}, nil
}
