package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleStaff = "staff"
	RoleAdmin = "admin"
)

const (
	ProviderLocal  = "local"
	ProviderGoogle = "google"
)

type User struct {
	ID             string    `json:"id"`
	Email          string    `json:"email"`
	FirstName      *string   `json:"first_name"`
	LastName       *string   `json:"last_name"`
	HashedPassword *string   `json:"-"` // local accounts only
	Provider       string    `json:"provider"`
	GoogleSub      *string   `json:"-"` // google accounts only
	Role           string    `json:"role"`
	ProfileURL     *string   `json:"profile_url"`
	CreatedAt      time.Time `json:"created_at"`
}

// ValidRole reports whether role is one of user, staff, admin.
func ValidRole(role string) bool {
	switch role {
	case RoleUser, RoleStaff, RoleAdmin:
		return true
	}
	return false
}

// NewLocalUser builds a password-backed user. Only the listed fields are
// taken; role is always RoleUser.
func NewLocalUser(email, hashedPassword, firstName, lastName string) *User {
	return &User{
		ID:             uuid.NewString(),
		Email:          NormalizeEmail(email),
		FirstName:      optional(firstName),
		LastName:       optional(lastName),
		HashedPassword: &hashedPassword,
		Provider:       ProviderLocal,
		Role:           RoleUser,
	}
}

// NewGoogleUser provisions a user from verified Google identity claims.
func NewGoogleUser(sub, email, givenName, familyName, picture string) *User {
	return &User{
		ID:         uuid.NewString(),
		Email:      NormalizeEmail(email),
		FirstName:  optional(givenName),
		LastName:   optional(familyName),
		Provider:   ProviderGoogle,
		GoogleSub:  &sub,
		Role:       RoleUser,
		ProfileURL: optional(picture),
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
