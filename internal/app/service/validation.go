package service

import (
	"net/mail"
	"strings"

	"p2v/internal/common"
	"p2v/internal/common/security"
	"p2v/internal/domain/model"

	"github.com/google/uuid"
)

func validateCredentials(email, password string) error {
	email = model.NormalizeEmail(email)
	if email == "" || password == "" {
		return common.NewError(common.ErrValidation, "email and password are required")
	}
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return common.NewError(common.ErrValidation, "email is not valid")
	}
	if len(password) > security.MaxPasswordBytes {
		return common.NewError(common.ErrValidation, "password must be at most %d bytes", security.MaxPasswordBytes)
	}
	return nil
}

// validID maps ids that can't exist in the store to not found.
func validID(id string) error {
	if _, err := uuid.Parse(strings.TrimSpace(id)); err != nil {
		return common.ErrNotFound
	}
	return nil
}
