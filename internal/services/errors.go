package services

import (
	"errors"
	"fmt"
)

var (
	ErrUnauthenticated    = errors.New("sign in required")
	ErrForbidden          = errors.New("you don't have admin privileges")
	ErrNotOwner           = errors.New("you can only manage your own ads")
	ErrAccountNotApproved = errors.New("your account has not been approved for posting ads yet")
	ErrAdNotFound         = errors.New("ad not found")
	ErrProfileNotFound    = errors.New("user not found")
	ErrCategoryNotFound   = errors.New("category not found")
	ErrEmailTaken         = errors.New("an account with this email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
)

// ValidationError reports a rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
