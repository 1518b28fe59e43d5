package services

import (
	"github.com/google/uuid"

	"github.com/example/sokoni/internal/models"
)

// Session is the authenticated identity of one request. A nil *Session is an
// anonymous caller.
type Session struct {
	UserID uuid.UUID
	Email  string
	Roles  []models.Role
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s *Session) Authenticated() bool {
	return s != nil && s.UserID != uuid.Nil
}

// HasRole reports whether the session holds role.
func (s *Session) HasRole(role models.Role) bool {
	if !s.Authenticated() {
		return false
	}
	for _, r := range s.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the session may use the admin console.
func (s *Session) IsAdmin() bool {
	return s.HasRole(models.RoleAdmin)
}

// Owns reports whether the session's user is userID.
func (s *Session) Owns(userID uuid.UUID) bool {
	return s.Authenticated() && s.UserID == userID
}

func requireUser(s *Session) error {
	if !s.Authenticated() {
		return ErrUnauthenticated
	}
	return nil
}

func requireAdmin(s *Session) error {
	if err := requireUser(s); err != nil {
		return err
	}
	if !s.IsAdmin() {
		return ErrForbidden
	}
	return nil
}
