package services

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/example/sokoni/internal/models"
)

func TestNilSessionIsAnonymous(t *testing.T) {
	var s *Session

	assert.False(t, s.Authenticated())
	assert.False(t, s.IsAdmin())
	assert.False(t, s.Owns(uuid.Nil))
	assert.ErrorIs(t, requireUser(s), ErrUnauthenticated)
	assert.ErrorIs(t, requireAdmin(s), ErrUnauthenticated)
}

func TestModeratorIsNotAdmin(t *testing.T) {
	s := &Session{UserID: uuid.New(), Roles: []models.Role{models.RoleModerator}}

	assert.True(t, s.HasRole(models.RoleModerator))
	assert.False(t, s.IsAdmin())
	assert.ErrorIs(t, requireAdmin(s), ErrForbidden)
}

func TestOwns(t *testing.T) {
	id := uuid.New()
	s := userSession(id)

	assert.True(t, s.Owns(id))
	assert.False(t, s.Owns(uuid.New()))
}
