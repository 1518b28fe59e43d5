package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/example/sokoni/internal/services"
)

const sessionContextKey = "session"

// Authenticator resolves a bearer token into a session.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*services.Session, error)
}

// Session loads the caller's session when a valid bearer token is present.
// Requests without one, or with a bad one, continue anonymously.
func Session(auth Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
		if !ok {
			return c.Next()
		}

		sess, err := auth.Authenticate(c.UserContext(), token)
		if err != nil {
			if errors.Is(err, services.ErrUnauthenticated) {
				return c.Next()
			}
			return err
		}

		c.Locals(sessionContextKey, sess)
		return c.Next()
	}
}

// RequireSession rejects anonymous callers with 401. It must run after Session.
func RequireSession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !CurrentSession(c).Authenticated() {
			return fiber.NewError(fiber.StatusUnauthorized, "sign in required")
		}
		return c.Next()
	}
}

// RequireAdmin rejects callers without the admin role. Anonymous callers get
// 401, signed-in non-admins 403.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := CurrentSession(c)
		if !sess.Authenticated() {
			return fiber.NewError(fiber.StatusUnauthorized, "sign in required")
		}
		if !sess.IsAdmin() {
			return fiber.NewError(fiber.StatusForbidden, "You don't have admin privileges.")
		}
		return c.Next()
	}
}

// CurrentSession returns the request's session, or nil for anonymous callers.
func CurrentSession(c *fiber.Ctx) *services.Session {
	if sess, ok := c.Locals(sessionContextKey).(*services.Session); ok {
		return sess
	}
	return nil
}

func bearerToken(header string) (string, bool) {
	if header == "" {
		return "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return strings.TrimSpace(parts[1]), true
}
