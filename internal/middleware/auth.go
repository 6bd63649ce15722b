package middleware

import (
	"github.com/RiskyMH/Forms/internal/services"
	"github.com/RiskyMH/Forms/internal/types"
	"github.com/gofiber/fiber/v2"
)

// userIDKey is the Locals key holding the resolved session user id.
const userIDKey = "userID"

// CurrentUser resolves the session cookie into a request-scoped user id.
// Resolution fails closed: a missing, malformed, expired, or tampered token
// yields an anonymous request, never an error response.
func CurrentUser(secret string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(services.SessionCookie)
		if token != "" {
			if userID, err := services.UserFromToken(secret, token); err == nil {
				c.Locals(userIDKey, userID)
			}
		}
		return c.Next()
	}
}

// RequireUser rejects anonymous requests on owner-only read routes.
// Run after CurrentUser.
func RequireUser() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if UserID(c) == "" {
			return &types.CustomError{
				Code:    fiber.StatusForbidden,
				Message: "A signed-in session is required",
				Type:    "forms.authorization.user",
			}
		}
		return c.Next()
	}
}

// UserID returns the session user id set by CurrentUser, or "" for anonymous.
func UserID(c *fiber.Ctx) string {
	if id, ok := c.Locals(userIDKey).(string); ok {
		return id
	}
	return ""
}
