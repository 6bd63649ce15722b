package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/RiskyMH/Forms/internal/config"
	"github.com/RiskyMH/Forms/internal/services"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// AuthHandler handles the OAuth login flow and logout
type AuthHandler struct {
	DB    *gorm.DB
	Cfg   *config.Config
	OAuth *services.GoogleOAuth
}

// GoogleCallback handles GET /api/oauth/google
// @Summary Google OAuth callback
// @Description Exchanges the authorization code, upserts the local user, and issues a session cookie
// @Tags Auth
// @Produce plain
// @Param code query string true "Authorization code"
// @Success 302
// @Failure 400 {string} string "No code / provider error text"
// @Router /oauth/google [get]
func (h *AuthHandler) GoogleCallback(c *fiber.Ctx) error {
	code := c.Query("code")
	if code == "" {
		return c.Status(fiber.StatusBadRequest).SendString("No code")
	}

	accessToken, err := h.OAuth.ExchangeCode(c.Context(), code)
	if err != nil {
		var provErr *services.ProviderError
		if errors.As(err, &provErr) {
			return c.Status(fiber.StatusBadRequest).SendString(provErr.Text)
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	profile, err := h.OAuth.FetchProfile(c.Context(), accessToken)
	if err != nil {
		var provErr *services.ProviderError
		if errors.As(err, &provErr) {
			return c.Status(fiber.StatusBadRequest).SendString(provErr.Text)
		}
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	userID, err := services.Login(h.DB, profile)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	token, err := services.CreateUserToken(h.Cfg.JWTSecret, userID)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	c.Cookie(&fiber.Cookie{
		Name:    services.SessionCookie,
		Value:   token,
		Expires: time.Now().Add(services.SessionDuration),
		Path:    "/",
	})

	log.Printf("User %s signed in via google", userID)
	return c.Redirect("/", fiber.StatusFound)
}

// Logout handles POST /api/logout
// @Summary Log out
// @Description Clears the session cookie and redirects to the login page
// @Tags Auth
// @Success 303
// @Router /logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	c.Cookie(&fiber.Cookie{
		Name:    services.SessionCookie,
		Value:   "",
		Expires: time.Now().Add(-time.Hour),
		Path:    "/",
	})
	return c.Redirect("/login", fiber.StatusSeeOther)
}
