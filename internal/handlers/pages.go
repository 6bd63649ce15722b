package handlers

import (
	"errors"

	"github.com/RiskyMH/Forms/internal/config"
	"github.com/RiskyMH/Forms/internal/middleware"
	"github.com/RiskyMH/Forms/internal/services"
	"github.com/RiskyMH/Forms/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PagesHandler serves the server-driven view payloads behind the page routes.
// The redirect table has already bounced cookie-less requests to /login, but a
// present-yet-invalid cookie still resolves to anonymous here.
type PagesHandler struct {
	DB    *gorm.DB
	Cfg   *config.Config
	OAuth *services.GoogleOAuth
}

// Login handles GET /login
func (h *PagesHandler) Login(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"page":      "login",
		"siteName":  h.Cfg.SiteName,
		"signInUrl": h.OAuth.AuthURL(c.Query("from")),
	})
}

// Dashboard handles GET /dashboard
func (h *PagesHandler) Dashboard(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.Redirect("/login?from=/dashboard", fiber.StatusFound)
	}

	search := c.Query("q")
	forms, err := services.ListForms(h.DB, userID, search)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "dashboard")
	}

	out := make([]formSummary, 0, len(forms))
	for _, form := range forms {
		out = append(out, formSummary{
			ID:           form.ID,
			Name:         form.Name,
			LastModified: form.LastModified,
		})
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"page":  "dashboard",
		"q":     search,
		"forms": out,
	})
}

// Editor handles GET /editor/:id
func (h *PagesHandler) Editor(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.Redirect("/login?from="+c.Path(), fiber.StatusFound)
	}

	form, err := services.GetFormWithFields(h.DB, c.Params("id"), userID)
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFoundResponse(c, "Form not found")
	}
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "editor")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"page": "editor",
		"form": form,
	})
}

// EditorResponses handles GET /editor/:id/responses
func (h *PagesHandler) EditorResponses(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	if userID == "" {
		return c.Redirect("/login?from="+c.Path(), fiber.StatusFound)
	}

	form, err := services.GetForm(h.DB, c.Params("id"), userID)
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFoundResponse(c, "Form not found")
	}
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "editorResponses")
	}

	responses, err := services.FormResponses(h.DB, form.ID, userID)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "editorResponses")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"page":      "responses",
		"form":      fiber.Map{"id": form.ID, "name": form.Name},
		"responses": responses,
	})
}
