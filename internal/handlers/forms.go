package handlers

import (
	"errors"
	"time"

	"github.com/RiskyMH/Forms/internal/middleware"
	"github.com/RiskyMH/Forms/internal/services"
	"github.com/RiskyMH/Forms/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// FormsHandler handles the owner-facing form CRUD routes
type FormsHandler struct {
	DB *gorm.DB
}

// formSummary is the dashboard list entry for one form.
type formSummary struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Description  string    `json:"description,omitempty"`
	LastModified time.Time `json:"lastModified"`
}

// ListForms handles GET /api/forms?q=
// @Summary List the caller's forms
// @Description Lists the signed-in user's forms, most recently modified first, with optional name search
// @Tags Forms
// @Produce json
// @Param q query string false "Name filter (case-insensitive contains)"
// @Success 200 {array} handlers.formSummary
// @Failure 403 {object} utils.ErrorResponseStruct
// @Router /forms [get]
func (h *FormsHandler) ListForms(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	forms, err := services.ListForms(h.DB, userID, c.Query("q"))
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "listForms")
	}

	out := make([]formSummary, 0, len(forms))
	for _, form := range forms {
		out = append(out, formSummary{
			ID:           form.ID,
			Name:         form.Name,
			Description:  form.Description,
			LastModified: form.LastModified,
		})
	}
	return c.Status(fiber.StatusOK).JSON(out)
}

// CreateForm handles POST /api/forms
// @Summary Create a form
// @Description Creates an untitled form with one default text field and redirects to its editor
// @Tags Forms
// @Success 303
// @Success 200 {object} map[string]string "unauthorized sentinel"
// @Router /forms [post]
func (h *FormsHandler) CreateForm(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	formID, err := services.CreateForm(h.DB, userID)
	if errors.Is(err, services.ErrUnauthorized) {
		return utils.SentinelResponse(c, "unauthorized")
	}
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createForm")
	}

	return c.Redirect("/editor/"+formID, fiber.StatusSeeOther)
}

// GetForm handles GET /api/forms/:id
// @Summary Get a form for editing
// @Description Returns the owner's form with its fields in display order
// @Tags Forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{id} [get]
func (h *FormsHandler) GetForm(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	form, err := services.GetFormWithFields(h.DB, c.Params("id"), userID)
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFoundResponse(c, "Form not found")
	}
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getForm")
	}

	return c.Status(fiber.StatusOK).JSON(form)
}

// SaveForm handles POST /api/forms/save
// @Summary Save a form
// @Description Applies a form-encoded save payload: form name/description plus per-field attributes, reassigning field order
// @Tags Forms
// @Accept x-www-form-urlencoded
// @Produce json
// @Success 200 {object} map[string]interface{} "ok, or unauthorized sentinel"
// @Router /forms/save [post]
func (h *FormsHandler) SaveForm(c *fiber.Ctx) error {
	userID := middleware.UserID(c)
	in := parseSaveForm(c)

	err := services.SaveForm(h.DB, userID, in)
	if errors.Is(err, services.ErrUnauthorized) {
		return utils.SentinelResponse(c, "unauthorized")
	}
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "saveForm")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// DeleteForm handles DELETE /api/forms/:id
// @Summary Delete a form
// @Description Deletes the owner's form, cascading to fields, submissions, and values
// @Tags Forms
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} map[string]interface{} "ok, or unauthorized sentinel"
// @Router /forms/{id} [delete]
func (h *FormsHandler) DeleteForm(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	err := services.DeleteForm(h.DB, c.Params("id"), userID)
	if errors.Is(err, services.ErrUnauthorized) {
		return utils.SentinelResponse(c, "unauthorized")
	}
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteForm")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// CreateField handles POST /api/forms/:id/fields
// @Summary Add a field
// @Description Appends a field of the given type with the next available index and a type default
// @Tags Fields
// @Accept json
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{id}/fields [post]
func (h *FormsHandler) CreateField(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	var body struct {
		Type string `json:"type" form:"type"`
	}
	if err := c.BodyParser(&body); err != nil {
		return utils.ErrorResponse(c, "Invalid input", fiber.StatusBadRequest, "forms.validation.input")
	}

	fieldID, err := services.MakeField(h.DB, userID, c.Params("id"), body.Type)
	if errors.Is(err, services.ErrUnauthorized) {
		return utils.SentinelResponse(c, "unauthorized")
	}
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFoundResponse(c, "Form not found")
	}
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "createField")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"id": fieldID})
}

// DeleteField handles DELETE /api/forms/:id/fields/:fieldId
// @Summary Delete a field
// @Description Removes one field scoped to the form; remaining indices are not renumbered
// @Tags Fields
// @Produce json
// @Param id path string true "Form ID"
// @Param fieldId path string true "Field ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{id}/fields/{fieldId} [delete]
func (h *FormsHandler) DeleteField(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	err := services.DeleteField(h.DB, userID, c.Params("id"), c.Params("fieldId"))
	if errors.Is(err, services.ErrUnauthorized) {
		return utils.SentinelResponse(c, "unauthorized")
	}
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFoundResponse(c, "Field not found")
	}
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "deleteField")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"ok": true})
}

// GetResponses handles GET /api/forms/:id/responses
// @Summary Tally responses
// @Description Returns per-field value tallies across all submissions of the owner's form
// @Tags Responses
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {array} services.FieldResponses
// @Failure 403 {object} utils.ErrorResponseStruct
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /forms/{id}/responses [get]
func (h *FormsHandler) GetResponses(c *fiber.Ctx) error {
	userID := middleware.UserID(c)

	responses, err := services.FormResponses(h.DB, c.Params("id"), userID)
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFoundResponse(c, "Form not found")
	}
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "getResponses")
	}

	return c.Status(fiber.StatusOK).JSON(responses)
}
