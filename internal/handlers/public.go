package handlers

import (
	"encoding/json"
	"errors"

	"github.com/RiskyMH/Forms/internal/middleware"
	"github.com/RiskyMH/Forms/internal/services"
	"github.com/RiskyMH/Forms/internal/types"
	"github.com/RiskyMH/Forms/internal/utils"
	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// PublicHandler serves the unlisted-link form pages and the submit action
type PublicHandler struct {
	DB *gorm.DB
}

// ShowForm handles GET /f/:id
// @Summary Render a form
// @Description Public render payload for a form; shuffled options get a fresh order on every render
// @Tags Public
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} services.FormView
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /f/{id} [get]
func (h *PublicHandler) ShowForm(c *fiber.Ctx) error {
	view, err := services.BuildFormView(h.DB, c.Params("id"))
	if errors.Is(err, services.ErrNotFound) {
		return utils.NotFoundResponse(c, "Form not found")
	}
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "showForm")
	}

	return c.Status(fiber.StatusOK).JSON(view)
}

// Submitted handles GET /f/:id/submitted
// @Summary Submission confirmation
// @Tags Public
// @Produce json
// @Param id path string true "Form ID"
// @Success 200 {object} map[string]string
// @Failure 404 {object} utils.ErrorResponseStruct
// @Router /f/{id}/submitted [get]
func (h *PublicHandler) Submitted(c *fiber.Ctx) error {
	formID := c.Params("id")

	var count int64
	if err := h.DB.Table("forms").Where("id = ?", formID).Count(&count).Error; err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "submitted")
	}
	if count == 0 {
		return utils.NotFoundResponse(c, "Form not found")
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"formId":  formID,
		"message": "Your response has been recorded.",
	})
}

// SubmitForm handles POST /api/submit
// @Summary Submit a form
// @Description Validates posted values against the form's fields; the first violation aborts the submission
// @Tags Public
// @Accept x-www-form-urlencoded
// @Accept json
// @Produce json
// @Success 303
// @Success 200 {object} services.SubmissionResult "validation error"
// @Router /submit [post]
func (h *PublicHandler) SubmitForm(c *fiber.Ctx) error {
	in := parseSubmission(c)
	in.UserID = middleware.UserID(c) // anonymous submissions keep an empty user

	result, err := services.SubmitForm(h.DB, in)
	if err != nil {
		return utils.ErrorResponse(c, err.Error(), fiber.StatusInternalServerError, "submitForm")
	}

	if result.Error != "" {
		return c.Status(fiber.StatusOK).JSON(result)
	}

	return c.Redirect("/f/"+in.FormID+"/submitted", fiber.StatusSeeOther)
}

// parseJSONSubmission decodes the JSON submission body shape:
// {"formId": "...", "answers": {"<fieldId>": "one" | ["many"]}}
func parseJSONSubmission(c *fiber.Ctx) services.SubmissionInput {
	var body struct {
		FormID  string                            `json:"formId"`
		Answers map[string]types.FlexList[string] `json:"answers"`
	}

	in := services.SubmissionInput{Values: make(map[string][]string)}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return in
	}

	in.FormID = body.FormID
	for fieldID, values := range body.Answers {
		in.Values[fieldID] = values.Slice()
	}
	return in
}
