package services

import (
	"errors"
	"math/rand"

	"github.com/RiskyMH/Forms/internal/models"
	"gorm.io/gorm"
)

// FieldView is the render payload for one field: the widget the client should
// draw plus the field's display configuration.
type FieldView struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Type        string   `json:"type"`
	Widget      string   `json:"widget"`
	Required    bool     `json:"required"`
	Options     []string `json:"options,omitempty"`
	OtherOption bool     `json:"otherOption,omitempty"`
}

// FormView is the public render payload for a form.
type FormView struct {
	ID          string      `json:"id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Fields      []FieldView `json:"fields"`
	Footer      string      `json:"footer"`
}

// Footer credit strings, selected by the owner's role (display-only flag).
const (
	footerAdmin = "This form was made by RiskyMH."
	footerBasic = "This content is neither created nor endorsed by RiskyMH."
)

// BuildFormView loads a form for public rendering. Options of fields with the
// shuffle flag get a fresh random order on every call: the order is not
// persisted and not stable across reloads, shuffle-per-viewing is intended.
func BuildFormView(db *gorm.DB, formID string) (*FormView, error) {
	var form models.Form
	err := db.Preload("Fields", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("field_index ASC")
	}).Where("id = ?", formID).First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var owner models.User
	if err := db.Where("id = ?", form.UserID).First(&owner).Error; err != nil {
		return nil, err
	}

	view := &FormView{
		ID:          form.ID,
		Name:        form.Name,
		Description: form.Description,
		Fields:      make([]FieldView, 0, len(form.Fields)),
		Footer:      footerBasic,
	}
	if owner.Role == models.RoleAdmin {
		view.Footer = footerAdmin
	}

	for _, field := range form.Fields {
		fv := FieldView{
			ID:          field.ID,
			Name:        field.Name,
			Description: field.Description,
			Type:        field.Type,
			Widget:      widgetFor(&field),
			Required:    field.Required,
			OtherOption: field.OtherOption,
		}
		if field.Type == models.FieldTypeChoice {
			options := append([]string(nil), field.Options...)
			if field.ShuffleOptions {
				rand.Shuffle(len(options), func(i, j int) {
					options[i], options[j] = options[j], options[i]
				})
			}
			fv.Options = options
		}
		view.Fields = append(view.Fields, fv)
	}

	return view, nil
}

// widgetFor selects the input widget by field type, and for choice fields
// further by options style.
func widgetFor(field *models.FormField) string {
	switch field.Type {
	case models.FieldTypeText:
		if field.TextSize == models.TextSizeTextarea {
			return "textarea"
		}
		return "text"
	case models.FieldTypeChoice:
		switch field.OptionsStyle {
		case models.OptionsStyleDropdown:
			return "dropdown"
		case models.OptionsStyleCheckbox:
			return "checkbox"
		default:
			return "radio"
		}
	case models.FieldTypeDate:
		return "date"
	}
	return "text"
}
