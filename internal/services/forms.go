package services

import (
	"errors"
	"time"

	"github.com/RiskyMH/Forms/internal/models"
	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Sentinel results for form actions. The UI consumes these as values, they are
// never rendered as thrown errors.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// SaveFieldInput is one field's patch within a save. Nil attributes leave the
// stored column unchanged; Options replaces the whole list when non-nil.
type SaveFieldInput struct {
	ID             string
	Name           *string
	Description    *string
	Required       *bool
	Options        []string
	OtherOption    *bool
	OptionsStyle   *string
	ShuffleOptions *bool
	TextSize       *string
}

// SaveFormInput is the decoded form-save payload. Fields carries the posted
// save order, which becomes the new field_index assignment.
type SaveFormInput struct {
	ID          string
	Name        *string
	Description *string
	Fields      []SaveFieldInput
}

// CreateForm inserts a new form owned by userID plus one default text field
// and returns the new form's id.
func CreateForm(db *gorm.DB, userID string) (string, error) {
	if userID == "" {
		return "", ErrUnauthorized
	}

	now := time.Now()
	form := models.Form{
		ID:           uuid.NewString(),
		UserID:       userID,
		Name:         "Untitled Form",
		CreatedAt:    now,
		LastModified: now,
	}
	if err := db.Create(&form).Error; err != nil {
		return "", err
	}

	field := models.FormField{
		ID:         uuid.NewString(),
		FormID:     form.ID,
		Name:       "Untitled Question",
		Type:       models.FieldTypeText,
		FieldIndex: 0,
	}
	if err := db.Create(&field).Error; err != nil {
		return "", err
	}

	return form.ID, nil
}

// GetForm loads a form owned by userID, without its fields.
func GetForm(db *gorm.DB, formID, userID string) (*models.Form, error) {
	var form models.Form
	err := db.Where("id = ? AND user_id = ?", formID, userID).First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// GetFormWithFields loads an owner's form and its fields in display order.
func GetFormWithFields(db *gorm.DB, formID, userID string) (*models.Form, error) {
	var form models.Form
	err := db.Preload("Fields", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("field_index ASC")
	}).Where("id = ? AND user_id = ?", formID, userID).First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &form, nil
}

// ListForms returns the caller's forms ordered by last modification, with an
// optional case-insensitive name-contains filter.
func ListForms(db *gorm.DB, userID, search string) ([]models.Form, error) {
	var forms []models.Form
	query := db.Where("user_id = ?", userID).Order("last_modified DESC")
	if search != "" {
		query = query.Where("LOWER(name) LIKE LOWER(?)", "%"+search+"%")
	}
	if err := query.Find(&forms).Error; err != nil {
		return nil, err
	}
	return forms, nil
}

// SaveForm applies a form save. It authorizes by (formId, ownerId) match: a
// non-owner save touches zero rows and reports ErrUnauthorized. The form
// update and every field update run in one transaction, so a failed save
// leaves no partial state.
func SaveForm(db *gorm.DB, userID string, in SaveFormInput) error {
	if userID == "" || in.ID == "" {
		return ErrUnauthorized
	}

	return db.Transaction(func(tx *gorm.DB) error {
		formUpdates := map[string]interface{}{
			"last_modified": time.Now(),
		}
		if in.Name != nil {
			formUpdates["name"] = *in.Name
		}
		if in.Description != nil {
			formUpdates["description"] = *in.Description
		}

		result := tx.Model(&models.Form{}).
			Where("id = ? AND user_id = ?", in.ID, userID).
			Updates(formUpdates)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUnauthorized
		}

		// Each field's index is reassigned to its position in the posted order.
		for i, f := range in.Fields {
			if f.ID == "" {
				continue
			}

			updates := map[string]interface{}{
				"field_index": i,
			}
			if f.Name != nil {
				updates["name"] = *f.Name
			}
			if f.Description != nil {
				updates["description"] = *f.Description
			}
			if f.Required != nil {
				updates["required"] = *f.Required
			}
			if f.Options != nil {
				updates["options"] = datatypes.JSONSlice[string](f.Options)
			}
			if f.OtherOption != nil {
				updates["other_option"] = *f.OtherOption
			}
			if f.OptionsStyle != nil {
				updates["options_style"] = *f.OptionsStyle
			}
			if f.ShuffleOptions != nil {
				updates["shuffle_options"] = *f.ShuffleOptions
			}
			if f.TextSize != nil {
				updates["text_size"] = *f.TextSize
			}

			if err := tx.Model(&models.FormField{}).
				Where("id = ? AND form_id = ?", f.ID, in.ID).
				Updates(updates).Error; err != nil {
				return err
			}
		}

		return nil
	})
}

// DeleteForm removes an owner's form together with its fields, submissions,
// and recorded values in one transaction.
func DeleteForm(db *gorm.DB, formID, userID string) error {
	if userID == "" || formID == "" {
		return ErrUnauthorized
	}

	return db.Transaction(func(tx *gorm.DB) error {
		var form models.Form
		err := tx.Where("id = ? AND user_id = ?", formID, userID).First(&form).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrUnauthorized
		}
		if err != nil {
			return err
		}

		if err := tx.Where("submission_id IN (?)",
			tx.Model(&models.FormSubmission{}).Select("id").Where("form_id = ?", formID),
		).Delete(&models.FormSubmissionFieldValue{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", formID).Delete(&models.FormSubmission{}).Error; err != nil {
			return err
		}
		if err := tx.Where("form_id = ?", formID).Delete(&models.FormField{}).Error; err != nil {
			return err
		}
		return tx.Delete(&form).Error
	})
}

// MakeField appends a new field to a form with the next available index and a
// type-appropriate default. Only a logged-in session is required, matching the
// editor's save-time ownership check.
func MakeField(db *gorm.DB, userID, formID, fieldType string) (string, error) {
	if userID == "" || formID == "" {
		return "", ErrUnauthorized
	}

	switch fieldType {
	case models.FieldTypeText, models.FieldTypeChoice, models.FieldTypeDate:
	default:
		return "", ErrNotFound
	}

	var count int64
	if err := db.Model(&models.Form{}).Where("id = ?", formID).Count(&count).Error; err != nil {
		return "", err
	}
	if count == 0 {
		return "", ErrNotFound
	}

	// next index = max(existing)+1; gaps left by deletions are not reused
	var next int
	err := db.Model(&models.FormField{}).
		Where("form_id = ?", formID).
		Select("COALESCE(MAX(field_index), -1) + 1").
		Scan(&next).Error
	if err != nil {
		return "", err
	}

	field := models.FormField{
		ID:         uuid.NewString(),
		FormID:     formID,
		Name:       "New Field",
		Type:       fieldType,
		FieldIndex: next,
	}
	if fieldType == models.FieldTypeChoice {
		field.Options = []string{"New choice"}
	}

	if err := db.Create(&field).Error; err != nil {
		return "", err
	}
	return field.ID, nil
}

// DeleteField removes a single field scoped to (formId, fieldId). Remaining
// field indices are intentionally not renumbered.
func DeleteField(db *gorm.DB, userID, formID, fieldID string) error {
	if userID == "" || formID == "" {
		return ErrUnauthorized
	}

	result := db.Where("form_id = ? AND id = ?", formID, fieldID).
		Delete(&models.FormField{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
