package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/RiskyMH/Forms/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SubmissionInput is a decoded submission payload: the target form id plus the
// posted values keyed by field id (multi-valued for checkbox fields).
type SubmissionInput struct {
	FormID string
	Values map[string][]string
	UserID string // empty for anonymous submissions
}

// SubmissionResult reports the outcome of a submission attempt. A non-empty
// Error is a user-facing validation message; no partial submission is ever
// persisted alongside one.
type SubmissionResult struct {
	Error        string `json:"error,omitempty"`
	SubmissionID string `json:"-"`
}

var errContentless = "This form submission is a little useless with no fields filled out."

// SubmitForm validates posted values against each field's type, required flag,
// and option constraints, then persists the accepted answers. Fields are
// processed in form order and the first violation aborts the whole submission.
func SubmitForm(db *gorm.DB, in SubmissionInput) (*SubmissionResult, error) {
	if in.FormID == "" {
		return &SubmissionResult{Error: "Form not found"}, nil
	}

	var form models.Form
	err := db.Preload("Fields", func(tx *gorm.DB) *gorm.DB {
		return tx.Order("field_index ASC")
	}).Where("id = ?", in.FormID).First(&form).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return &SubmissionResult{Error: "Form not found"}, nil
	}
	if err != nil {
		return nil, err
	}

	accepted := make(map[string][]string)
	order := make([]string, 0, len(form.Fields))

	for _, field := range form.Fields {
		values := in.Values[field.ID]

		switch field.Type {
		case models.FieldTypeChoice:
			if field.OptionsStyle == models.OptionsStyleCheckbox {
				if field.Required && len(values) == 0 {
					return &SubmissionResult{Error: fmt.Sprintf("Field %s is required", field.Name)}, nil
				}
				if len(values) == 0 {
					continue
				}
				if !field.OtherOption && anyNotIn(values, field.Options) {
					return &SubmissionResult{Error: fmt.Sprintf("Field %s has invalid values", field.Name)}, nil
				}
				accepted[field.ID] = values
				order = append(order, field.ID)
				continue
			}

			// radio / dropdown: zero-or-one value
			value := first(values)
			if field.Required && value == "" {
				return &SubmissionResult{Error: fmt.Sprintf("Field %s is required", field.Name)}, nil
			}
			if value == "" {
				continue
			}
			if !field.OtherOption && anyNotIn([]string{value}, field.Options) {
				return &SubmissionResult{Error: fmt.Sprintf("Field %s has invalid value", field.Name)}, nil
			}
			accepted[field.ID] = []string{value}
			order = append(order, field.ID)

		case models.FieldTypeText:
			value := first(values)
			if field.Required && value == "" {
				return &SubmissionResult{Error: fmt.Sprintf("Field %s is required", field.Name)}, nil
			}
			if value == "" {
				continue
			}
			accepted[field.ID] = []string{value}
			order = append(order, field.ID)

		case models.FieldTypeDate:
			value := first(values)
			if field.Required && value == "" {
				return &SubmissionResult{Error: fmt.Sprintf("Field %s is required", field.Name)}, nil
			}
			if value == "" {
				continue
			}
			if !parsesAsDate(value) {
				return &SubmissionResult{Error: fmt.Sprintf("Field %s has invalid date", field.Name)}, nil
			}
			accepted[field.ID] = []string{value}
			order = append(order, field.ID)
		}
	}

	if len(accepted) == 0 {
		return &SubmissionResult{Error: errContentless}, nil
	}

	submission := models.FormSubmission{
		ID:        uuid.NewString(),
		FormID:    form.ID,
		CreatedAt: time.Now(),
	}
	if in.UserID != "" {
		submission.UserID = &in.UserID
	}
	if err := db.Create(&submission).Error; err != nil {
		return nil, err
	}

	rows := make([]models.FormSubmissionFieldValue, 0, len(order))
	for _, fieldID := range order {
		rows = append(rows, models.FormSubmissionFieldValue{
			ID:           uuid.NewString(),
			SubmissionID: submission.ID,
			FieldID:      fieldID,
			Value:        accepted[fieldID],
		})
	}
	if err := db.Create(&rows).Error; err != nil {
		return nil, err
	}

	return &SubmissionResult{SubmissionID: submission.ID}, nil
}

func first(values []string) string {
	if len(values) == 0 {
		return ""
	}
	return values[0]
}

func anyNotIn(values, options []string) bool {
	for _, v := range values {
		found := false
		for _, opt := range options {
			if v == opt {
				found = true
				break
			}
		}
		if !found {
			return true
		}
	}
	return false
}

// parsesAsDate accepts the calendar-date formats browsers post for a date
// input, plus full timestamps.
func parsesAsDate(value string) bool {
	for _, layout := range []string{"2006-01-02", time.RFC3339, "2006-01-02T15:04:05"} {
		if _, err := time.Parse(layout, value); err == nil {
			return true
		}
	}
	return false
}
