package models

import (
	"time"

	"gorm.io/datatypes"
)

// FormSubmission is one respondent's completed answer set for a form.
// UserID is nullable, anonymous submissions are allowed.
type FormSubmission struct {
	ID        string  `gorm:"type:char(36);primaryKey"`
	FormID    string  `gorm:"type:char(36);not null;index"`
	UserID    *string `gorm:"type:char(36)"`
	CreatedAt time.Time

	Values []FormSubmissionFieldValue `gorm:"foreignKey:SubmissionID;constraint:OnDelete:CASCADE"`
}

// FormSubmissionFieldValue is one row per answered field per submission.
// Value is an ordered string list so multi-select checkbox answers fit in one row.
type FormSubmissionFieldValue struct {
	ID           string                      `gorm:"type:char(36);primaryKey"`
	SubmissionID string                      `gorm:"type:char(36);not null;index"`
	FieldID      string                      `gorm:"type:char(36);not null;index"`
	Value        datatypes.JSONSlice[string] `gorm:"not null"`
}

// TableName overrides the table name for FormSubmission
func (FormSubmission) TableName() string {
	return "form_submissions"
}

// TableName overrides the table name for FormSubmissionFieldValue
func (FormSubmissionFieldValue) TableName() string {
	return "form_submission_field_values"
}
