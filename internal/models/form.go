package models

import (
	"time"

	"gorm.io/datatypes"
)

// Field types.
const (
	FieldTypeText   = "text"
	FieldTypeChoice = "choice"
	FieldTypeDate   = "date"
)

// Options styles for choice fields.
const (
	OptionsStyleDropdown = "dropdown"
	OptionsStyleRadio    = "radio"
	OptionsStyleCheckbox = "checkbox"
)

// Text sizes for text fields.
const (
	TextSizeNormal   = "normal"
	TextSizeTextarea = "textarea"
)

// Form is owned by exactly one User. Reading and submitting a form is public
// via its id (unlisted-link sharing), writing is owner-only.
type Form struct {
	ID           string `gorm:"type:char(36);primaryKey"`
	UserID       string `gorm:"type:char(36);not null;index"`
	Name         string `gorm:"size:255;not null"`
	Description  string `gorm:"size:2048"`
	CreatedAt    time.Time
	LastModified time.Time

	Fields      []FormField      `gorm:"constraint:OnDelete:CASCADE"`
	Submissions []FormSubmission `gorm:"constraint:OnDelete:CASCADE"`
}

// FormField is one question within a form. FieldIndex defines display order;
// it is reassigned to the posted order on every save. Deleting a field does not
// compact the surviving indices.
type FormField struct {
	ID          string `gorm:"type:char(36);primaryKey"`
	FormID      string `gorm:"type:char(36);not null;index"`
	FieldIndex  int    `gorm:"not null;default:0"`
	Name        string `gorm:"size:255"`
	Description string `gorm:"size:2048"`
	Required    bool   `gorm:"not null;default:false"`
	Type        string `gorm:"size:16;not null"`

	// config for choice fields
	Options        datatypes.JSONSlice[string]
	ShuffleOptions bool   `gorm:"not null;default:false"`
	OtherOption    bool   `gorm:"not null;default:false"`
	OptionsStyle   string `gorm:"size:16;not null;default:radio"`

	// config for text fields
	TextSize string `gorm:"size:16;not null;default:normal"`
}

// TableName overrides the table name for Form
func (Form) TableName() string {
	return "forms"
}

// TableName overrides the table name for FormField
func (FormField) TableName() string {
	return "form_fields"
}
