package services

import (
	"github.com/RiskyMH/Forms/internal/models"
	"gorm.io/gorm"
)

// TallyEntry is one literal answer value and how often it was recorded.
type TallyEntry struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

// FieldResponses is the tallied answer view for one field.
type FieldResponses struct {
	FieldID string       `json:"fieldId"`
	Name    string       `json:"name"`
	Tallies []TallyEntry `json:"tallies"`
}

// FieldTally counts occurrences of each literal string across every value of
// every submission for the field. A submission with three checked options
// contributes one to each of three tallies. Entries keep first-seen order.
func FieldTally(db *gorm.DB, fieldID string) ([]TallyEntry, error) {
	var rows []models.FormSubmissionFieldValue
	if err := db.Select("value").Where("field_id = ?", fieldID).Find(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[string]int)
	seen := make([]string, 0)
	for _, row := range rows {
		for _, value := range row.Value {
			if _, ok := counts[value]; !ok {
				seen = append(seen, value)
			}
			counts[value]++
		}
	}

	tallies := make([]TallyEntry, 0, len(seen))
	for _, value := range seen {
		tallies = append(tallies, TallyEntry{Value: value, Count: counts[value]})
	}
	return tallies, nil
}

// FormResponses tallies every field of an owner's form, in display order.
func FormResponses(db *gorm.DB, formID, userID string) ([]FieldResponses, error) {
	form, err := GetFormWithFields(db, formID, userID)
	if err != nil {
		return nil, err
	}

	result := make([]FieldResponses, 0, len(form.Fields))
	for _, field := range form.Fields {
		tallies, err := FieldTally(db, field.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, FieldResponses{
			FieldID: field.ID,
			Name:    field.Name,
			Tallies: tallies,
		})
	}
	return result, nil
}
