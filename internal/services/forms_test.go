package services_test

import (
	"testing"

	"github.com/RiskyMH/Forms/internal/models"
	"github.com/RiskyMH/Forms/internal/services"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing
func setupTestDB(t *testing.T) *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to create test database: %v", err)
	}

	// Auto-migrate models
	err = db.AutoMigrate(
		&models.User{},
		&models.OAuthIdentity{},
		&models.Form{},
		&models.FormField{},
		&models.FormSubmission{},
		&models.FormSubmissionFieldValue{},
	)
	if err != nil {
		t.Fatalf("Failed to migrate test database: %v", err)
	}

	return db
}

// createTestUser inserts a user with the given role and returns its id
func createTestUser(t *testing.T, db *gorm.DB, role string) string {
	user := models.User{
		ID:    uuid.NewString(),
		Name:  "Test User",
		Email: "test@example.com",
		Role:  role,
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}
	return user.ID
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

// TestCreateForm verifies a new form gets the untitled defaults and one seed field
func TestCreateForm(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, models.RoleBasic)

	formID, err := services.CreateForm(db, userID)
	if err != nil {
		t.Fatalf("CreateForm failed: %v", err)
	}

	form, err := services.GetFormWithFields(db, formID, userID)
	if err != nil {
		t.Fatalf("GetFormWithFields failed: %v", err)
	}

	if form.Name != "Untitled Form" {
		t.Errorf("Expected name 'Untitled Form', got %q", form.Name)
	}
	if len(form.Fields) != 1 {
		t.Fatalf("Expected 1 seed field, got %d", len(form.Fields))
	}
	if form.Fields[0].Name != "Untitled Question" {
		t.Errorf("Expected seed field name 'Untitled Question', got %q", form.Fields[0].Name)
	}
	if form.Fields[0].Type != models.FieldTypeText {
		t.Errorf("Expected seed field type text, got %q", form.Fields[0].Type)
	}
	if form.Fields[0].FieldIndex != 0 {
		t.Errorf("Expected seed field index 0, got %d", form.Fields[0].FieldIndex)
	}
}

// TestCreateFormAnonymous verifies anonymous callers get the unauthorized sentinel
func TestCreateFormAnonymous(t *testing.T) {
	db := setupTestDB(t)

	_, err := services.CreateForm(db, "")
	if err != services.ErrUnauthorized {
		t.Errorf("Expected ErrUnauthorized, got %v", err)
	}
}

// TestSaveFormReorder verifies a save reassigns field indices to the posted order
func TestSaveFormReorder(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, models.RoleBasic)

	formID, err := services.CreateForm(db, userID)
	if err != nil {
		t.Fatalf("CreateForm failed: %v", err)
	}
	second, err := services.MakeField(db, userID, formID, models.FieldTypeChoice)
	if err != nil {
		t.Fatalf("MakeField failed: %v", err)
	}

	form, _ := services.GetFormWithFields(db, formID, userID)
	first := form.Fields[0].ID

	// Post the two fields in reverse order
	err = services.SaveForm(db, userID, services.SaveFormInput{
		ID:   formID,
		Name: strPtr("Feedback"),
		Fields: []services.SaveFieldInput{
			{ID: second, Name: strPtr("Rating")},
			{ID: first},
		},
	})
	if err != nil {
		t.Fatalf("SaveForm failed: %v", err)
	}

	form, err = services.GetFormWithFields(db, formID, userID)
	if err != nil {
		t.Fatalf("GetFormWithFields failed: %v", err)
	}

	if form.Name != "Feedback" {
		t.Errorf("Expected form name 'Feedback', got %q", form.Name)
	}
	if form.Fields[0].ID != second || form.Fields[1].ID != first {
		t.Errorf("Expected posted order [%s %s], got [%s %s]",
			second, first, form.Fields[0].ID, form.Fields[1].ID)
	}
	if form.Fields[0].Name != "Rating" {
		t.Errorf("Expected renamed field 'Rating', got %q", form.Fields[0].Name)
	}
}

// TestSaveFormAbsentAttributesUnchanged verifies omitted attributes keep their
// stored values while posted ones change
func TestSaveFormAbsentAttributesUnchanged(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, models.RoleBasic)

	formID, _ := services.CreateForm(db, userID)
	form, _ := services.GetFormWithFields(db, formID, userID)
	fieldID := form.Fields[0].ID

	err := services.SaveForm(db, userID, services.SaveFormInput{
		ID: formID,
		Fields: []services.SaveFieldInput{
			{ID: fieldID, Required: boolPtr(true)},
		},
	})
	if err != nil {
		t.Fatalf("SaveForm failed: %v", err)
	}

	form, _ = services.GetFormWithFields(db, formID, userID)
	if form.Name != "Untitled Form" {
		t.Errorf("Expected unposted form name unchanged, got %q", form.Name)
	}
	if form.Fields[0].Name != "Untitled Question" {
		t.Errorf("Expected unposted field name unchanged, got %q", form.Fields[0].Name)
	}
	if !form.Fields[0].Required {
		t.Error("Expected posted required flag to be applied")
	}
}

// TestSaveFormNonOwner verifies a non-owner save modifies nothing and reports
// the unauthorized sentinel
func TestSaveFormNonOwner(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, models.RoleBasic)
	other := createTestUser(t, db, models.RoleBasic)

	formID, _ := services.CreateForm(db, owner)

	err := services.SaveForm(db, other, services.SaveFormInput{
		ID:   formID,
		Name: strPtr("Hijacked"),
	})
	if err != services.ErrUnauthorized {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}

	form, _ := services.GetFormWithFields(db, formID, owner)
	if form.Name != "Untitled Form" {
		t.Errorf("Expected form untouched by non-owner save, got name %q", form.Name)
	}
}

// TestMakeFieldIndexGaps verifies new fields take max(index)+1 and deletion
// gaps are never reused
func TestMakeFieldIndexGaps(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, models.RoleBasic)

	formID, _ := services.CreateForm(db, userID) // seed field at index 0
	f1, _ := services.MakeField(db, userID, formID, models.FieldTypeText)
	if _, err := services.MakeField(db, userID, formID, models.FieldTypeDate); err != nil {
		t.Fatalf("MakeField failed: %v", err)
	}

	// Remove the middle field, leaving indices 0 and 2
	if err := services.DeleteField(db, userID, formID, f1); err != nil {
		t.Fatalf("DeleteField failed: %v", err)
	}

	f3, err := services.MakeField(db, userID, formID, models.FieldTypeText)
	if err != nil {
		t.Fatalf("MakeField failed: %v", err)
	}

	var field models.FormField
	if err := db.First(&field, "id = ?", f3).Error; err != nil {
		t.Fatalf("Failed to load new field: %v", err)
	}
	if field.FieldIndex != 3 {
		t.Errorf("Expected new field at index 3 (gap not reused), got %d", field.FieldIndex)
	}

	// Surviving fields keep their indices
	var indices []int
	db.Model(&models.FormField{}).Where("form_id = ?", formID).
		Order("field_index ASC").Pluck("field_index", &indices)
	if len(indices) != 3 || indices[0] != 0 || indices[1] != 2 || indices[2] != 3 {
		t.Errorf("Expected indices [0 2 3], got %v", indices)
	}
}

// TestMakeFieldChoiceDefault verifies a new choice field gets the seed option
func TestMakeFieldChoiceDefault(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, models.RoleBasic)

	formID, _ := services.CreateForm(db, userID)
	fieldID, err := services.MakeField(db, userID, formID, models.FieldTypeChoice)
	if err != nil {
		t.Fatalf("MakeField failed: %v", err)
	}

	var field models.FormField
	if err := db.First(&field, "id = ?", fieldID).Error; err != nil {
		t.Fatalf("Failed to load field: %v", err)
	}
	if field.Name != "New Field" {
		t.Errorf("Expected name 'New Field', got %q", field.Name)
	}
	if len(field.Options) != 1 || field.Options[0] != "New choice" {
		t.Errorf("Expected options ['New choice'], got %v", field.Options)
	}
}

// TestMakeFieldInvalidType verifies unknown field types are rejected
func TestMakeFieldInvalidType(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, models.RoleBasic)
	formID, _ := services.CreateForm(db, userID)

	if _, err := services.MakeField(db, userID, formID, "signature"); err != services.ErrNotFound {
		t.Errorf("Expected ErrNotFound for unknown type, got %v", err)
	}
}

// TestDeleteFieldUnknown verifies deleting a missing field reports not found
func TestDeleteFieldUnknown(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, models.RoleBasic)
	formID, _ := services.CreateForm(db, userID)

	if err := services.DeleteField(db, userID, formID, uuid.NewString()); err != services.ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

// TestListFormsSearch verifies the case-insensitive name filter and ordering
func TestListFormsSearch(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, models.RoleBasic)

	for _, name := range []string{"Feedback Survey", "Quiz", "More feedback"} {
		formID, _ := services.CreateForm(db, userID)
		if err := services.SaveForm(db, userID, services.SaveFormInput{
			ID:   formID,
			Name: strPtr(name),
		}); err != nil {
			t.Fatalf("SaveForm failed: %v", err)
		}
	}

	forms, err := services.ListForms(db, userID, "FEED")
	if err != nil {
		t.Fatalf("ListForms failed: %v", err)
	}
	if len(forms) != 2 {
		t.Fatalf("Expected 2 matching forms, got %d", len(forms))
	}
	// Most recently modified first
	if forms[0].Name != "More feedback" {
		t.Errorf("Expected newest match first, got %q", forms[0].Name)
	}

	all, _ := services.ListForms(db, userID, "")
	if len(all) != 3 {
		t.Errorf("Expected 3 forms without a filter, got %d", len(all))
	}
}

// TestDeleteFormCascade verifies fields, submissions, and values go with the form
func TestDeleteFormCascade(t *testing.T) {
	db := setupTestDB(t)
	userID := createTestUser(t, db, models.RoleBasic)

	formID, _ := services.CreateForm(db, userID)
	form, _ := services.GetFormWithFields(db, formID, userID)
	fieldID := form.Fields[0].ID

	result, err := services.SubmitForm(db, services.SubmissionInput{
		FormID: formID,
		Values: map[string][]string{fieldID: {"hello"}},
	})
	if err != nil || result.Error != "" {
		t.Fatalf("SubmitForm failed: %v / %q", err, result.Error)
	}

	if err := services.DeleteForm(db, formID, userID); err != nil {
		t.Fatalf("DeleteForm failed: %v", err)
	}

	var count int64
	db.Model(&models.Form{}).Where("id = ?", formID).Count(&count)
	if count != 0 {
		t.Error("Expected form row deleted")
	}
	db.Model(&models.FormField{}).Where("form_id = ?", formID).Count(&count)
	if count != 0 {
		t.Error("Expected field rows deleted")
	}
	db.Model(&models.FormSubmission{}).Where("form_id = ?", formID).Count(&count)
	if count != 0 {
		t.Error("Expected submission rows deleted")
	}
	db.Model(&models.FormSubmissionFieldValue{}).Count(&count)
	if count != 0 {
		t.Error("Expected value rows deleted")
	}
}

// TestDeleteFormNonOwner verifies a non-owner delete leaves the form in place
func TestDeleteFormNonOwner(t *testing.T) {
	db := setupTestDB(t)
	owner := createTestUser(t, db, models.RoleBasic)
	other := createTestUser(t, db, models.RoleBasic)

	formID, _ := services.CreateForm(db, owner)

	if err := services.DeleteForm(db, formID, other); err != services.ErrUnauthorized {
		t.Fatalf("Expected ErrUnauthorized, got %v", err)
	}

	var count int64
	db.Model(&models.Form{}).Where("id = ?", formID).Count(&count)
	if count != 1 {
		t.Error("Expected form to survive non-owner delete")
	}
}
