package services

import (
	"testing"

	"fica_onboarding_go/models"
	"fica_onboarding_go/services/formschema"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupOnboardingTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.User{}, &models.ClientCase{}, &models.DocumentUpload{}, &models.AuditLog{})
	return db
}

func createTestUser(db *gorm.DB, name, email, role string) *models.User {
	user := &models.User{Name: name, Email: email, Password: "x", Role: role, IsActive: true}
	db.Create(user)
	return user
}

func validIndividualData() map[string]string {
	return map[string]string{
		"fullName":           "Jane Doe",
		"idNumber":           "9001015800085",
		"residentialAddress": "1 Main Road, Cape Town, 8001",
	}
}

// uploadAllRequirements satisfies every requirement of the case's type with
// a minimal PDF payload
func uploadAllRequirements(t *testing.T, db *gorm.DB, c *models.ClientCase, uploader *models.User) {
	t.Helper()
	docs := NewDocumentService(db, 5*1024*1024)
	for _, req := range formschema.DocumentRequirementsFor(c.ClientType) {
		_, err := docs.AddDocument(c, uploader, req.ID, req.ID+".pdf", "application/pdf", []byte("%PDF-1.4"), "")
		assert.NoError(t, err)
	}
}

func TestSelectClientTypeCreatesCase(t *testing.T) {
	db := setupOnboardingTestDB()
	client := createTestUser(db, "Jane Doe", "jane@example.com", models.RoleClient)
	svc := NewOnboardingService(db)

	c, err := svc.SelectClientType(client, models.ClientTypeIndividual)
	assert.NoError(t, err)
	assert.Equal(t, models.CaseStatusPendingSubmission, c.Status)
	assert.Equal(t, models.ClientTypeIndividual, c.ClientType)
	assert.Equal(t, client.ID, c.ClientID)

	// Selecting the same type again is a no-op on the same case
	again, err := svc.SelectClientType(client, models.ClientTypeIndividual)
	assert.NoError(t, err)
	assert.Equal(t, c.ID, again.ID)

	var logs []models.AuditLog
	db.Where("entity_id = ?", c.ID).Find(&logs)
	assert.Len(t, logs, 1)
	assert.Equal(t, "case_created", logs[0].Action)
}

func TestSelectClientTypeRejectsInvalid(t *testing.T) {
	db := setupOnboardingTestDB()
	client := createTestUser(db, "Jane Doe", "jane@example.com", models.RoleClient)
	svc := NewOnboardingService(db)

	_, err := svc.SelectClientType(client, "Partnership")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSwitchClientTypeResetsCase(t *testing.T) {
	db := setupOnboardingTestDB()
	client := createTestUser(db, "Jane Doe", "jane@example.com", models.RoleClient)
	svc := NewOnboardingService(db)

	c, _ := svc.SelectClientType(client, models.ClientTypeIndividual)
	_, err := svc.SaveProgress(client.ID, validIndividualData())
	assert.NoError(t, err)

	docs := NewDocumentService(db, 5*1024*1024)
	_, err = docs.AddDocument(c, client, "certifiedId", "id.pdf", "application/pdf", []byte("%PDF-1.4"), "")
	assert.NoError(t, err)

	switched, err := svc.SelectClientType(client, models.ClientTypeCompany)
	assert.NoError(t, err)
	assert.Equal(t, models.ClientTypeCompany, switched.ClientType)
	assert.Equal(t, models.CaseStatusPendingSubmission, switched.Status)
	assert.Empty(t, switched.FormDataMap())

	var count int64
	db.Model(&models.DocumentUpload{}).Where("case_id = ?", switched.ID).Count(&count)
	assert.Zero(t, count)
}

func TestSaveProgressGuards(t *testing.T) {
	db := setupOnboardingTestDB()
	client := createTestUser(db, "Jane Doe", "jane@example.com", models.RoleClient)
	svc := NewOnboardingService(db)

	// No case yet
	_, err := svc.SaveProgress(client.ID, validIndividualData())
	assert.ErrorIs(t, err, ErrNotFound)

	c, _ := svc.SelectClientType(client, models.ClientTypeIndividual)

	// Saving works while pending
	saved, err := svc.SaveProgress(client.ID, map[string]string{"fullName": "Jane Doe"})
	assert.NoError(t, err)
	assert.Equal(t, "Jane Doe", saved.FormDataMap()["fullName"])

	// Locked once under review
	db.Model(c).Update("status", models.CaseStatusUnderReview)
	_, err = svc.SaveProgress(client.ID, validIndividualData())
	assert.ErrorIs(t, err, ErrCaseLocked)

	// Editable again when more info is requested
	db.Model(c).Update("status", models.CaseStatusAdditionalInfo)
	_, err = svc.SaveProgress(client.ID, validIndividualData())
	assert.NoError(t, err)
}

func TestSubmitRejectsIncompleteForm(t *testing.T) {
	db := setupOnboardingTestDB()
	client := createTestUser(db, "Jane Doe", "jane@example.com", models.RoleClient)
	svc := NewOnboardingService(db)

	svc.SelectClientType(client, models.ClientTypeIndividual)

	c, issues, err := svc.Submit(client.ID, map[string]string{"fullName": "Jane Doe"})
	assert.NoError(t, err)
	assert.NotNil(t, issues)
	assert.NotEmpty(t, issues.FieldErrors)
	// Documents are missing too
	assert.Len(t, issues.MissingRequirements, 4)
	// Case untouched
	assert.Equal(t, models.CaseStatusPendingSubmission, c.Status)
}

func TestSubmitRejectsMissingDocuments(t *testing.T) {
	db := setupOnboardingTestDB()
	client := createTestUser(db, "Jane Doe", "jane@example.com", models.RoleClient)
	svc := NewOnboardingService(db)

	c, _ := svc.SelectClientType(client, models.ClientTypeIndividual)

	docs := NewDocumentService(db, 5*1024*1024)
	docs.AddDocument(c, client, "certifiedId", "id.pdf", "application/pdf", []byte("%PDF-1.4"), "")

	_, issues, err := svc.Submit(client.ID, validIndividualData())
	assert.NoError(t, err)
	assert.NotNil(t, issues)
	assert.Empty(t, issues.FieldErrors)
	assert.ElementsMatch(t,
		[]string{"proofOfAddress", "proofOfIncome", "bankConfirmation"},
		issues.MissingRequirements)
}

func TestSubmitSucceedsWhenComplete(t *testing.T) {
	db := setupOnboardingTestDB()
	client := createTestUser(db, "Jane Doe", "jane@example.com", models.RoleClient)
	svc := NewOnboardingService(db)

	svc.SelectClientType(client, models.ClientTypeIndividual)
	c, _ := svc.CaseForClient(client.ID)
	uploadAllRequirements(t, db, c, client)

	// Reload so the documents relation is populated
	submitted, issues, err := svc.Submit(client.ID, validIndividualData())
	assert.NoError(t, err)
	assert.Nil(t, issues)
	assert.Equal(t, models.CaseStatusInformationSubmitted, submitted.Status)
	assert.Equal(t, "Jane Doe", submitted.FormDataMap()["fullName"])
}

func TestSetStatusTransitions(t *testing.T) {
	db := setupOnboardingTestDB()
	client := createTestUser(db, "Jane Doe", "jane@example.com", models.RoleClient)
	staff := createTestUser(db, "Sam Staff", "sam@example.com", models.RoleStaff)
	svc := NewOnboardingService(db)

	c, _ := svc.SelectClientType(client, models.ClientTypeIndividual)
	db.Model(c).Update("status", models.CaseStatusInformationSubmitted)

	// Clients cannot drive review statuses
	_, err := svc.SetStatus(client, c.ID, models.CaseStatusUnderReview)
	assert.ErrorIs(t, err, ErrRoleNotAllowed)

	// Staff cannot push a case back to a client-side status
	_, err = svc.SetStatus(staff, c.ID, models.CaseStatusPendingSubmission)
	assert.ErrorIs(t, err, ErrBadTransition)

	_, err = svc.SetStatus(staff, c.ID, "On Hold")
	assert.ErrorIs(t, err, ErrInvalidInput)

	updated, err := svc.SetStatus(staff, c.ID, models.CaseStatusUnderReview)
	assert.NoError(t, err)
	assert.Equal(t, models.CaseStatusUnderReview, updated.Status)

	// Same status is a quiet no-op
	_, err = svc.SetStatus(staff, c.ID, models.CaseStatusUnderReview)
	assert.NoError(t, err)

	updated, err = svc.SetStatus(staff, c.ID, models.CaseStatusApproved)
	assert.NoError(t, err)
	assert.True(t, updated.IsTerminal())

	// Terminal cases are locked
	_, err = svc.SetStatus(staff, c.ID, models.CaseStatusUnderReview)
	assert.ErrorIs(t, err, ErrTerminalStatus)
}

func TestResubmissionAfterAdditionalInfo(t *testing.T) {
	db := setupOnboardingTestDB()
	client := createTestUser(db, "Jane Doe", "jane@example.com", models.RoleClient)
	staff := createTestUser(db, "Sam Staff", "sam@example.com", models.RoleStaff)
	svc := NewOnboardingService(db)

	svc.SelectClientType(client, models.ClientTypeIndividual)
	c, _ := svc.CaseForClient(client.ID)
	uploadAllRequirements(t, db, c, client)

	_, _, err := svc.Submit(client.ID, validIndividualData())
	assert.NoError(t, err)

	_, err = svc.SetStatus(staff, c.ID, models.CaseStatusAdditionalInfo)
	assert.NoError(t, err)

	// The client may edit and resubmit
	data := validIndividualData()
	data["contactNumber"] = "+27 12 345 6789"
	resubmitted, issues, err := svc.Submit(client.ID, data)
	assert.NoError(t, err)
	assert.Nil(t, issues)
	assert.Equal(t, models.CaseStatusInformationSubmitted, resubmitted.Status)
}

func TestRecordAssessment(t *testing.T) {
	db := setupOnboardingTestDB()
	client := createTestUser(db, "Jane Doe", "jane@example.com", models.RoleClient)
	staff := createTestUser(db, "Sam Staff", "sam@example.com", models.RoleStaff)
	svc := NewOnboardingService(db)

	c, _ := svc.SelectClientType(client, models.ClientTypeIndividual)
	assert.False(t, c.IsAssessed())

	result := RiskAssessmentResult{
		RiskLevel:       models.RiskLevelMedium,
		ConfidenceScore: 0.82,
		Reasoning:       "Cross-border income source",
	}
	assessed, err := svc.RecordAssessment(staff, c.ID, result)
	assert.NoError(t, err)
	assert.True(t, assessed.IsAssessed())
	assert.Equal(t, models.RiskLevelMedium, assessed.RiskLevel)
	assert.Equal(t, 0.82, assessed.RiskConfidence)
	assert.NotNil(t, assessed.RiskAssessedAt)
}
