package formschema

import (
	"testing"

	"fica_onboarding_go/models"

	"github.com/stretchr/testify/assert"
)

func TestFieldsFor(t *testing.T) {
	assert.Len(t, FieldsFor(models.ClientTypeIndividual), 7)
	assert.Len(t, FieldsFor(models.ClientTypeCompany), 10)
	assert.Len(t, FieldsFor(models.ClientTypeTrust), 8)
	assert.Empty(t, FieldsFor("Partnership"))
	assert.Empty(t, FieldsFor(""))
}

func TestDocumentRequirementsFor(t *testing.T) {
	assert.Len(t, DocumentRequirementsFor(models.ClientTypeIndividual), 4)
	assert.Len(t, DocumentRequirementsFor(models.ClientTypeCompany), 9)
	assert.Len(t, DocumentRequirementsFor(models.ClientTypeTrust), 8)
	assert.Empty(t, DocumentRequirementsFor("Partnership"))
}

func TestRequirementByID(t *testing.T) {
	req, ok := RequirementByID(models.ClientTypeIndividual, "certifiedId")
	assert.True(t, ok)
	assert.Equal(t, "Certified ID Document", req.Name)

	// Requirement IDs are scoped per client type
	_, ok = RequirementByID(models.ClientTypeIndividual, "trustDeed")
	assert.False(t, ok)

	_, ok = RequirementByID(models.ClientTypeTrust, "trustDeed")
	assert.True(t, ok)
}

func TestAllowsMimeType(t *testing.T) {
	bankLetter, _ := RequirementByID(models.ClientTypeIndividual, "bankConfirmation")
	assert.True(t, bankLetter.AllowsMimeType("application/pdf"))
	assert.False(t, bankLetter.AllowsMimeType("image/jpeg"))

	id, _ := RequirementByID(models.ClientTypeIndividual, "certifiedId")
	assert.True(t, id.AllowsMimeType("image/png"))
	assert.False(t, id.AllowsMimeType("image/gif"))
}

func TestValidateRequiredFields(t *testing.T) {
	errs := Validate(models.ClientTypeIndividual, map[string]string{})
	assert.Len(t, errs, 3) // fullName, idNumber, residentialAddress

	fields := make(map[string]bool)
	for _, e := range errs {
		fields[e.Field] = true
	}
	assert.True(t, fields["fullName"])
	assert.True(t, fields["idNumber"])
	assert.True(t, fields["residentialAddress"])
}

func TestValidateMinLength(t *testing.T) {
	errs := Validate(models.ClientTypeIndividual, map[string]string{
		"fullName":           "J",
		"idNumber":           "123",
		"residentialAddress": "1 Main Road, Cape Town, 8001",
	})
	assert.Len(t, errs, 2)

	// Optional fields only get the length check when a value is present
	errs = Validate(models.ClientTypeIndividual, map[string]string{
		"fullName":           "Jane Doe",
		"idNumber":           "9001015800085",
		"residentialAddress": "1 Main Road, Cape Town, 8001",
		"contactNumber":      "12",
	})
	assert.Len(t, errs, 1)
	assert.Equal(t, "contactNumber", errs[0].Field)
}

func TestValidateRejectsUnknownKeys(t *testing.T) {
	errs := Validate(models.ClientTypeIndividual, map[string]string{
		"fullName":           "Jane Doe",
		"idNumber":           "9001015800085",
		"residentialAddress": "1 Main Road, Cape Town, 8001",
		"favouriteColour":    "blue",
	})
	assert.Len(t, errs, 1)
	assert.Equal(t, "favouriteColour", errs[0].Field)
}

func TestValidateUnknownClientType(t *testing.T) {
	errs := Validate("Partnership", map[string]string{})
	assert.Len(t, errs, 1)
	assert.Equal(t, "clientType", errs[0].Field)
}

func TestValidatePassesCompleteData(t *testing.T) {
	errs := Validate(models.ClientTypeTrust, map[string]string{
		"trustName":               "Doe Family Trust",
		"trustRegistrationNumber": "IT1234/2020",
		"trusteeDetails":          "Trustee A (ID: 111222333)",
	})
	assert.Empty(t, errs)
}
