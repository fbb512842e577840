// Package formschema is the single source of truth for the dynamic
// onboarding form: per-client-type field sets, document requirement sets,
// and the validation derived from them. The rendered form and the
// validation can never drift because both read the same tables.
package formschema

import (
	"fmt"

	"fica_onboarding_go/models"
)

// Field input kinds
const (
	KindText     = "text"
	KindDate     = "date"
	KindTextarea = "textarea"
	KindEmail    = "email"
	KindTel      = "tel"
)

// FieldConfig describes one form field for a client type
type FieldConfig struct {
	Name        string `json:"name"`
	Label       string `json:"label"`
	Kind        string `json:"kind"`
	Required    bool   `json:"required"`
	Placeholder string `json:"placeholder,omitempty"`
	MinLength   int    `json:"min_length,omitempty"` // applies when a value is present
}

// DocumentRequirement is a named category of document a client type must
// supply. Derived from this registry, never persisted.
type DocumentRequirement struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	FileTypes   []string `json:"file_types"`
}

// AllowsMimeType reports whether the requirement accepts the MIME type
func (r DocumentRequirement) AllowsMimeType(mimeType string) bool {
	for _, t := range r.FileTypes {
		if t == mimeType {
			return true
		}
	}
	return false
}

var individualFields = []FieldConfig{
	{Name: "fullName", Label: "Full Name", Kind: KindText, Required: true, Placeholder: "e.g., John Doe", MinLength: 2},
	{Name: "idNumber", Label: "ID Number / Passport Number", Kind: KindText, Required: true, Placeholder: "Your ID or Passport number", MinLength: 5},
	{Name: "dateOfBirth", Label: "Date of Birth", Kind: KindDate, Placeholder: "YYYY-MM-DD"},
	{Name: "residentialAddress", Label: "Residential Address", Kind: KindTextarea, Required: true, Placeholder: "Street, City, Postal Code", MinLength: 5},
	{Name: "contactNumber", Label: "Contact Number", Kind: KindTel, Placeholder: "+27 12 345 6789", MinLength: 5},
	{Name: "taxNumber", Label: "Tax Number (Optional)", Kind: KindText, Placeholder: "Your tax identification number"},
	{Name: "sourceOfFunds", Label: "Source of Funds/Wealth (Optional)", Kind: KindText, Placeholder: "e.g., Salary, Business Income"},
}

var companyFields = []FieldConfig{
	{Name: "registeredCompanyName", Label: "Registered Company Name", Kind: KindText, Required: true, MinLength: 2},
	{Name: "registrationNumber", Label: "Company Registration Number", Kind: KindText, Required: true, MinLength: 5},
	{Name: "tradingName", Label: "Trading Name (if different)", Kind: KindText},
	{Name: "registeredAddress", Label: "Registered Address", Kind: KindTextarea, Required: true, MinLength: 5},
	{Name: "businessAddress", Label: "Business Address (if different)", Kind: KindTextarea},
	{Name: "companyContactNumber", Label: "Company Contact Number", Kind: KindTel, MinLength: 5},
	{Name: "companyTaxNumber", Label: "Company Tax Number", Kind: KindText},
	{Name: "vatNumber", Label: "VAT Number (if applicable)", Kind: KindText},
	{Name: "directors", Label: "Details of Directors (Names & ID Numbers)", Kind: KindTextarea, Placeholder: "e.g., Jane Smith (ID: 987654321), Tom Brown (ID: 123123123)"},
	{Name: "shareholders", Label: "Details of Shareholders (>25% UBOs - Names & ID Numbers or Entity Details)", Kind: KindTextarea, Placeholder: "e.g., UBO One (ID: 555444333) - 30%, Entity ABC (Reg: 2022/123/07) - 40%"},
}

var trustFields = []FieldConfig{
	{Name: "trustName", Label: "Name of Trust", Kind: KindText, Required: true, MinLength: 2},
	{Name: "trustRegistrationNumber", Label: "Trust Registration Number (Master of High Court)", Kind: KindText, Required: true, MinLength: 5},
	{Name: "trustType", Label: "Type of Trust", Kind: KindText, Placeholder: "e.g., Discretionary, Testamentary"},
	{Name: "founderDetails", Label: "Details of Founder (Name & ID Number or Entity Details)", Kind: KindTextarea},
	{Name: "trusteeDetails", Label: "Details of all Trustees (Names & ID Numbers)", Kind: KindTextarea, Required: true, Placeholder: "e.g., Trustee A (ID: 111222333), Trustee B (ID: 444555666)", MinLength: 5},
	{Name: "beneficiaryDetails", Label: "Details of Beneficiaries (especially vested rights/significant control)", Kind: KindTextarea},
	{Name: "trustSourceOfFunds", Label: "Source of Funds of the Trust", Kind: KindText},
	{Name: "trustAddress", Label: "Physical Address of the Trust", Kind: KindTextarea, MinLength: 5},
}

var (
	pdfOnly     = []string{"application/pdf"}
	pdfOrImages = []string{"application/pdf", "image/jpeg", "image/png"}
)

var individualRequirements = []DocumentRequirement{
	{ID: "certifiedId", Name: "Certified ID Document", Description: "SA ID card/book, or Passport for foreign nationals. Must be certified and not older than 3 months.", FileTypes: pdfOrImages},
	{ID: "proofOfAddress", Name: "Proof of Residential Address", Description: "Utility bill, bank statement, lease agreement. Not older than 3 months.", FileTypes: pdfOrImages},
	{ID: "proofOfIncome", Name: "Proof of Income/Source of Funds (If applicable)", Description: "Payslip, bank statement showing income.", FileTypes: pdfOrImages},
	{ID: "bankConfirmation", Name: "Bank Confirmation Letter (If applicable)", Description: "Official letter from your bank confirming your account details.", FileTypes: pdfOnly},
}

var companyRequirements = []DocumentRequirement{
	{ID: "companyRegistrationCert", Name: "Company Registration Certificate (e.g., CoR 14.3)", Description: "Official company registration document.", FileTypes: pdfOnly},
	{ID: "noticeOfRegisteredAddress", Name: "Notice of Registered Address (CoR 21.1)", Description: "Document confirming the company's registered address.", FileTypes: pdfOnly},
	{ID: "proofOfBusinessAddress", Name: "Proof of Business Address", Description: "Utility bill or lease agreement for the business premises. Not older than 3 months.", FileTypes: pdfOrImages},
	{ID: "proofOfCompanyBankAccount", Name: "Proof of Company Bank Account", Description: "Bank statement or confirmation letter for the company account.", FileTypes: pdfOnly},
	{ID: "resolutionNominatingRep", Name: "Resolution Nominating Authorised Representative", Description: "Company resolution authorising an individual to act on its behalf.", FileTypes: pdfOnly},
	{ID: "directorFica", Name: "FICA for all Directors", Description: "Certified ID and Proof of Address for each director (upload as separate files or a combined PDF per director).", FileTypes: pdfOrImages},
	{ID: "shareholderFica", Name: "FICA for Shareholders (>25% UBOs)", Description: "FICA documents for individuals or entities holding >25% shares.", FileTypes: pdfOrImages},
	{ID: "financialStatements", Name: "Latest Annual Financial Statements (If applicable)", Description: "Most recent AFS.", FileTypes: pdfOnly},
	{ID: "orgChart", Name: "Organisational Chart (For complex structures)", Description: "Chart showing ownership structure to identify UBOs.", FileTypes: pdfOrImages},
}

var trustRequirements = []DocumentRequirement{
	{ID: "trustDeed", Name: "Trust Deed (or other founding document)", Description: "The legal document establishing the trust.", FileTypes: pdfOnly},
	{ID: "letterOfAuthority", Name: "Letter of Authority (Master of High Court)", Description: "Official letter authorising trustees to act.", FileTypes: pdfOnly},
	{ID: "resolutionNominatingRepTrust", Name: "Resolution Nominating Authorised Representative", Description: "Trust resolution authorising an individual to act on its behalf.", FileTypes: pdfOnly},
	{ID: "proofOfTrustBankAccount", Name: "Proof of Trust's Bank Account", Description: "Bank statement or confirmation letter for the trust account.", FileTypes: pdfOnly},
	{ID: "proofOfAddressTrust", Name: "Proof of Address for the Trust", Description: "Utility bill or similar for the trust's address. Not older than 3 months.", FileTypes: pdfOrImages},
	{ID: "founderFica", Name: "FICA for Founder", Description: "Certified ID and Proof of Address for the founder.", FileTypes: pdfOrImages},
	{ID: "trusteeFica", Name: "FICA for all Trustees", Description: "Certified ID and Proof of Address for each trustee.", FileTypes: pdfOrImages},
	{ID: "beneficiaryFica", Name: "FICA for Beneficiaries (If applicable)", Description: "FICA for beneficiaries with vested rights or significant influence.", FileTypes: pdfOrImages},
}

// FieldsFor returns the ordered field list for a client type. Unknown or
// empty types yield an empty list.
func FieldsFor(clientType string) []FieldConfig {
	switch clientType {
	case models.ClientTypeIndividual:
		return individualFields
	case models.ClientTypeCompany:
		return companyFields
	case models.ClientTypeTrust:
		return trustFields
	default:
		return nil
	}
}

// DocumentRequirementsFor returns the requirement list for a client type.
// Unknown or empty types yield an empty list.
func DocumentRequirementsFor(clientType string) []DocumentRequirement {
	switch clientType {
	case models.ClientTypeIndividual:
		return individualRequirements
	case models.ClientTypeCompany:
		return companyRequirements
	case models.ClientTypeTrust:
		return trustRequirements
	default:
		return nil
	}
}

// RequirementByID looks up one requirement within a client type's set
func RequirementByID(clientType, requirementID string) (DocumentRequirement, bool) {
	for _, r := range DocumentRequirementsFor(clientType) {
		if r.ID == requirementID {
			return r, true
		}
	}
	return DocumentRequirement{}, false
}

// FieldError describes one invalid form field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks form data against the field set for the client type.
// Required fields must be present and non-empty; fields with a minimum
// length are checked whenever a value is present; keys outside the field
// set are rejected so submissions cannot silently carry stray data.
func Validate(clientType string, data map[string]string) []FieldError {
	fields := FieldsFor(clientType)
	if fields == nil {
		return []FieldError{{Field: "clientType", Message: "unknown client type"}}
	}

	known := make(map[string]FieldConfig, len(fields))
	for _, f := range fields {
		known[f.Name] = f
	}

	var errs []FieldError
	for _, f := range fields {
		value := data[f.Name]
		if f.Required && value == "" {
			errs = append(errs, FieldError{Field: f.Name, Message: f.Label + " is required"})
			continue
		}
		if value != "" && f.MinLength > 0 && len(value) < f.MinLength {
			errs = append(errs, FieldError{Field: f.Name, Message: fmt.Sprintf("%s must be at least %d characters", f.Label, f.MinLength)})
		}
	}
	for key := range data {
		if _, ok := known[key]; !ok {
			errs = append(errs, FieldError{Field: key, Message: "unknown field for client type " + clientType})
		}
	}
	return errs
}
