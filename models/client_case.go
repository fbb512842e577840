package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Client type constants
const (
	ClientTypeIndividual = "Individual"
	ClientTypeCompany    = "Company"
	ClientTypeTrust      = "Trust"
)

// Case status constants
const (
	CaseStatusPendingSubmission    = "Pending Submission"
	CaseStatusInformationSubmitted = "Information Submitted"
	CaseStatusUnderReview          = "Under Review"
	CaseStatusAdditionalInfo       = "Additional Info Required"
	CaseStatusApproved             = "Approved"
	CaseStatusRejected             = "Rejected"
)

// Risk level constants
const (
	RiskLevelLow    = "Low"
	RiskLevelMedium = "Medium"
	RiskLevelHigh   = "High"
)

// ClientCase represents one client's onboarding record: form data, documents
// and review status. One case per client, looked up by ClientID.
type ClientCase struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ClientID   string `gorm:"type:uuid;not null;uniqueIndex" json:"client_id"`
	Client     User   `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	ClientName string `json:"client_name,omitempty"`

	// Individual, Company, Trust or empty when no type selected yet
	ClientType string `gorm:"size:20" json:"client_type"`

	// JSON-encoded map of field name -> value; shape is governed by ClientType
	FormData string `gorm:"type:text;not null;default:'{}'" json:"-"`

	Status string `gorm:"not null;default:'Pending Submission';index" json:"status"`

	AssignedStaffID *string `gorm:"type:uuid;index" json:"assigned_staff_id,omitempty"`
	AssignedStaff   *User   `gorm:"foreignKey:AssignedStaffID" json:"assigned_staff,omitempty"`

	// Latest risk assessment snapshot (empty RiskLevel means never assessed)
	RiskLevel      string     `gorm:"size:10" json:"risk_level,omitempty"`
	RiskConfidence float64    `json:"risk_confidence,omitempty"`
	RiskReasoning  string     `gorm:"type:text" json:"risk_reasoning,omitempty"`
	RiskAssessedAt *time.Time `json:"risk_assessed_at,omitempty"`

	Documents []DocumentUpload `gorm:"foreignKey:CaseID" json:"documents,omitempty"`
}

// BeforeCreate hook to generate UUID
func (c *ClientCase) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.New().String()
	}
	if c.FormData == "" {
		c.FormData = "{}"
	}
	return nil
}

// TableName specifies the table name for ClientCase model
func (ClientCase) TableName() string {
	return "client_cases"
}

// FormDataMap decodes the stored form data
func (c *ClientCase) FormDataMap() map[string]string {
	data := make(map[string]string)
	if c.FormData != "" {
		_ = json.Unmarshal([]byte(c.FormData), &data)
	}
	return data
}

// SetFormData encodes and stores the form data map
func (c *ClientCase) SetFormData(data map[string]string) error {
	if data == nil {
		data = map[string]string{}
	}
	encoded, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.FormData = string(encoded)
	return nil
}

// IsTerminal reports whether the case reached a final decision
func (c *ClientCase) IsTerminal() bool {
	return c.Status == CaseStatusApproved || c.Status == CaseStatusRejected
}

// IsMutableByClient reports whether the client may still edit form data
func (c *ClientCase) IsMutableByClient() bool {
	return c.Status == CaseStatusPendingSubmission || c.Status == CaseStatusAdditionalInfo
}

// IsAssessed reports whether a risk assessment has been recorded
func (c *ClientCase) IsAssessed() bool {
	return c.RiskAssessedAt != nil
}

// IsValidClientType checks if the client type is valid
func IsValidClientType(clientType string) bool {
	return clientType == ClientTypeIndividual ||
		clientType == ClientTypeCompany ||
		clientType == ClientTypeTrust
}

// IsValidCaseStatus checks if the status is valid
func IsValidCaseStatus(status string) bool {
	switch status {
	case CaseStatusPendingSubmission,
		CaseStatusInformationSubmitted,
		CaseStatusUnderReview,
		CaseStatusAdditionalInfo,
		CaseStatusApproved,
		CaseStatusRejected:
		return true
	}
	return false
}

// IsValidRiskLevel checks if the risk level is valid
func IsValidRiskLevel(level string) bool {
	return level == RiskLevelLow || level == RiskLevelMedium || level == RiskLevelHigh
}
