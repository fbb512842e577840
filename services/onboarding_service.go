package services

import (
	"fmt"
	"time"

	"fica_onboarding_go/models"
	"fica_onboarding_go/services/formschema"

	"gorm.io/gorm"
)

// OnboardingService drives the per-client case through its lifecycle:
//
//	Pending Submission -> Information Submitted -> Under Review
//	  -> Additional Info Required (-> Information Submitted on resubmission)
//	  -> Approved | Rejected
//
// Approved and Rejected are terminal.
type OnboardingService struct {
	DB *gorm.DB
}

func NewOnboardingService(db *gorm.DB) *OnboardingService {
	return &OnboardingService{DB: db}
}

// SubmissionIssues is the typed outcome of a rejected save or submit. The
// case is left unchanged when issues are returned; MissingRequirements
// directs the caller back to the document step.
type SubmissionIssues struct {
	FieldErrors         []formschema.FieldError `json:"field_errors,omitempty"`
	MissingRequirements []string                `json:"missing_requirements,omitempty"`
}

// CaseForClient loads a client's case with its documents
func (s *OnboardingService) CaseForClient(clientID string) (*models.ClientCase, error) {
	var c models.ClientCase
	err := s.DB.Preload("Documents").Where("client_id = ?", clientID).First(&c).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}
	return &c, nil
}

// CaseByID loads a case by its ID with documents
func (s *OnboardingService) CaseByID(caseID string) (*models.ClientCase, error) {
	var c models.ClientCase
	err := s.DB.Preload("Documents").First(&c, "id = ?", caseID).Error
	if err == gorm.ErrRecordNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch case: %w", err)
	}
	return &c, nil
}

// ListCases returns all cases, newest activity first (staff dashboards)
func (s *OnboardingService) ListCases() ([]models.ClientCase, error) {
	var cases []models.ClientCase
	err := s.DB.Preload("Documents").Order("updated_at DESC").Find(&cases).Error
	return cases, err
}

// SelectClientType creates the client's case when none exists, or switches
// its type. Switching is destructive: form data and documents uploaded
// under the old type are discarded and status resets to Pending Submission.
func (s *OnboardingService) SelectClientType(client *models.User, clientType string) (*models.ClientCase, error) {
	if !models.IsValidClientType(clientType) {
		return nil, fmt.Errorf("%w: client type %q", ErrInvalidInput, clientType)
	}

	existing, err := s.CaseForClient(client.ID)
	if err == ErrNotFound {
		c := &models.ClientCase{
			ClientID:   client.ID,
			ClientName: client.Name,
			ClientType: clientType,
			Status:     models.CaseStatusPendingSubmission,
		}
		if err := s.DB.Create(c).Error; err != nil {
			return nil, fmt.Errorf("failed to create case: %w", err)
		}
		AppendAuditLog(s.DB, client, "case_created", models.AuditEntityCase, c.ID,
			fmt.Sprintf("Onboarding case created for %s as %s", client.Name, clientType))
		return c, nil
	}
	if err != nil {
		return nil, err
	}

	if existing.ClientType == clientType {
		return existing, nil
	}

	oldType := existing.ClientType
	err = s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("case_id = ?", existing.ID).Delete(&models.DocumentUpload{}).Error; err != nil {
			return fmt.Errorf("failed to discard documents: %w", err)
		}
		existing.ClientType = clientType
		existing.FormData = "{}"
		existing.Status = models.CaseStatusPendingSubmission
		existing.Documents = nil
		return tx.Save(existing).Error
	})
	if err != nil {
		return nil, err
	}

	AppendAuditLog(s.DB, client, "case_type_switched", models.AuditEntityCase, existing.ID,
		fmt.Sprintf("Client type changed from %s to %s; form data and documents reset", oldType, clientType))
	return existing, nil
}

// SaveProgress persists form data without changing status. Allowed only
// while the case is still editable by the client and a type is selected.
func (s *OnboardingService) SaveProgress(clientID string, formData map[string]string) (*models.ClientCase, error) {
	c, err := s.CaseForClient(clientID)
	if err != nil {
		return nil, err
	}
	if c.ClientType == "" {
		return nil, ErrNoClientType
	}
	if !c.IsMutableByClient() {
		return nil, ErrCaseLocked
	}

	if err := c.SetFormData(formData); err != nil {
		return nil, fmt.Errorf("failed to encode form data: %w", err)
	}
	if err := s.DB.Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to save progress: %w", err)
	}
	return c, nil
}

// Submit validates the form data against the registry and checks that every
// document requirement is met. On any issue the case is left untouched and
// the issues are returned; on success status becomes Information Submitted.
func (s *OnboardingService) Submit(clientID string, formData map[string]string) (*models.ClientCase, *SubmissionIssues, error) {
	c, err := s.CaseForClient(clientID)
	if err != nil {
		return nil, nil, err
	}
	if c.ClientType == "" {
		return nil, nil, ErrNoClientType
	}
	if !c.IsMutableByClient() {
		return nil, nil, ErrCaseLocked
	}

	issues := &SubmissionIssues{}
	issues.FieldErrors = formschema.Validate(c.ClientType, formData)
	issues.MissingRequirements = MissingRequirements(c, formschema.DocumentRequirementsFor(c.ClientType))
	if len(issues.FieldErrors) > 0 || len(issues.MissingRequirements) > 0 {
		return c, issues, nil
	}

	if err := c.SetFormData(formData); err != nil {
		return nil, nil, fmt.Errorf("failed to encode form data: %w", err)
	}
	c.Status = models.CaseStatusInformationSubmitted
	if err := s.DB.Save(c).Error; err != nil {
		return nil, nil, fmt.Errorf("failed to submit case: %w", err)
	}

	var client models.User
	if err := s.DB.First(&client, "id = ?", c.ClientID).Error; err == nil {
		c.Client = client
	}
	AppendAuditLog(s.DB, &c.Client, "case_submitted", models.AuditEntityCase, c.ID,
		fmt.Sprintf("Case submitted for review (%s)", c.ClientType))
	return c, nil, nil
}

// staffTargets are the statuses a staff action may move a case into
var staffTargets = map[string]bool{
	models.CaseStatusUnderReview:    true,
	models.CaseStatusAdditionalInfo: true,
	models.CaseStatusApproved:       true,
	models.CaseStatusRejected:       true,
}

// SetStatus moves a case to a review status on behalf of staff. Terminal
// states cannot be left; setting the current status is a no-op.
func (s *OnboardingService) SetStatus(actor *models.User, caseID, newStatus string) (*models.ClientCase, error) {
	if !actor.IsStaffOrAdmin() {
		return nil, ErrRoleNotAllowed
	}
	if !models.IsValidCaseStatus(newStatus) {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidInput, newStatus)
	}
	if !staffTargets[newStatus] {
		return nil, fmt.Errorf("%w: %s is not a staff-settable status", ErrBadTransition, newStatus)
	}

	c, err := s.CaseByID(caseID)
	if err != nil {
		return nil, err
	}
	if c.Status == newStatus {
		return c, nil
	}
	if c.IsTerminal() {
		return nil, ErrTerminalStatus
	}

	oldStatus := c.Status
	c.Status = newStatus
	if err := s.DB.Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to update status: %w", err)
	}

	AppendAuditLog(s.DB, actor, "case_status_changed", models.AuditEntityCase, c.ID,
		fmt.Sprintf("Status changed from %s to %s by %s", oldStatus, newStatus, actor.Name))
	return c, nil
}

// RecordAssessment merges a risk assessment result into the case
func (s *OnboardingService) RecordAssessment(actor *models.User, caseID string, result RiskAssessmentResult) (*models.ClientCase, error) {
	c, err := s.CaseByID(caseID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	c.RiskLevel = result.RiskLevel
	c.RiskConfidence = result.ConfidenceScore
	c.RiskReasoning = result.Reasoning
	c.RiskAssessedAt = &now
	if err := s.DB.Save(c).Error; err != nil {
		return nil, fmt.Errorf("failed to record assessment: %w", err)
	}

	AppendAuditLog(s.DB, actor, "case_risk_assessed", models.AuditEntityCase, c.ID,
		fmt.Sprintf("Risk assessed as %s (confidence %.2f)", result.RiskLevel, result.ConfidenceScore))
	return c, nil
}
