package services

import (
	"encoding/base64"
	"fmt"

	"fica_onboarding_go/models"
	"fica_onboarding_go/services/formschema"

	"gorm.io/gorm"
)

// DocumentService manages the document manifest of a case: uploads are
// validated against their requirement before the payload is stored as an
// inline data URI.
type DocumentService struct {
	DB      *gorm.DB
	MaxSize int64
}

func NewDocumentService(db *gorm.DB, maxSize int64) *DocumentService {
	return &DocumentService{DB: db, MaxSize: maxSize}
}

// AddDocument validates and stores an upload against a requirement of the
// case's client type. Validation happens before the payload is encoded; on
// rejection nothing is stored. A repeated upload for the same requirement
// creates a new record rather than replacing the old one.
func (s *DocumentService) AddDocument(c *models.ClientCase, uploadedBy *models.User, requirementID, name, mimeType string, payload []byte, description string) (*models.DocumentUpload, error) {
	req, ok := formschema.RequirementByID(c.ClientType, requirementID)
	if !ok {
		return nil, fmt.Errorf("%w: %q for client type %s", ErrUnknownRequired, requirementID, c.ClientType)
	}
	if !req.AllowsMimeType(mimeType) {
		return nil, fmt.Errorf("%w: %s (requirement %s accepts %v)", ErrDocumentType, mimeType, req.ID, req.FileTypes)
	}
	if int64(len(payload)) > s.MaxSize {
		return nil, fmt.Errorf("%w: %d bytes (limit %d)", ErrDocumentTooBig, len(payload), s.MaxSize)
	}

	doc := &models.DocumentUpload{
		CaseID:        c.ID,
		RequirementID: requirementID,
		Name:          name,
		MimeType:      mimeType,
		Size:          int64(len(payload)),
		DataURL:       models.BuildDataURL(mimeType, base64.StdEncoding.EncodeToString(payload)),
		Description:   description,
	}
	if uploadedBy != nil {
		doc.UploadedByID = &uploadedBy.ID
	}

	if err := s.DB.Create(doc).Error; err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	AppendAuditLog(s.DB, uploadedBy, "document_uploaded", models.AuditEntityCase, c.ID,
		fmt.Sprintf("Uploaded %q for requirement %s", name, req.Name))
	return doc, nil
}

// RemoveDocument deletes an upload from a case by exact ID
func (s *DocumentService) RemoveDocument(c *models.ClientCase, actor *models.User, documentID string) error {
	var doc models.DocumentUpload
	err := s.DB.Where("id = ? AND case_id = ?", documentID, c.ID).First(&doc).Error
	if err == gorm.ErrRecordNotFound {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to fetch document: %w", err)
	}

	if err := s.DB.Delete(&doc).Error; err != nil {
		return fmt.Errorf("failed to remove document: %w", err)
	}

	AppendAuditLog(s.DB, actor, "document_removed", models.AuditEntityCase, c.ID,
		fmt.Sprintf("Removed document %q (requirement %s)", doc.Name, doc.RequirementID))
	return nil
}

// Documents returns the current manifest of a case, oldest first
func (s *DocumentService) Documents(caseID string) ([]models.DocumentUpload, error) {
	var docs []models.DocumentUpload
	err := s.DB.Where("case_id = ?", caseID).Order("created_at ASC").Find(&docs).Error
	return docs, err
}

// RequirementMet reports whether at least one upload satisfies the requirement
func RequirementMet(c *models.ClientCase, requirementID string) bool {
	for _, d := range c.Documents {
		if d.Satisfies(requirementID) {
			return true
		}
	}
	return false
}

// AllRequirementsMet is the conjunction over the requirement set; vacuously
// true when the list is empty.
func AllRequirementsMet(c *models.ClientCase, requirements []formschema.DocumentRequirement) bool {
	for _, r := range requirements {
		if !RequirementMet(c, r.ID) {
			return false
		}
	}
	return true
}

// MissingRequirements lists requirement IDs with no matching upload
func MissingRequirements(c *models.ClientCase, requirements []formschema.DocumentRequirement) []string {
	var missing []string
	for _, r := range requirements {
		if !RequirementMet(c, r.ID) {
			missing = append(missing, r.ID)
		}
	}
	return missing
}
