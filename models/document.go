package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DocumentUpload represents one uploaded FICA document held inline as a
// base64 data URI. Re-uploading for the same requirement creates a new row;
// there is no versioning.
type DocumentUpload struct {
	ID        string         `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	CaseID string     `gorm:"type:uuid;not null;index" json:"case_id"`
	Case   ClientCase `gorm:"foreignKey:CaseID" json:"-"`

	// Which document requirement this upload satisfies
	RequirementID string `gorm:"not null;index" json:"requirement_id"`

	Name        string `gorm:"not null" json:"name"`
	MimeType    string `gorm:"not null" json:"mime_type"`
	Size        int64  `gorm:"not null" json:"size"`
	DataURL     string `gorm:"type:text;not null" json:"-"` // data:<mime>;base64,<payload>
	Description string `gorm:"type:text" json:"description,omitempty"`

	UploadedByID *string `gorm:"type:uuid" json:"uploaded_by_id,omitempty"`
	UploadedBy   *User   `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
}

// BeforeCreate hook to generate UUID
func (d *DocumentUpload) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.New().String()
	}
	return nil
}

// TableName specifies the table name
func (DocumentUpload) TableName() string {
	return "document_uploads"
}

// BuildDataURL assembles the inline data-URI representation of a payload
func BuildDataURL(mimeType, base64Payload string) string {
	return fmt.Sprintf("data:%s;base64,%s", mimeType, base64Payload)
}

// Satisfies reports whether this upload fulfils the given requirement
func (d *DocumentUpload) Satisfies(requirementID string) bool {
	return d.RequirementID == requirementID
}

// IsImage reports whether the upload is an image type
func (d *DocumentUpload) IsImage() bool {
	return strings.HasPrefix(d.MimeType, "image/")
}
