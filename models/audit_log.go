package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Audit entity type constants
const (
	AuditEntityUser   = "user"
	AuditEntityClient = "client"
	AuditEntityCase   = "case"
	AuditEntityTask   = "task"
	AuditEntitySystem = "system"
)

// AuditLog is an immutable, append-only record of a mutation. UserName and
// Details are rendered at write time from current lookups; if the referenced
// entity is later renamed, old entries keep the stale rendering. That is a
// deliberate denormalized snapshot, historical accuracy over normalization.
type AuditLog struct {
	ID        string    `gorm:"type:uuid;primarykey" json:"id"`
	CreatedAt time.Time `gorm:"index:idx_audit_created_at" json:"created_at"`

	UserID   *string `gorm:"type:uuid;index:idx_audit_user" json:"user_id,omitempty"`
	UserName string  `gorm:"not null" json:"user_name"`

	Action     string `gorm:"not null;index:idx_audit_action" json:"action"`
	EntityType string `gorm:"not null;index:idx_audit_entity" json:"entity_type"`
	EntityID   string `gorm:"not null;index:idx_audit_entity" json:"entity_id"`

	Details string `gorm:"type:text" json:"details,omitempty"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

// BeforeCreate generates UUID
func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return nil
}

// BeforeUpdate prevents modification of audit logs (immutability)
func (a *AuditLog) BeforeUpdate(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound
}

// BeforeDelete prevents deletion of audit logs (immutability)
func (a *AuditLog) BeforeDelete(tx *gorm.DB) error {
	return gorm.ErrRecordNotFound
}

// TableName specifies the table name
func (AuditLog) TableName() string {
	return "audit_logs"
}

// IsValidAuditEntityType checks if the entity type is valid
func IsValidAuditEntityType(entityType string) bool {
	switch entityType {
	case AuditEntityUser, AuditEntityClient, AuditEntityCase, AuditEntityTask, AuditEntitySystem:
		return true
	}
	return false
}
