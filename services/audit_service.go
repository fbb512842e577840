package services

import (
	"fica_onboarding_go/models"
	"log"
	"time"

	"gorm.io/gorm"
)

// AppendAuditLog creates one audit entry. It runs synchronously so every
// mutation and its audit record land together; callers pass a rendered
// detail string (point-in-time snapshot, see models.AuditLog).
func AppendAuditLog(db *gorm.DB, actor *models.User, action, entityType, entityID, details string) {
	entry := models.AuditLog{
		Action:     action,
		EntityType: entityType,
		EntityID:   entityID,
		Details:    details,
	}
	if actor != nil {
		entry.UserID = ptrIfNotEmpty(actor.ID)
		entry.UserName = actor.Name
	} else {
		entry.UserName = "system"
	}

	if err := db.Create(&entry).Error; err != nil {
		log.Printf("[AUDIT] Failed to create audit log: %v", err)
	}
}

// ptrIfNotEmpty returns a pointer to the string if not empty, nil otherwise
func ptrIfNotEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// AuditLogFilters contains filter options for audit log queries
type AuditLogFilters struct {
	UserID      string
	EntityType  string
	EntityID    string
	Action      string
	DateFrom    time.Time
	DateTo      time.Time
	SearchQuery string
}

// GetAuditLogs retrieves paginated audit logs, newest first
func GetAuditLogs(db *gorm.DB, filters AuditLogFilters, page, pageSize int) ([]models.AuditLog, int64, error) {
	query := db.Model(&models.AuditLog{})

	if filters.UserID != "" {
		query = query.Where("user_id = ?", filters.UserID)
	}
	if filters.EntityType != "" {
		query = query.Where("entity_type = ?", filters.EntityType)
	}
	if filters.EntityID != "" {
		query = query.Where("entity_id = ?", filters.EntityID)
	}
	if filters.Action != "" {
		query = query.Where("action = ?", filters.Action)
	}
	if !filters.DateFrom.IsZero() {
		query = query.Where("created_at >= ?", filters.DateFrom)
	}
	if !filters.DateTo.IsZero() {
		query = query.Where("created_at <= ?", filters.DateTo)
	}
	if filters.SearchQuery != "" {
		searchPattern := "%" + filters.SearchQuery + "%"
		query = query.Where(
			"details LIKE ? OR user_name LIKE ? OR action LIKE ?",
			searchPattern, searchPattern, searchPattern,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var logs []models.AuditLog
	offset := (page - 1) * pageSize
	err := query.Order("created_at DESC").
		Offset(offset).
		Limit(pageSize).
		Find(&logs).Error

	return logs, total, err
}

// GetEntityAuditHistory retrieves the audit history for a specific entity
func GetEntityAuditHistory(db *gorm.DB, entityType, entityID string) ([]models.AuditLog, error) {
	var logs []models.AuditLog
	err := db.Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}
