package services

import (
	"testing"
	"time"

	"fica_onboarding_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupAuditTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(&models.AuditLog{}, &models.User{})
	return db
}

func TestAppendAuditLog(t *testing.T) {
	db := setupAuditTestDB()
	actor := createTestUser(db, "Sam Staff", "sam@example.com", models.RoleStaff)

	AppendAuditLog(db, actor, "case_status_changed", models.AuditEntityCase, "case-1",
		"Status changed from Information Submitted to Under Review by Sam Staff")

	var entry models.AuditLog
	assert.NoError(t, db.First(&entry, "entity_id = ?", "case-1").Error)
	assert.Equal(t, actor.ID, *entry.UserID)
	assert.Equal(t, "Sam Staff", entry.UserName)
	assert.Equal(t, "case_status_changed", entry.Action)
}

func TestAppendAuditLogSystemActor(t *testing.T) {
	db := setupAuditTestDB()

	AppendAuditLog(db, nil, "demo_data_seeded", models.AuditEntitySystem, "system", "Demo data seeded")

	var entry models.AuditLog
	assert.NoError(t, db.First(&entry, "action = ?", "demo_data_seeded").Error)
	assert.Nil(t, entry.UserID)
	assert.Equal(t, "system", entry.UserName)
}

func TestAuditLogImmutability(t *testing.T) {
	db := setupAuditTestDB()
	AppendAuditLog(db, nil, "user_created", models.AuditEntityUser, "user-1", "original details")

	var entry models.AuditLog
	db.First(&entry, "entity_id = ?", "user-1")

	// Updates and deletes are refused by the model hooks
	assert.Error(t, db.Model(&entry).Update("details", "tampered").Error)
	assert.Error(t, db.Delete(&entry).Error)

	var reloaded models.AuditLog
	assert.NoError(t, db.First(&reloaded, "entity_id = ?", "user-1").Error)
	assert.Equal(t, "original details", reloaded.Details)
}

func TestGetAuditLogsFilters(t *testing.T) {
	db := setupAuditTestDB()
	actor := createTestUser(db, "Sam Staff", "sam@example.com", models.RoleStaff)

	AppendAuditLog(db, actor, "case_created", models.AuditEntityCase, "case-1", "Case created for Jane Doe")
	AppendAuditLog(db, actor, "case_submitted", models.AuditEntityCase, "case-1", "Case submitted")
	AppendAuditLog(db, actor, "task_created", models.AuditEntityTask, "task-1", "Task created")
	AppendAuditLog(db, nil, "demo_data_seeded", models.AuditEntitySystem, "system", "Seeded")

	logs, total, err := GetAuditLogs(db, AuditLogFilters{}, 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), total)
	assert.Len(t, logs, 4)

	logs, total, _ = GetAuditLogs(db, AuditLogFilters{EntityType: models.AuditEntityCase}, 1, 10)
	assert.Equal(t, int64(2), total)
	assert.Len(t, logs, 2)

	logs, total, _ = GetAuditLogs(db, AuditLogFilters{UserID: actor.ID, Action: "task_created"}, 1, 10)
	assert.Equal(t, int64(1), total)

	logs, total, _ = GetAuditLogs(db, AuditLogFilters{SearchQuery: "Jane"}, 1, 10)
	assert.Equal(t, int64(1), total)

	_, total, _ = GetAuditLogs(db, AuditLogFilters{DateFrom: time.Now().Add(time.Hour)}, 1, 10)
	assert.Zero(t, total)
}

func TestGetAuditLogsPagination(t *testing.T) {
	db := setupAuditTestDB()
	for i := 0; i < 5; i++ {
		AppendAuditLog(db, nil, "user_updated", models.AuditEntityUser, "user-1", "update")
	}

	logs, total, err := GetAuditLogs(db, AuditLogFilters{}, 1, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, logs, 2)

	logs, _, _ = GetAuditLogs(db, AuditLogFilters{}, 3, 2)
	assert.Len(t, logs, 1)
}

func TestGetEntityAuditHistory(t *testing.T) {
	db := setupAuditTestDB()
	AppendAuditLog(db, nil, "case_created", models.AuditEntityCase, "case-1", "created")
	AppendAuditLog(db, nil, "case_submitted", models.AuditEntityCase, "case-1", "submitted")
	AppendAuditLog(db, nil, "case_created", models.AuditEntityCase, "case-2", "other case")

	history, err := GetEntityAuditHistory(db, models.AuditEntityCase, "case-1")
	assert.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestExportAuditLogsXLSX(t *testing.T) {
	db := setupAuditTestDB()
	actor := createTestUser(db, "Sam Staff", "sam@example.com", models.RoleStaff)
	AppendAuditLog(db, actor, "case_created", models.AuditEntityCase, "case-1", "Case created")

	buf, err := ExportAuditLogsXLSX(db, AuditLogFilters{})
	assert.NoError(t, err)
	assert.NotZero(t, buf.Len())
	// xlsx is a zip container
	assert.Equal(t, []byte{'P', 'K'}, buf.Bytes()[:2])
}
