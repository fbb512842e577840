package services

import (
	"testing"
	"time"

	"fica_onboarding_go/models"

	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSeedTestDB() *gorm.DB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		panic("failed to connect database")
	}
	db.AutoMigrate(
		&models.User{},
		&models.StaffProfile{},
		&models.ClientCase{},
		&models.AuditLog{},
		&models.ChatConversation{},
		&models.ConversationParticipant{},
		&models.ChatMessage{},
		&models.MessageRead{},
		&models.ChatAttachment{},
		&models.ChatNotification{},
	)
	return db
}

func TestSeedDemoData(t *testing.T) {
	db := setupSeedTestDB()

	assert.NoError(t, SeedDemoData(db, time.Second))

	var users []models.User
	db.Order("email ASC").Find(&users)
	assert.Len(t, users, 3)

	var c models.ClientCase
	assert.NoError(t, db.First(&c).Error)
	assert.Equal(t, models.ClientTypeIndividual, c.ClientType)
	assert.Equal(t, "Test Client", c.FormDataMap()["fullName"])

	var msgCount int64
	db.Model(&models.ChatMessage{}).Count(&msgCount)
	assert.Equal(t, int64(2), msgCount)

	// Passwords are stored hashed
	assert.True(t, CheckPassword("demo-password", users[0].Password))
}

func TestSeedDemoDataSkipsNonEmptyStore(t *testing.T) {
	db := setupSeedTestDB()
	createTestUser(db, "Existing", "existing@example.com", models.RoleAdmin)

	assert.NoError(t, SeedDemoData(db, time.Second))

	var count int64
	db.Model(&models.User{}).Count(&count)
	assert.Equal(t, int64(1), count)
}
