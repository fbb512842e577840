package services

import (
	"log"
	"time"

	"fica_onboarding_go/models"

	"gorm.io/gorm"
)

// SeedDemoData populates an empty store with demo users, cases and a
// conversation so the application is usable out of the box. Skipped when
// any user already exists.
func SeedDemoData(db *gorm.DB, typingTTL time.Duration) error {
	var count int64
	if err := db.Model(&models.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		log.Println("[SEED] Users already exist, skipping demo seed")
		return nil
	}

	password, err := HashPassword("demo-password")
	if err != nil {
		return err
	}

	client := &models.User{Name: "Test Client", Email: "client@example.com", Password: password, Role: models.RoleClient}
	staff := &models.User{Name: "Test Staff", Email: "staff@example.com", Password: password, Role: models.RoleStaff, Department: "Onboarding"}
	admin := &models.User{Name: "Test Admin", Email: "admin@example.com", Password: password, Role: models.RoleAdmin}

	for _, u := range []*models.User{client, staff, admin} {
		if err := db.Create(u).Error; err != nil {
			return err
		}
	}

	if err := db.Create(&models.StaffProfile{
		UserID:      staff.ID,
		Department:  "Onboarding",
		Position:    "Compliance Consultant",
		AccessLevel: models.AccessLevelAdvanced,
		MaxCaseLoad: 15,
	}).Error; err != nil {
		return err
	}

	// One individual case still in progress
	individualCase := &models.ClientCase{
		ClientID:   client.ID,
		ClientName: client.Name,
		ClientType: models.ClientTypeIndividual,
		Status:     models.CaseStatusPendingSubmission,
	}
	if err := individualCase.SetFormData(map[string]string{
		"fullName":           client.Name,
		"idNumber":           "123456789",
		"residentialAddress": "123 Main St, Anytown",
	}); err != nil {
		return err
	}
	if err := db.Create(individualCase).Error; err != nil {
		return err
	}

	// A direct conversation between the client and their consultant
	chat := NewChatService(db, typingTTL)
	conv, err := chat.CreateConversation(client, models.ConversationTypeDirect,
		[]string{client.ID, staff.ID}, "", nil, nil)
	if err != nil {
		return err
	}
	if _, err := chat.SendMessage(client, conv.ID,
		"Hi, I have a question about my onboarding documents.", nil, nil); err != nil {
		return err
	}
	if _, err := chat.SendMessage(staff, conv.ID,
		"Hello! I'd be happy to help. What specific question do you have?", nil, nil); err != nil {
		return err
	}

	AppendAuditLog(db, nil, "demo_data_seeded", models.AuditEntitySystem, "seed",
		"Seeded demo users, case and conversation")
	log.Println("[SEED] Demo data created")
	return nil
}
