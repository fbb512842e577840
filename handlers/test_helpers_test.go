package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"fica_onboarding_go/config"
	"fica_onboarding_go/db"
	"fica_onboarding_go/middleware"
	"fica_onboarding_go/models"
	"fica_onboarding_go/services"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupTestDB(t *testing.T) *gorm.DB {
	// Unique shared-memory name isolates tests from each other
	dbName := "mem_" + uuid.New().String()
	testDB, err := gorm.Open(sqlite.Open("file:"+dbName+"?mode=memory&cache=shared&_busy_timeout=5000"), &gorm.Config{})
	assert.NoError(t, err)

	err = testDB.AutoMigrate(
		&models.User{},
		&models.ClientProfile{},
		&models.StaffProfile{},
		&models.ClientCase{},
		&models.DocumentUpload{},
		&models.Task{},
		&models.AuditLog{},
		&models.ChatConversation{},
		&models.ConversationParticipant{},
		&models.ChatMessage{},
		&models.MessageRead{},
		&models.ChatAttachment{},
		&models.ChatNotification{},
	)
	assert.NoError(t, err)

	// Set global DB and wire package collaborators
	db.DB = testDB
	cfg := &config.Config{
		Environment:     "test",
		EmailTestMode:   true,
		MaxDocumentSize: config.DefaultMaxDocumentSize,
		TypingTTL:       config.DefaultTypingTTL,
	}
	Init(cfg, services.NewChatService(testDB, cfg.TypingTTL), services.NewRiskService("", ""))

	return testDB
}

func createUser(t *testing.T, testDB *gorm.DB, name, email, role string) *models.User {
	user := &models.User{Name: name, Email: email, Password: "x", Role: role, IsActive: true}
	assert.NoError(t, testDB.Create(user).Error)
	return user
}

// doRequest runs one authenticated request through the real middleware chain
func doRequest(t *testing.T, e *echo.Echo, method, path string, body string, actor *models.User) *httptest.ResponseRecorder {
	t.Helper()
	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if actor != nil {
		req.Header.Set(middleware.UserIDHeader, actor.ID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// newTestServer builds an echo instance with the routes under test
func newTestServer() *echo.Echo {
	e := echo.New()
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	api.GET("/onboarding/case", GetMyCase)
	api.GET("/onboarding/schema", GetFormSchema)
	api.POST("/onboarding/client-type", SelectClientType)
	api.PUT("/onboarding/form", SaveProgress)
	api.POST("/onboarding/submit", SubmitCase)
	api.POST("/onboarding/documents", UploadDocument)

	api.POST("/conversations", CreateConversation)
	api.GET("/conversations", ListConversations)
	api.GET("/conversations/:id/messages", GetMessages)
	api.POST("/conversations/:id/messages", SendMessage)
	api.POST("/conversations/:id/read", MarkAsRead)
	api.GET("/notifications", GetNotifications)

	staffRoutes := api.Group("")
	staffRoutes.Use(middleware.RequireRole(models.RoleStaff, models.RoleAdmin))
	staffRoutes.GET("/cases", ListCases)
	staffRoutes.PUT("/cases/:id/status", SetCaseStatus)
	return e
}

func decodeJSON(t *testing.T, rec *httptest.ResponseRecorder, target interface{}) {
	t.Helper()
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), target))
}

// waitForAsyncEmail gives the fire-and-forget email goroutine a beat so test
// logs stay readable; nothing is asserted on it
func waitForAsyncEmail() {
	time.Sleep(10 * time.Millisecond)
}
