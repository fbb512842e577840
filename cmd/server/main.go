package main

import (
	"log"

	"fica_onboarding_go/config"
	"fica_onboarding_go/db"
	"fica_onboarding_go/handlers"
	"fica_onboarding_go/middleware"
	"fica_onboarding_go/models"
	"fica_onboarding_go/services"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize database
	if err := db.Initialize(cfg.DBPath, cfg.Environment); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	// Run migrations
	if err := db.AutoMigrate(
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
	); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	if cfg.SeedDemoData {
		if err := services.SeedDemoData(db.DB, cfg.TypingTTL); err != nil {
			log.Fatalf("Failed to seed demo data: %v", err)
		}
	}

	// Wire shared services. The chat service holds ephemeral typing and
	// presence state so it lives for the process lifetime.
	handlers.Init(cfg,
		services.NewChatService(db.DB, cfg.TypingTTL),
		services.NewRiskService(cfg.RiskServiceURL, cfg.RiskServiceKey))

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Logger())
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.AllowedOrigins,
	}))

	// Public routes (mock login only)
	e.POST("/api/login", handlers.Login)

	// Authenticated routes
	api := e.Group("/api")
	api.Use(middleware.RequireAuth())
	{
		api.GET("/me", handlers.Me)

		// Client onboarding (acting client's own case)
		api.GET("/onboarding/case", handlers.GetMyCase)
		api.GET("/onboarding/schema", handlers.GetFormSchema)
		api.POST("/onboarding/client-type", handlers.SelectClientType)
		api.PUT("/onboarding/form", handlers.SaveProgress)
		api.POST("/onboarding/submit", handlers.SubmitCase)
		api.POST("/onboarding/documents", handlers.UploadDocument)
		api.DELETE("/onboarding/documents/:id", handlers.RemoveDocument)

		// Chat
		api.POST("/conversations", handlers.CreateConversation)
		api.GET("/conversations", handlers.ListConversations)
		api.GET("/conversations/:id/messages", handlers.GetMessages)
		api.POST("/conversations/:id/messages", handlers.SendMessage)
		api.POST("/conversations/:id/read", handlers.MarkAsRead)
		api.POST("/conversations/:id/typing", handlers.SetTyping)
		api.GET("/conversations/:id/typing", handlers.GetTyping)
		api.POST("/conversations/:id/archive", handlers.ArchiveConversation)
		api.PUT("/messages/:id", handlers.EditMessage)
		api.DELETE("/messages/:id", handlers.DeleteMessage)
		api.GET("/messages/search", handlers.SearchMessages)
		api.GET("/notifications", handlers.GetNotifications)
		api.PUT("/presence", handlers.UpdatePresence)
		api.GET("/presence/:id", handlers.GetPresence)

		// Staff and admin case work
		staffRoutes := api.Group("")
		staffRoutes.Use(middleware.RequireRole(models.RoleStaff, models.RoleAdmin))
		{
			staffRoutes.GET("/cases", handlers.ListCases)
			staffRoutes.GET("/cases/:id", handlers.GetCase)
			staffRoutes.PUT("/cases/:id/status", handlers.SetCaseStatus)
			staffRoutes.PUT("/cases/:id/assign", handlers.AssignCase)
			staffRoutes.POST("/cases/:id/assess", handlers.AssessCase)

			staffRoutes.POST("/tasks", handlers.CreateTask)
			staffRoutes.GET("/tasks", handlers.ListTasks)
			staffRoutes.GET("/tasks/overdue", handlers.ListOverdueTasks)
			staffRoutes.GET("/tasks/:id", handlers.GetTask)
			staffRoutes.PUT("/tasks/:id/status", handlers.UpdateTaskStatus)

			staffRoutes.GET("/audit-logs", handlers.ListAuditLogs)
			staffRoutes.GET("/audit-logs/export", handlers.ExportAuditLogs)
			staffRoutes.GET("/audit-logs/:entity_type/:id", handlers.GetEntityAuditHistory)
			staffRoutes.GET("/audit-logs/:entity_type/:id/export", handlers.ExportEntityAuditHistory)
		}

		// Admin-only user management
		adminRoutes := api.Group("")
		adminRoutes.Use(middleware.RequireRole(models.RoleAdmin))
		{
			adminRoutes.POST("/users", handlers.CreateUser)
			adminRoutes.GET("/users", handlers.ListUsers)
			adminRoutes.GET("/users/:id", handlers.GetUser)
			adminRoutes.PUT("/users/:id", handlers.UpdateUser)
			adminRoutes.DELETE("/users/:id", handlers.DeactivateUser)
			adminRoutes.GET("/users/:id/client-profile", handlers.GetClientProfile)
			adminRoutes.PUT("/users/:id/client-profile", handlers.UpsertClientProfile)
			adminRoutes.GET("/users/:id/staff-profile", handlers.GetStaffProfile)
			adminRoutes.PUT("/users/:id/staff-profile", handlers.UpsertStaffProfile)
		}
	}

	log.Printf("Starting server on port %s (%s)", cfg.ServerPort, cfg.Environment)
	if err := e.Start(":" + cfg.ServerPort); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
