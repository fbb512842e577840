package handlers

import (
	"net/http"

	"fica_onboarding_go/db"
	"fica_onboarding_go/middleware"
	"fica_onboarding_go/models"
	"fica_onboarding_go/services"

	"github.com/labstack/echo/v4"
)

// CreateUser creates a user account and sends a welcome email
func CreateUser(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var input services.CreateUserInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	admin := services.NewAdminService(db.DB)
	user, err := admin.CreateUser(actor, input)
	if err != nil {
		return serviceError(c, err)
	}

	services.SendEmailAsync(Cfg, services.BuildWelcomeEmail(user.Email, user.Name))

	return c.JSON(http.StatusCreated, user)
}

// ListUsers lists accounts, optionally filtered by role
func ListUsers(c echo.Context) error {
	admin := services.NewAdminService(db.DB)
	users, err := admin.ListUsers(c.QueryParam("role"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser returns one account by ID
func GetUser(c echo.Context) error {
	admin := services.NewAdminService(db.DB)
	user, err := admin.UserByID(c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateUser mutates a user's contact metadata and active flag
func UpdateUser(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var input services.UpdateUserInput
	if err := c.Bind(&input); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	admin := services.NewAdminService(db.DB)
	user, err := admin.UpdateUser(actor, c.Param("id"), input)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeactivateUser flips a user inactive. Accounts are never hard-deleted so
// the audit trail keeps its actor references.
func DeactivateUser(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	admin := services.NewAdminService(db.DB)
	user, err := admin.DeactivateUser(actor, c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// GetClientProfile returns the extended profile for a client user
func GetClientProfile(c echo.Context) error {
	admin := services.NewAdminService(db.DB)
	profile, err := admin.ClientProfileFor(c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpsertClientProfile creates or updates a client profile
func UpsertClientProfile(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var profile models.ClientProfile
	if err := c.Bind(&profile); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	profile.UserID = c.Param("id")

	admin := services.NewAdminService(db.DB)
	saved, err := admin.UpsertClientProfile(actor, &profile)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

// GetStaffProfile returns the extended profile for a staff user
func GetStaffProfile(c echo.Context) error {
	admin := services.NewAdminService(db.DB)
	profile, err := admin.StaffProfileFor(c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, profile)
}

// UpsertStaffProfile creates or updates a staff profile
func UpsertStaffProfile(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var profile models.StaffProfile
	if err := c.Bind(&profile); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	profile.UserID = c.Param("id")

	admin := services.NewAdminService(db.DB)
	saved, err := admin.UpsertStaffProfile(actor, &profile)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}
