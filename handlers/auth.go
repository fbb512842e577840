package handlers

import (
	"net/http"

	"fica_onboarding_go/db"
	"fica_onboarding_go/middleware"
	"fica_onboarding_go/models"

	"github.com/labstack/echo/v4"
)

type loginRequest struct {
	Email string `json:"email"`
}

// Login resolves a user by email. Authentication is mocked by design:
// there is no credential check, callers then act via the X-User-ID header.
func Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}
	if req.Email == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Email is required"})
	}

	var user models.User
	if err := db.DB.First(&user, "email = ?", req.Email).Error; err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Unknown email"})
	}
	if !user.IsActive {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Account deactivated"})
	}

	return c.JSON(http.StatusOK, user)
}

// Me returns the acting user
func Me(c echo.Context) error {
	return c.JSON(http.StatusOK, middleware.GetCurrentUser(c))
}
