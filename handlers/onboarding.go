package handlers

import (
	"encoding/base64"
	"net/http"

	"fica_onboarding_go/db"
	"fica_onboarding_go/middleware"
	"fica_onboarding_go/models"
	"fica_onboarding_go/services"
	"fica_onboarding_go/services/formschema"

	"github.com/labstack/echo/v4"
)

// caseResponse flattens the stored form-data JSON into a map for clients
type caseResponse struct {
	*models.ClientCase
	FormData map[string]string `json:"form_data"`
}

func newCaseResponse(c *models.ClientCase) caseResponse {
	return caseResponse{ClientCase: c, FormData: c.FormDataMap()}
}

// GetMyCase returns the acting client's onboarding case
func GetMyCase(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	svc := services.NewOnboardingService(db.DB)
	clientCase, err := svc.CaseForClient(user.ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, newCaseResponse(clientCase))
}

// GetFormSchema returns the field and requirement sets for a client type
func GetFormSchema(c echo.Context) error {
	clientType := c.QueryParam("client_type")
	return c.JSON(http.StatusOK, map[string]interface{}{
		"fields":                formschema.FieldsFor(clientType),
		"document_requirements": formschema.DocumentRequirementsFor(clientType),
	})
}

type selectClientTypeRequest struct {
	ClientType string `json:"client_type"`
}

// SelectClientType creates or re-types the acting client's case
func SelectClientType(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req selectClientTypeRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	svc := services.NewOnboardingService(db.DB)
	clientCase, err := svc.SelectClientType(user, req.ClientType)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, newCaseResponse(clientCase))
}

type formDataRequest struct {
	FormData map[string]string `json:"form_data"`
}

// SaveProgress persists form data without advancing the case
func SaveProgress(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req formDataRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	svc := services.NewOnboardingService(db.DB)
	clientCase, err := svc.SaveProgress(user.ID, req.FormData)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, newCaseResponse(clientCase))
}

// SubmitCase validates and submits the case for review. Validation issues
// come back as 422 with the field errors and missing requirement IDs.
func SubmitCase(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req formDataRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	svc := services.NewOnboardingService(db.DB)
	clientCase, issues, err := svc.Submit(user.ID, req.FormData)
	if err != nil {
		return serviceError(c, err)
	}
	if issues != nil {
		return c.JSON(http.StatusUnprocessableEntity, issues)
	}
	return c.JSON(http.StatusOK, newCaseResponse(clientCase))
}

type uploadDocumentRequest struct {
	RequirementID string `json:"requirement_id"`
	Name          string `json:"name"`
	MimeType      string `json:"mime_type"`
	Data          string `json:"data"` // base64 payload
	Description   string `json:"description"`
}

// UploadDocument stores a document against a requirement of the case
func UploadDocument(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	var req uploadDocumentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	payload, err := base64.StdEncoding.DecodeString(req.Data)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Data must be base64 encoded"})
	}

	svc := services.NewOnboardingService(db.DB)
	clientCase, err := svc.CaseForClient(user.ID)
	if err != nil {
		return serviceError(c, err)
	}

	docs := services.NewDocumentService(db.DB, Cfg.MaxDocumentSize)
	doc, err := docs.AddDocument(clientCase, user, req.RequirementID, req.Name, req.MimeType, payload, req.Description)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusCreated, doc)
}

// RemoveDocument deletes an upload from the acting client's case
func RemoveDocument(c echo.Context) error {
	user := middleware.GetCurrentUser(c)

	svc := services.NewOnboardingService(db.DB)
	clientCase, err := svc.CaseForClient(user.ID)
	if err != nil {
		return serviceError(c, err)
	}

	docs := services.NewDocumentService(db.DB, Cfg.MaxDocumentSize)
	if err := docs.RemoveDocument(clientCase, user, c.Param("id")); err != nil {
		return serviceError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}
