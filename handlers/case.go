package handlers

import (
	"net/http"

	"fica_onboarding_go/db"
	"fica_onboarding_go/middleware"
	"fica_onboarding_go/services"

	"github.com/labstack/echo/v4"
)

// ListCases returns all onboarding cases (staff dashboards)
func ListCases(c echo.Context) error {
	svc := services.NewOnboardingService(db.DB)
	cases, err := svc.ListCases()
	if err != nil {
		return serviceError(c, err)
	}

	responses := make([]caseResponse, 0, len(cases))
	for i := range cases {
		responses = append(responses, newCaseResponse(&cases[i]))
	}
	return c.JSON(http.StatusOK, responses)
}

// GetCase returns one case by ID
func GetCase(c echo.Context) error {
	svc := services.NewOnboardingService(db.DB)
	clientCase, err := svc.CaseByID(c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, newCaseResponse(clientCase))
}

type setStatusRequest struct {
	Status string `json:"status"`
}

// SetCaseStatus moves a case to a review status and notifies the client
func SetCaseStatus(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var req setStatusRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	svc := services.NewOnboardingService(db.DB)
	clientCase, err := svc.SetStatus(actor, c.Param("id"), req.Status)
	if err != nil {
		return serviceError(c, err)
	}

	admin := services.NewAdminService(db.DB)
	if client, err := admin.UserByID(clientCase.ClientID); err == nil {
		email := services.BuildStatusChangeEmail(client.Email, client.Name, clientCase.Status)
		services.SendEmailAsync(Cfg, email)
	}

	return c.JSON(http.StatusOK, newCaseResponse(clientCase))
}

type assignCaseRequest struct {
	StaffID string `json:"staff_id"`
}

// AssignCase sets the case's assigned staff member
func AssignCase(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	var req assignCaseRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request body"})
	}

	admin := services.NewAdminService(db.DB)
	clientCase, err := admin.AssignCaseToStaff(actor, c.Param("id"), req.StaffID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, newCaseResponse(clientCase))
}

// AssessCase calls the external risk service for a case and merges the
// result. The call is synchronous with no retry; failures surface to the
// caller and the case is left unchanged for a manual retry.
func AssessCase(c echo.Context) error {
	actor := middleware.GetCurrentUser(c)

	svc := services.NewOnboardingService(db.DB)
	clientCase, err := svc.CaseByID(c.Param("id"))
	if err != nil {
		return serviceError(c, err)
	}

	result, err := Risk.Assess(c.Request().Context(), clientCase)
	if err != nil {
		return c.JSON(http.StatusBadGateway, map[string]string{"error": err.Error()})
	}

	clientCase, err = svc.RecordAssessment(actor, clientCase.ID, *result)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(http.StatusOK, newCaseResponse(clientCase))
}
