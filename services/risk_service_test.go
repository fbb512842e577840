package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"fica_onboarding_go/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCase(formData map[string]string) *models.ClientCase {
	c := &models.ClientCase{ClientType: models.ClientTypeIndividual}
	c.SetFormData(formData)
	return c
}

func TestBuildClientInformation(t *testing.T) {
	c := testCase(map[string]string{
		"fullName": "Jane Doe",
		"idNumber": "9001015800085",
	})

	info := BuildClientInformation(c)
	assert.Contains(t, info, "Client Type: Individual.")
	assert.Contains(t, info, "Full Name: Jane Doe.")
	assert.Contains(t, info, "ID Number / Passport Number: 9001015800085.")
	// Empty fields are omitted entirely
	assert.NotContains(t, info, "Residential Address")
}

func TestAssessPostsCaseProfile(t *testing.T) {
	var received RiskAssessmentRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/risk-assessments", r.URL.Path)
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&received))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(RiskAssessmentResult{
			RiskLevel:       models.RiskLevelHigh,
			ConfidenceScore: 1.4, // out of range on purpose
			Reasoning:       "Complex ownership structure",
		})
	}))
	defer server.Close()

	svc := NewRiskService(server.URL, "test-key")
	c := testCase(map[string]string{"fullName": "Jane Doe"})
	c.Documents = []models.DocumentUpload{{DataURL: "data:application/pdf;base64,JVBERg=="}}

	result, err := svc.Assess(context.Background(), c)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, models.RiskLevelHigh, result.RiskLevel)
	// Confidence is clamped into [0, 1]
	assert.Equal(t, 1.0, result.ConfidenceScore)

	assert.Equal(t, models.ClientTypeIndividual, received.ClientType)
	assert.Contains(t, received.ClientInformation, "Jane Doe")
	assert.Len(t, received.UploadedDocuments, 1)
}

func TestAssessRejectsUndeclaredContentType(t *testing.T) {
	// A response body without a JSON content type is never decoded, so the
	// zero result must be rejected as an unknown level, not returned as-is
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/plain")
		json.NewEncoder(w).Encode(RiskAssessmentResult{RiskLevel: models.RiskLevelLow, ConfidenceScore: 0.5})
	}))
	defer server.Close()

	svc := NewRiskService(server.URL, "")
	result, err := svc.Assess(context.Background(), testCase(nil))
	assert.Error(t, err)
	assert.Nil(t, result)
}

func TestAssessRejectsUnknownRiskLevel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(RiskAssessmentResult{RiskLevel: "Extreme", ConfidenceScore: 0.5})
	}))
	defer server.Close()

	svc := NewRiskService(server.URL, "")
	_, err := svc.Assess(context.Background(), testCase(nil))
	assert.Error(t, err)
}

func TestAssessSurfacesServerErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	svc := NewRiskService(server.URL, "")
	_, err := svc.Assess(context.Background(), testCase(nil))
	assert.Error(t, err)
}

func TestAssessRequiresClientType(t *testing.T) {
	svc := NewRiskService("http://localhost:0", "")
	_, err := svc.Assess(context.Background(), &models.ClientCase{})
	assert.ErrorIs(t, err, ErrNoClientType)
}
