package services

import (
	"context"
	"fmt"

	"fica_onboarding_go/models"
	"fica_onboarding_go/services/formschema"

	"github.com/go-resty/resty/v2"
)

// RiskAssessmentRequest is the wire contract of the external risk service
type RiskAssessmentRequest struct {
	ClientType        string   `json:"clientType"`
	ClientInformation string   `json:"clientInformation"`
	UploadedDocuments []string `json:"uploadedDocuments"` // data URIs
}

// RiskAssessmentResult is the typed response of the external risk service
type RiskAssessmentResult struct {
	RiskLevel       string  `json:"riskLevel"`
	ConfidenceScore float64 `json:"confidenceScore"`
	Reasoning       string  `json:"reasoning"`
}

// RiskService formats case data into a request for the external AI risk
// service and returns the typed result. It is a pure adapter: merging the
// result back into the case is the caller's job (see
// OnboardingService.RecordAssessment). Errors are surfaced to the caller;
// there are no retries.
type RiskService struct {
	client *resty.Client
}

func NewRiskService(baseURL, apiKey string) *RiskService {
	client := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	if apiKey != "" {
		client.SetAuthToken(apiKey)
	}
	return &RiskService{client: client}
}

// Assess builds the textual client profile and document list for a case and
// calls the external service
func (s *RiskService) Assess(ctx context.Context, c *models.ClientCase) (*RiskAssessmentResult, error) {
	if c.ClientType == "" {
		return nil, ErrNoClientType
	}

	request := RiskAssessmentRequest{
		ClientType:        c.ClientType,
		ClientInformation: BuildClientInformation(c),
		UploadedDocuments: documentDataURLs(c),
	}

	var result RiskAssessmentResult
	resp, err := s.client.R().
		SetContext(ctx).
		SetBody(request).
		SetResult(&result).
		Post("/v1/risk-assessments")
	if err != nil {
		return nil, fmt.Errorf("risk service call failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("risk service returned %s", resp.Status())
	}

	if !models.IsValidRiskLevel(result.RiskLevel) {
		return nil, fmt.Errorf("risk service returned unknown risk level %q", result.RiskLevel)
	}
	result.ConfidenceScore = clamp01(result.ConfidenceScore)

	return &result, nil
}

// BuildClientInformation concatenates every non-empty form field as
// "Label: value." using the registry's labels, prefixed with the client type.
func BuildClientInformation(c *models.ClientCase) string {
	info := fmt.Sprintf("Client Type: %s.", c.ClientType)
	data := c.FormDataMap()
	for _, field := range formschema.FieldsFor(c.ClientType) {
		if value := data[field.Name]; value != "" {
			info += fmt.Sprintf(" %s: %s.", field.Label, value)
		}
	}
	return info
}

func documentDataURLs(c *models.ClientCase) []string {
	urls := make([]string, 0, len(c.Documents))
	for _, d := range c.Documents {
		urls = append(urls, d.DataURL)
	}
	return urls
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
