package services

import (
	"testing"

	"fica_onboarding_go/config"

	"github.com/stretchr/testify/assert"
)

func TestSendEmailTestMode(t *testing.T) {
	cfg := &config.Config{EmailTestMode: true}

	err := SendEmail(cfg, &Email{
		To:       []string{"jane@example.com"},
		Subject:  "Test",
		TextBody: "Body",
	})
	assert.NoError(t, err)
}

func TestSendEmailRequiresAPIKey(t *testing.T) {
	cfg := &config.Config{EmailTestMode: false}

	err := SendEmail(cfg, &Email{To: []string{"jane@example.com"}, Subject: "x", TextBody: "y"})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "RESEND_API_KEY")
}

func TestBuildWelcomeEmail(t *testing.T) {
	email := BuildWelcomeEmail("jane@example.com", "Jane Doe")
	assert.Equal(t, []string{"jane@example.com"}, email.To)
	assert.Contains(t, email.TextBody, "Jane Doe")
}

func TestBuildStatusChangeEmail(t *testing.T) {
	email := BuildStatusChangeEmail("jane@example.com", "Jane Doe", "Under Review")
	assert.Contains(t, email.Subject, "status")
	assert.Contains(t, email.TextBody, "Under Review")
}
