package services

import (
	"fmt"
	"log"
	"strings"

	"fica_onboarding_go/config"

	"github.com/resend/resend-go/v2"
)

// Email represents an email message
type Email struct {
	To       []string
	Subject  string
	TextBody string
}

// SendEmail sends an email using Resend API. In test mode the email is
// logged to the console instead of being sent.
func SendEmail(cfg *config.Config, email *Email) error {
	if cfg.EmailTestMode {
		logEmailToConsole(email)
		return nil
	}

	if cfg.ResendAPIKey == "" {
		return fmt.Errorf("RESEND_API_KEY not configured")
	}
	if email.TextBody == "" {
		return fmt.Errorf("email must have a body")
	}

	client := resend.NewClient(cfg.ResendAPIKey)

	params := &resend.SendEmailRequest{
		From:    fmt.Sprintf("%s <%s>", cfg.EmailFromName, cfg.EmailFrom),
		To:      email.To,
		Subject: email.Subject,
		Text:    email.TextBody,
	}

	sent, err := client.Emails.Send(params)
	if err != nil {
		return fmt.Errorf("failed to send email via Resend: %v", err)
	}

	log.Printf("Email sent successfully via Resend (ID: %s) to: %v", sent.Id, email.To)
	return nil
}

// SendEmailAsync sends an email in a goroutine so handlers never block on
// the email provider
func SendEmailAsync(cfg *config.Config, email *Email) {
	emailCopy := &Email{
		To:       append([]string{}, email.To...),
		Subject:  email.Subject,
		TextBody: email.TextBody,
	}

	go func() {
		if err := SendEmail(cfg, emailCopy); err != nil {
			log.Printf("Error sending async email: %v", err)
		}
	}()
}

func logEmailToConsole(email *Email) {
	separator := strings.Repeat("=", 80)
	log.Printf("\n%s\nEMAIL (test mode - not actually sent)\n%s", separator, separator)
	log.Printf("To: %v", email.To)
	log.Printf("Subject: %s", email.Subject)
	log.Printf("\n--- BODY ---\n%s\n%s", email.TextBody, separator)
}

// BuildWelcomeEmail creates a welcome email for new users
func BuildWelcomeEmail(userEmail, userName string) *Email {
	return &Email{
		To:      []string{userEmail},
		Subject: "Welcome to FICA Flow",
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nYour onboarding account has been created. "+
				"Sign in to start your FICA verification.\n", userName),
	}
}

// BuildStatusChangeEmail notifies a client that their case moved status
func BuildStatusChangeEmail(userEmail, userName, newStatus string) *Email {
	return &Email{
		To:      []string{userEmail},
		Subject: "Your onboarding status has changed",
		TextBody: fmt.Sprintf(
			"Hello %s,\n\nYour onboarding case is now: %s.\n\n"+
				"Sign in for details or reach out to your assigned consultant via messages.\n",
			userName, newStatus),
	}
}
