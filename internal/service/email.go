package service

import (
	"context"
	"encoding/base64"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"pa-onboarding-backend/internal/config"
	"pa-onboarding-backend/internal/logger"
)

type emailService struct {
	apiKey   string
	from     string
	fromName string
}

func NewEmailService(cfg config.EmailConfig) EmailService {
	return &emailService{
		apiKey:   cfg.APIKey,
		from:     cfg.From,
		fromName: cfg.FromName,
	}
}

func (s *emailService) send(ctx context.Context, message *mail.SGMailV3) error {
	client := sendgrid.NewSendClient(s.apiKey)

	logger.ExternalServiceCall("sendgrid", "send")
	response, err := client.SendWithContext(ctx, message)
	logger.ExternalServiceResult("sendgrid", "send", err)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	if response.StatusCode >= 400 {
		return fmt.Errorf("sendgrid error: status %d, body: %s", response.StatusCode, response.Body)
	}
	return nil
}

func (s *emailService) SendRegistrationRequests(ctx context.Context, toPec, orgName string, attachments []Attachment) error {
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail(orgName, toPec)
	subject := fmt.Sprintf("Registration request for %s", orgName)

	plainText := fmt.Sprintf(
		"Attached are the signed onboarding documents for %s.\n\nPlease review, countersign and return them to complete the registration.",
		orgName)
	htmlContent := fmt.Sprintf(
		"<p>Attached are the signed onboarding documents for <strong>%s</strong>.</p><p>Please review, countersign and return them to complete the registration.</p>",
		orgName)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)
	for _, att := range attachments {
		a := mail.NewAttachment()
		a.SetFilename(att.Filename)
		a.SetType("application/pdf")
		a.SetContent(base64.StdEncoding.EncodeToString(att.Content))
		a.SetDisposition("attachment")
		message.AddAttachment(a)
	}

	return s.send(ctx, message)
}

func (s *emailService) SendRequestReminder(ctx context.Context, toEmail, name string, pendingCount int) error {
	from := mail.NewEmail(s.fromName, s.from)
	recipient := mail.NewEmail(name, toEmail)
	subject := "Pending onboarding requests"

	plainText := fmt.Sprintf(
		"Hello %s,\n\nYou have %d onboarding request(s) still waiting to be submitted. Log in to review and send them to the organization's certified mailbox.",
		name, pendingCount)
	htmlContent := fmt.Sprintf(
		"<p>Hello %s,</p><p>You have <strong>%d</strong> onboarding request(s) still waiting to be submitted. Log in to review and send them to the organization's certified mailbox.</p>",
		name, pendingCount)

	message := mail.NewSingleEmail(from, subject, recipient, plainText, htmlContent)
	return s.send(ctx, message)
}
