package mail

import (
	"context"
	"fmt"

	"github.com/sendgrid/sendgrid-go"
	sgmail "github.com/sendgrid/sendgrid-go/helpers/mail"

	"intellirev/internal/config"
)

// SendGridSender delivers messages through the SendGrid v3 API
type SendGridSender struct {
	cfg *config.EmailConfig
}

// NewSendGridSender creates a SendGrid-backed sender
func NewSendGridSender(cfg *config.EmailConfig) *SendGridSender {
	return &SendGridSender{cfg: cfg}
}

// Send submits the message to SendGrid and treats any non-2xx response
// as a delivery failure
func (s *SendGridSender) Send(ctx context.Context, msg Message) error {
	if s.cfg.SendGridAPIKey == "" {
		return fmt.Errorf("sendgrid sender not properly configured")
	}

	from := sgmail.NewEmail(msg.FromName, msg.From)
	to := sgmail.NewEmail("", msg.To)
	message := sgmail.NewSingleEmail(from, msg.Subject, to, msg.TextBody, msg.HTMLBody)

	client := sendgrid.NewSendClient(s.cfg.SendGridAPIKey)
	resp, err := client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send: %w", err)
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("sendgrid rejected message (status %d): %s", resp.StatusCode, resp.Body)
	}

	return nil
}
