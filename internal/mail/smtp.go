package mail

import (
	"context"
	"fmt"
	"net/smtp"

	"intellirev/internal/config"
)

// SMTPSender delivers messages over plain SMTP with a multipart body
// (plain text plus HTML alternative)
type SMTPSender struct {
	cfg *config.EmailConfig
}

// NewSMTPSender creates an SMTP-backed sender
func NewSMTPSender(cfg *config.EmailConfig) *SMTPSender {
	return &SMTPSender{cfg: cfg}
}

// Send builds a multipart/alternative message and submits it
func (s *SMTPSender) Send(ctx context.Context, msg Message) error {
	// Validate configuration
	if s.cfg.SMTPHost == "" || s.cfg.SMTPUsername == "" || s.cfg.SMTPPassword == "" {
		return fmt.Errorf("smtp sender not properly configured")
	}

	// Set up authentication
	auth := smtp.PlainAuth("", s.cfg.SMTPUsername, s.cfg.SMTPPassword, s.cfg.SMTPHost)

	from := msg.From
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", msg.FromName, msg.From)
	}

	// Build multipart message
	boundary := "----=_NextPart_1234567890"

	headers := fmt.Sprintf("From: %s\r\n", from) +
		fmt.Sprintf("To: %s\r\n", msg.To) +
		fmt.Sprintf("Subject: %s\r\n", msg.Subject) +
		"MIME-Version: 1.0\r\n" +
		fmt.Sprintf("Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary) +
		"\r\n"

	// Plain text part
	message := headers +
		fmt.Sprintf("--%s\r\n", boundary) +
		"Content-Type: text/plain; charset=UTF-8\r\n" +
		"Content-Transfer-Encoding: quoted-printable\r\n" +
		"\r\n" +
		msg.TextBody + "\r\n"

	// HTML part (if provided)
	if msg.HTMLBody != "" {
		message += fmt.Sprintf("--%s\r\n", boundary) +
			"Content-Type: text/html; charset=UTF-8\r\n" +
			"Content-Transfer-Encoding: quoted-printable\r\n" +
			"\r\n" +
			msg.HTMLBody + "\r\n"
	}

	message += fmt.Sprintf("--%s--\r\n", boundary)

	// Send email
	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)
	if err := smtp.SendMail(addr, auth, msg.From, []string{msg.To}, []byte(message)); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
