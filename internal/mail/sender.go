package mail

import (
	"context"
	"fmt"
	"log"
	"strings"

	"intellirev/internal/config"
)

// Sender delivers one composed message. Implementations are synchronous
// from the caller's point of view; there is no queuing or retry here.
type Sender interface {
	Send(ctx context.Context, msg Message) error
}

// NewSender picks the delivery backend from configuration. With email
// disabled every message goes to the console sender regardless of
// provider, which is the development default.
func NewSender(cfg *config.EmailConfig) (Sender, error) {
	if !cfg.Enabled {
		return &ConsoleSender{}, nil
	}

	switch strings.ToLower(cfg.Provider) {
	case "sendgrid":
		return NewSendGridSender(cfg), nil
	case "smtp":
		return NewSMTPSender(cfg), nil
	case "console", "dev", "development":
		return &ConsoleSender{}, nil
	default:
		return nil, fmt.Errorf("unsupported email provider: %s", cfg.Provider)
	}
}

// ConsoleSender logs messages instead of delivering them
type ConsoleSender struct{}

// Send logs the message and reports success
func (s *ConsoleSender) Send(ctx context.Context, msg Message) error {
	log.Printf("[EMAIL] Would send to %s: %s", msg.To, msg.Subject)
	return nil
}
