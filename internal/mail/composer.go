package mail

import (
	"fmt"
	"time"

	"intellirev/internal/config"
	"intellirev/internal/domain"
	"intellirev/internal/scoring"
)

// Message is one outbound email. Sending is the Sender's job; the
// composer only builds these values.
type Message struct {
	To       string
	From     string
	FromName string
	Subject  string
	HTMLBody string
	TextBody string
}

// Composer builds the three notification emails from inquiry data.
// Bodies embed the submitter's name and message verbatim; the rendering
// surface is trusted and no escaping happens here.
type Composer struct {
	cfg *config.EmailConfig
}

// NewComposer creates a composer bound to the email configuration
func NewComposer(cfg *config.EmailConfig) *Composer {
	return &Composer{cfg: cfg}
}

// OperatorAlert builds the new-lead notification for the operator
func (c *Composer) OperatorAlert(inquiry *domain.Inquiry, score int) Message {
	band := scoring.BandFor(score)

	subject := fmt.Sprintf("%s Lead: %s - Score: %d/100", band.Label, inquiry.Name, score)

	htmlBody := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background: #f9f9f9;">
  <div style="background: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <h2 style="color: #f97316; margin-top: 0;">🎯 New Lead Alert</h2>

    <div style="background: %s; color: white; padding: 10px 20px; border-radius: 5px; display: inline-block; margin-bottom: 20px;">
      <strong>Lead Score: %d/100</strong> - %s
    </div>

    <div style="margin-bottom: 20px;">
      <p><strong>Name:</strong> %s</p>
      <p><strong>Email:</strong> <a href="mailto:%s">%s</a></p>
      <p><strong>Date:</strong> %s</p>
    </div>

    <div style="background: #f5f5f5; padding: 15px; border-radius: 5px; margin-bottom: 20px;">
      <p style="margin: 0;"><strong>Message:</strong></p>
      <p style="margin: 10px 0 0 0; font-style: italic;">%s</p>
    </div>

    <div style="text-align: center; margin-top: 30px;">
      <a href="%s"
         style="background: #f97316; color: white; padding: 12px 30px; text-decoration: none; border-radius: 5px; display: inline-block;">
        View in Dashboard
      </a>
    </div>
  </div>

  <p style="text-align: center; color: #999; font-size: 12px; margin-top: 20px;">
    IntelliRev AI Solutions - Lead Management System
  </p>
</div>`,
		band.Color, score, band.Label,
		inquiry.Name, inquiry.Email, inquiry.Email,
		inquiry.CreatedAt.Format("January 2, 2006 at 3:04 PM"),
		inquiry.Message,
		c.cfg.DashboardURL)

	textBody := fmt.Sprintf(`New Lead Alert

Lead Score: %d/100 - %s

Name: %s
Email: %s
Date: %s

Message:
%s

Dashboard: %s`,
		score, band.Label,
		inquiry.Name, inquiry.Email,
		inquiry.CreatedAt.Format("January 2, 2006 at 3:04 PM"),
		inquiry.Message,
		c.cfg.DashboardURL)

	return Message{
		To:       c.cfg.OperatorEmail,
		From:     c.cfg.FromEmail,
		FromName: c.cfg.FromName,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}
}

// Acknowledgment builds the confirmation sent back to the submitter
func (c *Composer) Acknowledgment(inquiry *domain.Inquiry) Message {
	subject := "Thank you for your inquiry - IntelliRev AI Solutions"

	htmlBody := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px; background: #f9f9f9;">
  <div style="background: white; padding: 30px; border-radius: 8px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
    <div style="text-align: center; margin-bottom: 30px;">
      <h2 style="color: #f97316; margin: 0;">Thank You, %s!</h2>
    </div>

    <p>We've received your inquiry and our team is reviewing it. We'll get back to you within 24-48 hours.</p>

    <div style="background: #f5f5f5; padding: 20px; border-radius: 5px; margin: 20px 0;">
      <p style="margin: 0 0 10px 0;"><strong>Your Message:</strong></p>
      <p style="margin: 0; font-style: italic; color: #666;">%s</p>
    </div>

    <p>In the meantime, feel free to:</p>
    <ul>
      <li>Schedule a call: <a href="%s">Book a meeting</a></li>
      <li>Visit our website: <a href="%s">%s</a></li>
    </ul>

    <p style="margin-top: 30px;">Best regards,<br>
    <strong>The IntelliRev AI Team</strong></p>
  </div>

  <p style="text-align: center; color: #999; font-size: 12px; margin-top: 20px;">
    © %s IntelliRev AI Solutions. All rights reserved.
  </p>
</div>`,
		inquiry.Name, inquiry.Message,
		c.cfg.SchedulingURL, c.cfg.WebsiteURL, c.cfg.WebsiteURL,
		time.Now().Format("2006"))

	textBody := fmt.Sprintf(`Thank You, %s!

We've received your inquiry and our team is reviewing it. We'll get back to you within 24-48 hours.

Your Message:
%s

Schedule a call: %s
Visit our website: %s

Best regards,
The IntelliRev AI Team`,
		inquiry.Name, inquiry.Message, c.cfg.SchedulingURL, c.cfg.WebsiteURL)

	return Message{
		To:       inquiry.Email,
		From:     c.cfg.FromEmail,
		FromName: c.cfg.FromName,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}
}

// ReplyNotification builds the email carrying an operator's reply back
// to the original submitter
func (c *Composer) ReplyNotification(inquiry *domain.Inquiry, reply *domain.Reply) Message {
	subject := "Re: Your inquiry to IntelliRev AI Solutions"

	htmlBody := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <div style="background: white; padding: 30px; border-radius: 8px;">
    <p>Hi %s,</p>

    <div style="margin: 20px 0; padding: 20px; background: #f9f9f9; border-left: 4px solid #f97316;">
      %s
    </div>

    <p>Best regards,<br>
    <strong>IntelliRev AI Solutions Team</strong></p>

    <hr style="margin: 30px 0; border: none; border-top: 1px solid #eee;">

    <p style="font-size: 12px; color: #999;">
      This is an automated response. Please do not reply to this email.
      <br>
      If you have further questions, please submit a new inquiry on our website.
    </p>
  </div>
</div>`,
		inquiry.Name, reply.Message)

	textBody := fmt.Sprintf(`Hi %s,

%s

Best regards,
IntelliRev AI Solutions Team

This is an automated response. Please do not reply to this email.
If you have further questions, please submit a new inquiry on our website.`,
		inquiry.Name, reply.Message)

	return Message{
		To:       inquiry.Email,
		From:     c.cfg.FromEmail,
		FromName: c.cfg.FromName,
		Subject:  subject,
		HTMLBody: htmlBody,
		TextBody: textBody,
	}
}
