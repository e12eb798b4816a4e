package services

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"

	"intellirev/internal/domain"
	"intellirev/internal/events"
	"intellirev/internal/metrics"
	apperrors "intellirev/pkg/errors"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// InquiryCreator is the store surface the contact service needs
type InquiryCreator interface {
	CreateInquiry(ctx context.Context, inquiry *domain.Inquiry) error
}

// ContactService handles public contact form submissions
type ContactService struct {
	store InquiryCreator
	bus   *events.Bus
}

// NewContactService creates a new contact service
func NewContactService(store InquiryCreator, bus *events.Bus) *ContactService {
	return &ContactService{store: store, bus: bus}
}

type contactSubmitRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Submit handles POST /api/v1/contact. The inquiry row is committed
// first; the ingest trigger then runs off-request so a notification
// failure never fails the submission.
func (s *ContactService) Submit(w http.ResponseWriter, r *http.Request) {
	var req contactSubmitRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	log.Printf("[CONTACT] Submit request: name=%s, email=%s", strings.TrimSpace(req.Name), strings.TrimSpace(req.Email))

	// Validate input
	if err := validateContactForm(&req); err != nil {
		log.Printf("[CONTACT] Submit failed: validation error: %v", err)
		writeError(w, apperrors.Wrap(apperrors.ErrCodeValidation, "invalid submission", err))
		return
	}

	inquiry := &domain.Inquiry{
		Name:    strings.TrimSpace(req.Name),
		Email:   strings.ToLower(strings.TrimSpace(req.Email)),
		Message: strings.TrimSpace(req.Message),
		Status:  domain.StatusNew,
	}

	// Save to database
	if err := s.store.CreateInquiry(r.Context(), inquiry); err != nil {
		log.Printf("[CONTACT] Submit failed: database error: %v", err)
		writeError(w, apperrors.Wrap(apperrors.ErrCodePersistence, "failed to save inquiry", err))
		return
	}

	log.Printf("[CONTACT] Submit successful: id=%d, name=%s, email=%s", inquiry.ID, inquiry.Name, inquiry.Email)
	metrics.RecordInquirySubmission()

	// Fire the create trigger for the ingest pipeline
	snapshot := *inquiry
	s.bus.DispatchAsync(events.Event{Kind: events.KindInquiry, ID: inquiry.ID, Data: &snapshot})

	writeJSON(w, http.StatusCreated, map[string]any{
		"id":      inquiry.ID,
		"message": "Thank you for contacting us! We'll get back to you soon.",
	})
}

// validateContactForm validates the contact form input
func validateContactForm(req *contactSubmitRequest) error {
	// Validate name
	name := strings.TrimSpace(req.Name)
	if len(name) < 2 || len(name) > 100 {
		return fmt.Errorf("name must be between 2 and 100 characters")
	}

	// Validate email
	email := strings.TrimSpace(req.Email)
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email address")
	}

	// Validate message
	message := strings.TrimSpace(req.Message)
	if len(message) < 1 {
		return fmt.Errorf("message is required")
	}
	if len(message) > 5000 {
		return fmt.Errorf("message must not exceed 5000 characters")
	}

	return nil
}
