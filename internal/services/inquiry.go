package services

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"intellirev/internal/domain"
	"intellirev/internal/events"
	"intellirev/internal/metrics"
	"intellirev/internal/scoring"
	apperrors "intellirev/pkg/errors"
)

// InquiryAdminStore is the store surface the admin endpoints need
type InquiryAdminStore interface {
	GetInquiry(ctx context.Context, id uint) (*domain.Inquiry, error)
	ListInquiries(ctx context.Context, skip, limit int) ([]domain.Inquiry, error)
	UpdateInquiryStatus(ctx context.Context, id uint, status string) error
	CreateReply(ctx context.Context, reply *domain.Reply) error
	ListReplies(ctx context.Context, inquiryID uint) ([]domain.Reply, error)
}

// InquiryService implements the admin inquiry endpoints
type InquiryService struct {
	store InquiryAdminStore
	bus   *events.Bus
}

// NewInquiryService creates a new inquiry service
func NewInquiryService(store InquiryAdminStore, bus *events.Bus) *InquiryService {
	return &InquiryService{store: store, bus: bus}
}

type inquiryResult struct {
	ID        uint    `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Message   string  `json:"message"`
	Status    string  `json:"status"`
	LeadScore *int    `json:"lead_score"`
	Priority  *string `json:"priority,omitempty"`
	CreatedAt string  `json:"created_at"`
	ScoredAt  *string `json:"scored_at,omitempty"`
}

func toInquiryResult(inq *domain.Inquiry) inquiryResult {
	res := inquiryResult{
		ID:        inq.ID,
		Name:      inq.Name,
		Email:     inq.Email,
		Message:   inq.Message,
		Status:    inq.Status,
		LeadScore: inq.LeadScore,
		CreatedAt: inq.CreatedAt.Format(time.RFC3339),
	}
	if inq.LeadScore != nil {
		label := scoring.PriorityLabel(*inq.LeadScore)
		res.Priority = &label
	}
	if inq.ScoredAt != nil {
		scoredAt := inq.ScoredAt.Format(time.RFC3339)
		res.ScoredAt = &scoredAt
	}
	return res
}

// List handles GET /api/v1/inquiries
func (s *InquiryService) List(w http.ResponseWriter, r *http.Request) {
	skip := queryInt(r, "skip", 0)
	limit := queryInt(r, "limit", 100)
	log.Printf("[INQUIRY] List request: skip=%d, limit=%d", skip, limit)

	inquiries, err := s.store.ListInquiries(r.Context(), skip, limit)
	if err != nil {
		log.Printf("[INQUIRY] List failed: database error: %v", err)
		writeError(w, err)
		return
	}

	results := make([]inquiryResult, len(inquiries))
	for i := range inquiries {
		results[i] = toInquiryResult(&inquiries[i])
	}

	log.Printf("[INQUIRY] List successful: returned %d inquiries", len(results))
	writeJSON(w, http.StatusOK, results)
}

type statusUpdateRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /api/v1/inquiries/{id}
func (s *InquiryService) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req statusUpdateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	status := strings.TrimSpace(req.Status)
	if !domain.ValidStatus(status) {
		writeError(w, apperrors.New(apperrors.ErrCodeValidation, "status must be new, contacted or closed"))
		return
	}

	if err := s.store.UpdateInquiryStatus(r.Context(), id, status); err != nil {
		log.Printf("[INQUIRY] UpdateStatus failed: id=%d: %v", id, err)
		writeError(w, err)
		return
	}

	log.Printf("[INQUIRY] UpdateStatus successful: id=%d, status=%s", id, status)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": status})
}

type replyCreateRequest struct {
	Message string `json:"message"`
}

// CreateReply handles POST /api/v1/inquiries/{id}/replies. The reply
// row is committed, then the create trigger runs synchronously so the
// response can report whether the email actually went out; a delivery
// failure leaves emailSent=false but the reply itself stands.
func (s *InquiryService) CreateReply(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	var req replyCreateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, err)
		return
	}

	message := strings.TrimSpace(req.Message)
	if message == "" {
		writeError(w, apperrors.New(apperrors.ErrCodeValidation, "message is required"))
		return
	}

	// The parent must exist before we accept the reply
	if _, err := s.store.GetInquiry(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}

	reply := &domain.Reply{InquiryID: id, Message: message}
	if err := s.store.CreateReply(r.Context(), reply); err != nil {
		log.Printf("[INQUIRY] CreateReply failed: inquiry=%d: %v", id, err)
		writeError(w, err)
		return
	}
	metrics.RecordReplyCreated()

	snapshot := *reply
	if err := s.bus.Dispatch(r.Context(), events.Event{Kind: events.KindReply, ID: reply.ID, Data: &snapshot}); err != nil {
		log.Printf("[INQUIRY] reply %d created but dispatch failed: %v", reply.ID, err)
	}

	log.Printf("[INQUIRY] CreateReply successful: inquiry=%d, reply=%d, email_sent=%v", id, reply.ID, snapshot.EmailSent)
	writeJSON(w, http.StatusCreated, map[string]any{
		"id":         reply.ID,
		"inquiry_id": id,
		"email_sent": snapshot.EmailSent,
	})
}

// ListReplies handles GET /api/v1/inquiries/{id}/replies
func (s *InquiryService) ListReplies(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}

	replies, err := s.store.ListReplies(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, replies)
}

func pathID(r *http.Request) (uint, error) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil {
		return 0, apperrors.New(apperrors.ErrCodeBadRequest, "invalid inquiry id")
	}
	return uint(id), nil
}

func queryInt(r *http.Request, key string, def int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return def
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v < 0 {
		return def
	}
	return v
}
