// Package storage is the gorm-backed document store for inquiries and
// replies. The application never deletes either record kind and never
// spans a transaction across records.
package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"intellirev/internal/domain"
	"intellirev/internal/metrics"
	apperrors "intellirev/pkg/errors"
)

// Store wraps the gorm connection with the queries the services and
// pipelines need.
type Store struct {
	db *gorm.DB
}

// New creates a store over an initialized gorm connection
func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// CreateInquiry persists a new inquiry; gorm assigns the id and the
// BeforeCreate hook stamps createdAt.
func (s *Store) CreateInquiry(ctx context.Context, inquiry *domain.Inquiry) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Create(inquiry).Error
	metrics.RecordDBQuery("create_inquiry", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to save inquiry: %w", err)
	}
	return nil
}

// GetInquiry loads one inquiry by id
func (s *Store) GetInquiry(ctx context.Context, id uint) (*domain.Inquiry, error) {
	var inquiry domain.Inquiry
	start := time.Now()
	err := s.db.WithContext(ctx).First(&inquiry, id).Error
	metrics.RecordDBQuery("get_inquiry", time.Since(start), err)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.New(apperrors.ErrCodeNotFound, "inquiry not found")
		}
		return nil, fmt.Errorf("failed to load inquiry: %w", err)
	}
	return &inquiry, nil
}

// SetLeadScore writes the computed score and scoring timestamp onto the
// inquiry. Called exactly once per inquiry by the ingest pipeline.
func (s *Store) SetLeadScore(ctx context.Context, id uint, score int, scoredAt time.Time) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Model(&domain.Inquiry{}).Where("id = ?", id).
		Updates(map[string]any{"lead_score": score, "scored_at": scoredAt}).Error
	metrics.RecordDBQuery("set_lead_score", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to persist lead score: %w", err)
	}
	return nil
}

// ListInquiries returns a page of inquiries, newest first
func (s *Store) ListInquiries(ctx context.Context, skip, limit int) ([]domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	start := time.Now()
	err := s.db.WithContext(ctx).Order("created_at DESC").Offset(skip).Limit(limit).Find(&inquiries).Error
	metrics.RecordDBQuery("list_inquiries", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inquiries: %w", err)
	}
	return inquiries, nil
}

// AllInquiries returns every stored inquiry, newest first. Used by the
// CSV export.
func (s *Store) AllInquiries(ctx context.Context) ([]domain.Inquiry, error) {
	var inquiries []domain.Inquiry
	start := time.Now()
	err := s.db.WithContext(ctx).Order("created_at DESC").Find(&inquiries).Error
	metrics.RecordDBQuery("all_inquiries", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inquiries: %w", err)
	}
	return inquiries, nil
}

// UpdateInquiryStatus moves an inquiry between the three status labels
func (s *Store) UpdateInquiryStatus(ctx context.Context, id uint, status string) error {
	start := time.Now()
	res := s.db.WithContext(ctx).Model(&domain.Inquiry{}).Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now()})
	metrics.RecordDBQuery("update_inquiry_status", time.Since(start), res.Error)
	if res.Error != nil {
		return fmt.Errorf("failed to update inquiry status: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperrors.New(apperrors.ErrCodeNotFound, "inquiry not found")
	}
	return nil
}

// CreateReply persists a new reply under its parent inquiry
func (s *Store) CreateReply(ctx context.Context, reply *domain.Reply) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Create(reply).Error
	metrics.RecordDBQuery("create_reply", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to save reply: %w", err)
	}
	return nil
}

// ListReplies returns an inquiry's replies, oldest first
func (s *Store) ListReplies(ctx context.Context, inquiryID uint) ([]domain.Reply, error) {
	var replies []domain.Reply
	start := time.Now()
	err := s.db.WithContext(ctx).Where("inquiry_id = ?", inquiryID).Order("created_at ASC").Find(&replies).Error
	metrics.RecordDBQuery("list_replies", time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch replies: %w", err)
	}
	return replies, nil
}

// MarkReplySent flips emailSent and stamps sentAt after delivery
func (s *Store) MarkReplySent(ctx context.Context, id uint, sentAt time.Time) error {
	start := time.Now()
	err := s.db.WithContext(ctx).Model(&domain.Reply{}).Where("id = ?", id).
		Updates(map[string]any{"email_sent": true, "sent_at": sentAt}).Error
	metrics.RecordDBQuery("mark_reply_sent", time.Since(start), err)
	if err != nil {
		return fmt.Errorf("failed to mark reply sent: %w", err)
	}
	return nil
}
