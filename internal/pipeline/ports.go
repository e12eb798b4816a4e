package pipeline

import (
	"context"
	"time"

	"intellirev/internal/domain"
)

// InquiryStore is the document-store surface the ingest and reply
// pipelines need: read one inquiry and write its score back.
type InquiryStore interface {
	GetInquiry(ctx context.Context, id uint) (*domain.Inquiry, error)
	SetLeadScore(ctx context.Context, id uint, score int, scoredAt time.Time) error
}

// ReplyStore records delivery of a reply email.
type ReplyStore interface {
	MarkReplySent(ctx context.Context, id uint, sentAt time.Time) error
}
