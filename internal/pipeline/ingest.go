// Package pipeline holds the two notification workflows triggered on
// record creation: inquiry ingest (score, persist, notify) and reply
// dispatch (load parent, email, mark sent). Each invocation runs its
// steps in order and stops at the first failure; steps already
// completed are not rolled back.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"intellirev/internal/domain"
	"intellirev/internal/mail"
	"intellirev/internal/metrics"
	"intellirev/internal/scoring"
	apperrors "intellirev/pkg/errors"
)

// IngestDeps wires the ingest pipeline's collaborators.
type IngestDeps struct {
	Store    InquiryStore
	Composer *mail.Composer
	Sender   mail.Sender
}

// Ingest processes newly created inquiries: compute the lead score,
// persist it, then notify the operator and the submitter.
type Ingest struct {
	store    InquiryStore
	composer *mail.Composer
	sender   mail.Sender
}

// NewIngest constructs the ingest pipeline.
func NewIngest(deps IngestDeps) *Ingest {
	return &Ingest{
		store:    deps.Store,
		composer: deps.Composer,
		sender:   deps.Sender,
	}
}

// Process runs one ingest invocation for the given inquiry snapshot.
// A nil inquiry means the trigger fired without a payload; that is a
// logged no-op, not an error. The score is persisted before either
// email is attempted, and the operator alert goes out before the
// submitter acknowledgment; a failure at any step skips the rest.
func (p *Ingest) Process(ctx context.Context, inquiry *domain.Inquiry) error {
	if inquiry == nil {
		log.Println("[PIPELINE] ingest: no data associated with the event")
		return nil
	}

	score := scoring.Score(inquiry.Message)
	scoredAt := time.Now()

	if err := p.store.SetLeadScore(ctx, inquiry.ID, score, scoredAt); err != nil {
		return apperrors.Wrap(apperrors.ErrCodePersistence, "persist lead score",
			fmt.Errorf("inquiry %d: %w", inquiry.ID, err))
	}
	metrics.RecordInquiryScored(score)
	log.Printf("[PIPELINE] inquiry %d scored: %d", inquiry.ID, score)

	// Emails render from the scored snapshot, not a re-read.
	inquiry.LeadScore = &score
	inquiry.ScoredAt = &scoredAt

	alert := p.composer.OperatorAlert(inquiry, score)
	if err := p.sender.Send(ctx, alert); err != nil {
		metrics.RecordEmailSent("operator_alert", false)
		return apperrors.Wrap(apperrors.ErrCodeDelivery, "send operator alert",
			fmt.Errorf("inquiry %d: %w", inquiry.ID, err))
	}
	metrics.RecordEmailSent("operator_alert", true)

	ack := p.composer.Acknowledgment(inquiry)
	if err := p.sender.Send(ctx, ack); err != nil {
		metrics.RecordEmailSent("acknowledgment", false)
		return apperrors.Wrap(apperrors.ErrCodeDelivery, "send acknowledgment",
			fmt.Errorf("inquiry %d: %w", inquiry.ID, err))
	}
	metrics.RecordEmailSent("acknowledgment", true)

	log.Printf("[PIPELINE] emails sent successfully for inquiry %d", inquiry.ID)
	return nil
}
