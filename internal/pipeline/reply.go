package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"intellirev/internal/domain"
	"intellirev/internal/mail"
	"intellirev/internal/metrics"
	apperrors "intellirev/pkg/errors"
)

// ReplyDispatchDeps wires the reply pipeline's collaborators.
type ReplyDispatchDeps struct {
	Inquiries InquiryStore
	Replies   ReplyStore
	Composer  *mail.Composer
	Sender    mail.Sender
}

// ReplyDispatch processes newly created replies: load the parent
// inquiry, email the reply to the submitter, then mark it sent.
type ReplyDispatch struct {
	inquiries InquiryStore
	replies   ReplyStore
	composer  *mail.Composer
	sender    mail.Sender
}

// NewReplyDispatch constructs the reply pipeline.
func NewReplyDispatch(deps ReplyDispatchDeps) *ReplyDispatch {
	return &ReplyDispatch{
		inquiries: deps.Inquiries,
		replies:   deps.Replies,
		composer:  deps.Composer,
		sender:    deps.Sender,
	}
}

// Process runs one reply invocation. A nil reply is a logged no-op. A
// missing parent inquiry is logged and swallowed so the trigger is not
// retried against a record that will never resolve. EmailSent is only
// marked after delivery succeeds, so emailSent=false always means the
// reply did not go out.
func (p *ReplyDispatch) Process(ctx context.Context, reply *domain.Reply) error {
	if reply == nil {
		log.Println("[PIPELINE] reply: no data associated with the event")
		return nil
	}

	inquiry, err := p.inquiries.GetInquiry(ctx, reply.InquiryID)
	if err != nil {
		if apperrors.IsNotFound(err) {
			log.Printf("[PIPELINE] reply %d: inquiry not found: %d", reply.ID, reply.InquiryID)
			return nil
		}
		return apperrors.Wrap(apperrors.ErrCodePersistence, "load parent inquiry",
			fmt.Errorf("reply %d: %w", reply.ID, err))
	}

	msg := p.composer.ReplyNotification(inquiry, reply)
	if err := p.sender.Send(ctx, msg); err != nil {
		metrics.RecordEmailSent("reply", false)
		return apperrors.Wrap(apperrors.ErrCodeDelivery, "send reply email",
			fmt.Errorf("reply %d: %w", reply.ID, err))
	}
	metrics.RecordEmailSent("reply", true)

	sentAt := time.Now()
	if err := p.replies.MarkReplySent(ctx, reply.ID, sentAt); err != nil {
		return apperrors.Wrap(apperrors.ErrCodePersistence, "mark reply sent",
			fmt.Errorf("reply %d: %w", reply.ID, err))
	}
	reply.EmailSent = true
	reply.SentAt = &sentAt

	log.Printf("[PIPELINE] reply email sent for inquiry %d", reply.InquiryID)
	return nil
}
