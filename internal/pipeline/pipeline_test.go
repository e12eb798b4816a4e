package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"intellirev/internal/config"
	"intellirev/internal/domain"
	"intellirev/internal/mail"
	apperrors "intellirev/pkg/errors"
)

// --- fakes ---

type fakeStore struct {
	inquiries map[uint]*domain.Inquiry

	scoredID   uint
	scoredWith int
	scoredAt   time.Time
	scoreErr   error

	sentReplyID uint
	markErr     error
}

func newFakeStore(inquiries ...*domain.Inquiry) *fakeStore {
	m := make(map[uint]*domain.Inquiry)
	for _, inq := range inquiries {
		m[inq.ID] = inq
	}
	return &fakeStore{inquiries: m}
}

func (s *fakeStore) GetInquiry(ctx context.Context, id uint) (*domain.Inquiry, error) {
	inq, ok := s.inquiries[id]
	if !ok {
		return nil, apperrors.New(apperrors.ErrCodeNotFound, "inquiry not found")
	}
	return inq, nil
}

func (s *fakeStore) SetLeadScore(ctx context.Context, id uint, score int, scoredAt time.Time) error {
	if s.scoreErr != nil {
		return s.scoreErr
	}
	s.scoredID = id
	s.scoredWith = score
	s.scoredAt = scoredAt
	if inq, ok := s.inquiries[id]; ok {
		inq.LeadScore = &score
		inq.ScoredAt = &scoredAt
	}
	return nil
}

func (s *fakeStore) MarkReplySent(ctx context.Context, id uint, sentAt time.Time) error {
	if s.markErr != nil {
		return s.markErr
	}
	s.sentReplyID = id
	return nil
}

type fakeSender struct {
	sent    []mail.Message
	failOn  string // fail when the subject contains this substring
	failErr error
}

func (s *fakeSender) Send(ctx context.Context, msg mail.Message) error {
	if s.failOn != "" && strings.Contains(msg.Subject, s.failOn) {
		return s.failErr
	}
	s.sent = append(s.sent, msg)
	return nil
}

func testComposer() *mail.Composer {
	return mail.NewComposer(&config.EmailConfig{
		FromEmail:     "noreply@example.com",
		FromName:      "IntelliRev AI Solutions",
		OperatorEmail: "ops@example.com",
		DashboardURL:  "https://example.com/admin",
		SchedulingURL: "https://example.com/book",
		WebsiteURL:    "https://example.com",
	})
}

func budgetInquiry() *domain.Inquiry {
	return &domain.Inquiry{
		ID:        42,
		Name:      "Alan",
		Email:     "alan@x.com",
		Message:   "What does this cost?",
		Status:    domain.StatusNew,
		CreatedAt: time.Now(),
	}
}

// --- ingest pipeline ---

func TestIngestScoresPersistsAndNotifies(t *testing.T) {
	t.Parallel()

	inq := budgetInquiry()
	store := newFakeStore(inq)
	sender := &fakeSender{}
	p := NewIngest(IngestDeps{Store: store, Composer: testComposer(), Sender: sender})

	if err := p.Process(context.Background(), inq); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	// Budget keyword only: score 30 persisted with a scoring timestamp.
	if store.scoredID != 42 || store.scoredWith != 30 {
		t.Fatalf("persisted id=%d score=%d, want 42/30", store.scoredID, store.scoredWith)
	}
	if store.scoredAt.IsZero() {
		t.Fatal("scoredAt not persisted")
	}
	if inq.LeadScore == nil || *inq.LeadScore != 30 || inq.ScoredAt == nil {
		t.Fatal("snapshot not updated with score")
	}

	// Operator alert first, then submitter acknowledgment.
	if len(sender.sent) != 2 {
		t.Fatalf("sent %d emails, want 2", len(sender.sent))
	}
	if sender.sent[0].To != "ops@example.com" {
		t.Fatalf("first email to %s, want operator", sender.sent[0].To)
	}
	if sender.sent[1].To != "alan@x.com" {
		t.Fatalf("second email to %s, want submitter", sender.sent[1].To)
	}
}

func TestIngestNilEventIsNoOp(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	sender := &fakeSender{}
	p := NewIngest(IngestDeps{Store: store, Composer: testComposer(), Sender: sender})

	if err := p.Process(context.Background(), nil); err != nil {
		t.Fatalf("nil event should not error: %v", err)
	}
	if store.scoredID != 0 || len(sender.sent) != 0 {
		t.Fatal("nil event must not touch the store or the sender")
	}
}

func TestIngestPersistFailureSkipsEmails(t *testing.T) {
	t.Parallel()

	inq := budgetInquiry()
	store := newFakeStore(inq)
	store.scoreErr = errors.New("write refused")
	sender := &fakeSender{}
	p := NewIngest(IngestDeps{Store: store, Composer: testComposer(), Sender: sender})

	err := p.Process(context.Background(), inq)
	if err == nil {
		t.Fatal("expected error")
	}
	if apperrors.Code(err) != apperrors.ErrCodePersistence {
		t.Fatalf("error code = %s, want PERSISTENCE_FAILED", apperrors.Code(err))
	}
	if len(sender.sent) != 0 {
		t.Fatal("no email may be attempted after a persistence failure")
	}
}

func TestIngestStopsAfterOperatorFailure(t *testing.T) {
	t.Parallel()

	inq := budgetInquiry()
	store := newFakeStore(inq)
	sender := &fakeSender{failOn: "Lead:", failErr: errors.New("rejected")}
	p := NewIngest(IngestDeps{Store: store, Composer: testComposer(), Sender: sender})

	err := p.Process(context.Background(), inq)
	if err == nil {
		t.Fatal("expected error")
	}
	if apperrors.Code(err) != apperrors.ErrCodeDelivery {
		t.Fatalf("error code = %s, want DELIVERY_FAILED", apperrors.Code(err))
	}
	// Score was already persisted; the acknowledgment is skipped.
	if store.scoredWith != 30 {
		t.Fatalf("score not persisted before the failure, got %d", store.scoredWith)
	}
	if len(sender.sent) != 0 {
		t.Fatal("acknowledgment must be skipped when the operator alert fails")
	}
}

// --- reply pipeline ---

func TestReplyDispatchSendsAndMarks(t *testing.T) {
	t.Parallel()

	inq := budgetInquiry()
	store := newFakeStore(inq)
	sender := &fakeSender{}
	p := NewReplyDispatch(ReplyDispatchDeps{Inquiries: store, Replies: store, Composer: testComposer(), Sender: sender})

	reply := &domain.Reply{ID: 9, InquiryID: inq.ID, Message: "We can start next week."}
	if err := p.Process(context.Background(), reply); err != nil {
		t.Fatalf("Process returned error: %v", err)
	}

	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	if sender.sent[0].To != inq.Email {
		t.Fatalf("reply sent to %s, want %s", sender.sent[0].To, inq.Email)
	}
	if !strings.Contains(sender.sent[0].HTMLBody, reply.Message) {
		t.Fatal("reply body missing operator text")
	}
	if store.sentReplyID != 9 {
		t.Fatalf("reply %d not marked sent", reply.ID)
	}
	if !reply.EmailSent || reply.SentAt == nil {
		t.Fatal("snapshot not updated after delivery")
	}
}

func TestReplyDispatchMissingParentIsNoOp(t *testing.T) {
	t.Parallel()

	store := newFakeStore() // no inquiries
	sender := &fakeSender{}
	p := NewReplyDispatch(ReplyDispatchDeps{Inquiries: store, Replies: store, Composer: testComposer(), Sender: sender})

	reply := &domain.Reply{ID: 9, InquiryID: 404, Message: "hello"}
	if err := p.Process(context.Background(), reply); err != nil {
		t.Fatalf("missing parent must not escape: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("no email may be sent without a parent inquiry")
	}
	if store.sentReplyID != 0 || reply.EmailSent {
		t.Fatal("reply must stay unsent")
	}
}

func TestReplyDispatchDeliveryFailureLeavesUnsent(t *testing.T) {
	t.Parallel()

	inq := budgetInquiry()
	store := newFakeStore(inq)
	sender := &fakeSender{failOn: "Your inquiry", failErr: errors.New("rejected")}
	p := NewReplyDispatch(ReplyDispatchDeps{Inquiries: store, Replies: store, Composer: testComposer(), Sender: sender})

	reply := &domain.Reply{ID: 9, InquiryID: inq.ID, Message: "hello"}
	err := p.Process(context.Background(), reply)
	if err == nil {
		t.Fatal("expected error")
	}
	if apperrors.Code(err) != apperrors.ErrCodeDelivery {
		t.Fatalf("error code = %s, want DELIVERY_FAILED", apperrors.Code(err))
	}
	// Mark-sent only runs after delivery succeeds.
	if store.sentReplyID != 0 || reply.EmailSent {
		t.Fatal("emailSent must remain false after a delivery failure")
	}
}

func TestReplyDispatchNilEventIsNoOp(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	sender := &fakeSender{}
	p := NewReplyDispatch(ReplyDispatchDeps{Inquiries: store, Replies: store, Composer: testComposer(), Sender: sender})

	if err := p.Process(context.Background(), nil); err != nil {
		t.Fatalf("nil event should not error: %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("nil event must not send")
	}
}
