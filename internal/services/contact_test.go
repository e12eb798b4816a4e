package services

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"intellirev/internal/domain"
	"intellirev/internal/events"
)

type fakeCreator struct {
	created *domain.Inquiry
}

func (f *fakeCreator) CreateInquiry(ctx context.Context, inquiry *domain.Inquiry) error {
	inquiry.ID = 1
	inquiry.CreatedAt = time.Now()
	f.created = inquiry
	return nil
}

func TestSubmitCreatesInquiryAndFiresTrigger(t *testing.T) {
	store := &fakeCreator{}
	bus := events.NewBus()
	fired := make(chan events.Event, 1)
	bus.OnCreate(events.KindInquiry, func(ctx context.Context, evt events.Event) error {
		fired <- evt
		return nil
	})
	svc := NewContactService(store, bus)

	body := `{"name":"Alan","email":"Alan@X.com","message":"We need automation"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(body))
	rec := httptest.NewRecorder()
	svc.Submit(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	if store.created == nil {
		t.Fatal("inquiry not stored")
	}
	if store.created.Email != "alan@x.com" {
		t.Fatalf("email not normalized: %s", store.created.Email)
	}
	if store.created.Status != domain.StatusNew {
		t.Fatalf("status = %s, want new", store.created.Status)
	}

	select {
	case evt := <-fired:
		if evt.Kind != events.KindInquiry || evt.ID != 1 {
			t.Fatalf("unexpected event: %+v", evt)
		}
		snapshot, ok := evt.Data.(*domain.Inquiry)
		if !ok || snapshot.Name != "Alan" {
			t.Fatalf("event snapshot wrong: %+v", evt.Data)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("create trigger never fired")
	}
}

func TestSubmitValidation(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"short name", `{"name":"A","email":"a@x.com","message":"hi"}`},
		{"bad email", `{"name":"Alan","email":"not-an-email","message":"hi"}`},
		{"empty message", `{"name":"Alan","email":"a@x.com","message":"  "}`},
		{"not json", `nope`},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			store := &fakeCreator{}
			svc := NewContactService(store, events.NewBus())

			req := httptest.NewRequest(http.MethodPost, "/api/v1/contact", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			svc.Submit(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			if store.created != nil {
				t.Fatal("invalid submission must not be stored")
			}
		})
	}
}
