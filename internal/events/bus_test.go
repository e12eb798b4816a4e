package events

import (
	"context"
	"errors"
	"testing"
)

func TestDispatchInvokesHandlersInOrder(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	var calls []string
	bus.OnCreate(KindInquiry, func(ctx context.Context, evt Event) error {
		calls = append(calls, "first")
		return nil
	})
	bus.OnCreate(KindInquiry, func(ctx context.Context, evt Event) error {
		calls = append(calls, "second")
		return nil
	})

	if err := bus.Dispatch(context.Background(), Event{Kind: KindInquiry, ID: 1}); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if len(calls) != 2 || calls[0] != "first" || calls[1] != "second" {
		t.Fatalf("handler order = %v", calls)
	}
}

func TestDispatchIgnoresOtherKinds(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	called := false
	bus.OnCreate(KindReply, func(ctx context.Context, evt Event) error {
		called = true
		return nil
	})

	if err := bus.Dispatch(context.Background(), Event{Kind: KindInquiry, ID: 2}); err != nil {
		t.Fatalf("Dispatch returned error: %v", err)
	}
	if called {
		t.Fatal("reply handler should not fire for inquiry events")
	}
}

func TestDispatchRunsAllHandlersAndReturnsFirstError(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	boom := errors.New("boom")
	secondRan := false
	bus.OnCreate(KindInquiry, func(ctx context.Context, evt Event) error {
		return boom
	})
	bus.OnCreate(KindInquiry, func(ctx context.Context, evt Event) error {
		secondRan = true
		return nil
	})

	err := bus.Dispatch(context.Background(), Event{Kind: KindInquiry, ID: 3})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped boom, got %v", err)
	}
	if !secondRan {
		t.Fatal("later handlers should still run after a failure")
	}
}

func TestDispatchNoHandlers(t *testing.T) {
	t.Parallel()

	bus := NewBus()
	if err := bus.Dispatch(context.Background(), Event{Kind: KindReply, ID: 4}); err != nil {
		t.Fatalf("Dispatch with no handlers should be a no-op, got %v", err)
	}
}
