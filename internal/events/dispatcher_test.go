package events

import (
	"context"
	"errors"
	"testing"
)

func TestInMemoryDispatcher(t *testing.T) {
	t.Parallel()

	t.Run("delivers to all subscribers of the type", func(t *testing.T) {
		d := NewInMemoryDispatcher()

		var first, second int
		d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
			first++
			return nil
		})
		d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
			second++
			return nil
		})
		d.Subscribe(EventTicketStatusChanged, func(context.Context, Event) error {
			t.Fatal("wrong event type delivered")
			return nil
		})

		if err := d.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if first != 1 || second != 1 {
			t.Fatalf("expected both handlers invoked once, got %d and %d", first, second)
		}
	})

	t.Run("handler errors do not stop later handlers or the publisher", func(t *testing.T) {
		d := NewInMemoryDispatcher()

		var reached bool
		d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
			return errors.New("boom")
		})
		d.Subscribe(EventTicketCreated, func(context.Context, Event) error {
			reached = true
			return nil
		})

		if err := d.Publish(context.Background(), Event{Type: EventTicketCreated}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !reached {
			t.Fatal("expected second handler to run after first failed")
		}
	})

	t.Run("publishing with no subscribers is a no-op", func(t *testing.T) {
		d := NewInMemoryDispatcher()
		if err := d.Publish(context.Background(), Event{Type: EventTicketStatusChanged}); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})
}
