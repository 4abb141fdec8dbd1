package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()

	var got []Event
	d.Subscribe(EventUserSignedUp, func(_ context.Context, e Event) error {
		got = append(got, e)
		return nil
	})
	d.Subscribe(EventUserDeactivated, func(_ context.Context, e Event) error {
		t.Fatal("handler for different event type must not fire")
		return nil
	})

	event := Event{Type: EventUserSignedUp, UserID: "u1", Email: "a@x.com"}
	assert.NoError(t, d.Publish(context.Background(), event))

	assert.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].UserID)
}

func TestDispatcherContinuesAfterHandlerError(t *testing.T) {
	t.Parallel()

	d := NewInMemoryDispatcher()

	second := false
	d.Subscribe(EventPasswordReset, func(context.Context, Event) error {
		return errors.New("boom")
	})
	d.Subscribe(EventPasswordReset, func(context.Context, Event) error {
		second = true
		return nil
	})

	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventPasswordReset}))
	assert.True(t, second)
}
