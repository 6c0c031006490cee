package events_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/epicevents/crm/internal/events"
)

func TestInMemoryDispatcher_Publish(t *testing.T) {
	d := events.NewInMemoryDispatcher()
	var seen []string

	d.Subscribe(events.EventSessionIssued, func(_ context.Context, e events.Event) error {
		seen = append(seen, "first")
		return errors.New("boom")
	})
	d.Subscribe(events.EventSessionIssued, func(_ context.Context, e events.Event) error {
		seen = append(seen, "second")
		return nil
	})
	d.Subscribe(events.EventSessionCleared, func(_ context.Context, e events.Event) error {
		seen = append(seen, "other")
		return nil
	})

	err := d.Publish(context.Background(), events.New(events.EventSessionIssued, nil, nil))
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 1)
	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestDiscard(t *testing.T) {
	events.Discard.Subscribe(events.EventClientCreated, func(context.Context, events.Event) error {
		t.Fatal("discard must not call handlers")
		return nil
	})
	assert.NoError(t, events.Discard.Publish(context.Background(), events.New(events.EventClientCreated, nil, nil)))
}
