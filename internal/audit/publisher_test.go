package audit

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmitFillsIDAndTimestamp(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()
	p := NewPublisher(store)

	err := p.Emit(ctx, Event{Identity: 42, Action: ActionEntryAdded, Identifier: "+919876543210"})
	require.NoError(t, err)

	events, err := p.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.NotEqual(t, uuid.Nil, events[0].ID)
	assert.False(t, events[0].Timestamp.IsZero())
	assert.Equal(t, ActionEntryAdded, events[0].Action)
}

func TestEmitForwardsToOutboxWithoutBlocking(t *testing.T) {
	ctx := context.Background()
	outbox := make(chan Event, 1)
	p := NewPublisher(NewMemoryStore(), WithOutbox(outbox))

	require.NoError(t, p.Emit(ctx, Event{Identity: 42, Action: ActionEntryAdded}))
	require.NoError(t, p.Emit(ctx, Event{Identity: 42, Action: ActionEntryDeleted}))
	// The second emit finds the outbox full and must not block; both events
	// still land in the local store.

	events, err := p.List(ctx)
	require.NoError(t, err)
	assert.Len(t, events, 2)
	assert.Len(t, outbox, 1)
}

type failingStore struct{}

func (failingStore) Append(context.Context, Event) error { return errors.New("append failed") }
func (failingStore) List(context.Context) ([]Event, error) {
	return nil, errors.New("list failed")
}

func TestEmitPropagatesStoreFailure(t *testing.T) {
	p := NewPublisher(failingStore{})
	err := p.Emit(context.Background(), Event{Action: ActionEntryAdded})
	assert.Error(t, err)
}
