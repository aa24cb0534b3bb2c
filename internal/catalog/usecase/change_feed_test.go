package usecase

import (
	"context"
	"testing"

	"v5c-properties/internal/catalog/domain/model"
	"v5c-properties/internal/shared/eventbus"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChangeFeed_BroadcastReachesSubscribers(t *testing.T) {
	feed := NewChangeFeed(4, nil)
	_, a := feed.Subscribe()
	_, b := feed.Subscribe()

	n := feed.Broadcast(model.ChangeEvent{Type: model.ChangeCreated, Resource: "properties"})
	assert.Equal(t, 2, n)
	assert.Equal(t, "properties", (<-a).Resource)
	assert.Equal(t, "properties", (<-b).Resource)
}

func TestChangeFeed_SlowSubscriberIsDropped(t *testing.T) {
	feed := NewChangeFeed(1, nil)
	_, slow := feed.Subscribe()

	assert.Equal(t, 1, feed.Broadcast(model.ChangeEvent{DocumentID: "1"}))
	assert.Equal(t, 0, feed.Broadcast(model.ChangeEvent{DocumentID: "2"}))
	assert.Equal(t, 0, feed.SubscriberCount())

	first, ok := <-slow
	require.True(t, ok)
	assert.Equal(t, "1", first.DocumentID)
	_, ok = <-slow
	assert.False(t, ok, "channel should be closed after drop")
}

func TestChangeFeed_Unsubscribe(t *testing.T) {
	feed := NewChangeFeed(2, nil)
	id, ch := feed.Subscribe()
	feed.Unsubscribe(id)
	feed.Unsubscribe(id)

	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, feed.Broadcast(model.ChangeEvent{}))
}

func TestChangeFeed_HandleFromBus(t *testing.T) {
	feed := NewChangeFeed(2, nil)
	_, ch := feed.Subscribe()

	bus := eventbus.NewEventBus(nil)
	bus.Subscribe(eventbus.Wildcard, feed.Handle)
	require.NoError(t, bus.Publish(context.Background(), eventbus.NewEvent(eventbus.EventTypeDocumentDeleted,
		model.ChangeEvent{Type: model.ChangeDeleted, DocumentID: "x"}, EventSource)))
	require.NoError(t, bus.Publish(context.Background(), eventbus.NewEvent("other", "not a change", "t")))

	got := <-ch
	assert.Equal(t, model.ChangeDeleted, got.Type)
	assert.Len(t, ch, 0)
}

func TestChangeFeed_Close(t *testing.T) {
	feed := NewChangeFeed(2, nil)
	_, ch := feed.Subscribe()
	feed.Close()

	_, ok := <-ch
	assert.False(t, ok)
	assert.Zero(t, feed.SubscriberCount())
}
