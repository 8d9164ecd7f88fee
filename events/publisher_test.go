package events

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingStore struct{ InMemoryEventStore }

func (f *failingStore) Append(event Event) error { return errors.New("boom") }

func TestPublishingEventStore(t *testing.T) {
	store := NewPublishingEventStore(NewInMemoryEventStore())

	var seen []Event
	store.AddEventHandler(func(event Event) { seen = append(seen, event) })

	require.NoError(t, store.Append(stepTaken{GameID: "g", Step: 1}))
	require.ErrorIs(t, store.Append(noGame{}), ErrNoGameID)

	assert.Equal(t, []Event{stepTaken{GameID: "g", Step: 1}}, seen, "failed appends are not published")

	loaded, err := store.LoadEvents("g")
	require.NoError(t, err)
	assert.Len(t, loaded, 1)
}

func TestPublishingEventStore_InnerFailure(t *testing.T) {
	store := NewPublishingEventStore(&failingStore{})
	called := false
	store.AddEventHandler(func(event Event) { called = true })

	require.Error(t, store.Append(stepTaken{GameID: "g"}))
	assert.False(t, called)
}
