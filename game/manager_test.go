package game

import (
	"math/rand"
	"testing"

	"github.com/lazharichir/carta/cards"
	"github.com/lazharichir/carta/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManager(t *testing.T) {
	store := events.NewInMemoryEventStore()
	manager := NewManager(store, WithRand(rand.New(rand.NewSource(1))))

	first, err := manager.Create(Rules{})
	require.NoError(t, err)
	second, err := manager.Create(Rules{Rows: 2, Columns: 3, MaxMoves: 1})
	require.NoError(t, err)

	assert.Equal(t, DefaultRules(), first.Rules(), "zero rules are filled with defaults")
	assert.Equal(t, 3, second.Rules().Columns)

	got, err := manager.Get(second.ID)
	require.NoError(t, err)
	assert.Same(t, second, got)

	list := manager.List()
	require.Len(t, list, 2)
	assert.Same(t, first, list[0])
	assert.Same(t, second, list[1])

	assert.Same(t, store, manager.EventStore())

	require.NoError(t, manager.Remove(first.ID))
	_, err = manager.Get(first.ID)
	require.ErrorIs(t, err, ErrSessionNotFound)
	require.ErrorIs(t, manager.Remove(first.ID), ErrSessionNotFound)

	evs, err := store.LoadEvents(first.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, evs, "events outlive the session")
}

func TestManager_CreateInvalid(t *testing.T) {
	manager := NewManager(events.NewInMemoryEventStore())
	_, err := manager.Create(Rules{Goal: CardSpec{Suit: "Stars", Rank: 3}})
	require.ErrorIs(t, err, ErrInvalidRules)
	assert.Empty(t, manager.List())
}

func TestRules_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(r *Rules)
		wantErr bool
	}{
		{"Defaults", func(r *Rules) {}, false},
		{"Zero rows", func(r *Rules) { r.Rows = 0 }, true},
		{"Negative columns", func(r *Rules) { r.Columns = -2 }, true},
		{"Zero moves", func(r *Rules) { r.MaxMoves = 0 }, true},
		{"Unknown direction", func(r *Rules) { r.AllowedDirections = []string{"N", "UP"} }, true},
		{"Diagonals may be listed", func(r *Rules) { r.AllowedDirections = []string{"NE", "n"} }, false},
		{"Unknown goal suit", func(r *Rules) { r.Goal.Suit = "Cups" }, true},
		{"Unknown start suit", func(r *Rules) { r.Start.Suit = "" }, true},
		{"Lowercase suit", func(r *Rules) { r.Goal.Suit = "spades" }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := DefaultRules()
			tt.mutate(&rules)
			err := rules.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRules)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCardSpec_Card(t *testing.T) {
	card, err := CardSpec{Suit: "hearts", Rank: 2}.Card()
	require.NoError(t, err)
	assert.True(t, card.Equal(cards.NewPlayingCard(cards.Hearts, 2, nil)))
	assert.False(t, card.Equal(cards.NewPlayingCard(cards.Clubs, 2, nil)))
}
