package cards

import (
	"errors"
	"fmt"
	"math/rand"
	"slices"
	"strings"
	"time"
)

var (
	ErrCardNotFound  = errors.New("card not found in deck")
	ErrDeckUnderflow = errors.New("not enough cards in deck")
)

// Source is the random source used for shuffling. *rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}

// NewSource returns a time-seeded random source
func NewSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// Shuffle permutes items in place with the Fisher-Yates algorithm: walking
// from the last index down to 1, each position is swapped with a uniformly
// chosen position at or before it.
func Shuffle[T any](items []T, rng Source) {
	for i := len(items) - 1; i > 0; i-- {
		r := rng.Intn(i + 1)
		items[i], items[r] = items[r], items[i]
	}
}

// Deck is an ordered collection of cards, dealt from the front
type Deck struct {
	cards []PlayingCard
	rng   Source
}

// NewDeck creates a deck holding the given cards in order
func NewDeck(rng Source, cards ...PlayingCard) *Deck {
	if rng == nil {
		rng = NewSource()
	}
	return &Deck{cards: cards, rng: rng}
}

func (d *Deck) Len() int {
	return len(d.cards)
}

// Cards returns a copy of the cards in deck order
func (d *Deck) Cards() []PlayingCard {
	return slices.Clone(d.cards)
}

// Add puts cards at the bottom of the deck
func (d *Deck) Add(cards ...PlayingCard) {
	d.cards = append(d.cards, cards...)
}

// Shuffle randomizes the order of the deck
func (d *Deck) Shuffle() {
	Shuffle(d.cards, d.rng)
}

// Peek returns the top card without removing it
func (d *Deck) Peek() (PlayingCard, bool) {
	if len(d.cards) == 0 {
		return PlayingCard{}, false
	}
	return d.cards[0], true
}

// PeekBottom returns the bottom card without removing it
func (d *Deck) PeekBottom() (PlayingCard, bool) {
	if len(d.cards) == 0 {
		return PlayingCard{}, false
	}
	return d.cards[len(d.cards)-1], true
}

// Deal removes and returns the first n cards, in deck order
func (d *Deck) Deal(n int) ([]PlayingCard, error) {
	if n < 0 {
		return nil, fmt.Errorf("cannot deal %d cards", n)
	}
	if n > len(d.cards) {
		return nil, fmt.Errorf("%w: want %d, have %d", ErrDeckUnderflow, n, len(d.cards))
	}

	dealt := make([]PlayingCard, n)
	copy(dealt, d.cards[:n])
	d.cards = d.cards[n:]
	return dealt, nil
}

func (d *Deck) index(card PlayingCard) int {
	return slices.IndexFunc(d.cards, card.Equal)
}

// Remove deletes the first card equal to card
func (d *Deck) Remove(card PlayingCard) error {
	i := d.index(card)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrCardNotFound, card.Reveal())
	}
	d.cards = slices.Delete(d.cards, i, i+1)
	return nil
}

// Take removes and returns the first card equal to card. The boolean is false
// when no such card is in the deck.
func (d *Deck) Take(card PlayingCard) (PlayingCard, bool) {
	i := d.index(card)
	if i < 0 {
		return PlayingCard{}, false
	}
	found := d.cards[i]
	d.cards = slices.Delete(d.cards, i, i+1)
	return found, true
}

func (d *Deck) String() string {
	parts := make([]string, len(d.cards))
	for i, c := range d.cards {
		parts[i] = c.Reveal()
	}
	return strings.Join(parts, " ")
}
