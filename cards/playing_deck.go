package cards

import "maps"

const (
	// JokerRank is above every real rank so jokers sort last
	JokerRank = 100
	// JokerSuitRank is above every real suit rank
	JokerSuitRank = 100

	ranksPerSuit = 13
)

// DeckOptions configures NewPlayingCardDeck
type DeckOptions struct {
	Suits         []Suit
	CourtMapping  map[int]string
	AcesHigh      bool
	IncludeJokers bool
	Rand          Source
}

// DeckOption mutates DeckOptions
type DeckOption func(*DeckOptions)

// WithSuits replaces the four standard suits
func WithSuits(suits ...Suit) DeckOption {
	return func(o *DeckOptions) { o.Suits = suits }
}

// WithCourtMapping replaces the default J/Q/K/A mapping
func WithCourtMapping(m map[int]string) DeckOption {
	return func(o *DeckOptions) { o.CourtMapping = m }
}

// WithAcesHigh sets whether aces rank 14 (true) or 1 (false)
func WithAcesHigh(high bool) DeckOption {
	return func(o *DeckOptions) { o.AcesHigh = high }
}

// WithJokers appends a red and a black joker
func WithJokers() DeckOption {
	return func(o *DeckOptions) { o.IncludeJokers = true }
}

// WithRand sets the random source used by Shuffle
func WithRand(rng Source) DeckOption {
	return func(o *DeckOptions) { o.Rand = rng }
}

// DefaultCourtMapping returns the rank to character substitutions for court
// cards and aces
func DefaultCourtMapping(acesHigh bool) map[int]string {
	m := map[int]string{11: "J", 12: "Q", 13: "K"}
	if acesHigh {
		m[14] = "A"
	} else {
		m[1] = "A"
	}
	return m
}

// NewPlayingCardDeck builds an unshuffled deck of thirteen ranks per suit,
// suit by suit. Aces are high unless WithAcesHigh(false) is given.
func NewPlayingCardDeck(opts ...DeckOption) *Deck {
	o := DeckOptions{AcesHigh: true}
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.Suits) == 0 {
		o.Suits = StandardSuits()
	}
	if len(o.CourtMapping) == 0 {
		o.CourtMapping = DefaultCourtMapping(o.AcesHigh)
	} else {
		o.CourtMapping = maps.Clone(o.CourtMapping)
	}

	low := 1
	if o.AcesHigh {
		low = 2
	}

	deck := NewDeck(o.Rand)
	for _, suit := range o.Suits {
		for rank := low; rank < low+ranksPerSuit; rank++ {
			deck.Add(NewPlayingCard(suit, rank, o.CourtMapping))
		}
	}
	if o.IncludeJokers {
		deck.Add(NewJoker(Red), NewJoker(Black))
	}
	return deck
}

// NewJoker creates a joker that compares above every standard card
func NewJoker(color Color) PlayingCard {
	suit := NewSuit("", JokerSuitRank, color)
	return NewPlayingCard(suit, JokerRank, map[int]string{JokerRank: "Jkr"})
}
