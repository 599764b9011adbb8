package poker

import (
	"errors"
	"fmt"
)

// ErrInsufficientCards is returned when a deal asks for more cards than remain
var ErrInsufficientCards = errors.New("insufficient cards")

// DeckSize is the number of cards in a standard deck
const DeckSize = 52

// Source supplies uniform random integers in [0, n). *math/rand/v2.Rand
// satisfies it; see internal/randutil for seeded and crypto-backed sources.
type Source interface {
	IntN(n int) int
}

// Deck represents a standard 52-card deck
type Deck struct {
	cards [DeckSize]Card // Fixed size array
	next  int
	rng   Source
}

// NewDeck creates a new deck shuffled with the given source
func NewDeck(rng Source) *Deck {
	if rng == nil {
		panic("poker: deck requires a random source")
	}

	d := &Deck{rng: rng}
	d.fill()
	d.Shuffle()
	return d
}

func (d *Deck) fill() {
	i := 0
	for suit := Spades; suit <= Clubs; suit++ {
		for rank := Two; rank <= Ace; rank++ {
			d.cards[i] = NewCard(rank, suit)
			i++
		}
	}
	d.next = 0
}

// Shuffle shuffles the undealt cards using Fisher-Yates
func (d *Deck) Shuffle() {
	for i := len(d.cards) - 1; i > d.next; i-- {
		j := d.next + d.rng.IntN(i-d.next+1)
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	}
}

// Deal removes and returns the top n cards
func (d *Deck) Deal(n int) ([]Card, error) {
	if n < 0 || n > d.Remaining() {
		return nil, fmt.Errorf("deal %d with %d remaining: %w", n, d.Remaining(), ErrInsufficientCards)
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards, nil
}

// DealOne deals a single card
func (d *Deck) DealOne() (Card, error) {
	cards, err := d.Deal(1)
	if err != nil {
		return Card{}, err
	}
	return cards[0], nil
}

// Reset restores all 52 cards and reshuffles
func (d *Deck) Reset() {
	d.fill()
	d.Shuffle()
}

// Remaining returns the number of cards left in the deck
func (d *Deck) Remaining() int {
	return len(d.cards) - d.next
}

// Dealt returns the number of cards dealt since the last reset
func (d *Deck) Dealt() int {
	return d.next
}
