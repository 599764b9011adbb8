package poker

import (
	"errors"
	"fmt"
	"sort"
)

var (
	// ErrTooFewCards is returned when fewer than five cards are evaluated
	ErrTooFewCards = errors.New("too few cards")
	// ErrTooManyCards is returned when more than seven cards are evaluated
	ErrTooManyCards = errors.New("too many cards")
	// ErrDuplicateCard is returned when the same card appears twice
	ErrDuplicateCard = errors.New("duplicate card")
)

// HandType enumerates the categories of poker hands ordered from weakest to strongest.
type HandType uint8

const (
	HighCard HandType = iota
	Pair
	TwoPair
	ThreeOfAKind
	Straight
	Flush
	FullHouse
	FourOfAKind
	StraightFlush
	RoyalFlush
)

// String returns a human-readable hand category
func (t HandType) String() string {
	switch t {
	case HighCard:
		return "High Card"
	case Pair:
		return "Pair"
	case TwoPair:
		return "Two Pair"
	case ThreeOfAKind:
		return "Three of a Kind"
	case Straight:
		return "Straight"
	case Flush:
		return "Flush"
	case FullHouse:
		return "Full House"
	case FourOfAKind:
		return "Four of a Kind"
	case StraightFlush:
		return "Straight Flush"
	case RoyalFlush:
		return "Royal Flush"
	default:
		return "Unknown"
	}
}

// Evaluation is the result of evaluating a hand. Tiebreakers are compared
// lexicographically between hands of the same Type.
type Evaluation struct {
	Type        HandType `json:"type"`
	Tiebreakers []int    `json:"tiebreakers"`
	BestFive    [5]Card  `json:"best_five"`
}

// Evaluate returns the best five-card hand that can be made from 5 to 7 cards.
// The result does not depend on the order of the input.
func Evaluate(cards []Card) (Evaluation, error) {
	switch {
	case len(cards) < 5:
		return Evaluation{}, fmt.Errorf("evaluate %d cards: %w", len(cards), ErrTooFewCards)
	case len(cards) > 7:
		return Evaluation{}, fmt.Errorf("evaluate %d cards: %w", len(cards), ErrTooManyCards)
	}

	seen := make(map[Card]bool, len(cards))
	for _, c := range cards {
		if !c.Valid() {
			return Evaluation{}, fmt.Errorf("invalid card %v", c)
		}
		if seen[c] {
			return Evaluation{}, fmt.Errorf("card %s: %w", c.Code(), ErrDuplicateCard)
		}
		seen[c] = true
	}

	var (
		best  Evaluation
		found bool
		five  [5]Card
	)

	// Walk every 5-card subset (at most 21 for 7 cards)
	n := len(cards)
	for a := 0; a < n-4; a++ {
		for b := a + 1; b < n-3; b++ {
			for c := b + 1; c < n-2; c++ {
				for d := c + 1; d < n-1; d++ {
					for e := d + 1; e < n; e++ {
						five = [5]Card{cards[a], cards[b], cards[c], cards[d], cards[e]}
						ev := evaluateFive(five)
						if !found || CompareHands(ev, best) > 0 {
							best = ev
							found = true
						}
					}
				}
			}
		}
	}

	return best, nil
}

// evaluateFive classifies exactly five cards
func evaluateFive(cards [5]Card) Evaluation {
	// Sort descending by value so kickers fall out in order
	sort.Slice(cards[:], func(i, j int) bool {
		if cards[i].Rank != cards[j].Rank {
			return cards[i].Rank > cards[j].Rank
		}
		return cards[i].Suit < cards[j].Suit
	})

	flush := true
	for _, c := range cards[1:] {
		if c.Suit != cards[0].Suit {
			flush = false
			break
		}
	}

	straightHigh := checkStraight(cards)

	// Group ranks by multiplicity, larger groups first, then higher rank
	var counts [Ace + 1]int
	for _, c := range cards {
		counts[c.Rank]++
	}
	type group struct {
		rank  Rank
		count int
	}
	groups := make([]group, 0, 5)
	for r := Ace; r >= Two; r-- {
		if counts[r] > 0 {
			groups = append(groups, group{rank: r, count: counts[r]})
		}
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].count > groups[j].count
	})

	ranks := func() []int {
		out := make([]int, len(groups))
		for i, g := range groups {
			out[i] = int(g.rank)
		}
		return out
	}

	ev := Evaluation{BestFive: cards}

	switch {
	case flush && straightHigh == int(Ace):
		ev.Type = RoyalFlush
		ev.Tiebreakers = []int{straightHigh}
	case flush && straightHigh > 0:
		ev.Type = StraightFlush
		ev.Tiebreakers = []int{straightHigh}
	case groups[0].count == 4:
		ev.Type = FourOfAKind
		ev.Tiebreakers = ranks()
	case groups[0].count == 3 && groups[1].count == 2:
		ev.Type = FullHouse
		ev.Tiebreakers = ranks()
	case flush:
		ev.Type = Flush
		ev.Tiebreakers = ranks()
	case straightHigh > 0:
		ev.Type = Straight
		ev.Tiebreakers = []int{straightHigh}
	case groups[0].count == 3:
		ev.Type = ThreeOfAKind
		ev.Tiebreakers = ranks()
	case groups[0].count == 2 && groups[1].count == 2:
		ev.Type = TwoPair
		ev.Tiebreakers = ranks()
	case groups[0].count == 2:
		ev.Type = Pair
		ev.Tiebreakers = ranks()
	default:
		ev.Type = HighCard
		ev.Tiebreakers = ranks()
	}

	// Wheel plays the ace as the low card
	if straightHigh == int(Five) {
		ev.BestFive = [5]Card{cards[1], cards[2], cards[3], cards[4], cards[0]}
	}

	return ev
}

// checkStraight returns the high card value of a straight, or 0.
// Cards must be sorted descending.
func checkStraight(cards [5]Card) int {
	for i := 1; i < 5; i++ {
		if cards[i].Rank == cards[i-1].Rank {
			return 0
		}
	}
	if int(cards[0].Rank)-int(cards[4].Rank) == 4 {
		return int(cards[0].Rank)
	}
	// A-5-4-3-2
	if cards[0].Rank == Ace && cards[1].Rank == Five && cards[4].Rank == Two {
		return int(Five)
	}
	return 0
}

// CompareHands returns 1 if a wins, -1 if b wins, 0 for a tie
func CompareHands(a, b Evaluation) int {
	if a.Type != b.Type {
		if a.Type > b.Type {
			return 1
		}
		return -1
	}
	for i := 0; i < len(a.Tiebreakers) && i < len(b.Tiebreakers); i++ {
		if a.Tiebreakers[i] > b.Tiebreakers[i] {
			return 1
		}
		if a.Tiebreakers[i] < b.Tiebreakers[i] {
			return -1
		}
	}
	switch {
	case len(a.Tiebreakers) > len(b.Tiebreakers):
		return 1
	case len(a.Tiebreakers) < len(b.Tiebreakers):
		return -1
	}
	return 0
}

// String describes the hand, e.g. "Full House, Aces full of Eights"
func (e Evaluation) String() string {
	r := func(i int) Rank {
		if i < len(e.Tiebreakers) {
			return Rank(e.Tiebreakers[i])
		}
		return 0
	}

	switch e.Type {
	case RoyalFlush:
		return "Royal Flush"
	case StraightFlush:
		return fmt.Sprintf("Straight Flush, %s high", r(0).Name())
	case FourOfAKind:
		return fmt.Sprintf("Four of a Kind, %s", r(0).Plural())
	case FullHouse:
		return fmt.Sprintf("Full House, %s full of %s", r(0).Plural(), r(1).Plural())
	case Flush:
		return fmt.Sprintf("Flush, %s high", r(0).Name())
	case Straight:
		return fmt.Sprintf("Straight, %s high", r(0).Name())
	case ThreeOfAKind:
		return fmt.Sprintf("Three of a Kind, %s", r(0).Plural())
	case TwoPair:
		return fmt.Sprintf("Two Pair, %s and %s", r(0).Plural(), r(1).Plural())
	case Pair:
		return fmt.Sprintf("Pair of %s", r(0).Plural())
	case HighCard:
		return fmt.Sprintf("High Card, %s", r(0).Name())
	default:
		return "Unknown"
	}
}

// HandEntry pairs an identifier with the cards available to it
type HandEntry struct {
	ID    string
	Cards []Card
}

// Ranked is an evaluated HandEntry
type Ranked struct {
	ID         string
	Evaluation Evaluation
}

// FindWinners evaluates every entry and returns all entries tied for the best hand,
// in input order.
func FindWinners(entries []HandEntry) ([]Ranked, error) {
	ranked := make([]Ranked, 0, len(entries))
	for _, e := range entries {
		ev, err := Evaluate(e.Cards)
		if err != nil {
			return nil, fmt.Errorf("evaluate %s: %w", e.ID, err)
		}
		ranked = append(ranked, Ranked{ID: e.ID, Evaluation: ev})
	}
	if len(ranked) == 0 {
		return nil, nil
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return CompareHands(ranked[i].Evaluation, ranked[j].Evaluation) > 0
	})

	end := 1
	for end < len(ranked) && CompareHands(ranked[end].Evaluation, ranked[0].Evaluation) == 0 {
		end++
	}
	return ranked[:end], nil
}
