package poker

import (
	"testing"

	phpoker "github.com/paulhankin/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/holdem-referee/internal/randutil"
)

func mustEvaluate(t *testing.T, s string) Evaluation {
	t.Helper()
	ev, err := Evaluate(MustParseCards(s))
	require.NoError(t, err)
	return ev
}

func TestEvaluateCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		cards       string
		want        HandType
		tiebreakers []int
	}{
		{"royal flush", "AsKsQsJsTs", RoyalFlush, []int{14}},
		{"straight flush", "9h8h7h6h5h2c3d", StraightFlush, []int{9}},
		{"steel wheel", "Ad2d3d4d5dKcQc", StraightFlush, []int{5}},
		{"four of a kind", "7s7h7d7cKs2d3c", FourOfAKind, []int{7, 13}},
		{"full house", "AhAsAd8h8sKdQc", FullHouse, []int{14, 8}},
		{"full house from two trips", "KhKsKd9h9s9dQc", FullHouse, []int{13, 9}},
		{"flush", "AhJh9h6h2hKsQd", Flush, []int{14, 11, 9, 6, 2}},
		{"straight", "9c8d7h6s5c2d2h", Straight, []int{9}},
		{"wheel", "Ah5s4d3c2hKhQd", Straight, []int{5}},
		{"broadway", "AhKdQcJsTd3c2h", Straight, []int{14}},
		{"three of a kind", "QsQhQd9c4h3s2d", ThreeOfAKind, []int{12, 9, 4}},
		{"two pair", "JsJh4d4c9hAs2d", TwoPair, []int{11, 4, 14}},
		{"two pair picks best of three pairs", "JsJh4d4c9h9s2d", TwoPair, []int{11, 9, 4}},
		{"pair", "TsTh8d6c4h3s2d", Pair, []int{10, 8, 6, 4}},
		{"high card", "AsJh8d6c4h3s2d", HighCard, []int{14, 11, 8, 6, 4}},
		{"five cards", "2s3h4d5c7h", HighCard, []int{7, 5, 4, 3, 2}},
		{"six cards", "2s2h4d5c7hAd", Pair, []int{2, 14, 7, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := mustEvaluate(t, tt.cards)
			assert.Equal(t, tt.want, ev.Type, "got %s", ev)
			assert.Equal(t, tt.tiebreakers, ev.Tiebreakers)
		})
	}
}

func TestEvaluateWheelIsLowestStraight(t *testing.T) {
	t.Parallel()

	wheel := mustEvaluate(t, "Ah5s4d3c2hKhQd")
	sixHigh := mustEvaluate(t, "6h5s4d3c2hKhQd")

	assert.Equal(t, 5, wheel.Tiebreakers[0], "wheel is five high, not ace high")
	assert.Equal(t, -1, CompareHands(wheel, sixHigh))
	assert.Equal(t, NewCard(Ace, Hearts), wheel.BestFive[4], "ace plays low")
}

func TestEvaluateErrors(t *testing.T) {
	t.Parallel()

	_, err := Evaluate(MustParseCards("AsKsQsJs"))
	assert.ErrorIs(t, err, ErrTooFewCards)

	_, err = Evaluate(MustParseCards("AsKsQsJsTs9s8s7s"))
	assert.ErrorIs(t, err, ErrTooManyCards)

	_, err = Evaluate(MustParseCards("AsAsQsJsTs"))
	assert.ErrorIs(t, err, ErrDuplicateCard)
}

func TestEvaluateOrderInvariance(t *testing.T) {
	t.Parallel()

	rng := randutil.New(99)
	for i := 0; i < 200; i++ {
		cards, err := NewDeck(rng).Deal(7)
		require.NoError(t, err)

		base, err := Evaluate(cards)
		require.NoError(t, err)
		assert.Equal(t, 0, CompareHands(base, base))

		shuffled := append([]Card(nil), cards...)
		rng.Shuffle(len(shuffled), func(i, j int) { shuffled[i], shuffled[j] = shuffled[j], shuffled[i] })

		again, err := Evaluate(shuffled)
		require.NoError(t, err)
		assert.Equal(t, base.Type, again.Type)
		assert.Equal(t, base.Tiebreakers, again.Tiebreakers)
		assert.Equal(t, 0, CompareHands(base, again))
	}
}

func TestCompareHands(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		a, b string
		want int
	}{
		{"flush beats straight", "AhJh9h6h2hKsQd", "9c8d7h6s5c2d2h", 1},
		{"kicker decides", "AsAh9d6c4h3s2d", "AdAcKd6h4c3d2s", -1},
		{"board plays", "AsKsQsJs9d2c3c", "AsKsQsJs9d4h5h", 0},
		{"higher full house", "KhKsKd2h2s7c8d", "QhQsQd Ah As 7c 8d", 1},
		{"two pair second pair", "JsJh9d9c2h3s4d", "JdJc8d8c2s3h4c", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustEvaluate(t, tt.a)
			b := mustEvaluate(t, tt.b)
			assert.Equal(t, tt.want, CompareHands(a, b))
			assert.Equal(t, -tt.want, CompareHands(b, a))
		})
	}
}

func TestFindWinners(t *testing.T) {
	t.Parallel()

	board := "2h7dTcJs3s"
	entries := []HandEntry{
		{ID: "alice", Cards: MustParseCards("AhKd" + board)},
		{ID: "bob", Cards: MustParseCards("AcKs" + board)},
		{ID: "carol", Cards: MustParseCards("9c8c" + board)},
		{ID: "dave", Cards: MustParseCards("4c5c" + board)},
	}

	winners, err := FindWinners(entries)
	require.NoError(t, err)
	require.Len(t, winners, 1)
	assert.Equal(t, "carol", winners[0].ID)
	assert.Equal(t, Straight, winners[0].Evaluation.Type)

	winners, err = FindWinners(entries[:2])
	require.NoError(t, err)
	require.Len(t, winners, 2, "identical hands split")
	assert.Equal(t, "alice", winners[0].ID)
	assert.Equal(t, "bob", winners[1].ID)

	winners, err = FindWinners(nil)
	require.NoError(t, err)
	assert.Empty(t, winners)

	_, err = FindWinners([]HandEntry{{ID: "short", Cards: MustParseCards("AsKs")}})
	assert.ErrorIs(t, err, ErrTooFewCards)
}

func TestEvaluationString(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Royal Flush", mustEvaluate(t, "AsKsQsJsTs").String())
	assert.Equal(t, "Full House, Aces full of Eights", mustEvaluate(t, "AhAsAd8h8sKdQc").String())
	assert.Equal(t, "Straight, Five high", mustEvaluate(t, "Ah5s4d3c2hKhQd").String())
	assert.Equal(t, "Two Pair, Jacks and Fours", mustEvaluate(t, "JsJh4d4c9hAs2d").String())
	assert.Equal(t, "Pair of Sixes", mustEvaluate(t, "6s6h8d4c2h").String())
}

// toReference converts a card to the paulhankin/poker representation (ace = 1)
func toReference(t *testing.T, c Card) phpoker.Card {
	t.Helper()
	suits := map[Suit]phpoker.Suit{
		Spades:   phpoker.Spade,
		Hearts:   phpoker.Heart,
		Diamonds: phpoker.Diamond,
		Clubs:    phpoker.Club,
	}
	rank := c.Value()
	if c.Rank == Ace {
		rank = 1
	}
	rc, err := phpoker.MakeCard(suits[c.Suit], phpoker.Rank(rank))
	require.NoError(t, err)
	return rc
}

func TestEvaluatorAgreesWithReference(t *testing.T) {
	t.Parallel()

	rng := randutil.New(2024)
	for i := 0; i < 500; i++ {
		d := NewDeck(rng)
		a, err := d.Deal(7)
		require.NoError(t, err)
		b, err := d.Deal(7)
		require.NoError(t, err)

		var ra, rb [7]phpoker.Card
		for j := range a {
			ra[j] = toReference(t, a[j])
			rb[j] = toReference(t, b[j])
		}

		want := 0
		sa, sb := phpoker.Eval7(&ra), phpoker.Eval7(&rb)
		switch {
		case sa > sb:
			want = 1
		case sa < sb:
			want = -1
		}

		evA, err := Evaluate(a)
		require.NoError(t, err)
		evB, err := Evaluate(b)
		require.NoError(t, err)

		require.Equal(t, want, CompareHands(evA, evB), "%s (%s) vs %s (%s)", FormatCards(a), evA, FormatCards(b), evB)
	}
}
