package poker

import (
	"errors"
	"testing"

	"github.com/lox/holdem-referee/internal/randutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeckHas52UniqueCards(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(1))
	require.Equal(t, 52, d.Remaining())
	require.Equal(t, 0, d.Dealt())

	cards, err := d.Deal(52)
	require.NoError(t, err)

	seen := make(map[Card]bool)
	for _, c := range cards {
		require.True(t, c.Valid(), "invalid card %v", c)
		require.False(t, seen[c], "duplicate card %s", c)
		seen[c] = true
	}
	assert.Len(t, seen, 52)
	assert.Equal(t, 0, d.Remaining())
	assert.Equal(t, 52, d.Dealt())
}

func TestDeckDealKeepsCountsBalanced(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(2))
	for _, n := range []int{2, 2, 3, 1, 1, 0} {
		_, err := d.Deal(n)
		require.NoError(t, err)
		assert.Equal(t, 52, d.Remaining()+d.Dealt())
	}
	assert.Equal(t, 9, d.Dealt())
}

func TestDeckDealInsufficientCards(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(3))
	_, err := d.Deal(53)
	assert.True(t, errors.Is(err, ErrInsufficientCards))

	_, err = d.Deal(-1)
	assert.ErrorIs(t, err, ErrInsufficientCards)

	_, err = d.Deal(50)
	require.NoError(t, err)
	_, err = d.Deal(3)
	assert.ErrorIs(t, err, ErrInsufficientCards)
	assert.Equal(t, 2, d.Remaining(), "failed deal must not consume cards")
}

func TestDeckDeterministicWithSeed(t *testing.T) {
	t.Parallel()

	a, _ := NewDeck(randutil.New(42)).Deal(10)
	b, _ := NewDeck(randutil.New(42)).Deal(10)
	c, _ := NewDeck(randutil.New(43)).Deal(10)

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
}

func TestDeckReset(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.New(7))
	_, err := d.Deal(20)
	require.NoError(t, err)

	d.Reset()
	assert.Equal(t, 52, d.Remaining())
	cards, err := d.Deal(52)
	require.NoError(t, err)

	seen := make(map[Card]bool)
	for _, c := range cards {
		seen[c] = true
	}
	assert.Len(t, seen, 52)
}

func TestDeckWithSecureSource(t *testing.T) {
	t.Parallel()

	d := NewDeck(randutil.NewSecure())
	cards, err := d.Deal(52)
	require.NoError(t, err)
	assert.Len(t, cards, 52)
}
