package poker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardCreation(t *testing.T) {
	t.Parallel()

	aceSpades := NewCard(Ace, Spades)
	assert.Equal(t, 14, aceSpades.Value())
	assert.Equal(t, "A♠", aceSpades.String())
	assert.Equal(t, "As", aceSpades.Code())

	twoClubs := NewCard(Two, Clubs)
	assert.Equal(t, 2, twoClubs.Value())
	assert.Equal(t, "2c", twoClubs.Code())
	assert.True(t, twoClubs.Less(aceSpades))
	assert.Equal(t, NewCard(Ace, Spades), aceSpades, "cards compare by rank and suit")
}

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input   string
		want    Card
		wantErr bool
	}{
		{input: "As", want: NewCard(Ace, Spades)},
		{input: "Td", want: NewCard(Ten, Diamonds)},
		{input: "10h", want: NewCard(Ten, Hearts)},
		{input: "kc", want: NewCard(King, Clubs)},
		{input: "2S", want: NewCard(Two, Spades)},
		{input: "1s", wantErr: true},
		{input: "Ax", wantErr: true},
		{input: "A", wantErr: true},
		{input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseCard(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCards(t *testing.T) {
	t.Parallel()

	cards, err := ParseCards("AsKsQsJsTs")
	require.NoError(t, err)
	require.Len(t, cards, 5)
	assert.Equal(t, NewCard(Ten, Spades), cards[4])

	cards, err = ParseCards("Ah 10d 2c")
	require.NoError(t, err)
	assert.Equal(t, []Card{NewCard(Ace, Hearts), NewCard(Ten, Diamonds), NewCard(Two, Clubs)}, cards)

	_, err = ParseCards("AsK")
	assert.Error(t, err)

	assert.Equal(t, "A♥ T♦ 2♣", FormatCards(cards))
}

func TestRankNames(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Ace", Ace.Name())
	assert.Equal(t, "Sixes", Six.Plural())
	assert.Equal(t, "Kings", King.Plural())
	assert.Equal(t, "T", Ten.String())
	assert.Equal(t, "9", Nine.String())
	assert.True(t, Hearts.IsRed())
	assert.False(t, Clubs.IsRed())
}
