package game

import (
	"testing"

	"github.com/lox/holdem-referee/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlayerPlaceBet(t *testing.T) {
	t.Parallel()

	p := NewPlayer("p0", "Alice", 100)
	p.Active = true
	p.Status = StatusActive

	require.NoError(t, p.PlaceBet(40))
	assert.Equal(t, 60, p.Chips)
	assert.Equal(t, 40, p.CurrentBet)
	assert.Equal(t, 40, p.TotalContribution)
	assert.Equal(t, StatusActive, p.Status)

	err := p.PlaceBet(61)
	require.ErrorIs(t, err, ErrInsufficientChips)
	assert.Equal(t, 60, p.Chips, "failed bet must not move chips")

	require.NoError(t, p.PlaceBet(60))
	assert.Equal(t, 0, p.Chips)
	assert.Equal(t, StatusAllIn, p.Status)
	assert.False(t, p.CanAct())
	assert.True(t, p.IsInHand(), "all-in players can still win")
}

func TestPlayerFold(t *testing.T) {
	t.Parallel()

	p := NewPlayer("p0", "Alice", 100)
	p.Active = true
	p.Status = StatusActive
	p.HoleCards = poker.MustParseCards("AsKs")

	p.Fold()
	assert.Nil(t, p.HoleCards)
	assert.Equal(t, StatusFolded, p.Status)
	assert.False(t, p.CanAct())
	assert.False(t, p.IsInHand())
}

func TestPlayerResetForHand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		chips      int
		sittingOut bool
		active     bool
		status     PlayerStatus
	}{
		{"funded", 100, false, true, StatusActive},
		{"busted", 0, false, false, StatusSittingOut},
		{"sitting out", 100, true, false, StatusSittingOut},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPlayer("p0", "Alice", tt.chips)
			p.sittingOut = tt.sittingOut
			p.CurrentBet = 10
			p.LastAction = actionPtr(Call)

			p.resetForHand()
			assert.Equal(t, tt.active, p.Active)
			assert.Equal(t, tt.status, p.Status)
			assert.Zero(t, p.CurrentBet)
			assert.Nil(t, p.LastAction)
		})
	}
}
