package bot

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-referee/internal/game"
	"github.com/lox/holdem-referee/internal/randutil"
	"github.com/lox/holdem-referee/poker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

var (
	unopened = []game.LegalAction{
		{Action: game.Fold},
		{Action: game.Check},
		{Action: game.Bet, Min: 10, Max: 1000},
		{Action: game.AllIn, Min: 1000, Max: 1000},
	}
	facingBet = []game.LegalAction{
		{Action: game.Fold},
		{Action: game.Call, Min: 30, Max: 30},
		{Action: game.Raise, Min: 60, Max: 1000},
		{Action: game.AllIn, Min: 1000, Max: 1000},
	}
	facingShove = []game.LegalAction{
		{Action: game.Fold},
		{Action: game.Call, Min: 1000, Max: 1000},
		{Action: game.AllIn, Min: 1000, Max: 1000},
	}
)

func state(phase game.Phase, hole string, chips, currentBet int) game.Snapshot {
	return game.Snapshot{
		Phase:              phase,
		CurrentBet:         currentBet,
		Blinds:             game.Blinds{Small: 5, Big: 10},
		CurrentPlayerIndex: 0,
		Players: []game.PlayerSnapshot{
			{ID: "me", Chips: chips, HoleCards: poker.MustParseCards(hole)},
			{ID: "villain", Chips: 1000},
		},
	}
}

func TestNew(t *testing.T) {
	t.Parallel()

	for _, name := range Strategies {
		agent, err := New(name, randutil.New(1), quietLogger())
		require.NoError(t, err, name)
		require.NotNil(t, agent, name)
	}

	_, err := New("shark", randutil.New(1), quietLogger())
	require.Error(t, err)
}

func TestFoldBot(t *testing.T) {
	t.Parallel()

	b := NewFoldBot(quietLogger())
	ctx := context.Background()

	assert.Equal(t, game.Check, b.Decide(ctx, state(game.PhaseFlop, "AsAh", 1000, 0), unopened).Action)
	assert.Equal(t, game.Fold, b.Decide(ctx, state(game.PhaseFlop, "AsAh", 1000, 30), facingBet).Action)
}

func TestCallBot(t *testing.T) {
	t.Parallel()

	b := NewCallBot(quietLogger())
	ctx := context.Background()

	tests := []struct {
		name  string
		state game.Snapshot
		legal []game.LegalAction
		want  game.Action
	}{
		{"checks when free", state(game.PhaseFlop, "7c2d", 1000, 0), unopened, game.Check},
		{"calls a bet", state(game.PhaseTurn, "7c2d", 1000, 30), facingBet, game.Call},
		{"calls a shove", state(game.PhaseRiver, "7c2d", 1000, 2000), facingShove, game.Call},
		{"shoves short", state(game.PhasePreflop, "7c2d", 80, 10), facingBet, game.AllIn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, b.Decide(ctx, tt.state, tt.legal).Action)
		})
	}
}

func TestChartBot(t *testing.T) {
	t.Parallel()

	b := NewChartBot(quietLogger())
	ctx := context.Background()

	tests := []struct {
		name       string
		state      game.Snapshot
		legal      []game.LegalAction
		want       game.Action
		wantAmount int
	}{
		{"raises premium deep", state(game.PhasePreflop, "AsAh", 1000, 30), facingBet, game.Raise, 60},
		{"pushes premium short", state(game.PhasePreflop, "KsKh", 150, 30), facingBet, game.AllIn, 1000},
		{"calls medium", state(game.PhasePreflop, "8s8h", 1000, 30), facingBet, game.Call, 30},
		{"folds trash", state(game.PhasePreflop, "7c2d", 1000, 30), facingBet, game.Fold, 0},
		{"checks trash when free", state(game.PhasePreflop, "7c2d", 1000, 0), unopened, game.Check, 0},
		{"calls postflop", state(game.PhaseFlop, "7c2d", 1000, 30), facingBet, game.Call, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := b.Decide(ctx, tt.state, tt.legal)
			assert.Equal(t, tt.want, d.Action)
			assert.Equal(t, tt.wantAmount, d.Amount)
			assert.NotEmpty(t, d.Reasoning)
		})
	}
}

func TestRandBotStaysInRange(t *testing.T) {
	t.Parallel()

	b := NewRandBot(randutil.New(7), quietLogger())
	for range 200 {
		d := b.Decide(context.Background(), state(game.PhaseFlop, "7c2d", 1000, 30), facingBet)
		la, ok := game.FindLegal(facingBet, d.Action)
		require.True(t, ok)
		assert.GreaterOrEqual(t, d.Amount, la.Min)
		assert.LessOrEqual(t, d.Amount, la.Max)
	}
}

// Every strategy only proposes actions the engine accepts, and chips are conserved
func TestStrategiesPlayLegalHands(t *testing.T) {
	t.Parallel()

	for _, name := range Strategies {
		t.Run(name, func(t *testing.T) {
			rejected := 0
			logger := quietLogger()

			e, err := game.New(game.Config{SmallBlind: 5, BigBlind: 10},
				game.WithLogger(logger),
				game.WithRandSource(randutil.New(11)))
			require.NoError(t, err)

			rng := randutil.New(99)
			for i := range 4 {
				id := fmt.Sprintf("p%d", i)
				require.NoError(t, e.AddPlayer(id, id, 500))

				agent, err := New(name, rng, logger)
				require.NoError(t, err)
				// Mix in a caller so hands reach later streets
				if i == 0 {
					agent = NewCallBot(logger)
				}
				require.NoError(t, e.SetAgent(id, game.AgentFunc(func(ctx context.Context, s game.Snapshot, legal []game.LegalAction) game.Decision {
					d := agent.Decide(ctx, s, legal)
					if !legalDecision(d, legal) {
						rejected++
					}
					return d
				})))
			}

			for range 20 {
				if _, err := e.PlayHand(context.Background()); err != nil {
					require.ErrorIs(t, err, game.ErrNotEnoughPlayers)
					break
				}
				require.Equal(t, 2000, e.TotalChips())
			}
			assert.Zero(t, rejected)
		})
	}
}

func legalDecision(d game.Decision, legal []game.LegalAction) bool {
	la, ok := game.FindLegal(legal, d.Action)
	if !ok {
		return false
	}
	switch d.Action {
	case game.Bet, game.Raise:
		return d.Amount >= la.Min && d.Amount <= la.Max
	}
	return true
}
