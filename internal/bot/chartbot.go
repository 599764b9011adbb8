package bot

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-referee/internal/game"
	"github.com/lox/holdem-referee/poker"
)

// ChartBot implements a simple push-fold pre-flop chart and check/call post-flop
type ChartBot struct {
	logger *log.Logger
}

// NewChartBot creates a new ChartBot instance
func NewChartBot(logger *log.Logger) *ChartBot {
	return &ChartBot{logger: logger}
}

func (c *ChartBot) Decide(_ context.Context, state game.Snapshot, legal []game.LegalAction) game.Decision {
	if state.Phase != game.PhasePreflop {
		return checkOrCall(legal, "chart-bot")
	}

	category := holeCategory(state)
	me, _ := state.CurrentPlayer()

	switch category {
	case poker.CategoryPremium, poker.CategoryStrong:
		// Push when 20 big blinds or shorter, otherwise open for three
		if me.Chips <= 20*state.Blinds.Big && hasAction(game.AllIn, legal) {
			return findAction(game.AllIn, legal, "chart-bot push "+string(category))
		}
		if d, ok := aggressive(legal, func(la game.LegalAction) int {
			return min(max(la.Min, 3*state.Blinds.Big), la.Max)
		}, "chart-bot raise "+string(category)); ok {
			return d
		}
		return checkOrCall(legal, "chart-bot")

	case poker.CategoryMedium:
		// Limp or call a single raise
		if hasAction(game.Check, legal) {
			return findAction(game.Check, legal, "chart-bot checking")
		}
		if call, ok := game.FindLegal(legal, game.Call); ok && call.Min <= 3*state.Blinds.Big {
			return game.Decision{Action: game.Call, Amount: call.Min, Reasoning: "chart-bot calling medium hand"}
		}
	}

	if hasAction(game.Check, legal) {
		return findAction(game.Check, legal, "chart-bot checking")
	}
	return findAction(game.Fold, legal, "chart-bot folding "+string(category))
}
