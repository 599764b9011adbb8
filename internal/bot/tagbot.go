package bot

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-referee/internal/game"
	"github.com/lox/holdem-referee/poker"
)

// TAGBot is a Tight Aggressive bot that plays premium hands aggressively
type TAGBot struct {
	rng    Random
	logger *log.Logger
}

// NewTAGBot creates a new TAGBot instance
func NewTAGBot(rng Random, logger *log.Logger) *TAGBot {
	return &TAGBot{rng: rng, logger: logger}
}

func (t *TAGBot) Decide(_ context.Context, state game.Snapshot, legal []game.LegalAction) game.Decision {
	if state.Phase == game.PhasePreflop && holeCategory(state) == poker.CategoryPremium {
		if d, ok := aggressive(legal, func(la game.LegalAction) int {
			return la.Min + (la.Max-la.Min)/4
		}, "TAG raise premium"); ok {
			return d
		}
	}

	// Default tight behavior - check/call, rarely raise
	if hasAction(game.Check, legal) {
		return findAction(game.Check, legal, "TAG check")
	}
	if t.rng.Float64() < 0.3 && hasAction(game.Call, legal) {
		return findAction(game.Call, legal, "TAG call")
	}
	return findAction(game.Fold, legal, "TAG fold")
}
