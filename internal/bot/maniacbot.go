package bot

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-referee/internal/game"
)

// ManiacBot is an extremely aggressive bot that shoves frequently
type ManiacBot struct {
	rng    Random
	logger *log.Logger
}

// NewManiacBot creates a new ManiacBot instance
func NewManiacBot(rng Random, logger *log.Logger) *ManiacBot {
	return &ManiacBot{rng: rng, logger: logger}
}

func (m *ManiacBot) Decide(_ context.Context, state game.Snapshot, legal []game.LegalAction) game.Decision {
	me, _ := state.CurrentPlayer()
	shortStack := me.Chips <= 20*state.Blinds.Big

	if hasAction(game.Check, legal) {
		// We can check - but maniacs prefer to bet
		if m.rng.Float64() < 0.85 {
			if (shortStack || m.rng.Float64() < 0.3) && hasAction(game.AllIn, legal) {
				return findAction(game.AllIn, legal, "maniac shove")
			}
			if d, ok := aggressive(legal, func(la game.LegalAction) int {
				return la.Min + (la.Max-la.Min)*3/4
			}, "maniac big bet"); ok {
				return d
			}
		}
		return findAction(game.Check, legal, "maniac checking")
	}

	// Facing a bet
	r := m.rng.Float64()
	if r < 0.4 {
		if hasAction(game.AllIn, legal) {
			return findAction(game.AllIn, legal, "maniac shove over bet")
		}
		if d, ok := aggressive(legal, func(la game.LegalAction) int { return la.Max }, "maniac max raise over bet"); ok {
			return d
		}
	}
	if r < 0.8 && hasAction(game.Call, legal) {
		return findAction(game.Call, legal, "maniac call")
	}
	return findAction(game.Fold, legal, "maniac fold")
}
