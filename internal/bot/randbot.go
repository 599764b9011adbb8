package bot

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-referee/internal/game"
)

// RandBot is a simple bot that makes uniform random legal actions
type RandBot struct {
	rng    Random
	logger *log.Logger
}

// NewRandBot creates a new RandBot instance
func NewRandBot(rng Random, logger *log.Logger) *RandBot {
	return &RandBot{rng: rng, logger: logger}
}

func (r *RandBot) Decide(_ context.Context, _ game.Snapshot, legal []game.LegalAction) game.Decision {
	if len(legal) == 0 {
		return game.Decision{Action: game.Fold, Reasoning: "rand-bot no legal actions"}
	}

	choice := legal[r.rng.IntN(len(legal))]

	// For bets and raises, pick a random amount between min and max
	amount := choice.Min
	if choice.Max > choice.Min {
		amount = choice.Min + r.rng.IntN(choice.Max-choice.Min+1)
	}

	return game.Decision{Action: choice.Action, Amount: amount, Reasoning: "rand-bot random action"}
}
