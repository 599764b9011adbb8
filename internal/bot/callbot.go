package bot

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-referee/internal/game"
)

// CallBot checks or calls every street, shoving a short stack into an
// unraised pot
type CallBot struct {
	logger *log.Logger
}

// NewCallBot creates a new CallBot instance
func NewCallBot(logger *log.Logger) *CallBot {
	return &CallBot{logger: logger}
}

func (c *CallBot) Decide(_ context.Context, state game.Snapshot, legal []game.LegalAction) game.Decision {
	me, ok := state.CurrentPlayer()
	if ok && state.Blinds.Big > 0 {
		// Short stack with nothing but blinds in front
		short := me.Chips < 10*state.Blinds.Big
		unraised := state.CurrentBet <= state.Blinds.Big
		if short && unraised && hasAction(game.AllIn, legal) {
			c.logger.Debug("Shoving short stack", "player", me.ID, "chips", me.Chips)
			return findAction(game.AllIn, legal, "shoving with short stack")
		}
	}

	return checkOrCall(legal, "call-bot")
}
