package bot

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-referee/internal/game"
)

// FoldBot is a simple bot that always folds (or checks when possible)
type FoldBot struct {
	logger *log.Logger
}

// NewFoldBot creates a new FoldBot instance
func NewFoldBot(logger *log.Logger) *FoldBot {
	return &FoldBot{logger: logger}
}

func (f *FoldBot) Decide(_ context.Context, _ game.Snapshot, legal []game.LegalAction) game.Decision {
	if hasAction(game.Check, legal) {
		return findAction(game.Check, legal, "fold-bot checking")
	}
	return findAction(game.Fold, legal, "fold-bot folding")
}
