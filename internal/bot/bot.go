// Package bot provides reference strategies that play a seat through the
// game.Agent interface. They are simple on purpose: fixtures for simulations
// and tests, not opponents.
package bot

import (
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-referee/internal/game"
	"github.com/lox/holdem-referee/poker"
)

// Random is the randomness a strategy draws from
type Random interface {
	IntN(n int) int
	Float64() float64
}

// Strategies lists the names accepted by New
var Strategies = []string{"fold", "call", "random", "chart", "tag", "maniac"}

// Known reports whether New accepts the strategy name
func Known(strategy string) bool {
	name := strings.ToLower(strategy)
	return name == "rand" || slices.Contains(Strategies, name)
}

// New builds a strategy by name
func New(strategy string, rng Random, logger *log.Logger) (game.Agent, error) {
	if logger == nil {
		logger = log.Default()
	}
	logger = logger.WithPrefix(strategy)

	switch strings.ToLower(strategy) {
	case "fold":
		return NewFoldBot(logger), nil
	case "call":
		return NewCallBot(logger), nil
	case "random", "rand":
		return NewRandBot(rng, logger), nil
	case "chart":
		return NewChartBot(logger), nil
	case "tag":
		return NewTAGBot(rng, logger), nil
	case "maniac":
		return NewManiacBot(rng, logger), nil
	default:
		return nil, fmt.Errorf("unknown strategy %q (want one of %s)", strategy, strings.Join(Strategies, ", "))
	}
}

func hasAction(action game.Action, legal []game.LegalAction) bool {
	_, ok := game.FindLegal(legal, action)
	return ok
}

// findAction returns the preferred action at its minimum amount, falling back
// to the first legal action
func findAction(preferred game.Action, legal []game.LegalAction, reasoning string) game.Decision {
	if la, ok := game.FindLegal(legal, preferred); ok {
		return game.Decision{Action: preferred, Amount: la.Min, Reasoning: reasoning}
	}
	if len(legal) > 0 {
		return game.Decision{Action: legal[0].Action, Amount: legal[0].Min, Reasoning: "fallback: " + reasoning}
	}
	return game.Decision{Action: game.Fold, Reasoning: "no legal actions"}
}

// checkOrCall is the passive default shared by several strategies
func checkOrCall(legal []game.LegalAction, name string) game.Decision {
	if hasAction(game.Check, legal) {
		return findAction(game.Check, legal, name+" checking")
	}
	if hasAction(game.Call, legal) {
		return findAction(game.Call, legal, name+" calling")
	}
	return findAction(game.Fold, legal, name+" folding")
}

// aggressive picks a bet or raise, whichever is open, at the given amount
func aggressive(legal []game.LegalAction, amount func(game.LegalAction) int, reasoning string) (game.Decision, bool) {
	for _, a := range []game.Action{game.Raise, game.Bet} {
		if la, ok := game.FindLegal(legal, a); ok {
			return game.Decision{Action: a, Amount: amount(la), Reasoning: reasoning}, true
		}
	}
	return game.Decision{}, false
}

// holeCategory categorises the acting player's hole cards
func holeCategory(state game.Snapshot) poker.HoleCardCategory {
	me, ok := state.CurrentPlayer()
	if !ok || len(me.HoleCards) != 2 {
		return poker.CategoryUnknown
	}
	return poker.CategorizeHoleCards(me.HoleCards[0], me.HoleCards[1])
}
