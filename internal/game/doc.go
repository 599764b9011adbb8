// Package game referees a single Texas Hold'em table.
//
// The Engine owns the table state and sequences each hand: button movement,
// blinds, hole cards, four betting rounds, side pots and showdown. Callers
// drive it one action at a time:
//
//	e, _ := game.New(game.Config{SmallBlind: 5, BigBlind: 10},
//	    game.WithRandSource(randutil.New(42)))
//	e.AddPlayer("alice", "Alice", 1000)
//	e.AddPlayer("bob", "Bob", 1000)
//	e.StartNewHand()
//	res := e.ExecutePlayerAction("alice", game.Call, 0)
//	if !res.OK() {
//	    // res.Err explains why; the table is unchanged
//	}
//
// # Betting
//
// Bet and Raise amounts are raise-to totals for the current round. A raise
// must be at least the previous full raise unless it puts the player all-in.
// An all-in for less than a full raise does not reopen betting for players
// who have already acted on the last full bet.
//
// # Agents and observers
//
// Seats can be given an Agent and played automatically with RunAgents or
// PlayHand. Observers are notified after each transition with the lock
// released, and a panicking observer never affects table state.
//
// # Restarts
//
// WithRestartDelay schedules the next hand on the engine's quartz.Clock once
// a hand completes. The condition is re-checked when the timer fires, and
// Close cancels it.
package game
