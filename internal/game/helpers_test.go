package game

import (
	"fmt"
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/lox/holdem-referee/internal/randutil"
	"github.com/stretchr/testify/require"
)

func quietLogger() *log.Logger {
	return log.NewWithOptions(io.Discard, log.Options{Level: log.ErrorLevel})
}

// newTestEngine seats players p0..pN with the given stacks at 5/10 blinds
func newTestEngine(t *testing.T, chips []int, opts ...Option) *Engine {
	t.Helper()

	opts = append([]Option{
		WithLogger(quietLogger()),
		WithRandSource(randutil.New(42)),
	}, opts...)

	e, err := New(Config{SmallBlind: 5, BigBlind: 10, MaxSeats: max(len(chips), 2)}, opts...)
	require.NoError(t, err)

	for i, c := range chips {
		require.NoError(t, e.AddPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i), c))
	}
	return e
}

// currentID returns the player due to act
func currentID(t *testing.T, e *Engine) string {
	t.Helper()
	p, ok := e.Snapshot().CurrentPlayer()
	require.True(t, ok, "nobody is due to act")
	return p.ID
}

// act applies an action for whoever is due to act and requires success
func act(t *testing.T, e *Engine, action Action, amount int) ActionResult {
	t.Helper()
	res := e.ExecutePlayerAction(currentID(t, e), action, amount)
	require.NoError(t, res.Err)
	return res
}

// checkOrCall checks when possible, otherwise calls
func checkOrCall(t *testing.T, e *Engine) {
	t.Helper()
	id := currentID(t, e)
	if _, ok := FindLegal(e.LegalActions(id), Check); ok {
		act(t, e, Check, 0)
		return
	}
	act(t, e, Call, 0)
}

// testTable builds an in-hand table with active players on the given phase
func testTable(phase Phase, stacks ...int) (*TableState, *BettingEngine) {
	t := newTableState(5, 10)
	t.Phase = phase
	for i, chips := range stacks {
		p := NewPlayer(fmt.Sprintf("p%d", i), fmt.Sprintf("Player %d", i), chips)
		p.Seat = i
		p.Active = true
		p.Status = StatusActive
		t.Players = append(t.Players, p)
	}
	return t, NewBettingEngine(t, nil)
}

func actionPtr(a Action) *Action { return &a }
