package game

import (
	"errors"
	"fmt"
)

var (
	// ErrNotEnoughPlayers is returned when fewer than two seated players have chips
	ErrNotEnoughPlayers = errors.New("not enough players with chips")
	// ErrDeckExhausted is returned when the deck cannot cover hole and community cards
	ErrDeckExhausted = errors.New("deck exhausted")
	// ErrNotPlayersTurn is returned when a player acts out of turn
	ErrNotPlayersTurn = errors.New("not player's turn")
	// ErrPlayerCannotAct is returned when the seat to act has folded, is all-in or busted
	ErrPlayerCannotAct = errors.New("player cannot act")
	// ErrInsufficientChips is returned when a bet exceeds the player's stack
	ErrInsufficientChips = errors.New("insufficient chips")
	// ErrUnknownPlayer is returned for player IDs not seated at the table
	ErrUnknownPlayer = errors.New("unknown player")
	// ErrNoHandInProgress is returned for actions between hands
	ErrNoHandInProgress = errors.New("no hand in progress")
	// ErrHandInProgress is returned when starting a hand while one is running
	ErrHandInProgress = errors.New("hand already in progress")
	// ErrTableFull is returned when every seat is taken
	ErrTableFull = errors.New("table is full")
	// ErrDuplicatePlayer is returned when a player ID is already seated
	ErrDuplicatePlayer = errors.New("player already seated")
	// ErrEngineClosed is returned after Close
	ErrEngineClosed = errors.New("engine closed")
	// ErrInvalidConfig is returned for unusable blinds or seat counts
	ErrInvalidConfig = errors.New("invalid table config")
)

// ValidationError describes an illegal action or amount
type ValidationError struct {
	Action Action
	Amount int
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Amount != 0 {
		return fmt.Sprintf("invalid %s %d: %s", e.Action, e.Amount, e.Reason)
	}
	return fmt.Sprintf("invalid %s: %s", e.Action, e.Reason)
}

func invalid(action Action, amount int, format string, args ...any) error {
	return &ValidationError{Action: action, Amount: amount, Reason: fmt.Sprintf(format, args...)}
}

// TurnOrderError is returned when a player acts while another seat holds the action
type TurnOrderError struct {
	PlayerID string
	Expected string // empty when nobody is due to act
}

func (e *TurnOrderError) Error() string {
	if e.Expected == "" {
		return fmt.Sprintf("%s: no player is due to act", e.PlayerID)
	}
	return fmt.Sprintf("%s acted but action is on %s", e.PlayerID, e.Expected)
}

func (e *TurnOrderError) Unwrap() error { return ErrNotPlayersTurn }

// ConfigurationError signals engine misuse by the caller, such as starting a hand
// with too few funded players. It is distinct from in-hand action errors.
type ConfigurationError struct {
	Err    error
	Detail string
}

func (e *ConfigurationError) Error() string {
	if e.Detail == "" {
		return "configuration error: " + e.Err.Error()
	}
	return fmt.Sprintf("configuration error: %s: %v", e.Detail, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

func misconfigured(err error, format string, args ...any) error {
	return &ConfigurationError{Err: err, Detail: fmt.Sprintf(format, args...)}
}

// InvariantViolation reports a chip accounting mismatch. It indicates a bug in the
// engine, never a condition caused by caller input.
type InvariantViolation struct {
	Expected int
	Actual   int
	Detail   string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("chip conservation violation (%s): expected %d total chips, found %d (difference %d)",
		e.Detail, e.Expected, e.Actual, e.Actual-e.Expected)
}
