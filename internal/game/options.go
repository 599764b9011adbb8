package game

import (
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-referee/poker"
)

// Config holds the fixed parameters of a table
type Config struct {
	SmallBlind int
	BigBlind   int
	MaxSeats   int // Defaults to DefaultMaxSeats
}

// DefaultMaxSeats is used when Config.MaxSeats is zero
const DefaultMaxSeats = 10

// Validate checks blinds and seat count
func (c Config) Validate() error {
	switch {
	case c.SmallBlind <= 0:
		return misconfigured(ErrInvalidConfig, "small blind must be positive, got %d", c.SmallBlind)
	case c.BigBlind < c.SmallBlind:
		return misconfigured(ErrInvalidConfig, "big blind %d is smaller than small blind %d", c.BigBlind, c.SmallBlind)
	case c.MaxSeats != 0 && c.MaxSeats < 2:
		return misconfigured(ErrInvalidConfig, "need at least 2 seats, got %d", c.MaxSeats)
	}
	return nil
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock sets the clock used for action timestamps and timers
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) {
		if clock != nil {
			e.clock = clock
		}
	}
}

// WithRandSource sets the shuffle source. The default is crypto-backed.
func WithRandSource(src poker.Source) Option {
	return func(e *Engine) {
		if src != nil {
			e.rng = src
		}
	}
}

// WithRestartDelay starts the next hand automatically after d once a hand
// completes with at least two funded players. Zero leaves it to the caller.
func WithRestartDelay(d time.Duration) Option {
	return func(e *Engine) {
		e.restart.delay = d
	}
}

// WithDecisionTimeout bounds how long RunAgents waits for an agent. A timed out
// agent checks if it can and folds otherwise. Zero waits indefinitely.
func WithDecisionTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.decisionTimeout = d
	}
}

// WithObserver registers an observer at construction
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observers = append(e.observers, o)
		}
	}
}
