package game

import (
	"time"

	"github.com/coder/quartz"
)

// restartSchedule tracks the pending inter-hand restart. A generation counter
// guards against a timer that fires after it was cancelled or replaced.
type restartSchedule struct {
	delay time.Duration
	timer *quartz.Timer
	gen   uint64
}

// scheduleRestart arms the restart timer. Caller holds e.mu.
func (e *Engine) scheduleRestart() {
	if e.restart.delay <= 0 || e.closed {
		return
	}
	e.cancelRestartLocked()

	e.restart.gen++
	gen := e.restart.gen
	e.restart.timer = e.clock.AfterFunc(e.restart.delay, func() {
		e.fireRestart(gen)
	}, "engine", "restart")

	e.logger.Debug("Next hand scheduled", "delay", e.restart.delay, "hand", e.table.HandNumber+1)
}

func (e *Engine) fireRestart(gen uint64) {
	e.mu.Lock()
	defer e.unlock()

	if e.closed || gen != e.restart.gen || e.restart.timer == nil {
		return
	}
	e.restart.timer = nil

	if e.table.Phase != PhaseWaiting {
		return
	}
	// Seats may have busted or sat out while the timer was pending
	if n := e.table.fundedCount(); n < 2 {
		e.logger.Info("Not restarting, too few funded players", "funded", n)
		return
	}
	if err := e.startHandLocked(); err != nil {
		e.logger.Error("Scheduled hand failed to start", "error", err)
	}
}

// cancelRestartLocked stops any pending restart. Caller holds e.mu.
func (e *Engine) cancelRestartLocked() bool {
	if e.restart.timer == nil {
		return false
	}
	e.restart.timer.Stop()
	e.restart.timer = nil
	e.restart.gen++
	return true
}

// CancelRestart stops a pending automatic restart. Returns false if none was pending.
func (e *Engine) CancelRestart() bool {
	e.mu.Lock()
	defer e.unlock()
	return e.cancelRestartLocked()
}

// RestartPending reports whether an automatic restart is scheduled
func (e *Engine) RestartPending() bool {
	e.mu.Lock()
	defer e.unlock()
	return e.restart.timer != nil
}
