package game

// Observer receives notifications after each committed transition. Callbacks
// run synchronously on the goroutine that caused the transition, after the
// engine lock is released, so they may call back into the engine.
type Observer interface {
	OnStateChange(Snapshot)
	OnPhaseChange(Phase)
	OnPlayerAction(player PlayerSnapshot, action Action, amount int)
	OnShowdown(winners []WinnerReport)
	OnHandComplete(winners []WinnerReport)
}

// NopObserver ignores every notification. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) OnStateChange(Snapshot)                     {}
func (NopObserver) OnPhaseChange(Phase)                        {}
func (NopObserver) OnPlayerAction(PlayerSnapshot, Action, int) {}
func (NopObserver) OnShowdown([]WinnerReport)                  {}
func (NopObserver) OnHandComplete([]WinnerReport)              {}

// ObserverFuncs adapts optional functions to the Observer interface
type ObserverFuncs struct {
	StateChange  func(Snapshot)
	PhaseChange  func(Phase)
	PlayerAction func(PlayerSnapshot, Action, int)
	Showdown     func([]WinnerReport)
	HandComplete func([]WinnerReport)
}

func (f ObserverFuncs) OnStateChange(s Snapshot) {
	if f.StateChange != nil {
		f.StateChange(s)
	}
}

func (f ObserverFuncs) OnPhaseChange(p Phase) {
	if f.PhaseChange != nil {
		f.PhaseChange(p)
	}
}

func (f ObserverFuncs) OnPlayerAction(p PlayerSnapshot, a Action, amount int) {
	if f.PlayerAction != nil {
		f.PlayerAction(p, a, amount)
	}
}

func (f ObserverFuncs) OnShowdown(w []WinnerReport) {
	if f.Showdown != nil {
		f.Showdown(w)
	}
}

func (f ObserverFuncs) OnHandComplete(w []WinnerReport) {
	if f.HandComplete != nil {
		f.HandComplete(w)
	}
}
