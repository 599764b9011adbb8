package game

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/google/uuid"
	"github.com/lox/holdem-referee/internal/randutil"
	"github.com/lox/holdem-referee/poker"
)

// ActionResult is the outcome of a player action. Rejected actions leave the
// table unchanged and carry the reason in Err.
type ActionResult struct {
	PlayerID string
	Action   Action
	Amount   int // Chips moved into the pot
	Err      error
}

// OK reports whether the action was applied
func (r ActionResult) OK() bool {
	return r.Err == nil
}

// Engine referees a single table. All methods are safe for concurrent use;
// every mutation happens under one lock.
type Engine struct {
	mu sync.Mutex

	cfg     Config
	table   *TableState
	betting *BettingEngine
	deck    *poker.Deck
	rng     poker.Source
	logger  *log.Logger
	clock   quartz.Clock

	observers       []Observer
	agents          map[string]Agent
	decisionTimeout time.Duration
	restart         restartSchedule
	closed          bool

	pending   []func(Observer) // notifications queued under the lock
	chipTotal int              // chips brought to the table
}

// New creates an engine for an empty table
func New(cfg Config, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.MaxSeats == 0 {
		cfg.MaxSeats = DefaultMaxSeats
	}

	e := &Engine{
		cfg:    cfg,
		logger: log.New(io.Discard),
		clock:  quartz.NewReal(),
		agents: make(map[string]Agent),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.rng == nil {
		e.rng = randutil.NewSecure()
	}

	e.table = newTableState(cfg.SmallBlind, cfg.BigBlind)
	e.betting = NewBettingEngine(e.table, e.clock)
	e.deck = poker.NewDeck(e.rng)

	return e, nil
}

// unlock releases the lock and then delivers queued notifications
func (e *Engine) unlock() {
	pending := e.pending
	e.pending = nil
	observers := slices.Clone(e.observers)
	e.mu.Unlock()

	for _, fn := range pending {
		for _, o := range observers {
			e.dispatch(o, fn)
		}
	}
}

func (e *Engine) dispatch(o Observer, fn func(Observer)) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("Observer panicked", "panic", r)
		}
	}()
	fn(o)
}

func (e *Engine) notify(fn func(Observer)) {
	if len(e.observers) > 0 {
		e.pending = append(e.pending, fn)
	}
}

func (e *Engine) notifyState() {
	if len(e.observers) == 0 {
		return
	}
	snap := e.table.snapshot("", false)
	e.notify(func(o Observer) { o.OnStateChange(snap) })
}

func (e *Engine) setPhase(p Phase) {
	if e.table.Phase == p {
		return
	}
	e.table.Phase = p
	e.logger.Debug("Phase change", "phase", p, "hand", e.table.HandNumber)
	e.notify(func(o Observer) { o.OnPhaseChange(p) })
}

// AddObserver registers an observer for subsequent transitions
func (e *Engine) AddObserver(o Observer) {
	e.mu.Lock()
	defer e.unlock()
	e.observers = append(e.observers, o)
}

// AddPlayer seats a player in the next free seat. Players can only join between hands.
func (e *Engine) AddPlayer(id, name string, chips int) error {
	e.mu.Lock()
	defer e.unlock()

	switch {
	case e.closed:
		return ErrEngineClosed
	case e.table.Phase != PhaseWaiting:
		return ErrHandInProgress
	case len(e.table.Players) >= e.cfg.MaxSeats:
		return fmt.Errorf("seat %s: %w", id, ErrTableFull)
	case chips <= 0:
		return misconfigured(ErrInvalidConfig, "player %s needs chips, got %d", id, chips)
	}
	if p, _ := e.table.PlayerByID(id); p != nil {
		return fmt.Errorf("seat %s: %w", id, ErrDuplicatePlayer)
	}
	if name == "" {
		name = id
	}

	p := NewPlayer(id, name, chips)
	p.Seat = len(e.table.Players)
	e.table.Players = append(e.table.Players, p)
	e.chipTotal += chips

	e.logger.Debug("Player seated", "player", id, "seat", p.Seat, "chips", chips)
	e.notifyState()
	return nil
}

// SitOut excludes a player from upcoming hands. A hand in progress is not affected.
func (e *Engine) SitOut(id string) error {
	return e.setSittingOut(id, true)
}

// SitIn returns a player to upcoming hands
func (e *Engine) SitIn(id string) error {
	return e.setSittingOut(id, false)
}

func (e *Engine) setSittingOut(id string, out bool) error {
	e.mu.Lock()
	defer e.unlock()

	p, _ := e.table.PlayerByID(id)
	if p == nil {
		return fmt.Errorf("%s: %w", id, ErrUnknownPlayer)
	}
	p.sittingOut = out
	if !p.Active {
		if out || p.Chips == 0 {
			p.Status = StatusSittingOut
		} else {
			p.Status = StatusWaiting
		}
	}
	e.logger.Debug("Sitting out changed", "player", id, "sitting_out", out)
	e.notifyState()
	return nil
}

// SetAgent attaches a decision strategy to a seat for RunAgents
func (e *Engine) SetAgent(id string, agent Agent) error {
	e.mu.Lock()
	defer e.unlock()

	if p, _ := e.table.PlayerByID(id); p == nil {
		return fmt.Errorf("%s: %w", id, ErrUnknownPlayer)
	}
	if agent == nil {
		delete(e.agents, id)
	} else {
		e.agents[id] = agent
	}
	return nil
}

// StartNewHand deals the next hand. Configuration problems such as too few
// funded players are returned as *ConfigurationError.
func (e *Engine) StartNewHand() error {
	e.mu.Lock()
	defer e.unlock()

	if e.closed {
		return ErrEngineClosed
	}
	if e.table.Phase != PhaseWaiting {
		return ErrHandInProgress
	}
	e.cancelRestartLocked()
	return e.startHandLocked()
}

func (e *Engine) startHandLocked() error {
	t := e.table

	funded := t.fundedCount()
	if funded < 2 {
		return misconfigured(ErrNotEnoughPlayers, "%d of %d seats can play", funded, len(t.Players))
	}

	e.deck.Reset()
	if need := 2*funded + 5; need > e.deck.Remaining() {
		return misconfigured(ErrDeckExhausted, "%d players need %d cards, deck has %d", funded, need, e.deck.Remaining())
	}

	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("hand id: %w", err)
	}

	for _, p := range t.Players {
		p.resetForHand()
	}
	t.HandNumber++
	t.HandID = id.String()
	t.CommunityCards = nil
	t.Winners = nil
	t.ActionLog = nil
	t.Pot = Pot{}
	t.CurrentBet = 0
	t.MinimumRaise = t.BigBlind
	t.raiseOccurred = false
	t.fullRaises = 0

	active := func(p *Player) bool { return p.Active }
	t.DealerPosition = t.nextSeat(t.DealerPosition, active)
	if funded == 2 {
		// Heads-up: the dealer posts the small blind and acts first preflop
		t.SmallBlindPosition = t.DealerPosition
	} else {
		t.SmallBlindPosition = t.nextSeat(t.DealerPosition, active)
	}
	t.BigBlindPosition = t.nextSeat(t.SmallBlindPosition, active)

	e.setPhase(PhasePreflop)

	e.betting.PostBlind(t.Players[t.SmallBlindPosition], PostSmallBlind, t.SmallBlind)
	e.betting.PostBlind(t.Players[t.BigBlindPosition], PostBigBlind, t.BigBlind)
	// A short big blind still sets the price to call
	t.CurrentBet = t.BigBlind

	// Two passes starting left of the dealer, one card each
	for range 2 {
		for i := 1; i <= len(t.Players); i++ {
			p := t.Players[(t.DealerPosition+i)%len(t.Players)]
			if !p.Active {
				continue
			}
			c, err := e.deck.DealOne()
			if err != nil {
				return misconfigured(ErrDeckExhausted, "dealing hole cards: %v", err)
			}
			p.HoleCards = append(p.HoleCards, c)
		}
	}

	e.logger.Debug("Hand started",
		"hand", t.HandNumber,
		"id", t.HandID,
		"dealer", t.Players[t.DealerPosition].ID,
		"players", funded)

	err = e.checkAndAdvanceGame(t.BigBlindPosition)
	e.notifyState()
	return err
}

// ExecutePlayerAction applies an action for the player due to act. Bet and
// Raise amounts are the player's total for the round; other actions ignore it.
func (e *Engine) ExecutePlayerAction(playerID string, action Action, amount int) ActionResult {
	e.mu.Lock()
	defer e.unlock()

	res := ActionResult{PlayerID: playerID, Action: action}
	t := e.table

	switch {
	case e.closed:
		res.Err = ErrEngineClosed
		return res
	case t.Phase == PhaseWaiting || t.Phase == PhaseShowdown:
		res.Err = ErrNoHandInProgress
		return res
	}

	p, idx := t.PlayerByID(playerID)
	if p == nil {
		res.Err = fmt.Errorf("%s: %w", playerID, ErrUnknownPlayer)
		return res
	}
	if idx != t.CurrentPlayerIndex {
		expected := ""
		if cur := t.CurrentPlayer(); cur != nil {
			expected = cur.ID
		}
		res.Err = &TurnOrderError{PlayerID: playerID, Expected: expected}
		e.logger.Warn("Action out of turn", "player", playerID, "expected", expected)
		return res
	}
	if !p.CanAct() {
		res.Err = fmt.Errorf("%s: %w", playerID, ErrPlayerCannotAct)
		return res
	}

	moved, err := e.betting.Execute(p, action, amount)
	if err != nil {
		res.Err = err
		e.logger.Warn("Action rejected", "player", playerID, "action", action, "amount", amount, "error", err)
		return res
	}
	res.Amount = moved

	e.logger.Debug("Action", "player", playerID, "action", action, "chips", moved, "pot", t.Pot.Total())
	ps := snapshotPlayer(p, false)
	e.notify(func(o Observer) { o.OnPlayerAction(ps, action, moved) })

	if err := e.verifyChips("after " + action.String()); err != nil {
		res.Err = err
		return res
	}

	res.Err = e.checkAndAdvanceGame(idx)
	e.notifyState()
	return res
}

// checkAndAdvanceGame moves the hand forward after a change: awarding the pot
// when one player remains, dealing the next street when the round is done, or
// passing the action to the next seat.
func (e *Engine) checkAndAdvanceGame(from int) error {
	t := e.table
	for {
		if inHand := t.InHand(); len(inHand) == 1 {
			t.CurrentPlayerIndex = -1
			return e.awardByDefault(inHand[0])
		}

		if !e.betting.IsRoundComplete() {
			t.CurrentPlayerIndex = t.nextActor(from)
			return nil
		}

		if t.Phase == PhaseRiver {
			return e.handleShowdown()
		}
		if err := e.advancePhase(); err != nil {
			return err
		}
		from = t.DealerPosition
	}
}

// advancePhase deals the next street and resets per-round betting
func (e *Engine) advancePhase() error {
	t := e.table

	var (
		next  Phase
		count int
	)
	switch t.Phase {
	case PhasePreflop:
		next, count = PhaseFlop, 3
	case PhaseFlop:
		next, count = PhaseTurn, 1
	case PhaseTurn:
		next, count = PhaseRiver, 1
	default:
		return fmt.Errorf("cannot advance from %s", t.Phase)
	}

	cards, err := e.deck.Deal(count)
	if err != nil {
		return misconfigured(ErrDeckExhausted, "dealing %s: %v", next, err)
	}
	t.CommunityCards = append(t.CommunityCards, cards...)

	for _, p := range t.Players {
		if p.Active {
			p.resetForRound()
		}
	}
	t.CurrentBet = 0
	t.MinimumRaise = t.BigBlind
	t.raiseOccurred = false
	t.fullRaises = 0
	t.CurrentPlayerIndex = -1

	e.setPhase(next)
	e.logger.Debug("Dealt", "phase", next, "board", poker.FormatCards(t.CommunityCards))
	return nil
}

// RunAgents asks seat agents for decisions until the hand completes or the
// action reaches a seat without an agent
func (e *Engine) RunAgents(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		e.mu.Lock()
		if e.closed {
			e.unlock()
			return ErrEngineClosed
		}
		p := e.table.CurrentPlayer()
		if p == nil || e.table.Phase == PhaseWaiting {
			e.unlock()
			return nil
		}
		agent := e.agents[p.ID]
		if agent == nil {
			e.unlock()
			return nil
		}
		id := p.ID
		snap := e.table.snapshot(id, false)
		legal := e.betting.LegalActions(p)
		e.unlock()

		d, err := e.decide(ctx, agent, snap, legal)
		if err != nil {
			return err
		}

		res := e.ExecutePlayerAction(id, d.Action, d.Amount)
		var violation *InvariantViolation
		switch {
		case res.OK():
			continue
		case errors.As(res.Err, &violation):
			return res.Err
		case errors.Is(res.Err, ErrNotPlayersTurn), errors.Is(res.Err, ErrNoHandInProgress):
			// Another caller moved the hand on
			continue
		}

		fb := fallbackDecision(legal, "illegal decision: "+res.Err.Error())
		e.logger.Warn("Agent decision rejected, using fallback", "player", id, "action", d.Action, "fallback", fb.Action)
		if res := e.ExecutePlayerAction(id, fb.Action, fb.Amount); !res.OK() {
			return fmt.Errorf("fallback for %s: %w", id, res.Err)
		}
	}
}

// PlayHand starts a hand and drives it to completion with the seat agents.
// Every player dealt in must have an agent.
func (e *Engine) PlayHand(ctx context.Context) ([]WinnerReport, error) {
	if err := e.StartNewHand(); err != nil {
		return nil, err
	}
	if err := e.RunAgents(ctx); err != nil {
		return nil, err
	}

	e.mu.Lock()
	defer e.unlock()
	if e.table.Phase != PhaseWaiting {
		cur := e.table.CurrentPlayer()
		if cur != nil {
			return nil, fmt.Errorf("hand %d stalled waiting on %s without an agent", e.table.HandNumber, cur.ID)
		}
		return nil, fmt.Errorf("hand %d stalled in %s", e.table.HandNumber, e.table.Phase)
	}
	return cloneReports(e.table.Winners), nil
}

// decide asks the agent, falling back when the decision timeout fires
func (e *Engine) decide(ctx context.Context, agent Agent, snap Snapshot, legal []LegalAction) (Decision, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	result := make(chan Decision, 1)
	go func() {
		result <- agent.Decide(ctx, snap, legal)
	}()

	var timeout <-chan struct{}
	if e.decisionTimeout > 0 {
		fired := make(chan struct{})
		timer := e.clock.AfterFunc(e.decisionTimeout, func() {
			close(fired)
		}, "engine", "decision")
		defer timer.Stop()
		timeout = fired
	}

	select {
	case d := <-result:
		return d, nil
	case <-timeout:
		e.logger.Warn("Agent decision timed out", "timeout", e.decisionTimeout)
		return fallbackDecision(legal, "decision timeout"), nil
	case <-ctx.Done():
		return Decision{}, ctx.Err()
	}
}

// Snapshot returns the full table state including every player's hole cards
func (e *Engine) Snapshot() Snapshot {
	e.mu.Lock()
	defer e.unlock()
	return e.table.snapshot("", true)
}

// SnapshotFor returns the table as seen by one player: other hole cards stay
// hidden until showdown
func (e *Engine) SnapshotFor(playerID string) Snapshot {
	e.mu.Lock()
	defer e.unlock()
	return e.table.snapshot(playerID, false)
}

// ActionLog returns the current or most recent hand's actions in order
func (e *Engine) ActionLog() []ActionLogEntry {
	e.mu.Lock()
	defer e.unlock()
	return slices.Clone(e.table.ActionLog)
}

// LegalActions lists what the player may do. Empty unless it is their turn.
func (e *Engine) LegalActions(playerID string) []LegalAction {
	e.mu.Lock()
	defer e.unlock()

	p, idx := e.table.PlayerByID(playerID)
	if p == nil || idx != e.table.CurrentPlayerIndex {
		return nil
	}
	return e.betting.LegalActions(p)
}

// PotOdds returns the price of calling as a percentage, see BettingEngine.CalculatePotOdds
func (e *Engine) PotOdds(playerID string) (float64, error) {
	e.mu.Lock()
	defer e.unlock()

	p, _ := e.table.PlayerByID(playerID)
	if p == nil {
		return 0, fmt.Errorf("%s: %w", playerID, ErrUnknownPlayer)
	}
	return e.betting.CalculatePotOdds(p), nil
}

// IsRoundComplete reports whether the current betting round is closed
func (e *Engine) IsRoundComplete() bool {
	e.mu.Lock()
	defer e.unlock()
	return e.betting.IsRoundComplete()
}

// TotalChips returns every stack plus the pot
func (e *Engine) TotalChips() int {
	e.mu.Lock()
	defer e.unlock()
	return e.table.TotalChips()
}

// Close tears the table down. A pending restart is cancelled and will not fire.
func (e *Engine) Close() {
	e.mu.Lock()
	defer e.unlock()
	if e.closed {
		return
	}
	e.cancelRestartLocked()
	e.closed = true
	e.logger.Debug("Engine closed", "hands", e.table.HandNumber)
}
