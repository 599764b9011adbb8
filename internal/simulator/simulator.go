// Package simulator hosts bot-driven tables from a config file and collects
// per-seat results. Each table runs its own engine on its own goroutine.
package simulator

import (
	"cmp"
	"context"
	"fmt"
	"io"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-referee/internal/bot"
	"github.com/lox/holdem-referee/internal/config"
	"github.com/lox/holdem-referee/internal/game"
	"github.com/lox/holdem-referee/internal/randutil"
	"github.com/lox/holdem-referee/internal/statistics"
	"golang.org/x/sync/errgroup"
)

// Simulator runs every configured table to completion
type Simulator struct {
	cfg    *config.Config
	logger *log.Logger
	clock  quartz.Clock
}

// Option configures a Simulator
type Option func(*Simulator)

// WithLogger sets the logger; tables log under their own prefix
func WithLogger(logger *log.Logger) Option {
	return func(s *Simulator) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock sets the clock driving restarts and decision timeouts
func WithClock(clock quartz.Clock) Option {
	return func(s *Simulator) {
		if clock != nil {
			s.clock = clock
		}
	}
}

// New creates a simulator for a validated configuration
func New(cfg *config.Config, opts ...Option) (*Simulator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	s := &Simulator{
		cfg:    cfg,
		logger: log.New(io.Discard),
		clock:  quartz.NewReal(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// SeatResult is one bot's outcome at one table
type SeatResult struct {
	ID         string
	Strategy   string
	StartChips int
	EndChips   int
	Stats      *statistics.Statistics
}

// TableResult summarises one table
type TableResult struct {
	Name      string
	BigBlind  int
	Hands     int
	Showdowns int
	ChipsIn   int
	ChipsOut  int
	Stopped   string // why the table ended before the configured hand count
	Seats     []SeatResult
}

// Conserved reports whether every chip brought to the table is still there
func (t TableResult) Conserved() bool {
	return t.ChipsIn == t.ChipsOut
}

// StrategyResult merges every seat playing one strategy
type StrategyResult struct {
	Strategy string
	Seats    int
	Stats    *statistics.Statistics
}

// Result is the outcome of a simulation run
type Result struct {
	Tables  []TableResult
	Elapsed time.Duration
}

// Hands returns the total hands played across tables
func (r *Result) Hands() int {
	n := 0
	for _, t := range r.Tables {
		n += t.Hands
	}
	return n
}

// Conserved reports whether every table conserved chips
func (r *Result) Conserved() bool {
	for _, t := range r.Tables {
		if !t.Conserved() {
			return false
		}
	}
	return true
}

// ByStrategy merges seat statistics per strategy, ordered by mean result
func (r *Result) ByStrategy() []StrategyResult {
	merged := make(map[string]*StrategyResult)
	for _, t := range r.Tables {
		for _, seat := range t.Seats {
			sr, ok := merged[seat.Strategy]
			if !ok {
				sr = &StrategyResult{Strategy: seat.Strategy, Stats: &statistics.Statistics{}}
				merged[seat.Strategy] = sr
			}
			sr.Seats++
			sr.Stats.Merge(seat.Stats)
		}
	}

	out := make([]StrategyResult, 0, len(merged))
	for _, sr := range merged {
		out = append(out, *sr)
	}
	slices.SortFunc(out, func(a, b StrategyResult) int {
		if c := cmp.Compare(b.Stats.Mean(), a.Stats.Mean()); c != 0 {
			return c
		}
		return cmp.Compare(a.Strategy, b.Strategy)
	})
	return out
}

// Run plays every table concurrently. The first table error cancels the rest.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	start := s.clock.Now()
	results := make([]TableResult, len(s.cfg.Tables))

	g, ctx := errgroup.WithContext(ctx)
	for i, tc := range s.cfg.Tables {
		g.Go(func() error {
			res, err := s.runTable(ctx, i, tc)
			if err != nil {
				return fmt.Errorf("table %s: %w", tc.Name, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{Tables: results, Elapsed: s.clock.Since(start)}, nil
}

// seedFor derives a distinct seed per table and stream. Zero stays zero so
// unseeded runs use crypto randomness throughout.
func (s *Simulator) seedFor(table, stream int) int64 {
	base := s.cfg.Simulation.Seed
	if base == 0 {
		return 0
	}
	return base + int64(table)*1_000 + int64(stream)
}

func (s *Simulator) runTable(ctx context.Context, index int, tc config.TableConfig) (*TableResult, error) {
	logger := s.logger.WithPrefix(tc.Name)
	restartDelay, _ := s.cfg.RestartDelay()
	decisionTimeout, _ := s.cfg.DecisionTimeout()

	track := newTracker()
	eng, err := game.New(
		game.Config{SmallBlind: tc.SmallBlind, BigBlind: tc.BigBlind, MaxSeats: tc.MaxPlayers},
		game.WithLogger(logger),
		game.WithClock(s.clock),
		game.WithRandSource(randutil.ForSeed(s.seedFor(index, 0))),
		game.WithRestartDelay(restartDelay),
		game.WithDecisionTimeout(decisionTimeout),
		game.WithObserver(track),
	)
	if err != nil {
		return nil, err
	}
	defer eng.Close()

	res := &TableResult{Name: tc.Name, BigBlind: tc.BigBlind}
	seats := make(map[string]*SeatResult)

	for i, b := range s.cfg.BotsForTable(tc.Name) {
		chips := s.cfg.StackFor(b, &tc)
		if err := eng.AddPlayer(b.Name, b.Name, chips); err != nil {
			return nil, err
		}
		// Each seat gets its own stream; agents may outlive a timed out decision
		agent, err := bot.New(b.Strategy, randutil.ForSeed(s.seedFor(index, i+1)), logger)
		if err != nil {
			return nil, err
		}
		if err := eng.SetAgent(b.Name, agent); err != nil {
			return nil, err
		}

		res.ChipsIn += chips
		res.Seats = append(res.Seats, SeatResult{
			ID:         b.Name,
			Strategy:   b.Strategy,
			StartChips: chips,
			EndChips:   chips,
			Stats:      &statistics.Statistics{},
		})
	}
	for i := range res.Seats {
		seats[res.Seats[i].ID] = &res.Seats[i]
	}

	// Between hands with a restart delay the engine may already be dealing,
	// so funding is judged from the last closing state
	last := eng.Snapshot()
	for res.Hands < s.cfg.Simulation.Hands {
		if n := funded(last); n < 2 {
			res.Stopped = fmt.Sprintf("%d funded players left", n)
			break
		}

		if res.Hands == 0 || restartDelay == 0 {
			if err := eng.StartNewHand(); err != nil {
				return nil, err
			}
		} else if err := track.waitForHand(ctx, res.Hands); err != nil {
			return nil, err
		}

		if err := eng.RunAgents(ctx); err != nil {
			return nil, err
		}

		// With a short restart delay the agents may have played on into
		// later hands, so take everything that closed
		records := track.drain()
		if len(records) == 0 {
			return nil, fmt.Errorf("hand %d did not complete", res.Hands+1)
		}
		for _, rec := range records {
			last = rec.end
			res.Hands++
			if rec.showdown() {
				res.Showdowns++
			}
			rec.record(seats, tc.BigBlind)
		}
	}
	eng.Close()

	for _, p := range last.Players {
		res.ChipsOut += p.Chips
	}
	res.ChipsOut += last.TotalPot

	for _, seat := range res.Seats {
		if seat.Stats.Hands == 0 {
			continue
		}
		if err := seat.Stats.Validate(); err != nil {
			return nil, fmt.Errorf("seat %s: %w", seat.ID, err)
		}
	}

	logger.Info("Table finished",
		"hands", res.Hands,
		"showdowns", res.Showdowns,
		"conserved", res.Conserved())
	return res, nil
}

func funded(s game.Snapshot) int {
	n := 0
	for _, p := range s.Players {
		if p.Chips > 0 && p.Status != game.StatusSittingOut {
			n++
		}
	}
	return n
}

// handRecord is the public state after a hand
type handRecord struct {
	end game.Snapshot
}

func (h handRecord) showdown() bool {
	return len(h.end.Winners) > 0 && h.end.Winners[0].HandDescription != game.WonByDefault
}

// street is the furthest phase the hand reached, read off the board
func (h handRecord) street() game.Phase {
	if h.showdown() {
		return game.PhaseShowdown
	}
	switch len(h.end.CommunityCards) {
	case 0:
		return game.PhasePreflop
	case 3:
		return game.PhaseFlop
	case 4:
		return game.PhaseTurn
	default:
		return game.PhaseRiver
	}
}

// record adds the hand to every seat that was dealt in. Stacks only move
// during hands, so the previous closing stack is this hand's opening stack.
func (h handRecord) record(seats map[string]*SeatResult, bigBlind int) {
	bb := float64(bigBlind)
	pot := 0
	for _, w := range h.end.Winners {
		pot += w.Amount
	}

	n := len(h.end.Players)
	dealer := h.end.DealerPosition
	for i, p := range h.end.Players {
		seat := seats[p.ID]
		if seat == nil || !p.DealtIn {
			continue
		}
		net := p.Chips - seat.EndChips
		seat.EndChips = p.Chips
		seat.Stats.Add(statistics.HandResult{
			HandNumber:     h.end.HandNumber,
			NetBB:          float64(net) / bb,
			Position:       (i - dealer + n) % n,
			WentToShowdown: h.showdown(),
			PotBB:          float64(pot) / bb,
			StreetReached:  h.street(),
		})
	}
}

// tracker collects the closing state of each hand from engine notifications.
// A restart can start the next hand on the timer goroutine while the previous
// hand's notifications are still being delivered, so hands are keyed by number.
type tracker struct {
	game.NopObserver

	mu      sync.Mutex
	latest  int
	closed  map[int]bool
	done    []handRecord
	started chan int
}

func newTracker() *tracker {
	return &tracker{
		closed:  make(map[int]bool),
		started: make(chan int, 1),
	}
}

func (t *tracker) OnStateChange(s game.Snapshot) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if s.HandNumber > t.latest {
		t.latest = s.HandNumber
		// Keep only the latest start
		select {
		case <-t.started:
		default:
		}
		t.started <- s.HandNumber
	}
	if s.Phase == game.PhaseWaiting && s.HandNumber > 0 && !t.closed[s.HandNumber] {
		t.closed[s.HandNumber] = true
		t.done = append(t.done, handRecord{end: s})
	}
}

// drain returns the hands closed since the last call, oldest first
func (t *tracker) drain() []handRecord {
	t.mu.Lock()
	defer t.mu.Unlock()
	done := t.done
	t.done = nil
	slices.SortFunc(done, func(a, b handRecord) int {
		return cmp.Compare(a.end.HandNumber, b.end.HandNumber)
	})
	return done
}

// waitForHand blocks until the engine starts a hand numbered after last
func (t *tracker) waitForHand(ctx context.Context, last int) error {
	for {
		select {
		case n := <-t.started:
			if n > last {
				return nil
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
