package game

import (
	"fmt"

	"github.com/coder/quartz"
)

// Action is a player decision or forced bet
type Action int

const (
	Fold Action = iota
	Check
	Call
	Bet
	Raise
	AllIn
	PostSmallBlind
	PostBigBlind
)

func (a Action) String() string {
	switch a {
	case Fold:
		return "fold"
	case Check:
		return "check"
	case Call:
		return "call"
	case Bet:
		return "bet"
	case Raise:
		return "raise"
	case AllIn:
		return "allin"
	case PostSmallBlind:
		return "small_blind"
	case PostBigBlind:
		return "big_blind"
	default:
		return "unknown"
	}
}

// MarshalText encodes the action by name
func (a Action) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// ParseAction converts a name produced by String back into an Action
func ParseAction(s string) (Action, error) {
	for a := Fold; a <= PostBigBlind; a++ {
		if a.String() == s {
			return a, nil
		}
	}
	switch s {
	case "all_in", "all-in":
		return AllIn, nil
	}
	return 0, fmt.Errorf("unknown action %q", s)
}

// LegalAction is an action available to the player due to act. For Bet and
// Raise, Min and Max bound the raise-to total. For Call and AllIn they are the
// chips that will be committed and the amount argument is ignored.
type LegalAction struct {
	Action Action `json:"action"`
	Min    int    `json:"min"`
	Max    int    `json:"max"`
}

// BettingEngine validates and applies betting actions against a table
type BettingEngine struct {
	table *TableState
	clock quartz.Clock
}

// NewBettingEngine creates a betting engine for the table
func NewBettingEngine(table *TableState, clock quartz.Clock) *BettingEngine {
	if clock == nil {
		clock = quartz.NewReal()
	}
	return &BettingEngine{table: table, clock: clock}
}

// CallAmount is what the player must add to match the current bet
func (b *BettingEngine) CallAmount(p *Player) int {
	return b.table.CurrentBet - p.CurrentBet
}

// reopened reports whether the player may raise. A player who has acted since
// the last full bet or raise can only call or fold when an all-in for less than
// a full raise comes back to them.
func (b *BettingEngine) reopened(p *Player) bool {
	return p.LastAction == nil || p.actedAt < b.table.fullRaises
}

// Validate checks an action against the betting rules without changing state.
// Bet and Raise amounts are the player's total bet for the round after acting.
func (b *BettingEngine) Validate(p *Player, action Action, amount int) error {
	if !p.CanAct() {
		return fmt.Errorf("%s: %w", p.ID, ErrPlayerCannotAct)
	}

	t := b.table
	call := b.CallAmount(p)

	switch action {
	case Fold:
		return nil

	case Check:
		if call > 0 {
			return invalid(action, amount, "must call %d or fold", call)
		}
		return nil

	case Call:
		if call <= 0 {
			return invalid(action, amount, "nothing to call")
		}
		return nil

	case Bet:
		if t.CurrentBet > 0 {
			return invalid(action, amount, "bet of %d already made, raise instead", t.CurrentBet)
		}
		if amount > p.Chips {
			return fmt.Errorf("bet %d with %d chips: %w", amount, p.Chips, ErrInsufficientChips)
		}
		if amount < t.BigBlind && amount != p.Chips {
			return invalid(action, amount, "minimum bet is %d", t.BigBlind)
		}
		if amount <= 0 {
			return invalid(action, amount, "bet must be positive")
		}
		return nil

	case Raise:
		if t.CurrentBet == 0 {
			return invalid(action, amount, "no bet to raise, bet instead")
		}
		if !b.reopened(p) {
			return invalid(action, amount, "betting was not reopened, call or fold")
		}
		needed := amount - p.CurrentBet
		if needed > p.Chips {
			return fmt.Errorf("raise to %d needs %d with %d chips: %w", amount, needed, p.Chips, ErrInsufficientChips)
		}
		if amount <= t.CurrentBet {
			return invalid(action, amount, "raise must exceed current bet %d", t.CurrentBet)
		}
		if amount < t.CurrentBet+t.MinimumRaise && needed != p.Chips {
			return invalid(action, amount, "minimum raise is to %d", t.CurrentBet+t.MinimumRaise)
		}
		return nil

	case AllIn:
		if p.CurrentBet+p.Chips > t.CurrentBet && t.CurrentBet > 0 && !b.reopened(p) {
			return invalid(action, amount, "betting was not reopened, call or fold")
		}
		return nil

	default:
		return invalid(action, amount, "not a player action")
	}
}

// Execute validates and applies an action, returning the chips moved into the pot
func (b *BettingEngine) Execute(p *Player, action Action, amount int) (int, error) {
	if err := b.Validate(p, action, amount); err != nil {
		return 0, err
	}

	t := b.table
	moved := 0

	switch action {
	case Fold:
		p.Fold()

	case Check:
		p.Status = StatusChecked

	case Call:
		moved = min(b.CallAmount(p), p.Chips)
		if err := p.PlaceBet(moved); err != nil {
			return 0, err
		}
		if !p.IsAllIn() {
			p.Status = StatusCalled
		}

	case Bet, Raise:
		moved = amount - p.CurrentBet
		if err := p.PlaceBet(moved); err != nil {
			return 0, err
		}
		b.raiseTo(p.CurrentBet)
		if !p.IsAllIn() {
			p.Status = StatusRaised
		}

	case AllIn:
		moved = p.Chips
		if err := p.PlaceBet(moved); err != nil {
			return 0, err
		}
		if p.CurrentBet > t.CurrentBet {
			b.raiseTo(p.CurrentBet)
		}
	}

	act := action
	p.LastAction = &act
	p.actedAt = t.fullRaises
	t.Pot.Main += moved
	b.log(p.ID, action, moved)

	return moved, nil
}

// raiseTo lifts the current bet. Only a full-size bet or raise resets the
// minimum raise and reopens betting.
func (b *BettingEngine) raiseTo(total int) {
	t := b.table
	size := total - t.CurrentBet
	if size >= t.MinimumRaise {
		t.MinimumRaise = size
		t.fullRaises++
	}
	t.CurrentBet = total
	t.raiseOccurred = true
}

// PostBlind posts a forced bet, capped at the player's stack
func (b *BettingEngine) PostBlind(p *Player, action Action, amount int) int {
	posted := min(amount, p.Chips)
	_ = p.PlaceBet(posted)
	b.table.Pot.Main += posted
	b.log(p.ID, action, posted)
	return posted
}

func (b *BettingEngine) log(playerID string, action Action, amount int) {
	t := b.table
	t.ActionLog = append(t.ActionLog, ActionLogEntry{
		PlayerID:  playerID,
		Action:    action,
		Amount:    amount,
		PotAfter:  t.Pot.Total(),
		Phase:     t.Phase,
		Timestamp: b.clock.Now(),
	})
}

// IsRoundComplete reports whether the current betting round is over
func (b *BettingEngine) IsRoundComplete() bool {
	t := b.table
	actors := t.Actors()

	switch len(actors) {
	case 0:
		return true
	case 1:
		// Nobody left to bet against
		if b.CallAmount(actors[0]) <= 0 {
			return true
		}
	}

	// Big blind option
	if t.Phase == PhasePreflop && !t.raiseOccurred && t.BigBlindPosition >= 0 {
		bb := t.Players[t.BigBlindPosition]
		if bb.CanAct() && bb.LastAction == nil {
			return false
		}
	}

	for _, p := range actors {
		if p.LastAction == nil || p.CurrentBet != t.CurrentBet {
			return false
		}
	}
	return true
}

// CalculatePotOdds returns the call amount as a percentage of the pot after calling.
// Returns 100 when there is nothing to call.
func (b *BettingEngine) CalculatePotOdds(p *Player) float64 {
	call := b.CallAmount(p)
	if call <= 0 {
		return 100
	}
	return float64(call) / float64(b.table.Pot.Total()+call) * 100
}

// LegalActions lists the actions the player may take
func (b *BettingEngine) LegalActions(p *Player) []LegalAction {
	if !p.CanAct() {
		return nil
	}

	t := b.table
	call := b.CallAmount(p)
	stack := p.CurrentBet + p.Chips // Largest raise-to total available

	actions := []LegalAction{{Action: Fold}}

	if call <= 0 {
		actions = append(actions, LegalAction{Action: Check})
	} else {
		c := min(call, p.Chips)
		actions = append(actions, LegalAction{Action: Call, Min: c, Max: c})
	}

	switch {
	case t.CurrentBet == 0:
		actions = append(actions, LegalAction{Action: Bet, Min: min(t.BigBlind, p.Chips), Max: p.Chips})
	case b.reopened(p) && stack > t.CurrentBet:
		actions = append(actions, LegalAction{Action: Raise, Min: min(t.CurrentBet+t.MinimumRaise, stack), Max: stack})
	}

	if stack <= t.CurrentBet || t.CurrentBet == 0 || b.reopened(p) {
		actions = append(actions, LegalAction{Action: AllIn, Min: p.Chips, Max: p.Chips})
	}

	return actions
}
