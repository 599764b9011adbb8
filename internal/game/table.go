package game

import (
	"time"

	"github.com/lox/holdem-referee/poker"
)

// Phase is the stage of a hand
type Phase int

const (
	PhaseWaiting Phase = iota
	PhasePreflop
	PhaseFlop
	PhaseTurn
	PhaseRiver
	PhaseShowdown
)

func (p Phase) String() string {
	switch p {
	case PhaseWaiting:
		return "waiting"
	case PhasePreflop:
		return "preflop"
	case PhaseFlop:
		return "flop"
	case PhaseTurn:
		return "turn"
	case PhaseRiver:
		return "river"
	case PhaseShowdown:
		return "showdown"
	default:
		return "unknown"
	}
}

// MarshalText encodes the phase by name
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// ActionLogEntry records one chip movement or decision
type ActionLogEntry struct {
	PlayerID  string    `json:"player_id"`
	Action    Action    `json:"action"`
	Amount    int       `json:"amount"`
	PotAfter  int       `json:"pot_after"`
	Phase     Phase     `json:"phase"`
	Timestamp time.Time `json:"timestamp"`
}

// TableState is the mutable state of one table. It is owned by an Engine and
// must only be touched under the engine's lock.
type TableState struct {
	Players        []*Player // Fixed seat order
	CommunityCards []poker.Card
	Pot            Pot

	CurrentBet   int
	MinimumRaise int
	SmallBlind   int
	BigBlind     int

	DealerPosition     int
	SmallBlindPosition int
	BigBlindPosition   int
	CurrentPlayerIndex int // -1 when nobody is due to act

	Phase      Phase
	ActionLog  []ActionLogEntry
	Winners    []WinnerReport
	HandNumber int
	HandID     string

	raiseOccurred bool // Any bet or raise this round
	fullRaises    int  // Full-size bets and raises this round
}

func newTableState(smallBlind, bigBlind int) *TableState {
	return &TableState{
		SmallBlind:         smallBlind,
		BigBlind:           bigBlind,
		MinimumRaise:       bigBlind,
		DealerPosition:     -1,
		SmallBlindPosition: -1,
		BigBlindPosition:   -1,
		CurrentPlayerIndex: -1,
	}
}

// CurrentPlayer returns the player due to act, or nil
func (t *TableState) CurrentPlayer() *Player {
	if t.CurrentPlayerIndex < 0 || t.CurrentPlayerIndex >= len(t.Players) {
		return nil
	}
	return t.Players[t.CurrentPlayerIndex]
}

// PlayerByID finds a seated player
func (t *TableState) PlayerByID(id string) (*Player, int) {
	for i, p := range t.Players {
		if p.ID == id {
			return p, i
		}
	}
	return nil, -1
}

// InHand returns players still eligible to win, in seat order
func (t *TableState) InHand() []*Player {
	var out []*Player
	for _, p := range t.Players {
		if p.IsInHand() {
			out = append(out, p)
		}
	}
	return out
}

// Actors returns players who can still act, in seat order
func (t *TableState) Actors() []*Player {
	var out []*Player
	for _, p := range t.Players {
		if p.CanAct() {
			out = append(out, p)
		}
	}
	return out
}

// TotalChips is every stack plus the pot
func (t *TableState) TotalChips() int {
	total := t.Pot.Total()
	for _, p := range t.Players {
		total += p.Chips
	}
	return total
}

// Contributions returns each dealt-in player's stake for pot calculation
func (t *TableState) Contributions() []Contribution {
	var out []Contribution
	for _, p := range t.Players {
		if p.TotalContribution == 0 && !p.IsInHand() {
			continue
		}
		out = append(out, Contribution{
			PlayerID: p.ID,
			Amount:   p.TotalContribution,
			InHand:   p.IsInHand(),
		})
	}
	return out
}

// nextSeat returns the first seat after from, wrapping, that satisfies ok, or -1
func (t *TableState) nextSeat(from int, ok func(*Player) bool) int {
	n := len(t.Players)
	for i := 1; i <= n; i++ {
		idx := ((from+i)%n + n) % n
		if ok(t.Players[idx]) {
			return idx
		}
	}
	return -1
}

// nextActor returns the next seat after from that can act, or -1
func (t *TableState) nextActor(from int) int {
	return t.nextSeat(from, (*Player).CanAct)
}

func (t *TableState) fundedCount() int {
	n := 0
	for _, p := range t.Players {
		if p.Chips > 0 && !p.sittingOut {
			n++
		}
	}
	return n
}
