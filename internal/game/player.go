package game

import (
	"fmt"

	"github.com/lox/holdem-referee/poker"
)

// PlayerStatus is a seat's state within the current hand
type PlayerStatus int

const (
	StatusWaiting PlayerStatus = iota
	StatusActive
	StatusChecked
	StatusCalled
	StatusRaised
	StatusAllIn
	StatusFolded
	StatusSittingOut
)

func (s PlayerStatus) String() string {
	return [...]string{"waiting", "active", "checked", "called", "raised", "all_in", "folded", "sitting_out"}[s]
}

// MarshalText encodes the status by name
func (s PlayerStatus) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Player is one seat at the table. ID, Name and Chips persist across hands;
// everything else is per-hand state reset by the engine.
type Player struct {
	ID    string
	Name  string
	Seat  int
	Chips int

	HoleCards         []poker.Card
	CurrentBet        int // Chips committed in the current betting round
	TotalContribution int // Chips committed this hand
	Status            PlayerStatus
	LastAction        *Action // nil until the player acts in the current round
	Active            bool    // dealt into the current hand

	sittingOut bool
	dealt      bool // dealt into the current or most recent hand
	actedAt    int  // fullRaises count when the player last acted this round
}

// NewPlayer creates a player with a starting stack
func NewPlayer(id, name string, chips int) *Player {
	return &Player{
		ID:     id,
		Name:   name,
		Chips:  chips,
		Status: StatusWaiting,
	}
}

// PlaceBet moves chips from the stack into the current bet
func (p *Player) PlaceBet(amount int) error {
	if amount < 0 {
		return fmt.Errorf("negative bet %d", amount)
	}
	if amount > p.Chips {
		return fmt.Errorf("%s bet %d with %d chips: %w", p.ID, amount, p.Chips, ErrInsufficientChips)
	}

	p.Chips -= amount
	p.CurrentBet += amount
	p.TotalContribution += amount
	if p.Chips == 0 {
		p.Status = StatusAllIn
	}
	return nil
}

// Fold gives up the hand
func (p *Player) Fold() {
	p.HoleCards = nil
	p.Status = StatusFolded
}

// CanAct returns true if the player can still make decisions this hand
func (p *Player) CanAct() bool {
	return p.Active && p.Chips > 0 && p.Status != StatusFolded && p.Status != StatusAllIn
}

// IsInHand returns true if the player is still eligible to win the pot.
// All-in players stay in the hand even though they cannot act.
func (p *Player) IsInHand() bool {
	return p.Active && p.Status != StatusFolded && p.Status != StatusSittingOut
}

// IsAllIn returns true once the player has committed their whole stack
func (p *Player) IsAllIn() bool {
	return p.Status == StatusAllIn
}

// DealtIn reports whether the player was dealt into the current or most
// recent hand. Unlike Active it survives the end of the hand.
func (p *Player) DealtIn() bool {
	return p.dealt
}

// SittingOut reports whether the player asked to skip upcoming hands
func (p *Player) SittingOut() bool {
	return p.sittingOut
}

func (p *Player) resetForHand() {
	p.HoleCards = nil
	p.CurrentBet = 0
	p.TotalContribution = 0
	p.LastAction = nil
	p.actedAt = 0
	p.Active = p.Chips > 0 && !p.sittingOut
	p.dealt = p.Active
	if p.Active {
		p.Status = StatusActive
	} else {
		p.Status = StatusSittingOut
	}
}

func (p *Player) resetForRound() {
	p.CurrentBet = 0
	p.LastAction = nil
	p.actedAt = 0
	if p.CanAct() {
		p.Status = StatusActive
	}
}

// endHand clears per-hand state once chips have been awarded
func (p *Player) endHand() {
	p.CurrentBet = 0
	p.TotalContribution = 0
	p.LastAction = nil
	p.Active = false
	if p.sittingOut || p.Chips == 0 {
		p.Status = StatusSittingOut
	} else {
		p.Status = StatusWaiting
	}
}

func (p *Player) String() string {
	return fmt.Sprintf("%s(%d chips, %s)", p.Name, p.Chips, p.Status)
}
