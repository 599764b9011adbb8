package game

import "github.com/lox/holdem-referee/poker"

// Blinds are the forced bet sizes
type Blinds struct {
	Small int `json:"small"`
	Big   int `json:"big"`
}

// PlayerSnapshot is a read-only view of one seat
type PlayerSnapshot struct {
	ID                string       `json:"id"`
	Name              string       `json:"name"`
	Seat              int          `json:"seat"`
	Chips             int          `json:"chips"`
	HoleCards         []poker.Card `json:"hole_cards,omitempty"`
	CurrentBet        int          `json:"current_bet"`
	TotalContribution int          `json:"total_contribution"`
	Status            PlayerStatus `json:"status"`
	LastAction        *Action      `json:"last_action,omitempty"`
	Active            bool         `json:"active"`
	DealtIn           bool         `json:"dealt_in"` // Still set after the hand ends
}

// Snapshot is a read-only projection of the table. It shares no memory with the engine.
type Snapshot struct {
	HandID             string           `json:"hand_id,omitempty"`
	HandNumber         int              `json:"hand_number"`
	Phase              Phase            `json:"phase"`
	Players            []PlayerSnapshot `json:"players"`
	CommunityCards     []poker.Card     `json:"community_cards"`
	Pot                Pot              `json:"pot"`
	TotalPot           int              `json:"total_pot"`
	CurrentBet         int              `json:"current_bet"`
	MinimumRaise       int              `json:"minimum_raise"`
	DealerPosition     int              `json:"dealer_position"`
	CurrentPlayerIndex int              `json:"current_player_index"`
	Blinds             Blinds           `json:"blinds"`
	Winners            []WinnerReport   `json:"winners,omitempty"`
}

// CurrentPlayer returns the snapshot of the player due to act
func (s Snapshot) CurrentPlayer() (PlayerSnapshot, bool) {
	if s.CurrentPlayerIndex < 0 || s.CurrentPlayerIndex >= len(s.Players) {
		return PlayerSnapshot{}, false
	}
	return s.Players[s.CurrentPlayerIndex], true
}

// Player finds a seat by player ID
func (s Snapshot) Player(id string) (PlayerSnapshot, bool) {
	for _, p := range s.Players {
		if p.ID == id {
			return p, true
		}
	}
	return PlayerSnapshot{}, false
}

func snapshotPlayer(p *Player, showCards bool) PlayerSnapshot {
	ps := PlayerSnapshot{
		ID:                p.ID,
		Name:              p.Name,
		Seat:              p.Seat,
		Chips:             p.Chips,
		CurrentBet:        p.CurrentBet,
		TotalContribution: p.TotalContribution,
		Status:            p.Status,
		Active:            p.Active,
		DealtIn:           p.dealt,
	}
	if showCards && len(p.HoleCards) > 0 {
		ps.HoleCards = append([]poker.Card(nil), p.HoleCards...)
	}
	if p.LastAction != nil {
		a := *p.LastAction
		ps.LastAction = &a
	}
	return ps
}

// snapshot builds a projection. Unless all is set, hole cards are visible only
// to viewer until showdown.
func (t *TableState) snapshot(viewer string, all bool) Snapshot {
	pot := t.Pot
	if pot.Total() > 0 && len(pot.Side) == 0 {
		pot = t.displayPot()
	}

	s := Snapshot{
		HandID:             t.HandID,
		HandNumber:         t.HandNumber,
		Phase:              t.Phase,
		Players:            make([]PlayerSnapshot, len(t.Players)),
		CommunityCards:     append([]poker.Card{}, t.CommunityCards...),
		Pot:                clonePot(pot),
		TotalPot:           pot.Total(),
		CurrentBet:         t.CurrentBet,
		MinimumRaise:       t.MinimumRaise,
		DealerPosition:     t.DealerPosition,
		CurrentPlayerIndex: t.CurrentPlayerIndex,
		Blinds:             Blinds{Small: t.SmallBlind, Big: t.BigBlind},
		Winners:            append([]WinnerReport(nil), t.Winners...),
	}
	for i, p := range t.Players {
		show := all || p.ID == viewer || (t.Phase == PhaseShowdown && p.IsInHand())
		s.Players[i] = snapshotPlayer(p, show)
	}
	return s
}

func clonePot(p Pot) Pot {
	out := Pot{Main: p.Main, Eligible: append([]string(nil), p.Eligible...)}
	for _, sp := range p.Side {
		out.Side = append(out.Side, SidePot{Amount: sp.Amount, Eligible: append([]string(nil), sp.Eligible...)})
	}
	return out
}

// displayPot shows the chips collected into Main during betting. They are
// only split into side pots once someone still in the hand is all-in.
func (t *TableState) displayPot() Pot {
	inHand := t.InHand()
	for _, p := range inHand {
		if p.IsAllIn() {
			return CalculatePots(t.Contributions())
		}
	}
	pot := Pot{Main: t.Pot.Total()}
	for _, p := range inHand {
		pot.Eligible = append(pot.Eligible, p.ID)
	}
	return pot
}
