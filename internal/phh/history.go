package phh

import (
	"fmt"

	"github.com/lox/holdem-referee/internal/game"
	"github.com/lox/holdem-referee/poker"
)

// FromHand builds the history of a finished hand from the referee snapshot and
// the hand's action log. Folded players' cards are gone by then and are
// written as unknown.
func FromHand(table string, snap game.Snapshot, log []game.ActionLogEntry) (*HandHistory, error) {
	if snap.Phase != game.PhaseWaiting || snap.HandNumber == 0 {
		return nil, fmt.Errorf("phh: hand %d is not finished", snap.HandNumber)
	}

	order := positionOrder(snap)
	if len(order) < 2 {
		return nil, fmt.Errorf("phh: hand %s has %d players dealt in", snap.HandID, len(order))
	}
	index := make(map[string]int, len(order))
	for i, p := range order {
		index[p.ID] = i
	}

	won := make(map[string]int)
	for _, w := range snap.Winners {
		won[w.PlayerID] += w.Amount
	}
	contributed := make(map[string]int)
	for _, e := range log {
		contributed[e.PlayerID] += e.Amount
	}

	n := len(order)
	h := &HandHistory{
		Variant:           Variant,
		Table:             table,
		SeatCount:         len(snap.Players),
		Seats:             make([]int, n),
		Antes:             make([]int, n),
		BlindsOrStraddles: make([]int, n),
		MinBet:            snap.Blinds.Big,
		StartingStacks:    make([]int, n),
		FinishingStacks:   make([]int, n),
		Winnings:          make([]int, n),
		Players:           make([]string, n),
		HandID:            snap.HandID,
	}
	if len(log) > 0 {
		h.Timestamp = log[0].Timestamp
	}
	h.populateTimeFields()

	for i, p := range order {
		h.Seats[i] = p.Seat + 1
		h.Players[i] = p.Name
		h.FinishingStacks[i] = p.Chips
		h.Winnings[i] = won[p.ID]
		h.StartingStacks[i] = p.Chips - won[p.ID] + contributed[p.ID]
		h.Actions = append(h.Actions, fmt.Sprintf("d dh p%d %s", i+1, holeCards(p.HoleCards)))
	}

	folded := make(map[string]bool)
	var (
		street    = game.PhasePreflop
		streetBet = snap.Blinds.Big
		bets      = make(map[string]int)
	)
	for _, e := range log {
		i, ok := index[e.PlayerID]
		if !ok {
			return nil, fmt.Errorf("phh: %s acted in hand %s without being dealt in", e.PlayerID, snap.HandID)
		}

		if e.Phase > street {
			h.Actions = append(h.Actions, boardActions(snap.CommunityCards, street, e.Phase)...)
			street = e.Phase
			streetBet = 0
			clear(bets)
		}

		bets[e.PlayerID] += e.Amount
		switch e.Action {
		case game.PostSmallBlind:
			h.BlindsOrStraddles[i] = snap.Blinds.Small
			continue
		case game.PostBigBlind:
			h.BlindsOrStraddles[i] = snap.Blinds.Big
			continue
		case game.Fold:
			folded[e.PlayerID] = true
		}

		if action, ok := FormatAction(i, e.Action, bets[e.PlayerID], streetBet); ok {
			h.Actions = append(h.Actions, action)
		}
		streetBet = max(streetBet, bets[e.PlayerID])
	}

	// All-in run outs deal streets nobody acted on
	h.Actions = append(h.Actions, boardActions(snap.CommunityCards, street, game.PhaseRiver)...)

	if showdown(snap) {
		for i, p := range order {
			if !folded[p.ID] {
				h.Actions = append(h.Actions, fmt.Sprintf("p%d sm %s", i+1, cards(p.HoleCards)))
			}
		}
	}
	return h, nil
}

// positionOrder lists players dealt in, starting with the small blind. Heads
// up the button posts the small blind.
func positionOrder(snap game.Snapshot) []game.PlayerSnapshot {
	n := len(snap.Players)
	var dealt []game.PlayerSnapshot
	for i := 1; i <= n; i++ {
		p := snap.Players[(snap.DealerPosition+i)%n]
		if p.DealtIn {
			dealt = append(dealt, p)
		}
	}
	if len(dealt) == 2 {
		// The last entry is the button; put it first
		dealt[0], dealt[1] = dealt[1], dealt[0]
	}
	return dealt
}

// boardActions deals the streets after from up to and including to
func boardActions(board []poker.Card, from, to game.Phase) []string {
	var out []string
	for street := from + 1; street <= to; street++ {
		var lo, hi int
		switch street {
		case game.PhaseFlop:
			lo, hi = 0, 3
		case game.PhaseTurn:
			lo, hi = 3, 4
		case game.PhaseRiver:
			lo, hi = 4, 5
		default:
			continue
		}
		if len(board) < hi {
			break
		}
		out = append(out, "d db "+cards(board[lo:hi]))
	}
	return out
}

func showdown(snap game.Snapshot) bool {
	return len(snap.Winners) > 0 && snap.Winners[0].HandDescription != game.WonByDefault
}

// holeCards writes unknown cards as ?? per card
func holeCards(cs []poker.Card) string {
	if len(cs) == 0 {
		return "????"
	}
	return cards(cs)
}

func cards(cs []poker.Card) string {
	s := ""
	for _, c := range cs {
		s += c.Code()
	}
	return s
}
