package game

import (
	"fmt"

	"github.com/lox/holdem-referee/poker"
)

// WonByDefault is the hand description when everyone else folded
const WonByDefault = "won by default"

// WinnerReport is one player's winnings for a hand, summed across pots
type WinnerReport struct {
	PlayerID        string `json:"player_id"`
	Name            string `json:"name"`
	Seat            int    `json:"seat"`
	Amount          int    `json:"amount"`
	HandDescription string `json:"hand_description"`
}

// awardByDefault gives the whole pot to the last player in the hand
func (e *Engine) awardByDefault(p *Player) error {
	t := e.table
	total := t.Pot.Total()
	p.Chips += total
	t.Pot = Pot{}
	t.Winners = []WinnerReport{{
		PlayerID:        p.ID,
		Name:            p.Name,
		Seat:            p.Seat,
		Amount:          total,
		HandDescription: WonByDefault,
	}}

	e.logger.Debug("Pot awarded without showdown", "player", p.ID, "amount", total)
	return e.completeHand()
}

// handleShowdown splits the pot into main and side pots and awards each to
// the best hand among its eligible players
func (e *Engine) handleShowdown() error {
	t := e.table
	e.setPhase(PhaseShowdown)
	t.CurrentPlayerIndex = -1

	pot := CalculatePots(t.Contributions())
	t.Pot = pot

	pots := append([]SidePot{{Amount: pot.Main, Eligible: pot.Eligible}}, pot.Side...)

	won := make(map[string]int)
	described := make(map[string]string)

	for i, sp := range pots {
		if sp.Amount == 0 {
			continue
		}
		entries := e.showdownEntries(sp.Eligible)
		if len(entries) == 0 {
			return &InvariantViolation{
				Expected: e.chipTotal,
				Actual:   e.chipTotal - sp.Amount,
				Detail:   fmt.Sprintf("pot %d has no eligible players", i),
			}
		}

		winners, err := poker.FindWinners(entries)
		if err != nil {
			return fmt.Errorf("evaluate pot %d: %w", i, err)
		}

		for j, share := range splitPot(sp.Amount, len(winners)) {
			w := winners[j]
			won[w.ID] += share
			described[w.ID] = w.Evaluation.String()
		}

		e.logger.Debug("Pot resolved", "pot", i, "amount", sp.Amount, "winners", len(winners))
	}

	var reports []WinnerReport
	e.fromDealer(func(p *Player) {
		amount, ok := won[p.ID]
		if !ok {
			return
		}
		p.Chips += amount
		reports = append(reports, WinnerReport{
			PlayerID:        p.ID,
			Name:            p.Name,
			Seat:            p.Seat,
			Amount:          amount,
			HandDescription: described[p.ID],
		})
	})

	t.Pot = Pot{}
	t.Winners = reports
	e.notify(func(o Observer) { o.OnShowdown(cloneReports(reports)) })

	return e.completeHand()
}

// showdownEntries builds evaluator input for the eligible players in seat
// order starting left of the dealer, so odd chips go to the earliest seats
func (e *Engine) showdownEntries(eligible []string) []poker.HandEntry {
	ok := make(map[string]bool, len(eligible))
	for _, id := range eligible {
		ok[id] = true
	}

	var entries []poker.HandEntry
	e.fromDealer(func(p *Player) {
		if !ok[p.ID] || !p.IsInHand() {
			return
		}
		cards := make([]poker.Card, 0, 7)
		cards = append(cards, p.HoleCards...)
		cards = append(cards, e.table.CommunityCards...)
		entries = append(entries, poker.HandEntry{ID: p.ID, Cards: cards})
	})
	return entries
}

// fromDealer visits every seat once, starting left of the dealer
func (e *Engine) fromDealer(fn func(*Player)) {
	t := e.table
	n := len(t.Players)
	for i := 1; i <= n; i++ {
		fn(t.Players[((t.DealerPosition+i)%n+n)%n])
	}
}

// splitPot divides amount between n winners. The remainder goes one chip at a
// time to the first winners.
func splitPot(amount, n int) []int {
	shares := make([]int, n)
	if n == 0 {
		return shares
	}
	base, rem := amount/n, amount%n
	for i := range shares {
		shares[i] = base
		if i < rem {
			shares[i]++
		}
	}
	return shares
}

// completeHand resets per-hand state, checks chip conservation and arms the
// next hand if enough players still have chips
func (e *Engine) completeHand() error {
	t := e.table
	winners := cloneReports(t.Winners)

	for _, p := range t.Players {
		p.endHand()
	}
	t.CurrentPlayerIndex = -1
	t.CurrentBet = 0
	t.MinimumRaise = t.BigBlind
	t.raiseOccurred = false
	t.fullRaises = 0
	e.setPhase(PhaseWaiting)

	err := e.verifyChips("hand complete")

	e.logger.Info("Hand complete", "hand", t.HandNumber, "id", t.HandID, "winners", len(winners))
	e.notify(func(o Observer) { o.OnHandComplete(winners) })

	if t.fundedCount() >= 2 {
		e.scheduleRestart()
	}
	return err
}

// verifyChips checks that stacks plus pot still equal the chips brought to the table
func (e *Engine) verifyChips(detail string) error {
	actual := e.table.TotalChips()
	if actual == e.chipTotal {
		return nil
	}
	err := &InvariantViolation{Expected: e.chipTotal, Actual: actual, Detail: detail}
	e.logger.Error("Chip conservation violated", "error", err, "hand", e.table.HandID)
	return err
}

func cloneReports(in []WinnerReport) []WinnerReport {
	return append([]WinnerReport(nil), in...)
}
