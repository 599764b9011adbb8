package game

import "sort"

// SidePot is a pot capped by an all-in player. Only Eligible players can win it.
type SidePot struct {
	Amount   int      `json:"amount"`
	Eligible []string `json:"eligible"`
}

// Pot is the chips committed to the current hand. During betting every chip is
// collected into Main; side pots are split out from total contributions when a
// round closes and again at showdown.
type Pot struct {
	Main     int       `json:"main"`
	Eligible []string  `json:"eligible,omitempty"` // Players who can win Main
	Side     []SidePot `json:"side,omitempty"`
}

// Total returns the main pot plus every side pot
func (p Pot) Total() int {
	total := p.Main
	for _, sp := range p.Side {
		total += sp.Amount
	}
	return total
}

// Contribution is one player's total stake in the hand
type Contribution struct {
	PlayerID string
	Amount   int
	InHand   bool // false once folded: the chips stay in but cannot be won back
}

// CalculatePots splits contributions into a main pot and side pots.
//
// Contributors still in the hand are sorted by stake. Each distinct stake level
// adds (stake - previous stake) times the number of in-hand contributors at or
// above it. The lowest level plus every folded contribution is the main pot;
// each higher level is a side pot. The result depends only on the input, so it
// is safe to recompute at any time.
func CalculatePots(contribs []Contribution) Pot {
	var (
		pot      Pot
		eligible []Contribution
	)
	for _, c := range contribs {
		if c.InHand {
			eligible = append(eligible, c)
		} else {
			pot.Main += c.Amount
		}
	}

	sort.SliceStable(eligible, func(i, j int) bool {
		return eligible[i].Amount < eligible[j].Amount
	})

	pot.Eligible = contributorIDs(eligible)

	prev := 0
	mainDone := false
	for i, c := range eligible {
		if c.Amount == prev {
			continue
		}
		increment := (c.Amount - prev) * (len(eligible) - i)
		prev = c.Amount

		if !mainDone {
			pot.Main += increment
			pot.Eligible = contributorIDs(eligible[i:])
			mainDone = true
			continue
		}
		pot.Side = append(pot.Side, SidePot{
			Amount:   increment,
			Eligible: contributorIDs(eligible[i:]),
		})
	}

	return pot
}

func contributorIDs(cs []Contribution) []string {
	ids := make([]string, len(cs))
	for i, c := range cs {
		ids[i] = c.PlayerID
	}
	return ids
}
