// Package statistics accumulates per-seat results across simulated hands.
package statistics

import (
	"fmt"
	"math"
	"sort"

	"github.com/lox/holdem-referee/internal/game"
)

// BigPotBB is the pot size, in big blinds, counted as a big pot
const BigPotBB = 50

// HandResult represents one seat's outcome of a single hand
type HandResult struct {
	HandNumber     int
	NetBB          float64    // Net big blinds won or lost
	Position       int        // Seats after the button, 0 is the button
	WentToShowdown bool       // Did the hand reach showdown?
	PotBB          float64    // Chips awarded, in big blinds
	StreetReached  game.Phase // Furthest phase the hand reached
}

// PositionStats tracks results for one table position
type PositionStats struct {
	Hands  int
	SumBB  float64
	SumBB2 float64
}

// Statistics tracks results for one seat
type Statistics struct {
	Hands  int
	SumBB  float64
	SumBB2 float64   // Sum of squares for variance
	Values []float64 // Every result, for median and percentiles

	// Every result lands in exactly one of the showdown buckets
	ShowdownWins    int
	NonShowdownWins int
	ShowdownBB      float64
	NonShowdownBB   float64
	AllBB           float64

	PositionResults [game.DefaultMaxSeats]PositionStats
	Streets         map[game.Phase]int

	MaxPotBB  float64
	BigPots   int
	BigPotsBB float64
}

// Mean returns the arithmetic mean in big blinds per hand
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumBB / float64(s.Hands)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(s.Variance())
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Hands))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a hand result
func (s *Statistics) Add(result HandResult) {
	netBB := result.NetBB
	s.Hands++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)

	if netBB > 0 {
		if result.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}
	if result.WentToShowdown {
		s.ShowdownBB += netBB
	} else {
		s.NonShowdownBB += netBB
	}
	s.AllBB += netBB

	if pos := result.Position; pos >= 0 && pos < len(s.PositionResults) {
		s.PositionResults[pos].Hands++
		s.PositionResults[pos].SumBB += netBB
		s.PositionResults[pos].SumBB2 += netBB * netBB
	}

	if s.Streets == nil {
		s.Streets = make(map[game.Phase]int)
	}
	s.Streets[result.StreetReached]++

	if result.PotBB > s.MaxPotBB {
		s.MaxPotBB = result.PotBB
	}
	if result.PotBB >= BigPotBB {
		s.BigPots++
		s.BigPotsBB += netBB
	}
}

// Merge folds another seat's results into s
func (s *Statistics) Merge(o *Statistics) {
	s.Hands += o.Hands
	s.SumBB += o.SumBB
	s.SumBB2 += o.SumBB2
	s.Values = append(s.Values, o.Values...)
	s.ShowdownWins += o.ShowdownWins
	s.NonShowdownWins += o.NonShowdownWins
	s.ShowdownBB += o.ShowdownBB
	s.NonShowdownBB += o.NonShowdownBB
	s.AllBB += o.AllBB
	for i := range s.PositionResults {
		s.PositionResults[i].Hands += o.PositionResults[i].Hands
		s.PositionResults[i].SumBB += o.PositionResults[i].SumBB
		s.PositionResults[i].SumBB2 += o.PositionResults[i].SumBB2
	}
	for phase, n := range o.Streets {
		if s.Streets == nil {
			s.Streets = make(map[game.Phase]int)
		}
		s.Streets[phase] += n
	}
	s.MaxPotBB = max(s.MaxPotBB, o.MaxPotBB)
	s.BigPots += o.BigPots
	s.BigPotsBB += o.BigPotsBB
}

// Median returns the median result
func (s *Statistics) Median() float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// Percentile returns the interpolated value at p (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := s.sorted()

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

func (s *Statistics) sorted() []float64 {
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)
	return sorted
}

// PositionMean returns the mean result for a position, 0 being the button
func (s *Statistics) PositionMean(position int) float64 {
	if position < 0 || position >= len(s.PositionResults) {
		return 0
	}
	ps := s.PositionResults[position]
	if ps.Hands == 0 {
		return 0
	}
	return ps.SumBB / float64(ps.Hands)
}

// IsLedgerBalanced checks that the showdown buckets add up to the total
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the accounting is internally consistent
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllBB=%.6f, ShowdownBB=%.6f, NonShowdownBB=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Hands {
		return fmt.Errorf("total wins (%d) exceeds total hands (%d)", wins, s.Hands)
	}

	positions := 0
	for _, ps := range s.PositionResults {
		positions += ps.Hands
	}
	if positions != s.Hands {
		return fmt.Errorf("position hands total (%d) does not match total hands (%d)",
			positions, s.Hands)
	}
	return nil
}
