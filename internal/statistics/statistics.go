// Package statistics aggregates simulated hand outcomes.
package statistics

import (
	"fmt"
	"math"
	"sort"
)

// HandResult is the outcome of one simulated hand. Net is measured in bets:
// +1 for a win, -1 for a loss, 0 for a draw.
type HandResult struct {
	Net          float64
	Winner       string
	PlayerPoints int
	DealerPoints int
	PlayerBusted bool
	DealerBusted bool
	Natural      bool
	Hits         int
}

// Statistics tracks simulation results
type Statistics struct {
	Hands  int
	SumNet float64
	SumSq  float64 // Sum of squares for variance calculation
	Values []float64

	Wins   int
	Losses int
	Draws  int

	PlayerBusts int
	DealerBusts int
	Naturals    int
	Hits        int

	// Net split by whether the player drew a card
	StoodNet float64
	HitNet   float64
	AllNet   float64
}

// Mean returns the average net result per hand
func (s *Statistics) Mean() float64 {
	if s.Hands == 0 {
		return 0
	}
	return s.SumNet / float64(s.Hands)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Hands < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumSq - float64(s.Hands)*mean*mean) / float64(s.Hands-1)
}

// StdDev returns the sample standard deviation of all results
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
	net := result.Net
	s.Hands++
	s.SumNet += net
	s.SumSq += net * net
	s.Values = append(s.Values, net)

	switch {
	case net > 0:
		s.Wins++
	case net < 0:
		s.Losses++
	default:
		s.Draws++
	}

	if result.PlayerBusted {
		s.PlayerBusts++
	}
	if result.DealerBusted {
		s.DealerBusts++
	}
	if result.Natural {
		s.Naturals++
	}
	s.Hits += result.Hits

	if result.Hits > 0 {
		s.HitNet += net
	} else {
		s.StoodNet += net
	}
	s.AllNet += net
}

// Merge folds other into s
func (s *Statistics) Merge(other *Statistics) {
	s.Hands += other.Hands
	s.SumNet += other.SumNet
	s.SumSq += other.SumSq
	s.Values = append(s.Values, other.Values...)
	s.Wins += other.Wins
	s.Losses += other.Losses
	s.Draws += other.Draws
	s.PlayerBusts += other.PlayerBusts
	s.DealerBusts += other.DealerBusts
	s.Naturals += other.Naturals
	s.Hits += other.Hits
	s.StoodNet += other.StoodNet
	s.HitNet += other.HitNet
	s.AllNet += other.AllNet
}

// WinRate returns the fraction of hands the player won
func (s *Statistics) WinRate() float64 {
	if s.Hands == 0 {
		return 0
	}
	return float64(s.Wins) / float64(s.Hands)
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1
	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// IsLedgerBalanced checks that the hit and stood buckets add up
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllNet-s.StoodNet-s.HitNet) <= 1e-6
}

// Validate checks the counters against each other
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllNet=%.6f, StoodNet=%.6f, HitNet=%.6f",
			s.AllNet, s.StoodNet, s.HitNet)
	}
	if s.Hands <= 0 {
		return fmt.Errorf("invalid hands count: %d", s.Hands)
	}
	if len(s.Values) != s.Hands {
		return fmt.Errorf("values array length (%d) does not match hands count (%d)",
			len(s.Values), s.Hands)
	}
	if total := s.Wins + s.Losses + s.Draws; total != s.Hands {
		return fmt.Errorf("outcomes (%d) do not match hands (%d)", total, s.Hands)
	}
	if s.PlayerBusts > s.Losses {
		return fmt.Errorf("player busts (%d) exceed losses (%d)", s.PlayerBusts, s.Losses)
	}
	return nil
}
