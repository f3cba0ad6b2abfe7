package engine

import (
	"github.com/evoforge/gad-go/pkg/config"
	"github.com/evoforge/gad-go/pkg/core"
)

// Scorer computes the effective scalar score and its per-dimension breakdown
// from a candidate's metrics. Fractional metrics are scaled to the 0-100
// range before weighting so every term shares one scale. Gate failure
// multiplies the aggregate by the configured penalty; it never zeroes the
// score, so ranking among failing candidates stays meaningful.
type Scorer struct {
	cfg config.ScoringConfig
}

// NewScorer creates a scorer with the given weights and penalty.
func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Score returns the effective score and the weighted contribution of each
// dimension. The breakdown reports pre-penalty contributions.
func (s *Scorer) Score(m core.Metrics, gatesPassed bool) (float64, map[string]float64) {
	w := s.cfg.Weights

	testPassRate := m.TestPassRate * w.TestPassRate * 100
	security := m.SecurityScore * w.Security
	performance := m.PerformanceScore * w.Performance
	ux := m.UXScore * w.UX
	coverage := m.Coverage * w.Coverage * 100
	style := m.StyleScore * w.Style

	// Sum in a fixed dimension order. Float addition is not associative, so
	// ranging over the breakdown map would make the last bits of the total
	// depend on iteration order.
	total := testPassRate + security + performance + ux + coverage + style

	weighted := map[string]float64{
		"test_pass_rate": testPassRate,
		"security":       security,
		"performance":    performance,
		"ux":             ux,
		"coverage":       coverage,
		"style":          style,
	}

	if !gatesPassed {
		total *= s.cfg.GateFailurePenalty
	}

	return total, weighted
}
