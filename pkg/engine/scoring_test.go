package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoforge/gad-go/pkg/config"
	"github.com/evoforge/gad-go/pkg/core"
)

func TestScorerWeightedAggregate(t *testing.T) {
	scorer := NewScorer(config.Default().Scoring)

	m := core.Metrics{
		TestPassRate:     0.95,
		Coverage:         0.9,
		SecurityScore:    90,
		PerformanceScore: 85,
		UXScore:          80,
		StyleScore:       90,
	}
	score, weighted := scorer.Score(m, true)

	// 0.25*95 + 0.25*90 + 0.15*85 + 0.15*80 + 0.10*90 + 0.10*90 = 89.0
	assert.InDelta(t, 89.0, score, 1e-9)

	require.Len(t, weighted, 6)
	assert.InDelta(t, 23.75, weighted["test_pass_rate"], 1e-9)
	assert.InDelta(t, 22.5, weighted["security"], 1e-9)
	assert.InDelta(t, 12.75, weighted["performance"], 1e-9)
	assert.InDelta(t, 12.0, weighted["ux"], 1e-9)
	assert.InDelta(t, 9.0, weighted["coverage"], 1e-9)
	assert.InDelta(t, 9.0, weighted["style"], 1e-9)
}

func TestScorerGateFailurePenaltyIsPureMultiplier(t *testing.T) {
	scorer := NewScorer(config.Default().Scoring)

	m := core.Metrics{
		TestPassRate:     0.5,
		Coverage:         0.5,
		SecurityScore:    40,
		PerformanceScore: 50,
		UXScore:          50,
		StyleScore:       60,
	}
	passing, _ := scorer.Score(m, true)
	failing, _ := scorer.Score(m, false)

	assert.InDelta(t, 48.5, passing, 1e-9)
	// Penalty halves the aggregate exactly; it never zeroes it.
	assert.InDelta(t, passing*0.5, failing, 1e-9)
	assert.Greater(t, failing, 0.0)
}

func TestScorerInjectableWeightsAndPenalty(t *testing.T) {
	cfg := config.ScoringConfig{
		Weights: config.WeightsConfig{
			Security: 1.0, // security-only policy
		},
		GateFailurePenalty: 0.25,
	}
	scorer := NewScorer(cfg)

	m := core.Metrics{SecurityScore: 80, PerformanceScore: 100}
	score, _ := scorer.Score(m, true)
	assert.InDelta(t, 80.0, score, 1e-9)

	score, _ = scorer.Score(m, false)
	assert.InDelta(t, 20.0, score, 1e-9)
}

func TestScorerBreakdownReportsPrePenaltyContributions(t *testing.T) {
	scorer := NewScorer(config.Default().Scoring)

	m := core.Metrics{SecurityScore: 80}
	_, passWeighted := scorer.Score(m, true)
	_, failWeighted := scorer.Score(m, false)

	assert.Equal(t, passWeighted["security"], failWeighted["security"])
}

func TestScorerBitIdenticalAcrossCalls(t *testing.T) {
	scorer := NewScorer(config.Default().Scoring)

	// Awkward fractions whose weighted terms do not sum associatively; the
	// total must still be the same float64 to the last bit on every call, so
	// metric-identical candidates can never rank unequal.
	m := core.Metrics{
		TestPassRate:     0.913,
		Coverage:         0.871,
		SecurityScore:    77.3,
		PerformanceScore: 84.9,
		UXScore:          66.1,
		StyleScore:       91.7,
	}

	first, _ := scorer.Score(m, true)
	for i := 0; i < 2000; i++ {
		score, _ := scorer.Score(m, true)
		if score != first {
			t.Fatalf("call %d produced %b, first call produced %b", i, score, first)
		}
	}
}
