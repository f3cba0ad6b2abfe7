package engine

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoforge/gad-go/pkg/config"
	"github.com/evoforge/gad-go/pkg/core"
	"github.com/evoforge/gad-go/pkg/errors"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	eng, err := New(config.Default())
	require.NoError(t, err)
	return eng
}

func testAgents() []*core.AgentProfile {
	return []*core.AgentProfile{
		{ID: "gen-a", Name: "Alpha", Type: core.AgentGenerator},
		{ID: "gen-b", Name: "Beta", Type: core.AgentGenerator},
	}
}

// strongMetrics passes every gate and scores 89.0 under default weights.
func strongMetrics() core.Metrics {
	return core.Metrics{
		TestPassRate:      0.95,
		Coverage:          0.9,
		SecurityScore:     90,
		PerformanceScore:  85,
		UXScore:           80,
		StyleScore:        90,
		LicenseCompliance: true,
	}
}

// weakMetrics fails every gate; raw aggregate 48.5.
func weakMetrics() core.Metrics {
	return core.Metrics{
		TestPassRate:       0.5,
		Coverage:           0.5,
		SecurityScore:      40,
		PerformanceScore:   50,
		UXScore:            50,
		StyleScore:         60,
		LicenseCompliance:  false,
		VulnerabilityCount: 3,
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := config.Default()
	cfg.Scoring.GateFailurePenalty = 3.0

	_, err := New(cfg)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.CodeOf(err))
}

func TestEvaluateComputesGatesAndScores(t *testing.T) {
	eng := newTestEngine(t)

	strong := &core.Candidate{ID: "strong", GeneratorAgentID: "gen-a", Metrics: strongMetrics()}
	weak := &core.Candidate{ID: "weak", GeneratorAgentID: "gen-b", Metrics: weakMetrics()}

	require.NoError(t, eng.Evaluate(context.Background(), []*core.Candidate{strong, weak}))

	assert.True(t, strong.GatesPassed)
	assert.InDelta(t, 89.0, strong.EffectiveScore, 1e-9)
	require.Len(t, strong.GateResults, 4)
	for _, g := range strong.GateResults {
		assert.True(t, g.Passed, g.GateName)
	}

	assert.False(t, weak.GatesPassed)
	// 48.5 raw, halved by the gate-failure penalty.
	assert.InDelta(t, 24.25, weak.EffectiveScore, 1e-9)
}

func TestEvaluateRejectsInvalidMetrics(t *testing.T) {
	eng := newTestEngine(t)

	bad := &core.Candidate{ID: "bad", Metrics: core.Metrics{TestPassRate: 1.5}}
	err := eng.Evaluate(context.Background(), []*core.Candidate{bad})
	require.Error(t, err)
	assert.True(t, errors.IsValidation(err))
}

func TestEvaluateHonorsContextCancellation(t *testing.T) {
	eng := newTestEngine(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := eng.Evaluate(ctx, []*core.Candidate{{ID: "x", Metrics: strongMetrics()}})
	require.Error(t, err)
	assert.Equal(t, errors.Canceled, errors.CodeOf(err))
}

func TestRunGenerationFullPass(t *testing.T) {
	eng := newTestEngine(t)
	run := core.NewRun("run-1", "test run", "build a rate limiter", testAgents())
	eng.RegisterRun(run)

	candidates := []*core.Candidate{
		{ID: "c1", Generation: 0, GeneratorAgentID: "gen-a", Metrics: strongMetrics()},
		{ID: "c2", Generation: 0, GeneratorAgentID: "gen-b", Metrics: strongMetrics()},
		{ID: "c3", Generation: 0, GeneratorAgentID: "gen-b", Metrics: weakMetrics()},
	}
	gen := core.NewGeneration(0, candidates)

	require.NoError(t, eng.RunGeneration(context.Background(), run, gen))

	assert.True(t, gen.Sealed())
	require.Len(t, run.Generations, 1)

	// Gate failure excludes c3 from the Pareto front and from breeding.
	assert.Equal(t, []string{"c1", "c2"}, gen.Survivors)
	assert.Equal(t, []core.BreedingPair{{ParentA: "c1", ParentB: "c2"}}, gen.BreedingPairs)
	assert.Equal(t, 2, gen.ParetoCount)
	assert.True(t, gen.Candidate("c1").IsParetoFront)
	assert.False(t, gen.Candidate("c3").IsParetoFront)
	assert.False(t, gen.Candidate("c3").SelectedForBreeding)

	assert.InDelta(t, 89.0, gen.BestScore, 1e-9)
	assert.InDelta(t, (89.0+89.0+24.25)/3, gen.AvgScore, 1e-9)

	// Allocation for the next generation covers both agents and the budget.
	require.Len(t, gen.UCBAllocations, 2)
	sum := 0
	for _, n := range gen.NextAllocation {
		sum += n
	}
	assert.Equal(t, config.Default().Population.Size, sum)

	// Profiles reflect participation and gate passes.
	a := run.Agent("gen-a")
	require.NotNil(t, a.SuccessfulCandidates)
	assert.Equal(t, 1, *a.SuccessfulCandidates)
	assert.Equal(t, 1, a.GenerationsParticipated)
	b := run.Agent("gen-b")
	require.NotNil(t, b.SuccessfulCandidates)
	assert.Equal(t, 1, *b.SuccessfulCandidates)
}

func TestRunGenerationInsufficientSurvivorsStallsRun(t *testing.T) {
	eng := newTestEngine(t)
	run := core.NewRun("run-dead-end", "test run", "req", testAgents())
	eng.RegisterRun(run)

	// Only one gate-passing candidate: breeding dead end.
	candidates := []*core.Candidate{
		{ID: "only", Generation: 0, GeneratorAgentID: "gen-a", Metrics: strongMetrics()},
		{ID: "fail", Generation: 0, GeneratorAgentID: "gen-b", Metrics: weakMetrics()},
	}
	gen := core.NewGeneration(0, candidates)

	err := eng.RunGeneration(context.Background(), run, gen)
	require.Error(t, err)
	assert.True(t, errors.IsInsufficientSurvivors(err))

	// The generation is still recorded, sealed, and the run is stalled.
	assert.Equal(t, core.RunStalled, run.Status)
	require.Len(t, run.Generations, 1)
	assert.True(t, gen.Sealed())
	assert.Empty(t, gen.Survivors)
	assert.Contains(t, gen.Summary, "dead end")
}

func TestRunGenerationRejectsUnknownAgent(t *testing.T) {
	eng := newTestEngine(t)
	run := core.NewRun("run-2", "test run", "req", testAgents())
	eng.RegisterRun(run)

	gen := core.NewGeneration(0, []*core.Candidate{
		{ID: "c1", Generation: 0, GeneratorAgentID: "nobody", Metrics: strongMetrics()},
	})

	err := eng.RunGeneration(context.Background(), run, gen)
	require.Error(t, err)
	assert.Equal(t, errors.UnknownReference, errors.CodeOf(err))
	assert.Empty(t, run.Generations)
}

func TestRunGenerationParentMustBeSurvivor(t *testing.T) {
	eng := newTestEngine(t)
	run := core.NewRun("run-3", "test run", "req", testAgents())
	eng.RegisterRun(run)

	gen0 := core.NewGeneration(0, []*core.Candidate{
		{ID: "s1", Generation: 0, GeneratorAgentID: "gen-a", Metrics: strongMetrics()},
		{ID: "s2", Generation: 0, GeneratorAgentID: "gen-b", Metrics: strongMetrics()},
		{ID: "loser", Generation: 0, GeneratorAgentID: "gen-b", Metrics: weakMetrics()},
	})
	require.NoError(t, eng.RunGeneration(context.Background(), run, gen0))
	require.Equal(t, []string{"s1", "s2"}, gen0.Survivors)

	t.Run("survivor parents accepted", func(t *testing.T) {
		gen1 := core.NewGeneration(1, []*core.Candidate{
			{ID: "child", Generation: 1, GeneratorAgentID: "gen-a",
				ParentIDs: []string{"s1", "s2"}, Metrics: strongMetrics()},
			{ID: "sibling", Generation: 1, GeneratorAgentID: "gen-b",
				ParentIDs: []string{"s1"}, Metrics: strongMetrics()},
		})
		require.NoError(t, eng.RunGeneration(context.Background(), run, gen1))
	})

	t.Run("non-survivor parent rejected", func(t *testing.T) {
		gen2 := core.NewGeneration(2, []*core.Candidate{
			{ID: "orphan", Generation: 2, GeneratorAgentID: "gen-a",
				ParentIDs: []string{"loser"}, Metrics: strongMetrics()},
		})
		err := eng.RunGeneration(context.Background(), run, gen2)
		require.Error(t, err)
		assert.Equal(t, errors.UnknownReference, errors.CodeOf(err))
	})
}

func TestRunGenerationGen0ParentsRejected(t *testing.T) {
	eng := newTestEngine(t)
	run := core.NewRun("run-4", "test run", "req", testAgents())
	eng.RegisterRun(run)

	gen := core.NewGeneration(0, []*core.Candidate{
		{ID: "c1", Generation: 0, GeneratorAgentID: "gen-a",
			ParentIDs: []string{"ghost"}, Metrics: strongMetrics()},
	})

	err := eng.RunGeneration(context.Background(), run, gen)
	require.Error(t, err)
	assert.Equal(t, errors.UnknownReference, errors.CodeOf(err))
}

func TestRunGenerationRejectsInactiveRun(t *testing.T) {
	eng := newTestEngine(t)
	run := core.NewRun("run-5", "test run", "req", testAgents())
	run.Status = core.RunCompleted
	eng.RegisterRun(run)

	gen := core.NewGeneration(0, nil)
	err := eng.RunGeneration(context.Background(), run, gen)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.CodeOf(err))
}

func TestCompleteRun(t *testing.T) {
	eng := newTestEngine(t)
	run := core.NewRun("run-6", "test run", "req", testAgents())
	eng.RegisterRun(run)

	gen := core.NewGeneration(0, []*core.Candidate{
		{ID: "best", Generation: 0, GeneratorAgentID: "gen-a", Metrics: strongMetrics()},
		{ID: "second", Generation: 0, GeneratorAgentID: "gen-b", Metrics: weakishButPassing()},
	})
	require.NoError(t, eng.RunGeneration(context.Background(), run, gen))

	require.NoError(t, eng.CompleteRun(run))
	assert.Equal(t, core.RunCompleted, run.Status)
	assert.Equal(t, "best", run.FinalCandidateID)

	// Completing twice is an error.
	err := eng.CompleteRun(run)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.CodeOf(err))
}

func TestCompleteRunWithoutGenerations(t *testing.T) {
	eng := newTestEngine(t)
	run := core.NewRun("run-7", "test run", "req", testAgents())

	err := eng.CompleteRun(run)
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.CodeOf(err))
}

// weakishButPassing clears every gate but scores below strongMetrics.
func weakishButPassing() core.Metrics {
	return core.Metrics{
		TestPassRate:      0.85,
		Coverage:          0.7,
		SecurityScore:     75,
		PerformanceScore:  60,
		UXScore:           60,
		StyleScore:        65,
		LicenseCompliance: true,
	}
}
