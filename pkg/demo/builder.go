// Package demo builds deterministic, illustrative evolution runs through the
// real engine. All randomness flows from one injected seeded generator;
// nothing here touches ambient global state, so the same seed always yields
// the same run.
package demo

import (
	"context"
	"fmt"
	"math/rand"
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/evoforge/gad-go/pkg/config"
	"github.com/evoforge/gad-go/pkg/core"
	"github.com/evoforge/gad-go/pkg/engine"
	"github.com/evoforge/gad-go/pkg/errors"
	"github.com/evoforge/gad-go/pkg/lineage"
)

const requirement = "Implement a secure REST API endpoint for user authentication with JWT tokens. " +
	"The system must handle login, token validation, and refresh. " +
	"All inputs must be validated, passwords must be hashed with bcrypt, " +
	"and the system must be rate-limited to prevent abuse."

// baseTime anchors all demo timestamps so runs are reproducible byte for
// byte.
var baseTime = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

// Builder produces sample runs from a seed.
type Builder struct {
	cfg     *config.Config
	eng     *engine.Engine
	rng     *rand.Rand
	tracker *lineage.Tracker
	seed    int64
}

// NewBuilder creates a builder with its own engine and seeded generator.
func NewBuilder(cfg *config.Config, seed int64) (*Builder, error) {
	eng, err := engine.New(cfg)
	if err != nil {
		return nil, err
	}
	return &Builder{
		cfg:     cfg,
		eng:     eng,
		rng:     rand.New(rand.NewSource(seed)),
		tracker: lineage.NewTracker(lineage.WithClock(func() time.Time { return baseTime })),
		seed:    seed,
	}, nil
}

// Tracker exposes the lineage tracker holding the run's DNA bundles.
func (b *Builder) Tracker() *lineage.Tracker {
	return b.tracker
}

// BuildRun evolves a sample run for up to the given number of generations,
// stopping early if a generation dead-ends. The returned run is completed or
// stalled, never active.
func (b *Builder) BuildRun(ctx context.Context, generations int) (*core.Run, error) {
	agents := Agents()
	runID := uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("gad-demo-run-%d", b.seed))).String()
	run := core.NewRun(runID, "JWT Authentication API Implementation", requirement, agents)
	b.eng.RegisterRun(run)

	var prevSurvivors []string
	var prevPairs []core.BreedingPair

	for genNum := 0; genNum < generations; genNum++ {
		candidates := b.buildCandidates(run, genNum, prevSurvivors, prevPairs)

		// Evaluate first so reviewer comments can react to gate outcomes,
		// then run the full generation pass (evaluation is pure, so the
		// second pass computes identical results).
		if err := b.eng.Evaluate(ctx, candidates); err != nil {
			return nil, err
		}
		at := baseTime.Add(time.Duration(genNum) * time.Minute)
		for _, c := range candidates {
			c.ReviewerComments = sampleComments(c.Metrics, c.GatesPassed, at)
		}

		gen := core.NewGeneration(genNum, candidates)
		if err := b.eng.RunGeneration(ctx, run, gen); err != nil {
			if errors.IsInsufficientSurvivors(err) {
				return run, nil
			}
			return nil, err
		}

		if err := b.buildBundles(run, gen); err != nil {
			return nil, err
		}

		prevSurvivors = gen.Survivors
		prevPairs = gen.BreedingPairs
	}

	if run.Status == core.RunActive {
		if err := b.eng.CompleteRun(run); err != nil {
			return nil, err
		}
	}
	if err := b.tracker.VerifyChain(run); err != nil {
		return nil, err
	}
	return run, nil
}

// buildCandidates synthesizes one generation's raw candidates. Generation 0
// splits the budget evenly across generators; later generations follow the
// bandit allocation computed by the previous generation.
func (b *Builder) buildCandidates(run *core.Run, genNum int, survivors []string, pairs []core.BreedingPair) []*core.Candidate {
	counts := b.agentCounts(run, genNum)

	agentIDs := make([]string, 0, len(counts))
	for id := range counts {
		agentIDs = append(agentIDs, id)
	}
	sort.Strings(agentIDs)

	var candidates []*core.Candidate
	i := 0
	for _, agentID := range agentIDs {
		for n := 0; n < counts[agentID]; n++ {
			id := fmt.Sprintf("gen%d-cand%d", genNum, i)

			var parents []string
			if genNum > 0 {
				if len(pairs) > 0 && b.rng.Float64() > 0.3 {
					pair := pairs[i%len(pairs)]
					parents = []string{pair.ParentA, pair.ParentB}
				} else if len(survivors) > 0 {
					parents = []string{survivors[i%len(survivors)]}
				}
			}

			// Quality improves over generations.
			isGood := b.rng.Float64() < 0.3+float64(genNum)*0.15
			dna := samplePromptDNA(b.rng, genNum, id, parents)

			candidates = append(candidates, &core.Candidate{
				ID:               id,
				Generation:       genNum,
				ParentIDs:        parents,
				PromptDNAID:      dna.ID,
				PromptDNASummary: truncate(dna.TaskDescription, 100),
				Metrics:          sampleMetrics(b.rng, isGood),
				Branch:           fmt.Sprintf("gad/gen%d/%s", genNum, id),
				CommitID:         fmt.Sprintf("%08x%08x", b.rng.Uint32(), b.rng.Uint32()),
				GeneratorAgentID: agentID,
			})
			i++
		}
	}
	return candidates
}

func (b *Builder) agentCounts(run *core.Run, genNum int) map[string]int {
	if genNum > 0 {
		if last := run.LatestGeneration(); last != nil && len(last.NextAllocation) > 0 {
			return last.NextAllocation
		}
	}

	var generators []string
	for _, a := range run.Agents {
		if a.Type == core.AgentGenerator {
			generators = append(generators, a.ID)
		}
	}
	sort.Strings(generators)

	counts := make(map[string]int, len(generators))
	for i := 0; i < b.cfg.Population.Size; i++ {
		counts[generators[i%len(generators)]]++
	}
	return counts
}

// buildBundles materializes DNA bundles for the generation's survivors.
func (b *Builder) buildBundles(run *core.Run, gen *core.Generation) error {
	for _, id := range gen.Survivors {
		cand := gen.Candidate(id)

		var ucb []core.UCBStats
		for _, s := range gen.UCBAllocations {
			if s.AgentID == cand.GeneratorAgentID {
				ucb = append(ucb, s)
			}
		}

		_, err := b.tracker.Build(lineage.BundleInput{
			Candidate:   cand,
			PromptLayer: samplePromptDNA(b.rng, cand.Generation, cand.ID, cand.ParentIDs),
			CodeLayer: core.CodeLayer{
				Branch:       cand.Branch,
				CommitID:     cand.CommitID,
				DiffSummary:  "Added JWT authentication with bcrypt password hashing",
				FilesChanged: 5,
				LinesAdded:   234,
				LinesRemoved: 12,
			},
			EvaluatorLayer: core.EvaluatorLayer{
				ReviewerReliabilities: reviewerReliabilities(run.Agents),
				AntiCheatSeed:         "seed-" + cand.ID,
				UCBStats:              ucb,
				PolicyVersion:         "v1.2.0",
			},
		})
		if err != nil {
			return err
		}
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
