package engine

import (
	"context"
	"fmt"

	"github.com/sourcegraph/conc/pool"

	"github.com/evoforge/gad-go/pkg/config"
	"github.com/evoforge/gad-go/pkg/core"
	"github.com/evoforge/gad-go/pkg/errors"
	"github.com/evoforge/gad-go/pkg/logging"
)

// Engine evaluates one generation at a time: gates and scoring per candidate
// (in parallel, with a join barrier), then the Pareto front, survivor
// selection, and the bandit allocation that seeds the next generation.
// Cross-generation steps are strictly sequential; the engine holds no
// process-wide run state.
type Engine struct {
	cfg       *config.Config
	gates     *GateEvaluator
	scorer    *Scorer
	pareto    *ParetoCalculator
	selector  *BreedingSelector
	allocator *UCBAllocator
}

// New creates an engine from a validated configuration.
func New(cfg *config.Config) (*Engine, error) {
	validator, err := config.NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, errors.InvalidInput, "invalid engine configuration")
	}

	return &Engine{
		cfg:       cfg,
		gates:     NewGateEvaluator(cfg.Gates),
		scorer:    NewScorer(cfg.Scoring),
		pareto:    NewParetoCalculator(cfg.Pareto),
		selector:  NewBreedingSelector(cfg.Selection),
		allocator: NewUCBAllocator(cfg.Bandit),
	}, nil
}

// Allocator exposes the bandit state for inspection and persistence.
func (e *Engine) Allocator() *UCBAllocator {
	return e.allocator
}

// RegisterRun makes the run's generator agents known to the bandit
// allocator. Call once before the first generation.
func (e *Engine) RegisterRun(run *core.Run) {
	for _, a := range run.Agents {
		if a.Type == core.AgentGenerator {
			e.allocator.RegisterAgent(a.ID)
		}
	}
}

// Evaluate validates raw metrics and computes gates and effective scores for
// every candidate. Per-candidate computation is independent, so it runs
// across a bounded worker pool with a join barrier before returning.
func (e *Engine) Evaluate(ctx context.Context, candidates []*core.Candidate) error {
	if err := errors.CheckContext(ctx, "evaluate"); err != nil {
		return err
	}

	// Reject invalid metrics before any scoring happens.
	for _, c := range candidates {
		if err := c.Metrics.Validate(); err != nil {
			return errors.WithFields(err, errors.Fields{"candidate": c.ID})
		}
	}

	p := pool.New().WithMaxGoroutines(e.cfg.Population.Concurrency)
	for _, candidate := range candidates {
		candidate := candidate
		p.Go(func() {
			passed, results := e.gates.Evaluate(candidate.Metrics)
			score, weighted := e.scorer.Score(candidate.Metrics, passed)

			candidate.GatesPassed = passed
			candidate.GateResults = results
			candidate.EffectiveScore = score
			candidate.WeightedScores = weighted
		})
	}
	p.Wait()

	return nil
}

// ParetoFront computes the non-dominated subset of the given candidates
// under the configured axis pair.
func (e *Engine) ParetoFront(candidates []*core.Candidate) ([]core.ParetoPoint, error) {
	return e.pareto.Front(candidates)
}

// SelectSurvivors ranks the candidates and returns survivor ids and breeding
// pairs.
func (e *Engine) SelectSurvivors(candidates []*core.Candidate) ([]string, []core.BreedingPair, error) {
	return e.selector.Select(candidates)
}

// UpdateAllocation folds one generation's per-agent outcomes into the bandit
// statistics and returns the updated stats plus the next generation's
// per-agent candidate budget.
func (e *Engine) UpdateAllocation(outcomes map[string][]float64) ([]core.UCBStats, map[string]int, error) {
	if err := e.allocator.Update(outcomes); err != nil {
		return nil, nil, err
	}
	return e.allocator.Allocate(e.cfg.Population.Size)
}

// RunGeneration performs the full evaluation pass for one generation and
// appends it, sealed, to the run. On an InsufficientSurvivors outcome the
// generation is still recorded and the run is marked stalled; the error is
// returned so the caller can surface the terminal condition.
func (e *Engine) RunGeneration(ctx context.Context, run *core.Run, gen *core.Generation) error {
	logger := logging.GetLogger()
	ctx = logging.WithGeneration(logging.WithRunID(ctx, run.ID), gen.Number)

	if run.Status != core.RunActive {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "run is not active"),
			errors.Fields{"run": run.ID, "status": string(run.Status)})
	}
	if err := gen.CheckMutable(); err != nil {
		return err
	}

	// Lineage consistency before anything derived is computed.
	for _, c := range gen.Candidates {
		agent := run.Agent(c.GeneratorAgentID)
		if agent == nil || agent.Type != core.AgentGenerator {
			return errors.WithFields(
				errors.New(errors.UnknownReference, "candidate references unknown generator agent"),
				errors.Fields{"candidate": c.ID, "agent": c.GeneratorAgentID})
		}
	}
	if err := run.VerifyParents(gen.Candidates); err != nil {
		return err
	}
	if err := e.verifyParentsAreSurvivors(run, gen); err != nil {
		return err
	}

	logger.Info(ctx, "Evaluating generation: candidates=%d", len(gen.Candidates))

	if err := e.Evaluate(ctx, gen.Candidates); err != nil {
		return err
	}

	front, err := e.pareto.Front(gen.Candidates)
	if err != nil {
		return err
	}
	gen.ParetoFront = front
	gen.ParetoCount = len(front)
	onFront := make(map[string]bool, len(front))
	for _, pt := range front {
		onFront[pt.CandidateID] = true
	}
	for _, c := range gen.Candidates {
		c.IsParetoFront = onFront[c.ID]
	}

	e.updateGenerationStats(gen)
	e.updateAgentProfiles(run, gen)

	survivors, pairs, selErr := e.selector.Select(gen.Candidates)
	if selErr != nil {
		if !errors.IsInsufficientSurvivors(selErr) {
			return selErr
		}
		// Dead end: record the generation, stall the run, surface the error.
		run.Status = core.RunStalled
		gen.Summary = fmt.Sprintf("Generation %d: %d candidates, breeding dead end (insufficient gate-passing candidates)",
			gen.Number, len(gen.Candidates))
		gen.Seal()
		if err := run.AppendGeneration(gen); err != nil {
			return err
		}
		logger.Warn(ctx, "Run stalled: insufficient survivors")
		return selErr
	}

	gen.Survivors = survivors
	gen.BreedingPairs = pairs
	for _, id := range survivors {
		c := gen.Candidate(id)
		c.SelectedForBreeding = true
		if c.IsParetoFront {
			c.SurvivalReason = "Pareto optimal (objective trade-off)"
		} else {
			c.SurvivalReason = "High effective score with all gates passed"
		}
	}

	outcomes := make(map[string][]float64)
	for _, c := range gen.Candidates {
		outcomes[c.GeneratorAgentID] = append(outcomes[c.GeneratorAgentID], c.EffectiveScore)
	}
	if err := e.allocator.Update(outcomes); err != nil {
		return err
	}
	stats, counts, err := e.allocator.Allocate(e.cfg.Population.Size)
	if err != nil {
		return err
	}
	gen.UCBAllocations = stats
	gen.NextAllocation = counts

	gen.Summary = fmt.Sprintf("Generation %d: %d candidates, %d on Pareto front, %d survivors",
		gen.Number, len(gen.Candidates), gen.ParetoCount, len(survivors))
	gen.Seal()
	if err := run.AppendGeneration(gen); err != nil {
		return err
	}

	logger.Info(ctx, "Generation sealed: survivors=%d, pairs=%d, best_score=%.2f",
		len(survivors), len(pairs), gen.BestScore)
	return nil
}

// CompleteRun finalizes an active run, recording the best survivor of the
// last generation as the final candidate.
func (e *Engine) CompleteRun(run *core.Run) error {
	if run.Status != core.RunActive {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "run is not active"),
			errors.Fields{"run": run.ID, "status": string(run.Status)})
	}
	last := run.LatestGeneration()
	if last == nil {
		return errors.New(errors.InvalidInput, "run has no generations")
	}
	if len(last.Survivors) > 0 {
		run.FinalCandidateID = last.Survivors[0]
	}
	run.Status = core.RunCompleted
	return nil
}

// verifyParentsAreSurvivors checks that every referenced parent was selected
// for breeding in the preceding generation. The survivor set of generation n
// is the contract for generation n+1's ancestry.
func (e *Engine) verifyParentsAreSurvivors(run *core.Run, gen *core.Generation) error {
	if gen.Number == 0 {
		for _, c := range gen.Candidates {
			if len(c.ParentIDs) > 0 {
				return errors.WithFields(
					errors.New(errors.UnknownReference, "generation-0 candidate cannot have parents"),
					errors.Fields{"candidate": c.ID})
			}
		}
		return nil
	}

	prev := run.Generation(gen.Number - 1)
	if prev == nil {
		return errors.WithFields(
			errors.New(errors.UnknownReference, "previous generation missing"),
			errors.Fields{"generation": gen.Number})
	}
	surviving := make(map[string]bool, len(prev.Survivors))
	for _, id := range prev.Survivors {
		surviving[id] = true
	}
	for _, c := range gen.Candidates {
		for _, pid := range c.ParentIDs {
			if !surviving[pid] {
				return errors.WithFields(
					errors.New(errors.UnknownReference, "parent is not a survivor of the previous generation"),
					errors.Fields{"candidate": c.ID, "parent": pid})
			}
		}
	}
	return nil
}

func (e *Engine) updateGenerationStats(gen *core.Generation) {
	if len(gen.Candidates) == 0 {
		return
	}
	sum, best := 0.0, 0.0
	for _, c := range gen.Candidates {
		sum += c.EffectiveScore
		if c.EffectiveScore > best {
			best = c.EffectiveScore
		}
	}
	gen.AvgScore = sum / float64(len(gen.Candidates))
	gen.BestScore = best
}

func (e *Engine) updateAgentProfiles(run *core.Run, gen *core.Generation) {
	participated := make(map[string]bool)
	passing := make(map[string]int)
	for _, c := range gen.Candidates {
		participated[c.GeneratorAgentID] = true
		if c.GatesPassed {
			passing[c.GeneratorAgentID]++
		}
	}
	for _, a := range run.Agents {
		if !participated[a.ID] {
			continue
		}
		a.GenerationsParticipated++
		if a.Type == core.AgentGenerator {
			n := passing[a.ID]
			if a.SuccessfulCandidates == nil {
				a.SuccessfulCandidates = &n
			} else {
				*a.SuccessfulCandidates += n
			}
		}
	}
}
