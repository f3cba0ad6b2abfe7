// Package gad is a Go implementation of a generative agent development
// engine: an evolutionary loop that breeds candidate code solutions across
// generations using multi-criteria scoring, hard quality gates, Pareto-front
// analysis, and UCB1 bandit allocation of the generation budget.
//
// GAD-Go provides the scoring engine, selection policies, lineage tracking,
// and persistence needed to run and audit a full evolutionary process. It
// focuses on making it easy to:
//   - Score candidates on a weighted blend of quality dimensions
//   - Enforce hard gates (tests, security, vulnerabilities, licensing)
//   - Surface objective trade-offs through Pareto non-dominance
//   - Route the candidate budget toward productive generator agents
//   - Record tamper-evident DNA bundles for every surviving candidate
//
// Key Components:
//
//   - Core: The domain types shared across the system: Candidate, Generation,
//     Run, AgentProfile, Metrics, and the DNA bundle layers. Generations are
//     sealed once selected, and runs enforce gap-free generation numbering
//     and ancestry consistency.
//
//   - Engine: The per-generation evaluation pass:
//     * GateEvaluator: runs every hard gate and reports all failures
//     * Scorer: weighted aggregate with a gate-failure penalty multiplier
//     * ParetoCalculator: non-dominated subset over a configurable axis pair
//     * BreedingSelector: deterministic top-K survivor ranking and pairing
//     * UCBAllocator: UCB1 statistics and floor-then-leftover budget splitting
//
//   - Lineage: Content-addressed DNA bundles tying each survivor to its
//     prompt configuration, code artifact, evaluator state, and parent
//     hashes. Chains are verified acyclic and rooted at generation zero.
//
//   - Storage: SQLite persistence for runs, generations, and the append-only
//     bundle table, so a run's history survives the process.
//
//   - Demo: Deterministic sample runs driven through the real engine from a
//     single seed, used by the gadctl CLI.
//
// Example usage:
//
//	cfg := config.Default()
//	eng, err := engine.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	run := core.NewRun("run-1", "Auth API", requirement, agents)
//	eng.RegisterRun(run)
//
//	gen := core.NewGeneration(0, candidates)
//	if err := eng.RunGeneration(ctx, run, gen); err != nil {
//	    if errors.IsInsufficientSurvivors(err) {
//	        // breeding dead end: the run is stalled and the generation recorded
//	    }
//	    log.Fatal(err)
//	}
//
//	fmt.Println(gen.Survivors, gen.NextAllocation)
//
// GAD-Go is released under the MIT License.
package gad
