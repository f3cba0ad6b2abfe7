package config

// Config represents the complete configuration for the gad-go engine.
// Every policy knob the engine consults lives here; nothing is compiled in.
type Config struct {
	// Hard gate thresholds
	Gates GatesConfig `yaml:"gates" validate:"required"`

	// Effective-score weighting
	Scoring ScoringConfig `yaml:"scoring" validate:"required"`

	// Pareto front policy
	Pareto ParetoConfig `yaml:"pareto" validate:"required"`

	// Survivor selection
	Selection SelectionConfig `yaml:"selection" validate:"required"`

	// UCB bandit allocation
	Bandit BanditConfig `yaml:"bandit" validate:"required"`

	// Next-generation sizing and evaluation concurrency
	Population PopulationConfig `yaml:"population" validate:"required"`

	// Logging configuration
	Logging LoggingConfig `yaml:"logging,omitempty" validate:"omitempty"`
}

// GatesConfig holds the four canonical hard gate thresholds.
type GatesConfig struct {
	// Minimum fraction of tests that must pass
	MinTestPassRate float64 `yaml:"min_test_pass_rate" validate:"min=0,max=1"`

	// Minimum security score (0-100 scale)
	MinSecurityScore float64 `yaml:"min_security_score" validate:"min=0,max=100"`

	// Maximum allowed critical vulnerabilities
	MaxVulnerabilities int `yaml:"max_vulnerabilities" validate:"min=0"`

	// Whether license compliance is required to pass
	RequireLicenseCompliance bool `yaml:"require_license_compliance"`
}

// ScoringConfig holds the weight vector and the gate-failure penalty.
type ScoringConfig struct {
	Weights WeightsConfig `yaml:"weights" validate:"required"`

	// Multiplier applied to the aggregate when any gate fails. Failure
	// demotes a candidate but never zeroes its score.
	GateFailurePenalty float64 `yaml:"gate_failure_penalty" validate:"gt=0,max=1"`
}

// WeightsConfig holds the per-dimension scoring weights. Fractional metrics
// (test pass rate, coverage) are scaled by 100 before weighting.
type WeightsConfig struct {
	TestPassRate float64 `yaml:"test_pass_rate" validate:"min=0,max=1"`
	Security     float64 `yaml:"security" validate:"min=0,max=1"`
	Performance  float64 `yaml:"performance" validate:"min=0,max=1"`
	UX           float64 `yaml:"ux" validate:"min=0,max=1"`
	Coverage     float64 `yaml:"coverage" validate:"min=0,max=1"`
	Style        float64 `yaml:"style" validate:"min=0,max=1"`
}

// Sum returns the total weight mass.
func (w WeightsConfig) Sum() float64 {
	return w.TestPassRate + w.Security + w.Performance + w.UX + w.Coverage + w.Style
}

// ParetoConfig selects the objective axis pair and the gate-eligibility
// policy for dominance comparison.
type ParetoConfig struct {
	AxisX string `yaml:"axis_x" validate:"oneof=security performance ux style coverage test_pass_rate"`
	AxisY string `yaml:"axis_y" validate:"oneof=security performance ux style coverage test_pass_rate"`

	// IncludeGateFailing lets gate-failing candidates participate in
	// dominance comparison. Default is false: only gate-passing candidates
	// are eligible for front membership.
	IncludeGateFailing bool `yaml:"include_gate_failing"`
}

// SelectionConfig controls survivor selection.
type SelectionConfig struct {
	// Number of top-ranked gate-passing candidates kept as survivors
	SurvivorCount int `yaml:"survivor_count" validate:"min=1"`
}

// BanditConfig tunes the UCB1 allocator.
type BanditConfig struct {
	// Exploration constant c in c*sqrt(ln(N)/times_selected)
	ExplorationConstant float64 `yaml:"exploration_constant" validate:"min=0"`
}

// PopulationConfig sizes the next generation and bounds evaluation
// parallelism within one generation.
type PopulationConfig struct {
	// Candidate budget distributed across generator agents each generation
	Size int `yaml:"size" validate:"min=1"`

	// Worker bound for per-candidate gate/score evaluation
	Concurrency int `yaml:"concurrency" validate:"min=1"`
}

// LoggingConfig configures the engine's logger.
type LoggingConfig struct {
	// Level is one of DEBUG, INFO, WARN, ERROR, FATAL
	Level string `yaml:"level" validate:"omitempty,oneof=DEBUG INFO WARN ERROR FATAL"`

	// File, when set, mirrors entries to a JSON-lines file
	File string `yaml:"file,omitempty"`
}
