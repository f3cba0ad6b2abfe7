package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Source represents a configuration source.
type Source interface {
	// Load loads configuration from the source into the provided config
	Load(config *Config) error

	// Name returns the name of the source
	Name() string

	// Priority returns the priority of the source (higher priority overrides lower)
	Priority() int
}

// FileSource loads configuration from a YAML file.
type FileSource struct {
	path     string
	priority int
}

// NewFileSource creates a new file source.
func NewFileSource(path string) *FileSource {
	return &FileSource{path: path, priority: 100}
}

// Name returns the name of the file source.
func (fs *FileSource) Name() string {
	return "file"
}

// Priority returns the priority of the file source.
func (fs *FileSource) Priority() int {
	return fs.priority
}

// Load loads configuration from the YAML file. A missing file is not an
// error; the config simply keeps its prior values.
func (fs *FileSource) Load(config *Config) error {
	data, err := os.ReadFile(fs.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read config file %s: %w", fs.path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return fmt.Errorf("failed to parse YAML from %s: %w", fs.path, err)
	}

	return nil
}

// EnvSource overrides individual fields from GAD_-prefixed environment
// variables.
type EnvSource struct {
	priority int
}

// NewEnvSource creates a new environment source.
func NewEnvSource() *EnvSource {
	return &EnvSource{priority: 200}
}

// Name returns the name of the environment source.
func (es *EnvSource) Name() string {
	return "env"
}

// Priority returns the priority of the environment source.
func (es *EnvSource) Priority() int {
	return es.priority
}

// Load applies environment overrides to the config.
func (es *EnvSource) Load(config *Config) error {
	floatVars := map[string]*float64{
		"GAD_GATES_MIN_TEST_PASS_RATE":  &config.Gates.MinTestPassRate,
		"GAD_GATES_MIN_SECURITY_SCORE":  &config.Gates.MinSecurityScore,
		"GAD_SCORING_PENALTY":           &config.Scoring.GateFailurePenalty,
		"GAD_BANDIT_EXPLORATION":        &config.Bandit.ExplorationConstant,
		"GAD_WEIGHTS_TEST_PASS_RATE":    &config.Scoring.Weights.TestPassRate,
		"GAD_WEIGHTS_SECURITY":          &config.Scoring.Weights.Security,
		"GAD_WEIGHTS_PERFORMANCE":       &config.Scoring.Weights.Performance,
		"GAD_WEIGHTS_UX":                &config.Scoring.Weights.UX,
		"GAD_WEIGHTS_COVERAGE":          &config.Scoring.Weights.Coverage,
		"GAD_WEIGHTS_STYLE":             &config.Scoring.Weights.Style,
	}
	for name, target := range floatVars {
		raw, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
		*target = v
	}

	intVars := map[string]*int{
		"GAD_GATES_MAX_VULNERABILITIES": &config.Gates.MaxVulnerabilities,
		"GAD_SELECTION_SURVIVOR_COUNT":  &config.Selection.SurvivorCount,
		"GAD_POPULATION_SIZE":           &config.Population.Size,
		"GAD_POPULATION_CONCURRENCY":    &config.Population.Concurrency,
	}
	for name, target := range intVars {
		raw, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		v, err := strconv.Atoi(raw)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
		*target = v
	}

	stringVars := map[string]*string{
		"GAD_PARETO_AXIS_X": &config.Pareto.AxisX,
		"GAD_PARETO_AXIS_Y": &config.Pareto.AxisY,
		"GAD_LOG_LEVEL":     &config.Logging.Level,
		"GAD_LOG_FILE":      &config.Logging.File,
	}
	for name, target := range stringVars {
		if raw, ok := os.LookupEnv(name); ok {
			*target = raw
		}
	}

	boolVars := map[string]*bool{
		"GAD_GATES_REQUIRE_LICENSE":  &config.Gates.RequireLicenseCompliance,
		"GAD_PARETO_INCLUDE_FAILING": &config.Pareto.IncludeGateFailing,
	}
	for name, target := range boolVars {
		raw, ok := os.LookupEnv(name)
		if !ok {
			continue
		}
		v, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("invalid value for %s: %w", name, err)
		}
		*target = v
	}

	return nil
}

// Load builds a configuration from defaults plus the given sources, applied
// in priority order, and validates the result.
func Load(sources ...Source) (*Config, error) {
	cfg := Default()

	ordered := make([]Source, len(sources))
	copy(ordered, sources)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Priority() < ordered[j].Priority()
	})

	for _, src := range ordered {
		if err := src.Load(cfg); err != nil {
			return nil, fmt.Errorf("config source %s: %w", src.Name(), err)
		}
	}

	validator, err := NewValidator()
	if err != nil {
		return nil, err
	}
	if err := validator.ValidateConfig(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
