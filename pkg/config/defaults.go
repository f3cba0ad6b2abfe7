package config

import "math"

// Default returns the engine's default configuration. These match the
// canonical gate set and weight scheme the system ships with; real
// deployments override them through a config file or environment variables.
func Default() *Config {
	return &Config{
		Gates: GatesConfig{
			MinTestPassRate:          0.80,
			MinSecurityScore:         70.0,
			MaxVulnerabilities:       0,
			RequireLicenseCompliance: true,
		},
		Scoring: ScoringConfig{
			Weights: WeightsConfig{
				TestPassRate: 0.25,
				Security:     0.25,
				Performance:  0.15,
				UX:           0.15,
				Coverage:     0.10,
				Style:        0.10,
			},
			GateFailurePenalty: 0.5,
		},
		Pareto: ParetoConfig{
			AxisX:              "security",
			AxisY:              "performance",
			IncludeGateFailing: false,
		},
		Selection: SelectionConfig{
			SurvivorCount: 3,
		},
		Bandit: BanditConfig{
			ExplorationConstant: math.Sqrt2,
		},
		Population: PopulationConfig{
			Size:        8,
			Concurrency: 4,
		},
		Logging: LoggingConfig{
			Level: "INFO",
		},
	}
}
