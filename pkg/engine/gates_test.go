package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoforge/gad-go/pkg/config"
	"github.com/evoforge/gad-go/pkg/core"
)

func passingMetrics() core.Metrics {
	return core.Metrics{
		TestPassRate:       0.95,
		Coverage:           0.9,
		SecurityScore:      90,
		PerformanceScore:   85,
		UXScore:            80,
		StyleScore:         90,
		LicenseCompliance:  true,
		VulnerabilityCount: 0,
	}
}

func TestGateEvaluatorAllPass(t *testing.T) {
	eval := NewGateEvaluator(config.Default().Gates)

	passed, results := eval.Evaluate(passingMetrics())

	assert.True(t, passed)
	require.Len(t, results, 4)
	for _, r := range results {
		assert.True(t, r.Passed, "gate %s should pass", r.GateName)
	}
}

func TestGateEvaluatorReportsAllGates(t *testing.T) {
	eval := NewGateEvaluator(config.Default().Gates)

	m := core.Metrics{
		TestPassRate:       0.5,
		Coverage:           0.5,
		SecurityScore:      40,
		PerformanceScore:   50,
		UXScore:            50,
		StyleScore:         60,
		LicenseCompliance:  false,
		VulnerabilityCount: 3,
	}
	passed, results := eval.Evaluate(m)

	assert.False(t, passed)
	// No short-circuit: all four gates reported even though the first fails.
	require.Len(t, results, 4)
	for _, r := range results {
		assert.False(t, r.Passed, "gate %s should fail", r.GateName)
	}

	// Fixed reporting order.
	assert.Equal(t, GateTestPassRate, results[0].GateName)
	assert.Equal(t, GateSecurity, results[1].GateName)
	assert.Equal(t, GateVulnerabilities, results[2].GateName)
	assert.Equal(t, GateLicense, results[3].GateName)
}

func TestGateEvaluatorTestPassRateThreshold(t *testing.T) {
	eval := NewGateEvaluator(config.Default().Gates)

	// Everything else perfect: a sub-threshold pass rate alone fails gating.
	m := passingMetrics()
	m.TestPassRate = 0.79
	passed, results := eval.Evaluate(m)

	assert.False(t, passed)
	assert.False(t, results[0].Passed)
	assert.Equal(t, 0.80, *results[0].Threshold)
	assert.Equal(t, 0.79, *results[0].Actual)

	// Boundary value passes.
	m.TestPassRate = 0.80
	passed, _ = eval.Evaluate(m)
	assert.True(t, passed)
}

func TestGateEvaluatorConfigurableThresholds(t *testing.T) {
	cfg := config.GatesConfig{
		MinTestPassRate:          0.5,
		MinSecurityScore:         30,
		MaxVulnerabilities:       5,
		RequireLicenseCompliance: false,
	}
	eval := NewGateEvaluator(cfg)

	m := core.Metrics{
		TestPassRate:       0.6,
		SecurityScore:      40,
		VulnerabilityCount: 3,
		LicenseCompliance:  false,
	}
	passed, _ := eval.Evaluate(m)
	assert.True(t, passed)
}
