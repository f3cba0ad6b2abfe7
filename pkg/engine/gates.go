package engine

import (
	"github.com/evoforge/gad-go/pkg/config"
	"github.com/evoforge/gad-go/pkg/core"
)

// Canonical gate names, in fixed reporting order.
const (
	GateTestPassRate    = "Minimum Test Pass Rate"
	GateSecurity        = "Security Threshold"
	GateVulnerabilities = "Zero Critical Vulnerabilities"
	GateLicense         = "License Compliance"
)

// GateEvaluator applies the hard pass/fail thresholds to a candidate's raw
// metrics. It is a pure function of the metrics: no side effects, no
// short-circuiting, every gate reported even after the first failure.
type GateEvaluator struct {
	cfg config.GatesConfig
}

// NewGateEvaluator creates an evaluator with the given thresholds.
func NewGateEvaluator(cfg config.GatesConfig) *GateEvaluator {
	return &GateEvaluator{cfg: cfg}
}

// Evaluate runs all four canonical gates against the metrics and returns the
// ordered results plus their conjunction.
func (e *GateEvaluator) Evaluate(m core.Metrics) (bool, []core.GateResult) {
	results := []core.GateResult{
		{
			GateName:  GateTestPassRate,
			Passed:    m.TestPassRate >= e.cfg.MinTestPassRate,
			Message:   "All critical tests must pass",
			Threshold: f64ptr(e.cfg.MinTestPassRate),
			Actual:    f64ptr(m.TestPassRate),
		},
		{
			GateName:  GateSecurity,
			Passed:    m.SecurityScore >= e.cfg.MinSecurityScore,
			Message:   "Security score must meet minimum threshold",
			Threshold: f64ptr(e.cfg.MinSecurityScore),
			Actual:    f64ptr(m.SecurityScore),
		},
		{
			GateName:  GateVulnerabilities,
			Passed:    m.VulnerabilityCount <= e.cfg.MaxVulnerabilities,
			Message:   "No critical vulnerabilities allowed",
			Threshold: f64ptr(float64(e.cfg.MaxVulnerabilities)),
			Actual:    f64ptr(float64(m.VulnerabilityCount)),
		},
		{
			GateName: GateLicense,
			Passed:   m.LicenseCompliance || !e.cfg.RequireLicenseCompliance,
			Message:  "All dependencies must have compatible licenses",
		},
	}

	allPassed := true
	for _, r := range results {
		if !r.Passed {
			allPassed = false
		}
	}
	return allPassed, results
}

func f64ptr(v float64) *float64 {
	return &v
}
