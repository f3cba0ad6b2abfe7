package core

import (
	"github.com/evoforge/gad-go/pkg/errors"
)

// Metrics is the immutable bundle of raw quality signals reported for one
// candidate. Fractional rates live in [0,1]; reviewer scores live in [0,100].
// Values are validated on entry and never clamped.
type Metrics struct {
	TestPassRate      float64 `json:"test_pass_rate"`
	Coverage          float64 `json:"coverage"`
	SecurityScore     float64 `json:"security_score"`
	PerformanceScore  float64 `json:"performance_score"`
	UXScore           float64 `json:"ux_score"`
	StyleScore        float64 `json:"style_score"`
	LicenseCompliance bool    `json:"license_compliance"`
	VulnerabilityCount int    `json:"vulnerability_count"`
}

// Validate rejects metric values outside their declared ranges. Invalid
// metrics never enter scoring; the candidate is rejected up front.
func (m Metrics) Validate() error {
	check := func(name string, value, lo, hi float64) error {
		if value < lo || value > hi {
			return errors.WithFields(
				errors.Newf(errors.ValidationFailed, "metric %s out of range", name),
				errors.Fields{"metric": name, "value": value, "min": lo, "max": hi})
		}
		return nil
	}

	if err := check("test_pass_rate", m.TestPassRate, 0, 1); err != nil {
		return err
	}
	if err := check("coverage", m.Coverage, 0, 1); err != nil {
		return err
	}
	if err := check("security_score", m.SecurityScore, 0, 100); err != nil {
		return err
	}
	if err := check("performance_score", m.PerformanceScore, 0, 100); err != nil {
		return err
	}
	if err := check("ux_score", m.UXScore, 0, 100); err != nil {
		return err
	}
	if err := check("style_score", m.StyleScore, 0, 100); err != nil {
		return err
	}
	if m.VulnerabilityCount < 0 {
		return errors.WithFields(
			errors.New(errors.ValidationFailed, "metric vulnerability_count out of range"),
			errors.Fields{"metric": "vulnerability_count", "value": m.VulnerabilityCount, "min": 0})
	}
	return nil
}
