package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoforge/gad-go/pkg/errors"
)

func validMetrics() Metrics {
	return Metrics{
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

func TestMetricsValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Metrics)
		wantErr bool
	}{
		{
			name:   "valid metrics",
			mutate: func(m *Metrics) {},
		},
		{
			name:    "negative test pass rate",
			mutate:  func(m *Metrics) { m.TestPassRate = -0.1 },
			wantErr: true,
		},
		{
			name:    "test pass rate above one",
			mutate:  func(m *Metrics) { m.TestPassRate = 1.5 },
			wantErr: true,
		},
		{
			name:    "coverage out of bounds",
			mutate:  func(m *Metrics) { m.Coverage = 2 },
			wantErr: true,
		},
		{
			name:    "security score above scale",
			mutate:  func(m *Metrics) { m.SecurityScore = 150 },
			wantErr: true,
		},
		{
			name:    "negative vulnerability count",
			mutate:  func(m *Metrics) { m.VulnerabilityCount = -1 },
			wantErr: true,
		},
		{
			name:   "boundary values pass",
			mutate: func(m *Metrics) { m.TestPassRate = 1; m.Coverage = 0; m.SecurityScore = 100 },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := validMetrics()
			tt.mutate(&m)

			err := m.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsValidation(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
