package engine

import (
	"sort"

	"github.com/evoforge/gad-go/pkg/config"
	"github.com/evoforge/gad-go/pkg/core"
	"github.com/evoforge/gad-go/pkg/errors"
)

// Axis names an objective dimension usable for dominance comparison.
type Axis string

const (
	AxisSecurity     Axis = "security"
	AxisPerformance  Axis = "performance"
	AxisUX           Axis = "ux"
	AxisStyle        Axis = "style"
	AxisCoverage     Axis = "coverage"
	AxisTestPassRate Axis = "test_pass_rate"
)

// Value extracts the axis value from a candidate's metrics. Fractional
// metrics are scaled to 0-100 so any axis pairing shares one scale.
func (a Axis) Value(m core.Metrics) (float64, error) {
	switch a {
	case AxisSecurity:
		return m.SecurityScore, nil
	case AxisPerformance:
		return m.PerformanceScore, nil
	case AxisUX:
		return m.UXScore, nil
	case AxisStyle:
		return m.StyleScore, nil
	case AxisCoverage:
		return m.Coverage * 100, nil
	case AxisTestPassRate:
		return m.TestPassRate * 100, nil
	default:
		return 0, errors.WithFields(
			errors.New(errors.InvalidInput, "unknown pareto axis"),
			errors.Fields{"axis": string(a)})
	}
}

// ParetoCalculator computes the non-dominated subset of a generation across
// a configured pair of objective axes. Pairwise O(n²) comparison; generation
// sizes are in the tens so no sweep-line machinery is needed.
type ParetoCalculator struct {
	cfg config.ParetoConfig
}

// NewParetoCalculator creates a calculator for the configured axis pair and
// gate-eligibility policy.
func NewParetoCalculator(cfg config.ParetoConfig) *ParetoCalculator {
	return &ParetoCalculator{cfg: cfg}
}

// Front returns the Pareto points of the non-dominated candidates, sorted by
// candidate id so the result is independent of input ordering. Gate-failing
// candidates participate only when the policy flag allows them.
func (p *ParetoCalculator) Front(candidates []*core.Candidate) ([]core.ParetoPoint, error) {
	ax, ay := Axis(p.cfg.AxisX), Axis(p.cfg.AxisY)

	eligible := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.GatesPassed || p.cfg.IncludeGateFailing {
			eligible = append(eligible, c)
		}
	}

	front := make([]core.ParetoPoint, 0, len(eligible))
	for _, c := range eligible {
		cx, err := ax.Value(c.Metrics)
		if err != nil {
			return nil, err
		}
		cy, err := ay.Value(c.Metrics)
		if err != nil {
			return nil, err
		}

		dominated := false
		for _, other := range eligible {
			if other.ID == c.ID {
				continue
			}
			ox, err := ax.Value(other.Metrics)
			if err != nil {
				return nil, err
			}
			oy, err := ay.Value(other.Metrics)
			if err != nil {
				return nil, err
			}
			if dominates(ox, oy, cx, cy) {
				dominated = true
				break
			}
		}

		if !dominated {
			front = append(front, core.ParetoPoint{
				CandidateID: c.ID,
				Objective1:  cx,
				Objective2:  cy,
				Label:       c.ID,
			})
		}
	}

	sort.Slice(front, func(i, j int) bool {
		return front[i].CandidateID < front[j].CandidateID
	})
	return front, nil
}

// dominates reports whether point (ax, ay) dominates point (bx, by): at
// least as good on both axes and strictly better on at least one. Candidates
// with identical coordinates do not dominate each other, so ties are both
// kept on the front.
func dominates(ax, ay, bx, by float64) bool {
	if ax < bx || ay < by {
		return false
	}
	return ax > bx || ay > by
}
