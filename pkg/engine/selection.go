package engine

import (
	"sort"

	"github.com/evoforge/gad-go/pkg/config"
	"github.com/evoforge/gad-go/pkg/core"
	"github.com/evoforge/gad-go/pkg/errors"
)

// BreedingSelector picks survivors from an evaluated generation and forms
// the breeding pairs that seed the next one. Selection is deterministic:
// descending effective score with ties broken by ascending candidate id
// gives a total order, so the same sealed generation always yields the same
// survivors and pairs.
type BreedingSelector struct {
	cfg config.SelectionConfig
}

// NewBreedingSelector creates a selector keeping the configured number of
// survivors.
func NewBreedingSelector(cfg config.SelectionConfig) *BreedingSelector {
	return &BreedingSelector{cfg: cfg}
}

// Select returns survivor ids in rank order and the breeding pairs. Fewer
// than two gate-passing candidates is a terminal condition for the run: an
// InsufficientSurvivors error is returned and survivors are empty.
func (s *BreedingSelector) Select(candidates []*core.Candidate) ([]string, []core.BreedingPair, error) {
	passing := make([]*core.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if c.GatesPassed {
			passing = append(passing, c)
		}
	}

	if len(passing) < 2 {
		return nil, nil, errors.WithFields(
			errors.New(errors.InsufficientSurvivors, "fewer than two gate-passing candidates"),
			errors.Fields{"passing": len(passing), "candidates": len(candidates)})
	}

	sort.Slice(passing, func(i, j int) bool {
		if passing[i].EffectiveScore != passing[j].EffectiveScore {
			return passing[i].EffectiveScore > passing[j].EffectiveScore
		}
		return passing[i].ID < passing[j].ID
	})

	k := s.cfg.SurvivorCount
	if k > len(passing) {
		k = len(passing)
	}

	survivors := make([]string, 0, k)
	for _, c := range passing[:k] {
		survivors = append(survivors, c.ID)
	}

	// Pair the top-ranked survivor with each other survivor in rank order.
	// Never a survivor with itself, never duplicate unordered pairs.
	pairs := make([]core.BreedingPair, 0, len(survivors)-1)
	for _, other := range survivors[1:] {
		pairs = append(pairs, core.BreedingPair{ParentA: survivors[0], ParentB: other})
	}

	return survivors, pairs, nil
}
