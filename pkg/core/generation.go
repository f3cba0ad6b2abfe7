package core

import (
	"github.com/evoforge/gad-go/pkg/errors"
)

// BreedingPair joins two survivors selected as parents for the next
// generation. Pairs are unordered; A is always the higher-ranked survivor.
type BreedingPair struct {
	ParentA string `json:"parent_a"`
	ParentB string `json:"parent_b"`
}

// ParetoPoint is a candidate's position on the generation's objective plane.
type ParetoPoint struct {
	CandidateID string  `json:"candidate_id"`
	Objective1  float64 `json:"objective1"`
	Objective2  float64 `json:"objective2"`
	Label       string  `json:"label"`
}

// Generation holds the full candidate list produced at one step, the derived
// selection results, and the bandit allocation snapshot that seeds the next
// generation. A generation is sealed once its survivors are computed; sealed
// generations reject further mutation.
type Generation struct {
	Number         int            `json:"number"`
	Candidates     []*Candidate   `json:"candidates"`
	ParetoFront    []ParetoPoint  `json:"pareto_front"`
	UCBAllocations []UCBStats     `json:"ucb_allocations"`
	NextAllocation map[string]int `json:"next_allocation,omitempty"`
	Survivors      []string       `json:"survivors"`
	BreedingPairs  []BreedingPair `json:"breeding_pairs"`

	// Summary statistics
	Summary     string  `json:"summary"`
	AvgScore    float64 `json:"avg_score"`
	BestScore   float64 `json:"best_score"`
	ParetoCount int     `json:"pareto_count"`

	sealed bool
}

// NewGeneration creates an unsealed generation for the given step number.
func NewGeneration(number int, candidates []*Candidate) *Generation {
	return &Generation{
		Number:     number,
		Candidates: candidates,
	}
}

// Seal marks the generation read-only. Survivor and allocation data must be
// final before sealing.
func (g *Generation) Seal() {
	g.sealed = true
}

// Sealed reports whether the generation has been finalized.
func (g *Generation) Sealed() bool {
	return g.sealed
}

// CheckMutable returns an error when the generation is already sealed.
func (g *Generation) CheckMutable() error {
	if g.sealed {
		return errors.WithFields(
			errors.New(errors.GenerationSealed, "generation is sealed"),
			errors.Fields{"generation": g.Number})
	}
	return nil
}

// Candidate returns the candidate with the given id, or nil.
func (g *Generation) Candidate(id string) *Candidate {
	for _, c := range g.Candidates {
		if c.ID == id {
			return c
		}
	}
	return nil
}
