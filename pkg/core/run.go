package core

import (
	"github.com/evoforge/gad-go/pkg/errors"
)

// RunStatus tracks the lifecycle of a run.
type RunStatus string

const (
	RunActive    RunStatus = "active"
	RunCompleted RunStatus = "completed"
	// RunStalled marks a run whose latest generation produced fewer than two
	// gate-passing candidates. No further generations are produced.
	RunStalled RunStatus = "stalled"
)

// Run is the explicit aggregate for one full evolutionary process. Every
// engine call receives the run it operates on; there is no process-wide
// current-run state.
type Run struct {
	ID          string          `json:"id"`
	Name        string          `json:"name"`
	Requirement string          `json:"requirement"`
	Status      RunStatus       `json:"status"`
	Agents      []*AgentProfile `json:"agents"`
	Generations []*Generation   `json:"generations"`

	FinalCandidateID string `json:"final_candidate_id,omitempty"`
}

// NewRun creates an active run with no generations yet.
func NewRun(id, name, requirement string, agents []*AgentProfile) *Run {
	return &Run{
		ID:          id,
		Name:        name,
		Requirement: requirement,
		Status:      RunActive,
		Agents:      agents,
	}
}

// Agent returns the profile for the given agent id, or nil.
func (r *Run) Agent(id string) *AgentProfile {
	for _, a := range r.Agents {
		if a.ID == id {
			return a
		}
	}
	return nil
}

// Generation returns the generation with the given number, or nil.
func (r *Run) Generation(number int) *Generation {
	if number < 0 || number >= len(r.Generations) {
		return nil
	}
	return r.Generations[number]
}

// LatestGeneration returns the most recent generation, or nil for a fresh run.
func (r *Run) LatestGeneration() *Generation {
	if len(r.Generations) == 0 {
		return nil
	}
	return r.Generations[len(r.Generations)-1]
}

// Candidate searches all generations for the candidate with the given id.
func (r *Run) Candidate(id string) *Candidate {
	for _, g := range r.Generations {
		if c := g.Candidate(id); c != nil {
			return c
		}
	}
	return nil
}

// AppendGeneration attaches a sealed generation, enforcing the strictly
// increasing, gap-free numbering invariant and candidate/generation number
// agreement.
func (r *Run) AppendGeneration(g *Generation) error {
	if g.Number != len(r.Generations) {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "generation number out of sequence"),
			errors.Fields{"expected": len(r.Generations), "got": g.Number})
	}
	if !g.Sealed() {
		return errors.WithFields(
			errors.New(errors.InvalidInput, "cannot append unsealed generation"),
			errors.Fields{"generation": g.Number})
	}
	for _, c := range g.Candidates {
		if c.Generation != g.Number {
			return errors.WithFields(
				errors.New(errors.InvalidInput, "candidate generation number mismatch"),
				errors.Fields{"candidate": c.ID, "candidate_generation": c.Generation, "generation": g.Number})
		}
	}
	r.Generations = append(r.Generations, g)
	return nil
}

// VerifyParents checks that every parent id on the given candidates resolves
// to a candidate from a strictly earlier generation of this run. A failure is
// fatal for the run: the ancestry graph is broken.
func (r *Run) VerifyParents(candidates []*Candidate) error {
	for _, c := range candidates {
		if len(c.ParentIDs) > 2 {
			return errors.WithFields(
				errors.New(errors.InvalidInput, "candidate has more than two parents"),
				errors.Fields{"candidate": c.ID, "parents": len(c.ParentIDs)})
		}
		for _, pid := range c.ParentIDs {
			parent := r.Candidate(pid)
			if parent == nil {
				return errors.WithFields(
					errors.New(errors.UnknownReference, "parent candidate not found"),
					errors.Fields{"candidate": c.ID, "parent": pid})
			}
			if parent.Generation >= c.Generation {
				return errors.WithFields(
					errors.New(errors.UnknownReference, "parent is not from an earlier generation"),
					errors.Fields{"candidate": c.ID, "parent": pid, "parent_generation": parent.Generation})
			}
		}
	}
	return nil
}
