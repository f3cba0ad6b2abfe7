package lineage

import (
	"github.com/evoforge/gad-go/pkg/core"
	"github.com/evoforge/gad-go/pkg/errors"
)

// VerifyChain walks every bundle's ancestry and confirms the hash chain is
// acyclic and terminates at generation-0 candidates. A verification failure
// indicates a lineage-consistency bug and the run must abort.
func (t *Tracker) VerifyChain(run *core.Run) error {
	t.mu.Lock()
	byHash := make(map[string]*core.DNABundle, len(t.bundles))
	bundles := make([]*core.DNABundle, 0, len(t.bundles))
	for _, b := range t.bundles {
		byHash[b.ProvenanceHash] = b
		bundles = append(bundles, b)
	}
	t.mu.Unlock()

	for _, b := range bundles {
		seen := map[string]bool{}
		if err := t.walk(run, byHash, b, seen); err != nil {
			return err
		}
	}
	return nil
}

func (t *Tracker) walk(run *core.Run, byHash map[string]*core.DNABundle, b *core.DNABundle, seen map[string]bool) error {
	// seen marks the current descent path only, so shared ancestors reached
	// through both parents of a crossover do not read as cycles.
	if seen[b.ProvenanceHash] {
		return errors.WithFields(
			errors.New(errors.UnknownReference, "ancestry cycle detected"),
			errors.Fields{"candidate": b.CandidateID})
	}
	seen[b.ProvenanceHash] = true
	defer delete(seen, b.ProvenanceHash)

	cand := run.Candidate(b.CandidateID)
	if cand == nil {
		return errors.WithFields(
			errors.New(errors.UnknownReference, "bundle references unknown candidate"),
			errors.Fields{"candidate": b.CandidateID})
	}
	if len(b.ParentHashes) == 0 {
		if cand.Generation != 0 {
			return errors.WithFields(
				errors.New(errors.UnknownReference, "chain does not terminate at generation 0"),
				errors.Fields{"candidate": b.CandidateID, "generation": cand.Generation})
		}
		return nil
	}

	for _, ph := range b.ParentHashes {
		parent, ok := byHash[ph]
		if !ok {
			return errors.WithFields(
				errors.New(errors.UnknownReference, "parent hash not found"),
				errors.Fields{"candidate": b.CandidateID, "parent_hash": ph})
		}
		if err := t.walk(run, byHash, parent, seen); err != nil {
			return err
		}
	}
	return nil
}
