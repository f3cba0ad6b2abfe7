// Package lineage assembles the immutable DNA bundles that tie a selected
// candidate to its prompt configuration, evaluation evidence, and ancestry.
// Bundles are write-once and content-addressed: the provenance hash is a
// deterministic function of the bundle's contents, and the parent-hash chain
// is acyclic, terminating at generation-0 candidates.
package lineage

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"
	"time"

	"github.com/evoforge/gad-go/pkg/core"
	"github.com/evoforge/gad-go/pkg/errors"
)

// Tracker builds and retains DNA bundles for one run. Rebuilding a bundle
// for the same candidate id returns the identical prior result.
type Tracker struct {
	mu      sync.Mutex
	bundles map[string]*core.DNABundle // keyed by candidate id
	now     func() time.Time
}

// Option configures a Tracker.
type Option func(*Tracker)

// WithClock injects the timestamp source. Tests use a fixed clock.
func WithClock(now func() time.Time) Option {
	return func(t *Tracker) {
		t.now = now
	}
}

// NewTracker creates an empty tracker.
func NewTracker(opts ...Option) *Tracker {
	t := &Tracker{
		bundles: make(map[string]*core.DNABundle),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// BundleInput carries the layers assembled into a candidate's bundle.
type BundleInput struct {
	Candidate      *core.Candidate
	PromptLayer    core.PromptDNA
	CodeLayer      core.CodeLayer
	EvaluatorLayer core.EvaluatorLayer
}

// Build assembles the DNA bundle for a selected candidate, resolving parent
// hashes from the parents' previously built bundles. Building is idempotent:
// a second call for the same candidate id returns the stored bundle
// unchanged.
func (t *Tracker) Build(in BundleInput) (*core.DNABundle, error) {
	if in.Candidate == nil {
		return nil, errors.New(errors.InvalidInput, "candidate is required")
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if existing, ok := t.bundles[in.Candidate.ID]; ok {
		return existing, nil
	}

	// Parents must already have bundles: they come from strictly earlier
	// generations, so their lineage was materialized first. A missing parent
	// bundle is a broken ancestry graph.
	parentHashes := make([]string, 0, len(in.Candidate.ParentIDs))
	for _, pid := range in.Candidate.ParentIDs {
		parent, ok := t.bundles[pid]
		if !ok {
			return nil, errors.WithFields(
				errors.New(errors.UnknownReference, "parent bundle not found"),
				errors.Fields{"candidate": in.Candidate.ID, "parent": pid})
		}
		parentHashes = append(parentHashes, parent.ProvenanceHash)
	}
	if in.Candidate.Generation == 0 && len(parentHashes) > 0 {
		return nil, errors.WithFields(
			errors.New(errors.InvalidInput, "generation-0 bundle cannot reference parents"),
			errors.Fields{"candidate": in.Candidate.ID})
	}

	bundle := &core.DNABundle{
		ID:              "bundle-" + in.Candidate.ID,
		CandidateID:     in.Candidate.ID,
		CodeLayer:       in.CodeLayer,
		PromptLayer:     in.PromptLayer,
		EvaluatorLayer:  in.EvaluatorLayer,
		EvidenceMetrics: in.Candidate.Metrics,
		GateResults:     in.Candidate.GateResults,
		ParentHashes:    parentHashes,
		Timestamp:       t.now().UTC().Format(time.RFC3339),
	}

	hash, err := contentHash(bundle)
	if err != nil {
		return nil, err
	}
	bundle.ProvenanceHash = hash

	t.bundles[in.Candidate.ID] = bundle
	return bundle, nil
}

// Bundle returns the stored bundle for a candidate id.
func (t *Tracker) Bundle(candidateID string) (*core.DNABundle, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	b, ok := t.bundles[candidateID]
	return b, ok
}

// Bundles returns all stored bundles keyed by candidate id.
func (t *Tracker) Bundles() map[string]*core.DNABundle {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make(map[string]*core.DNABundle, len(t.bundles))
	for k, v := range t.bundles {
		out[k] = v
	}
	return out
}

// contentHash computes the bundle's deterministic identity hash: SHA-256
// over the canonical JSON encoding with the hash and timestamp fields
// zeroed, so the same contents always produce the same hash regardless of
// when the bundle was materialized.
func contentHash(b *core.DNABundle) (string, error) {
	shadow := *b
	shadow.ProvenanceHash = ""
	shadow.Timestamp = ""

	data, err := json.Marshal(&shadow)
	if err != nil {
		return "", errors.Wrap(err, errors.Unknown, "failed to encode bundle for hashing")
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}
