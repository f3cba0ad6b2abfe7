package lineage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evoforge/gad-go/pkg/core"
	"github.com/evoforge/gad-go/pkg/errors"
)

var fixedClock = func() time.Time {
	return time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)
}

func bundleInput(id string, gen int, parents ...string) BundleInput {
	return BundleInput{
		Candidate: &core.Candidate{
			ID:         id,
			Generation: gen,
			ParentIDs:  parents,
			Metrics:    core.Metrics{TestPassRate: 0.9, SecurityScore: 80, LicenseCompliance: true},
		},
		PromptLayer: core.PromptDNA{ID: "dna-" + id, SystemPrompt: "You are a code generator.", Generation: gen},
		CodeLayer:   core.CodeLayer{Branch: "candidate/" + id, CommitID: "abc123", FilesChanged: 3},
		EvaluatorLayer: core.EvaluatorLayer{
			AntiCheatSeed: "seed-1",
			PolicyVersion: "v1",
		},
	}
}

func runWithCandidates(bundles ...BundleInput) *core.Run {
	byGen := map[int][]*core.Candidate{}
	maxGen := 0
	for _, in := range bundles {
		byGen[in.Candidate.Generation] = append(byGen[in.Candidate.Generation], in.Candidate)
		if in.Candidate.Generation > maxGen {
			maxGen = in.Candidate.Generation
		}
	}
	run := core.NewRun("run-1", "lineage test", "req", nil)
	for n := 0; n <= maxGen; n++ {
		g := core.NewGeneration(n, byGen[n])
		g.Seal()
		run.Generations = append(run.Generations, g)
	}
	return run
}

func TestBuildRootBundle(t *testing.T) {
	tracker := NewTracker(WithClock(fixedClock))

	b, err := tracker.Build(bundleInput("gen0-cand1", 0))
	require.NoError(t, err)

	assert.Equal(t, "bundle-gen0-cand1", b.ID)
	assert.Equal(t, "gen0-cand1", b.CandidateID)
	assert.Empty(t, b.ParentHashes)
	assert.NotEmpty(t, b.ProvenanceHash)
	assert.Len(t, b.ProvenanceHash, 64)
	assert.Equal(t, "2025-01-15T12:00:00Z", b.Timestamp)
}

func TestBuildIdempotent(t *testing.T) {
	tracker := NewTracker(WithClock(fixedClock))

	first, err := tracker.Build(bundleInput("c1", 0))
	require.NoError(t, err)

	// Rebuilding, even with different layer contents, returns the stored
	// bundle untouched.
	in := bundleInput("c1", 0)
	in.CodeLayer.CommitID = "different"
	second, err := tracker.Build(in)
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, "abc123", second.CodeLayer.CommitID)
}

func TestBuildResolvesParentHashes(t *testing.T) {
	tracker := NewTracker(WithClock(fixedClock))

	pa, err := tracker.Build(bundleInput("parent-a", 0))
	require.NoError(t, err)
	pb, err := tracker.Build(bundleInput("parent-b", 0))
	require.NoError(t, err)

	child, err := tracker.Build(bundleInput("child", 1, "parent-a", "parent-b"))
	require.NoError(t, err)

	assert.Equal(t, []string{pa.ProvenanceHash, pb.ProvenanceHash}, child.ParentHashes)
}

func TestBuildMissingParentBundle(t *testing.T) {
	tracker := NewTracker(WithClock(fixedClock))

	_, err := tracker.Build(bundleInput("orphan", 1, "never-built"))
	require.Error(t, err)
	assert.True(t, errors.IsUnknownReference(err))

	_, ok := tracker.Bundle("orphan")
	assert.False(t, ok)
}

func TestBuildGen0CannotHaveParents(t *testing.T) {
	tracker := NewTracker(WithClock(fixedClock))

	_, err := tracker.Build(bundleInput("p", 0))
	require.NoError(t, err)

	_, err = tracker.Build(bundleInput("bad-root", 0, "p"))
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.CodeOf(err))
}

func TestBuildNilCandidate(t *testing.T) {
	tracker := NewTracker()
	_, err := tracker.Build(BundleInput{})
	require.Error(t, err)
	assert.Equal(t, errors.InvalidInput, errors.CodeOf(err))
}

func TestHashDeterministicAcrossTrackers(t *testing.T) {
	// Two trackers with different clocks produce the same provenance hash
	// for the same contents: the timestamp is excluded from the identity.
	t1 := NewTracker(WithClock(fixedClock))
	t2 := NewTracker(WithClock(func() time.Time {
		return time.Date(2030, 6, 1, 0, 0, 0, 0, time.UTC)
	}))

	a, err := t1.Build(bundleInput("same", 0))
	require.NoError(t, err)
	b, err := t2.Build(bundleInput("same", 0))
	require.NoError(t, err)

	assert.NotEqual(t, a.Timestamp, b.Timestamp)
	assert.Equal(t, a.ProvenanceHash, b.ProvenanceHash)
}

func TestHashSensitiveToContents(t *testing.T) {
	t1 := NewTracker(WithClock(fixedClock))
	t2 := NewTracker(WithClock(fixedClock))

	a, err := t1.Build(bundleInput("c", 0))
	require.NoError(t, err)

	in := bundleInput("c", 0)
	in.PromptLayer.Temperature = 0.9
	b, err := t2.Build(in)
	require.NoError(t, err)

	assert.NotEqual(t, a.ProvenanceHash, b.ProvenanceHash)
}

func TestVerifyChain(t *testing.T) {
	tracker := NewTracker(WithClock(fixedClock))

	rootA := bundleInput("root-a", 0)
	rootB := bundleInput("root-b", 0)
	mid := bundleInput("mid", 1, "root-a", "root-b")
	leaf := bundleInput("leaf", 2, "mid")

	for _, in := range []BundleInput{rootA, rootB, mid, leaf} {
		_, err := tracker.Build(in)
		require.NoError(t, err)
	}

	run := runWithCandidates(rootA, rootB, mid, leaf)
	assert.NoError(t, tracker.VerifyChain(run))
}

func TestVerifyChainDiamondAncestry(t *testing.T) {
	// Crossover children of the same pair share both grandparents; reaching
	// a shared ancestor through two paths is not a cycle.
	tracker := NewTracker(WithClock(fixedClock))

	root := bundleInput("root", 0)
	other := bundleInput("other", 0)
	left := bundleInput("left", 1, "root", "other")
	right := bundleInput("right", 1, "root", "other")
	grandchild := bundleInput("grandchild", 2, "left", "right")

	inputs := []BundleInput{root, other, left, right, grandchild}
	for _, in := range inputs {
		_, err := tracker.Build(in)
		require.NoError(t, err)
	}

	run := runWithCandidates(inputs...)
	assert.NoError(t, tracker.VerifyChain(run))
}

func TestVerifyChainUnknownCandidate(t *testing.T) {
	tracker := NewTracker(WithClock(fixedClock))

	in := bundleInput("ghost", 0)
	_, err := tracker.Build(in)
	require.NoError(t, err)

	// Run has no matching candidate.
	run := core.NewRun("run-empty", "r", "req", nil)
	err = tracker.VerifyChain(run)
	require.Error(t, err)
	assert.True(t, errors.IsUnknownReference(err))
}

func TestVerifyChainNonRootTermination(t *testing.T) {
	tracker := NewTracker(WithClock(fixedClock))

	// A generation-1 candidate with no parents does not terminate at a root.
	in := bundleInput("floating", 1)
	_, err := tracker.Build(in)
	require.NoError(t, err)

	run := runWithCandidates(bundleInput("unused-root", 0), in)
	err = tracker.VerifyChain(run)
	require.Error(t, err)
	assert.True(t, errors.IsUnknownReference(err))
}
