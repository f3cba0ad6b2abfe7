package engine

import (
	"math"
	"sort"
	"sync"

	"github.com/evoforge/gad-go/pkg/config"
	"github.com/evoforge/gad-go/pkg/core"
	"github.com/evoforge/gad-go/pkg/errors"
)

// untriedPriority is the sentinel allocation score for an agent that has not
// been observed yet. Every agent is tried at least once before exploitation
// begins.
const untriedPriority = 1e9

type agentArm struct {
	meanReward    float64
	timesSelected int
	candidates    int
}

// UCBAllocator maintains per-generator-agent reward statistics and computes
// the UCB1 allocation used to distribute the next generation's candidate
// budget. Updates happen exactly once per generation under a single writer;
// the mutex only guards against accidental cross-goroutine use.
type UCBAllocator struct {
	mu              sync.Mutex
	c               float64
	arms            map[string]*agentArm
	totalCandidates int
}

// NewUCBAllocator creates an allocator with the given exploration constant.
func NewUCBAllocator(cfg config.BanditConfig) *UCBAllocator {
	return &UCBAllocator{
		c:    cfg.ExplorationConstant,
		arms: make(map[string]*agentArm),
	}
}

// RegisterAgent makes the agent known to the allocator with zero
// observations. Registration is idempotent.
func (a *UCBAllocator) RegisterAgent(id string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, ok := a.arms[id]; !ok {
		a.arms[id] = &agentArm{}
	}
}

// Agents returns the registered agent ids in ascending order.
func (a *UCBAllocator) Agents() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.sortedIDs()
}

func (a *UCBAllocator) sortedIDs() []string {
	ids := make([]string, 0, len(a.arms))
	for id := range a.arms {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Update records one generation's outcomes: for each agent, the effective
// scores of its candidates in that generation. The observed reward is the
// mean score normalized to [0,1], folded in with the incremental
// running-average update. An unregistered agent id is a lineage-consistency
// bug and aborts the run.
func (a *UCBAllocator) Update(outcomes map[string][]float64) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	// Validate before mutating anything so a bad update has no effect.
	for agentID := range outcomes {
		if _, ok := a.arms[agentID]; !ok {
			return errors.WithFields(
				errors.New(errors.UnknownReference, "outcome for unregistered agent"),
				errors.Fields{"agent": agentID})
		}
	}

	for agentID, scores := range outcomes {
		if len(scores) == 0 {
			continue
		}
		arm := a.arms[agentID]

		sum := 0.0
		for _, s := range scores {
			sum += s
		}
		observed := sum / float64(len(scores)) / 100.0

		arm.timesSelected++
		arm.meanReward += (observed - arm.meanReward) / float64(arm.timesSelected)
		arm.candidates += len(scores)
		a.totalCandidates += len(scores)
	}

	return nil
}

// allocationScore computes mean reward plus exploration bonus for one arm.
// Caller holds the lock.
func (a *UCBAllocator) allocationScore(arm *agentArm) (score, ci, bonus float64) {
	if arm.timesSelected == 0 {
		return untriedPriority, 0, untriedPriority
	}
	if a.totalCandidates > 0 {
		ci = math.Sqrt(math.Log(float64(a.totalCandidates)) / float64(arm.timesSelected))
	}
	bonus = a.c * ci
	return arm.meanReward + bonus, ci, bonus
}

// Snapshot returns the current per-agent statistics, ordered by agent id.
func (a *UCBAllocator) Snapshot() []core.UCBStats {
	a.mu.Lock()
	defer a.mu.Unlock()

	stats := make([]core.UCBStats, 0, len(a.arms))
	for _, id := range a.sortedIDs() {
		arm := a.arms[id]
		score, ci, bonus := a.allocationScore(arm)
		stats = append(stats, core.UCBStats{
			AgentID:            id,
			MeanReward:         arm.meanReward,
			ConfidenceInterval: ci,
			ExplorationBonus:   bonus,
			TotalScore:         score,
			TimesSelected:      arm.timesSelected,
		})
	}
	return stats
}

// Allocate splits the next generation's candidate budget across agents in
// proportion to their normalized allocation scores. Each agent gets the
// floor of its proportional share; the leftover goes to the highest-scoring
// agents first (ties by ascending agent id), so the counts always sum
// exactly to size.
func (a *UCBAllocator) Allocate(size int) ([]core.UCBStats, map[string]int, error) {
	if size < 1 {
		return nil, nil, errors.WithFields(
			errors.New(errors.InvalidInput, "allocation size must be positive"),
			errors.Fields{"size": size})
	}

	stats := a.Snapshot()
	if len(stats) == 0 {
		return nil, nil, errors.New(errors.InvalidInput, "no agents registered")
	}

	total := 0.0
	for _, s := range stats {
		total += s.TotalScore
	}

	type share struct {
		id    string
		score float64
		base  int
	}
	shares := make([]share, len(stats))
	assigned := 0
	for i, s := range stats {
		weight := 1.0 / float64(len(stats))
		if total > 0 {
			weight = s.TotalScore / total
		}
		base := int(math.Floor(weight * float64(size)))
		shares[i] = share{id: s.AgentID, score: s.TotalScore, base: base}
		assigned += base
	}

	// Hand the rounding remainder to the highest-scoring agents first.
	order := make([]int, len(shares))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(x, y int) bool {
		if shares[order[x]].score != shares[order[y]].score {
			return shares[order[x]].score > shares[order[y]].score
		}
		return shares[order[x]].id < shares[order[y]].id
	})
	for i := 0; assigned < size; i = (i + 1) % len(order) {
		shares[order[i]].base++
		assigned++
	}

	counts := make(map[string]int, len(shares))
	for _, sh := range shares {
		counts[sh.id] = sh.base
	}
	return stats, counts, nil
}
