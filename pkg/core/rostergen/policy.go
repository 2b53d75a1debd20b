package rostergen

import (
	"fmt"
	"math/rand"
)

// Candidate is one worker under consideration for a slot.
type Candidate struct {
	// WorkerIdx is the worker's position in the original table. Candidates
	// are always presented in table order, so it doubles as the tie-break.
	WorkerIdx int

	// Assignments is how many slots this worker has been given so far in
	// the current run.
	Assignments int
}

// SelectionPolicy picks one worker from a non-empty candidate set. The
// deterministic and seeded-random modes share this contract so both are
// swappable and independently testable.
type SelectionPolicy interface {
	Name() string

	// Select returns the position within candidates of the chosen worker.
	// candidates is never empty.
	Select(candidates []Candidate) int
}

const (
	PolicyQueue          = "queue"
	PolicyWeightedRandom = "weighted-random"
	PolicyFirstEligible  = "first-eligible"
)

// NewPolicy builds the named policy. seed is used only by weighted-random.
func NewPolicy(name string, seed int64) (SelectionPolicy, error) {
	switch name {
	case PolicyQueue:
		return &queuePolicy{}, nil
	case PolicyWeightedRandom:
		return &weightedRandomPolicy{rng: rand.New(rand.NewSource(seed))}, nil
	case PolicyFirstEligible:
		return &firstEligiblePolicy{}, nil
	default:
		return nil, &ConfigError{Detail: fmt.Sprintf("unknown assignment policy %q", name)}
	}
}

// queuePolicy picks the candidate with the fewest assignments so far this
// run, approximating fairness without a full optimizer. Ties are broken
// by original table order.
type queuePolicy struct{}

func (p *queuePolicy) Name() string { return PolicyQueue }

func (p *queuePolicy) Select(candidates []Candidate) int {
	best := 0
	for i := 1; i < len(candidates); i++ {
		if candidates[i].Assignments < candidates[best].Assignments {
			best = i
		}
	}
	return best
}

// firstEligiblePolicy picks the first candidate in table order. Used when
// reproducible output matters more than fairness.
type firstEligiblePolicy struct{}

func (p *firstEligiblePolicy) Name() string { return PolicyFirstEligible }

func (p *firstEligiblePolicy) Select(candidates []Candidate) int {
	return 0
}

// weightedRandomPolicy picks uniformly among candidates from a seeded
// source, so reruns with the same seed reproduce the same roster.
type weightedRandomPolicy struct {
	rng *rand.Rand
}

func (p *weightedRandomPolicy) Name() string { return PolicyWeightedRandom }

func (p *weightedRandomPolicy) Select(candidates []Candidate) int {
	return p.rng.Intn(len(candidates))
}
