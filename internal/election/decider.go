package election

import (
	"sync"

	"github.com/arloliu/elector/types"
)

// Transition is the outcome of one Decider.Decide call.
type Transition int

const (
	// NoTransition means leadership did not change.
	NoTransition Transition = iota

	// BecameLeader means the session moved into the leader role.
	BecameLeader

	// BecameFollower means the session moved into the follower role.
	// It is also reported for the first determination when it is follower.
	BecameFollower
)

// String returns the string representation of the transition.
func (t Transition) String() string {
	switch t {
	case BecameLeader:
		return "leader"
	case BecameFollower:
		return "follower"
	default:
		return "none"
	}
}

// Decider holds the tri-state leadership flag of one session.
//
// The flag starts as types.LeadershipUnknown and is only mutated by Decide.
// Safe for concurrent use.
type Decider struct {
	mu    sync.RWMutex
	state types.Leadership
}

// NewDecider creates a decider in the unknown state.
func NewDecider() *Decider {
	return &Decider{state: types.LeadershipUnknown}
}

// Decide recomputes leadership from a sorted candidate list.
//
// Leadership is held iff self is the first element of sorted. The stored flag
// is updated before Decide returns, so a handler invoked for the returned
// transition already observes the new value through State.
//
// Parameters:
//   - sorted: Candidate ids in rank order
//   - self: The session's own candidate id
//
// Returns:
//   - Transition: BecameLeader, BecameFollower or NoTransition
func (d *Decider) Decide(sorted []string, self string) Transition {
	next := types.LeadershipFollower
	if len(sorted) > 0 && sorted[0] == self {
		next = types.LeadershipLeader
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	if next == d.state {
		return NoTransition
	}
	d.state = next

	if next == types.LeadershipLeader {
		return BecameLeader
	}

	return BecameFollower
}

// State returns the current leadership flag.
func (d *Decider) State() types.Leadership {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.state
}
