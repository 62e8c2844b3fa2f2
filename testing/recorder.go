package testing

import (
	"context"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/arloliu/elector/types"
)

// Recorder records every notification delivered through session hooks.
//
// Safe for concurrent use. Use Hooks to obtain the callbacks to install.
type Recorder struct {
	mu     sync.Mutex
	events []types.Event
	phases []types.Phase
	notify chan struct{}
}

// NewRecorder creates an empty recorder.
func NewRecorder() *Recorder {
	return &Recorder{notify: make(chan struct{}, 1)}
}

// Hooks returns hooks that append to the recorder.
func (r *Recorder) Hooks() *types.Hooks {
	return &types.Hooks{
		OnCandidateID: func(_ context.Context, id string) error {
			r.add(types.Event{Type: types.EventCandidateID, CandidateID: id})
			return nil
		},
		OnLeader: func(_ context.Context, id string) error {
			r.add(types.Event{Type: types.EventLeader, CandidateID: id})
			return nil
		},
		OnFollower: func(_ context.Context, id string) error {
			r.add(types.Event{Type: types.EventFollower, CandidateID: id})
			return nil
		},
		OnError: func(_ context.Context, err error) error {
			r.add(types.Event{Type: types.EventError, Err: err})
			return nil
		},
		OnPhaseChanged: func(_ context.Context, _, to types.Phase) error {
			r.mu.Lock()
			r.phases = append(r.phases, to)
			r.mu.Unlock()
			r.signal()

			return nil
		},
	}
}

func (r *Recorder) add(ev types.Event) {
	ev.At = time.Now()

	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()

	r.signal()
}

func (r *Recorder) signal() {
	select {
	case r.notify <- struct{}{}:
	default:
	}
}

// Events returns a copy of all recorded events in delivery order.
func (r *Recorder) Events() []types.Event {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.events)
}

// Types returns the recorded event types in delivery order.
func (r *Recorder) Types() []types.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]types.EventType, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}

	return out
}

// Count returns how many events of type t were recorded.
func (r *Recorder) Count(t types.EventType) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, ev := range r.events {
		if ev.Type == t {
			n++
		}
	}

	return n
}

// Phases returns the recorded phase transitions (destination phases) in order.
func (r *Recorder) Phases() []types.Phase {
	r.mu.Lock()
	defer r.mu.Unlock()

	return slices.Clone(r.phases)
}

// Reset discards everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.events = nil
	r.phases = nil
}

// WaitFor blocks until at least one event of type t was recorded and returns
// the most recent one. The test fails if none arrives within timeout.
func (r *Recorder) WaitFor(tb testing.TB, t types.EventType, timeout time.Duration) types.Event {
	tb.Helper()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		r.mu.Lock()
		for i := len(r.events) - 1; i >= 0; i-- {
			if r.events[i].Type == t {
				ev := r.events[i]
				r.mu.Unlock()

				return ev
			}
		}
		r.mu.Unlock()

		select {
		case <-r.notify:
		case <-deadline.C:
			tb.Fatalf("no %s event within %v", t, timeout)
			return types.Event{}
		}
	}
}

// WaitForPhase blocks until phase p was recorded. The test fails on timeout.
func (r *Recorder) WaitForPhase(tb testing.TB, p types.Phase, timeout time.Duration) {
	tb.Helper()

	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		r.mu.Lock()
		found := slices.Contains(r.phases, p)
		r.mu.Unlock()
		if found {
			return
		}

		select {
		case <-r.notify:
		case <-deadline.C:
			tb.Fatalf("phase %s not reached within %v", p, timeout)
			return
		}
	}
}
