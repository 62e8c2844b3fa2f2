package types

import "context"

// Hooks defines callbacks for session events.
//
// All hooks are optional. Unlike subscriber channels, hooks are invoked
// synchronously, so a handler observes every transition exactly once and in
// the order it happened. OnPhaseChanged is ordered on its own and may run
// concurrently with the other hooks.
//
// IMPORTANT: Hook execution behavior:
//   - Hooks must return quickly; the watch chain is paused while a hook runs
//   - Hooks must not call Session.Disconnect synchronously (spawn a goroutine instead)
//   - The session state (IsLeader, Candidates) is already updated when a hook runs
//   - Hook errors are logged but never change the session state
//
// Example:
//
//	hooks := &elector.Hooks{
//	    OnLeader: func(ctx context.Context, candidateID string) error {
//	        go startLeaderDuties(ctx)
//	        return nil
//	    },
//	    OnFollower: func(ctx context.Context, candidateID string) error {
//	        stopLeaderDuties()
//	        return nil
//	    },
//	}
type Hooks struct {
	// OnCandidateID is called once after the candidate node is registered.
	OnCandidateID func(ctx context.Context, candidateID string) error

	// OnLeader is called each time the session transitions into the leader role.
	OnLeader func(ctx context.Context, candidateID string) error

	// OnFollower is called each time the session transitions into the follower role.
	OnFollower func(ctx context.Context, candidateID string) error

	// OnError is called on any unrecoverable protocol error.
	OnError func(ctx context.Context, err error) error

	// OnPhaseChanged is called on every session phase transition, including
	// PhaseDisconnecting and PhaseDisconnected. Calls for one session never
	// overlap and arrive in transition order.
	OnPhaseChanged func(ctx context.Context, from, to Phase) error
}
