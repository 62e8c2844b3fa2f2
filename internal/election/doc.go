// Package election implements the building blocks of the predecessor-watch
// leader election protocol.
//
// Every participant registers one ephemeral-sequential node under a shared
// election path. The coordination service suffixes each node with a
// monotonically increasing, zero-padded sequence number, so sorting the leaf
// names yields a total order over all live candidates. The candidate that sorts
// first is the leader.
//
// # Herd Avoidance
//
// Instead of every candidate watching the whole child list, each candidate
// watches only its immediate predecessor:
//
//	p_0000000001  ← leader, watches nothing
//	p_0000000002  ← watches p_0000000001
//	p_0000000003  ← watches p_0000000002
//
// When a node disappears exactly one candidate is notified. It re-lists,
// re-ranks and either becomes leader or re-arms on its new predecessor.
//
// # Building Blocks
//
//   - Register: ensures the election path exists and creates the candidate node
//   - Resolve: sorts candidates and finds the predecessor (pure)
//   - ArmWatch: arms the one-shot existence watch on the predecessor
//   - Decider: emits a transition only when leadership actually flips
//   - Fingerprint: stable hash of a sorted candidate list
//
// The session in the root package composes these into the watch loop. Nothing
// in this package retries; every failure is returned to the caller.
package election
