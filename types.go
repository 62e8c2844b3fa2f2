package elector

import "github.com/arloliu/elector/types"

// Re-export types from the types package.
//
// This file provides a stable public API for the library's core types and
// interfaces. Backends (zktree, etcdtree, memtree) and internal packages depend
// on `types` without depending on the root `elector` package, while users keep
// the convenient `elector.TreeClient`, `elector.Logger`, etc.
type (
	Phase             = types.Phase
	Leadership        = types.Leadership
	Event             = types.Event
	EventType         = types.EventType
	TreeEvent         = types.TreeEvent
	TreeEventType     = types.TreeEventType
	Announcement      = types.Announcement
	CoordinationError = types.CoordinationError
)

// Re-export interfaces from the types package for convenience.
type (
	TreeClient       = types.TreeClient
	Announcer        = types.Announcer
	Retracter        = types.Retracter
	MetricsCollector = types.MetricsCollector
	Logger           = types.Logger
	Hooks            = types.Hooks
)

// Re-export Phase constants from the types package.
const (
	PhaseInit          = types.PhaseInit
	PhaseConnecting    = types.PhaseConnecting
	PhaseRegistering   = types.PhaseRegistering
	PhaseListing       = types.PhaseListing
	PhaseWatching      = types.PhaseWatching
	PhaseLeader        = types.PhaseLeader
	PhaseFollower      = types.PhaseFollower
	PhaseDisconnecting = types.PhaseDisconnecting
	PhaseDisconnected  = types.PhaseDisconnected
	PhaseFailed        = types.PhaseFailed
)

// Re-export Leadership constants from the types package.
const (
	LeadershipUnknown  = types.LeadershipUnknown
	LeadershipLeader   = types.LeadershipLeader
	LeadershipFollower = types.LeadershipFollower
)

// Re-export EventType constants from the types package.
const (
	EventCandidateID = types.EventCandidateID
	EventLeader      = types.EventLeader
	EventFollower    = types.EventFollower
	EventError       = types.EventError
)
