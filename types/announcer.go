package types

import (
	"context"
	"time"
)

// Announcement describes a leadership transition observed by one session.
type Announcement struct {
	ElectionPath string    `json:"electionPath"`
	CandidateID  string    `json:"candidateId"`
	InstanceID   string    `json:"instanceId"`
	Leader       bool      `json:"leader"`
	Candidates   []string  `json:"candidates"`
	Fingerprint  uint64    `json:"fingerprint"`
	At           time.Time `json:"at"`
}

// Announcer propagates leadership transitions to systems outside the coordination tree.
//
// Announce is called after hooks, from the session's event goroutine, with a
// context bounded by the session's operation timeout. Errors are logged and
// counted; they never change the session state.
type Announcer interface {
	Announce(ctx context.Context, a Announcement) error
}

// Retracter is implemented by announcers that keep per-leader state.
//
// Retract is called once by Disconnect when the session was leader, after its
// candidate node was deleted. The announcement has Leader set to false. It is
// not a transition and is never delivered to hooks or subscribers.
type Retracter interface {
	Retract(ctx context.Context, a Announcement) error
}
