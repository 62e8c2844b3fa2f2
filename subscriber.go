package elector

import "sync"

// subscriber is a helper for managing event subscriptions.
type subscriber struct {
	ch     chan Event
	mu     sync.Mutex
	closed bool
}

// trySend sends an event to the subscriber's channel without blocking.
//
// Returns false if the event was dropped because the channel was full.
func (s *subscriber) trySend(ev Event) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return true
	}

	select {
	case s.ch <- ev:
		return true
	default:
		return false
	}
}

// close safely closes the subscriber's channel.
func (s *subscriber) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.ch)
}
