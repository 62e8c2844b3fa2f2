// Package hooks provides default session hooks.
package hooks

import (
	"context"

	"github.com/arloliu/elector/types"
)

// NopHooks implements Hooks with no-op callbacks.
//
// This is the default implementation used when no custom hooks are provided,
// eliminating the need for nil checks throughout the codebase.
type NopHooks struct{}

// NewNop creates a new no-op hooks implementation.
func NewNop() types.Hooks {
	h := &NopHooks{}
	return types.Hooks{
		OnCandidateID:  h.OnCandidateID,
		OnLeader:       h.OnLeader,
		OnFollower:     h.OnFollower,
		OnError:        h.OnError,
		OnPhaseChanged: h.OnPhaseChanged,
	}
}

// Fill returns a copy of hooks with every nil callback replaced by a no-op.
// A nil hooks pointer yields NewNop().
func Fill(hooks *types.Hooks) types.Hooks {
	nop := NewNop()
	if hooks == nil {
		return nop
	}

	filled := *hooks
	if filled.OnCandidateID == nil {
		filled.OnCandidateID = nop.OnCandidateID
	}
	if filled.OnLeader == nil {
		filled.OnLeader = nop.OnLeader
	}
	if filled.OnFollower == nil {
		filled.OnFollower = nop.OnFollower
	}
	if filled.OnError == nil {
		filled.OnError = nop.OnError
	}
	if filled.OnPhaseChanged == nil {
		filled.OnPhaseChanged = nop.OnPhaseChanged
	}

	return filled
}

// OnCandidateID is a no-op implementation.
func (h *NopHooks) OnCandidateID(ctx context.Context, candidateID string) error {
	return nil
}

// OnLeader is a no-op implementation.
func (h *NopHooks) OnLeader(ctx context.Context, candidateID string) error {
	return nil
}

// OnFollower is a no-op implementation.
func (h *NopHooks) OnFollower(ctx context.Context, candidateID string) error {
	return nil
}

// OnError is a no-op implementation.
func (h *NopHooks) OnError(ctx context.Context, err error) error {
	return nil
}

// OnPhaseChanged is a no-op implementation.
func (h *NopHooks) OnPhaseChanged(ctx context.Context, from, to types.Phase) error {
	return nil
}
