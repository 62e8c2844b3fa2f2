package elector

import "github.com/arloliu/elector/types"

// Sentinel errors returned by the Session.
//
// Test with errors.Is. Every failure of the coordination client is wrapped in a
// *CoordinationError, which matches ErrCoordination.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = types.ErrInvalidConfig

	// ErrConnectionRequired is returned when a zero Connection is passed to NewSession.
	ErrConnectionRequired = types.ErrConnectionRequired

	// ErrAlreadyConnected is returned when Connect is called more than once.
	ErrAlreadyConnected = types.ErrAlreadyConnected

	// ErrNotConnected is returned when Disconnect is called before Connect.
	ErrNotConnected = types.ErrNotConnected

	// ErrAlreadyDisconnected is returned when Disconnect is called more than once.
	ErrAlreadyDisconnected = types.ErrAlreadyDisconnected

	// ErrUnknownBackend is returned when the configured backend is not supported.
	ErrUnknownBackend = types.ErrUnknownBackend

	// ErrCoordination matches every error surfaced by the coordination client.
	ErrCoordination = types.ErrCoordination

	// ErrSiblingVanished is returned when the predecessor vanished before its watch was armed.
	ErrSiblingVanished = types.ErrSiblingVanished

	// ErrSelfNotFound is returned when the session's own candidate is missing from a re-list.
	ErrSelfNotFound = types.ErrSelfNotFound

	// ErrNoNode is reported by TreeClient implementations for a missing node.
	ErrNoNode = types.ErrNoNode

	// ErrNodeExists is reported by TreeClient implementations for an existing node.
	ErrNodeExists = types.ErrNodeExists

	// ErrClientClosed is reported by TreeClient implementations after Close.
	ErrClientClosed = types.ErrClientClosed
)
