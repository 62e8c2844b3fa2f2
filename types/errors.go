package types

import (
	"errors"
	"fmt"
)

// Sentinel errors for the elector library.
//
// These errors provide type-safe error checking using errors.Is() and errors.As().
// All components should use these sentinel errors for known error conditions
// and wrap external errors with context using fmt.Errorf("%s: %w", msg, err).
//
// Error Naming Convention:
//   - Use descriptive names with Err prefix
//   - Group by component (Session, Protocol, Tree)
//   - Use consistent messages across similar error types

// Session errors - Public API errors returned by Session.
var (
	// ErrInvalidConfig is returned when the configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrConnectionRequired is returned when a zero Connection is passed to NewSession.
	ErrConnectionRequired = errors.New("connection is required")

	// ErrAlreadyConnected is returned when Connect is called more than once.
	ErrAlreadyConnected = errors.New("session already connected")

	// ErrNotConnected is returned when Disconnect is called before Connect.
	ErrNotConnected = errors.New("session not connected")

	// ErrAlreadyDisconnected is returned when Disconnect is called more than once.
	ErrAlreadyDisconnected = errors.New("session already disconnected")

	// ErrUnknownBackend is returned when the configured backend is not supported.
	ErrUnknownBackend = errors.New("unknown coordination backend")
)

// Protocol errors - the election protocol error taxonomy.
var (
	// ErrCoordination matches every CoordinationError.
	ErrCoordination = errors.New("coordination service error")

	// ErrSiblingVanished is returned when the predecessor node was already gone
	// when its watch was armed. The session has lost the signal it needed and
	// stops rather than continuing unwatched.
	ErrSiblingVanished = errors.New("watched predecessor vanished before watch was armed")

	// ErrSelfNotFound is returned when the session's own candidate is missing from
	// a freshly listed candidate set while the session is not disconnecting.
	ErrSelfNotFound = errors.New("own candidate missing from candidate list")
)

// Tree errors - normalised backend errors reported by TreeClient implementations.
var (
	// ErrNoNode is returned when an operation targets a node that does not exist.
	ErrNoNode = errors.New("node does not exist")

	// ErrNodeExists is returned when creating a node that already exists.
	ErrNodeExists = errors.New("node already exists")

	// ErrClientClosed is returned by operations on a closed TreeClient.
	ErrClientClosed = errors.New("tree client closed")
)

// CoordinationError is any failure surfaced by the underlying coordination client.
//
// It records which protocol operation failed and on which path.
// errors.Is(err, ErrCoordination) matches every CoordinationError, and
// errors.Is also matches the wrapped backend error.
type CoordinationError struct {
	Op   string
	Path string
	Err  error
}

// NewCoordinationError wraps err as a CoordinationError. It returns nil for a nil err.
func NewCoordinationError(op, path string, err error) error {
	if err == nil {
		return nil
	}

	return &CoordinationError{Op: op, Path: path, Err: err}
}

// Error implements the error interface.
func (e *CoordinationError) Error() string {
	return fmt.Sprintf("coordination %s %q: %v", e.Op, e.Path, e.Err)
}

// Unwrap returns the backend error.
func (e *CoordinationError) Unwrap() error {
	return e.Err
}

// Is reports whether target is ErrCoordination.
func (e *CoordinationError) Is(target error) bool {
	return target == ErrCoordination
}

// ErrorKind classifies a protocol error for metrics and logs.
//
// Returns:
//   - string: "sibling_vanished", "self_not_found", "coordination" or "other"
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrSiblingVanished):
		return "sibling_vanished"
	case errors.Is(err, ErrSelfNotFound):
		return "self_not_found"
	case errors.Is(err, ErrCoordination):
		return "coordination"
	default:
		return "other"
	}
}
