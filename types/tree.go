package types

import "context"

// TreeEventType identifies what caused a one-shot watch to fire.
type TreeEventType int

const (
	// TreeEventUnknown is reported by backends for event kinds they do not map.
	TreeEventUnknown TreeEventType = iota

	// TreeEventNodeCreated fires when a watched node is created.
	TreeEventNodeCreated

	// TreeEventNodeDeleted fires when a watched node is deleted.
	TreeEventNodeDeleted

	// TreeEventNodeDataChanged fires when a watched node's payload changes.
	TreeEventNodeDataChanged

	// TreeEventNodeChildrenChanged fires when the child set of a watched node changes.
	TreeEventNodeChildrenChanged

	// TreeEventNotWatching fires when the watch was dropped without a node change,
	// typically because the backend session was lost or the client was closed.
	TreeEventNotWatching
)

// String returns the string representation of the event type.
func (t TreeEventType) String() string {
	switch t {
	case TreeEventNodeCreated:
		return "NodeCreated"
	case TreeEventNodeDeleted:
		return "NodeDeleted"
	case TreeEventNodeDataChanged:
		return "NodeDataChanged"
	case TreeEventNodeChildrenChanged:
		return "NodeChildrenChanged"
	case TreeEventNotWatching:
		return "NotWatching"
	default:
		return "Unknown"
	}
}

// TreeEvent is delivered once on a watch channel returned by TreeClient.
type TreeEvent struct {
	Type TreeEventType
	Path string
	Err  error
}

// TreeClient is the coordination-service client consumed by an election session.
//
// It models a hierarchical, watch-capable tree store (ZooKeeper-like). Paths are
// absolute and slash separated. Implementations live in the zktree, etcdtree and
// memtree packages.
//
// Watch semantics:
//   - A watch channel delivers at most one TreeEvent and is never closed by the caller
//   - Watch channels must be buffered so that an abandoned watch never blocks the backend
//   - A watch registered by ChildrenW fires on any change of the child set
//   - A watch registered by ExistsW fires on creation, deletion or data change of the node
//
// Error semantics:
//   - A missing node is reported as an error matching ErrNoNode
//   - An already existing node is reported as an error matching ErrNodeExists
//   - Operations on a closed client report an error matching ErrClientClosed
//
// Implementations must be safe for concurrent use; one client may be shared by
// several sessions.
type TreeClient interface {
	// MkdirAll creates path and any missing parents. Existing nodes are not an error.
	MkdirAll(ctx context.Context, path string) error

	// CreateEphemeralSequential creates a node named prefix followed by a
	// monotonically increasing, zero-padded sequence number. The node is removed
	// by the service when the creating connection ends.
	//
	// Returns:
	//   - string: Full path of the created node
	//   - error: Creation error
	CreateEphemeralSequential(ctx context.Context, prefix string, data []byte) (string, error)

	// Children lists the leaf names of the direct children of path.
	Children(ctx context.Context, path string) ([]string, error)

	// ChildrenW lists the direct children of path and arms a one-shot watch on the child set.
	ChildrenW(ctx context.Context, path string) ([]string, <-chan TreeEvent, error)

	// ExistsW reports whether path exists and arms a one-shot watch on it.
	//
	// The watch is armed whether or not the node exists, so a later creation fires it.
	ExistsW(ctx context.Context, path string) (bool, <-chan TreeEvent, error)

	// GetData returns the payload of the node at path.
	GetData(ctx context.Context, path string) ([]byte, error)

	// Delete removes the node at path regardless of its version.
	Delete(ctx context.Context, path string) error

	// Close releases the underlying connection. Ephemeral nodes created through
	// this client are removed by the service.
	Close() error
}
