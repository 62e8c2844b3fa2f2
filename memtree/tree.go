package memtree

import (
	"errors"
	"fmt"
	"path"
	"slices"
	"strings"
	"sync"

	"github.com/arloliu/elector/types"
)

// Op identifies a client operation for fault injection and interception.
type Op string

// Client operations.
const (
	OpMkdirAll Op = "mkdirall"
	OpCreate   Op = "create"
	OpChildren Op = "children"
	OpExists   Op = "exists"
	OpDelete   Op = "delete"
	OpGetData  Op = "getdata"
)

// Interceptor runs before a client operation, outside the tree lock.
// It may call Tree methods, e.g. Remove, to mutate the tree mid-protocol.
type Interceptor func(op Op, path string)

type node struct {
	data  []byte
	owner *Client // nil for persistent nodes
}

type watch struct {
	ch    chan types.TreeEvent
	owner *Client
}

type fault struct {
	op   Op
	path string
	err  error
	once bool
}

// Tree is an in-memory hierarchical store with ephemeral-sequential nodes and
// one-shot watches.
//
// All methods are safe for concurrent use.
type Tree struct {
	mu            sync.Mutex
	nodes         map[string]*node
	seq           map[string]int64
	existsWatches map[string][]watch
	childWatches  map[string][]watch
	faults        []fault
	interceptor   Interceptor
}

// New creates an empty tree containing only the root node.
func New() *Tree {
	return &Tree{
		nodes:         map[string]*node{"/": {}},
		seq:           make(map[string]int64),
		existsWatches: make(map[string][]watch),
		childWatches:  make(map[string][]watch),
	}
}

// NewClient returns a new client session on the tree.
func (t *Tree) NewClient() *Client {
	return &Client{tree: t}
}

// InjectError makes every matching operation fail with err until ClearErrors.
// An empty path matches any path.
func (t *Tree) InjectError(op Op, p string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.faults = append(t.faults, fault{op: op, path: p, err: err})
}

// InjectErrorOnce makes the next matching operation fail with err.
func (t *Tree) InjectErrorOnce(op Op, p string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.faults = append(t.faults, fault{op: op, path: p, err: err, once: true})
}

// ClearErrors removes all injected faults.
func (t *Tree) ClearErrors() {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.faults = nil
}

// SetInterceptor installs fn to run before each client operation. A nil fn removes it.
func (t *Tree) SetInterceptor(fn Interceptor) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.interceptor = fn
}

// Remove deletes the node at p as an external actor would, firing watches.
func (t *Tree) Remove(p string) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.deleteLocked(clean(p))
}

// Exists reports whether a node exists at p.
func (t *Tree) Exists(p string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.nodes[clean(p)]

	return ok
}

// List returns the sorted leaf names of the children of p.
func (t *Tree) List(p string) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	children := t.childrenLocked(clean(p))
	slices.Sort(children)

	return children
}

// Data returns the payload of the node at p.
func (t *Tree) Data(p string) ([]byte, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	n, ok := t.nodes[clean(p)]
	if !ok {
		return nil, false
	}

	return slices.Clone(n.data), true
}

// WatchCount returns the number of armed watches on p (existence and child watches).
func (t *Tree) WatchCount(p string) int {
	t.mu.Lock()
	defer t.mu.Unlock()

	p = clean(p)

	return len(t.existsWatches[p]) + len(t.childWatches[p])
}

func (t *Tree) before(op Op, p string) error {
	t.mu.Lock()
	fn := t.interceptor
	t.mu.Unlock()

	if fn != nil {
		fn(op, p)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	for i, f := range t.faults {
		if f.op != op || (f.path != "" && f.path != p) {
			continue
		}
		if f.once {
			t.faults = slices.Delete(t.faults, i, i+1)
		}

		return f.err
	}

	return nil
}

func (t *Tree) childrenLocked(p string) []string {
	prefix := p + "/"
	if p == "/" {
		prefix = "/"
	}

	var out []string
	for np := range t.nodes {
		if np == "/" || !strings.HasPrefix(np, prefix) {
			continue
		}
		rest := np[len(prefix):]
		if rest != "" && !strings.Contains(rest, "/") {
			out = append(out, rest)
		}
	}

	return out
}

func (t *Tree) createLocked(p string, data []byte, owner *Client) error {
	if _, ok := t.nodes[p]; ok {
		return fmt.Errorf("%s: %w", p, types.ErrNodeExists)
	}
	parent := path.Dir(p)
	pn, ok := t.nodes[parent]
	if !ok {
		return fmt.Errorf("parent %s: %w", parent, types.ErrNoNode)
	}
	if pn.owner != nil {
		return fmt.Errorf("ephemeral parent %s cannot have children", parent)
	}

	t.nodes[p] = &node{data: slices.Clone(data), owner: owner}
	t.fireLocked(t.existsWatches, p, types.TreeEventNodeCreated)
	t.fireLocked(t.childWatches, parent, types.TreeEventNodeChildrenChanged)

	return nil
}

func (t *Tree) deleteLocked(p string) error {
	if p == "/" {
		return errors.New("cannot delete root")
	}
	if _, ok := t.nodes[p]; !ok {
		return fmt.Errorf("%s: %w", p, types.ErrNoNode)
	}
	if len(t.childrenLocked(p)) > 0 {
		return fmt.Errorf("%s has children", p)
	}

	delete(t.nodes, p)
	t.fireLocked(t.existsWatches, p, types.TreeEventNodeDeleted)
	t.fireLocked(t.childWatches, p, types.TreeEventNodeDeleted)
	t.fireLocked(t.childWatches, path.Dir(p), types.TreeEventNodeChildrenChanged)

	return nil
}

// fireLocked delivers one event to every watch on p and disarms them.
func (t *Tree) fireLocked(watches map[string][]watch, p string, typ types.TreeEventType) {
	ws := watches[p]
	if len(ws) == 0 {
		return
	}
	delete(watches, p)

	for _, w := range ws {
		select {
		case w.ch <- types.TreeEvent{Type: typ, Path: p}:
		default:
		}
	}
}

func (t *Tree) addWatchLocked(watches map[string][]watch, p string, owner *Client) chan types.TreeEvent {
	ch := make(chan types.TreeEvent, 1)
	watches[p] = append(watches[p], watch{ch: ch, owner: owner})

	return ch
}

// releaseLocked removes the client's ephemeral nodes and fires its watches with NotWatching.
func (t *Tree) releaseLocked(c *Client) {
	var owned []string
	for p, n := range t.nodes {
		if n.owner == c {
			owned = append(owned, p)
		}
	}
	slices.Sort(owned)
	for _, p := range owned {
		_ = t.deleteLocked(p)
	}

	for _, watches := range []map[string][]watch{t.existsWatches, t.childWatches} {
		for p, ws := range watches {
			kept := ws[:0]
			for _, w := range ws {
				if w.owner != c {
					kept = append(kept, w)
					continue
				}
				select {
				case w.ch <- types.TreeEvent{Type: types.TreeEventNotWatching, Path: p, Err: types.ErrClientClosed}:
				default:
				}
			}
			if len(kept) == 0 {
				delete(watches, p)
			} else {
				watches[p] = kept
			}
		}
	}
}

func clean(p string) string {
	if p == "" {
		return "/"
	}

	return path.Clean("/" + p)
}
