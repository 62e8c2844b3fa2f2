package memtree

import (
	"context"
	"fmt"
	"path"
	"strings"
	"sync/atomic"

	"github.com/arloliu/elector/types"
)

// Client is one session on a Tree. It implements types.TreeClient.
type Client struct {
	tree   *Tree
	closed atomic.Bool
}

// Compile-time assertion that Client implements TreeClient.
var _ types.TreeClient = (*Client)(nil)

// Tree returns the tree the client is connected to.
func (c *Client) Tree() *Tree {
	return c.tree
}

// Closed reports whether Close has been called.
func (c *Client) Closed() bool {
	return c.closed.Load()
}

func (c *Client) check(ctx context.Context, op Op, p string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.closed.Load() {
		return types.ErrClientClosed
	}

	return c.tree.before(op, p)
}

// MkdirAll creates p and any missing parents as persistent nodes.
func (c *Client) MkdirAll(ctx context.Context, p string) error {
	p = clean(p)
	if err := c.check(ctx, OpMkdirAll, p); err != nil {
		return err
	}

	t := c.tree
	t.mu.Lock()
	defer t.mu.Unlock()

	cur := ""
	for _, seg := range strings.Split(strings.TrimPrefix(p, "/"), "/") {
		if seg == "" {
			continue
		}
		cur += "/" + seg
		if _, ok := t.nodes[cur]; ok {
			continue
		}
		if err := t.createLocked(cur, nil, nil); err != nil {
			return err
		}
	}

	return nil
}

// CreateEphemeralSequential creates prefix followed by a 10 digit zero-padded
// sequence number. The sequence counter is kept per parent path.
func (c *Client) CreateEphemeralSequential(ctx context.Context, prefix string, data []byte) (string, error) {
	parent := path.Dir(clean(prefix))
	if err := c.check(ctx, OpCreate, prefix); err != nil {
		return "", err
	}

	t := c.tree
	t.mu.Lock()
	defer t.mu.Unlock()

	if c.closed.Load() {
		return "", types.ErrClientClosed
	}
	if _, ok := t.nodes[parent]; !ok {
		return "", fmt.Errorf("parent %s: %w", parent, types.ErrNoNode)
	}

	seq := t.seq[parent]
	t.seq[parent] = seq + 1

	p := fmt.Sprintf("%s%010d", prefix, seq)
	if err := t.createLocked(p, data, c); err != nil {
		return "", err
	}

	return p, nil
}

// Children lists the leaf names of the direct children of p.
func (c *Client) Children(ctx context.Context, p string) ([]string, error) {
	p = clean(p)
	if err := c.check(ctx, OpChildren, p); err != nil {
		return nil, err
	}

	t := c.tree
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.nodes[p]; !ok {
		return nil, fmt.Errorf("%s: %w", p, types.ErrNoNode)
	}

	return t.childrenLocked(p), nil
}

// ChildrenW lists the children of p and arms a one-shot child watch.
func (c *Client) ChildrenW(ctx context.Context, p string) ([]string, <-chan types.TreeEvent, error) {
	p = clean(p)
	if err := c.check(ctx, OpChildren, p); err != nil {
		return nil, nil, err
	}

	t := c.tree
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.nodes[p]; !ok {
		return nil, nil, fmt.Errorf("%s: %w", p, types.ErrNoNode)
	}

	return t.childrenLocked(p), t.addWatchLocked(t.childWatches, p, c), nil
}

// ExistsW reports whether p exists and arms a one-shot watch on it.
func (c *Client) ExistsW(ctx context.Context, p string) (bool, <-chan types.TreeEvent, error) {
	p = clean(p)
	if err := c.check(ctx, OpExists, p); err != nil {
		return false, nil, err
	}

	t := c.tree
	t.mu.Lock()
	defer t.mu.Unlock()

	_, ok := t.nodes[p]

	return ok, t.addWatchLocked(t.existsWatches, p, c), nil
}

// GetData returns a copy of the payload of the node at p.
func (c *Client) GetData(ctx context.Context, p string) ([]byte, error) {
	p = clean(p)
	if err := c.check(ctx, OpGetData, p); err != nil {
		return nil, err
	}

	data, ok := c.tree.Data(p)
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, types.ErrNoNode)
	}

	return data, nil
}

// Delete removes the node at p.
func (c *Client) Delete(ctx context.Context, p string) error {
	p = clean(p)
	if err := c.check(ctx, OpDelete, p); err != nil {
		return err
	}

	t := c.tree
	t.mu.Lock()
	defer t.mu.Unlock()

	return t.deleteLocked(p)
}

// Close ends the client session. Its ephemeral nodes are removed and its
// outstanding watches fire with TreeEventNotWatching. Closing twice is a no-op.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	t := c.tree
	t.mu.Lock()
	defer t.mu.Unlock()

	t.releaseLocked(c)

	return nil
}
