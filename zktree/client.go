package zktree

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/go-zookeeper/zk"

	"github.com/arloliu/elector/internal/logger"
	"github.com/arloliu/elector/types"
)

// Config configures a ZooKeeper connection.
type Config struct {
	// Servers lists ZooKeeper endpoints ("host:port").
	Servers []string

	// SessionTimeout is the ZooKeeper session timeout (default 10s).
	SessionTimeout time.Duration

	// ACL applied to created nodes (default zk.WorldACL(zk.PermAll)).
	ACL []zk.ACL
}

// Client adapts a *zk.Conn to types.TreeClient.
type Client struct {
	conn   *zk.Conn
	logger types.Logger
	acl    []zk.ACL
	closed atomic.Bool
}

// Compile-time assertion that Client implements TreeClient.
var _ types.TreeClient = (*Client)(nil)

// Dial connects to ZooKeeper and waits until a session is established.
//
// Parameters:
//   - ctx: Bounds the wait for the session
//   - cfg: Servers, session timeout and ACL
//   - log: Logger receiving zk library output and session state changes (nil for none)
//
// Returns:
//   - *Client: Connected client; Close releases the session and its ephemeral nodes
//   - error: Connection error or ctx.Err()
func Dial(ctx context.Context, cfg Config, log types.Logger) (*Client, error) {
	if len(cfg.Servers) == 0 {
		return nil, errors.New("zktree: at least one server is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	timeout := cfg.SessionTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	conn, events, err := zk.Connect(cfg.Servers, timeout, zk.WithLogger(printfLogger{log}))
	if err != nil {
		return nil, fmt.Errorf("zktree: connect: %w", err)
	}

	if err := waitForSession(ctx, events, log); err != nil {
		conn.Close()
		return nil, err
	}

	go watchSession(events, log)

	return newClient(conn, cfg.ACL, log), nil
}

// New wraps an already connected *zk.Conn. Close closes conn.
func New(conn *zk.Conn, log types.Logger) *Client {
	if log == nil {
		log = logger.NewNop()
	}

	return newClient(conn, nil, log)
}

func newClient(conn *zk.Conn, acl []zk.ACL, log types.Logger) *Client {
	if len(acl) == 0 {
		acl = zk.WorldACL(zk.PermAll)
	}

	return &Client{conn: conn, logger: log, acl: acl}
}

func waitForSession(ctx context.Context, events <-chan zk.Event, log types.Logger) error {
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("zktree: waiting for session: %w", ctx.Err())
		case ev, ok := <-events:
			if !ok {
				return fmt.Errorf("zktree: waiting for session: %w", types.ErrClientClosed)
			}
			log.Debug("zookeeper state", "state", ev.State.String())
			if ev.State == zk.StateHasSession {
				return nil
			}
			if ev.State == zk.StateAuthFailed {
				return errors.New("zktree: authentication failed")
			}
		}
	}
}

// watchSession drains session events until the connection is closed.
func watchSession(events <-chan zk.Event, log types.Logger) {
	for ev := range events {
		if ev.Type != zk.EventSession {
			continue
		}
		switch ev.State {
		case zk.StateExpired:
			log.Warn("zookeeper session expired", "server", ev.Server)
		case zk.StateDisconnected:
			log.Warn("zookeeper disconnected", "server", ev.Server)
		case zk.StateHasSession:
			log.Info("zookeeper session established", "server", ev.Server)
		default:
			log.Debug("zookeeper state", "state", ev.State.String())
		}
	}
}

// MkdirAll creates path and any missing parents as persistent nodes.
func (c *Client) MkdirAll(ctx context.Context, path string) error {
	if err := c.check(ctx); err != nil {
		return err
	}

	cur := ""
	for _, seg := range strings.Split(strings.Trim(path, "/"), "/") {
		if seg == "" {
			continue
		}
		cur += "/" + seg

		_, err := call(ctx, func() (string, error) {
			return c.conn.Create(cur, nil, 0, c.acl)
		})
		if err != nil && !errors.Is(err, zk.ErrNodeExists) {
			return mapError(err)
		}
	}

	return nil
}

// CreateEphemeralSequential creates an ephemeral sequential znode under prefix.
//
// ctx is only checked before the request is sent. Once sent, the create is
// waited for, bounded by the session timeout, so a created node is never
// left without its path being reported to the caller.
func (c *Client) CreateEphemeralSequential(ctx context.Context, prefix string, data []byte) (string, error) {
	if err := c.check(ctx); err != nil {
		return "", err
	}

	p, err := c.conn.Create(prefix, data, zk.FlagEphemeral|zk.FlagSequence, c.acl)

	return p, mapError(err)
}

// GetData returns the payload of the znode at path.
func (c *Client) GetData(ctx context.Context, path string) ([]byte, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}

	data, err := call(ctx, func() ([]byte, error) {
		data, _, err := c.conn.Get(path)
		return data, err
	})

	return data, mapError(err)
}

// Children lists the children of path.
func (c *Client) Children(ctx context.Context, path string) ([]string, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}

	children, err := call(ctx, func() ([]string, error) {
		children, _, err := c.conn.Children(path)
		return children, err
	})

	return children, mapError(err)
}

type childrenResult struct {
	children []string
	watch    <-chan zk.Event
}

// ChildrenW lists the children of path and arms a child watch.
func (c *Client) ChildrenW(ctx context.Context, path string) ([]string, <-chan types.TreeEvent, error) {
	if err := c.check(ctx); err != nil {
		return nil, nil, err
	}

	res, err := call(ctx, func() (childrenResult, error) {
		children, _, watch, err := c.conn.ChildrenW(path)
		return childrenResult{children: children, watch: watch}, err
	})
	if err != nil {
		return nil, nil, mapError(err)
	}

	return res.children, forward(res.watch), nil
}

type existsResult struct {
	exists bool
	watch  <-chan zk.Event
}

// ExistsW reports whether path exists and arms an existence watch.
func (c *Client) ExistsW(ctx context.Context, path string) (bool, <-chan types.TreeEvent, error) {
	if err := c.check(ctx); err != nil {
		return false, nil, err
	}

	res, err := call(ctx, func() (existsResult, error) {
		exists, _, watch, err := c.conn.ExistsW(path)
		return existsResult{exists: exists, watch: watch}, err
	})
	if err != nil {
		return false, nil, mapError(err)
	}

	return res.exists, forward(res.watch), nil
}

// Delete removes path regardless of its version.
func (c *Client) Delete(ctx context.Context, path string) error {
	if err := c.check(ctx); err != nil {
		return err
	}

	_, err := call(ctx, func() (struct{}, error) {
		return struct{}{}, c.conn.Delete(path, -1)
	})

	return mapError(err)
}

// Close ends the ZooKeeper session. Closing twice is a no-op.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}
	c.conn.Close()

	return nil
}

func (c *Client) check(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.closed.Load() {
		return types.ErrClientClosed
	}

	return nil
}

// call runs fn and returns early if ctx ends first. The zk client has no
// context support; an abandoned call finishes in the background bounded by
// the session timeout. Only reads and idempotent writes go through call.
func call[T any](ctx context.Context, fn func() (T, error)) (T, error) {
	type result struct {
		val T
		err error
	}

	ch := make(chan result, 1)
	go func() {
		v, err := fn()
		ch <- result{val: v, err: err}
	}()

	select {
	case r := <-ch:
		return r.val, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

// forward converts a zk watch channel into a one-shot TreeEvent channel.
func forward(in <-chan zk.Event) <-chan types.TreeEvent {
	out := make(chan types.TreeEvent, 1)

	go func() {
		ev, ok := <-in
		if !ok {
			out <- types.TreeEvent{Type: types.TreeEventNotWatching, Err: types.ErrClientClosed}
			return
		}
		out <- mapEvent(ev)
	}()

	return out
}
