package etcdtree

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	clientv3 "go.etcd.io/etcd/client/v3"
	"go.etcd.io/etcd/client/v3/concurrency"

	"github.com/arloliu/elector/internal/logger"
	"github.com/arloliu/elector/types"
)

// seqKeyPrefix namespaces sequence counters outside any listable parent.
const seqKeyPrefix = "\x00seq"

// Config configures an etcd connection.
type Config struct {
	// Endpoints lists etcd endpoints ("host:port").
	Endpoints []string

	// SessionTTL is the lease TTL backing ephemeral nodes (default 10s, minimum 1s).
	SessionTTL time.Duration

	// DialTimeout bounds the initial connection (default 5s).
	DialTimeout time.Duration
}

// Client adapts an etcd client and lease session to types.TreeClient.
type Client struct {
	cli        *clientv3.Client
	session    *concurrency.Session
	ownsClient bool
	logger     types.Logger

	// createTimeout bounds a create once sent; the caller's ctx is not observed.
	createTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc
	closed atomic.Bool
}

// Compile-time assertion that Client implements TreeClient.
var _ types.TreeClient = (*Client)(nil)

// Dial connects to etcd and grants the lease used for ephemeral nodes.
//
// Parameters:
//   - ctx: Bounds the connection and lease grant
//   - cfg: Endpoints, lease TTL and dial timeout
//   - log: Logger (nil for none)
//
// Returns:
//   - *Client: Connected client; Close revokes the lease and closes the etcd client
//   - error: Connection or lease error
func Dial(ctx context.Context, cfg Config, log types.Logger) (*Client, error) {
	if len(cfg.Endpoints) == 0 {
		return nil, errors.New("etcdtree: at least one endpoint is required")
	}
	dialTimeout := cfg.DialTimeout
	if dialTimeout <= 0 {
		dialTimeout = 5 * time.Second
	}

	cli, err := clientv3.New(clientv3.Config{
		Endpoints:   cfg.Endpoints,
		DialTimeout: dialTimeout,
		Context:     ctx,
	})
	if err != nil {
		return nil, fmt.Errorf("etcdtree: connect: %w", err)
	}

	c, err := newClient(ctx, cli, cfg.SessionTTL, true, log)
	if err != nil {
		_ = cli.Close()
		return nil, err
	}
	c.createTimeout = dialTimeout

	return c, nil
}

// New builds a Client over an existing etcd client. A new lease is granted;
// Close revokes it but leaves cli open.
func New(ctx context.Context, cli *clientv3.Client, ttl time.Duration, log types.Logger) (*Client, error) {
	return newClient(ctx, cli, ttl, false, log)
}

func newClient(ctx context.Context, cli *clientv3.Client, ttl time.Duration, owns bool, log types.Logger) (*Client, error) {
	if log == nil {
		log = logger.NewNop()
	}

	session, err := concurrency.NewSession(cli,
		concurrency.WithTTL(ttlSeconds(ttl)),
		concurrency.WithContext(context.WithoutCancel(ctx)),
	)
	if err != nil {
		return nil, fmt.Errorf("etcdtree: lease session: %w", err)
	}

	lifeCtx, cancel := context.WithCancel(context.Background())
	c := &Client{
		cli:           cli,
		session:       session,
		ownsClient:    owns,
		logger:        log,
		createTimeout: 5 * time.Second,
		ctx:           lifeCtx,
		cancel:        cancel,
	}

	go c.watchSession()

	return c, nil
}

func ttlSeconds(d time.Duration) int {
	if d <= 0 {
		return 10
	}
	s := int(d / time.Second)
	if s < 1 {
		return 1
	}

	return s
}

func (c *Client) watchSession() {
	select {
	case <-c.ctx.Done():
	case <-c.session.Done():
		if !c.closed.Load() {
			c.logger.Warn("etcd lease session ended", "lease", int64(c.session.Lease()))
		}
	}
}

// MkdirAll creates path and any missing parents as persistent keys.
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

		_, err := c.cli.Txn(ctx).
			If(clientv3.Compare(clientv3.CreateRevision(cur), "=", 0)).
			Then(clientv3.OpPut(cur, "")).
			Commit()
		if err != nil {
			return c.mapError(err)
		}
	}

	return nil
}

// CreateEphemeralSequential creates prefix+<10-digit sequence> bound to the client's lease.
//
// The parent of prefix must exist, otherwise an error matching ErrNoNode is
// returned. ctx is only checked before the first request; the transaction
// is then bounded by the dial timeout so its outcome is always observed.
func (c *Client) CreateEphemeralSequential(ctx context.Context, prefix string, data []byte) (string, error) {
	if err := c.check(ctx); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.createTimeout)
	defer cancel()

	parent := parentOf(prefix)
	counter := seqKeyPrefix + parent

	for {
		resp, err := c.cli.Get(ctx, counter)
		if err != nil {
			return "", c.mapError(err)
		}

		var next int64
		var rev int64
		if len(resp.Kvs) > 0 {
			rev = resp.Kvs[0].ModRevision
			cur, perr := strconv.ParseInt(string(resp.Kvs[0].Value), 10, 64)
			if perr != nil {
				return "", fmt.Errorf("etcdtree: corrupt sequence counter %q: %w", counter, perr)
			}
			next = cur + 1
		}

		node := formatSequential(prefix, next)
		cmps := []clientv3.Cmp{clientv3.Compare(clientv3.ModRevision(counter), "=", rev)}
		if parent != "/" {
			cmps = append(cmps, clientv3.Compare(clientv3.CreateRevision(parent), ">", 0))
		}

		txn, err := c.cli.Txn(ctx).
			If(cmps...).
			Then(
				clientv3.OpPut(counter, strconv.FormatInt(next, 10)),
				clientv3.OpPut(node, string(data), clientv3.WithLease(c.session.Lease())),
			).
			Commit()
		if err != nil {
			return "", c.mapError(err)
		}
		if txn.Succeeded {
			return node, nil
		}

		if parent != "/" {
			exists, err := c.exists(ctx, parent)
			if err != nil {
				return "", err
			}
			if !exists {
				return "", fmt.Errorf("%w: %s", types.ErrNoNode, parent)
			}
		}
		// Lost the counter race; retry with the fresh value.
	}
}

// Children lists the direct children of path.
func (c *Client) Children(ctx context.Context, path string) ([]string, error) {
	children, _, err := c.children(ctx, path)
	return children, err
}

// ChildrenW lists the direct children of path and arms a one-shot child watch.
func (c *Client) ChildrenW(ctx context.Context, path string) ([]string, <-chan types.TreeEvent, error) {
	children, rev, err := c.children(ctx, path)
	if err != nil {
		return nil, nil, err
	}

	watchCtx, cancel := context.WithCancel(c.ctx)
	wch := c.cli.Watch(clientv3.WithRequireLeader(watchCtx), childPrefix(path),
		clientv3.WithPrefix(), clientv3.WithRev(rev+1))

	return children, c.forward(wch, cancel, func(ev *clientv3.Event) (types.TreeEvent, bool) {
		return childEvent(path, ev)
	}), nil
}

// ExistsW reports whether path exists and arms a one-shot watch on it.
func (c *Client) ExistsW(ctx context.Context, path string) (bool, <-chan types.TreeEvent, error) {
	if err := c.check(ctx); err != nil {
		return false, nil, err
	}

	resp, err := c.cli.Get(ctx, path, clientv3.WithKeysOnly())
	if err != nil {
		return false, nil, c.mapError(err)
	}

	watchCtx, cancel := context.WithCancel(c.ctx)
	wch := c.cli.Watch(clientv3.WithRequireLeader(watchCtx), path, clientv3.WithRev(resp.Header.Revision+1))

	return len(resp.Kvs) > 0, c.forward(wch, cancel, func(ev *clientv3.Event) (types.TreeEvent, bool) {
		return nodeEvent(ev), true
	}), nil
}

// GetData returns the value stored at path.
func (c *Client) GetData(ctx context.Context, path string) ([]byte, error) {
	if err := c.check(ctx); err != nil {
		return nil, err
	}

	resp, err := c.cli.Get(ctx, path)
	if err != nil {
		return nil, c.mapError(err)
	}
	if len(resp.Kvs) == 0 {
		return nil, fmt.Errorf("%w: %s", types.ErrNoNode, path)
	}

	return resp.Kvs[0].Value, nil
}

// Delete removes path. A missing node reports an error matching ErrNoNode.
func (c *Client) Delete(ctx context.Context, path string) error {
	if err := c.check(ctx); err != nil {
		return err
	}

	resp, err := c.cli.Delete(ctx, path)
	if err != nil {
		return c.mapError(err)
	}
	if resp.Deleted == 0 {
		return fmt.Errorf("%w: %s", types.ErrNoNode, path)
	}

	return nil
}

// Close revokes the lease, removing every ephemeral node, and closes the etcd
// client if it was dialed by this package. Closing twice is a no-op.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return nil
	}

	err := c.session.Close()
	c.cancel()

	if c.ownsClient {
		if cerr := c.cli.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}

	return err
}

func (c *Client) children(ctx context.Context, path string) ([]string, int64, error) {
	if err := c.check(ctx); err != nil {
		return nil, 0, err
	}

	resp, err := c.cli.Get(ctx, childPrefix(path), clientv3.WithPrefix(), clientv3.WithKeysOnly())
	if err != nil {
		return nil, 0, c.mapError(err)
	}

	children := make([]string, 0, len(resp.Kvs))
	for _, kv := range resp.Kvs {
		if name, ok := childName(path, string(kv.Key)); ok {
			children = append(children, name)
		}
	}

	if len(children) == 0 && path != "/" {
		exists, err := c.exists(ctx, path)
		if err != nil {
			return nil, 0, err
		}
		if !exists {
			return nil, 0, fmt.Errorf("%w: %s", types.ErrNoNode, path)
		}
	}

	return children, resp.Header.Revision, nil
}

func (c *Client) exists(ctx context.Context, path string) (bool, error) {
	resp, err := c.cli.Get(ctx, path, clientv3.WithKeysOnly(), clientv3.WithCountOnly())
	if err != nil {
		return false, c.mapError(err)
	}

	return resp.Count > 0, nil
}

// forward delivers the first event accepted by match and cancels the watch.
func (c *Client) forward(wch clientv3.WatchChan, cancel context.CancelFunc, match func(*clientv3.Event) (types.TreeEvent, bool)) <-chan types.TreeEvent {
	out := make(chan types.TreeEvent, 1)

	go func() {
		defer cancel()

		for resp := range wch {
			if err := resp.Err(); err != nil {
				out <- types.TreeEvent{Type: types.TreeEventNotWatching, Err: err}
				return
			}
			for _, ev := range resp.Events {
				if te, ok := match(ev); ok {
					out <- te
					return
				}
			}
		}

		out <- types.TreeEvent{Type: types.TreeEventNotWatching, Err: types.ErrClientClosed}
	}()

	return out
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

func (c *Client) mapError(err error) error {
	if err == nil {
		return nil
	}
	if c.closed.Load() && !errors.Is(err, types.ErrClientClosed) {
		return fmt.Errorf("%w: %w", types.ErrClientClosed, err)
	}

	return err
}
