package elector

import (
	"context"
	"fmt"

	"github.com/arloliu/elector/etcdtree"
	"github.com/arloliu/elector/zktree"
)

// Dialer establishes an owned coordination client.
//
// It must return only once the backend session is established (the
// "connected" signal), so the session can start registering immediately.
type Dialer func(ctx context.Context, logger Logger) (TreeClient, error)

// Connection tells a Session where its coordination client comes from.
//
// It is a closed sum of two variants built with Dial or Shared. Ownership is
// fixed at construction: a Session closes a dialed client during Disconnect and
// never closes a shared one.
type Connection struct {
	dial   Dialer
	shared TreeClient
}

// Dial returns a Connection whose client is dialed and owned by the session.
//
// Parameters:
//   - d: Dialer invoked once by Session.Connect
//
// Returns:
//   - Connection: Owned connection
//
// Example:
//
//	conn := elector.Dial(func(ctx context.Context, l elector.Logger) (elector.TreeClient, error) {
//	    return zktree.Dial(ctx, zktree.Config{Servers: []string{"127.0.0.1:2181"}}, l)
//	})
func Dial(d Dialer) Connection {
	return Connection{dial: d}
}

// Shared returns a Connection over an externally managed client.
//
// The client must already be connected. Any number of sessions may share it;
// none of them closes it.
//
// Parameters:
//   - c: Connected TreeClient
//
// Returns:
//   - Connection: Shared connection
func Shared(c TreeClient) Connection {
	return Connection{shared: c}
}

// Owned reports whether the session owns (and closes) the client.
func (c Connection) Owned() bool {
	return c.dial != nil
}

// IsZero reports whether the connection was built without Dial or Shared.
func (c Connection) IsZero() bool {
	return c.dial == nil && c.shared == nil
}

func (c Connection) open(ctx context.Context, logger Logger) (TreeClient, error) {
	if c.dial == nil {
		return c.shared, nil
	}

	return c.dial(ctx, logger)
}

// ConnectionFromConfig builds an owned connection for cfg.Backend.
//
// Parameters:
//   - cfg: Configuration with Backend, Servers and SessionTimeout
//
// Returns:
//   - Connection: Owned connection dialing the configured backend
//   - error: ErrInvalidConfig if no servers are set, ErrUnknownBackend for an unsupported backend
func ConnectionFromConfig(cfg *Config) (Connection, error) {
	if cfg == nil {
		return Connection{}, ErrInvalidConfig
	}
	if len(cfg.Servers) == 0 {
		return Connection{}, fmt.Errorf("%w: at least one server is required", ErrInvalidConfig)
	}

	servers := append([]string(nil), cfg.Servers...)
	timeout := cfg.SessionTimeout

	switch cfg.Backend {
	case BackendZooKeeper, "":
		return Dial(func(ctx context.Context, logger Logger) (TreeClient, error) {
			return zktree.Dial(ctx, zktree.Config{Servers: servers, SessionTimeout: timeout}, logger)
		}), nil
	case BackendEtcd:
		return Dial(func(ctx context.Context, logger Logger) (TreeClient, error) {
			return etcdtree.Dial(ctx, etcdtree.Config{Endpoints: servers, SessionTTL: timeout}, logger)
		}), nil
	default:
		return Connection{}, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}
