// Package elector provides predecessor-watch leader election over a
// hierarchical coordination service such as Apache ZooKeeper or etcd.
//
// Every participant creates an ephemeral, sequential candidate node under a
// shared election path. Candidates are ranked by sorting their ids; the first
// one is the leader. Each follower watches only the candidate immediately
// before it, so the departure of one candidate wakes at most one other
// session and the election scales without a thundering herd.
//
// # Quick Start
//
//	cfg := elector.DefaultConfig()
//	cfg.Servers = []string{"127.0.0.1:2181"}
//	cfg.ElectionPath = "/services/billing/leader"
//
//	conn, err := elector.ConnectionFromConfig(&cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	session, err := elector.NewSession(&cfg, conn, elector.WithHooks(&elector.Hooks{
//	    OnLeader: func(ctx context.Context, id string) error {
//	        log.Printf("%s is now leader", id)
//	        return nil
//	    },
//	}))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := session.Connect(ctx); err != nil {
//	    log.Fatal(err)
//	}
//	defer session.Disconnect(context.Background())
//
// # Connections
//
// A Connection is either dialed and owned by the session (Dial,
// ConnectionFromConfig) or shared (Shared). An owned client is closed during
// Disconnect; a shared client is never closed by a session, so many sessions
// can run over one client.
//
// # Events
//
// Leadership transitions are reported exactly once each, through Hooks
// (synchronous, in order) and through Subscribe channels. Nothing is
// delivered once Disconnect has started. Protocol errors (ErrCoordination,
// ErrSiblingVanished, ErrSelfNotFound) move the session to PhaseFailed; the
// caller decides whether to Disconnect and start a new session.
//
// # Backends
//
//   - zktree: Apache ZooKeeper via github.com/go-zookeeper/zk
//   - etcdtree: etcd v3 with lease-bound keys emulating ephemeral nodes
//   - memtree: in-process tree for tests, with fault injection
//
// # Announcements
//
// The announce package publishes transitions to NATS and records the current
// leader of each election in a JetStream KeyValue bucket. Pass it with
// WithAnnouncer.
package elector
