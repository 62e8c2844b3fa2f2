// Package zktree implements types.TreeClient over Apache ZooKeeper using
// github.com/go-zookeeper/zk.
//
// ZooKeeper provides every primitive the election needs natively: ephemeral
// sequential znodes, child watches and existence watches. This package only
// adapts the API: contexts on every call, normalised errors (types.ErrNoNode,
// types.ErrNodeExists, types.ErrClientClosed) and watch channels carrying
// types.TreeEvent.
//
// Example:
//
//	client, err := zktree.Dial(ctx, zktree.Config{
//	    Servers:        []string{"zk-0:2181", "zk-1:2181", "zk-2:2181"},
//	    SessionTimeout: 10 * time.Second,
//	}, logger)
//	if err != nil {
//	    return err
//	}
//	session, _ := elector.NewSession(&cfg, elector.Shared(client))
package zktree
