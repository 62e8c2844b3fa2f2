package zktree

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-zookeeper/zk"
	"github.com/stretchr/testify/require"

	"github.com/arloliu/elector/internal/logger"
	"github.com/arloliu/elector/types"
)

func TestMapError(t *testing.T) {
	require.NoError(t, mapError(nil))

	err := mapError(zk.ErrNoNode)
	require.ErrorIs(t, err, types.ErrNoNode)
	require.ErrorIs(t, err, zk.ErrNoNode)

	require.ErrorIs(t, mapError(zk.ErrNodeExists), types.ErrNodeExists)
	require.ErrorIs(t, mapError(zk.ErrClosing), types.ErrClientClosed)
	require.ErrorIs(t, mapError(zk.ErrConnectionClosed), types.ErrClientClosed)
	require.ErrorIs(t, mapError(context.Canceled), context.Canceled)

	other := errors.New("other")
	require.Equal(t, other, mapError(other))
}

func TestMapEvent(t *testing.T) {
	cases := map[zk.EventType]types.TreeEventType{
		zk.EventNodeCreated:         types.TreeEventNodeCreated,
		zk.EventNodeDeleted:         types.TreeEventNodeDeleted,
		zk.EventNodeDataChanged:     types.TreeEventNodeDataChanged,
		zk.EventNodeChildrenChanged: types.TreeEventNodeChildrenChanged,
		zk.EventNotWatching:         types.TreeEventNotWatching,
		zk.EventSession:             types.TreeEventUnknown,
	}
	for in, want := range cases {
		got := mapEvent(zk.Event{Type: in, Path: "/election/p_0000000001"})
		require.Equal(t, want, got.Type, in.String())
		require.Equal(t, "/election/p_0000000001", got.Path)
	}
}

func TestForward(t *testing.T) {
	t.Run("delivers mapped event", func(t *testing.T) {
		in := make(chan zk.Event, 1)
		in <- zk.Event{Type: zk.EventNodeDeleted, Path: "/a"}

		ev := <-forward(in)
		require.Equal(t, types.TreeEventNodeDeleted, ev.Type)
	})

	t.Run("closed channel is not watching", func(t *testing.T) {
		in := make(chan zk.Event)
		close(in)

		ev := <-forward(in)
		require.Equal(t, types.TreeEventNotWatching, ev.Type)
		require.ErrorIs(t, ev.Err, types.ErrClientClosed)
	})
}

func TestCall(t *testing.T) {
	v, err := call(t.Context(), func() (int, error) { return 7, nil })
	require.NoError(t, err)
	require.Equal(t, 7, v)

	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	block := make(chan struct{})
	defer close(block)

	_, err = call(ctx, func() (int, error) {
		<-block
		return 0, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestPrintfLogger(t *testing.T) {
	require.NotPanics(t, func() {
		printfLogger{log: logger.NewTest(t, "zk")}.Printf("connected to %s", "127.0.0.1:2181")
	})
}

func TestDial_NoServers(t *testing.T) {
	_, err := Dial(t.Context(), Config{}, nil)
	require.Error(t, err)
}

// zkServers returns servers from ZK_SERVERS or skips the test.
func zkServers(t *testing.T) []string {
	t.Helper()

	raw := os.Getenv("ZK_SERVERS")
	if raw == "" {
		t.Skip("ZK_SERVERS not set")
	}

	return strings.Split(raw, ",")
}

func TestClient_Integration(t *testing.T) {
	servers := zkServers(t)
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Second)
	defer cancel()

	log := logger.NewTest(t, "zk")
	a, err := Dial(ctx, Config{Servers: servers, SessionTimeout: 4 * time.Second}, log)
	require.NoError(t, err)
	defer a.Close()
	b, err := Dial(ctx, Config{Servers: servers, SessionTimeout: 4 * time.Second}, log)
	require.NoError(t, err)
	defer b.Close()

	root := fmt.Sprintf("/elector-test/%d", time.Now().UnixNano())
	require.NoError(t, a.MkdirAll(ctx, root))
	require.NoError(t, b.MkdirAll(ctx, root))

	pa, err := a.CreateEphemeralSequential(ctx, root+"/p_", []byte("a"))
	require.NoError(t, err)
	pb, err := b.CreateEphemeralSequential(ctx, root+"/p_", []byte("b"))
	require.NoError(t, err)
	require.Less(t, pa, pb)

	data, err := b.GetData(ctx, pa)
	require.NoError(t, err)
	require.Equal(t, []byte("a"), data)
	_, err = b.GetData(ctx, root+"/missing")
	require.ErrorIs(t, err, types.ErrNoNode)

	children, childWatch, err := b.ChildrenW(ctx, root)
	require.NoError(t, err)
	require.Len(t, children, 2)

	exists, watch, err := b.ExistsW(ctx, pa)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, a.Close())

	select {
	case ev := <-watch:
		require.Equal(t, types.TreeEventNodeDeleted, ev.Type)
	case <-ctx.Done():
		t.Fatal("existence watch did not fire")
	}
	select {
	case ev := <-childWatch:
		require.Equal(t, types.TreeEventNodeChildrenChanged, ev.Type)
	case <-ctx.Done():
		t.Fatal("child watch did not fire")
	}

	err = b.Delete(ctx, pa)
	require.ErrorIs(t, err, types.ErrNoNode)
	require.NoError(t, b.Delete(ctx, pb))

	_, err = a.Children(ctx, root)
	require.ErrorIs(t, err, types.ErrClientClosed)
}
