package etcdtree

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/elector/internal/logger"
	"github.com/arloliu/elector/types"
)

func TestDial_NoEndpoints(t *testing.T) {
	_, err := Dial(t.Context(), Config{}, nil)
	require.Error(t, err)
}

// etcdEndpoints returns endpoints from ETCD_ENDPOINTS or skips the test.
func etcdEndpoints(t *testing.T) []string {
	t.Helper()

	raw := os.Getenv("ETCD_ENDPOINTS")
	if raw == "" {
		t.Skip("ETCD_ENDPOINTS not set")
	}

	return strings.Split(raw, ",")
}

func TestClient_Integration(t *testing.T) {
	endpoints := etcdEndpoints(t)
	ctx, cancel := context.WithTimeout(t.Context(), 20*time.Second)
	defer cancel()

	cfg := Config{Endpoints: endpoints, SessionTTL: 2 * time.Second}
	log := logger.NewTest(t, "etcd")

	a, err := Dial(ctx, cfg, log)
	require.NoError(t, err)
	defer a.Close()
	b, err := Dial(ctx, cfg, log)
	require.NoError(t, err)
	defer b.Close()

	root := fmt.Sprintf("/elector-test/%d", time.Now().UnixNano())

	_, err = a.CreateEphemeralSequential(ctx, root+"/p_", nil)
	require.ErrorIs(t, err, types.ErrNoNode)

	require.NoError(t, a.MkdirAll(ctx, root))
	require.NoError(t, b.MkdirAll(ctx, root))

	pa, err := a.CreateEphemeralSequential(ctx, root+"/p_", []byte("a"))
	require.NoError(t, err)
	require.Equal(t, root+"/p_0000000000", pa)
	pb, err := b.CreateEphemeralSequential(ctx, root+"/p_", []byte("b"))
	require.NoError(t, err)
	require.Equal(t, root+"/p_0000000001", pb)

	data, err := b.GetData(ctx, pa)
	require.NoError(t, err)
	require.Equal(t, []byte("a"), data)
	_, err = b.GetData(ctx, root+"/missing")
	require.ErrorIs(t, err, types.ErrNoNode)

	children, childWatch, err := b.ChildrenW(ctx, root)
	require.NoError(t, err)
	require.ElementsMatch(t, []string{"p_0000000000", "p_0000000001"}, children)

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

	require.ErrorIs(t, b.Delete(ctx, pa), types.ErrNoNode)
	require.NoError(t, b.Delete(ctx, pb))

	_, err = a.Children(ctx, root)
	require.ErrorIs(t, err, types.ErrClientClosed)
}
