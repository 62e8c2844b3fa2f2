package natsutil

import (
	"errors"
	"fmt"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"
)

func TestIsConnectivityError(t *testing.T) {
	require.False(t, IsConnectivityError(nil))
	require.False(t, IsConnectivityError(errors.New("bad payload")))

	require.True(t, IsConnectivityError(nats.ErrTimeout))
	require.True(t, IsConnectivityError(fmt.Errorf("publish: %w", nats.ErrConnectionClosed)))
	require.True(t, IsConnectivityError(errors.New("dial tcp 127.0.0.1:4222: connection refused")))
	require.True(t, IsConnectivityError(fmt.Errorf("create bucket: %w", nats.ErrConnectionDraining)))
	require.True(t, IsConnectivityError(nats.ErrConnectionReconnecting))
	require.True(t, IsConnectivityError(jetstream.ErrNoStreamResponse))

	require.False(t, IsConnectivityError(jetstream.ErrInvalidBucketName))
	require.False(t, IsConnectivityError(jetstream.ErrBucketNotFound))
}

func TestPathToken(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/election", "election"},
		{"/services/billing/leader", "services.billing.leader"},
		{"/jobs/*", "jobs._"},
		{"/a b/c.d", "a_b.c_d"},
		{"/", "_"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			require.Equal(t, tt.want, PathToken(tt.path))
		})
	}
}
