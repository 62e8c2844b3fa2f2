// Package natsutil holds NATS helpers shared by the announcer and the CLI.
package natsutil

import (
	"errors"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// transient lists the client errors that clear once the connection recovers.
var transient = []error{
	nats.ErrTimeout,
	nats.ErrNoServers,
	nats.ErrDisconnected,
	nats.ErrConnectionClosed,
	nats.ErrConnectionDraining,
	nats.ErrConnectionReconnecting,
	jetstream.ErrNoStreamResponse,
	jetstream.ErrNoHeartbeat,
}

// dialFailures match network errors the client passes through unwrapped.
var dialFailures = []string{"connection refused", "i/o timeout", "no route to host"}

// IsConnectivityError reports whether err comes from the NATS connection
// rather than from the request itself.
//
// The announcer only logs these at warn level; the client reconnects on its
// own and the next transition is announced again.
func IsConnectivityError(err error) bool {
	if err == nil {
		return false
	}

	for _, target := range transient {
		if errors.Is(err, target) {
			return true
		}
	}

	msg := err.Error()
	for _, s := range dialFailures {
		if strings.Contains(msg, s) {
			return true
		}
	}

	return false
}
