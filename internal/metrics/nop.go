// Package metrics provides MetricsCollector implementations.
package metrics

import "github.com/arloliu/elector/types"

// NopMetrics implements a no-op metrics collector.
//
// All metrics are discarded. It is the default collector of a session.
type NopMetrics struct{}

// Compile-time assertion that NopMetrics implements MetricsCollector.
var _ types.MetricsCollector = (*NopMetrics)(nil)

// NewNop creates a new no-op metrics collector.
func NewNop() *NopMetrics {
	return &NopMetrics{}
}

// ElectionMetrics implementation

// RecordLeadershipChange discards the leadership change metric.
func (n *NopMetrics) RecordLeadershipChange(_ /* candidateID */ string, _ /* leader */ bool) {
	// No-op
}

// RecordWatchFired discards the watch metric.
func (n *NopMetrics) RecordWatchFired(_ /* eventType */ string, _ /* discarded */ bool) {
	// No-op
}

// RecordRelist discards the relist metric.
func (n *NopMetrics) RecordRelist(_ /* duration */ float64, _ /* candidates */ int) {
	// No-op
}

// RecordProtocolError discards the protocol error metric.
func (n *NopMetrics) RecordProtocolError(_ /* kind */ string) {
	// No-op
}

// RecordEventDropped discards the dropped event metric.
func (n *NopMetrics) RecordEventDropped() {
	// No-op
}

// RecordAnnounce discards the announce metric.
func (n *NopMetrics) RecordAnnounce(_ /* success */ bool) {
	// No-op
}

// TreeMetrics implementation

// RecordTreeOperation discards the tree operation metric.
func (n *NopMetrics) RecordTreeOperation(_ /* operation */ string, _ /* duration */ float64, _ /* success */ bool) {
	// No-op
}
