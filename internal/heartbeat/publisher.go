package heartbeat

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/elector/internal/logger"
	"github.com/arloliu/elector/types"
)

// Common errors for heartbeat operations.
var (
	ErrNotStarted     = errors.New("publisher not started")
	ErrAlreadyStarted = errors.New("publisher already started")
)

// Publisher periodically rewrites one KV record while it still owns it.
type Publisher struct {
	kv       jetstream.KeyValue
	key      string
	value    []byte
	interval time.Duration
	logger   types.Logger

	mu       sync.Mutex
	started  bool
	revision uint64
	stopCh   chan struct{}
	doneCh   chan struct{}
}

// New creates a new heartbeat publisher.
//
// Parameters:
//   - kv: JetStream KV bucket holding the record
//   - key: Record key
//   - value: Record value written on every refresh
//   - interval: Refresh interval (typically a third of the bucket TTL)
//   - log: Logger (nil for none)
//
// Returns:
//   - *Publisher: New heartbeat publisher instance
func New(kv jetstream.KeyValue, key string, value []byte, interval time.Duration, log types.Logger) *Publisher {
	if log == nil {
		log = logger.NewNop()
	}

	return &Publisher{
		kv:       kv,
		key:      key,
		value:    value,
		interval: interval,
		logger:   log,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start writes the record and begins refreshing it in the background.
//
// Returns:
//   - error: ErrAlreadyStarted if already running, or the initial write error
func (p *Publisher) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started {
		return ErrAlreadyStarted
	}

	rev, err := p.kv.Put(ctx, p.key, p.value)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", p.key, err)
	}

	p.started = true
	p.revision = rev

	go p.refreshLoop()

	return nil
}

// Stop ends refreshing and waits for the background goroutine.
//
// The record is not deleted.
//
// Returns:
//   - error: ErrNotStarted if Start was never called or Stop already ran
func (p *Publisher) Stop() error {
	p.mu.Lock()
	if !p.started {
		p.mu.Unlock()
		return ErrNotStarted
	}
	p.started = false
	close(p.stopCh)
	p.mu.Unlock()

	<-p.doneCh

	return nil
}

// Done is closed when refreshing ends, either by Stop or because the record
// was replaced or expired.
func (p *Publisher) Done() <-chan struct{} {
	return p.doneCh
}

// Revision returns the revision of the last successful write.
func (p *Publisher) Revision() uint64 {
	p.mu.Lock()
	defer p.mu.Unlock()

	return p.revision
}

func (p *Publisher) refreshLoop() {
	defer close(p.doneCh)

	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stopCh:
			return
		case <-ticker.C:
			if lost := p.refresh(); lost {
				return
			}
		}
	}
}

// refresh rewrites the record. It reports true once the record is no longer owned.
func (p *Publisher) refresh() bool {
	p.mu.Lock()
	last := p.revision
	p.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), p.interval)
	defer cancel()

	rev, err := p.kv.Update(ctx, p.key, p.value, last)
	if err == nil {
		p.mu.Lock()
		p.revision = rev
		p.mu.Unlock()

		return false
	}

	if isOwnershipLost(err) {
		p.logger.Info("record no longer owned, refresh stopped", "key", p.key)
		return true
	}

	p.logger.Warn("record refresh failed", "key", p.key, "error", err)

	return false
}

func isOwnershipLost(err error) bool {
	if errors.Is(err, jetstream.ErrKeyExists) || errors.Is(err, jetstream.ErrKeyNotFound) {
		return true
	}

	var apiErr *jetstream.APIError
	return errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence
}
