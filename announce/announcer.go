// Package announce publishes leadership transitions to NATS.
//
// Every transition is published as JSON on <Subject>.<path token>. When a
// bucket is configured, the current leader of each election is also kept in
// a JetStream KeyValue bucket under the path token, so late joiners can read
// it with CurrentLeader without subscribing.
package announce

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/puzpuzpuz/xsync/v4"

	"github.com/arloliu/elector/internal/heartbeat"
	"github.com/arloliu/elector/internal/kvutil"
	"github.com/arloliu/elector/internal/logger"
	"github.com/arloliu/elector/internal/natsutil"
	"github.com/arloliu/elector/types"
)

// ErrNoLeader is returned by CurrentLeader when no leader is recorded.
var ErrNoLeader = errors.New("no leader recorded")

// DefaultSubject is the subject prefix used when Config.Subject is empty.
const DefaultSubject = "elector.leader"

// Config configures an Announcer.
type Config struct {
	// Subject is the subject prefix; the election path token is appended.
	Subject string

	// Bucket names the KV bucket holding current leaders. Empty disables the bucket.
	Bucket string

	// BucketTTL expires leader records that are never cleared (0 keeps them).
	// While a leader runs, its record is refreshed every BucketTTL/3.
	BucketTTL time.Duration
}

// Announcer implements types.Announcer and types.Retracter over a NATS connection.
type Announcer struct {
	nc      *nats.Conn
	kv      jetstream.KeyValue
	ttl     time.Duration
	subject string
	logger  types.Logger

	// refreshers holds one heartbeat per election key led from this process.
	refreshers *xsync.Map[string, *refresher]
}

type refresher struct {
	candidateID string
	instanceID  string
	publisher   *heartbeat.Publisher
}

var (
	_ types.Announcer = (*Announcer)(nil)
	_ types.Retracter = (*Announcer)(nil)
)

// New creates an Announcer, creating or opening the leader bucket when configured.
//
// Parameters:
//   - ctx: Bounds bucket creation
//   - nc: Connected NATS client; not closed by the Announcer
//   - cfg: Subject prefix and optional bucket
//   - log: Logger (nil for none)
//
// Returns:
//   - *Announcer: Ready announcer
//   - error: JetStream or bucket error
//
// Example:
//
//	announcer, err := announce.New(ctx, nc, announce.Config{Bucket: "elector-leaders"}, logger)
//	session, _ := elector.NewSession(&cfg, conn, elector.WithAnnouncer(announcer))
func New(ctx context.Context, nc *nats.Conn, cfg Config, log types.Logger) (*Announcer, error) {
	if nc == nil {
		return nil, errors.New("announce: nats connection is required")
	}
	if log == nil {
		log = logger.NewNop()
	}
	subject := cfg.Subject
	if subject == "" {
		subject = DefaultSubject
	}

	a := &Announcer{
		nc:         nc,
		ttl:        cfg.BucketTTL,
		subject:    subject,
		logger:     log,
		refreshers: xsync.NewMap[string, *refresher](),
	}

	if cfg.Bucket != "" {
		js, err := jetstream.New(nc)
		if err != nil {
			return nil, fmt.Errorf("announce: jetstream: %w", err)
		}

		kv, err := kvutil.EnsureLeaderBucket(ctx, js, jetstream.KeyValueConfig{
			Bucket:      cfg.Bucket,
			Description: "Current election leaders",
			History:     1,
			TTL:         cfg.BucketTTL,
		}, 3)
		if err != nil {
			return nil, fmt.Errorf("announce: leader bucket: %w", err)
		}
		a.kv = kv
	}

	return a, nil
}

// Subject returns the subject announcements for electionPath are published on.
func (a *Announcer) Subject(electionPath string) string {
	return a.subject + "." + natsutil.PathToken(electionPath)
}

// KeyValue returns the leader bucket, or nil when none is configured.
func (a *Announcer) KeyValue() jetstream.KeyValue {
	return a.kv
}

// Announce publishes ann and updates the leader record.
//
// A leader announcement overwrites the record. A follower announcement clears
// it only if the record still names the same candidate, so a stale follower
// transition never erases a newer leader.
func (a *Announcer) Announce(ctx context.Context, ann types.Announcement) error {
	payload, err := json.Marshal(ann)
	if err != nil {
		return fmt.Errorf("announce: encode: %w", err)
	}

	if err := a.nc.Publish(a.Subject(ann.ElectionPath), payload); err != nil {
		return a.wrap("publish", err)
	}
	if err := a.nc.FlushWithContext(ctx); err != nil {
		return a.wrap("flush", err)
	}

	if a.kv == nil {
		return nil
	}

	if ann.Leader {
		return a.recordLeader(ctx, ann, payload)
	}

	return a.clearLeader(ctx, ann)
}

// Retract clears the leader record of a departing leader and stops refreshing it.
func (a *Announcer) Retract(ctx context.Context, ann types.Announcement) error {
	if a.kv == nil {
		return nil
	}

	return a.clearLeader(ctx, ann)
}

// Close stops refreshing every leader record. Records are left to expire.
func (a *Announcer) Close() {
	a.refreshers.Range(func(key string, r *refresher) bool {
		a.refreshers.Delete(key)
		_ = r.publisher.Stop()

		return true
	})
}

func (a *Announcer) recordLeader(ctx context.Context, ann types.Announcement, payload []byte) error {
	key := natsutil.PathToken(ann.ElectionPath)

	if a.ttl <= 0 {
		if _, err := a.kv.Put(ctx, key, payload); err != nil {
			return a.wrap("record leader", err)
		}

		return nil
	}

	if prev, ok := a.refreshers.LoadAndDelete(key); ok {
		_ = prev.publisher.Stop()
	}

	pub := heartbeat.New(a.kv, key, payload, a.ttl/3, a.logger)
	if err := pub.Start(ctx); err != nil {
		return a.wrap("record leader", err)
	}
	a.refreshers.Store(key, &refresher{candidateID: ann.CandidateID, instanceID: ann.InstanceID, publisher: pub})

	return nil
}

func (a *Announcer) clearLeader(ctx context.Context, ann types.Announcement) error {
	key := natsutil.PathToken(ann.ElectionPath)

	if r, ok := a.refreshers.Load(key); ok && r.candidateID == ann.CandidateID && r.instanceID == ann.InstanceID {
		a.refreshers.Delete(key)
		_ = r.publisher.Stop()
	}

	cleared, err := kvutil.DeleteIf(ctx, a.kv, key, func(value []byte) bool {
		var prev types.Announcement
		if json.Unmarshal(value, &prev) != nil {
			return false
		}

		return prev.CandidateID == ann.CandidateID && prev.InstanceID == ann.InstanceID
	})
	if err != nil {
		return a.wrap("clear leader", err)
	}
	if cleared {
		a.logger.Debug("leader record cleared", "election_path", ann.ElectionPath, "candidate_id", ann.CandidateID)
	}

	return nil
}

// CurrentLeader reads the recorded leader of electionPath.
func (a *Announcer) CurrentLeader(ctx context.Context, electionPath string) (types.Announcement, error) {
	if a.kv == nil {
		return types.Announcement{}, errors.New("announce: no leader bucket configured")
	}

	return CurrentLeader(ctx, a.kv, electionPath)
}

// CurrentLeader reads the recorded leader of electionPath from kv.
//
// Returns:
//   - types.Announcement: The last leader announcement
//   - error: ErrNoLeader if no leader is recorded
func CurrentLeader(ctx context.Context, kv jetstream.KeyValue, electionPath string) (types.Announcement, error) {
	entry, err := kv.Get(ctx, natsutil.PathToken(electionPath))
	if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
		return types.Announcement{}, ErrNoLeader
	}
	if err != nil {
		return types.Announcement{}, err
	}

	var ann types.Announcement
	if err := json.Unmarshal(entry.Value(), &ann); err != nil {
		return types.Announcement{}, fmt.Errorf("announce: decode leader record: %w", err)
	}

	return ann, nil
}

func (a *Announcer) wrap(op string, err error) error {
	if natsutil.IsConnectivityError(err) {
		a.logger.Warn("nats unavailable", "operation", op, "error", err)
	}

	return fmt.Errorf("announce: %s: %w", op, err)
}
