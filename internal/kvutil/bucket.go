// Package kvutil provides utilities for working with NATS JetStream KeyValue stores.
package kvutil

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/arloliu/elector/internal/natsutil"
)

const bucketBackoff = 20 * time.Millisecond

// EnsureLeaderBucket opens the leader bucket, creating it if needed.
//
// Sessions of one election usually start together and race on the same
// bucket: the loser of a create opens the winner's bucket. Only transient
// failures are retried, with exponential backoff: a connectivity error or a
// bucket that vanished between create and open. Any other error, such as an
// invalid bucket name, is returned at once.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - js: JetStream context
//   - config: KV bucket configuration
//   - attempts: Maximum number of attempts (default: 3)
//
// Returns:
//   - jetstream.KeyValue: The KV bucket instance
//   - error: The first permanent error, or the last transient one
//
// Example:
//
//	kv, err := kvutil.EnsureLeaderBucket(ctx, js, jetstream.KeyValueConfig{
//	    Bucket:  "elector-leaders",
//	    History: 1,
//	}, 3)
func EnsureLeaderBucket(
	ctx context.Context,
	js jetstream.JetStream,
	config jetstream.KeyValueConfig,
	attempts int,
) (jetstream.KeyValue, error) {
	if attempts <= 0 {
		attempts = 3
	}

	backoff := bucketBackoff
	for attempt := 1; ; attempt++ {
		kv, err := openOrCreate(ctx, js, config)
		if err == nil {
			return kv, nil
		}
		if ctx.Err() != nil {
			return nil, fmt.Errorf("leader bucket %s: %w", config.Bucket, ctx.Err())
		}
		if !retryable(err) || attempt >= attempts {
			return nil, fmt.Errorf("leader bucket %s (attempt %d/%d): %w", config.Bucket, attempt, attempts, err)
		}

		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("leader bucket %s: %w", config.Bucket, ctx.Err())
		case <-time.After(backoff):
		}
		backoff *= 2
	}
}

func openOrCreate(ctx context.Context, js jetstream.JetStream, config jetstream.KeyValueConfig) (jetstream.KeyValue, error) {
	kv, err := js.CreateKeyValue(ctx, config)
	if !errors.Is(err, jetstream.ErrBucketExists) {
		return kv, err
	}

	kv, err = js.KeyValue(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("open existing bucket: %w", err)
	}

	return kv, nil
}

func retryable(err error) bool {
	return natsutil.IsConnectivityError(err) || errors.Is(err, jetstream.ErrBucketNotFound)
}

// DeleteIf deletes key only if its current value satisfies match and no
// writer replaced it in between.
//
// The delete is conditioned on the revision that was read, so a concurrent
// Put by another writer wins and the key survives.
//
// Parameters:
//   - ctx: Context for timeout/cancellation
//   - kv: KeyValue bucket
//   - key: Key to delete
//   - match: Predicate over the current value
//
// Returns:
//   - bool: true if the key was deleted
//   - error: Read or delete error; a lost race is not an error
func DeleteIf(ctx context.Context, kv jetstream.KeyValue, key string, match func(value []byte) bool) (bool, error) {
	entry, err := kv.Get(ctx, key)
	if errors.Is(err, jetstream.ErrKeyNotFound) || errors.Is(err, jetstream.ErrKeyDeleted) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if !match(entry.Value()) {
		return false, nil
	}

	err = kv.Delete(ctx, key, jetstream.LastRevision(entry.Revision()))
	if err != nil {
		var apiErr *jetstream.APIError
		if errors.As(err, &apiErr) && apiErr.ErrorCode == jetstream.JSErrCodeStreamWrongLastSequence {
			return false, nil
		}

		return false, err
	}

	return true, nil
}
