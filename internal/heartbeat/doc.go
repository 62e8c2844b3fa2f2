// Package heartbeat keeps a JetStream KV record alive while its writer owns it.
//
// The announcer stores the current leader of each election in a KV bucket.
// When the bucket has a TTL, a record that is written once expires even
// though its leader is alive. A Publisher rewrites the record at a fraction
// of the TTL so it only expires when the leader's process stops.
//
// # Ownership
//
// Every refresh is a revision-checked Update. As soon as another writer
// replaces the record (a new leader) or it expires, the Update fails, the
// Publisher stops on its own and Done is closed. A stale leader can therefore
// never resurrect or overwrite a newer record.
//
// # Lifecycle
//
//  1. Create with New(kv, key, value, interval, logger)
//  2. Start writes the record and begins refreshing
//  3. Stop ends refreshing; the record is left for its owner to clear
package heartbeat
