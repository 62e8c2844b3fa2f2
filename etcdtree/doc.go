// Package etcdtree implements types.TreeClient over etcd v3.
//
// etcd has a flat keyspace, so the tree is emulated:
//   - A node is a key equal to its absolute path; persistent parents created by
//     MkdirAll are empty-valued keys
//   - Ephemeral nodes are attached to the lease of a concurrency.Session and
//     vanish when the session ends or its lease expires
//   - Sequence numbers come from a per-parent counter key updated in the same
//     transaction that creates the node, so numbering is strictly increasing
//   - One-shot watches are etcd watches started at the revision of the read
//     that armed them and canceled after the first matching event
package etcdtree
