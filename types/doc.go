// Package types provides core type definitions and interfaces for the elector library.
//
// This package contains shared types that are used across multiple packages in the
// elector library. By keeping these types in a separate package, the coordination
// backends (zktree, etcdtree, memtree) and the internal protocol packages can depend
// on them without importing the root elector package.
//
// Key types:
//   - TreeClient: The coordination-service client consumed by a session
//   - TreeEvent: A fired one-shot watch
//   - Phase: Session lifecycle phase
//   - Leadership: Leader, follower or not yet determined
//   - Event: Notification delivered to session subscribers
//   - Logger: Structured logging interface
//   - MetricsCollector: Metrics recording interface
package types
