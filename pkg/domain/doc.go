/*
Package domain contains the core types of the graft synchronization engine.

It defines document snapshots and the changes between them, versioned tracking
spans, the textual conventions that delimit source blocks and generated
regions, and the lifecycle events emitted while the engine keeps them in sync.
The package is pure: it performs no I/O and holds no engine state.

# Key Entities

  - Snapshot: an immutable version of the document text with line lookup.
  - Change: one replaced range, described in both the old and the new snapshot.
  - TrackingSpan: a half-open range bound to a version and an edge policy.
  - Conventions: the marker prefix and the region delimiters.
  - BlockInfo: a read-only view of a source block and its generated region.
*/
package domain
