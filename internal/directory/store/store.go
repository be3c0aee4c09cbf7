// Package store persists the directory mapping. Implementations are
// interface-driven so the service layer can swap the file-backed default for
// in-memory or PostgreSQL persistence without rewiring business code.
//
// All backends expose the same durable layout through Snapshot: a flat JSON
// object keyed by identifier, each value holding exactly the five record
// fields. The field names are part of the on-disk contract and must not
// change.
package store

import "dialbook/pkg/sentinel"

// ErrNotFound keeps store-specific misses consistent across backends. It is
// distinct from storage failures: callers must never conflate "no such
// record" with "store is broken".
var ErrNotFound = sentinel.ErrNotFound
