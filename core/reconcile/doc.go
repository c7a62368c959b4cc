// Package reconcile implements the generic reconciliation engine used by
// the calendar and contacts integrations.
//
// The remote collections expose only identity-keyed CRUD and paginated
// listing; there is no diff or bulk-sync primitive. The engine therefore
// computes a minimal, idempotent changeset from a desired set of source
// records and the actual remote state, and applies it under bounded
// concurrency without ever touching remote data the source does not own.
//
// # Components
//
//  1. Diff: key-based set diff classifying records as inserts, updates, or
//     deletes. Every key lands in exactly one bucket; actual-side entities
//     without a usable key are left untouched.
//  2. Exclude: removes a pinned set (e.g. calendar co-owners) from the
//     insert and delete buckets so externally managed identities survive.
//  3. ListAll: paginated remote-state retrieval; a page failure discards
//     everything so a partial listing can never feed the differ.
//  4. Apply: a bounded worker pool that drives the changeset buckets,
//     collects independent per-unit failures, and short-circuits every
//     write under dry run.
//
// Field-level merging lives with the integration that owns the wire shape
// (see feature/contacts), not here: the engine only decides which keys
// need which operation.
package reconcile
