// Package calendar synchronizes club events and sharing grants with a
// Google calendar.
//
// Events are upserted by a deterministic id derived from the club's numeric
// event id, so repeated runs target the same remote resources: a patch is
// attempted first and falls back to insert when the id is unknown. All-day
// end dates follow the remote service's exclusive convention, with
// multi-day events extended by one day on the wire.
//
// The sharing ACL is reconciled as a set of reader grants keyed by email.
// Owner rules are pinned: they are granted once at startup without
// notification and are excluded from the reader diff.
package calendar
