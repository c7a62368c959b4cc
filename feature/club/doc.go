// Package club provides the source records a sync run consumes: events
// and the member roster.
//
// The Source interface is the boundary the engine depends on. FileSource
// serves records from a YAML snapshot, and WebClient carries the
// authenticated session plumbing for the club site; parsing site pages
// into records is left to a parser built on top of it.
package club
