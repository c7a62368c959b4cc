// Package history records sync runs in a local sqlite database so past
// results can be inspected from the CLI and the report server.
package history
