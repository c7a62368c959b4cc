// Package server exposes the local report API: a health check and the
// recorded sync runs. It is read-only; syncs are triggered by the CLI or
// the scheduler, never over HTTP.
package server
