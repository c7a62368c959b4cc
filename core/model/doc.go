// Package model defines the source records synchronized by scma-sync.
//
// Events and users are produced by the club site (see feature/club) once per
// sync run and are treated as read-only inputs by the reconciliation engine.
// The package also owns the identity-key normalization rules: emails are
// lowercased and trimmed, phone numbers reduced to a "+1" digit string, and
// an alias table can remap desired emails before diffing.
package model
