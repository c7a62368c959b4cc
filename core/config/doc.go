// Package config loads the application configuration from environment
// variables and an optional .env file.
//
// Each subsystem declares its own partial Config struct; this package
// joins them and supplies defaults from struct tags, so every setting can
// be overridden with an underscore-joined environment variable
// (sync.calendar becomes SYNC_CALENDAR).
package config
