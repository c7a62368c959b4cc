package history

// Config holds configuration for the local run history store.
type Config struct {
	// Path is the sqlite database file. ":memory:" keeps history for the
	// life of the process only.
	Path string `mapstructure:"path" default:"scma-sync.db"`
	// Enabled turns run recording on or off.
	Enabled bool `mapstructure:"enabled" default:"true"`
}
