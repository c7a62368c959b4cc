package server

// Config holds configuration for the report server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey, when set, is required on every request except the health
	// check.
	ApiKey string `mapstructure:"api_key" default:""`
	// RunsLimit caps how many runs the report endpoint returns.
	RunsLimit int `mapstructure:"runs_limit" default:"50"`
}
