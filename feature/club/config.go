package club

// Config holds configuration for the club source.
//
// Site credentials are deliberately absent: until a page parser is layered
// on WebClient, no command can consume them, and settings nothing reads do
// not belong on the configuration surface.
type Config struct {
	// Snapshot reads events and users from a YAML file.
	Snapshot string `mapstructure:"snapshot" default:""`
}
