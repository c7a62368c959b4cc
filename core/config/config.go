package config

import (
	"reflect"
	"strings"

	"scma-sync/core/auth"
	"scma-sync/core/history"
	"scma-sync/core/logger"
	"scma-sync/core/server"
	"scma-sync/feature/club"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Auth holds configuration for the Google credential.
	Auth auth.Config `mapstructure:"auth"`
	// Club holds configuration for the club source.
	Club club.Config `mapstructure:"club"`
	// Sync holds configuration for the sync targets.
	Sync SyncConfig `mapstructure:"sync"`
	// Server holds configuration for the report server.
	Server server.Config `mapstructure:"server"`
	// History holds configuration for the run history store.
	History history.Config `mapstructure:"history"`
}

// SyncConfig holds the sync target settings consumed by the engine.
type SyncConfig struct {
	// Calendar is the display name of the target calendar.
	Calendar string `mapstructure:"calendar" default:"SCMA"`
	// Group is the display name of the target contact group.
	Group string `mapstructure:"group" default:"SCMA"`
	// Owners is a comma-separated list of calendar owner emails. Owners
	// are granted once and excluded from reader reconciliation.
	Owners string `mapstructure:"owners" default:""`
	// Notify sends sharing notification emails on new reader grants.
	Notify bool `mapstructure:"notify" default:"false"`
	// Dates selects which events to fetch: all or upcoming.
	Dates string `mapstructure:"dates" default:"upcoming"`
	// AliasFile points at a YAML email alias remap table, applied to
	// desired emails before diffing.
	AliasFile string `mapstructure:"alias_file" default:""`
	// Schedule is the cron expression the serve command syncs on.
	Schedule string `mapstructure:"schedule" default:"0 6 * * *"`
}

// OwnerList splits the configured owners into a slice.
func (c SyncConfig) OwnerList() []string {
	if c.Owners == "" {
		return nil
	}
	parts := strings.Split(c.Owners, ",")
	owners := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			owners = append(owners, trimmed)
		}
	}
	return owners
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	// We construct the path to .env
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SYNC_CALENDAR -> sync.calendar)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
