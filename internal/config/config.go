// Package config loads QuickNotes settings from defaults, a .env file, an
// optional quicknotes.yaml, QUICKNOTES_* environment variables and CLI flags,
// in increasing order of precedence.
package config

// Config holds all application configuration.
type Config struct {
	DataDir string `mapstructure:"data_dir" validate:"required"`
	Adapter string `mapstructure:"adapter" validate:"required,oneof=fs sqlite"`
	Format  string `mapstructure:"format" validate:"required,oneof=json yaml"`
	// Versioning is nil when unset so the data directory can decide.
	Versioning  *bool  `mapstructure:"versioning"`
	ReadOnly    bool   `mapstructure:"read_only"`
	LogLevel    string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	LogFormat   string `mapstructure:"log_format" validate:"required,oneof=text json"`
	EventBuffer int    `mapstructure:"event_buffer" validate:"gte=0"`
}

// Keys, as used in quicknotes.yaml. Environment variables are the upper-case
// form with the QUICKNOTES_ prefix, e.g. QUICKNOTES_DATA_DIR.
const (
	KeyDataDir     = "data_dir"
	KeyAdapter     = "adapter"
	KeyFormat      = "format"
	KeyVersioning  = "versioning"
	KeyReadOnly    = "read_only"
	KeyLogLevel    = "log_level"
	KeyLogFormat   = "log_format"
	KeyEventBuffer = "event_buffer"
)

var keys = []string{
	KeyDataDir, KeyAdapter, KeyFormat, KeyVersioning,
	KeyReadOnly, KeyLogLevel, KeyLogFormat, KeyEventBuffer,
}
