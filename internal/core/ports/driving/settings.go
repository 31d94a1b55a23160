package driving

import "github.com/custodia-labs/multi-machine-dedup/internal/core/domain"

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings, filled with defaults.
	Get() (domain.Settings, error)

	// Set parses and persists one setting by key.
	Set(key, value string) error

	// Keys lists the recognised setting keys.
	Keys() []string

	// Path returns the configuration file path.
	Path() string
}
