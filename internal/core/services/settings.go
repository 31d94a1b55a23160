package services

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/custodia-labs/multi-machine-dedup/internal/core/domain"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driven"
	"github.com/custodia-labs/multi-machine-dedup/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
const (
	keyLabel    = "label"
	keyDB       = "db"
	keyWorkers  = "workers"
	keyRate     = "rate"
	keyExclude  = "exclude"
	keyLogLevel = "log_level"
)

var settingKeys = []string{keyLabel, keyDB, keyWorkers, keyRate, keyExclude, keyLogLevel}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	hostname    func() (string, error)
}

// NewSettingsService creates a new settings service.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		hostname:    os.Hostname,
	}
}

// Get retrieves current application settings. Missing keys take their
// defaults; a missing label falls back to the machine hostname.
func (s *SettingsService) Get() (domain.Settings, error) {
	settings := domain.DefaultSettings()

	settings.Label = s.configStore.GetString(keyLabel)
	if settings.Label == "" {
		if host, err := s.hostname(); err == nil {
			settings.Label = host
		}
	}
	settings.DB = s.configStore.GetString(keyDB)
	if _, ok := s.configStore.Get(keyWorkers); ok {
		settings.Workers = s.configStore.GetInt(keyWorkers)
	}
	settings.Rate = s.configStore.GetFloat(keyRate)
	settings.Exclude = s.configStore.GetStringSlice(keyExclude)
	if level := s.configStore.GetString(keyLogLevel); level != "" {
		settings.LogLevel = level
	}

	if err := settings.Validate(); err != nil {
		return settings, fmt.Errorf("%s: %w", s.configStore.Path(), err)
	}
	return settings, nil
}

// Set parses value for key and persists it.
func (s *SettingsService) Set(key, value string) error {
	var parsed any
	switch key {
	case keyLabel, keyDB:
		parsed = value
	case keyLogLevel:
		switch strings.ToLower(value) {
		case "debug", "info", "warn", "error":
			parsed = strings.ToLower(value)
		default:
			return fmt.Errorf("%w: log level %q", domain.ErrInvalidInput, value)
		}
	case keyWorkers:
		n, err := strconv.Atoi(value)
		if err != nil || n < 1 {
			return fmt.Errorf("%w: workers must be a positive integer", domain.ErrInvalidInput)
		}
		parsed = n
	case keyRate:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil || f < 0 {
			return fmt.Errorf("%w: rate must be a non-negative number", domain.ErrInvalidInput)
		}
		parsed = f
	case keyExclude:
		var patterns []string
		for _, p := range strings.Split(value, ",") {
			if p = strings.TrimSpace(p); p != "" {
				patterns = append(patterns, p)
			}
		}
		parsed = patterns
	default:
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	return nil
}

// Keys lists the recognised setting keys.
func (s *SettingsService) Keys() []string {
	return append([]string(nil), settingKeys...)
}

// Path returns the configuration file path.
func (s *SettingsService) Path() string {
	return s.configStore.Path()
}
