package domain

import "fmt"

const unknownDescription = "Unknown"

// Settings holds the effective defaults for the command surface.
// Command-line flags override every field.
type Settings struct {
	// Label is the default host label. Empty means the machine hostname.
	Label string

	// DB is the default catalog store location.
	DB string

	// Workers bounds concurrent hashing during indexing. 1 is sequential.
	Workers int

	// Rate limits files hashed per second. 0 is unlimited.
	Rate float64

	// Exclude holds glob patterns skipped during indexing.
	Exclude []string

	// LogLevel is the minimum severity printed (debug, info, warn, error).
	LogLevel string
}

// DefaultSettings returns settings used when no configuration exists.
func DefaultSettings() Settings {
	return Settings{
		Workers:  1,
		LogLevel: "info",
	}
}

// Validate checks that the settings are usable.
func (s Settings) Validate() error {
	if s.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidInput, s.Workers)
	}
	if s.Rate < 0 {
		return fmt.Errorf("%w: rate must not be negative, got %g", ErrInvalidInput, s.Rate)
	}
	return nil
}
