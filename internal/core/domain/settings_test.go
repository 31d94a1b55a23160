package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefaultSettings(t *testing.T) {
	s := DefaultSettings()

	assert.Equal(t, 1, s.Workers)
	assert.Equal(t, "info", s.LogLevel)
	assert.Zero(t, s.Rate)
	assert.Empty(t, s.Label)
	assert.NoError(t, s.Validate())
}

func TestSettings_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Settings)
		wantErr bool
	}{
		{"defaults are valid", func(*Settings) {}, false},
		{"several workers", func(s *Settings) { s.Workers = 8 }, false},
		{"zero workers", func(s *Settings) { s.Workers = 0 }, true},
		{"negative rate", func(s *Settings) { s.Rate = -1 }, true},
		{"positive rate", func(s *Settings) { s.Rate = 50 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := DefaultSettings()
			tt.mutate(&s)

			err := s.Validate()

			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidInput)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
