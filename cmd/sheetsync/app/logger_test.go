package app

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestDetermineLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		expected string
	}{
		{name: "default", config: &Config{}, expected: "info"},
		{name: "verbose", config: &Config{Verbose: true}, expected: "debug"},
		{name: "quiet", config: &Config{Quiet: true}, expected: "warn"},
		{name: "verbose and quiet prefers quiet", config: &Config{Verbose: true, Quiet: true}, expected: "warn"},
		{name: "explicit level overrides verbose", config: &Config{LogLevel: "error", Verbose: true}, expected: "error"},
		{name: "explicit level overrides quiet", config: &Config{LogLevel: "trace", Quiet: true}, expected: "trace"},
		{name: "invalid level falls back to info", config: &Config{LogLevel: "loud"}, expected: "info"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, determineLogLevel(tt.config))
		})
	}
}

func TestNewLogger(t *testing.T) {
	logger := NewLogger(&Config{LogLevel: "warn", LogFormat: "json", LogOutput: "discard"})
	assert.Equal(t, zerolog.WarnLevel, logger.GetLevel())
}
