package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/sheetsync/pkg/logging"
)

func TestDefaultConfig(t *testing.T) {
	cfg := logging.DefaultConfig()
	assert.Equal(t, "info", cfg.Level)
	assert.Equal(t, "auto", cfg.Format)
	assert.Equal(t, "stderr", cfg.Output)
	assert.False(t, cfg.AddCaller)
}

func TestNewLoggerFromConfig(t *testing.T) {
	originalLevel := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(originalLevel) })

	path := filepath.Join(t.TempDir(), "sync.log")
	logger := logging.NewLoggerFromConfig(&logging.Config{
		Level:  "warn",
		Format: "json",
		Output: path,
	})

	logger.Info().Msg("hidden")
	logger.Warn().Str("pair", "Journal").Msg("visible")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "visible")
	assert.Contains(t, string(content), `"pair":"Journal"`)
	assert.NotContains(t, string(content), "hidden")
}

func TestContextFields(t *testing.T) {
	tl := logging.NewTestLogger(t)

	ctx := logging.WithLogger(context.Background(), tl.Logger)
	ctx = logging.WithRunID(ctx, "run-1")
	ctx = logging.WithPair(ctx, "Journal")
	ctx = logging.WithStage(ctx, "append")

	logging.FromContext(ctx).Info().Int("rows", 2).Msg("Appending rows")

	assert.Equal(t, "run-1", logging.RunID(ctx))
	assert.True(t, tl.ContainsAll(`"run_id":"run-1"`, `"pair":"Journal"`, `"stage":"append"`, `"rows":2`))
	assert.Len(t, tl.Lines(), 1)
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Same(t, logging.Default(), logging.FromContext(context.Background()))
	assert.Empty(t, logging.RunID(context.Background()))
}

func TestCaptureLoggingForTest(t *testing.T) {
	tl := logging.CaptureLoggingForTest(t)
	logging.Info().Msg("captured")
	assert.True(t, tl.Contains("captured"))
}
