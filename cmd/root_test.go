package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/iburimskiy/particle-field/internal/config"
	"github.com/iburimskiy/particle-field/internal/observability"
)

// captureRun replaces runGame for the duration of the test and returns a
// pointer to the config it was called with.
func captureRun(t *testing.T) **config.Config {
	t.Helper()
	var got *config.Config
	orig := runGame
	runGame = func(cfg *config.Config, _ *zap.Logger) error {
		got = cfg
		return nil
	}
	t.Cleanup(func() {
		runGame = orig
		observability.ResetForTest()
	})
	return &got
}

func TestRootUsesDefaults(t *testing.T) {
	got := captureRun(t)

	root := newRootCmd()
	root.SetArgs(nil)
	require.NoError(t, root.Execute())

	require.NotNil(t, *got)
	assert.Equal(t, config.Default(), **got)
}

func TestRootFlagsOverride(t *testing.T) {
	got := captureRun(t)

	root := newRootCmd()
	root.SetArgs([]string{"--width", "800", "--height", "600", "--seed", "42", "--log-level", "debug", "--stats"})
	require.NoError(t, root.Execute())

	cfg := *got
	require.NotNil(t, cfg)
	assert.Equal(t, 800, cfg.Window.Width)
	assert.Equal(t, 600, cfg.Window.Height)
	assert.Equal(t, uint64(42), cfg.Particles.Seed)
	assert.Equal(t, "debug", cfg.Logger.Level)
	assert.True(t, cfg.Window.ShowStats)
}

func TestRootReadsConfigFileAndEnv(t *testing.T) {
	got := captureRun(t)

	path := filepath.Join(t.TempDir(), "particles.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
window:
  background: "#000000"
particles:
  desktop_count: 60
  mobile_link_distance: 64
  resize_debounce: 150ms
logger:
  format: json
`), 0o600))
	t.Setenv("PARTICLES_PARTICLES_MOBILE_COUNT", "10")

	root := newRootCmd()
	root.SetArgs([]string{"--config", path})
	require.NoError(t, root.Execute())

	cfg := *got
	require.NotNil(t, cfg)
	assert.Equal(t, "#000000", cfg.Window.Background)
	assert.Equal(t, 60, cfg.Particles.DesktopCount)
	assert.Equal(t, 10, cfg.Particles.MobileCount)
	assert.Equal(t, 64.0, cfg.Particles.MobileLinkDistance)
	assert.Equal(t, 150*time.Millisecond, cfg.Particles.ResizeDebounce)
	assert.Equal(t, "json", cfg.Logger.Format)
	assert.Equal(t, config.LinkMaxAlpha, cfg.Particles.LinkMaxAlpha)
}

func TestRootRejectsInvalidConfig(t *testing.T) {
	got := captureRun(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("particles:\n  speed: 5\n"), 0o600))

	root := newRootCmd()
	root.SetArgs([]string{"--config", path})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "speed")
	assert.Nil(t, *got)
}

func TestRootMissingExplicitConfigFails(t *testing.T) {
	captureRun(t)

	root := newRootCmd()
	root.SetArgs([]string{"--config", filepath.Join(t.TempDir(), "nope.yaml")})
	assert.Error(t, root.Execute())
}

func TestVersionCommand(t *testing.T) {
	captureRun(t)

	var out bytes.Buffer
	root := newRootCmd()
	root.SetOut(&out)
	root.SetArgs([]string{"version"})
	require.NoError(t, root.Execute())
	assert.Equal(t, Version+"\n", out.String())
}
