package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ecsgraph.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadOverlaysDefaults(t *testing.T) {
	path := write(t, `
[loop]
tick_rate = "20ms"

[snapshot]
name = "level1"
exclude_resources = ["Viewport"]

[scripting]
systems = ["wander", "blink"]
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 20*time.Millisecond, cfg.Loop.TickRate)
	assert.Equal(t, "level1", cfg.Snapshot.Name)
	assert.Equal(t, []string{"Viewport"}, cfg.Snapshot.ExcludeResources)
	assert.Equal(t, []string{"wander", "blink"}, cfg.Scripting.Systems)

	// untouched sections keep defaults
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 0.1, cfg.Snapshot.AutosaveHz)
	assert.False(t, cfg.Database.Enabled)
	assert.Equal(t, "scripts", cfg.Scripting.Dir)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadValues(t *testing.T) {
	_, err := Load(write(t, "[loop]\ntick_rate = \"0s\"\n"))
	assert.Error(t, err)

	_, err = Load(write(t, "[snapshot]\nautosave_hz = -1.0\n"))
	assert.Error(t, err)

	_, err = Load(write(t, "[loop\n"))
	assert.Error(t, err)
}

func TestPathFromEnv(t *testing.T) {
	t.Setenv(EnvPath, "/etc/ecsgraph.toml")
	assert.Equal(t, "/etc/ecsgraph.toml", Path())
	t.Setenv(EnvPath, "")
	assert.Equal(t, DefaultPath, Path())
}
