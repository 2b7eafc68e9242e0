package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.hcl"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	require.NoError(t, cfg.Validate())
}

func TestLoadParsesAndFillsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fmk.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`
app {
  data_dir  = "/tmp/fmk-test"
  log_level = "debug"
}

timer {
  enabled       = true
  decision_time = 15
}

ai {
  api_key = "k"
}
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "/tmp/fmk-test", cfg.App.DataDir)
	assert.Equal(t, "debug", cfg.App.LogLevel)

	assert.True(t, cfg.Timer.Enabled)
	assert.Equal(t, 15, cfg.Timer.DecisionTime)
	// Unset fields fall back to the defaults.
	assert.Equal(t, Default().Timer.DiscussionTime, cfg.Timer.DiscussionTime)

	assert.Equal(t, "k", cfg.AI.APIKey)
	assert.Equal(t, "gemini-2.5-flash", cfg.AI.Model)

	assert.Equal(t, filepath.Join("/tmp/fmk-test", "fmk.db"), cfg.DatabasePath())

	tc := cfg.TimerConfig()
	assert.True(t, tc.Enabled)
	assert.Equal(t, 15, tc.DecisionTime)
}

func TestLoadRejectsBadHCL(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.hcl")
	require.NoError(t, os.WriteFile(path, []byte(`app {`), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := Default()
	cfg.App.LogLevel = "loud"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Timer.DecisionTime = 0
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.App.DataDir = ""
	assert.Error(t, cfg.Validate())
}
