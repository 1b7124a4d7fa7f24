package dscdctl

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempYAML(t *testing.T, contents string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "qdiscs.yaml")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))
	return path
}

func TestLoadEngineConfigAppliesPresetOverDefaults(t *testing.T) {
	path := writeTempYAML(t, `
qdiscs:
  eth0:
    limit: 50000
    rate: 5000000
    t_q: 4
`)
	cfg, err := loadEngineConfig(path, "eth0")
	require.NoError(t, err)

	assert.EqualValues(t, 50000, cfg.Limit)
	assert.EqualValues(t, 5000000, cfg.RateConfig)
	assert.EqualValues(t, 4, cfg.TQ)
	// Fields absent from the preset keep the built-in defaults.
	assert.EqualValues(t, 100_000_000, cfg.CreditHalfLife)
	assert.EqualValues(t, 10_000_000, cfg.TD)
}

func TestLoadEngineConfigUnknownNameErrors(t *testing.T) {
	path := writeTempYAML(t, "qdiscs:\n  eth0:\n    limit: 1000\n")
	_, err := loadEngineConfig(path, "eth1")
	assert.Error(t, err)
}

func TestLoadEngineConfigMissingFileErrors(t *testing.T) {
	_, err := loadEngineConfig(filepath.Join(t.TempDir(), "missing.yaml"), "eth0")
	assert.Error(t, err)
}
