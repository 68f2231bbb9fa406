package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestNewDefaultConfig(t *testing.T) {
	cfg := NewDefaultConfig()

	assert.Equal(t, "gemini-1.5-flash", cfg.Model)
	assert.Equal(t, 3, cfg.MaxRetries)
	assert.Equal(t, 1000, cfg.BaseDelayMs)
	assert.Equal(t, 10000, cfg.MaxDelayMs)
	assert.Equal(t, 30000, cfg.TimeoutMs)
	assert.Equal(t, ".tripcost/plans.json", cfg.PlansFile)
}

func TestLoadFile_ParsesWhitelistedKeys(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "tripcost.conf", `
# provider
GEMINI_MODEL = gemini-1.5-pro
MAX_RETRIES=5

not a config line
UNKNOWN_KEY=ignored
TIMEOUT_MS = 60000
`)

	m, err := LoadFile(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-pro", m["GEMINI_MODEL"])
	assert.Equal(t, "5", m["MAX_RETRIES"])
	assert.Equal(t, "60000", m["TIMEOUT_MS"])
	assert.NotContains(t, m, "UNKNOWN_KEY")
	assert.Len(t, m, 3)
}

func TestLoadFile_MissingFile(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.conf"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestApplyMapToConfig_BadIntegerPreserved(t *testing.T) {
	cfg := NewDefaultConfig()
	ApplyMapToConfig(cfg, map[string]string{"MAX_RETRIES": "plenty"})
	assert.Equal(t, 3, cfg.MaxRetries, "unparseable integer keeps the previous value")
}

func TestLoadWithPrecedence(t *testing.T) {
	dir := t.TempDir()
	global := writeConfig(t, dir, "global.conf", "GEMINI_MODEL=gemini-1.5-pro\nMAX_RETRIES=5\nVERBOSE=yes\n")
	project := writeConfig(t, dir, "project.conf", "MAX_RETRIES=2\n")
	explicit := writeConfig(t, dir, "explicit.conf", "TIMEOUT_MS=5000\n")

	cfg, err := LoadWithPrecedence(global, project, explicit, map[string]string{
		"MAX_RETRIES": "7",
	})
	require.NoError(t, err)

	assert.Equal(t, "gemini-1.5-pro", cfg.Model, "global survives when unshadowed")
	assert.Equal(t, 7, cfg.MaxRetries, "CLI override wins over all files")
	assert.Equal(t, 5000, cfg.TimeoutMs, "explicit file wins over defaults")
	assert.True(t, cfg.Verbose)
}

func TestLoadWithPrecedence_MissingGlobalIgnored(t *testing.T) {
	cfg, err := LoadWithPrecedence(filepath.Join(t.TempDir(), "absent.conf"), "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.MaxRetries)
}

func TestLoadWithPrecedence_MissingExplicitFails(t *testing.T) {
	_, err := LoadWithPrecedence("", "", filepath.Join(t.TempDir(), "absent.conf"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "explicit config")
}

func TestLoadWithPrecedence_APIKeyFromEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")

	cfg, err := LoadWithPrecedence("", "", "", nil)
	require.NoError(t, err)
	assert.Equal(t, "env-key", cfg.APIKey)
}

func TestLoadWithPrecedence_FileKeyBeatsEnv(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "env-key")
	dir := t.TempDir()
	explicit := writeConfig(t, dir, "explicit.conf", "GEMINI_API_KEY=file-key\n")

	cfg, err := LoadWithPrecedence("", "", explicit, nil)
	require.NoError(t, err)
	assert.Equal(t, "file-key", cfg.APIKey)
}

func TestRetryPolicy_Conversion(t *testing.T) {
	cfg := NewDefaultConfig()
	p := cfg.RetryPolicy()

	assert.Equal(t, 3, p.MaxRetries)
	assert.Equal(t, time.Second, p.BaseDelay)
	assert.Equal(t, 10*time.Second, p.MaxDelay)
	assert.Equal(t, 30*time.Second, p.Timeout)
}
