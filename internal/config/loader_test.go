package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWithFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "ledgerlens.yaml")
	content := `
log_level: debug
ocr:
  language: spa
  confidence_threshold: 75
server:
  port: 8099
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := NewIsolatedLoader().LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "spa", cfg.OCR.Language)
	assert.InDelta(t, 75.0, cfg.OCR.ConfidenceThreshold, 0.001)
	assert.Equal(t, 8099, cfg.Server.Port)
	// Unset keys keep their defaults.
	assert.Equal(t, "http://localhost:3001", cfg.Backend.BaseURL)
	assert.EqualValues(t, 10, cfg.Server.MaxUploadMB)
}

func TestLoadWithFile_Missing(t *testing.T) {
	_, err := NewIsolatedLoader().LoadWithFile(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist")
}

func TestLoadWithFile_InvalidValuesRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledgerlens.yaml")
	require.NoError(t, os.WriteFile(path, []byte("ocr:\n  language: klingon\n"), 0o600))

	_, err := NewIsolatedLoader().LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "validation failed")
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LEDGERLENS_OCR_LANGUAGE", "fra")
	t.Setenv("LEDGERLENS_SERVER_PORT", "9100")

	// Run from an empty directory so no stray config file is picked up.
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := NewIsolatedLoader().Load()
	require.NoError(t, err)
	assert.Equal(t, "fra", cfg.OCR.Language)
	assert.Equal(t, 9100, cfg.Server.Port)
}

func TestGenerateDefaultConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "generated.yaml")
	require.NoError(t, GenerateDefaultConfigFile(path))

	cfg, err := NewIsolatedLoader().LoadWithFile(path)
	require.NoError(t, err)
	assert.Equal(t, Default().Server.Port, cfg.Server.Port)
}
