package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad(t *testing.T) {
	cfg := Load()

	assert.NotNil(t, cfg)
	assert.NotEmpty(t, cfg.ListenAddr)
	assert.NotEmpty(t, cfg.DBPath)
	assert.NotEmpty(t, cfg.ExportPath)
	assert.NotEmpty(t, cfg.Username)
}

func TestLoadCustomValues(t *testing.T) {
	t.Setenv("LISTEN_ADDR", ":9000")
	t.Setenv("DB_PATH", "/custom/db.sqlite")
	t.Setenv("EXPORT_PATH", "/custom/exports")
	t.Setenv("PANTRY_USERNAME", "volunteer")
	t.Setenv("PANTRY_PASSWORD", "s3cret")
	t.Setenv("PANTRYINV_TEST_MODE", "1")

	cfg := Load()

	assert.Equal(t, ":9000", cfg.ListenAddr)
	assert.Equal(t, "/custom/db.sqlite", cfg.DBPath)
	assert.Equal(t, "/custom/exports", cfg.ExportPath)
	assert.Equal(t, "volunteer", cfg.Username)
	assert.Equal(t, "s3cret", cfg.Password)
	assert.True(t, cfg.TestMode)
}

func TestLoadEmptyOverride(t *testing.T) {
	t.Setenv("LOG_FILE", "")

	cfg := Load()

	assert.Empty(t, cfg.LogFile)
}
