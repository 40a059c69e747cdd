package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/teklif_test")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "dev-secret-change-in-production", cfg.JWTSecret)
	assert.Equal(t, []string{"admin", "bilal", "furkan"}, cfg.PrivilegedViewers)
}

func TestLoad_RequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_PrivilegedViewersOverride(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/teklif_test")
	t.Setenv("PRIVILEGED_VIEWERS", "ayse,fatma")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"ayse", "fatma"}, cfg.PrivilegedViewers)
}

func TestIsPrivilegedViewer(t *testing.T) {
	cfg := &Config{PrivilegedViewers: []string{"admin", " bilal ", "furkan"}}

	assert.True(t, cfg.IsPrivilegedViewer("admin"))
	assert.True(t, cfg.IsPrivilegedViewer("Admin"), "comparison is case-insensitive")
	assert.True(t, cfg.IsPrivilegedViewer("bilal"), "config entries are trimmed")
	assert.False(t, cfg.IsPrivilegedViewer("mehmet"))
	assert.False(t, cfg.IsPrivilegedViewer(""))
}
