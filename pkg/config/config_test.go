package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.StoreDir)
	assert.Equal(t, 128, cfg.CacheSize)
	assert.Equal(t, 5*time.Minute, cfg.CacheTTL)
	assert.Equal(t, 30*time.Second, cfg.DefaultTimeout)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_File(t *testing.T) {
	path := writeConfig(t, `
store_dir: /opt/tools
cache_size: 16
cache_ttl: 90s
default_timeout: 2m
default_dialect: zsh
log_level: debug
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/tools", cfg.StoreDir)
	assert.Equal(t, 16, cfg.CacheSize)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 2*time.Minute, cfg.DefaultTimeout)
	assert.Equal(t, "zsh", cfg.DefaultDialect)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_EnvironmentOverride(t *testing.T) {
	t.Setenv("TOOLFORGE_CACHE_SIZE", "64")
	t.Setenv("TOOLFORGE_LOG_LEVEL", "warn")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 64, cfg.CacheSize)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_RejectsInvalid(t *testing.T) {
	path := writeConfig(t, "cache_size: 0\ndefault_dialect: ksh\n")

	_, err := Load(path)
	require.Error(t, err)

	var errs ValidationErrors
	require.ErrorAs(t, err, &errs)
	assert.Len(t, errs, 2)
	assert.Contains(t, err.Error(), "cache_size")
	assert.Contains(t, err.Error(), "default_dialect")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid",
			cfg:  Config{CacheSize: 1},
		},
		{
			name:    "negative ttl",
			cfg:     Config{CacheSize: 8, CacheTTL: -time.Second},
			wantErr: "cache_ttl",
		},
		{
			name:    "negative timeout",
			cfg:     Config{CacheSize: 8, DefaultTimeout: -time.Second},
			wantErr: "default_timeout",
		},
		{
			name:    "unknown log level",
			cfg:     Config{CacheSize: 8, LogLevel: "loud"},
			wantErr: "log_level",
		},
		{
			name: "known dialect",
			cfg:  Config{CacheSize: 8, DefaultDialect: "powershell"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
