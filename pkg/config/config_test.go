package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultDebugAddress, cfg.Browser.DebugAddress)
	assert.Equal(t, DefaultAcquireAttempts, cfg.Browser.AcquireAttempts)
	assert.Equal(t, DefaultStepTimeout, cfg.Timeouts.Step)
	assert.Equal(t, DefaultPollInterval, cfg.Timeouts.PollInterval)
	assert.Equal(t, DefaultUploadTimeout, cfg.Timeouts.Upload)
	assert.Equal(t, DefaultLoginTimeout, cfg.Timeouts.Login)
	assert.Equal(t, DefaultVerifyTimeout, cfg.Timeouts.Verify)
	assert.Equal(t, DefaultExpiryHours, cfg.Session.ExpiryHours)
	assert.Equal(t, DefaultMaxParallel, cfg.Publish.MaxParallel)
	assert.False(t, cfg.Publish.Simulate)
}

func TestLoad_FileValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
browser:
  debug_address: "http://127.0.0.1:9333"
  headless: true
timeouts:
  step: 10s
  upload: 2m
session:
  expiry_hours: 24
  platform_expiry_hours:
    bilibili: 72
publish:
  parallel: true
  max_parallel: 4
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://127.0.0.1:9333", cfg.Browser.DebugAddress)
	assert.True(t, cfg.Browser.Headless)
	assert.Equal(t, 10*time.Second, cfg.Timeouts.Step)
	assert.Equal(t, 2*time.Minute, cfg.Timeouts.Upload)
	// Unset fields still get defaults.
	assert.Equal(t, DefaultVerifyTimeout, cfg.Timeouts.Verify)
	assert.Equal(t, 24, cfg.Session.ExpiryHours)
	assert.True(t, cfg.Publish.Parallel)
	assert.Equal(t, 4, cfg.Publish.MaxParallel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser:\n  debug_address: \"http://file:9222\"\n"), 0o600))

	t.Setenv("CROSSPUB_DEBUG_ADDRESS", "http://env:9222")
	t.Setenv("CROSSPUB_SIMULATE", "true")
	t.Setenv("CROSSPUB_EXPIRY_HOURS", "12")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "http://env:9222", cfg.Browser.DebugAddress)
	assert.True(t, cfg.Publish.Simulate)
	assert.Equal(t, 12, cfg.Session.ExpiryHours)
}

func TestLoad_MalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("browser: [not a map"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:   "defaults are valid",
			mutate: func(c *Config) {},
		},
		{
			name:    "poll interval exceeds step timeout",
			mutate:  func(c *Config) { c.Timeouts.PollInterval = time.Minute },
			wantErr: "poll_interval",
		},
		{
			name:    "negative expiry",
			mutate:  func(c *Config) { c.Session.ExpiryHours = -1 },
			wantErr: "expiry_hours",
		},
		{
			name: "negative platform expiry override",
			mutate: func(c *Config) {
				c.Session.PlatformExpiryHours = map[string]int{"douyin": -5}
			},
			wantErr: "platform_expiry_hours",
		},
		{
			name:    "zero max parallel",
			mutate:  func(c *Config) { c.Publish.MaxParallel = -1 },
			wantErr: "max_parallel",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			cfg.ApplyDefaults()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
			}
		})
	}
}

func TestSessionExpiry(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	cfg.Session.ExpiryHours = 168
	cfg.Session.PlatformExpiryHours = map[string]int{"bilibili": 72}

	assert.Equal(t, 168*time.Hour, cfg.SessionExpiry("douyin"))
	assert.Equal(t, 72*time.Hour, cfg.SessionExpiry("bilibili"))
}
