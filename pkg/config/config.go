// Package config loads and validates the crosspub configuration.
//
// Configuration is resolved with the precedence: CLI flags > environment
// variables > config file > built-in defaults. The config file lives at
// ~/.crosspub/config.yaml unless overridden.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the full crosspub configuration surface.
type Config struct {
	// Browser configuration
	Browser BrowserConfig `yaml:"browser"`

	// Timeouts for workflow steps
	Timeouts TimeoutConfig `yaml:"timeouts"`

	// Session persistence configuration
	Session SessionConfig `yaml:"session"`

	// Publish behavior
	Publish PublishConfig `yaml:"publish"`
}

// BrowserConfig controls how a browser session is obtained.
type BrowserConfig struct {
	// DebugAddress is the remote-debug endpoint of an already running
	// Chromium instance, e.g. "http://127.0.0.1:9222". Attaching to it is
	// always tried before launching a fresh instance.
	DebugAddress string `yaml:"debug_address"`

	// ProfileDir is the user-data directory used when launching a fresh
	// browser instance. Launched instances never share the user's profile.
	ProfileDir string `yaml:"profile_dir"`

	// Headless launches fresh instances without a visible window.
	// Attached instances keep whatever mode they are already in.
	Headless bool `yaml:"headless"`

	// AcquireAttempts bounds attach/launch retries.
	AcquireAttempts int `yaml:"acquire_attempts"`
}

// TimeoutConfig bounds every waiting step of a workflow.
type TimeoutConfig struct {
	// Step is the per-step element wait (locating a field, clicking).
	Step time.Duration `yaml:"step"`

	// PollInterval is the fixed interval between locator polls.
	PollInterval time.Duration `yaml:"poll_interval"`

	// Upload bounds the server-side processing wait after a file upload.
	Upload time.Duration `yaml:"upload"`

	// Login bounds the wait for a human to complete an interactive login.
	Login time.Duration `yaml:"login"`

	// Verify bounds the post-submit confirmation window.
	Verify time.Duration `yaml:"verify"`
}

// SessionConfig controls persisted login-state handling.
type SessionConfig struct {
	// StateDir is where per-platform session records are stored.
	StateDir string `yaml:"state_dir"`

	// ExpiryHours is the default validity window for a persisted session.
	ExpiryHours int `yaml:"expiry_hours"`

	// PlatformExpiryHours overrides ExpiryHours per platform.
	PlatformExpiryHours map[string]int `yaml:"platform_expiry_hours"`
}

// PublishConfig controls coordinator behavior.
type PublishConfig struct {
	// Simulate skips all browser interaction and reports synthetic
	// successes. Used for exercising the reporting path.
	Simulate bool `yaml:"simulate"`

	// Parallel runs independent platform workflows concurrently.
	Parallel bool `yaml:"parallel"`

	// MaxParallel bounds concurrent browser sessions when Parallel is set.
	MaxParallel int `yaml:"max_parallel"`
}

// Default values applied by ApplyDefaults.
const (
	DefaultDebugAddress    = "http://127.0.0.1:9222"
	DefaultAcquireAttempts = 3
	DefaultStepTimeout     = 30 * time.Second
	DefaultPollInterval    = 250 * time.Millisecond
	DefaultUploadTimeout   = 5 * time.Minute
	DefaultLoginTimeout    = 3 * time.Minute
	DefaultVerifyTimeout   = 30 * time.Second
	DefaultExpiryHours     = 168 // 7 days
	DefaultMaxParallel     = 2
)

// DefaultPath returns the default config file location.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".crosspub", "config.yaml"), nil
}

// Load reads the config file at path, applies environment overrides,
// defaults, and validates. A missing file is not an error; the returned
// config is then environment plus defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err):
		// fall through to env + defaults
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	cfg.applyEnv()
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overlays CROSSPUB_* environment variables onto the config.
func (c *Config) applyEnv() {
	if v := os.Getenv("CROSSPUB_DEBUG_ADDRESS"); v != "" {
		c.Browser.DebugAddress = v
	}
	if v := os.Getenv("CROSSPUB_PROFILE_DIR"); v != "" {
		c.Browser.ProfileDir = v
	}
	if v := os.Getenv("CROSSPUB_STATE_DIR"); v != "" {
		c.Session.StateDir = v
	}
	if v := os.Getenv("CROSSPUB_HEADLESS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Browser.Headless = b
		}
	}
	if v := os.Getenv("CROSSPUB_SIMULATE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Publish.Simulate = b
		}
	}
	if v := os.Getenv("CROSSPUB_EXPIRY_HOURS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Session.ExpiryHours = n
		}
	}
}

// ApplyDefaults fills any unset field with its default value.
func (c *Config) ApplyDefaults() {
	if c.Browser.DebugAddress == "" {
		c.Browser.DebugAddress = DefaultDebugAddress
	}
	if c.Browser.AcquireAttempts == 0 {
		c.Browser.AcquireAttempts = DefaultAcquireAttempts
	}
	if c.Browser.ProfileDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Browser.ProfileDir = filepath.Join(home, ".crosspub", "browser-profile")
		}
	}
	if c.Timeouts.Step == 0 {
		c.Timeouts.Step = DefaultStepTimeout
	}
	if c.Timeouts.PollInterval == 0 {
		c.Timeouts.PollInterval = DefaultPollInterval
	}
	if c.Timeouts.Upload == 0 {
		c.Timeouts.Upload = DefaultUploadTimeout
	}
	if c.Timeouts.Login == 0 {
		c.Timeouts.Login = DefaultLoginTimeout
	}
	if c.Timeouts.Verify == 0 {
		c.Timeouts.Verify = DefaultVerifyTimeout
	}
	if c.Session.StateDir == "" {
		if home, err := os.UserHomeDir(); err == nil {
			c.Session.StateDir = filepath.Join(home, ".crosspub", "sessions")
		}
	}
	if c.Session.ExpiryHours == 0 {
		c.Session.ExpiryHours = DefaultExpiryHours
	}
	if c.Publish.MaxParallel == 0 {
		c.Publish.MaxParallel = DefaultMaxParallel
	}
}

// Validate checks the configuration for inconsistencies.
func (c *Config) Validate() error {
	if c.Browser.AcquireAttempts < 1 {
		return fmt.Errorf("browser.acquire_attempts must be at least 1, got %d", c.Browser.AcquireAttempts)
	}
	if c.Timeouts.PollInterval <= 0 {
		return fmt.Errorf("timeouts.poll_interval must be positive, got %s", c.Timeouts.PollInterval)
	}
	if c.Timeouts.PollInterval > c.Timeouts.Step {
		return fmt.Errorf("timeouts.poll_interval %s exceeds step timeout %s", c.Timeouts.PollInterval, c.Timeouts.Step)
	}
	if c.Session.ExpiryHours < 0 {
		return fmt.Errorf("session.expiry_hours must not be negative, got %d", c.Session.ExpiryHours)
	}
	for platform, hours := range c.Session.PlatformExpiryHours {
		if hours < 0 {
			return fmt.Errorf("session.platform_expiry_hours[%s] must not be negative, got %d", platform, hours)
		}
	}
	if c.Publish.MaxParallel < 1 {
		return fmt.Errorf("publish.max_parallel must be at least 1, got %d", c.Publish.MaxParallel)
	}
	return nil
}

// SessionExpiry returns the session validity window for a platform,
// falling back to the global default when no override exists.
func (c *Config) SessionExpiry(platform string) time.Duration {
	hours := c.Session.ExpiryHours
	if override, ok := c.Session.PlatformExpiryHours[platform]; ok {
		hours = override
	}
	return time.Duration(hours) * time.Hour
}
