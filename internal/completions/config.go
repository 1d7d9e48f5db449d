package completions

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/docker/go-units"
)

// Env maps environment variable names for completions configuration.
type Env struct {
	Timeout         string
	MaxRounds       string
	MaxResponseSize string
}

// Config controls the function-calling client.
type Config struct {
	Timeout         string `toml:"timeout"`
	MaxRounds       int    `toml:"max_rounds"`
	MaxResponseSize string `toml:"max_response_size"`

	maxResponseSizeVal int64
}

// TimeoutDuration parses and returns the per-request timeout.
func (c *Config) TimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.Timeout)
	return d
}

// MaxResponseSizeBytes returns the parsed response body cap.
func (c *Config) MaxResponseSizeBytes() int64 {
	return c.maxResponseSizeVal
}

// Finalize applies defaults, loads environment overrides, and validates the configuration.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge applies non-zero values from overlay onto the receiver.
func (c *Config) Merge(overlay *Config) {
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxRounds != 0 {
		c.MaxRounds = overlay.MaxRounds
	}
	if overlay.MaxResponseSize != "" {
		c.MaxResponseSize = overlay.MaxResponseSize
	}
}

func (c *Config) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "2m"
	}
	if c.MaxRounds == 0 {
		c.MaxRounds = 6
	}
	if c.MaxResponseSize == "" {
		c.MaxResponseSize = "4MB"
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.Timeout); env.Timeout != "" && v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(env.MaxRounds); env.MaxRounds != "" && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxRounds = n
		}
	}
	if v := os.Getenv(env.MaxResponseSize); env.MaxResponseSize != "" && v != "" {
		c.MaxResponseSize = v
	}
}

func (c *Config) validate() error {
	if d, err := time.ParseDuration(c.Timeout); err != nil || d <= 0 {
		return fmt.Errorf("invalid timeout: %q", c.Timeout)
	}
	if c.MaxRounds < 1 {
		return fmt.Errorf("max_rounds must be positive")
	}

	size, err := units.FromHumanSize(c.MaxResponseSize)
	if err != nil {
		return fmt.Errorf("invalid max_response_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_response_size must be positive")
	}
	c.maxResponseSizeVal = size

	return nil
}
