package instances

import (
	"fmt"
	"os"
	"strconv"
)

// Env maps environment variable names for instance configuration.
type Env struct {
	DefaultListLimit string
	MaxListLimit     string
	ToolConcurrency  string
}

// Config controls instance listing and chat tool resolution.
type Config struct {
	DefaultListLimit int `toml:"default_list_limit"`
	MaxListLimit     int `toml:"max_list_limit"`
	ToolConcurrency  int `toml:"tool_concurrency"`
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
	if overlay.DefaultListLimit != 0 {
		c.DefaultListLimit = overlay.DefaultListLimit
	}
	if overlay.MaxListLimit != 0 {
		c.MaxListLimit = overlay.MaxListLimit
	}
	if overlay.ToolConcurrency != 0 {
		c.ToolConcurrency = overlay.ToolConcurrency
	}
}

// ClampLimit returns limit bounded to [1, MaxListLimit], or the default when limit is not positive.
func (c *Config) ClampLimit(limit int) int {
	if limit < 1 {
		return c.DefaultListLimit
	}
	return min(limit, c.MaxListLimit)
}

func (c *Config) loadDefaults() {
	if c.DefaultListLimit <= 0 {
		c.DefaultListLimit = 10
	}
	if c.MaxListLimit <= 0 {
		c.MaxListLimit = 100
	}
	if c.ToolConcurrency <= 0 {
		c.ToolConcurrency = 4
	}
}

func (c *Config) loadEnv(env *Env) {
	if v := os.Getenv(env.DefaultListLimit); env.DefaultListLimit != "" && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.DefaultListLimit = n
		}
	}
	if v := os.Getenv(env.MaxListLimit); env.MaxListLimit != "" && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.MaxListLimit = n
		}
	}
	if v := os.Getenv(env.ToolConcurrency); env.ToolConcurrency != "" && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.ToolConcurrency = n
		}
	}
}

func (c *Config) validate() error {
	if c.DefaultListLimit < 1 {
		return fmt.Errorf("default_list_limit must be positive")
	}
	if c.MaxListLimit < 1 {
		return fmt.Errorf("max_list_limit must be positive")
	}
	if c.DefaultListLimit > c.MaxListLimit {
		return fmt.Errorf("default_list_limit cannot exceed max_list_limit")
	}
	if c.ToolConcurrency < 1 {
		return fmt.Errorf("tool_concurrency must be positive")
	}
	return nil
}
