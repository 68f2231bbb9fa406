// Package config defines the tripcost configuration model and default values.
//
// Configuration is assembled from multiple sources with a strict precedence
// chain: built-in defaults < global config file < project config file <
// explicit config file < CLI flag overrides.
package config

import (
	"time"

	"github.com/voyago/tripcost/internal/invoker"
)

// WhitelistedVars lists every configuration variable name that may appear in
// config files. Variables not in this list are silently ignored during loading.
var WhitelistedVars = [9]string{
	"GEMINI_API_KEY",
	"GEMINI_MODEL",
	"GEMINI_BASE_URL",
	"MAX_RETRIES",
	"BASE_DELAY_MS",
	"MAX_DELAY_MS",
	"TIMEOUT_MS",
	"PLANS_FILE",
	"VERBOSE",
}

// Config holds every configuration field for the tripcost CLI.
type Config struct {
	// Provider settings.
	APIKey  string
	Model   string
	BaseURL string

	// Retry discipline for the estimation call.
	MaxRetries  int
	BaseDelayMs int
	MaxDelayMs  int
	TimeoutMs   int

	// Plan store location.
	PlansFile string

	// Runtime flags.
	Verbose bool

	// CLI-only flags (never loaded from config files).
	ConfigFile string
}

// NewDefaultConfig returns a Config populated with all built-in default values.
func NewDefaultConfig() *Config {
	return &Config{
		Model:       "gemini-1.5-flash",
		MaxRetries:  3,
		BaseDelayMs: 1000,
		MaxDelayMs:  10000,
		TimeoutMs:   30000,
		PlansFile:   ".tripcost/plans.json",
	}
}

// RetryPolicy converts the millisecond config fields into an invoker policy.
func (c *Config) RetryPolicy() invoker.RetryPolicy {
	return invoker.RetryPolicy{
		MaxRetries: c.MaxRetries,
		BaseDelay:  time.Duration(c.BaseDelayMs) * time.Millisecond,
		MaxDelay:   time.Duration(c.MaxDelayMs) * time.Millisecond,
		Timeout:    time.Duration(c.TimeoutMs) * time.Millisecond,
	}
}
