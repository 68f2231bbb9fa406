// Package cli provides flag binding and validation for the tripcost CLI.
package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/voyago/tripcost/internal/config"
)

// BindFlags registers the shared CLI flags on the given cobra command as
// persistent flags. The flags directly modify fields in the provided config
// pointer. Call BuildOverrides after parsing to turn explicitly-set flags
// into config-file-style overrides.
func BindFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.PersistentFlags()

	// Provider settings.
	flags.StringVar(&cfg.APIKey, "api-key", "", "Gemini API key (defaults to GEMINI_API_KEY)")
	flags.StringVar(&cfg.Model, "model", cfg.Model, "Gemini model name")
	flags.StringVar(&cfg.BaseURL, "base-url", "", "Override the Gemini API base URL")

	// Retry discipline.
	flags.IntVar(&cfg.MaxRetries, "max-retries", cfg.MaxRetries, "Retries after the first attempt")
	flags.IntVar(&cfg.BaseDelayMs, "base-delay-ms", cfg.BaseDelayMs, "First backoff delay in milliseconds")
	flags.IntVar(&cfg.MaxDelayMs, "max-delay-ms", cfg.MaxDelayMs, "Backoff cap in milliseconds")
	flags.IntVar(&cfg.TimeoutMs, "timeout-ms", cfg.TimeoutMs, "Per-attempt timeout in milliseconds")

	// Plan store.
	flags.StringVar(&cfg.PlansFile, "plans-file", cfg.PlansFile, "Path to the plans JSON file")

	// Runtime flags.
	flags.BoolVarP(&cfg.Verbose, "verbose", "v", false, "Enable debug output")
	flags.StringVar(&cfg.ConfigFile, "config", "", "Path to an additional config file")
}

// ValidateFlags checks numeric flag sanity after parsing.
func ValidateFlags(cfg *config.Config) error {
	if cfg.MaxRetries < 0 {
		return fmt.Errorf("--max-retries must be >= 0")
	}
	if cfg.BaseDelayMs <= 0 {
		return fmt.Errorf("--base-delay-ms must be > 0")
	}
	if cfg.MaxDelayMs < cfg.BaseDelayMs {
		return fmt.Errorf("--max-delay-ms must be >= --base-delay-ms")
	}
	if cfg.TimeoutMs <= 0 {
		return fmt.Errorf("--timeout-ms must be > 0")
	}
	return nil
}

// BuildOverrides creates config-file-style overrides from flags the user
// explicitly set. Flags().Changed distinguishes explicit values from
// defaults, so config-file values are not clobbered by flag defaults.
func BuildOverrides(cmd *cobra.Command, cfg *config.Config) map[string]string {
	overrides := make(map[string]string)
	flags := cmd.Flags()

	if flags.Changed("api-key") {
		overrides["GEMINI_API_KEY"] = cfg.APIKey
	}
	if flags.Changed("model") {
		overrides["GEMINI_MODEL"] = cfg.Model
	}
	if flags.Changed("base-url") {
		overrides["GEMINI_BASE_URL"] = cfg.BaseURL
	}
	if flags.Changed("max-retries") {
		overrides["MAX_RETRIES"] = strconv.Itoa(cfg.MaxRetries)
	}
	if flags.Changed("base-delay-ms") {
		overrides["BASE_DELAY_MS"] = strconv.Itoa(cfg.BaseDelayMs)
	}
	if flags.Changed("max-delay-ms") {
		overrides["MAX_DELAY_MS"] = strconv.Itoa(cfg.MaxDelayMs)
	}
	if flags.Changed("timeout-ms") {
		overrides["TIMEOUT_MS"] = strconv.Itoa(cfg.TimeoutMs)
	}
	if flags.Changed("plans-file") {
		overrides["PLANS_FILE"] = cfg.PlansFile
	}
	if flags.Changed("verbose") {
		overrides["VERBOSE"] = strconv.FormatBool(cfg.Verbose)
	}

	return overrides
}
