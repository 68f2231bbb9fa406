package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/voyago/tripcost/internal/cli"
	"github.com/voyago/tripcost/internal/config"
	"github.com/voyago/tripcost/internal/estimate"
	"github.com/voyago/tripcost/internal/exitcode"
	"github.com/voyago/tripcost/internal/invoker"
	"github.com/voyago/tripcost/internal/logging"
	"github.com/voyago/tripcost/internal/plan"
	sighandler "github.com/voyago/tripcost/internal/signal"
)

// version vars injected via ldflags at build time
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	interrupted := false
	sighandler.SetupSignalHandler(ctx, cancel, func() {
		interrupted = true
		logging.Warn("interrupt received, abandoning in-flight work")
	})

	cfg := config.NewDefaultConfig()

	rootCmd := &cobra.Command{
		Use:     "tripcost",
		Short:   "Estimate travel costs with a generative model",
		Long:    "tripcost renders trip details into a prompt, calls Gemini under timeout/retry discipline, and validates the response into structured flight, lodging, and food costs.",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),

		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cli.BindFlags(rootCmd, cfg)
	rootCmd.AddCommand(newEstimateCmd(cfg))
	rootCmd.AddCommand(newPlanCmd(cfg))

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		logging.Error(err.Error())
		if interrupted {
			return exitcode.Interrupted
		}
		return exitCodeFor(err)
	}
	if interrupted {
		return exitcode.Interrupted
	}
	return exitcode.Success
}

// loadConfig merges config sources and explicit flags for the executing
// command, then validates the result.
func loadConfig(cmd *cobra.Command, cfg *config.Config) (*config.Config, error) {
	overrides := cli.BuildOverrides(cmd, cfg)

	globalPath := ""
	if home, err := os.UserHomeDir(); err == nil {
		globalPath = filepath.Join(home, ".config", "tripcost", "config")
	}

	loaded, err := config.LoadWithPrecedence(globalPath, ".tripcost/config", cfg.ConfigFile, overrides)
	if err != nil {
		return nil, err
	}
	if err := cli.ValidateFlags(loaded); err != nil {
		return nil, err
	}

	logging.SetVerbose(loaded.Verbose)
	return loaded, nil
}

// exitCodeFor maps a terminal error to a named exit code.
func exitCodeFor(err error) int {
	var (
		nonRetryable *invoker.NonRetryableError
		exhausted    *invoker.AttemptsExhaustedError
		emptyPrompt  *invoker.EmptyPromptError
		malformed    *estimate.MalformedResponseError
		incomplete   *estimate.IncompleteFieldsError
		outOfRange   *estimate.RangeViolationError
	)
	switch {
	case errors.As(err, &malformed), errors.As(err, &incomplete), errors.As(err, &outOfRange):
		return exitcode.ValidationFailure
	case errors.As(err, &nonRetryable), errors.As(err, &exhausted), errors.As(err, &emptyPrompt):
		return exitcode.ProviderFailure
	case errors.Is(err, plan.ErrNotFound):
		return exitcode.StoreFailure
	case errors.Is(err, context.Canceled):
		return exitcode.Interrupted
	default:
		return exitcode.UsageError
	}
}
