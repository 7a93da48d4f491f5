package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/vvka-141/retryclass/internal/config"
	"github.com/vvka-141/retryclass/internal/logging"
)

// loadConfig loads .env from the working directory, then the retryclass
// config. A missing config file yields the defaults.
func loadConfig(verbose bool) (*config.Config, error) {
	_ = godotenv.Load()

	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}

	path := config.Path(wd)
	cfg, err := config.Load(path)
	if errors.Is(err, config.ErrConfigNotFound) {
		if verbose {
			fmt.Fprintf(os.Stderr, "[VERBOSE] No config at %s, using defaults\n", path)
		}
		return config.Default(), nil
	}
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

// resolveOutputFormat returns the --output flag value when set, otherwise
// the configured format.
func resolveOutputFormat(flagValue string, cfg *config.Config) (string, error) {
	switch flagValue {
	case "":
		return cfg.OutputFormat(), nil
	case config.OutputText, config.OutputJSON:
		return flagValue, nil
	default:
		return "", fmt.Errorf("invalid argument %q for \"--output\": must be %q or %q",
			flagValue, config.OutputText, config.OutputJSON)
	}
}

// newCommandLogger returns a logger writing to the command's stderr.
func newCommandLogger(cmd *cobra.Command) *logging.ConsoleLogger {
	return logging.NewConsoleLoggerTo(cmd.ErrOrStderr(), getVerboseFlag(cmd))
}
