package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "retryclass",
	Short: "Retryability classification for MongoDB failures",
	Long: `retryclass decides, for a failed MongoDB operation, whether a change stream
may resume, a read may be retried, and a write may be retried.

It reconciles the locally observed error kind, the server error code and the
error labels attached to the failure. The classification tables are fixed;
only the retry pacing used by "simulate" is configurable.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Invalid input (unknown code or kind, malformed reply or scenario)
  12 - Simulated operation still failing`,
	SilenceUsage: true,
}

// Execute runs the root command. SIGINT cancels the command context.
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo(os.Stdout)
		return nil
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value. Persistent flags
// share one value across the tree, so the root's flag set is read.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Root().PersistentFlags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
