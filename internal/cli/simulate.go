package cli

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/vvka-141/retryclass/internal/config"
	"github.com/vvka-141/retryclass/internal/retry"
	"github.com/vvka-141/retryclass/internal/scenario"
	"github.com/vvka-141/retryclass/pkg/retryclass"
)

var simulateOutput string

var simulateCmd = &cobra.Command{
	Use:   "simulate <scenario.yaml>",
	Short: "Run the retry executor against a scripted failure sequence",
	Long: `Simulate replays the failures listed in a scenario file against the retry
executor. Each attempt meets the next failure; once the list is exhausted the
operation succeeds. The operation type selects the classifier (read, write or
changestream) and the retry pacing comes from retryclass.yaml.

Scenario format:
  name: stepdown during insert
  operation: write
  failures:
    - kind: not-primary
    - code: HostUnreachable
      labels: [RetryableWriteError]
    - write_concern_code: 91
    - reply: '{"ok": 0, "code": 262, "codeName": "ExceededTimeLimit"}'

Exits with code 12 when the operation is still failing at the end of the run.`,
	Args: cobra.ExactArgs(1),
	RunE: runSimulate,
}

func init() {
	rootCmd.AddCommand(simulateCmd)
	simulateCmd.Flags().StringVarP(&simulateOutput, "output", "o", "", "Output format: text or json (default from config)")
}

// simulationResult summarises one simulate run.
type simulationResult struct {
	RunID     string                   `json:"run_id"`
	Name      string                   `json:"name,omitempty"`
	Operation retryclass.OperationType `json:"operation"`
	Attempts  int                      `json:"attempts"`
	Succeeded bool                     `json:"succeeded"`
	Error     string                   `json:"error,omitempty"`
	Verdict   *retry.Verdict           `json:"verdict,omitempty"`
}

func runSimulate(cmd *cobra.Command, args []string) error {
	verbose := getVerboseFlag(cmd)

	cfg, err := loadConfig(verbose)
	if err != nil {
		return err
	}
	format, err := resolveOutputFormat(simulateOutput, cfg)
	if err != nil {
		return err
	}
	settings, err := cfg.Retry.Settings()
	if err != nil {
		return err
	}

	sc, err := scenario.Load(args[0])
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	result, lastErr := simulate(ctx, cmd, sc, settings)

	if format == config.OutputJSON {
		if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
			return err
		}
	} else {
		renderSimulation(cmd.OutOrStdout(), result)
	}

	if lastErr != nil {
		return fmt.Errorf("%w: run %s after %d attempt(s): %v",
			retryclass.ErrOperationFailed, result.RunID, result.Attempts, lastErr)
	}
	return nil
}

// simulate runs sc through an executor configured from settings.
func simulate(ctx context.Context, cmd *cobra.Command, sc *scenario.Scenario, settings config.Settings) (simulationResult, error) {
	runID := uuid.NewString()
	logger := newCommandLogger(cmd).WithPrefix(runID[:8])

	backoff := retry.NewExponentialBackoff(settings.MaxAttempts,
		retry.WithInitialDelay(settings.InitialDelay),
		retry.WithMaxDelay(settings.MaxDelay),
		retry.WithMultiplier(settings.Multiplier),
		retry.WithJitter(settings.Jitter),
	)

	executor, err := retry.NewExecutorFor(sc.Operation, backoff)
	if err != nil {
		return simulationResult{RunID: runID, Operation: sc.Operation, Error: err.Error()}, err
	}
	executor = executor.WithOnRetry(func(attempt int, err error, delay time.Duration) {
		logger.Info("Retry %d after %v: %v", attempt+1, delay, err)
	})

	logger.Verbose("Starting %s scenario %q with %d scripted failure(s)", sc.Operation, sc.Name, len(sc.Failures))

	attempts := 0
	operation := func(ctx context.Context) error {
		attempts++
		if attempts > len(sc.Failures) {
			logger.Verbose("Attempt %d succeeded", attempts)
			return nil
		}
		failure, err := sc.Failures[attempts-1].Failure()
		if err != nil {
			return err
		}
		logger.Verbose("Attempt %d failed: %v", attempts, failure)
		return failure
	}

	lastErr := executor.Execute(ctx, operation)

	result := simulationResult{
		RunID:     runID,
		Name:      sc.Name,
		Operation: sc.Operation,
		Attempts:  attempts,
		Succeeded: lastErr == nil,
	}
	if lastErr != nil {
		verdict := retry.Classify(lastErr)
		result.Error = lastErr.Error()
		result.Verdict = &verdict
		logger.Error("Operation failed after %d attempt(s): %v", attempts, lastErr)
	}
	return result, lastErr
}

func renderSimulation(w io.Writer, r simulationResult) {
	title := r.Name
	if title == "" {
		title = string(r.Operation) + " scenario"
	}

	status := yesStyle.Render("succeeded")
	if !r.Succeeded {
		status = noStyle.Render("failed")
	}

	fmt.Fprintln(w, titleStyle.Render(title))
	fmt.Fprintln(w, row("run id", r.RunID))
	fmt.Fprintln(w, row("operation", string(r.Operation)))
	fmt.Fprintln(w, row("attempts", fmt.Sprint(r.Attempts)))
	fmt.Fprintln(w, row("result", status))
	if r.Error != "" {
		fmt.Fprintln(w, row("last error", r.Error))
	}
	if r.Verdict != nil && len(r.Verdict.Labels) > 0 {
		fmt.Fprintln(w, row("labels", mutedStyle.Render(fmt.Sprint(r.Verdict.Labels))))
	}
}
