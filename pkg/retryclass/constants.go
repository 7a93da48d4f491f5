package retryclass

import "time"

// Exit codes for semantic error classification.
// These follow Unix/GNU conventions:
//   - 0: Success
//   - 1: General error
//   - 2: CLI usage error (misuse of command line)
//   - 3+: Application-specific errors
const (
	ExitSuccess         = 0  // Command completed successfully
	ExitGeneralError    = 1  // Unknown or unclassified error
	ExitUsageError      = 2  // CLI usage error (missing args, invalid flags)
	ExitPanic           = 3  // Internal panic (unexpected crash)
	ExitConfigError     = 10 // Invalid configuration
	ExitInvalidInput    = 11 // Unparseable reply, scenario, code or kind
	ExitOperationFailed = 12 // Simulated operation still failing after retries
)

const (
	// DefaultRetryInitialDelay is the default initial delay before the first retry attempt.
	DefaultRetryInitialDelay = 100 * time.Millisecond

	// DefaultRetryMaxDelay is the default maximum delay between retry attempts.
	DefaultRetryMaxDelay = 30 * time.Second

	// DefaultRetryMaxAttempts is the default number of retries after the
	// initial attempt. Drivers retry reads and writes exactly once.
	DefaultRetryMaxAttempts = 1

	// DefaultRetryMultiplier is the default backoff growth factor.
	DefaultRetryMultiplier = 2.0

	// DefaultRetryJitter is the default jitter fraction.
	DefaultRetryJitter = 0.1
)
