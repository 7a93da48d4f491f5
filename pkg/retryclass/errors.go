package retryclass

import (
	"errors"
	"strings"
)

// Sentinel errors for common failure scenarios.
// These enable callers to distinguish error types using errors.Is().
//
// Example usage:
//
//	f, err := reply.DecodeJSON(data)
//	if errors.Is(err, retryclass.ErrInvalidReply) {
//	    // Handle a malformed server reply
//	}
var (
	// ErrInvalidConfig indicates the provided configuration is invalid.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidReply indicates a server reply document could not be interpreted.
	ErrInvalidReply = errors.New("invalid server reply")

	// ErrInvalidScenario indicates a simulation scenario file is malformed.
	ErrInvalidScenario = errors.New("invalid scenario")

	// ErrUnknownErrorCode indicates an error code name could not be resolved.
	ErrUnknownErrorCode = errors.New("unknown error code")

	// ErrUnknownErrorKind indicates an error kind name could not be resolved.
	ErrUnknownErrorKind = errors.New("unknown error kind")

	// ErrOperationFailed indicates a simulated operation still failed when
	// the executor stopped retrying.
	ErrOperationFailed = errors.New("simulated operation failed")
)

// usagePatterns are cobra's messages for command line misuse.
var usagePatterns = []string{
	"unknown flag",
	"unknown shorthand flag",
	"unknown command",
	"accepts ",
	"required flag",
	"invalid argument",
	"flag needs an argument",
	"exactly one of --",
}

// ExitCodeForError returns the appropriate exit code for an error.
// Returns ExitSuccess (0) for nil errors, semantic codes for known errors,
// and ExitGeneralError (1) for unclassified errors.
func ExitCodeForError(err error) int {
	if err == nil {
		return ExitSuccess
	}

	switch {
	case errors.Is(err, ErrInvalidConfig):
		return ExitConfigError
	case errors.Is(err, ErrInvalidReply),
		errors.Is(err, ErrInvalidScenario),
		errors.Is(err, ErrUnknownErrorCode),
		errors.Is(err, ErrUnknownErrorKind):
		return ExitInvalidInput
	case errors.Is(err, ErrOperationFailed):
		return ExitOperationFailed
	}

	errStr := err.Error()
	for _, p := range usagePatterns {
		if strings.Contains(errStr, p) {
			return ExitUsageError
		}
	}

	return ExitGeneralError
}
