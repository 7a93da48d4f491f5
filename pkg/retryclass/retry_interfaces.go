package retryclass

import (
	"fmt"
	"strings"
	"time"
)

// ErrorClassifier determines whether an error is transient (retryable) or fatal.
type ErrorClassifier interface {
	// IsTransient returns true if the error is temporary and the operation should be retried.
	IsTransient(err error) bool
}

// BackoffStrategy calculates the delay before the next retry attempt.
type BackoffStrategy interface {
	// NextDelay returns the duration to wait before the next attempt.
	// attempt is zero-indexed (0 = first retry, 1 = second retry, etc.)
	NextDelay(attempt int) time.Duration

	// MaxAttempts returns the maximum number of retry attempts (0 = no retries, -1 = unlimited)
	MaxAttempts() int
}

// OperationType selects which retry rules apply to a failed operation.
type OperationType string

const (
	OperationRead         OperationType = "read"
	OperationWrite        OperationType = "write"
	OperationChangeStream OperationType = "changestream"
)

// ParseOperationType accepts read, write or changestream (case-insensitive).
func ParseOperationType(s string) (OperationType, error) {
	switch op := OperationType(strings.ToLower(strings.TrimSpace(s))); op {
	case OperationRead, OperationWrite, OperationChangeStream:
		return op, nil
	case "change-stream":
		return OperationChangeStream, nil
	default:
		return "", fmt.Errorf("unknown operation type %q", s)
	}
}
