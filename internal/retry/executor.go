package retry

import (
	"context"
	"time"

	"github.com/vvka-141/retryclass/pkg/retryclass"
)

// Executor re-runs a failed operation while its classifier reports the
// failure as transient and the backoff strategy allows another attempt.
//
// Thread Safety:
// Execute may be called concurrently. WithOnRetry returns a copy, so each
// goroutine can attach its own callback without shared state.
type Executor struct {
	classifier retryclass.ErrorClassifier
	strategy   retryclass.BackoffStrategy
	onRetry    func(attempt int, err error, delay time.Duration)
}

// NewExecutor creates a new retry executor with the given configuration.
// Panics if classifier or strategy is nil.
func NewExecutor(
	classifier retryclass.ErrorClassifier,
	strategy retryclass.BackoffStrategy,
) *Executor {
	if classifier == nil {
		panic("classifier cannot be nil")
	}
	if strategy == nil {
		panic("strategy cannot be nil")
	}
	return &Executor{
		classifier: classifier,
		strategy:   strategy,
	}
}

// NewExecutorFor creates an executor using the classifier for op.
func NewExecutorFor(op retryclass.OperationType, strategy retryclass.BackoffStrategy) (*Executor, error) {
	classifier, err := ClassifierFor(op)
	if err != nil {
		return nil, err
	}
	return NewExecutor(classifier, strategy), nil
}

// WithOnRetry returns a new Executor with the specified retry callback.
// The receiver is not modified.
func (e *Executor) WithOnRetry(callback func(attempt int, err error, delay time.Duration)) *Executor {
	clone := *e
	clone.onRetry = callback
	return &clone
}

// Execute runs operation until it succeeds, fails with a non-transient
// error, exhausts the strategy's attempts or ctx is done.
// Returns the error of the last attempt, or ctx.Err() on cancellation.
//
// Retry n (counted from 0) waits strategy.NextDelay(n). A negative
// MaxAttempts retries until success or cancellation.
func (e *Executor) Execute(ctx context.Context, operation func(ctx context.Context) error) error {
	for retries := 0; ; retries++ {
		err := operation(ctx)
		if err == nil {
			return nil
		}
		if !e.isTransient(err) || !e.mayRetry(retries) {
			return err
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		delay := e.strategy.NextDelay(retries)
		if e.onRetry != nil {
			e.onRetry(retries, err, delay)
		}
		if waitErr := wait(ctx, delay); waitErr != nil {
			return waitErr
		}
	}
}

// mayRetry reports whether the strategy allows retry number n.
func (e *Executor) mayRetry(n int) bool {
	limit := e.strategy.MaxAttempts()
	return limit < 0 || n < limit
}

// wait blocks for d or until ctx is done.
func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// isTransient classifies err, translating driver errors first so the
// classifier sees the same failure shapes regardless of origin.
func (e *Executor) isTransient(err error) bool {
	if f, ok := FromDriverError(err); ok {
		return e.classifier.IsTransient(f)
	}
	return e.classifier.IsTransient(err)
}
