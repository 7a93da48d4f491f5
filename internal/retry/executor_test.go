package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vvka-141/retryclass/pkg/retryclass"
)

// mockOperation tracks invocation count and simulates transient failures
type mockOperation struct {
	invocations  int
	failUntil    int // Fail for invocations < failUntil
	transientErr func() error
	fatalErr     error
}

func (m *mockOperation) execute(ctx context.Context) error {
	m.invocations++

	if m.invocations < m.failUntil {
		if m.transientErr != nil {
			return m.transientErr()
		}
		return retryclass.NewLocalError(retryclass.KindConnectionFailure, errors.New("connection reset"))
	}

	if m.invocations == m.failUntil && m.fatalErr != nil {
		return m.fatalErr
	}

	return nil
}

func fastBackoff(maxAttempts int) *ExponentialBackoff {
	return NewExponentialBackoff(maxAttempts,
		WithInitialDelay(1*time.Millisecond),
		WithJitter(0),
	)
}

func TestExecutor_Execute_SuccessOnFirstAttempt(t *testing.T) {
	executor := NewExecutor(NewReadClassifier(), fastBackoff(3))

	op := &mockOperation{failUntil: 1}

	if err := executor.Execute(context.Background(), op.execute); err != nil {
		t.Errorf("Expected success, got error: %v", err)
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation, got %d", op.invocations)
	}
}

func TestExecutor_Execute_SuccessAfterRetries(t *testing.T) {
	executor := NewExecutor(NewReadClassifier(), fastBackoff(5))

	op := &mockOperation{failUntil: 4}

	if err := executor.Execute(context.Background(), op.execute); err != nil {
		t.Errorf("Expected success after retries, got error: %v", err)
	}
	if op.invocations != 4 {
		t.Errorf("Expected 4 invocations, got %d", op.invocations)
	}
}

func TestExecutor_Execute_FatalErrorNoRetry(t *testing.T) {
	executor := NewExecutor(NewReadClassifier(), fastBackoff(5))

	fatalErr := retryclass.NewCommandError(retryclass.ExceededTimeLimit)
	op := &mockOperation{failUntil: 1, fatalErr: fatalErr}

	err := executor.Execute(context.Background(), op.execute)

	var cmdErr *retryclass.CommandError
	if !errors.As(err, &cmdErr) || cmdErr.Code != retryclass.ExceededTimeLimit {
		t.Errorf("Expected ExceededTimeLimit command error, got %v", err)
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation (reads do not retry ExceededTimeLimit), got %d", op.invocations)
	}
}

func TestExecutor_Execute_ExhaustedRetries(t *testing.T) {
	executor := NewExecutor(NewReadClassifier(), fastBackoff(1))

	op := &mockOperation{failUntil: 999}

	err := executor.Execute(context.Background(), op.execute)
	if err == nil {
		t.Fatal("Expected error after exhausted retries, got nil")
	}

	// Initial attempt + 1 retry
	if op.invocations != 2 {
		t.Errorf("Expected 2 invocations (1 initial + 1 retry), got %d", op.invocations)
	}
}

func TestExecutor_Execute_WriteLabelsReturnedError(t *testing.T) {
	executor := NewExecutor(NewWriteClassifier(), fastBackoff(1))

	op := &mockOperation{
		failUntil: 999,
		transientErr: func() error {
			return retryclass.NewCommandError(retryclass.ExceededTimeLimit)
		},
	}

	err := executor.Execute(context.Background(), op.execute)

	if !IsRetryableWriteError(err) {
		t.Errorf("Expected returned error to carry %s, got %v", retryclass.RetryableWriteErrorLabel, err)
	}
	if op.invocations != 2 {
		t.Errorf("Expected 2 invocations, got %d", op.invocations)
	}
}

func TestExecutor_Execute_WriteNotPrimaryCommandErrorIsFatal(t *testing.T) {
	executor := NewExecutor(NewWriteClassifier(), fastBackoff(3))

	op := &mockOperation{failUntil: 1, fatalErr: retryclass.NewCommandError(retryclass.NotPrimary)}

	if err := executor.Execute(context.Background(), op.execute); err == nil {
		t.Fatal("Expected error, got nil")
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation, got %d", op.invocations)
	}
}

func TestExecutor_Execute_ChangeStreamResumesAfterCursorNotFound(t *testing.T) {
	executor, err := NewExecutorFor(retryclass.OperationChangeStream, fastBackoff(2))
	if err != nil {
		t.Fatal(err)
	}

	op := &mockOperation{
		failUntil: 3,
		transientErr: func() error {
			return retryclass.NewLocalError(retryclass.KindCursorNotFound, nil)
		},
	}

	if err := executor.Execute(context.Background(), op.execute); err != nil {
		t.Errorf("Expected resume to succeed, got %v", err)
	}
	if op.invocations != 3 {
		t.Errorf("Expected 3 invocations, got %d", op.invocations)
	}
}

func TestExecutor_Execute_TranslatesDriverErrors(t *testing.T) {
	executor := NewExecutor(NewReadClassifier(), fastBackoff(3))

	invocations := 0
	operation := func(ctx context.Context) error {
		invocations++
		if invocations < 2 {
			return mongo.CommandError{Code: int32(retryclass.HostUnreachable), Name: "HostUnreachable"}
		}
		return nil
	}

	if err := executor.Execute(context.Background(), operation); err != nil {
		t.Errorf("Expected success, got %v", err)
	}
	if invocations != 2 {
		t.Errorf("Expected 2 invocations, got %d", invocations)
	}
}

func TestExecutor_Execute_WriteRetriesDriverNetworkError(t *testing.T) {
	executor := NewExecutor(NewWriteClassifier(), fastBackoff(3))

	invocations := 0
	operation := func(ctx context.Context) error {
		invocations++
		if invocations < 3 {
			return networkCommandError()
		}
		return nil
	}

	if err := executor.Execute(context.Background(), operation); err != nil {
		t.Errorf("Expected success, got %v", err)
	}
	if invocations != 3 {
		t.Errorf("Expected 3 invocations, got %d", invocations)
	}
}

func TestExecutor_Execute_ReadRetriesDriverNetworkError(t *testing.T) {
	executor := NewExecutor(NewReadClassifier(), fastBackoff(1))

	invocations := 0
	operation := func(ctx context.Context) error {
		invocations++
		return networkCommandError(retryclass.RetryableWriteErrorLabel)
	}

	if err := executor.Execute(context.Background(), operation); err == nil {
		t.Fatal("Expected error, got nil")
	}
	if invocations != 2 {
		t.Errorf("Expected 2 invocations (1 initial + 1 retry), got %d", invocations)
	}
}

func TestExecutor_Execute_ContextCancellation(t *testing.T) {
	executor := NewExecutor(NewReadClassifier(), NewExponentialBackoff(10,
		WithInitialDelay(1*time.Second),
	))

	ctx, cancel := context.WithCancel(context.Background())

	op := &mockOperation{failUntil: 999}

	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := executor.Execute(ctx, op.execute)

	if err != context.Canceled {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if op.invocations < 1 || op.invocations > 2 {
		t.Errorf("Expected 1 or 2 invocations, got %d", op.invocations)
	}
}

func TestExecutor_Execute_OnRetryCallback(t *testing.T) {
	var retryAttempts []int
	var retryDelays []time.Duration

	onRetry := func(attempt int, err error, delay time.Duration) {
		if err == nil {
			t.Errorf("Retry %d: expected error, got nil", attempt)
		}
		retryAttempts = append(retryAttempts, attempt)
		retryDelays = append(retryDelays, delay)
	}

	executor := NewExecutor(NewReadClassifier(), fastBackoff(3)).WithOnRetry(onRetry)

	op := &mockOperation{failUntil: 4}

	if err := executor.Execute(context.Background(), op.execute); err != nil {
		t.Fatalf("Expected success, got error: %v", err)
	}

	expectedAttempts := []int{0, 1, 2}
	expectedDelays := []time.Duration{1 * time.Millisecond, 2 * time.Millisecond, 4 * time.Millisecond}

	if len(retryAttempts) != len(expectedAttempts) {
		t.Fatalf("Expected %d retry callbacks, got %d", len(expectedAttempts), len(retryAttempts))
	}
	for i := range retryAttempts {
		if retryAttempts[i] != expectedAttempts[i] {
			t.Errorf("Retry %d: expected attempt %d, got %d", i, expectedAttempts[i], retryAttempts[i])
		}
		if retryDelays[i] != expectedDelays[i] {
			t.Errorf("Retry %d: expected delay %v, got %v", i, expectedDelays[i], retryDelays[i])
		}
	}
}

func TestExecutor_WithOnRetry_DoesNotModifyReceiver(t *testing.T) {
	base := NewExecutor(NewReadClassifier(), fastBackoff(1))
	withCallback := base.WithOnRetry(func(int, error, time.Duration) {})

	if base.onRetry != nil {
		t.Error("Expected base executor to keep a nil callback")
	}
	if withCallback.onRetry == nil {
		t.Error("Expected clone to carry the callback")
	}
}

func TestExecutor_Execute_NoRetriesStrategy(t *testing.T) {
	executor := NewExecutor(NewReadClassifier(), NewExponentialBackoff(0))

	op := &mockOperation{failUntil: 999}

	if err := executor.Execute(context.Background(), op.execute); err == nil {
		t.Fatal("Expected error, got nil")
	}
	if op.invocations != 1 {
		t.Errorf("Expected 1 invocation (no retries), got %d", op.invocations)
	}
}

func TestExecutor_MayRetry(t *testing.T) {
	tests := []struct {
		maxAttempts int
		retry       int
		want        bool
	}{
		{0, 0, false},
		{1, 0, true},
		{1, 1, false},
		{3, 2, true},
		{3, 3, false},
		{-1, 1000, true},
	}

	for _, tt := range tests {
		executor := NewExecutor(NewReadClassifier(), NewExponentialBackoff(tt.maxAttempts))
		if got := executor.mayRetry(tt.retry); got != tt.want {
			t.Errorf("maxAttempts=%d mayRetry(%d) = %v, want %v", tt.maxAttempts, tt.retry, got, tt.want)
		}
	}
}

func TestWait_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	if err := wait(ctx, time.Minute); !errors.Is(err, context.Canceled) {
		t.Errorf("Expected context.Canceled, got %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Errorf("Expected wait to return promptly, took %v", elapsed)
	}
}

func TestWait_Elapses(t *testing.T) {
	if err := wait(context.Background(), time.Millisecond); err != nil {
		t.Errorf("Expected nil, got %v", err)
	}
}

func TestNewExecutor_PanicsOnNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("Expected panic for nil classifier")
		}
	}()
	NewExecutor(nil, fastBackoff(1))
}
