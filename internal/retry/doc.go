// Package retry decides whether a failed database operation may be retried
// or a change stream resumed, and provides the executor that acts on it.
//
// # Classification
//
// Three predicates answer the retry questions for any error value:
//
//	retry.IsResumableChangeStreamError(err)
//	retry.IsRetryableReadError(err)
//	retry.IsRetryableWriteError(err)
//
// Writes use a label protocol. The failing write calls
// AddRetryableWriteErrorLabelIfRequired once, which attaches the
// RetryableWriteError label when the error kind or code qualifies. From then
// on IsRetryableWriteError only looks at the label, so layers that no longer
// see the original code still agree, and labels attached by the server are
// honoured.
//
// The tables behind the predicates are fixed at package initialisation.
// Predicates are safe for concurrent use; labelling requires the caller to
// own the error.
//
// # Example Usage
//
//	strategy := retry.NewExponentialBackoff(1)
//	executor, _ := retry.NewExecutorFor(retryclass.OperationWrite, strategy)
//
//	err := executor.Execute(ctx, func(ctx context.Context) error {
//	    return insert(ctx, doc)
//	})
//
// Errors from the MongoDB Go driver are translated with FromDriverError
// before classification.
package retry
