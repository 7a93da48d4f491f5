package retry

import (
	"errors"

	"github.com/vvka-141/retryclass/pkg/retryclass"
)

// asFailure finds the classifiable failure in err's chain.
// Returns nil for nil errors, foreign errors and typed nil pointers.
func asFailure(err error) retryclass.Failure {
	if err == nil {
		return nil
	}

	var f retryclass.Failure
	if !errors.As(err, &f) {
		return nil
	}

	switch v := f.(type) {
	case *retryclass.LocalError:
		if v == nil {
			return nil
		}
	case *retryclass.CommandError:
		if v == nil {
			return nil
		}
	case *retryclass.WriteConcernError:
		if v == nil {
			return nil
		}
	}
	return f
}

// IsResumableChangeStreamError reports whether a change stream may resume
// after err.
//
// A command error is resumable unless its code is excluded or it carries the
// NonResumableChangeStreamError label; the label wins over any code. A local
// error is resumable when its kind is.
func IsResumableChangeStreamError(err error) bool {
	switch f := asFailure(err).(type) {
	case *retryclass.CommandError:
		if resumableExclusionCodes.has(f.Code) {
			return false
		}
		for _, label := range resumableExclusionLabels {
			if f.Labels.Has(label) {
				return false
			}
		}
		return true
	case *retryclass.LocalError:
		return resumableKinds.has(f.Kind)
	default:
		return false
	}
}

// IsRetryableReadError reports whether a read that failed with err may be retried.
// Local errors are judged by kind, command errors by code.
func IsRetryableReadError(err error) bool {
	switch f := asFailure(err).(type) {
	case *retryclass.LocalError:
		return retryableReadKinds.has(f.Kind)
	case *retryclass.CommandError:
		return retryableReadCodes.has(f.Code)
	default:
		return false
	}
}

// ShouldLabelAsRetryableWrite reports whether a write that failed with err
// qualifies for the RetryableWriteError label.
func ShouldLabelAsRetryableWrite(err error) bool {
	switch f := asFailure(err).(type) {
	case *retryclass.LocalError:
		return retryableWriteKinds.has(f.Kind)
	case *retryclass.CommandError:
		return retryableWriteCodes.has(f.Code)
	case *retryclass.WriteConcernError:
		code, ok := f.Code()
		return ok && retryableWriteConcernCodes.has(code)
	default:
		return false
	}
}

// AddRetryableWriteErrorLabelIfRequired attaches the RetryableWriteError
// label to err when ShouldLabelAsRetryableWrite holds. Call it once a write
// fails and before asking IsRetryableWriteError.
//
// The label set of err is mutated in place; the caller must own err.
func AddRetryableWriteErrorLabelIfRequired(err error) {
	f := asFailure(err)
	if f == nil || !ShouldLabelAsRetryableWrite(f) {
		return
	}
	f.ErrorLabels().Add(retryclass.RetryableWriteErrorLabel)
}

// IsRetryableWriteError reports whether err carries the RetryableWriteError
// label, regardless of who attached it.
func IsRetryableWriteError(err error) bool {
	f := asFailure(err)
	if f == nil {
		return false
	}
	return f.ErrorLabels().Has(retryclass.RetryableWriteErrorLabel)
}
