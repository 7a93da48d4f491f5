package retry

import (
	"fmt"

	"github.com/vvka-141/retryclass/pkg/retryclass"
)

// ReadClassifier treats an error as transient when the read may be retried.
type ReadClassifier struct{}

// NewReadClassifier creates a classifier for read operations.
func NewReadClassifier() *ReadClassifier {
	return &ReadClassifier{}
}

// IsTransient implements retryclass.ErrorClassifier.
func (c *ReadClassifier) IsTransient(err error) bool {
	return IsRetryableReadError(err)
}

// WriteClassifier labels a failed write and then trusts the label.
//
// IsTransient adds the label to err, so the executor must be the only holder
// of the error while it runs.
type WriteClassifier struct{}

// NewWriteClassifier creates a classifier for write operations.
func NewWriteClassifier() *WriteClassifier {
	return &WriteClassifier{}
}

// IsTransient implements retryclass.ErrorClassifier.
func (c *WriteClassifier) IsTransient(err error) bool {
	AddRetryableWriteErrorLabelIfRequired(err)
	return IsRetryableWriteError(err)
}

// ChangeStreamClassifier treats an error as transient when the stream may resume.
type ChangeStreamClassifier struct{}

// NewChangeStreamClassifier creates a classifier for change stream cursors.
func NewChangeStreamClassifier() *ChangeStreamClassifier {
	return &ChangeStreamClassifier{}
}

// IsTransient implements retryclass.ErrorClassifier.
func (c *ChangeStreamClassifier) IsTransient(err error) bool {
	return IsResumableChangeStreamError(err)
}

// ClassifierFor returns the classifier that applies to op.
func ClassifierFor(op retryclass.OperationType) (retryclass.ErrorClassifier, error) {
	switch op {
	case retryclass.OperationRead:
		return NewReadClassifier(), nil
	case retryclass.OperationWrite:
		return NewWriteClassifier(), nil
	case retryclass.OperationChangeStream:
		return NewChangeStreamClassifier(), nil
	default:
		return nil, fmt.Errorf("no classifier for operation type %q", op)
	}
}

// Verdict collects every classification decision for one error.
type Verdict struct {
	Shape            retryclass.Shape `json:"-"`
	ShapeName        string           `json:"shape"`
	Labels           []string         `json:"labels"`
	Resumable        bool             `json:"resumable"`
	RetryableRead    bool             `json:"retryable_read"`
	ShouldLabelWrite bool             `json:"should_label_write"`
	RetryableWrite   bool             `json:"retryable_write"`
}

// Classify evaluates all predicates against err without mutating it.
// RetryableWrite reports what IsRetryableWriteError would return after
// AddRetryableWriteErrorLabelIfRequired.
func Classify(err error) Verdict {
	v := Verdict{
		Shape:            retryclass.ShapeNone,
		Resumable:        IsResumableChangeStreamError(err),
		RetryableRead:    IsRetryableReadError(err),
		ShouldLabelWrite: ShouldLabelAsRetryableWrite(err),
		RetryableWrite:   IsRetryableWriteError(err),
	}
	if f := asFailure(err); f != nil {
		v.Shape = f.Shape()
		v.Labels = f.ErrorLabels().List()
	}
	v.ShapeName = v.Shape.String()
	v.RetryableWrite = v.RetryableWrite || v.ShouldLabelWrite
	return v
}
