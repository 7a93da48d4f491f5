package retryclass

import (
	"fmt"
	"math"

	"go.mongodb.org/mongo-driver/bson"
)

// Shape tags the concrete variant of a Failure.
type Shape int

const (
	ShapeNone Shape = iota
	ShapeLocal
	ShapeCommand
	ShapeWriteConcern
)

func (s Shape) String() string {
	switch s {
	case ShapeLocal:
		return "local"
	case ShapeCommand:
		return "command"
	case ShapeWriteConcern:
		return "write-concern"
	default:
		return "none"
	}
}

// Failure is an operation failure the classifier understands.
// It is implemented only by *LocalError, *CommandError and *WriteConcernError.
type Failure interface {
	error

	// Shape identifies the concrete variant.
	Shape() Shape

	// ErrorLabels returns the mutable label set attached to the failure.
	ErrorLabels() *LabelSet

	sealed()
}

// LocalError is a failure observed by the client itself, such as a dropped
// connection, before or without a server reply.
type LocalError struct {
	Kind   ErrorKind
	Err    error
	Labels LabelSet
}

// NewLocalError wraps cause with the given kind.
func NewLocalError(kind ErrorKind, cause error) *LocalError {
	return &LocalError{Kind: kind, Err: cause}
}

func (e *LocalError) Error() string {
	if e.Err == nil {
		return e.Kind.String()
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *LocalError) Unwrap() error          { return e.Err }
func (e *LocalError) Shape() Shape           { return ShapeLocal }
func (e *LocalError) ErrorLabels() *LabelSet { return &e.Labels }
func (e *LocalError) sealed()                {}

// CommandError is a command-level failure reported by the server.
type CommandError struct {
	Code    ErrorCode
	Name    string
	Message string
	Labels  LabelSet
}

// NewCommandError builds a CommandError carrying the given labels.
func NewCommandError(code ErrorCode, labels ...string) *CommandError {
	return &CommandError{Code: code, Labels: NewLabelSet(labels...)}
}

func (e *CommandError) Error() string {
	name := e.Name
	if name == "" {
		name = e.Code.String()
	}
	if e.Message == "" {
		return fmt.Sprintf("command failed with code %d (%s)", int32(e.Code), name)
	}
	return fmt.Sprintf("command failed with code %d (%s): %s", int32(e.Code), name, e.Message)
}

func (e *CommandError) Shape() Shape           { return ShapeCommand }
func (e *CommandError) ErrorLabels() *LabelSet { return &e.Labels }
func (e *CommandError) sealed()                {}

// WriteConcernError is a server reply whose write concern could not be
// satisfied. Response is the reply document; the nested code, if any, lives
// at writeConcernError.code.
type WriteConcernError struct {
	Response bson.Raw
	Labels   LabelSet
}

// NewWriteConcernError builds a WriteConcernError whose reply holds only the
// nested code.
func NewWriteConcernError(code ErrorCode, labels ...string) (*WriteConcernError, error) {
	doc, err := bson.Marshal(bson.D{
		{Key: "ok", Value: 1},
		{Key: "writeConcernError", Value: bson.D{{Key: "code", Value: int32(code)}}},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to encode write concern reply: %w", err)
	}
	return &WriteConcernError{Response: doc, Labels: NewLabelSet(labels...)}, nil
}

// Code returns the nested write concern error code. The second result is
// false when the key is absent or does not hold an integral number.
func (e *WriteConcernError) Code() (ErrorCode, bool) {
	if len(e.Response) == 0 {
		return 0, false
	}
	val, err := e.Response.LookupErr("writeConcernError", "code")
	if err != nil {
		return 0, false
	}
	return CodeFromValue(val)
}

func (e *WriteConcernError) Error() string {
	code, ok := e.Code()
	if !ok {
		return "write concern error"
	}
	return fmt.Sprintf("write concern error with code %d (%s)", int32(code), code)
}

func (e *WriteConcernError) Shape() Shape           { return ShapeWriteConcern }
func (e *WriteConcernError) ErrorLabels() *LabelSet { return &e.Labels }
func (e *WriteConcernError) sealed()                {}

// CodeFromValue converts a numeric BSON value to an ErrorCode. Integral
// doubles are accepted since some servers encode codes that way.
func CodeFromValue(val bson.RawValue) (ErrorCode, bool) {
	if v, ok := val.Int32OK(); ok {
		return ErrorCode(v), true
	}
	if v, ok := val.Int64OK(); ok {
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, false
		}
		return ErrorCode(v), true
	}
	if v, ok := val.DoubleOK(); ok {
		if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return 0, false
		}
		return ErrorCode(v), true
	}
	return 0, false
}
