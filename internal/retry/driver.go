package retry

import (
	"errors"
	"io"
	"net"
	"syscall"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vvka-141/retryclass/pkg/retryclass"
)

// FromDriverError translates an error returned by the MongoDB Go driver into
// a classifiable failure. The second result is false when err has no
// counterpart, in which case every predicate would return false anyway.
//
// Errors that already are failures are returned unchanged. The driver
// reports dropped connections as command errors labelled NetworkError; those
// become LocalError{KindConnectionFailure} and keep the driver's labels.
//
// Server codes are never mapped to kinds: a NotPrimary or
// ShutdownInProgress reply stays a CommandError and is judged by its code
// alone, so it is neither read-retryable nor write-labelled. Callers that
// want topology-change semantics must assign the kind where the failure
// originates.
func FromDriverError(err error) (retryclass.Failure, bool) {
	if err == nil {
		return nil, false
	}

	if f := asFailure(err); f != nil {
		return f, true
	}

	var cmdErr mongo.CommandError
	isCmd := errors.As(err, &cmdErr)

	if mongo.IsNetworkError(err) || isNetworkError(err) {
		local := retryclass.NewLocalError(retryclass.KindConnectionFailure, err)
		if isCmd {
			for _, l := range cmdErr.Labels {
				local.Labels.Add(l)
			}
		}
		return local, true
	}

	if isCmd {
		return &retryclass.CommandError{
			Code:    retryclass.ErrorCode(cmdErr.Code),
			Name:    cmdErr.Name,
			Message: cmdErr.Message,
			Labels:  retryclass.NewLabelSet(cmdErr.Labels...),
		}, true
	}

	var writeErr mongo.WriteException
	if errors.As(err, &writeErr) && writeErr.WriteConcernError != nil {
		return writeConcernFailure(writeErr.Raw, writeErr.WriteConcernError, writeErr.Labels)
	}

	var bulkErr mongo.BulkWriteException
	if errors.As(err, &bulkErr) && bulkErr.WriteConcernError != nil {
		return writeConcernFailure(nil, bulkErr.WriteConcernError, bulkErr.Labels)
	}

	return nil, false
}

// writeConcernFailure keeps the server reply when it carries the nested
// error, and otherwise rebuilds the minimal document from the driver's
// decoded fields.
func writeConcernFailure(reply bson.Raw, wce *mongo.WriteConcernError, labels []string) (retryclass.Failure, bool) {
	if len(reply) > 0 {
		if _, err := reply.LookupErr("writeConcernError"); err == nil {
			return &retryclass.WriteConcernError{
				Response: reply,
				Labels:   retryclass.NewLabelSet(labels...),
			}, true
		}
	}

	nested := bson.D{{Key: "code", Value: int32(wce.Code)}}
	if wce.Name != "" {
		nested = append(nested, bson.E{Key: "codeName", Value: wce.Name})
	}
	if wce.Message != "" {
		nested = append(nested, bson.E{Key: "errmsg", Value: wce.Message})
	}
	doc, err := bson.Marshal(bson.D{
		{Key: "ok", Value: 1},
		{Key: "writeConcernError", Value: nested},
	})
	if err != nil {
		return nil, false
	}
	return &retryclass.WriteConcernError{
		Response: doc,
		Labels:   retryclass.NewLabelSet(labels...),
	}, true
}

// isNetworkError checks for socket-level errors raised below the driver.
func isNetworkError(err error) bool {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	// DNS errors
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		// Temporary DNS failures are retryable
		return dnsErr.Temporary() || dnsErr.Timeout()
	}

	// Network operation errors
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		if opErr.Timeout() {
			return true
		}

		if opErr.Err != nil {
			switch {
			case errors.Is(opErr.Err, syscall.ECONNREFUSED),
				errors.Is(opErr.Err, syscall.ECONNRESET),
				errors.Is(opErr.Err, syscall.ENETUNREACH),
				errors.Is(opErr.Err, syscall.EHOSTUNREACH),
				errors.Is(opErr.Err, syscall.EPIPE):
				return true
			}
		}
	}

	return false
}
