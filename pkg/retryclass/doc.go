// Package retryclass defines the failure values, error codes and labels shared
// by the retryability classifier and its callers.
//
// A failed operation is represented by exactly one of three shapes:
//
//   - LocalError: a client-side failure tagged with an ErrorKind
//   - CommandError: a server command failure with an ErrorCode
//   - WriteConcernError: a server reply carrying writeConcernError.code
//
// Each shape owns a LabelSet. Labels are only ever added, never removed.
package retryclass
