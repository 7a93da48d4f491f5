package retry

import (
	"sort"

	"github.com/vvka-141/retryclass/pkg/retryclass"
)

type kindSet map[retryclass.ErrorKind]struct{}

func newKindSet(kinds ...retryclass.ErrorKind) kindSet {
	s := make(kindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

func (s kindSet) has(k retryclass.ErrorKind) bool {
	_, ok := s[k]
	return ok
}

func (s kindSet) sorted() []retryclass.ErrorKind {
	out := make([]retryclass.ErrorKind, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

type codeSet map[retryclass.ErrorCode]struct{}

func newCodeSet(codes ...retryclass.ErrorCode) codeSet {
	s := make(codeSet, len(codes))
	for _, c := range codes {
		s[c] = struct{}{}
	}
	return s
}

func (s codeSet) has(c retryclass.ErrorCode) bool {
	_, ok := s[c]
	return ok
}

func (s codeSet) sorted() []retryclass.ErrorCode {
	out := make([]retryclass.ErrorCode, 0, len(s))
	for c := range s {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Base lists the tables below are assembled from.
var (
	retryableKindList = []retryclass.ErrorKind{
		retryclass.KindConnectionFailure,
		retryclass.KindNotPrimary,
		retryclass.KindNodeRecovering,
	}

	networkCodeList = []retryclass.ErrorCode{
		retryclass.HostNotFound,
		retryclass.HostUnreachable,
		retryclass.NetworkTimeout,
		retryclass.SocketException,
	}
)

// Classification tables. Built during package initialisation and never
// written afterwards, so concurrent reads need no locking.
var (
	resumableKinds = newKindSet(append(append([]retryclass.ErrorKind{}, retryableKindList...),
		retryclass.KindCursorNotFound)...)

	resumableExclusionCodes = newCodeSet(
		retryclass.CappedPositionLost,
		retryclass.CursorKilled,
		retryclass.Interrupted,
	)

	resumableExclusionLabels = []string{
		retryclass.NonResumableChangeStreamErrorLabel,
	}

	retryableReadKinds = newKindSet(retryableKindList...)
	retryableReadCodes = newCodeSet(networkCodeList...)

	retryableWriteKinds = newKindSet(retryableKindList...)
	retryableWriteCodes = newCodeSet(append(append([]retryclass.ErrorCode{}, networkCodeList...),
		retryclass.ExceededTimeLimit)...)

	// Superset of retryableWriteCodes: the NotPrimary family is only
	// retried when reported inside a write concern error.
	retryableWriteConcernCodes = newCodeSet(
		retryclass.InterruptedAtShutdown,
		retryclass.InterruptedDueToReplStateChange,
		retryclass.NotPrimary,
		retryclass.NotPrimaryNoSecondaryOk,
		retryclass.NotPrimaryOrSecondary,
		retryclass.PrimarySteppedDown,
		retryclass.ShutdownInProgress,
		retryclass.HostNotFound,
		retryclass.HostUnreachable,
		retryclass.NetworkTimeout,
		retryclass.SocketException,
		retryclass.ExceededTimeLimit,
	)
)

// TableSnapshot is a copy of the classification tables, sorted for display.
type TableSnapshot struct {
	ResumableKinds             []retryclass.ErrorKind `json:"resumable_kinds"`
	ResumableExclusionCodes    []retryclass.ErrorCode `json:"resumable_exclusion_codes"`
	ResumableExclusionLabels   []string               `json:"resumable_exclusion_labels"`
	RetryableReadKinds         []retryclass.ErrorKind `json:"retryable_read_kinds"`
	RetryableReadCodes         []retryclass.ErrorCode `json:"retryable_read_codes"`
	RetryableWriteKinds        []retryclass.ErrorKind `json:"retryable_write_kinds"`
	RetryableWriteCodes        []retryclass.ErrorCode `json:"retryable_write_codes"`
	RetryableWriteConcernCodes []retryclass.ErrorCode `json:"retryable_write_concern_codes"`
}

// Tables returns a snapshot of the classification tables. Mutating the
// snapshot has no effect on classification.
func Tables() TableSnapshot {
	return TableSnapshot{
		ResumableKinds:             resumableKinds.sorted(),
		ResumableExclusionCodes:    resumableExclusionCodes.sorted(),
		ResumableExclusionLabels:   append([]string(nil), resumableExclusionLabels...),
		RetryableReadKinds:         retryableReadKinds.sorted(),
		RetryableReadCodes:         retryableReadCodes.sorted(),
		RetryableWriteKinds:        retryableWriteKinds.sorted(),
		RetryableWriteCodes:        retryableWriteCodes.sorted(),
		RetryableWriteConcernCodes: retryableWriteConcernCodes.sorted(),
	}
}
