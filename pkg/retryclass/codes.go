package retryclass

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrorCode is a server-reported failure code.
// Values follow the MongoDB server error code registry.
type ErrorCode int32

const (
	HostUnreachable                 ErrorCode = 6
	HostNotFound                    ErrorCode = 7
	CursorNotFound                  ErrorCode = 43
	NetworkTimeout                  ErrorCode = 89
	ShutdownInProgress              ErrorCode = 91
	CappedPositionLost              ErrorCode = 136
	PrimarySteppedDown              ErrorCode = 189
	CursorKilled                    ErrorCode = 237
	ExceededTimeLimit               ErrorCode = 262
	SocketException                 ErrorCode = 9001
	NotPrimary                      ErrorCode = 10107 // NotWritablePrimary
	InterruptedAtShutdown           ErrorCode = 11600
	Interrupted                     ErrorCode = 11601
	InterruptedDueToReplStateChange ErrorCode = 11602
	NotPrimaryNoSecondaryOk         ErrorCode = 13435
	NotPrimaryOrSecondary           ErrorCode = 13436
)

var codeNames = map[ErrorCode]string{
	HostUnreachable:                 "HostUnreachable",
	HostNotFound:                    "HostNotFound",
	CursorNotFound:                  "CursorNotFound",
	NetworkTimeout:                  "NetworkTimeout",
	ShutdownInProgress:              "ShutdownInProgress",
	CappedPositionLost:              "CappedPositionLost",
	PrimarySteppedDown:              "PrimarySteppedDown",
	CursorKilled:                    "CursorKilled",
	ExceededTimeLimit:               "ExceededTimeLimit",
	SocketException:                 "SocketException",
	NotPrimary:                      "NotPrimary",
	InterruptedAtShutdown:           "InterruptedAtShutdown",
	Interrupted:                     "Interrupted",
	InterruptedDueToReplStateChange: "InterruptedDueToReplStateChange",
	NotPrimaryNoSecondaryOk:         "NotPrimaryNoSecondaryOk",
	NotPrimaryOrSecondary:           "NotPrimaryOrSecondary",
}

// Aliases accepted by ParseErrorCode in addition to the canonical names.
var codeAliases = map[string]ErrorCode{
	"notwritableprimary":   NotPrimary,
	"notmaster":            NotPrimary,
	"notmasternoslaveok":   NotPrimaryNoSecondaryOk,
	"notmasterorsecondary": NotPrimaryOrSecondary,
}

// String returns the registry name of the code, or ErrorCode(n) when the
// code has no name in this package.
func (c ErrorCode) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("ErrorCode(%d)", int32(c))
}

// ParseErrorCode accepts a registry name (case-insensitive) or a decimal number.
func ParseErrorCode(s string) (ErrorCode, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("%w: empty code", ErrUnknownErrorCode)
	}

	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		return ErrorCode(n), nil
	}

	lower := strings.ToLower(s)
	for code, name := range codeNames {
		if strings.ToLower(name) == lower {
			return code, nil
		}
	}
	if code, ok := codeAliases[lower]; ok {
		return code, nil
	}

	return 0, fmt.Errorf("%w: %q", ErrUnknownErrorCode, s)
}
