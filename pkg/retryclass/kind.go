package retryclass

import (
	"fmt"
	"strings"
)

// ErrorKind is the locally observed category of a transport or driver failure.
// It is assigned where the failure originates and is independent of server codes.
type ErrorKind int

const (
	KindConnectionFailure ErrorKind = iota + 1
	KindNotPrimary
	KindNodeRecovering
	KindCursorNotFound
)

var kindNames = map[ErrorKind]string{
	KindConnectionFailure: "connection-failure",
	KindNotPrimary:        "not-primary",
	KindNodeRecovering:    "node-recovering",
	KindCursorNotFound:    "cursor-not-found",
}

// ErrorKinds lists every kind in declaration order.
func ErrorKinds() []ErrorKind {
	return []ErrorKind{KindConnectionFailure, KindNotPrimary, KindNodeRecovering, KindCursorNotFound}
}

func (k ErrorKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Valid reports whether k is one of the declared kinds.
func (k ErrorKind) Valid() bool {
	_, ok := kindNames[k]
	return ok
}

// ParseErrorKind parses the kebab-case kind name. Underscores and case are ignored.
func ParseErrorKind(s string) (ErrorKind, error) {
	norm := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(s), "_", "-"))
	for kind, name := range kindNames {
		if name == norm {
			return kind, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownErrorKind, s)
}

// MarshalText encodes the kind by name.
func (k ErrorKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownErrorKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText decodes a kind name as accepted by ParseErrorKind.
func (k *ErrorKind) UnmarshalText(text []byte) error {
	parsed, err := ParseErrorKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
