package retryclass_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vvka-141/retryclass/pkg/retryclass"
)

func TestParseErrorCode(t *testing.T) {
	tests := []struct {
		in   string
		want retryclass.ErrorCode
	}{
		{"10107", retryclass.NotPrimary},
		{"NotPrimary", retryclass.NotPrimary},
		{"notwritableprimary", retryclass.NotPrimary},
		{"NotMasterNoSlaveOk", retryclass.NotPrimaryNoSecondaryOk},
		{"hostunreachable", retryclass.HostUnreachable},
		{" 262 ", retryclass.ExceededTimeLimit},
		{"-5", retryclass.ErrorCode(-5)},
		{"424242", retryclass.ErrorCode(424242)},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := retryclass.ParseErrorCode(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseErrorCode_Unknown(t *testing.T) {
	for _, in := range []string{"", "NoSuchCode", "99999999999"} {
		_, err := retryclass.ParseErrorCode(in)
		assert.True(t, errors.Is(err, retryclass.ErrUnknownErrorCode), "input %q: %v", in, err)
	}
}

func TestErrorCode_String(t *testing.T) {
	assert.Equal(t, "SocketException", retryclass.SocketException.String())
	assert.Equal(t, "CursorKilled", retryclass.CursorKilled.String())
	assert.Equal(t, "ErrorCode(12345)", retryclass.ErrorCode(12345).String())
}

func TestParseErrorKind(t *testing.T) {
	for _, kind := range retryclass.ErrorKinds() {
		got, err := retryclass.ParseErrorKind(kind.String())
		require.NoError(t, err)
		assert.Equal(t, kind, got)
	}

	got, err := retryclass.ParseErrorKind("NODE_RECOVERING")
	require.NoError(t, err)
	assert.Equal(t, retryclass.KindNodeRecovering, got)

	_, err = retryclass.ParseErrorKind("timeout")
	assert.True(t, errors.Is(err, retryclass.ErrUnknownErrorKind))
}

func TestErrorKind_Valid(t *testing.T) {
	assert.True(t, retryclass.KindCursorNotFound.Valid())
	assert.False(t, retryclass.ErrorKind(0).Valid())
	assert.Equal(t, "ErrorKind(0)", retryclass.ErrorKind(0).String())
}

func TestParseOperationType(t *testing.T) {
	op, err := retryclass.ParseOperationType("Write")
	require.NoError(t, err)
	assert.Equal(t, retryclass.OperationWrite, op)

	op, err = retryclass.ParseOperationType("change-stream")
	require.NoError(t, err)
	assert.Equal(t, retryclass.OperationChangeStream, op)

	_, err = retryclass.ParseOperationType("delete")
	assert.Error(t, err)
}

func TestErrorKind_TextRoundTrip(t *testing.T) {
	text, err := retryclass.KindNotPrimary.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "not-primary", string(text))

	var k retryclass.ErrorKind
	require.NoError(t, k.UnmarshalText([]byte("cursor-not-found")))
	assert.Equal(t, retryclass.KindCursorNotFound, k)

	_, err = retryclass.ErrorKind(99).MarshalText()
	assert.Error(t, err)
}
