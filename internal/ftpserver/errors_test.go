package ftpserver

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDriverErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := newDriverError("authenticating", inner)

	require.ErrorIs(t, err, inner)
	require.Equal(t, "driver error: authenticating: boom", err.Error())
}

func TestFileAccessErrorUnwrap(t *testing.T) {
	inner := errors.New("not found")
	err := newFileAccessError("opening hello.bin", inner)

	require.ErrorIs(t, err, inner)
	require.Equal(t, "file access error: opening hello.bin: not found", err.Error())
}

func TestNetworkErrorUnwrap(t *testing.T) {
	inner := errors.New("refused")
	err := newNetworkError("dialing peer", inner)

	require.ErrorIs(t, err, inner)
	require.Equal(t, "network error: dialing peer: refused", err.Error())
}
