package ftpserver

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOPTSUTF8ON(t *testing.T) {
	raw := newClientWithRawConn(t)

	rc, message, err := raw.SendCommand("OPTS UTF8 ON")
	require.NoError(t, err)
	require.Equal(t, StatusOK, rc)
	require.Equal(t, "UTF8 mode enabled", message)
}

func TestOPTSUnknown(t *testing.T) {
	raw := newClientWithRawConn(t)

	rc, _, err := raw.SendCommand("OPTS HASH")
	require.NoError(t, err)
	require.Equal(t, StatusSyntaxErrorNotRecognised, rc)
}

func TestOPTSUTF8OffRejected(t *testing.T) {
	raw := newClientWithRawConn(t)

	rc, _, err := raw.SendCommand("OPTS UTF8 OFF")
	require.NoError(t, err)
	require.Equal(t, StatusSyntaxErrorNotRecognised, rc)
}

func TestOPTSBareUTF8Rejected(t *testing.T) {
	raw := newClientWithRawConn(t)

	rc, _, err := raw.SendCommand("OPTS UTF8")
	require.NoError(t, err)
	require.Equal(t, StatusSyntaxErrorNotRecognised, rc)
}

func TestQuit(t *testing.T) {
	raw := newClientWithRawConn(t)

	rc, _, err := raw.SendCommand("QUIT")
	require.NoError(t, err)
	require.Equal(t, StatusClosingControl, rc)
}

func TestTYPE(t *testing.T) {
	raw := newClientWithRawConn(t)

	rc, _, err := raw.SendCommand("TYPE I")
	require.NoError(t, err)
	require.Equal(t, StatusOK, rc)

	rc, _, err = raw.SendCommand("TYPE A")
	require.NoError(t, err)
	require.Equal(t, StatusOK, rc)

	rc, _, err = raw.SendCommand("TYPE wrong")
	require.NoError(t, err)
	require.Equal(t, StatusSyntaxErrorNotRecognised, rc)
}

func TestTYPELowercase(t *testing.T) {
	raw := newClientWithRawConn(t)

	rc, _, err := raw.SendCommand("TYPE i")
	require.NoError(t, err)
	require.Equal(t, StatusOK, rc)

	rc, _, err = raw.SendCommand("TYPE a")
	require.NoError(t, err)
	require.Equal(t, StatusOK, rc)
}

func TestUnknownCommand(t *testing.T) {
	raw := newClientWithRawConn(t)

	rc, _, err := raw.SendCommand("FROB")
	require.NoError(t, err)
	require.Equal(t, StatusCommandNotImplemented, rc)
}
