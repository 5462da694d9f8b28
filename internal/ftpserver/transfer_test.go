package ftpserver

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/secsy/goftp"
	"github.com/stretchr/testify/require"
)

// TestPassiveModeTransfer validates a full PASV-mode upload/download round
// trip, the default mode goftp uses.
func TestPassiveModeTransfer(t *testing.T) {
	s, _ := newTestServer(t, nil)

	client, err := goftp.DialConfig(goftp.Config{User: authUser, Password: authPass}, s.Addr())
	require.NoError(t, err)

	defer func() { panicOnError(client.Close()) }()

	payload := []byte("passive mode payload")

	require.NoError(t, client.Store("pasv.bin", bytes.NewReader(payload)))

	var out bytes.Buffer
	require.NoError(t, client.Retrieve("pasv.bin", &out))
	require.Equal(t, payload, out.Bytes())
}

func TestPASVReplyEncodesAdvertisedPort(t *testing.T) {
	raw := newClientWithRawConn(t)

	rc, response, err := raw.SendCommand("PASV")
	require.NoError(t, err)
	require.Equal(t, StatusEnteringPASV, rc)
	require.Contains(t, response, "Entering Passive Mode (")

	var h1, h2, h3, h4, p1, p2 int
	_, err = fmt.Sscanf(response, "Entering Passive Mode (%d,%d,%d,%d,%d,%d)", &h1, &h2, &h3, &h4, &p1, &p2)
	require.NoError(t, err)

	port := p1*256 + p2
	require.GreaterOrEqual(t, port, defaultPassivePortStart)
	require.LessOrEqual(t, port, defaultPassivePortEnd)
}

// TestSecondPASVSupersedesFirst checks that a second PASV gets a fresh
// listener: the first one is still bound while the second is opened, so the
// two replies advertise different ports.
func TestSecondPASVSupersedesFirst(t *testing.T) {
	raw := newClientWithRawConn(t)

	rc1, response1, err := raw.SendCommand("PASV")
	require.NoError(t, err)
	require.Equal(t, StatusEnteringPASV, rc1)

	rc2, response2, err := raw.SendCommand("PASV")
	require.NoError(t, err)
	require.Equal(t, StatusEnteringPASV, rc2)

	require.NotEqual(t, response1, response2)
}

// TestTransferWithoutPendingChannelFails checks that RETR/STOR/LIST without
// a prior PASV or PORT fail cleanly instead of blocking.
func TestTransferWithoutPendingChannelFails(t *testing.T) {
	raw := newClientWithRawConn(t)

	rc, _, err := raw.SendCommand("RETR whatever")
	require.NoError(t, err)
	require.Equal(t, StatusActionNotTaken, rc)

	rc, _, err = raw.SendCommand("NOOP")
	require.NoError(t, err)
	require.Equal(t, StatusOK, rc)
}
