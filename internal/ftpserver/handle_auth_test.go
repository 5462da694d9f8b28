package ftpserver

import (
	"net"
	"testing"
	"time"

	"github.com/secsy/goftp"
	"github.com/stretchr/testify/require"
)

func TestLoginSuccess(t *testing.T) {
	s, _ := newTestServer(t, nil)

	conn, err := net.DialTimeout("tcp", s.Addr(), 5*time.Second)
	require.NoError(t, err)

	defer func() { require.NoError(t, conn.Close()) }()

	buf := make([]byte, 1024)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "220 FTP Server Ready\r\n", string(buf[:n]))

	_, err = conn.Write([]byte("NOOP\r\n"))
	require.NoError(t, err)

	n, err = conn.Read(buf)
	require.NoError(t, err)
	require.Equal(t, "200 OK\r\n", string(buf[:n]))

	conf := goftp.Config{User: authUser, Password: authPass}

	c, err := goftp.DialConfig(conf, s.Addr())
	require.NoError(t, err, "Couldn't connect")

	defer func() { panicOnError(c.Close()) }()

	raw, err := c.OpenRawConn()
	require.NoError(t, err, "Couldn't open raw connection")

	defer func() { require.NoError(t, raw.Close()) }()

	rc, _, err := raw.SendCommand("NOOP")
	require.NoError(t, err)
	require.Equal(t, StatusOK, rc)
}

func TestLoginFailure(t *testing.T) {
	s, _ := newTestServer(t, nil)

	conf := goftp.Config{User: authUser, Password: authPass + "_wrong"}

	c, err := goftp.DialConfig(conf, s.Addr())
	require.NoError(t, err, "Couldn't connect")

	defer func() { panicOnError(c.Close()) }()

	_, err = c.OpenRawConn()
	require.Error(t, err, "We should have failed to login")
}

func TestGatedCommandWithoutLoginReturns530(t *testing.T) {
	s, _ := newTestServer(t, nil)

	conn, err := net.DialTimeout("tcp", s.Addr(), 5*time.Second)
	require.NoError(t, err)

	defer func() { require.NoError(t, conn.Close()) }()

	buf := make([]byte, 1024)
	_, err = conn.Read(buf)
	require.NoError(t, err)

	_, err = conn.Write([]byte("PWD\r\n"))
	require.NoError(t, err)

	n, err := conn.Read(buf)
	require.NoError(t, err)
	require.Contains(t, string(buf[:n]), "530")
}
