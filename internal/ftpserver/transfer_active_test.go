package ftpserver

import (
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRemoteAddrFormat(t *testing.T) {
	require.True(t, remoteAddrRegex.MatchString("1,2,3,4,5,6"))
	require.False(t, remoteAddrRegex.MatchString("1,2,3,4,5"))
	require.False(t, remoteAddrRegex.MatchString("not,an,addr"))
}

func TestParseRemoteAddrEncodesPortBigEndian(t *testing.T) {
	addr, err := parseRemoteAddr("127,0,0,1,80,1")
	require.NoError(t, err)
	require.Equal(t, "127.0.0.1", addr.IP.String())
	require.Equal(t, 80*256+1, addr.Port)
}

func TestParseRemoteAddrRejectsBadFormat(t *testing.T) {
	_, err := parseRemoteAddr("not-an-address")
	require.ErrorIs(t, err, errRemoteAddrFormat)
}

// TestPORTRejectsBounce checks the anti-bounce invariant (spec §8): a PORT
// argument naming any host other than the control connection's own peer
// must be refused rather than silently queued as a pending data channel.
func TestPORTRejectsBounce(t *testing.T) {
	raw := newClientWithRawConn(t)

	rc, _, err := raw.SendCommand("PORT 10,0,0,1,80,1")
	require.NoError(t, err)
	require.Equal(t, StatusSyntaxErrorNotRecognised, rc)
}

// TestActiveModeTransfer exercises a PORT-mode upload: the client opens a
// listener, sends PORT, then STORs over the server-dialed connection.
func TestActiveModeTransfer(t *testing.T) {
	s, _ := newTestServer(t, nil)

	conn, err := net.DialTimeout("tcp", s.Addr(), dialTimeout)
	require.NoError(t, err)

	defer func() { _ = conn.Close() }()

	reader := newLineReader(conn)

	require.Equal(t, "220", reader.code(t))

	sendLine(t, conn, "USER "+authUser)
	require.Equal(t, "331", reader.code(t))

	sendLine(t, conn, "PASS "+authPass)
	require.Equal(t, "230", reader.code(t))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	defer func() { _ = listener.Close() }()

	tcpAddr := listener.Addr().(*net.TCPAddr)
	ip := tcpAddr.IP.To4()
	require.NotNil(t, ip)

	portArg := portCommandArg(ip, tcpAddr.Port)

	sendLine(t, conn, "PORT "+portArg)
	require.Equal(t, "200", reader.code(t))

	payload := []byte("active mode payload\r\nwith a line break")

	accepted := make(chan net.Conn, 1)

	go func() {
		c, acceptErr := listener.Accept()
		if acceptErr == nil {
			accepted <- c
		}
	}()

	sendLine(t, conn, "STOR active.bin")
	require.Equal(t, "150", reader.code(t))

	dataConn := <-accepted
	_, err = dataConn.Write(payload)
	require.NoError(t, err)
	require.NoError(t, dataConn.Close())

	require.Equal(t, "226", reader.code(t))
}
