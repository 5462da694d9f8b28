package ftpserver

import (
	"bufio"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/secsy/goftp"
	"github.com/stretchr/testify/require"
)

const dialTimeout = 5 * time.Second

// lineReader reads CRLF-terminated control replies off a raw net.Conn for
// tests that need to drive the protocol below goftp's abstractions (e.g.
// active-mode PORT, where goftp's own active-mode support assumes a local
// listening port range we don't want to configure in a test).
type lineReader struct {
	r *bufio.Reader
}

func newLineReader(conn net.Conn) *lineReader {
	return &lineReader{r: bufio.NewReader(conn)}
}

// code reads one reply line and returns its three-digit status code.
func (lr *lineReader) code(t *testing.T) string {
	t.Helper()

	line, err := lr.r.ReadString('\n')
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(line), 3)

	return line[:3]
}

func sendLine(t *testing.T, conn net.Conn, line string) {
	t.Helper()

	_, err := fmt.Fprintf(conn, "%s\r\n", line)
	require.NoError(t, err)
}

// portCommandArg renders a PORT argument ("h1,h2,h3,h4,p1,p2") for ip:port.
func portCommandArg(ip net.IP, port int) string {
	octets := strings.Split(ip.String(), ".")

	return fmt.Sprintf("%s,%s,%s,%s,%d,%d", octets[0], octets[1], octets[2], octets[3], port/256, port%256)
}

// newClientWithRawConn creates a test server and returns a connected client and
// raw connection. The resources are closed automatically when the test ends.
func newClientWithRawConn(t *testing.T) goftp.RawConn {
	t.Helper()

	server, _ := newTestServer(t, nil)
	conf := goftp.Config{
		User:     authUser,
		Password: authPass,
	}

	client, err := goftp.DialConfig(conf, server.Addr())
	require.NoError(t, err, "Couldn't connect")

	t.Cleanup(func() { panicOnError(client.Close()) })

	raw, err := client.OpenRawConn()
	require.NoError(t, err, "Couldn't open raw connection")

	t.Cleanup(func() { require.NoError(t, raw.Close()) })

	return raw
}

func sendAndCheck(t *testing.T, raw goftp.RawConn, cmd string, expected int) {
	t.Helper()

	code, _, err := raw.SendCommand(cmd)
	require.NoError(t, err)
	require.Equal(t, expected, code)
}
