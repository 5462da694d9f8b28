package ftpserver

import (
	"errors"
	"fmt"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// activeChannel implements dataChannel for PORT: the client listens, the
// server dials out. Grounded on the teacher's activeTransferHandler, with
// TLS stripped and an anti-bounce check added: spec §8 requires rejecting a
// PORT argument whose IP doesn't match the control connection's peer, to
// stop one session from directing data at an unrelated third host.
type activeChannel struct {
	raddr *net.TCPAddr
	conn  net.Conn
}

var remoteAddrRegex = regexp.MustCompile(`^([0-9]{1,3},){5}[0-9]{1,3}$`)

// errRemoteAddrFormat is returned when a PORT argument doesn't match the
// expected h1,h2,h3,h4,p1,p2 format.
var errRemoteAddrFormat = errors.New("remote address has a bad format")

// errPortBounce is returned when a PORT argument's IP doesn't match the
// control connection's peer address.
var errPortBounce = errors.New("PORT host does not match the control connection's peer address")

// parseRemoteAddr parses a PORT argument ("h1,h2,h3,h4,p1,p2") into the
// dial target, encoding the port big-endian as RFC 959 requires.
func parseRemoteAddr(param string) (*net.TCPAddr, error) {
	if !remoteAddrRegex.MatchString(param) {
		return nil, fmt.Errorf("could not parse %q: %w", param, errRemoteAddrFormat)
	}

	parts := strings.Split(param, ",")
	ip := strings.Join(parts[0:4], ".")

	p1, err := strconv.Atoi(parts[4])
	if err != nil {
		return nil, err
	}

	p2, err := strconv.Atoi(parts[5])
	if err != nil {
		return nil, err
	}

	port := p1<<8 + p2

	return net.ResolveTCPAddr("tcp", fmt.Sprintf("%s:%d", ip, port))
}

func newActiveChannel(sess *Session, param string) (*activeChannel, error) {
	raddr, err := parseRemoteAddr(param)
	if err != nil {
		return nil, err
	}

	if raddr.IP.String() != sess.peerIP {
		return nil, errPortBounce
	}

	return &activeChannel{raddr: raddr}, nil
}

func (a *activeChannel) open(timeout time.Duration) (net.Conn, error) {
	dialer := &net.Dialer{Timeout: timeout, Control: Control}

	conn, err := dialer.Dial("tcp", a.raddr.String())
	if err != nil {
		return nil, newNetworkError("could not establish active connection", err)
	}

	a.conn = conn

	return conn, nil
}

func (a *activeChannel) close() {
	if a.conn != nil {
		_ = a.conn.Close()
		a.conn = nil
	}
}

// handlePORT validates and queues an active-mode data channel. The dial
// itself is deferred until a transfer command calls openDataChannel, same
// as PASV.
func (sess *Session) handlePORT(param string) error {
	ac, err := newActiveChannel(sess, param)
	if err != nil {
		sess.writeMessage(StatusSyntaxErrorNotRecognised, fmt.Sprintf("problem parsing PORT: %v", err))

		return nil
	}

	sess.setPending(ac)
	sess.writeMessage(StatusOK, "PORT command successful")

	return nil
}
