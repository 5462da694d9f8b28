package ftpserver

import (
	"fmt"
	"math/rand"
	"net"
	"strings"
	"time"
)

// errNoAvailableListeningPort is returned when no port in the configured
// range could be bound.
var errNoAvailableListeningPort = fmt.Errorf("could not find any port to listen on in the configured range")

// passiveChannel implements dataChannel for PASV: the server listens, the
// client dials in. Grounded on the teacher's passiveTransferHandler, with
// TLS and EPSV stripped (out of scope) and the retry-within-range listener
// search kept as-is.
type passiveChannel struct {
	listener *net.TCPListener
	port     int
}

func findListenerWithinPortRange(portRange PortRange) (*net.TCPListener, error) {
	nbAttempts := portRange.End - portRange.Start
	if nbAttempts < 10 {
		nbAttempts = 10
	} else if nbAttempts > 1000 {
		nbAttempts = 1000
	}

	for i := 0; i < nbAttempts; i++ {
		// nolint: gosec
		port := portRange.Start + rand.Intn(portRange.End-portRange.Start+1)

		laddr, err := net.ResolveTCPAddr("tcp", fmt.Sprintf("0.0.0.0:%d", port))
		if err != nil {
			return nil, newNetworkError(fmt.Sprintf("could not resolve port %d", port), err)
		}

		listener, err := net.ListenTCP("tcp", laddr)
		if err == nil {
			return listener, nil
		}
	}

	return nil, errNoAvailableListeningPort
}

// currentIPQuads reports the dotted-quad IP to advertise in a PASV reply:
// the operator-configured PublicHost if set, otherwise the control socket's
// own local address (spec §9 note 2 - stronger than resolving a hostname).
func currentIPQuads(sess *Session) ([]string, error) {
	ip := sess.server.settings.PublicHost
	if ip == "" {
		ip = strings.Split(sess.conn.LocalAddr().String(), ":")[0]
	}

	quads := strings.Split(ip, ".")
	if len(quads) != 4 {
		return nil, fmt.Errorf("advertised host %q is not an IPv4 dotted quad", ip)
	}

	return quads, nil
}

func newPassiveChannel(sess *Session) (*passiveChannel, []string, error) {
	listener, err := findListenerWithinPortRange(sess.server.settings.PassivePortRange)
	if err != nil {
		return nil, nil, err
	}

	quads, err := currentIPQuads(sess)
	if err != nil {
		_ = listener.Close()

		return nil, nil, err
	}

	return &passiveChannel{
		listener: listener,
		port:     listener.Addr().(*net.TCPAddr).Port,
	}, quads, nil
}

// pasvReplyText formats the 227 message body, encoding the port big-endian
// per RFC 959 (h1,h2,h3,h4,p1,p2 with port = p1*256+p2). The buggy original
// encoded this little-endian; this is the one place the teacher's existing
// code was already RFC-correct, so there was nothing to fix here.
func pasvReplyText(quads []string, port int) string {
	p1 := port / 256
	p2 := port - p1*256

	return fmt.Sprintf("Entering Passive Mode (%s,%s,%s,%s,%d,%d)", quads[0], quads[1], quads[2], quads[3], p1, p2)
}

func (p *passiveChannel) open(timeout time.Duration) (net.Conn, error) {
	if err := p.listener.SetDeadline(time.Now().Add(timeout)); err != nil {
		return nil, newNetworkError("failed to set accept deadline", err)
	}

	conn, err := p.listener.Accept()

	p.close()

	if err != nil {
		return nil, newNetworkError("passive accept failed", err)
	}

	return conn, nil
}

func (p *passiveChannel) close() {
	if p.listener != nil {
		_ = p.listener.Close()
		p.listener = nil
	}
}

// handlePASV opens a listener in the configured port range and replies with
// its address; the listener itself isn't accepted on until the next
// transfer command calls openDataChannel (spec §4.D).
func (sess *Session) handlePASV(_ string) error {
	pc, quads, err := newPassiveChannel(sess)
	if err != nil {
		sess.writeMessage(StatusActionNotTaken, fmt.Sprintf("could not listen for passive connection: %v", err))

		return nil
	}

	sess.setPending(pc)
	sess.writeMessage(StatusEnteringPASV, pasvReplyText(quads, pc.port))

	return nil
}
