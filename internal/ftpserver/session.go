package ftpserver

import (
	"bufio"
	"errors"
	"fmt"
	"net"
	"strings"
	"sync"
	"time"

	log "github.com/fclairamb/go-log"
)

// TransferType is the representation asked for with TYPE. Only the two
// kinds spec §4.E cares about are modeled; both stream bytes identically,
// the distinction exists only because real clients send TYPE A before a
// text-mode LIST.
type TransferType int

const (
	TransferTypeASCII TransferType = iota
	TransferTypeImage
)

// Session is one client's state machine: the access level it has reached,
// its current directory, and at most one pending or open data channel.
// Grounded on the teacher's clientHandler, trimmed to the fields the
// simplified protocol needs and renamed to match the domain vocabulary used
// throughout this package.
type Session struct {
	id          uint32
	server      *Server
	conn        net.Conn
	reader      *bufio.Reader
	writer      *bufio.Writer
	logger      log.Logger
	connectedAt time.Time

	stateMu      sync.Mutex
	access       AccessLevel
	user         string
	currentDir   string
	transferType TransferType
	lastCommand  string

	peerIP string

	transferMu sync.Mutex
	pending    dataChannel
}

func (s *Server) newSession(conn net.Conn, id uint32) *Session {
	peerIP := conn.RemoteAddr().String()
	if tcpAddr, ok := conn.RemoteAddr().(*net.TCPAddr); ok {
		peerIP = tcpAddr.IP.String()
	}

	return &Session{
		id:          id,
		server:      s,
		conn:        conn,
		reader:      bufio.NewReader(conn),
		writer:      bufio.NewWriter(conn),
		logger:      s.Logger.With("clientId", id),
		connectedAt: time.Now().UTC(),
		access:      AccessUnknown,
		currentDir:  "/",
		peerIP:      peerIP,
	}
}

// run reads and dispatches commands until reading the control connection
// fails (closed, or idle past IdleTimeout) or the client sends QUIT.
func (sess *Session) run() {
	defer sess.cleanup()

	sess.writeMessage(StatusServiceReady, sess.server.settings.Banner)

	for {
		if sess.server.settings.IdleTimeout > 0 {
			if err := sess.conn.SetReadDeadline(time.Now().Add(sess.server.settings.IdleTimeout)); err != nil {
				sess.logger.Warn("failed to set read deadline", "err", err)
			}
		}

		line, err := sess.reader.ReadString('\n')
		if err != nil {
			sess.handleReadError(err)

			return
		}

		if !sess.dispatch(line) {
			return
		}
	}
}

func (sess *Session) handleReadError(err error) {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		sess.logger.Info("idle timeout, closing control connection", "err", err)
		sess.writeMessage(StatusActionNotTaken, "command timeout: closing control connection")

		return
	}

	sess.logger.Debug("control connection closed", "err", err)
}

// dispatch parses and executes one line. It returns false when the session
// loop should stop, which is only after QUIT.
func (sess *Session) dispatch(line string) bool {
	verb, param := parseCommandLine(line)
	cmd := strings.ToUpper(verb)

	desc, ok := commandsMap[cmd]
	if !ok {
		sess.writeMessage(StatusCommandNotImplemented, fmt.Sprintf("unknown command %q", verb))

		return true
	}

	sess.setLastCommand(cmd)

	if !desc.Open && !sess.accessLevel().LoggedIn() {
		sess.writeMessage(StatusNotLoggedIn, "Please login with USER and PASS")

		return true
	}

	if err := desc.Fn(sess, param); err != nil {
		sess.writeMessage(StatusSyntaxErrorNotRecognised, fmt.Sprintf("error: %v", err))
	}

	return cmd != "QUIT"
}

func (sess *Session) cleanup() {
	sess.closePending()
	_ = sess.conn.Close()
}

func (sess *Session) accessLevel() AccessLevel {
	sess.stateMu.Lock()
	defer sess.stateMu.Unlock()

	return sess.access
}

func (sess *Session) setAccessLevel(a AccessLevel) {
	sess.stateMu.Lock()
	defer sess.stateMu.Unlock()

	sess.access = a
}

func (sess *Session) setUser(user string) {
	sess.stateMu.Lock()
	defer sess.stateMu.Unlock()

	sess.user = user
}

func (sess *Session) getUser() string {
	sess.stateMu.Lock()
	defer sess.stateMu.Unlock()

	return sess.user
}

func (sess *Session) dir() string {
	sess.stateMu.Lock()
	defer sess.stateMu.Unlock()

	return sess.currentDir
}

func (sess *Session) setDir(dir string) {
	sess.stateMu.Lock()
	defer sess.stateMu.Unlock()

	sess.currentDir = dir
}

func (sess *Session) setTransferType(t TransferType) {
	sess.stateMu.Lock()
	defer sess.stateMu.Unlock()

	sess.transferType = t
}

func (sess *Session) setLastCommand(cmd string) {
	sess.stateMu.Lock()
	defer sess.stateMu.Unlock()

	sess.lastCommand = cmd
}

// setPending installs the session's single pending/open data channel,
// closing and discarding whatever was there before: spec §4.D allows at
// most one at a time, and a fresh PASV/PORT simply supersedes the last one.
func (sess *Session) setPending(dc dataChannel) {
	sess.transferMu.Lock()
	defer sess.transferMu.Unlock()

	if sess.pending != nil {
		sess.pending.close()
	}

	sess.pending = dc
}

func (sess *Session) closePending() {
	sess.transferMu.Lock()
	defer sess.transferMu.Unlock()

	if sess.pending != nil {
		sess.pending.close()
		sess.pending = nil
	}
}

// openDataChannel consumes the pending data channel: one PASV/PORT buys
// exactly one data connection (spec §4.D).
func (sess *Session) openDataChannel() (net.Conn, error) {
	sess.transferMu.Lock()
	dc := sess.pending
	sess.pending = nil
	sess.transferMu.Unlock()

	if dc == nil {
		return nil, errNoDataChannel
	}

	conn, err := dc.open(sess.server.settings.ConnectionTimeout)
	if err != nil {
		return nil, err
	}

	return conn, nil
}

// errNoDataChannel is returned when a transfer command runs without a
// prior successful PASV or PORT.
var errNoDataChannel = fmt.Errorf("no data channel: send PASV or PORT first")

func (sess *Session) writeLine(line string) {
	if _, err := sess.writer.WriteString(line + "\r\n"); err != nil {
		sess.logger.Warn("couldn't write line", "err", err)

		return
	}

	if err := sess.writer.Flush(); err != nil {
		sess.logger.Warn("couldn't flush line", "err", err)
	}
}

// writeMessage emits a (possibly multi-line) reply in RFC 959's
// dash-continuation format.
func (sess *Session) writeMessage(code int, message string) {
	lines := strings.Split(message, "\n")

	for i, line := range lines {
		if i < len(lines)-1 {
			sess.writeLine(fmt.Sprintf("%d-%s", code, line))
		} else {
			sess.writeLine(fmt.Sprintf("%d %s", code, line))
		}
	}
}

// parseCommandLine splits a raw control-channel line into its verb and the
// remainder of the line, trimming the trailing CRLF.
func parseCommandLine(line string) (string, string) {
	trimmed := strings.TrimRight(line, "\r\n")

	verb, param, found := strings.Cut(trimmed, " ")
	if !found {
		return verb, ""
	}

	return verb, param
}
