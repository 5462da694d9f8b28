// Package ftpclient implements the companion CLI client's protocol half:
// dialing the control channel, authenticating, and negotiating PASV data
// channels for LIST/RETR/STOR. Grounded on the server's own transfer_pasv.go
// and session.go for the wire format both sides agree on.
package ftpclient

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DialTimeout bounds the initial control-channel connection attempt.
const DialTimeout = 10 * time.Second

// Reply is one parsed control-channel response line.
type Reply struct {
	Code    int
	Message string
}

// Client drives one control connection. It is not safe for concurrent use
// from multiple goroutines, matching the single-threaded REPL that owns it.
type Client struct {
	conn   net.Conn
	reader *bufio.Reader
}

// errNotConnected is returned by any operation on a Client that has no
// control connection (a nil Client, or one not obtained from Dial).
var errNotConnected = errors.New("not connected")

// Dial opens the control channel to addr ("host:port") and reads the
// greeting. Per spec §4.H, response framing on the client side is
// simplified: read until the first CRLF is observed.
func Dial(addr string) (*Client, error) {
	conn, err := net.DialTimeout("tcp", addr, DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}

	c := &Client{conn: conn, reader: bufio.NewReader(conn)}

	if _, err := c.readReply(); err != nil {
		_ = conn.Close()

		return nil, fmt.Errorf("reading greeting: %w", err)
	}

	return c, nil
}

// Close closes the control connection.
func (c *Client) Close() error {
	if c == nil || c.conn == nil {
		return nil
	}

	return c.conn.Close()
}

// sendCommand writes one command line and returns the parsed reply.
func (c *Client) sendCommand(verb, arg string) (Reply, error) {
	if c == nil || c.conn == nil {
		return Reply{}, errNotConnected
	}

	line := verb
	if arg != "" {
		line = verb + " " + arg
	}

	if _, err := fmt.Fprintf(c.conn, "%s\r\n", line); err != nil {
		return Reply{}, fmt.Errorf("sending %s: %w", verb, err)
	}

	return c.readReply()
}

// readReply reads a single CRLF-terminated line and parses its leading
// three-digit code. Multi-line dash-continuation replies aren't unwrapped:
// the simplified client only ever issues commands that reply on one line.
func (c *Client) readReply() (Reply, error) {
	line, err := c.reader.ReadString('\n')
	if err != nil {
		return Reply{}, err
	}

	line = strings.TrimRight(line, "\r\n")
	if len(line) < 3 {
		return Reply{}, fmt.Errorf("malformed reply: %q", line)
	}

	code, err := strconv.Atoi(line[:3])
	if err != nil {
		return Reply{}, fmt.Errorf("malformed reply code: %q", line)
	}

	message := line
	if len(line) > 4 {
		message = line[4:]
	}

	return Reply{Code: code, Message: message}, nil
}

// Login sends USER then PASS and returns an error unless the server reports
// 230.
func (c *Client) Login(user, pass string) error {
	if _, err := c.sendCommand("USER", user); err != nil {
		return err
	}

	reply, err := c.sendCommand("PASS", pass)
	if err != nil {
		return err
	}

	if reply.Code != 230 {
		return fmt.Errorf("login failed: %d %s", reply.Code, reply.Message)
	}

	return nil
}

// SetType sends TYPE A or TYPE I.
func (c *Client) SetType(ascii bool) error {
	arg := "I"
	if ascii {
		arg = "A"
	}

	reply, err := c.sendCommand("TYPE", arg)
	if err != nil {
		return err
	}

	if reply.Code != 200 {
		return fmt.Errorf("TYPE %s rejected: %d %s", arg, reply.Code, reply.Message)
	}

	return nil
}

var pasvReplyRegex = regexp.MustCompile(`\((\d+),(\d+),(\d+),(\d+),(\d+),(\d+)\)`)

// openPassive sends PASV, parses the advertised endpoint, and dials it.
// The port is decoded big-endian (p1*256+p2) per RFC 959 — the same
// convention the server's pasvReplyText encodes with, unlike the
// little-endian original this client's design corrects.
func (c *Client) openPassive() (net.Conn, error) {
	reply, err := c.sendCommand("PASV", "")
	if err != nil {
		return nil, err
	}

	if reply.Code != 227 {
		return nil, fmt.Errorf("PASV rejected: %d %s", reply.Code, reply.Message)
	}

	m := pasvReplyRegex.FindStringSubmatch(reply.Message)
	if m == nil {
		return nil, fmt.Errorf("could not parse PASV reply: %q", reply.Message)
	}

	ip := strings.Join(m[1:5], ".")

	p1, _ := strconv.Atoi(m[5])
	p2, _ := strconv.Atoi(m[6])
	port := p1*256 + p2

	dataConn, err := net.DialTimeout("tcp", net.JoinHostPort(ip, strconv.Itoa(port)), DialTimeout)
	if err != nil {
		return nil, fmt.Errorf("dialing data channel %s:%d: %w", ip, port, err)
	}

	return dataConn, nil
}

// List opens a data channel and returns the raw LIST output, one entry per
// line.
func (c *Client) List(dir string) ([]string, error) {
	dataConn, err := c.openPassive()
	if err != nil {
		return nil, err
	}

	defer func() { _ = dataConn.Close() }()

	reply, err := c.sendCommand("LIST", dir)
	if err != nil {
		return nil, err
	}

	if reply.Code != 150 {
		return nil, fmt.Errorf("LIST rejected: %d %s", reply.Code, reply.Message)
	}

	body, err := io.ReadAll(dataConn)
	if err != nil {
		return nil, fmt.Errorf("reading listing: %w", err)
	}

	final, err := c.readReply()
	if err != nil {
		return nil, err
	}

	if final.Code != 226 {
		return nil, fmt.Errorf("LIST failed: %d %s", final.Code, final.Message)
	}

	lines := strings.Split(strings.TrimRight(string(body), "\r\n"), "\r\n")
	if len(lines) == 1 && lines[0] == "" {
		return nil, nil
	}

	return lines, nil
}

// Retrieve downloads remote into w, streaming bytes verbatim (spec §4.F: no
// line-ending translation regardless of TYPE).
func (c *Client) Retrieve(remote string, w io.Writer) error {
	dataConn, err := c.openPassive()
	if err != nil {
		return err
	}

	defer func() { _ = dataConn.Close() }()

	reply, err := c.sendCommand("RETR", remote)
	if err != nil {
		return err
	}

	if reply.Code != 150 {
		return fmt.Errorf("RETR rejected: %d %s", reply.Code, reply.Message)
	}

	if _, err := io.Copy(w, dataConn); err != nil {
		return fmt.Errorf("downloading %s: %w", remote, err)
	}

	final, err := c.readReply()
	if err != nil {
		return err
	}

	if final.Code != 226 {
		return fmt.Errorf("RETR failed: %d %s", final.Code, final.Message)
	}

	return nil
}

// Store uploads the contents of r to remote.
func (c *Client) Store(remote string, r io.Reader) error {
	dataConn, err := c.openPassive()
	if err != nil {
		return err
	}

	defer func() { _ = dataConn.Close() }()

	reply, err := c.sendCommand("STOR", remote)
	if err != nil {
		return err
	}

	if reply.Code != 150 {
		return fmt.Errorf("STOR rejected: %d %s", reply.Code, reply.Message)
	}

	if _, err := io.Copy(dataConn, r); err != nil {
		return fmt.Errorf("uploading %s: %w", remote, err)
	}

	if err := dataConn.Close(); err != nil {
		return fmt.Errorf("closing data channel after upload: %w", err)
	}

	final, err := c.readReply()
	if err != nil {
		return err
	}

	if final.Code != 226 {
		return fmt.Errorf("STOR failed: %d %s", final.Code, final.Message)
	}

	return nil
}

// Quit sends QUIT and closes the connection.
func (c *Client) Quit() error {
	_, err := c.sendCommand("QUIT", "")
	closeErr := c.Close()

	if err != nil {
		return err
	}

	return closeErr
}
