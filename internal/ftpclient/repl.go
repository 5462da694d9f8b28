package ftpclient

import (
	"bufio"
	"fmt"
	"io"
	"net"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// REPL implements the interactive loop spec §4.H describes: connect, login,
// transfer-type selection, listing, get/put, disconnect, quit, help.
type REPL struct {
	in          *bufio.Scanner
	out         io.Writer
	client      *Client
	ascii       bool
	pendingUser string
}

// NewREPL builds a REPL reading commands from in and writing prompts and
// replies to out.
func NewREPL(in io.Reader, out io.Writer) *REPL {
	return &REPL{in: bufio.NewScanner(in), out: out}
}

const prompt = "FTP >> "

// Run drives the read-eval loop until quit/exit or EOF on stdin.
func (r *REPL) Run() error {
	defer func() {
		if r.client != nil {
			_ = r.client.Close()
		}
	}()

	for {
		fmt.Fprint(r.out, prompt)

		if !r.in.Scan() {
			return r.in.Err()
		}

		line := strings.TrimSpace(r.in.Text())
		if line == "" {
			continue
		}

		verb, rest, _ := strings.Cut(line, " ")

		if r.dispatch(strings.ToLower(verb), strings.TrimSpace(rest)) {
			return nil
		}
	}
}

// Feed runs one command line exactly as if the user had typed it at the
// prompt. It's how cmd/ftpc's --connect/--user/--pass convenience flags
// bootstrap a session: they replay REPL commands rather than duplicating
// the dispatch logic.
func (r *REPL) Feed(line string) error {
	verb, rest, _ := strings.Cut(strings.TrimSpace(line), " ")
	r.dispatch(strings.ToLower(verb), strings.TrimSpace(rest))

	return nil
}

// dispatch runs one command; it returns true when the loop should stop.
func (r *REPL) dispatch(verb, arg string) bool {
	switch verb {
	case "connect":
		r.cmdConnect(arg)
	case "user":
		r.cmdUser(arg)
	case "pass":
		r.cmdPass(arg)
	case "binary":
		r.setType(false)
	case "ascii":
		r.setType(true)
	case "list":
		r.cmdList()
	case "get":
		r.cmdGet(arg)
	case "put":
		r.cmdPut(arg)
	case "disconnect":
		r.cmdDisconnect()
	case "help":
		r.cmdHelp()
	case "quit", "exit":
		r.cmdDisconnect()

		return true
	default:
		fmt.Fprintf(r.out, "unknown command %q; try 'help'\n", verb)
	}

	return false
}

func (r *REPL) cmdConnect(arg string) {
	if arg == "" {
		fmt.Fprintln(r.out, "usage: connect <ip> [port]")

		return
	}

	host, portStr, found := strings.Cut(arg, " ")

	port := 21

	if found {
		p, err := strconv.Atoi(strings.TrimSpace(portStr))
		if err != nil {
			fmt.Fprintf(r.out, "bad port %q: %v\n", portStr, err)

			return
		}

		port = p
	}

	if r.client != nil {
		_ = r.client.Close()
	}

	c, err := Dial(net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		fmt.Fprintf(r.out, "connect failed: %v\n", err)

		return
	}

	r.client = c
	fmt.Fprintf(r.out, "connected to %s:%d\n", host, port)
}

func (r *REPL) cmdUser(arg string) {
	r.pendingUser = arg
	fmt.Fprintln(r.out, "user name recorded, now run pass")
}

func (r *REPL) cmdPass(arg string) {
	if r.client == nil {
		fmt.Fprintln(r.out, "not connected")

		return
	}

	pass := arg
	if pass == "" {
		p, err := readPassword(r.out)
		if err != nil {
			fmt.Fprintf(r.out, "could not read password: %v\n", err)

			return
		}

		pass = p
	}

	if err := r.client.Login(r.pendingUser, pass); err != nil {
		fmt.Fprintf(r.out, "login failed: %v\n", err)

		return
	}

	fmt.Fprintln(r.out, "login ok")
}

// readPassword reads a password from the terminal with echo disabled,
// falling back to a plain scanned line when stdin isn't a TTY (piped
// scripts, tests).
func readPassword(out io.Writer) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() {
			return "", scanner.Err()
		}

		return scanner.Text(), nil
	}

	fmt.Fprint(out, "Password: ")

	b, err := term.ReadPassword(fd)
	fmt.Fprintln(out)

	if err != nil {
		return "", err
	}

	return string(b), nil
}

func (r *REPL) setType(ascii bool) {
	if r.client == nil {
		fmt.Fprintln(r.out, "not connected")

		return
	}

	if err := r.client.SetType(ascii); err != nil {
		fmt.Fprintf(r.out, "TYPE failed: %v\n", err)

		return
	}

	r.ascii = ascii
	fmt.Fprintln(r.out, "type set")
}

func (r *REPL) cmdList() {
	if r.client == nil {
		fmt.Fprintln(r.out, "not connected")

		return
	}

	lines, err := r.client.List("")
	if err != nil {
		fmt.Fprintf(r.out, "list failed: %v\n", err)

		return
	}

	for _, line := range lines {
		fmt.Fprintln(r.out, line)
	}
}

func (r *REPL) cmdGet(arg string) {
	if r.client == nil {
		fmt.Fprintln(r.out, "not connected")

		return
	}

	remote, local, found := strings.Cut(arg, " ")
	if !found {
		local = remote
	}

	if remote == "" {
		fmt.Fprintln(r.out, "usage: get <remote> <local>")

		return
	}

	f, err := os.Create(local)
	if err != nil {
		fmt.Fprintf(r.out, "could not create %s: %v\n", local, err)

		return
	}

	defer func() { _ = f.Close() }()

	if err := r.client.Retrieve(remote, f); err != nil {
		fmt.Fprintf(r.out, "get failed: %v\n", err)

		return
	}

	fmt.Fprintf(r.out, "retrieved %s -> %s\n", remote, local)
}

func (r *REPL) cmdPut(arg string) {
	if r.client == nil {
		fmt.Fprintln(r.out, "not connected")

		return
	}

	local, remote, found := strings.Cut(arg, " ")
	if !found {
		remote = local
	}

	if local == "" {
		fmt.Fprintln(r.out, "usage: put <local> <remote>")

		return
	}

	f, err := os.Open(local)
	if err != nil {
		fmt.Fprintf(r.out, "could not open %s: %v\n", local, err)

		return
	}

	defer func() { _ = f.Close() }()

	if err := r.client.Store(remote, f); err != nil {
		fmt.Fprintf(r.out, "put failed: %v\n", err)

		return
	}

	fmt.Fprintf(r.out, "stored %s -> %s\n", local, remote)
}

func (r *REPL) cmdDisconnect() {
	if r.client == nil {
		return
	}

	_ = r.client.Quit()
	r.client = nil
}

func (r *REPL) cmdHelp() {
	fmt.Fprintln(r.out, "commands: connect <ip> [port], user <u>, pass <p>, binary, ascii,")
	fmt.Fprintln(r.out, "          list, get <remote> <local>, put <local> <remote>, disconnect, quit/exit, help")
}
