// Command ftpc is the interactive CLI client described in spec §4.H.
package main

import (
	"fmt"
	"net"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/rootftp/ftpd/internal/ftpclient"
)

var (
	connectAddr string
	connectPort int
	initialUser string
	initialPass string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ftpc",
		Short: "An interactive FTP client",
		RunE:  runClient,
	}

	flags := cmd.Flags()
	flags.StringVar(&connectAddr, "connect", "", "host to connect to before entering the prompt")
	flags.IntVar(&connectPort, "port", 21, "port to use with --connect")
	flags.StringVar(&initialUser, "user", "", "user name to log in with after --connect")
	flags.StringVar(&initialPass, "pass", "", "password to log in with after --connect (prompted if omitted)")

	return cmd
}

func runClient(_ *cobra.Command, _ []string) error {
	repl := ftpclient.NewREPL(os.Stdin, os.Stdout)

	if connectAddr != "" {
		if err := bootstrap(repl); err != nil {
			return err
		}
	}

	return repl.Run()
}

// bootstrap drives the same connect/user/pass commands a user would type,
// so --connect/--user/--pass are pure convenience over the REPL, not a
// separate code path.
func bootstrap(repl *ftpclient.REPL) error {
	addr := net.JoinHostPort(connectAddr, strconv.Itoa(connectPort))

	fmt.Fprintf(os.Stdout, "connecting to %s...\n", addr)

	if err := repl.Feed("connect " + connectAddr + " " + strconv.Itoa(connectPort)); err != nil {
		return err
	}

	if initialUser != "" {
		if err := repl.Feed("user " + initialUser); err != nil {
			return err
		}

		if err := repl.Feed("pass " + initialPass); err != nil {
			return err
		}
	}

	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
