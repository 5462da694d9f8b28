// Command ftpd runs the FTP server against a rooted directory tree.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/rootftp/ftpd/internal/ftpserver"
)

var (
	listenAddr        string
	rootDir           string
	poolSize          int
	idleTimeout       time.Duration
	connectionTimeout time.Duration
	pasvPortStart     int
	pasvPortEnd       int
	publicHost        string
	authUser          string
	authPass          string
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ftpd",
		Short: "A minimal FTP server rooted at a single directory",
		RunE:  runServer,
	}

	flags := cmd.Flags()
	flags.StringVar(&listenAddr, "listen", "0.0.0.0:21", "control-channel listen address")
	flags.StringVar(&rootDir, "root", ".", "directory exposed to clients")
	flags.IntVar(&poolSize, "pool-size", 16, "maximum number of concurrent sessions")
	flags.DurationVar(&idleTimeout, "idle-timeout", 5*time.Minute, "control connection idle timeout")
	flags.DurationVar(&connectionTimeout, "connection-timeout", 30*time.Second, "PASV accept / PORT dial timeout")
	flags.IntVar(&pasvPortStart, "pasv-port-min", 60001, "lowest port tried for PASV listeners")
	flags.IntVar(&pasvPortEnd, "pasv-port-max", 65000, "highest port tried for PASV listeners")
	flags.StringVar(&publicHost, "public-host", "", "IPv4 advertised in PASV replies (default: control socket's local address)")
	flags.StringVar(&authUser, "user", "user", "the single account's user name")
	flags.StringVar(&authPass, "pass", "pass", "the single account's password")

	return cmd
}

func runServer(_ *cobra.Command, _ []string) error {
	root, err := filepath.Abs(rootDir)
	if err != nil {
		return fmt.Errorf("resolving root directory: %w", err)
	}

	driver := ftpserver.NewRootedDriver(root, authUser, authPass)

	settings := &ftpserver.Settings{
		ListenAddr:        listenAddr,
		PoolSize:          poolSize,
		IdleTimeout:       idleTimeout,
		ConnectionTimeout: connectionTimeout,
		PassivePortRange:  ftpserver.PortRange{Start: pasvPortStart, End: pasvPortEnd},
		PublicHost:        publicHost,
	}

	srv := ftpserver.NewServer(driver, settings)
	srv.Logger = ftpserver.NewDefaultLogger()

	if err := srv.ListenAndServe(); err != nil {
		return fmt.Errorf("serving: %w", err)
	}

	return nil
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
