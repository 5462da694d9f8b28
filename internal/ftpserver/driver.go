// Package ftpserver implements the server-side half of the protocol: the
// per-connection session state machine, the data-channel broker, and the
// bounded connection pool that runs them.
package ftpserver

import (
	"time"

	"github.com/spf13/afero"
)

// AccessLevel is the authentication/authorization tier of a session. It is
// ordered: a handler that requires "at least ReadOnly" compares with >=.
type AccessLevel int

const (
	// AccessUnknown is the level of a session that has not sent USER yet.
	AccessUnknown AccessLevel = iota
	// AccessNotLoggedIn is the level after USER but before a successful PASS.
	AccessNotLoggedIn
	// AccessReadOnly can read the tree but not STOR.
	AccessReadOnly
	// AccessCreateNew can create new files but has restrictions a richer
	// driver might define; treated the same as Full by this server.
	AccessCreateNew
	// AccessFull is unrestricted: the level the default single-credential
	// Authenticator grants.
	AccessFull
)

// LoggedIn reports whether PASS succeeded, at any privilege tier.
func (a AccessLevel) LoggedIn() bool {
	return a >= AccessReadOnly
}

// CanStore reports whether the session may STOR (ReadOnly may not).
func (a AccessLevel) CanStore() bool {
	return a >= AccessCreateNew
}

// Authenticator validates a USER/PASS pair and grants an AccessLevel. It is
// the extension point spec §9 design note 6 asks for: the baseline server
// wires in a single hard-coded credential (see StaticAuthenticator), but
// nothing in the session or the pool depends on that being the only
// implementation.
type Authenticator interface {
	Authenticate(user, pass string) (AccessLevel, error)
}

// Driver is what NewServer needs from its caller: a way to authenticate
// clients and the filesystem subtree to expose. The filesystem is shared,
// process-wide, read-write state (§3 ServerRoot; §5 "concurrent writes to
// the same path are undefined").
type Driver interface {
	Authenticator

	// FS returns the root-anchored view every session resolves paths
	// against. Implementations typically wrap afero.NewBasePathFs.
	FS() afero.Fs
}

// PortRange is an inclusive range of TCP ports tried for PASV listeners.
type PortRange struct {
	Start int
	End   int
}

// Settings holds the process-wide configuration of the server. Unlike the
// teacher library, there is no settings file: values are supplied by the
// caller (cmd/ftpd parses them from flags via cobra/pflag).
type Settings struct {
	// ListenAddr is the control-channel listen address, e.g. "0.0.0.0:21".
	ListenAddr string

	// PoolSize bounds the number of sessions served concurrently (§4.G).
	// Zero means the default of 16.
	PoolSize int

	// IdleTimeout is the maximum time the control loop will block on a
	// single command read before the session is dropped (§5 cancellation).
	// Zero means the default of 5 minutes.
	IdleTimeout time.Duration

	// ConnectionTimeout bounds PASV accept waits and PORT dial attempts.
	// Zero means the default of 30 seconds, the value spec §5 suggests.
	ConnectionTimeout time.Duration

	// PassivePortRange bounds the ports tried for PASV listeners. The zero
	// value means the default range from spec §4.C, [60001, 65000].
	PassivePortRange PortRange

	// PublicHost, if set, is advertised in PASV replies instead of the
	// control socket's local address (useful behind NAT).
	PublicHost string

	// Banner is the text sent with the 220 greeting.
	Banner string
}

const (
	defaultPoolSize          = 16
	defaultIdleTimeout       = 5 * time.Minute
	defaultConnectionTimeout = 30 * time.Second
	defaultPassivePortStart  = 60001
	defaultPassivePortEnd    = 65000
	defaultBanner            = "FTP Server Ready"
)

func (s *Settings) fillDefaults() {
	if s.PoolSize <= 0 {
		s.PoolSize = defaultPoolSize
	}

	if s.IdleTimeout <= 0 {
		s.IdleTimeout = defaultIdleTimeout
	}

	if s.ConnectionTimeout <= 0 {
		s.ConnectionTimeout = defaultConnectionTimeout
	}

	if s.PassivePortRange.Start == 0 && s.PassivePortRange.End == 0 {
		s.PassivePortRange = PortRange{Start: defaultPassivePortStart, End: defaultPassivePortEnd}
	}

	if s.Banner == "" {
		s.Banner = defaultBanner
	}

	if s.ListenAddr == "" {
		s.ListenAddr = "0.0.0.0:21"
	}
}
