package ftpserver

import (
	"errors"

	"github.com/spf13/afero"
)

// ErrBadCredentials is returned by StaticAuthenticator when the user/pass
// pair doesn't match.
var ErrBadCredentials = errors.New("bad username or password")

// StaticAuthenticator grants AccessFull to a single hard-coded user/pass
// pair and rejects everyone else. Spec §6 hard-codes user "user", pass
// "pass"; this is a placeholder for an injected authenticator (§9 note 6),
// not a design a production deployment should keep.
type StaticAuthenticator struct {
	User string
	Pass string
}

// Authenticate implements Authenticator.
func (a StaticAuthenticator) Authenticate(user, pass string) (AccessLevel, error) {
	if user == a.User && pass == a.Pass {
		return AccessFull, nil
	}

	return AccessUnknown, ErrBadCredentials
}

// RootedDriver is the default Driver: a single static credential guarding a
// filesystem subtree rooted at Root via afero.NewBasePathFs.
type RootedDriver struct {
	Authenticator
	fs afero.Fs
}

// NewRootedDriver anchors every resolved path under root using afero's
// base-path filesystem, and authenticates with a single hard-coded
// user/pass pair.
func NewRootedDriver(root, user, pass string) *RootedDriver {
	return &RootedDriver{
		Authenticator: StaticAuthenticator{User: user, Pass: pass},
		fs:            afero.NewBasePathFs(afero.NewOsFs(), root),
	}
}

// FS implements Driver.
func (d *RootedDriver) FS() afero.Fs {
	return d.fs
}
