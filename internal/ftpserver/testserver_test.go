package ftpserver

import (
	"io"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
)

const (
	authUser = "user"
	authPass = "pass"
)

// newTestServer starts a Server on an ephemeral port, rooted at a fresh
// temporary directory, with a single user/pass credential. Grounded on the
// teacher's NewTestServer/NewTestServerWithDriver harness. It returns the
// server and the root directory so tests can inspect the filesystem
// directly alongside driving it over FTP.
func newTestServer(t *testing.T, settings *Settings) (*Server, string) {
	t.Helper()

	if settings == nil {
		settings = &Settings{}
	}

	if settings.ListenAddr == "" {
		settings.ListenAddr = "127.0.0.1:0"
	}

	root := t.TempDir()

	driver := NewRootedDriver(root, authUser, authPass)
	srv := NewServer(driver, settings)

	t.Cleanup(func() {
		_ = srv.Stop()
	})

	require.NoError(t, srv.Listen())

	go func() {
		if err := srv.Serve(); err != nil {
			srv.Logger.Debug("test server stopped", "err", err)
		}
	}()

	return srv, root
}

func writeTestFile(t *testing.T, root, name, content string) {
	t.Helper()

	require.NoError(t, os.WriteFile(root+"/"+name, []byte(content), 0o644))
}

func panicOnError(err error) {
	if err != nil && err != io.EOF {
		panic(err)
	}
}
