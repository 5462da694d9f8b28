package ftpserver

import (
	"syscall"

	"golang.org/x/sys/windows"
)

// Control is the net.Dialer.Control used by activeChannel.open (transfer_active.go)
// when PORT dials a client back. SO_REUSEPORT has no Windows equivalent, so only
// SO_REUSEADDR is set here; see control_unix.go for the POSIX pair.
func Control(network, address string, c syscall.RawConn) error {
	var errSetOpts error

	err := c.Control(func(fd uintptr) {
		errSetOpts = windows.SetsockoptInt(windows.Handle(fd), windows.SOL_SOCKET, windows.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}

	return errSetOpts
}
