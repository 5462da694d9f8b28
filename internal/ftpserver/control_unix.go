//go:build linux || freebsd || darwin || aix || dragonfly || netbsd || openbsd
// +build linux freebsd darwin aix dragonfly netbsd openbsd

package ftpserver

import (
	"fmt"
	"syscall"

	"golang.org/x/sys/unix"
)

// Control is the net.Dialer.Control used by activeChannel.open (transfer_active.go)
// when PORT dials a client back: it sets SO_REUSEADDR and SO_REUSEPORT on the
// outbound socket. The dialer names no local address, so the kernel still picks
// the local port.
func Control(_, _ string, c syscall.RawConn) error {
	var errSetOpts error

	err := c.Control(func(unixFd uintptr) {
		errSetOpts = unix.SetsockoptInt(int(unixFd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
		if errSetOpts != nil {
			return
		}

		errSetOpts = unix.SetsockoptInt(int(unixFd), unix.SOL_SOCKET, unix.SO_REUSEPORT, 1)
		if errSetOpts != nil {
			return
		}
	})
	if err != nil {
		return fmt.Errorf("unable to set control options: %w", err)
	}

	if errSetOpts != nil {
		errSetOpts = fmt.Errorf("unable to set control options: %w", errSetOpts)
	}

	return errSetOpts
}
