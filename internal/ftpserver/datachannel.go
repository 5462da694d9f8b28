package ftpserver

import (
	"net"
	"time"
)

// dataChannel is the sum type spec §4.D's pending_data field needs: a
// session has either no pending data channel, a passive one (we listen) or
// an active one (we dial). Modeling it as an interface instead of a
// (mode, listener, dialAddr) struct with unused fields makes the illegal
// states spec §8 calls out - "both a listener and a dial target queued at
// once" - unrepresentable rather than merely checked for.
type dataChannel interface {
	// open blocks until the data connection is established or timeout
	// elapses, then clears itself: a dataChannel is single-use.
	open(timeout time.Duration) (net.Conn, error)

	// close releases any resources (listener, dialer) without completing
	// a transfer. Safe to call on an already-used or already-closed
	// channel.
	close()
}
