package ftpserver

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	log "github.com/fclairamb/go-log"
	lognoop "github.com/fclairamb/go-log/noop"
)

// ErrNotListening is returned by Stop when the server never listened.
var ErrNotListening = errors.New("we aren't listening")

// Server accepts control connections and runs one Session per client inside
// a bounded worker pool (spec §4.G). It intentionally keeps no more state
// than that: sessions own everything else.
type Server struct {
	Logger        log.Logger
	settings      *Settings
	listener      net.Listener
	driver        Driver
	pool          *workerPool
	clientCounter uint32
}

// NewServer creates a Server bound to driver. Call Listen (or
// ListenAndServe) to start accepting connections.
func NewServer(driver Driver, settings *Settings) *Server {
	if settings == nil {
		settings = &Settings{}
	}

	settings.fillDefaults()

	return &Server{
		Logger:   lognoop.NewNoOpLogger(),
		settings: settings,
		driver:   driver,
		pool:     newWorkerPool(settings.PoolSize),
	}
}

// Listen opens the control-channel listener. It is not a blocking call.
func (s *Server) Listen() error {
	listener, err := net.Listen("tcp", s.settings.ListenAddr)
	if err != nil {
		s.Logger.Error("cannot listen on control port", err, "listenAddr", s.settings.ListenAddr)

		return newNetworkError("cannot listen on control port", err)
	}

	s.listener = listener
	s.Logger.Info("listening", "address", s.listener.Addr())

	return nil
}

// Serve accepts and processes incoming clients until the listener is closed.
func (s *Server) Serve() error {
	var tempDelay time.Duration

	for {
		conn, err := s.listener.Accept()
		if err != nil {
			if stop, finalErr := s.handleAcceptError(err, &tempDelay); stop {
				return finalErr
			}

			continue
		}

		tempDelay = 0

		s.clientArrival(conn)
	}
}

// handleAcceptError classifies an Accept error: transient ones are retried
// with exponential backoff (capped at 1s), a closed listener stops Serve
// cleanly, anything else is fatal for the accept loop.
func (s *Server) handleAcceptError(err error, tempDelay *time.Duration) (bool, error) {
	var errOp *net.OpError
	if errors.As(err, &errOp) && errOp.Err.Error() == "use of closed network connection" {
		s.listener = nil

		return true, nil
	}

	var ne net.Error
	if errors.As(err, &ne) && ne.Temporary() { //nolint:staticcheck
		if *tempDelay == 0 {
			*tempDelay = 5 * time.Millisecond
		} else {
			*tempDelay *= 2
		}

		if max := 1 * time.Second; *tempDelay > max {
			*tempDelay = max
		}

		s.Logger.Warn("accept error, retrying", "err", err, "delay", *tempDelay)
		time.Sleep(*tempDelay)

		return false, nil
	}

	s.Logger.Error("listener accept error", err)

	return true, newNetworkError("listener accept error", err)
}

// ListenAndServe chains Listen and Serve, like net/http.
func (s *Server) ListenAndServe() error {
	if err := s.Listen(); err != nil {
		return err
	}

	s.Logger.Info("starting")

	return s.Serve()
}

// Addr returns the listening address, or "" if not listening.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}

	return s.listener.Addr().String()
}

// Stop closes the listener, causing Serve to return. In-flight sessions are
// not drained (spec §1 Non-goals: no graceful draining on shutdown); they
// keep running until their own control connection closes.
func (s *Server) Stop() error {
	if s.listener == nil {
		return ErrNotListening
	}

	if err := s.listener.Close(); err != nil {
		return newNetworkError("couldn't close listener", err)
	}

	return nil
}

// clientArrival hands one accepted connection to the worker pool. Acquiring
// a pool slot can block: that's the bounding mechanism from spec §4.G ("new
// accepts queue until a worker frees up"), backed by the kernel's accept
// backlog rather than a second queue of our own.
func (s *Server) clientArrival(conn net.Conn) {
	s.pool.acquire()

	id := atomic.AddUint32(&s.clientCounter, 1)
	sess := s.newSession(conn, id)

	go func() {
		defer s.pool.release()
		defer s.recoverSessionPanic(sess)

		sess.run()
	}()
}

// recoverSessionPanic isolates a single session's panic so it can never
// bring down the acceptor or any other session (spec §4.G failure
// semantics).
func (s *Server) recoverSessionPanic(sess *Session) {
	if r := recover(); r != nil {
		s.Logger.Error("session panic recovered", fmt.Errorf("%v", r), "clientId", sess.id)

		_ = sess.conn.Close()
	}
}
