package ftpserver

import (
	"fmt"
	"os"

	gklog "github.com/go-kit/kit/log"
	gklevel "github.com/go-kit/kit/log/level"

	log "github.com/fclairamb/go-log"
)

// gokitLogger adapts go-kit/kit's leveled logger to the go-log.Logger
// interface the pool and the session log through. This is the same pairing
// the teacher wires in its own test harness (go-kit backend behind go-log's
// interface), consolidated here instead of duplicated across a vendored
// internal log package.
type gokitLogger struct {
	logger gklog.Logger
}

// NewGoKitLogger builds a go-log.Logger backed by a go-kit logfmt logger.
func NewGoKitLogger(logger gklog.Logger) log.Logger {
	return &gokitLogger{logger: logger}
}

// NewDefaultLogger builds the logger cmd/ftpd uses when none is supplied:
// logfmt to stdout, UTC timestamps, caller included.
func NewDefaultLogger() log.Logger {
	base := gklog.NewLogfmtLogger(gklog.NewSyncWriter(os.Stdout))

	return NewGoKitLogger(base).With("ts", gklog.DefaultTimestampUTC, "caller", gklog.Caller(5))
}

func (l *gokitLogger) log(level gklog.Logger, event string, keyvals ...interface{}) {
	kv := append([]interface{}{"event", event}, keyvals...)
	if err := level.Log(kv...); err != nil {
		fmt.Fprintln(os.Stderr, "logging error:", err)
	}
}

func (l *gokitLogger) Debug(event string, keyvals ...interface{}) {
	l.log(gklevel.Debug(l.logger), event, keyvals...)
}

func (l *gokitLogger) Info(event string, keyvals ...interface{}) {
	l.log(gklevel.Info(l.logger), event, keyvals...)
}

func (l *gokitLogger) Warn(event string, keyvals ...interface{}) {
	l.log(gklevel.Warn(l.logger), event, keyvals...)
}

func (l *gokitLogger) Error(event string, err error, keyvals ...interface{}) {
	kv := append([]interface{}{"err", err}, keyvals...)
	l.log(gklevel.Error(l.logger), event, kv...)
}

func (l *gokitLogger) With(keyvals ...interface{}) log.Logger {
	return NewGoKitLogger(gklog.With(l.logger, keyvals...))
}
