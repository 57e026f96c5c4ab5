package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

// Logs is the read side of an ObserverLogger.
type Logs interface {
	Len() int
	All() []observer.LoggedEntry
	// TakeAll returns the observed entries and forgets them.
	TakeAll() []observer.LoggedEntry
}

var _ Logs = (*observer.ObservedLogs)(nil)

// ObserverLogger keeps entries in memory so tests can assert on what the
// search reported. FailWrites makes it behave like a sample file whose
// writes have started failing.
type ObserverLogger struct {
	*ZapLogger

	mu  sync.Mutex
	err error
}

// NewObserverLogger returns an in-memory logger and its entries. An unknown
// level falls back to info, the level the search sinks write at.
func NewObserverLogger(level string) (*ObserverLogger, Logs) {
	lvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		lvl = zap.NewAtomicLevelAt(zap.InfoLevel)
	}

	core, logs := observer.New(lvl)
	return &ObserverLogger{ZapLogger: &ZapLogger{zap.New(core)}}, logs
}

// FailWrites makes Err report err from now on. Entries are still recorded.
func (l *ObserverLogger) FailWrites(err error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.err = err
}

func (l *ObserverLogger) Err() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.err
}
