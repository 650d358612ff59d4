package pipeline

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Observer receives progress events. Implementations must not block: the
// pipeline never waits on consumers and delivery is at-most-once.
type Observer interface {
	OnProgress(ev ProgressEvent)
}

// NoOpObserver implements Observer but does nothing. Useful as a default
// when no progress reporting is needed.
type NoOpObserver struct{}

func (NoOpObserver) OnProgress(ProgressEvent) {}

// LogObserver logs progress events using slog.
type LogObserver struct {
	logger *slog.Logger
	level  slog.Level
}

// NewLogObserver creates a new log-based progress observer.
func NewLogObserver(logger *slog.Logger, level slog.Level) *LogObserver {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogObserver{logger: logger, level: level}
}

func (l *LogObserver) OnProgress(ev ProgressEvent) {
	l.logger.Log(nil, l.level, "Scan progress",
		"scan_id", ev.ScanID,
		"phase", ev.Phase,
		"operation", ev.Operation,
		"percentage", ev.Percentage,
		"elapsed", ev.Elapsed,
		"estimated_remaining", ev.EstimatedRemaining,
	)
}

// ConsoleObserver prints one progress line per event.
type ConsoleObserver struct {
	writer io.Writer
	mutex  sync.Mutex
}

// NewConsoleObserver creates a console progress observer. A nil writer
// defaults to stderr.
func NewConsoleObserver(writer io.Writer) *ConsoleObserver {
	if writer == nil {
		writer = os.Stderr
	}
	return &ConsoleObserver{writer: writer}
}

func (c *ConsoleObserver) OnProgress(ev ProgressEvent) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	_, _ = fmt.Fprintf(c.writer, "[%3d%%] %-20s %s\n", ev.Percentage, ev.Phase, ev.Operation)
}

// MultiObserver fans events out to several observers.
type MultiObserver struct {
	observers []Observer
}

// NewMultiObserver creates an observer that reports to all given observers.
func NewMultiObserver(observers ...Observer) *MultiObserver {
	return &MultiObserver{observers: observers}
}

// Add registers another observer.
func (m *MultiObserver) Add(o Observer) {
	m.observers = append(m.observers, o)
}

func (m *MultiObserver) OnProgress(ev ProgressEvent) {
	for _, o := range m.observers {
		o.OnProgress(ev)
	}
}

// ChannelObserver forwards events into a bounded channel with a
// non-blocking send: events are dropped when no one is draining, matching
// the best-effort delivery contract.
type ChannelObserver struct {
	ch chan ProgressEvent
}

// NewChannelObserver creates a channel-backed observer with the given
// buffer size.
func NewChannelObserver(buffer int) *ChannelObserver {
	if buffer < 1 {
		buffer = 16
	}
	return &ChannelObserver{ch: make(chan ProgressEvent, buffer)}
}

// Events returns the receive side of the channel.
func (c *ChannelObserver) Events() <-chan ProgressEvent { return c.ch }

func (c *ChannelObserver) OnProgress(ev ProgressEvent) {
	select {
	case c.ch <- ev:
	default:
	}
}
