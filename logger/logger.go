// Package logger is the server's file-backed event sink. Connection handlers
// produce events onto a queue; a single consumer goroutine appends them to
// the log file. Delivery is best-effort: the request path never blocks on
// logging.
package logger

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

type eventKind uint8

const (
	eventInfo eventKind = iota
	eventError
	eventShutdown
)

type event struct {
	kind eventKind
	msg  string
}

const queueDepth = 256

// Logger owns the log file and the consumer goroutine draining the queue.
type Logger struct {
	events chan event
	done   chan struct{}
}

// Start truncates the file at path and spawns the consumer. The file
// receives append-only lines of the form "[timestamp] LEVEL: message".
func Start(path string) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %w", path, err)
	}

	l := &Logger{
		events: make(chan event, queueDepth),
		done:   make(chan struct{}),
	}

	go func() {
		defer close(l.done)
		defer f.Close()

		for ev := range l.events {
			if ev.kind == eventShutdown {
				return
			}
			level := "INFO"
			if ev.kind == eventError {
				level = "ERROR"
			}
			line := fmt.Sprintf("[%s] %s: %s\n", time.Now().Format(time.RFC3339), level, ev.msg)
			if _, err := f.WriteString(line); err != nil {
				log.Errorf("writing log line: %s", err)
			}
		}
	}()

	return l, nil
}

func (l *Logger) Info(format string, args ...any) {
	l.send(event{kind: eventInfo, msg: fmt.Sprintf(format, args...)})
}

func (l *Logger) Error(format string, args ...any) {
	l.send(event{kind: eventError, msg: fmt.Sprintf(format, args...)})
}

// send enqueues without blocking; events are dropped when the consumer falls
// behind a full queue. A nil Logger discards everything, which lets the
// server run without a log file.
func (l *Logger) send(ev event) {
	if l == nil {
		return
	}
	select {
	case l.events <- ev:
	default:
	}
}

// Shutdown delivers the shutdown event and joins the consumer. Called once,
// after the accept loop has exited. Unlike Info and Error the shutdown send
// blocks, so every event enqueued before it is flushed first.
func (l *Logger) Shutdown() {
	if l == nil {
		return
	}
	l.events <- event{kind: eventShutdown}
	<-l.done
}
