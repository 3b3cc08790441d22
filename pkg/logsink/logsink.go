// Package logsink provides an explicit per-run log destination. A Sink
// writes timestamped lines to the console, to an optional append-only log
// file, or both. Each run constructs its own Sink and passes it down, so
// no process-global logging state is shared between runs.
package logsink

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// Options configures a Sink.
type Options struct {
	// Console enables writing to stdout (stderr for errors).
	Console bool
	// FilePath, when non-empty, names a file that log lines are appended
	// to in addition to the console.
	FilePath string
}

// Sink is a leveled log destination. It is safe for concurrent use and
// must be closed when a file path was configured.
type Sink struct {
	mu      sync.Mutex
	console bool
	out     io.Writer
	errOut  io.Writer
	file    *os.File
}

// New creates a Sink from opts, opening the log file for append when one
// is configured.
func New(opts Options) (*Sink, error) {
	s := &Sink{
		console: opts.Console,
		out:     os.Stdout,
		errOut:  os.Stderr,
	}

	if opts.FilePath != "" {
		f, err := os.OpenFile(opts.FilePath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		s.file = f
	}

	return s, nil
}

// Info logs an informational line.
func (s *Sink) Info(format string, args ...any) {
	s.line("INFO", s.out, fmt.Sprintf(format, args...))
}

// Error logs an error line. On the console it goes to stderr.
func (s *Sink) Error(format string, args ...any) {
	s.line("ERROR", s.errOut, fmt.Sprintf(format, args...))
}

// Close closes the log file if one was opened.
func (s *Sink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.file == nil {
		return nil
	}

	err := s.file.Close()
	s.file = nil
	return err
}

func (s *Sink) line(level string, console io.Writer, text string) {
	ts := time.Now().Format("2006-01-02 15:04:05")
	full := ts + " - " + level + " - " + text + "\n"

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.console {
		_, _ = io.WriteString(console, full)
	}
	if s.file != nil {
		_, _ = io.WriteString(s.file, full)
	}
}
