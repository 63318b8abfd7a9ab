// Package logging provides the leveled, optionally colored console logger
// with an optional append-only file sink. All methods are goroutine-safe so
// workers and the reporter can log concurrently without interleaving.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/texup/internal/config"
	"github.com/backmassage/texup/internal/term"
)

// LineGuard is a live terminal widget (the progress bar) that shares the
// console with log lines. The logger owns it once installed: every call on
// it, including advancing and finishing, happens under the logger's lock.
type LineGuard interface {
	Clear() error
	RenderBlank() error
	Add(n int) error
	Finish() error
}

// Logger provides leveled, optionally colored logging with optional file sink.
type Logger struct {
	mu     sync.Mutex
	out    io.Writer
	errOut io.Writer
	file   *os.File
	guard  LineGuard
	runID  string
}

// NewLogger configures terminal colors from cfg and optionally opens
// cfg.LogFile. Call Close() when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	term.Configure(cfg.ColorMode)

	l := &Logger{
		out:    os.Stdout,
		errOut: os.Stderr,
		runID:  uuid.NewString(),
	}

	if cfg.LogFile != "" {
		dir := filepath.Dir(cfg.LogFile)
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		l.file = f
		_, _ = fmt.Fprintf(f, "%s [RUN] %s\n", timestamp(), l.runID)
	}
	return l, nil
}

// SetOutput redirects console output (tests, or a non-default sink).
func (l *Logger) SetOutput(out, errOut io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.out = out
	l.errOut = errOut
}

// SetLineGuard installs (or, with nil, removes) the widget that is cleared
// around every console line.
func (l *Logger) SetLineGuard(g LineGuard) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.guard = g
}

// Advance moves the installed line guard forward by n. It is a no-op when
// no guard is installed.
func (l *Logger) Advance(n int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.guard != nil {
		_ = l.guard.Add(n)
	}
}

// FinishLineGuard completes and removes the installed line guard.
func (l *Logger) FinishLineGuard() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.guard != nil {
		_ = l.guard.Finish()
		l.guard = nil
	}
}

// RunID returns the identifier written to the log file for this run.
func (l *Logger) RunID() string { return l.runID }

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func timestamp() string { return time.Now().Format("2006-01-02 15:04:05") }

func (l *Logger) line(level string, style term.Style, text string) {
	ts := timestamp()
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writeLocked(ts, level, style, text)
}

// writeLocked writes one line with the guard cleared around it. l.mu must
// be held.
func (l *Logger) writeLocked(ts, level string, style term.Style, text string) {
	if l.guard != nil {
		_ = l.guard.Clear()
	}

	tag := "[" + level + "]"
	out := l.out
	if style == term.StyleError {
		out = l.errOut
	}
	_, _ = io.WriteString(out, ts+" "+term.Paint(style, tag)+" "+text+"\n")
	if l.file != nil {
		_, _ = io.WriteString(l.file, ts+" "+tag+" "+text+"\n")
	}

	if l.guard != nil {
		_ = l.guard.RenderBlank()
	}
}

// ToolOutput returns a writer that logs external tool output at DEBUG level,
// one log line per output line, or nil when verbose is false. Each Write is
// emitted atomically, so callers that write whole lines never interleave
// with other log lines or the progress bar.
func (l *Logger) ToolOutput(verbose bool) io.Writer {
	if !verbose {
		return nil
	}
	return toolWriter{l}
}

type toolWriter struct{ l *Logger }

func (w toolWriter) Write(p []byte) (int, error) {
	text := strings.TrimRight(string(p), "\r\n")
	if text == "" {
		return len(p), nil
	}
	ts := timestamp()
	w.l.mu.Lock()
	defer w.l.mu.Unlock()
	for _, ln := range strings.Split(text, "\n") {
		w.l.writeLocked(ts, "DEBUG", term.StyleDebug, strings.TrimRight(ln, "\r"))
	}
	return len(p), nil
}

// Info logs at INFO level (blue).
func (l *Logger) Info(format string, args ...interface{}) {
	l.line("INFO", term.StyleInfo, fmt.Sprintf(format, args...))
}

// Success logs at SUCCESS level (green).
func (l *Logger) Success(format string, args ...interface{}) {
	l.line("SUCCESS", term.StyleSuccess, fmt.Sprintf(format, args...))
}

// Warn logs at WARN level (yellow).
func (l *Logger) Warn(format string, args ...interface{}) {
	l.line("WARN", term.StyleWarn, fmt.Sprintf(format, args...))
}

// Error logs at ERROR level (red), to stderr.
func (l *Logger) Error(format string, args ...interface{}) {
	l.line("ERROR", term.StyleError, fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level (cyan) only when verbose; no-op otherwise.
func (l *Logger) Debug(verbose bool, format string, args ...interface{}) {
	if !verbose {
		return
	}
	l.line("DEBUG", term.StyleDebug, fmt.Sprintf(format, args...))
}
