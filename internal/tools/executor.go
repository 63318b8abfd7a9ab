package tools

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"
	"path/filepath"
)

// Runner runs an external program to completion. A non-nil error from a
// program that started and exited non-zero is a *ToolError.
type Runner interface {
	Run(ctx context.Context, program string, args ...string) error
}

// ExecRunner runs programs as child processes. Stdout is discarded; stderr is
// captured for the error message and, when Tee is set, copied to it live
// (verbose mode). Tee receives one complete line per Write, prefixed with
// the program name, so a Tee shared by concurrent runs sees whole lines.
type ExecRunner struct {
	Tee io.Writer
}

// Run blocks until the child exits. No timeout is applied: a hung tool
// blocks its worker until ctx is cancelled.
func (r ExecRunner) Run(ctx context.Context, program string, args ...string) error {
	cmd := exec.CommandContext(ctx, program, args...)

	var stderrBuf bytes.Buffer
	cmd.Stderr = &stderrBuf
	if r.Tee != nil {
		lw := &lineWriter{dst: r.Tee, prefix: filepath.Base(program) + ": "}
		defer lw.flush()
		cmd.Stderr = io.MultiWriter(&stderrBuf, lw)
	}

	err := cmd.Run()
	if err == nil {
		return nil
	}

	exitCode := -1
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		exitCode = exitErr.ExitCode()
	}
	return &ToolError{
		Program:  program,
		Args:     args,
		ExitCode: exitCode,
		Stderr:   stderrBuf.String(),
		Err:      err,
	}
}

// lineWriter forwards complete lines to dst and holds back a trailing
// partial line until more output or flush.
type lineWriter struct {
	dst    io.Writer
	prefix string
	buf    []byte
}

func (w *lineWriter) Write(p []byte) (int, error) {
	w.buf = append(w.buf, p...)
	for {
		i := bytes.IndexByte(w.buf, '\n')
		if i < 0 {
			break
		}
		w.emit(w.buf[:i+1])
		w.buf = w.buf[i+1:]
	}
	return len(p), nil
}

func (w *lineWriter) flush() {
	if len(w.buf) > 0 {
		w.emit(append(w.buf, '\n'))
		w.buf = nil
	}
}

func (w *lineWriter) emit(line []byte) {
	_, _ = w.dst.Write(append([]byte(w.prefix), line...))
}
