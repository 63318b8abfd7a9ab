package logging

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/backmassage/texup/internal/config"
)

func newTestLogger(t *testing.T) (*Logger, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { l.Close() })
	var out, errOut bytes.Buffer
	l.SetOutput(&out, &errOut)
	return l, &out, &errOut
}

func TestNewLogger_NoFile(t *testing.T) {
	l, out, errOut := newTestLogger(t)
	l.Info("test message")
	l.Error("bad thing")

	if !strings.Contains(out.String(), "[INFO] test message") {
		t.Errorf("stdout: %q", out.String())
	}
	if !strings.Contains(errOut.String(), "[ERROR] bad thing") {
		t.Errorf("stderr: %q", errOut.String())
	}
	if strings.Contains(out.String(), "bad thing") {
		t.Error("errors should not go to stdout")
	}
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	cfg.LogFile = filepath.Join(dir, "logs", "texup.log")
	l, err := NewLogger(&cfg)
	if err != nil {
		t.Fatal(err)
	}
	l.SetOutput(&bytes.Buffer{}, &bytes.Buffer{})
	l.Info("to file")
	if err := l.Close(); err != nil {
		t.Fatal(err)
	}
	b, _ := os.ReadFile(cfg.LogFile)
	if !bytes.Contains(b, []byte("INFO")) || !bytes.Contains(b, []byte("to file")) {
		t.Errorf("log file content: %s", string(b))
	}
	if !bytes.Contains(b, []byte(l.RunID())) {
		t.Errorf("log file should start with the run id, got: %s", string(b))
	}
}

func TestDebug_OnlyWhenVerbose(t *testing.T) {
	l, out, _ := newTestLogger(t)
	l.Debug(false, "hidden")
	l.Debug(true, "shown")
	if strings.Contains(out.String(), "hidden") || !strings.Contains(out.String(), "shown") {
		t.Errorf("stdout: %q", out.String())
	}
}

// fakeGuard has no lock of its own: the logger must serialize every call,
// which the race detector checks.
type fakeGuard struct {
	clears   int
	renders  int
	added    int
	finished bool
}

func (g *fakeGuard) Clear() error       { g.clears++; return nil }
func (g *fakeGuard) RenderBlank() error { g.renders++; return nil }
func (g *fakeGuard) Add(n int) error    { g.added += n; return nil }
func (g *fakeGuard) Finish() error      { g.finished = true; return nil }

func TestLineGuard_WrapsEveryLine(t *testing.T) {
	l, _, _ := newTestLogger(t)
	g := &fakeGuard{}
	l.SetLineGuard(g)
	l.Info("a")
	l.Warn("b")
	l.SetLineGuard(nil)
	l.Info("c")

	if g.clears != 2 || g.renders != 2 {
		t.Errorf("clears=%d renders=%d, want 2/2", g.clears, g.renders)
	}
}

func TestAdvanceAndFinishLineGuard(t *testing.T) {
	l, _, _ := newTestLogger(t)
	l.Advance(1) // no guard installed

	g := &fakeGuard{}
	l.SetLineGuard(g)
	l.Advance(2)
	l.FinishLineGuard()
	l.Advance(5)
	l.Info("after")

	if g.added != 2 || !g.finished {
		t.Errorf("added=%d finished=%v, want 2/true", g.added, g.finished)
	}
	if g.clears != 0 {
		t.Errorf("finished guard was still cleared %d times", g.clears)
	}
}

func TestLineGuard_SerializedWithWorkerLines(t *testing.T) {
	l, out, _ := newTestLogger(t)
	g := &fakeGuard{}
	l.SetLineGuard(g)

	const workers, perWorker = 4, 100
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < perWorker; j++ {
				l.Debug(true, "tex%d_%d.png: converting", i, j)
			}
		}(i)
	}
	for i := 0; i < workers*perWorker; i++ {
		l.Advance(1)
	}
	wg.Wait()
	l.FinishLineGuard()

	if g.added != workers*perWorker {
		t.Errorf("added = %d, want %d", g.added, workers*perWorker)
	}
	if g.clears != workers*perWorker || g.renders != workers*perWorker {
		t.Errorf("clears=%d renders=%d, want %d each", g.clears, g.renders, workers*perWorker)
	}
	if n := strings.Count(out.String(), "[DEBUG]"); n != workers*perWorker {
		t.Errorf("got %d debug lines, want %d", n, workers*perWorker)
	}
}

func TestToolOutput(t *testing.T) {
	l, out, _ := newTestLogger(t)
	if l.ToolOutput(false) != nil {
		t.Fatal("non-verbose runs should not capture tool output")
	}

	g := &fakeGuard{}
	l.SetLineGuard(g)
	w := l.ToolOutput(true)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			fmt.Fprintf(w, "texconv: writing tex%02d.dds\n", i)
		}(i)
	}
	wg.Wait()
	_, _ = w.Write([]byte("\n"))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 20 {
		t.Fatalf("got %d lines, want 20:\n%s", len(lines), out.String())
	}
	for _, line := range lines {
		if !strings.Contains(line, "[DEBUG] texconv: writing tex") || !strings.HasSuffix(line, ".dds") {
			t.Errorf("corrupted line: %q", line)
		}
	}
	if g.clears != 20 || g.renders != 20 {
		t.Errorf("clears=%d renders=%d, want 20/20", g.clears, g.renders)
	}
}

func TestConcurrentLinesDoNotInterleave(t *testing.T) {
	l, out, _ := newTestLogger(t)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			l.Info("worker %d finished", i)
		}(i)
	}
	wg.Wait()

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 50 {
		t.Fatalf("got %d lines, want 50", len(lines))
	}
	for _, line := range lines {
		if !strings.Contains(line, "[INFO] worker ") || !strings.HasSuffix(line, " finished") {
			t.Errorf("corrupted line: %q", line)
		}
	}
}
