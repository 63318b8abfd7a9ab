package tools

import (
	"bytes"
	"context"
	"errors"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

func TestUpscaleArgs(t *testing.T) {
	got := UpscaleArgs("Tex/foo.png", "Tex/foo.png.upscaled.png", UpscaleOptions{
		Noise: 1,
		Scale: 4,
		Model: "models-upconv_7_anime_style_art_rgb",
	})
	want := []string{
		"-i", "Tex/foo.png",
		"-o", "Tex/foo.png.upscaled.png",
		"-n", "1",
		"-s", "4",
		"-m", "models-upconv_7_anime_style_art_rgb",
	}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %v\nwant %v", got, want)
	}
}

func TestConvertArgs(t *testing.T) {
	got := ConvertArgs("Tex/foo.png", "Tex")
	want := []string{"-y", "-o", "Tex", "Tex/foo.png"}
	if strings.Join(got, "|") != strings.Join(want, "|") {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestToolError_Message(t *testing.T) {
	e := &ToolError{
		Program:  "./waifu2x-ncnn-vulkan",
		ExitCode: 255,
		Stderr:   "  vkCreateInstance failed -9\n",
		Err:      errors.New("exit status 255"),
	}
	if got := e.Error(); got != "waifu2x-ncnn-vulkan error (exit 255): vkCreateInstance failed -9" {
		t.Errorf("Error() = %q", got)
	}

	noStderr := &ToolError{Program: "texconv", ExitCode: -1, Err: exec.ErrNotFound}
	if !strings.Contains(noStderr.Error(), "executable file not found") {
		t.Errorf("Error() = %q, want the underlying error", noStderr.Error())
	}
	if !errors.Is(noStderr, exec.ErrNotFound) {
		t.Error("ToolError should unwrap to its cause")
	}
}

func TestHint(t *testing.T) {
	tests := []struct {
		stderr string
		want   string
	}{
		{"[0 llvmpipe]  queueC=0[1]\nvkCreateInstance failed -9", "Vulkan"},
		{"vkAllocateMemory failed", "out of memory"},
		{"ERROR: FAILED (80070057: The parameter is incorrect.)", "converter rejected"},
		{"decode image foo.png failed", "could not be decoded"},
		{"everything is fine", ""},
	}
	for _, tt := range tests {
		got := Hint(tt.stderr)
		if tt.want == "" {
			if got != "" {
				t.Errorf("Hint(%q) = %q, want empty", tt.stderr, got)
			}
			continue
		}
		if !strings.Contains(got, tt.want) {
			t.Errorf("Hint(%q) = %q, want it to mention %q", tt.stderr, got, tt.want)
		}
	}
}

func TestExecRunner_Success(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	if err := (ExecRunner{}).Run(context.Background(), "sh", "-c", "echo hello"); err != nil {
		t.Errorf("Run: %v", err)
	}
}

func TestExecRunner_CapturesStderrAndExitCode(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	var tee bytes.Buffer
	err := ExecRunner{Tee: &tee}.Run(context.Background(), "sh", "-c", "echo oops >&2; exit 3")

	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *ToolError", err)
	}
	if te.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", te.ExitCode)
	}
	if strings.TrimSpace(te.Stderr) != "oops" {
		t.Errorf("Stderr = %q, want oops", te.Stderr)
	}
	if tee.String() != "sh: oops\n" {
		t.Errorf("tee = %q, want %q", tee.String(), "sh: oops\n")
	}
}

func TestExecRunner_MissingProgram(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "no-such-tool")
	err := (ExecRunner{}).Run(context.Background(), missing)

	var te *ToolError
	if !errors.As(err, &te) {
		t.Fatalf("error = %v, want *ToolError", err)
	}
	if te.ExitCode != -1 {
		t.Errorf("ExitCode = %d, want -1", te.ExitCode)
	}
}

// writeRecorder keeps each Write call separately.
type writeRecorder struct{ writes []string }

func (r *writeRecorder) Write(p []byte) (int, error) {
	r.writes = append(r.writes, string(p))
	return len(p), nil
}

func TestLineWriter_EmitsWholeLines(t *testing.T) {
	tests := []struct {
		name   string
		chunks []string
		want   []string
	}{
		{"one line", []string{"done\n"}, []string{"tool: done\n"}},
		{"split mid line", []string{"[ 5", "0%]\n[10", "0%]\n"}, []string{"tool: [ 50%]\n", "tool: [100%]\n"}},
		{"two lines in one chunk", []string{"a\nb\n"}, []string{"tool: a\n", "tool: b\n"}},
		{"trailing partial flushed", []string{"a\nvkQueueSubmit failed"}, []string{"tool: a\n", "tool: vkQueueSubmit failed\n"}},
		{"nothing", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := &writeRecorder{}
			lw := &lineWriter{dst: rec, prefix: "tool: "}
			for _, c := range tt.chunks {
				if n, err := lw.Write([]byte(c)); err != nil || n != len(c) {
					t.Fatalf("Write(%q) = %d, %v", c, n, err)
				}
			}
			lw.flush()
			if strings.Join(rec.writes, "|") != strings.Join(tt.want, "|") {
				t.Errorf("writes = %q, want %q", rec.writes, tt.want)
			}
		})
	}
}

func TestExecRunner_TeeGetsWholeLinesWithoutNewline(t *testing.T) {
	if _, err := exec.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}
	rec := &writeRecorder{}
	err := ExecRunner{Tee: rec}.Run(context.Background(), "sh", "-c", "printf 'first\\nsec' >&2; printf 'ond' >&2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{"sh: first\n", "sh: second\n"}
	if strings.Join(rec.writes, "|") != strings.Join(want, "|") {
		t.Errorf("tee writes = %q, want %q", rec.writes, want)
	}
}
