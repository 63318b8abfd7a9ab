// Package term decides whether console output is colored and paints the
// logger's level tags and the banner accent.
//
// The decision is made once by [Configure] and stored atomically, so workers
// may paint while the main goroutine is still starting up.
package term

import (
	"os"
	"strings"
	"sync/atomic"

	"github.com/mattn/go-isatty"

	"github.com/backmassage/texup/internal/config"
)

// Style names what a piece of text is, not how it looks.
type Style uint8

const (
	StyleInfo Style = iota
	StyleSuccess
	StyleWarn
	StyleError
	StyleDebug
	StyleAccent
)

// SGR parameters per style: bold plus a bright foreground.
var sgr = [...]string{
	StyleInfo:    "1;94",
	StyleSuccess: "1;92",
	StyleWarn:    "1;93",
	StyleError:   "1;91",
	StyleDebug:   "1;96",
	StyleAccent:  "1;95",
}

const reset = "\033[0m"

var colored atomic.Bool

// Configure decides whether stdout gets colors under mode.
func Configure(mode config.ColorMode) {
	colored.Store(wantColor(mode, os.Stdout))
}

// Enabled reports whether [Paint] currently emits escape sequences.
func Enabled() bool { return colored.Load() }

// Paint wraps text in the escape sequence for s, or returns it unchanged
// when colors are off.
func Paint(s Style, text string) string {
	if !colored.Load() || int(s) >= len(sgr) {
		return text
	}
	return "\033[" + sgr[s] + "m" + text + reset
}

// wantColor applies the mode; auto means f is a terminal, NO_COLOR is unset
// (https://no-color.org) and TERM is not "dumb".
func wantColor(mode config.ColorMode, f *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	}
	if os.Getenv("NO_COLOR") != "" || strings.EqualFold(os.Getenv("TERM"), "dumb") {
		return false
	}
	return IsTerminal(f)
}

// IsTerminal reports whether f is attached to a TTY. Cygwin and MSYS ptys
// count, since mod tooling on Windows often runs under Git Bash.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
