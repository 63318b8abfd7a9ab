package display

import (
	"fmt"
	"io"

	"github.com/backmassage/texup/internal/term"
)

const banner = ` _
| |_ _____  ___   _ _ __
| __/ _ \ \/ / | | | '_ \
| ||  __/>  <| |_| | |_) |
 \__\___/_/\_\\__,_| .__/
                   |_|`

// PrintBanner prints the ASCII art banner in the accent color when colors
// are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprintln(w, term.Paint(term.StyleAccent, banner))
}
