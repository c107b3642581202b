package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aretw0/tracebench"
	"github.com/aretw0/tracebench/internal/presentation/tui"
)

// PrintVersion prints the version, with the banner when stdout is a terminal.
func PrintVersion(w io.Writer) {
	if f, ok := w.(*os.File); ok && tui.IsTerminal(f) {
		tui.PrintBanner(w, tracebench.Version)
		return
	}
	fmt.Fprintf(w, "tracebench version %s\n", strings.TrimSpace(tracebench.Version))
}
