package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/muesli/termenv"
)

// PrintBanner writes the tracebench banner and version to w.
func PrintBanner(w io.Writer, version string) {
	out := termenv.NewOutput(w)
	p := out.ColorProfile()
	lines := []struct {
		text, color string
	}{
		{" _                       _                     _    ", "#34d399"},
		{"| |_ _ __ __ _  ___ ___ | |__   ___ _ __   ___| |__ ", "#2dd4bf"},
		{"| __| '__/ _` |/ __/ _ \\| '_ \\ / _ \\ '_ \\ / __| '_ \\", "#22d3ee"},
		{"| |_| | | (_| | (_|  __/| |_) |  __/ | | | (__| | | |", "#38bdf8"},
		{" \\__|_|  \\__,_|\\___\\___||_.__/ \\___|_| |_|\\___|_| |_|", "#60a5fa"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, out.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w, out.String("  v"+strings.TrimSpace(version)).Faint())
	fmt.Fprintln(w)
}
