package cli

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/aretw0/tracebench/pkg/debuginfo"
)

// LinesOptions configures the lines command.
type LinesOptions struct {
	Binary string
	File   string // path suffix filter, e.g. "callchain/callchain.go"
	Breaks []int  // lines to place breakpoints on; requires File to match one file
}

// Lines prints the DWARF line table of a binary and, optionally, the
// addresses breakpoints on the given lines would patch.
func Lines(w io.Writer, opts LinesOptions) error {
	table, err := debuginfo.LoadLineTable(opts.Binary)
	if err != nil {
		return err
	}

	var files []string
	for _, f := range table.Files() {
		if opts.File == "" || strings.HasSuffix(filepath.ToSlash(f), filepath.ToSlash(opts.File)) {
			files = append(files, f)
		}
	}
	if len(files) == 0 {
		return fmt.Errorf("no source file matches %q", opts.File)
	}

	if len(opts.Breaks) > 0 {
		if len(files) != 1 {
			return fmt.Errorf("breakpoints need exactly one source file, %d match %q", len(files), opts.File)
		}
		return printBreakpoints(w, files[0], table, opts.Breaks)
	}

	for _, f := range files {
		fmt.Fprintln(w, f)
		for _, line := range table.Lines(f) {
			fmt.Fprintf(w, "\t%d at %#x\n", line, table[f][line])
		}
	}
	return nil
}

func printBreakpoints(w io.Writer, file string, table debuginfo.LineTable, lines []int) error {
	sf, err := debuginfo.NewSourceFile(file, table, true)
	if err != nil {
		return err
	}

	bps := debuginfo.NewBreakpoints(sf)
	for _, line := range lines {
		p, err := bps.Toggle(line)
		if err != nil {
			return err
		}
		text := ""
		if line-1 < len(sf.Lines) {
			text = strings.TrimSpace(sf.Lines[line-1])
		}
		fmt.Fprintf(w, "%s:%d %#x enabled=%t\t%s\n", filepath.Base(file), p.Line, p.Addr, p.Enabled, text)
	}
	for _, addr := range bps.Active() {
		fmt.Fprintf(w, "active %#x\n", addr)
	}
	return nil
}
