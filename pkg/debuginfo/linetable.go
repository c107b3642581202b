package debuginfo

import (
	"debug/dwarf"
	"debug/elf"
	"errors"
	"fmt"
	"io"
	"sort"
)

// ErrNoDebugInfo is returned when a binary carries no DWARF data.
var ErrNoDebugInfo = errors.New("binary has no debug info")

// LineTable maps file paths to line numbers to the first address of that line.
type LineTable map[string]map[int]uint64

// LoadLineTable opens the ELF binary at path and walks the DWARF line program
// of every compilation unit. End-of-sequence rows are skipped, as are rows
// without a file. For each line only the lowest address is kept.
func LoadLineTable(path string) (LineTable, error) {
	f, err := elf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open binary: %w", err)
	}
	defer f.Close()

	data, err := f.DWARF()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoDebugInfo, err)
	}
	return readLineTable(data)
}

func readLineTable(data *dwarf.Data) (LineTable, error) {
	table := make(LineTable)

	r := data.Reader()
	for {
		entry, err := r.Next()
		if err != nil {
			return nil, fmt.Errorf("failed to read compilation unit: %w", err)
		}
		if entry == nil {
			break
		}
		if entry.Tag != dwarf.TagCompileUnit {
			r.SkipChildren()
			continue
		}

		lr, err := data.LineReader(entry)
		if err != nil {
			return nil, fmt.Errorf("failed to read line program: %w", err)
		}
		r.SkipChildren()
		if lr == nil {
			continue
		}

		var row dwarf.LineEntry
		for {
			if err := lr.Next(&row); err != nil {
				if errors.Is(err, io.EOF) {
					break
				}
				return nil, fmt.Errorf("failed to read line row: %w", err)
			}
			if row.EndSequence || row.File == nil || row.Line == 0 {
				continue
			}
			table.add(row.File.Name, row.Line, row.Address)
		}
	}

	return table, nil
}

func (t LineTable) add(file string, line int, addr uint64) {
	lines, ok := t[file]
	if !ok {
		lines = make(map[int]uint64)
		t[file] = lines
	}
	if prev, ok := lines[line]; !ok || addr < prev {
		lines[line] = addr
	}
}

// Files returns the file paths in the table, sorted.
func (t LineTable) Files() []string {
	files := make([]string, 0, len(t))
	for f := range t {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Lines returns the mapped line numbers of file, sorted.
func (t LineTable) Lines(file string) []int {
	lines := make([]int, 0, len(t[file]))
	for l := range t[file] {
		lines = append(lines, l)
	}
	sort.Ints(lines)
	return lines
}
