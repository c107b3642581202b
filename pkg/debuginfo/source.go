package debuginfo

import (
	"bufio"
	"fmt"
	"os"
)

// SourceFile is a source file together with its address mappings.
type SourceFile struct {
	Path       string
	Lines      []string
	LineToAddr map[int]uint64
	AddrToLine map[uint64]int
}

// NewSourceFile creates a SourceFile for path using the mappings found in
// table. When load is true the file contents are read as well.
func NewSourceFile(path string, table LineTable, load bool) (*SourceFile, error) {
	sf := &SourceFile{
		Path:       path,
		LineToAddr: make(map[int]uint64),
		AddrToLine: make(map[uint64]int),
	}
	for line, addr := range table[path] {
		sf.LineToAddr[line] = addr
		sf.AddrToLine[addr] = line
	}

	if load {
		if err := sf.Load(); err != nil {
			return nil, err
		}
	}
	return sf, nil
}

// Load reads the file contents, replacing any previously loaded lines.
func (s *SourceFile) Load() error {
	f, err := os.Open(s.Path)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	defer f.Close()

	var lines []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("failed to read source file: %w", err)
	}
	s.Lines = lines
	return nil
}

// Addr returns the address of a 1-based line number.
func (s *SourceFile) Addr(line int) (uint64, bool) {
	addr, ok := s.LineToAddr[line]
	return addr, ok
}
