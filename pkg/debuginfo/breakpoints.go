package debuginfo

import (
	"errors"
	"fmt"
	"sort"
)

// ErrNoBreakpoint is returned when an address has no breakpoint in the
// requested state.
var ErrNoBreakpoint = errors.New("no breakpoint")

// ErrUnmappedLine is returned when a line has no machine code.
var ErrUnmappedLine = errors.New("line has no address")

// Point is a breakpoint on one source line.
type Point struct {
	Addr    uint64 `json:"addr"`
	Line    int    `json:"line"`
	Enabled bool   `json:"enabled"`
}

// Breakpoints is the breakpoint set of one source file.
// It is not safe for concurrent use.
type Breakpoints struct {
	file   *SourceFile
	points []Point
}

// NewBreakpoints creates an empty set bound to file.
func NewBreakpoints(file *SourceFile) *Breakpoints {
	return &Breakpoints{file: file}
}

// Toggle flips the breakpoint on line. A line without a breakpoint gets a
// new enabled one, provided it maps to an address.
func (b *Breakpoints) Toggle(line int) (Point, error) {
	for i := range b.points {
		if b.points[i].Line == line {
			b.points[i].Enabled = !b.points[i].Enabled
			return b.points[i], nil
		}
	}

	addr, ok := b.file.Addr(line)
	if !ok {
		return Point{}, fmt.Errorf("%w: %s:%d", ErrUnmappedLine, b.file.Path, line)
	}
	p := Point{Addr: addr, Line: line, Enabled: true}
	b.points = append(b.points, p)
	return p, nil
}

// Enable re-activates a disabled breakpoint.
func (b *Breakpoints) Enable(addr uint64) error {
	return b.set(addr, true)
}

// Disable deactivates an enabled breakpoint.
func (b *Breakpoints) Disable(addr uint64) error {
	return b.set(addr, false)
}

func (b *Breakpoints) set(addr uint64, enabled bool) error {
	for i := range b.points {
		if b.points[i].Addr != addr {
			continue
		}
		if b.points[i].Enabled == enabled {
			break
		}
		b.points[i].Enabled = enabled
		return nil
	}
	return fmt.Errorf("%w at %#x", ErrNoBreakpoint, addr)
}

// Active returns the addresses of the enabled breakpoints, sorted.
func (b *Breakpoints) Active() []uint64 {
	var out []uint64
	for _, p := range b.points {
		if p.Enabled {
			out = append(out, p.Addr)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Points returns a copy of all breakpoints in insertion order.
func (b *Breakpoints) Points() []Point {
	return append([]Point(nil), b.points...)
}
