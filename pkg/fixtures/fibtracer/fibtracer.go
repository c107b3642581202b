// Package fibtracer computes Fibonacci numbers by naive double recursion and
// tags one deep frame with a one-shot marker.
//
// The marker is a breakpoint target: on the run for the largest index the
// tracer prints "Deep!" exactly once and substitutes 0 for the value of the
// frame it fired in. The substitution is part of the fixture and is never
// corrected.
package fibtracer

import (
	"fmt"
	"io"
	"strings"
)

// Marker is printed when the deep frame is reached.
const Marker = "Deep!"

// DefaultN is the largest index computed by the standalone executables.
const DefaultN = 4

// Variant selects where the deep-frame check happens.
type Variant int

const (
	// Early checks on entry and fires at the base case n == 0.
	Early Variant = iota
	// Late checks after both recursive calls and fires at n == 2,
	// overriding that node's sum.
	Late
)

func (v Variant) String() string {
	switch v {
	case Early:
		return "early"
	case Late:
		return "late"
	}
	return fmt.Sprintf("Variant(%d)", int(v))
}

// ParseVariant accepts "early"/"a" and "late"/"b", case-insensitive.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "early", "a":
		return Early, nil
	case "late", "b":
		return Late, nil
	}
	return Early, fmt.Errorf("unknown fib variant %q", s)
}

// Tracer owns the deep-hit flag. One Tracer corresponds to one process run.
type Tracer struct {
	Variant Variant
	out     io.Writer
	deepHit bool
	calls   int
}

// New creates a tracer printing the marker to w.
func New(w io.Writer, v Variant) *Tracer {
	return &Tracer{Variant: v, out: w}
}

// DeepHit reports whether the marker already fired.
func (t *Tracer) DeepHit() bool { return t.deepHit }

// Calls returns the number of Fib invocations so far.
func (t *Tracer) Calls() int { return t.calls }

// Fib returns F(n). deep enables the one-shot marker for this call tree.
//
//go:noinline
func (t *Tracer) Fib(n int, deep bool) int {
	t.calls++
	if t.Variant == Early && deep && !t.deepHit && n == 0 {
		t.hit()
		return 0
	}

	if n < 2 {
		return n
	}

	a := t.Fib(n-1, deep)
	b := t.Fib(n-2, deep)

	if t.Variant == Late && deep && !t.deepHit && n == 2 {
		t.hit()
		return 0
	}
	return a + b
}

// hit is where a debugger is expected to break with the deepest stack.
//
//go:noinline
func (t *Tracer) hit() {
	fmt.Fprintln(t.out, Marker)
	t.deepHit = true
}

// Run prints F(i) for i in [0, n]. Only the call for i == n is deep.
func Run(w io.Writer, n int, v Variant) *Tracer {
	t := New(w, v)
	for i := 0; i <= n; i++ {
		f := t.Fib(i, i == n)
		fmt.Fprintf(w, "%dth of Fib = %d\n", i, f)
	}
	return t
}

// Expected returns the transcript of Run(w, n, v), derived without recursion.
//
// For Early the substituted value equals the natural F(0), so every printed
// value is the true Fibonacci number; the marker fires whenever the last
// call tree reaches n == 0 (every n except 1). For Late the leftmost F(2)
// node of the last tree is zeroed, which lowers the final value by exactly
// F(2) = 1 when n >= 2.
func Expected(n int, v Variant) []string {
	lines := []string{}
	a, b := 0, 1
	for i := 0; i <= n; i++ {
		f := a
		if i == n {
			switch {
			case v == Early && n != 1:
				lines = append(lines, Marker)
			case v == Late && n >= 2:
				lines = append(lines, Marker)
				f--
			}
		}
		lines = append(lines, fmt.Sprintf("%dth of Fib = %d", i, f))
		a, b = b, a+b
	}
	return lines
}
