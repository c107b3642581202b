// Package callchain drives a fixed a -> b -> c -> d call chain.
//
// Every link prints an entry line and delegates; d routes even inputs to the
// happy leaf and odd inputs to the sad leaf. The stack at either leaf is
// always Run -> A -> B -> C -> D -> leaf.
package callchain

import (
	"fmt"
	"io"
)

const (
	HappyMessage = "Happy branch!"
	SadMessage   = "Sad branch!"
	helloFormat  = "Hello from func %s"
)

// Happy prints the happy message and returns 1.
//
//go:noinline
func Happy(w io.Writer) int {
	fmt.Fprintln(w, HappyMessage)
	return 1
}

// Sad prints the sad message and returns 0.
//
//go:noinline
func Sad(w io.Writer) int {
	fmt.Fprintln(w, SadMessage)
	return 0
}

//go:noinline
func D(w io.Writer, input int) int {
	fmt.Fprintf(w, helloFormat+"\n", "d")

	ret := -1
	if input%2 == 0 {
		ret = Happy(w)
	} else {
		ret = Sad(w)
	}
	return ret
}

//go:noinline
func C(w io.Writer, input int) int {
	fmt.Fprintf(w, helloFormat+"\n", "c")
	return D(w, input)
}

//go:noinline
func B(w io.Writer, input int) int {
	fmt.Fprintf(w, helloFormat+"\n", "b")
	return C(w, input)
}

//go:noinline
func A(w io.Writer, input int) int {
	fmt.Fprintf(w, helloFormat+"\n", "a")
	return B(w, input)
}

// Iterations is the loop bound for a given argument count.
// argc counts the program name, so a bare invocation has argc == 1.
func Iterations(argc int) int {
	return (argc + 2) * 2
}

// Run drives the chain for i in [0, Iterations(argc)) and discards the results.
func Run(w io.Writer, argc int) {
	for i := 0; i < Iterations(argc); i++ {
		A(w, i)
	}
}

// Greeting returns the line printed on entry to the named link.
func Greeting(name string) string {
	return fmt.Sprintf(helloFormat, name)
}

// Expected returns the transcript of Run(w, argc).
func Expected(argc int) []string {
	lines := []string{}
	for i := 0; i < Iterations(argc); i++ {
		for _, name := range []string{"a", "b", "c", "d"} {
			lines = append(lines, Greeting(name))
		}
		if i%2 == 0 {
			lines = append(lines, HappyMessage)
		} else {
			lines = append(lines, SadMessage)
		}
	}
	return lines
}
