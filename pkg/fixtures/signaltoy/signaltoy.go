// Package signaltoy implements a reentrant termination-signal handler.
//
// The handler prints every delivery, counts it, and re-raises the same signal
// the first time around, so a single raise from main produces two nested
// invocations. The counter then drops back to zero.
package signaltoy

import (
	"errors"
	"fmt"
	"io"
	"syscall"
)

// Message lines printed by the fixture.
const (
	StartMessage = "Starting "
	PreMessage   = "Pre SIGTERM"
	PostMessage  = "Post SIGTERM"
	CaughtPrefix = "Caught in sigterm_handler!"
	caughtFormat = CaughtPrefix + " Signal: %d"
)

// ErrUnhandledSignal is returned when a signal is raised with no handler registered.
var ErrUnhandledSignal = errors.New("no handler registered for signal")

// Raiser registers handlers and delivers signals to them.
// Raise must run the handler before returning, so a handler that raises again
// is re-entered while its first invocation is still on the stack.
type Raiser interface {
	Notify(sig syscall.Signal, fn func(syscall.Signal))
	Raise(sig syscall.Signal) error
	Stop()
}

// Handler owns the invocation counter.
// It is not safe for concurrent use; deliveries are serialized by the Raiser.
type Handler struct {
	out         io.Writer
	raiser      Raiser
	count       int
	invocations int
	err         error
}

// NewHandler creates a handler that prints to w and re-raises through r.
func NewHandler(w io.Writer, r Raiser) *Handler {
	return &Handler{out: w, raiser: r}
}

// Handle is the signal handler body.
//
//go:noinline
func (h *Handler) Handle(sig syscall.Signal) {
	fmt.Fprintf(h.out, caughtFormat+"\n", int(sig))
	h.invocations++
	h.count++
	if h.count == 1 {
		if err := h.raiser.Raise(sig); err != nil {
			h.err = errors.Join(h.err, err)
		}
	} else {
		h.count = 0
	}
}

// Count returns the current invocation counter (0 or 1).
func (h *Handler) Count() int { return h.count }

// Invocations returns how many times Handle ran.
func (h *Handler) Invocations() int { return h.invocations }

// Err returns the errors raised from inside the handler, if any.
func (h *Handler) Err() error { return h.err }

// Run executes the fixture: register the handler, raise SIGTERM once and
// report. The returned handler exposes the final counter state.
func Run(w io.Writer, r Raiser) (*Handler, error) {
	fmt.Fprintln(w, StartMessage)
	h := NewHandler(w, r)
	r.Notify(syscall.SIGTERM, h.Handle)

	fmt.Fprintln(w, PreMessage)
	err := r.Raise(syscall.SIGTERM)
	fmt.Fprintln(w, PostMessage)

	return h, errors.Join(err, h.Err())
}

// Expected returns the transcript of a successful run.
func Expected() []string {
	caught := fmt.Sprintf(caughtFormat, int(syscall.SIGTERM))
	return []string{StartMessage, PreMessage, caught, caught, PostMessage}
}
