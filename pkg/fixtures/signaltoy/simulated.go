package signaltoy

import (
	"fmt"
	"syscall"
)

// Simulated delivers signals by calling the registered handler directly.
// It is the deterministic stand-in for OS delivery used by tests and by
// platforms without raise semantics.
type Simulated struct {
	handlers  map[syscall.Signal]func(syscall.Signal)
	delivered int
	depth     int
	maxDepth  int
}

// NewSimulated creates a simulated raiser with no handlers.
func NewSimulated() *Simulated {
	return &Simulated{handlers: make(map[syscall.Signal]func(syscall.Signal))}
}

// Notify registers fn for sig, replacing any previous handler.
func (s *Simulated) Notify(sig syscall.Signal, fn func(syscall.Signal)) {
	s.handlers[sig] = fn
}

// Raise invokes the handler for sig synchronously.
func (s *Simulated) Raise(sig syscall.Signal) error {
	fn, ok := s.handlers[sig]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnhandledSignal, int(sig))
	}

	s.delivered++
	s.depth++
	s.maxDepth = max(s.maxDepth, s.depth)
	defer func() { s.depth-- }()

	fn(sig)
	return nil
}

// Stop drops all handlers.
func (s *Simulated) Stop() {
	clear(s.handlers)
}

// Delivered returns the number of signals delivered to a handler.
func (s *Simulated) Delivered() int { return s.delivered }

// MaxDepth returns the deepest handler nesting observed.
func (s *Simulated) MaxDepth() int { return s.maxDepth }
