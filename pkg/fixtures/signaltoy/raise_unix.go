//go:build unix

package signaltoy

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"
)

// DeliveryTimeout bounds how long Raise waits for the runtime to hand the
// signal back.
const DeliveryTimeout = 5 * time.Second

// OS delivers real signals to the current process.
// Raise sends the signal with kill(2), waits for the runtime to forward it on
// the notify channel and then runs the handler inline, so a handler raising
// again nests on the same goroutine stack.
type OS struct {
	ch       chan os.Signal
	handlers map[syscall.Signal]func(syscall.Signal)
}

// NewOSRaiser returns a Raiser backed by os/signal.
func NewOSRaiser() Raiser {
	return &OS{
		ch:       make(chan os.Signal, 1),
		handlers: make(map[syscall.Signal]func(syscall.Signal)),
	}
}

// Notify registers fn and starts relaying sig.
func (o *OS) Notify(sig syscall.Signal, fn func(syscall.Signal)) {
	o.handlers[sig] = fn
	signal.Notify(o.ch, sig)
}

// Raise sends sig to this process and dispatches it once delivered.
func (o *OS) Raise(sig syscall.Signal) error {
	fn, ok := o.handlers[sig]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnhandledSignal, int(sig))
	}

	if err := syscall.Kill(os.Getpid(), sig); err != nil {
		return fmt.Errorf("failed to raise signal %d: %w", int(sig), err)
	}

	select {
	case got := <-o.ch:
		s, ok := got.(syscall.Signal)
		if !ok || s != sig {
			return fmt.Errorf("unexpected signal delivered: %v", got)
		}
		fn(s)
		return nil
	case <-time.After(DeliveryTimeout):
		return fmt.Errorf("signal %d not delivered within %v", int(sig), DeliveryTimeout)
	}
}

// Stop stops relaying signals; default OS behavior applies again.
func (o *OS) Stop() {
	signal.Stop(o.ch)
	clear(o.handlers)
}
