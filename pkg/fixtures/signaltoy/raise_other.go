//go:build !unix

package signaltoy

// NewOSRaiser falls back to simulated delivery where a process cannot signal itself.
func NewOSRaiser() Raiser {
	return NewSimulated()
}
