package runner

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/aretw0/tracebench/pkg/fixtures/callchain"
	"github.com/aretw0/tracebench/pkg/fixtures/fibtracer"
	"github.com/aretw0/tracebench/pkg/fixtures/signaltoy"
)

// RunFunc runs a fixture in-process, printing to w.
// args excludes the program name, like os.Args[1:].
type RunFunc func(ctx context.Context, w io.Writer, args []string) error

// Fixture is a registered fixture.
type Fixture struct {
	domain.FixtureInfo
	Run      RunFunc
	Expected func(args []string) []string
	Graph    domain.CallGraph
}

// Registry manages the available fixtures.
type Registry struct {
	mu       sync.RWMutex
	fixtures map[string]Fixture
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		fixtures: make(map[string]Fixture),
	}
}

// Register adds a fixture to the registry.
// If a fixture with the same name exists, it is overwritten.
func (r *Registry) Register(f Fixture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fixtures[f.Name] = f
}

// Lookup returns the fixture registered under name.
func (r *Registry) Lookup(name string) (Fixture, error) {
	r.mu.RLock()
	f, ok := r.fixtures[name]
	r.mu.RUnlock()

	if !ok {
		return Fixture{}, fmt.Errorf("%w: %s", domain.ErrUnknownFixture, name)
	}
	return f, nil
}

// List returns the registered fixtures sorted by name.
func (r *Registry) List() []domain.FixtureInfo {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]domain.FixtureInfo, 0, len(r.fixtures))
	for _, f := range r.fixtures {
		out = append(out, f.FixtureInfo)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Default returns a registry holding the four built-in fixtures.
//
// In-process, signaltoy uses simulated delivery: a real SIGTERM would reach
// the harness itself, which treats it as a shutdown request.
func Default() *Registry {
	r := NewRegistry()

	r.Register(Fixture{
		FixtureInfo: domain.FixtureInfo{
			Name:        "signaltoy",
			Description: "Raises SIGTERM once; the handler re-raises it a single time.",
			Program:     "signaltoy",
		},
		Run: func(ctx context.Context, w io.Writer, args []string) error {
			raiser := signaltoy.NewSimulated()
			defer raiser.Stop()
			_, err := signaltoy.Run(w, raiser)
			return err
		},
		Expected: func([]string) []string { return signaltoy.Expected() },
		Graph: domain.CallGraph{
			Nodes: []domain.CallNode{
				{ID: "main", Marker: signaltoy.StartMessage},
				{ID: "sigterm_handler", Marker: signaltoy.CaughtPrefix},
			},
			Edges: []domain.CallEdge{
				{From: "main", To: "sigterm_handler", Signal: "SIGTERM"},
				{From: "sigterm_handler", To: "sigterm_handler", Condition: "count == 1", Signal: "SIGTERM"},
			},
		},
	})

	for _, v := range []struct {
		name, program, desc string
		variant             fibtracer.Variant
	}{
		{"fibtracer", "fibtracer", "Recursive Fibonacci 0..4; marker at the first deep base case.", fibtracer.Early},
		{"fibtracer-late", "fibtracer-late", "Recursive Fibonacci 0..4; marker zeroes the first deep F(2).", fibtracer.Late},
	} {
		variant := v.variant
		cond := "n == 0"
		if variant == fibtracer.Late {
			cond = "n == 2"
		}
		r.Register(Fixture{
			FixtureInfo: domain.FixtureInfo{Name: v.name, Description: v.desc, Program: v.program},
			Run: func(ctx context.Context, w io.Writer, args []string) error {
				fibtracer.Run(w, fibtracer.DefaultN, variant)
				return nil
			},
			Expected: func([]string) []string { return fibtracer.Expected(fibtracer.DefaultN, variant) },
			Graph: domain.CallGraph{
				Nodes: []domain.CallNode{
					{ID: "main", Marker: "0th of Fib"},
					{ID: "fib"},
					{ID: "deep", Marker: fibtracer.Marker},
				},
				Edges: []domain.CallEdge{
					{From: "main", To: "fib"},
					{From: "fib", To: "fib", Condition: "n >= 2"},
					{From: "fib", To: "deep", Condition: cond},
				},
			},
		})
	}

	r.Register(Fixture{
		FixtureInfo: domain.FixtureInfo{
			Name:        "callchain",
			Description: "Walks a -> b -> c -> d and branches on parity, (argc+2)*2 times.",
			Program:     "callchain",
		},
		Run: func(ctx context.Context, w io.Writer, args []string) error {
			callchain.Run(w, len(args)+1)
			return nil
		},
		Expected: func(args []string) []string { return callchain.Expected(len(args) + 1) },
		Graph: domain.CallGraph{
			Nodes: []domain.CallNode{
				{ID: "main"},
				{ID: "a", Marker: callchain.Greeting("a")},
				{ID: "b", Marker: callchain.Greeting("b")},
				{ID: "c", Marker: callchain.Greeting("c")},
				{ID: "d", Marker: callchain.Greeting("d")},
				{ID: "happy", Marker: callchain.HappyMessage},
				{ID: "sad", Marker: callchain.SadMessage},
			},
			Edges: []domain.CallEdge{
				{From: "main", To: "a"},
				{From: "a", To: "b"},
				{From: "b", To: "c"},
				{From: "c", To: "d"},
				{From: "d", To: "happy", Condition: "input % 2 == 0"},
				{From: "d", To: "sad", Condition: "input % 2 != 0"},
			},
		},
	})

	return r
}
