package domain

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDiffLines(t *testing.T) {
	tests := []struct {
		name string
		want []string
		got  []string
		diff *LineDiff
	}{
		{
			name: "Identical",
			want: []string{"a", "b"},
			got:  []string{"a", "b"},
			diff: nil,
		},
		{
			name: "Both Empty",
			want: []string{},
			got:  nil,
			diff: nil,
		},
		{
			name: "Changed Line",
			want: []string{"0th of Fib = 0", "1th of Fib = 1"},
			got:  []string{"0th of Fib = 0", "1th of Fib = 2"},
			diff: &LineDiff{Index: 1, Want: "1th of Fib = 1", Got: "1th of Fib = 2"},
		},
		{
			name: "Truncated Output",
			want: []string{"Starting ", "Pre SIGTERM"},
			got:  []string{"Starting "},
			diff: &LineDiff{Index: 1, Want: "Pre SIGTERM", Missing: true},
		},
		{
			name: "Extra Output",
			want: []string{"Hello from func a"},
			got:  []string{"Hello from func a", "Hello from func b"},
			diff: &LineDiff{Index: 1, Got: "Hello from func b", Extra: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.diff, DiffLines(tt.want, tt.got))
		})
	}
}

func TestLineDiff_String(t *testing.T) {
	assert.Equal(t, `line 2: want "x", got "y"`, (&LineDiff{Index: 1, Want: "x", Got: "y"}).String())
	assert.Equal(t, `line 1: missing, want "x"`, (&LineDiff{Index: 0, Want: "x", Missing: true}).String())
	assert.Equal(t, `line 3: unexpected "y"`, (&LineDiff{Index: 2, Got: "y", Extra: true}).String())
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{}, SplitLines(""))
	assert.Equal(t, []string{}, SplitLines("\n"))
	assert.Equal(t, []string{"a", "b"}, SplitLines("a\nb\n"))
	assert.Equal(t, []string{"a", "", "b"}, SplitLines("a\n\nb"))
}

func TestTranscript_TextAndClone(t *testing.T) {
	tr := NewTranscript("run-1", "callchain", []string{"x"})
	tr.Lines = append(tr.Lines, "Hello from func a", "Happy branch!")
	tr.Diff = &LineDiff{Index: 1}

	assert.Equal(t, "Hello from func a\nHappy branch!\n", tr.Text())

	c := tr.Clone()
	c.Lines[0] = "mutated"
	c.Args[0] = "mutated"
	c.Diff.Index = 9

	assert.Equal(t, "Hello from func a", tr.Lines[0])
	assert.Equal(t, "x", tr.Args[0])
	assert.Equal(t, 1, tr.Diff.Index)
	assert.Equal(t, "", NewTranscript("run-2", "fibtracer", nil).Text())
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := LifecycleHooks{
		OnRunStart: func(context.Context, *RunEvent) { calls = append(calls, "a-start") },
	}
	b := LifecycleHooks{
		OnRunStart:  func(context.Context, *RunEvent) { calls = append(calls, "b-start") },
		OnRunFinish: func(context.Context, *RunEvent) { calls = append(calls, "b-finish") },
	}

	merged := a.Merge(b)
	merged.OnRunStart(context.Background(), &RunEvent{})
	merged.OnRunFinish(context.Background(), &RunEvent{})

	assert.Equal(t, []string{"a-start", "b-start", "b-finish"}, calls)
	assert.Nil(t, LifecycleHooks{}.Merge(LifecycleHooks{}).OnRunStart)
}
