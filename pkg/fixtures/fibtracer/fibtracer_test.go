package fibtracer

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(n int, v Variant) ([]string, *Tracer) {
	var out bytes.Buffer
	tr := Run(&out, n, v)
	return strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n"), tr
}

func TestRun_EarlyN4(t *testing.T) {
	got, tr := run(4, Early)

	assert.Equal(t, []string{
		"0th of Fib = 0",
		"1th of Fib = 1",
		"2th of Fib = 1",
		"3th of Fib = 2",
		"Deep!",
		// The marker substitutes 0 at F(0), whose natural value is already 0, so F(4) stays 3.
		"4th of Fib = 3",
	}, got)
	assert.True(t, tr.DeepHit())
}

func TestRun_LateN4(t *testing.T) {
	got, tr := run(4, Late)

	assert.Equal(t, []string{
		"0th of Fib = 0",
		"1th of Fib = 1",
		"2th of Fib = 1",
		"3th of Fib = 2",
		"Deep!",
		"4th of Fib = 2",
	}, got)
	assert.True(t, tr.DeepHit())
}

func TestRun_MatchesExpected(t *testing.T) {
	for _, v := range []Variant{Early, Late} {
		for n := 0; n <= 12; n++ {
			got, _ := run(n, v)
			assert.Equal(t, Expected(n, v), got, "variant=%s n=%d", v, n)
		}
	}
}

func TestRun_MarkerFiresAtMostOnce(t *testing.T) {
	for _, v := range []Variant{Early, Late} {
		got, _ := run(10, v)
		count := 0
		for _, l := range got {
			if l == Marker {
				count++
			}
		}
		assert.Equal(t, 1, count, "variant=%s", v)
	}
}

func TestRun_NoMarkerWithoutDeepFrame(t *testing.T) {
	got, tr := run(1, Early)
	assert.Equal(t, []string{"0th of Fib = 0", "1th of Fib = 1"}, got)
	assert.False(t, tr.DeepHit())

	got, tr = run(1, Late)
	assert.NotContains(t, got, Marker)
	assert.False(t, tr.DeepHit())
}

func TestFib_ShallowCallsAreUncontaminated(t *testing.T) {
	want := []int{0, 1, 1, 2, 3, 5, 8, 13, 21, 34, 55}
	for _, v := range []Variant{Early, Late} {
		var out bytes.Buffer
		tr := New(&out, v)
		for n, f := range want {
			assert.Equal(t, f, tr.Fib(n, false), "variant=%s n=%d", v, n)
		}
		assert.False(t, tr.DeepHit())
		assert.Empty(t, out.String())
	}
}

func TestFib_NaiveRecursion(t *testing.T) {
	var out bytes.Buffer
	tr := New(&out, Early)
	tr.Fib(10, false)
	// Number of calls of the naive recurrence: 2*F(n+1) - 1.
	assert.Equal(t, 2*89-1, tr.Calls())
}

func TestParseVariant(t *testing.T) {
	tests := []struct {
		in   string
		want Variant
	}{
		{"", Early},
		{"early", Early},
		{"A", Early},
		{"late", Late},
		{" b ", Late},
	}
	for _, tt := range tests {
		got, err := ParseVariant(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}

	_, err := ParseVariant("middle")
	assert.Error(t, err)
	assert.Equal(t, "Variant(7)", Variant(7).String())
}
