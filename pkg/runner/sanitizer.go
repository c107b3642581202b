package runner

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// DefaultMaxArgSize is 4KB per argument.
	DefaultMaxArgSize = 4096
	// MaxArgs bounds the argument count; callchain loops (argc+2)*2 times.
	MaxArgs = 64
	// EnvMaxArgSize is the environment variable to override the default
	EnvMaxArgSize = "TRACEBENCH_MAX_ARG_SIZE"
)

var (
	ErrArgTooLarge = errors.New("argument exceeds maximum allowed size")
	ErrTooManyArgs = errors.New("too many arguments")
	ErrInvalidUTF8 = errors.New("argument contains invalid UTF-8 sequences")
)

// SanitizeArgs enforces size limits, validates UTF-8 and strips control
// characters from fixture arguments before they reach a process.
func SanitizeArgs(args []string) ([]string, error) {
	if len(args) > MaxArgs {
		return nil, fmt.Errorf("%w: count=%d limit=%d", ErrTooManyArgs, len(args), MaxArgs)
	}

	limit := getMaxArgSize()
	out := make([]string, 0, len(args))
	for i, arg := range args {
		// Reject rather than truncate so the run stays reproducible.
		if len(arg) > limit {
			return nil, fmt.Errorf("%w: index=%d size=%d limit=%d", ErrArgTooLarge, i, len(arg), limit)
		}
		if !utf8.ValidString(arg) {
			return nil, fmt.Errorf("%w: index=%d", ErrInvalidUTF8, i)
		}
		out = append(out, stripControl(arg))
	}
	return out, nil
}

func stripControl(s string) string {
	if strings.IndexFunc(s, unicode.IsControl) < 0 {
		return s
	}

	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if !unicode.IsControl(r) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func getMaxArgSize() int {
	if val := os.Getenv(EnvMaxArgSize); val != "" {
		if size, err := strconv.Atoi(val); err == nil && size > 0 {
			return size
		}
	}
	return DefaultMaxArgSize
}
