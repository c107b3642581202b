package middleware

import (
	"context"
	"regexp"

	"github.com/aretw0/tracebench/pkg/domain"
	"github.com/aretw0/tracebench/pkg/ports"
)

// Mask replaces redacted text.
const Mask = "***"

type redactionMiddleware struct {
	next     ports.TranscriptStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks matches of the
// patterns in the arguments and error of saved transcripts. Lines are stored
// as captured.
func NewRedactionMiddleware(patternStrings []string) Middleware {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		patterns[i] = regexp.MustCompile(p)
	}
	return func(next ports.TranscriptStore) ports.TranscriptStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}
}

func (m *redactionMiddleware) Save(ctx context.Context, tr *domain.Transcript) error {
	// The runner keeps using tr after Save.
	cloned := tr.Clone()
	for i, arg := range cloned.Args {
		cloned.Args[i] = m.mask(arg)
	}
	cloned.Error = m.mask(cloned.Error)

	return m.next.Save(ctx, cloned)
}

func (m *redactionMiddleware) mask(s string) string {
	for _, p := range m.patterns {
		s = p.ReplaceAllString(s, Mask)
	}
	return s
}

func (m *redactionMiddleware) Load(ctx context.Context, id string) (*domain.Transcript, error) {
	return m.next.Load(ctx, id)
}

func (m *redactionMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactionMiddleware) Close() error {
	return closeNext(m.next)
}
