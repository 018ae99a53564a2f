package describe

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/luminabooks/bookadmin/internal/providers"
	"github.com/stretchr/testify/assert"
)

type fakeProvider struct {
	text  string
	err   error
	delay time.Duration
	got   providers.Request
	calls int
}

func (f *fakeProvider) GenerateText(ctx context.Context, req providers.Request) (string, error) {
	f.calls++
	f.got = req
	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return "", ctx.Err()
		}
	}
	return f.text, f.err
}

func TestGenerate(t *testing.T) {
	tests := []struct {
		name     string
		provider *fakeProvider
		expected string
	}{
		{
			name:     "returns provider text",
			provider: &fakeProvider{text: "  An unforgettable journey.  "},
			expected: "An unforgettable journey.",
		},
		{
			name:     "strips quotes and fences",
			provider: &fakeProvider{text: "```text\n\"An unforgettable journey.\"\n```"},
			expected: "An unforgettable journey.",
		},
		{
			name:     "missing credential",
			provider: &fakeProvider{err: fmt.Errorf("no key: %w", providers.ErrMissingCredential)},
			expected: MissingKeyText,
		},
		{
			name:     "transport failure",
			provider: &fakeProvider{err: errors.New("connection refused")},
			expected: FailureText,
		},
		{
			name:     "empty response",
			provider: &fakeProvider{text: "   "},
			expected: EmptyText,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := New(tt.provider, Options{Model: "m", Temperature: 0.7})
			result := g.Generate(context.Background(), "Foo", "Bar", "Mystery")
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, "m", tt.provider.got.Model)
			assert.Equal(t, Prompt("Foo", "Bar", "Mystery"), tt.provider.got.Prompt)
		})
	}
}

func TestGenerateWithoutProvider(t *testing.T) {
	g := New(nil, Options{})
	assert.Equal(t, MissingKeyText, g.Generate(context.Background(), "Foo", "Bar", "Fiction"))
}

func TestGenerateTimeout(t *testing.T) {
	p := &fakeProvider{text: "late", delay: time.Second}
	g := New(p, Options{Timeout: 10 * time.Millisecond})

	assert.Equal(t, FailureText, g.Generate(context.Background(), "Foo", "Bar", "Fiction"))
}

func TestGenerateRateLimited(t *testing.T) {
	p := &fakeProvider{text: "ok"}
	g := New(p, Options{PerMinute: 1})

	assert.Equal(t, "ok", g.Generate(context.Background(), "Foo", "Bar", "Fiction"))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	assert.Equal(t, FailureText, g.Generate(ctx, "Foo", "Bar", "Fiction"))
	assert.Equal(t, 1, p.calls)
}

func TestPromptMentionsBook(t *testing.T) {
	prompt := Prompt("Dune", "Frank Herbert", "Sci-Fi")
	assert.Contains(t, prompt, `"Dune"`)
	assert.Contains(t, prompt, `"Frank Herbert"`)
	assert.Contains(t, prompt, `"Sci-Fi" genre`)
	assert.Contains(t, prompt, "max 80 words")
}
