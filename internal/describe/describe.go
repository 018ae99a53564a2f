// Package describe produces marketing copy for books.
//
// Generation is best-effort: Generate always returns display text. Missing
// credentials, transport failures and empty responses are folded into fixed
// placeholder strings so callers never branch on an error.
package describe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/luminabooks/bookadmin/internal/metrics"
	"github.com/luminabooks/bookadmin/internal/providers"
	"golang.org/x/time/rate"
)

const (
	MissingKeyText = "API Key missing. Cannot generate description."
	FailureText    = "Failed to generate description due to an error."
	EmptyText      = "No description generated."
)

// Options tunes a Generator
type Options struct {
	Model       string
	Temperature float64
	// Timeout bounds a single provider call. Zero means no extra bound.
	Timeout time.Duration
	// PerMinute caps provider calls. Zero disables limiting.
	PerMinute int
}

// Generator wraps a text provider with the never-fail contract
type Generator struct {
	provider providers.Provider
	opts     Options
	limiter  *rate.Limiter
}

// New returns a Generator. A nil provider behaves as an unconfigured
// credential.
func New(provider providers.Provider, opts Options) *Generator {
	g := &Generator{provider: provider, opts: opts}
	if opts.PerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.PerMinute)), opts.PerMinute)
	}
	return g
}

// Prompt builds the marketing copy request for a book
func Prompt(title, author, category string) string {
	return fmt.Sprintf(`Write a compelling, short marketing description (max 80 words) for a book titled "%s" by "%s" in the "%s" genre. Make it sound intriguing for a bookstore website.`,
		title, author, category)
}

// Generate returns marketing copy for the book, or a placeholder.
func (g *Generator) Generate(ctx context.Context, title, author, category string) string {
	if g.provider == nil {
		metrics.RecordDescription("missing_key")
		return MissingKeyText
	}

	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			slog.Warn("Description generation throttled", "title", title, "err", err)
			metrics.RecordDescription("error")
			return FailureText
		}
	}

	if g.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, g.opts.Timeout)
		defer cancel()
	}

	text, err := g.provider.GenerateText(ctx, providers.Request{
		Model:       g.opts.Model,
		Temperature: g.opts.Temperature,
		Prompt:      Prompt(title, author, category),
	})
	if err != nil {
		if errors.Is(err, providers.ErrMissingCredential) {
			slog.Warn("Description provider has no credential; AI features will not work")
			metrics.RecordDescription("missing_key")
			return MissingKeyText
		}
		slog.Error("Description generation failed", "title", title, "err", err)
		metrics.RecordDescription("error")
		return FailureText
	}

	text = clean(text)
	if text == "" {
		metrics.RecordDescription("empty")
		return EmptyText
	}
	metrics.RecordDescription("ok")
	slog.Debug("Description generated", "title", title, "length", len(text))
	return text
}

// clean strips markdown fences and wrapping quotes some models add
func clean(text string) string {
	text = strings.TrimSpace(text)
	if strings.HasPrefix(text, "```") {
		text = strings.TrimPrefix(text, "```")
		if i := strings.Index(text, "\n"); i >= 0 && !strings.Contains(text[:i], " ") {
			text = text[i+1:]
		}
		text = strings.TrimSuffix(strings.TrimSpace(text), "```")
	}
	text = strings.TrimSpace(text)
	if len(text) >= 2 && text[0] == '"' && text[len(text)-1] == '"' {
		text = strings.TrimSpace(text[1 : len(text)-1])
	}
	return text
}
