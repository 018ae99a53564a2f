package gemini

import (
	"context"
	"testing"

	"github.com/luminabooks/bookadmin/internal/providers"
	"github.com/stretchr/testify/assert"
)

func TestGenerateTextWithoutKey(t *testing.T) {
	g := New("")

	text, err := g.GenerateText(context.Background(), providers.Request{Prompt: "hello"})

	assert.Empty(t, text)
	assert.ErrorIs(t, err, providers.ErrMissingCredential)
}
