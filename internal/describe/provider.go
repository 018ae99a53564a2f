package describe

import (
	"fmt"

	"github.com/luminabooks/bookadmin/internal/gemini"
	"github.com/luminabooks/bookadmin/internal/ollama"
	"github.com/luminabooks/bookadmin/internal/openai"
	"github.com/luminabooks/bookadmin/internal/providers"
)

// ProviderConfig selects and configures a text generation backend
type ProviderConfig struct {
	Name         string
	GeminiAPIKey string
	OpenAIAPIKey string
	OpenAIURL    string
	OllamaURL    string
}

// NewProvider builds the configured provider. Missing credentials are not an
// error here; they surface as placeholder text at generation time.
func NewProvider(cfg ProviderConfig) (providers.Provider, error) {
	switch cfg.Name {
	case "", "gemini":
		return gemini.New(cfg.GeminiAPIKey), nil
	case "openai":
		return openai.New(cfg.OpenAIAPIKey, cfg.OpenAIURL), nil
	case "ollama":
		return ollama.New(cfg.OllamaURL), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %s", cfg.Name)
	}
}
