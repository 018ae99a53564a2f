package providers

import (
	"context"
	"errors"
)

// ErrMissingCredential is returned when a provider has no API key configured
var ErrMissingCredential = errors.New("missing provider credential")

// Request is a single text generation call
type Request struct {
	Model       string
	Temperature float64
	Prompt      string
}

// Provider defines the interface for an LLM text generation backend
type Provider interface {
	GenerateText(ctx context.Context, req Request) (string, error)
}
