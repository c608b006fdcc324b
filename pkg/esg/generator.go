package esg

import (
	"context"
	"fmt"
	"strings"
)

// Report providers.
const (
	ProviderService   = "service"
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
	ProviderGemini    = "gemini"
	ProviderSample    = "sample"
)

// Providers lists the supported provider names.
var Providers = []string{ProviderService, ProviderOpenAI, ProviderAnthropic, ProviderGemini, ProviderSample}

// Generator produces report text for an analysis request.
type Generator interface {
	Generate(ctx context.Context, req AnalysisRequest) (Generation, error)
}

// Generation is the raw output of a Generator.
type Generation struct {
	Model   string
	Content string
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx context.Context, req AnalysisRequest) (Generation, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req AnalysisRequest) (Generation, error) {
	return f(ctx, req)
}

// NewGenerator selects the generator for opts.Provider.
func NewGenerator(opts Options) (Generator, error) {
	provider := normalizeProvider(opts.Provider)
	switch provider {
	case ProviderService:
		return newServiceClient(opts)
	case ProviderSample:
		return sampleGenerator{}, nil
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		if strings.TrimSpace(opts.APIKey) == "" {
			return nil, NewError(ErrCodeInvalidInput, fmt.Sprintf("%s provider requires an API key", provider))
		}
		if strings.TrimSpace(opts.Model) == "" {
			return nil, NewError(ErrCodeInvalidInput, fmt.Sprintf("%s provider requires a model", provider))
		}
	default:
		return nil, NewError(ErrCodeUnsupported, fmt.Sprintf("unsupported report provider %q", opts.Provider))
	}

	switch provider {
	case ProviderOpenAI:
		return newOpenAIGenerator(opts)
	case ProviderAnthropic:
		return newAnthropicGenerator(opts), nil
	default:
		return newGeminiGenerator(opts)
	}
}

func normalizeProvider(raw string) string {
	provider := strings.ToLower(strings.TrimSpace(raw))
	if provider == "" {
		return ProviderService
	}
	return provider
}
