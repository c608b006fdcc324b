package esg

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"google.golang.org/genai"
)

const defaultGeminiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

type geminiGenerator struct {
	config *genai.ClientConfig
	model  string
	logger *slog.Logger
}

func newGeminiGenerator(opts Options) (*geminiGenerator, error) {
	config, err := buildGeminiClientConfig(opts.BaseURL, opts.APIKey)
	if err != nil {
		return nil, err
	}
	return &geminiGenerator{
		config: config,
		model:  strings.TrimSpace(opts.Model),
		logger: opts.Logger,
	}, nil
}

func (g *geminiGenerator) Generate(ctx context.Context, req AnalysisRequest) (Generation, error) {
	prompt := buildReportUserPrompt(req)
	logPromptDebug(g.logger, ProviderGemini, g.model, prompt)

	client, err := genai.NewClient(ctx, g.config)
	if err != nil {
		return Generation{}, fmt.Errorf("create gemini client failed: %w", err)
	}

	response, err := client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: reportSystemPrompt}},
		},
		Temperature:     genai.Ptr(float32(0.2)),
		MaxOutputTokens: reportMaxOutputTokens,
	})
	if err != nil {
		return Generation{}, fmt.Errorf("gemini generate content failed: %w", err)
	}

	model := strings.TrimSpace(response.ModelVersion)
	if model == "" {
		model = g.model
	}
	return Generation{Model: model, Content: strings.TrimSpace(response.Text())}, nil
}

func buildGeminiClientConfig(endpoint, apiKey string) (*genai.ClientConfig, error) {
	baseURL, apiVersion, err := parseGeminiBaseURLAndVersion(endpoint)
	if err != nil {
		return nil, err
	}
	return &genai.ClientConfig{
		APIKey:  strings.TrimSpace(apiKey),
		Backend: genai.BackendGeminiAPI,
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    baseURL,
			APIVersion: apiVersion,
		},
	}, nil
}

// parseGeminiBaseURLAndVersion splits an endpoint such as
// https://host/prefix/v1beta into "https://host/prefix/" and "v1beta".
func parseGeminiBaseURLAndVersion(endpoint string) (string, string, error) {
	trimmed := strings.TrimSpace(endpoint)
	if trimmed == "" {
		trimmed = defaultGeminiBaseURL
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", "", WrapError(ErrCodeInvalidInput, "invalid gemini endpoint", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", "", NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid gemini endpoint scheme: %s", parsed.Scheme))
	}
	if parsed.Host == "" {
		return "", "", NewError(ErrCodeInvalidInput, "invalid gemini endpoint host")
	}

	var segments []string
	if path := strings.Trim(parsed.Path, "/"); path != "" {
		segments = strings.Split(path, "/")
	}

	apiVersion := "v1beta"
	prefix := segments
	for idx, segment := range segments {
		if strings.HasPrefix(strings.ToLower(segment), "v1") {
			apiVersion = segment
			prefix = segments[:idx]
			break
		}
	}

	baseURL := fmt.Sprintf("%s://%s/", parsed.Scheme, parsed.Host)
	if basePath := strings.Join(prefix, "/"); basePath != "" {
		baseURL += basePath + "/"
	}
	return baseURL, apiVersion, nil
}
