package esg

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

type openAIGenerator struct {
	client openai.Client
	model  string
	logger *slog.Logger
}

func newOpenAIGenerator(opts Options) (*openAIGenerator, error) {
	baseURL, err := normalizeOpenAIBaseURL(opts.BaseURL)
	if err != nil {
		return nil, err
	}
	clientOpts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(opts.APIKey)),
		option.WithRequestTimeout(defaultDuration(opts.HTTPTimeout, defaultAnalyzeTimeout)),
		option.WithMaxRetries(0),
	}
	if baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}
	return &openAIGenerator{
		client: openai.NewClient(clientOpts...),
		model:  strings.TrimSpace(opts.Model),
		logger: opts.Logger,
	}, nil
}

// normalizeOpenAIBaseURL accepts a bare host, a /v1 base or a full
// chat-completions URL and returns the SDK base URL ("" for the SDK default).
func normalizeOpenAIBaseURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", nil
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "https://" + trimmed
	}
	trimmed = strings.TrimRight(trimmed, "/")
	lower := strings.ToLower(trimmed)
	switch {
	case strings.HasSuffix(lower, "/chat/completions"):
		trimmed = trimmed[:len(trimmed)-len("/chat/completions")]
	case strings.HasSuffix(lower, "/responses"):
		trimmed = trimmed[:len(trimmed)-len("/responses")]
	case !strings.HasSuffix(lower, "/v1"):
		trimmed += "/v1"
	}

	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", WrapError(ErrCodeInvalidInput, "invalid base_url", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid base_url scheme: %s", parsed.Scheme))
	}
	if parsed.Host == "" {
		return "", NewError(ErrCodeInvalidInput, "invalid base_url host")
	}
	return trimmed + "/", nil
}

func (g *openAIGenerator) Generate(ctx context.Context, req AnalysisRequest) (Generation, error) {
	prompt := buildReportUserPrompt(req)
	logPromptDebug(g.logger, ProviderOpenAI, g.model, prompt)

	completion, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(g.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(reportSystemPrompt),
			openai.UserMessage(prompt),
		},
		Temperature: openai.Float(0.2),
	})
	if err != nil {
		return Generation{}, fmt.Errorf("openai chat completion failed: %w", err)
	}
	if len(completion.Choices) == 0 {
		return Generation{}, fmt.Errorf("openai response has no choices")
	}

	model := strings.TrimSpace(completion.Model)
	if model == "" {
		model = g.model
	}
	return Generation{Model: model, Content: strings.TrimSpace(completion.Choices[0].Message.Content)}, nil
}

func logPromptDebug(logger *slog.Logger, provider, model, userPrompt string) {
	if logger == nil {
		logger = slog.Default()
	}
	logger.Debug("report prompt",
		"provider", provider,
		"model", model,
		"user_prompt", userPrompt,
	)
}
