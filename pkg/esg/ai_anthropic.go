package esg

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

type anthropicGenerator struct {
	client anthropic.Client
	model  string
	logger *slog.Logger
}

func newAnthropicGenerator(opts Options) *anthropicGenerator {
	clientOpts := []option.RequestOption{
		option.WithAPIKey(strings.TrimSpace(opts.APIKey)),
		option.WithRequestTimeout(defaultDuration(opts.HTTPTimeout, defaultAnalyzeTimeout)),
		option.WithMaxRetries(0),
	}
	if baseURL := strings.TrimSpace(opts.BaseURL); baseURL != "" {
		clientOpts = append(clientOpts, option.WithBaseURL(baseURL))
	}
	return &anthropicGenerator{
		client: anthropic.NewClient(clientOpts...),
		model:  strings.TrimSpace(opts.Model),
		logger: opts.Logger,
	}
}

func (g *anthropicGenerator) Generate(ctx context.Context, req AnalysisRequest) (Generation, error) {
	prompt := buildReportUserPrompt(req)
	logPromptDebug(g.logger, ProviderAnthropic, g.model, prompt)

	msg, err := g.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(g.model),
		MaxTokens: reportMaxOutputTokens,
		System:    []anthropic.TextBlockParam{{Text: reportSystemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
		Temperature: anthropic.Float(0.2),
	})
	if err != nil {
		return Generation{}, fmt.Errorf("anthropic create message failed: %w", err)
	}

	var content strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}

	model := strings.TrimSpace(string(msg.Model))
	if model == "" {
		model = g.model
	}
	return Generation{Model: model, Content: strings.TrimSpace(content.String())}, nil
}
