package esg

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const (
	// DefaultServiceURL is the analysis service endpoint used when none is configured.
	DefaultServiceURL          = "http://127.0.0.1:8002/analyze"
	maxServiceResponseBodySize = 2 << 20
)

// serviceClient calls the external analysis service.
type serviceClient struct {
	endpoint string
	client   *http.Client
	logger   *slog.Logger
}

type serviceResponse struct {
	Result *string `json:"result"`
}

func newServiceClient(opts Options) (*serviceClient, error) {
	endpoint, err := normalizeServiceURL(opts.ServiceURL)
	if err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &serviceClient{
		endpoint: endpoint,
		client:   &http.Client{Timeout: defaultDuration(opts.HTTPTimeout, defaultAnalyzeTimeout)},
		logger:   logger,
	}, nil
}

func normalizeServiceURL(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return DefaultServiceURL, nil
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", WrapError(ErrCodeInvalidInput, "invalid service_url", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return "", NewError(ErrCodeInvalidInput, fmt.Sprintf("invalid service_url scheme: %s", parsed.Scheme))
	}
	if parsed.Host == "" {
		return "", NewError(ErrCodeInvalidInput, "invalid service_url host")
	}
	return trimmed, nil
}

func (s *serviceClient) Generate(ctx context.Context, req AnalysisRequest) (Generation, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return Generation{}, fmt.Errorf("marshal analysis request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, s.endpoint, bytes.NewReader(body))
	if err != nil {
		return Generation{}, fmt.Errorf("build analysis request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := s.client.Do(httpReq)
	if err != nil {
		return Generation{}, fmt.Errorf("analysis service request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxServiceResponseBodySize))
	if err != nil {
		return Generation{}, fmt.Errorf("read analysis response: %w", err)
	}

	s.logger.Debug("analysis service response",
		"endpoint", s.endpoint,
		"status_code", resp.StatusCode,
		"body_bytes", len(respBody),
		"duration_ms", time.Since(start).Milliseconds(),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return Generation{}, fmt.Errorf("analysis service upstream error: status %d", resp.StatusCode)
	}

	var payload serviceResponse
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return Generation{}, fmt.Errorf("decode analysis response: %w", err)
	}
	if payload.Result == nil {
		return Generation{}, fmt.Errorf("analysis service response has no result")
	}
	// An empty result is a valid "nothing to recommend" answer.
	return Generation{Model: ProviderService, Content: *payload.Result}, nil
}
