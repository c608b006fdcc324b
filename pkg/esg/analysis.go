package esg

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	// DefaultSource is the evidence base requested from the analysis service.
	DefaultSource         = "뉴스, 공시"
	defaultAnalyzeTimeout = 60 * time.Second
)

// Options controls Core initialization.
type Options struct {
	Logger      *slog.Logger
	Provider    string
	ServiceURL  string
	BaseURL     string
	APIKey      string
	Model       string
	Source      string
	HTTPTimeout time.Duration
	// Generator replaces the provider-selected generator when set.
	Generator Generator
}

// Core runs analyses against the configured report generator.
type Core struct {
	logger    *slog.Logger
	generator Generator
	provider  string
	source    string
	timeout   time.Duration
}

// Preferences are the questionnaire answers of one session.
type Preferences struct {
	Weights Weights         `json:"weights"`
	Style   InvestmentStyle `json:"investment_style"`
	Source  string          `json:"source,omitempty"`
}

// AnalysisRequest is the analysis service's wire request.
type AnalysisRequest struct {
	UserStyle string `json:"user_style"`
	Env       int    `json:"env"`
	Soc       int    `json:"soc"`
	Gov       int    `json:"gov"`
	Source    string `json:"source"`
}

// AnalysisResult is one completed analysis, ready for the results view.
type AnalysisResult struct {
	ID              string      `json:"id"`
	GeneratedAt     string      `json:"generated_at"`
	Provider        string      `json:"provider"`
	Model           string      `json:"model"`
	Preferences     Preferences `json:"preferences"`
	FocusCategories []Field     `json:"focus_categories"`
	Report          *Report     `json:"report"`
	Raw             string      `json:"raw"`
}

// Open builds a Core from opts.
func Open(opts Options) (*Core, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	opts.Logger = logger
	opts.Provider = normalizeProvider(opts.Provider)
	opts.HTTPTimeout = defaultDuration(opts.HTTPTimeout, defaultAnalyzeTimeout)

	generator := opts.Generator
	if generator == nil {
		var err error
		generator, err = NewGenerator(opts)
		if err != nil {
			return nil, err
		}
	}

	source := strings.TrimSpace(opts.Source)
	if source == "" {
		source = DefaultSource
	}

	return &Core{
		logger:    logger,
		generator: generator,
		provider:  opts.Provider,
		source:    source,
		timeout:   opts.HTTPTimeout,
	}, nil
}

// Logger returns the core's logger.
func (c *Core) Logger() *slog.Logger {
	return c.logger
}

// Provider returns the active report provider name.
func (c *Core) Provider() string {
	return c.provider
}

// Validate checks the style and the weights invariant.
func (p Preferences) Validate() error {
	if !p.Style.Valid() {
		return NewError(ErrCodeInvalidInput, fmt.Sprintf("unknown investment style %q", p.Style))
	}
	return p.Weights.Validate()
}

// Request converts the preferences into the wire request.
func (p Preferences) Request(defaultSource string) (AnalysisRequest, error) {
	if err := p.Validate(); err != nil {
		return AnalysisRequest{}, err
	}
	source := strings.TrimSpace(p.Source)
	if source == "" {
		source = defaultSource
	}
	return AnalysisRequest{
		UserStyle: p.Style.Label(),
		Env:       p.Weights.Environment,
		Soc:       p.Weights.Social,
		Gov:       p.Weights.Governance,
		Source:    source,
	}, nil
}

// Weights returns the request's ESG split.
func (r AnalysisRequest) Weights() Weights {
	return Weights{Environment: r.Env, Social: r.Soc, Governance: r.Gov}
}

// Validate checks a wire request received from a client.
func (r AnalysisRequest) Validate() error {
	if _, err := ParseInvestmentStyle(r.UserStyle); err != nil {
		return err
	}
	return r.Weights().Validate()
}

// Analyze requests a report for prefs and parses it.
func (c *Core) Analyze(ctx context.Context, prefs Preferences) (*AnalysisResult, error) {
	req, err := prefs.Request(c.source)
	if err != nil {
		return nil, err
	}
	prefs.Source = req.Source

	generation, err := c.generate(ctx, req)
	if err != nil {
		return nil, err
	}

	report := ParseReport(generation.Content)
	c.logger.Info("analysis completed",
		"provider", c.provider,
		"model", generation.Model,
		"companies", len(report.Companies),
		"news_links", len(report.NewsLinks),
		"empty", report.Empty,
	)

	return &AnalysisResult{
		ID:              uuid.NewString(),
		GeneratedAt:     time.Now().UTC().Format(time.RFC3339),
		Provider:        c.provider,
		Model:           generation.Model,
		Preferences:     prefs,
		FocusCategories: prefs.Weights.FocusCategories(),
		Report:          report,
		Raw:             generation.Content,
	}, nil
}

// AnalyzeRaw forwards a wire request and returns the report text unparsed.
func (c *Core) AnalyzeRaw(ctx context.Context, req AnalysisRequest) (string, error) {
	if err := req.Validate(); err != nil {
		return "", err
	}
	// Clients may send the style code; upstream only understands the label.
	style, _ := ParseInvestmentStyle(req.UserStyle)
	req.UserStyle = style.Label()
	if strings.TrimSpace(req.Source) == "" {
		req.Source = c.source
	}
	generation, err := c.generate(ctx, req)
	if err != nil {
		return "", err
	}
	return generation.Content, nil
}

func (c *Core) generate(ctx context.Context, req AnalysisRequest) (Generation, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	c.logger.Debug("analysis requested",
		"provider", c.provider,
		"user_style", req.UserStyle,
		"env", req.Env,
		"soc", req.Soc,
		"gov", req.Gov,
		"source", req.Source,
	)
	generation, err := c.generator.Generate(ctx, req)
	if err != nil {
		c.logger.Error("analysis failed", "provider", c.provider, "err", err)
		return Generation{}, WrapError(ErrCodeAnalysisFailed, "analysis failed", err)
	}
	return generation, nil
}

func defaultDuration(v time.Duration, fallback time.Duration) time.Duration {
	if v <= 0 {
		return fallback
	}
	return v
}
