package mobile

import (
	"context"
	"encoding/json"

	"esgpick/pkg/esg"
)

// Core wraps the ESG analysis core for gomobile bindings. Every method takes
// and returns JSON strings since bindings cannot carry Go structs.
type Core struct {
	core *esg.Core
}

// Open initializes a core that calls the analysis service at serviceURL.
// An empty URL uses the built-in sample report instead.
func Open(serviceURL string) (*Core, error) {
	opts := esg.Options{Provider: esg.ProviderService, ServiceURL: serviceURL}
	if serviceURL == "" {
		opts.Provider = esg.ProviderSample
	}
	core, err := esg.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Core{core: core}, nil
}

// Close releases resources.
func (c *Core) Close() error {
	if c == nil {
		return nil
	}
	c.core = nil
	return nil
}

// AnalyzeJSON runs an analysis for a preferences payload and returns the
// result as JSON.
func (c *Core) AnalyzeJSON(prefsJSON string) (string, error) {
	if c == nil || c.core == nil {
		return "", esg.NewError(esg.ErrCodeInvalidInput, "core is closed")
	}
	var payload preferencesPayload
	if err := json.Unmarshal([]byte(prefsJSON), &payload); err != nil {
		return "", esg.WrapError(esg.ErrCodeInvalidInput, "invalid preferences JSON", err)
	}
	style, err := esg.ParseInvestmentStyle(payload.InvestmentStyle)
	if err != nil {
		return "", err
	}
	result, err := c.core.Analyze(context.Background(), esg.Preferences{
		Weights: esg.Weights{
			Environment: payload.Environment,
			Social:      payload.Social,
			Governance:  payload.Governance,
		},
		Style:  style,
		Source: payload.Source,
	})
	if err != nil {
		return "", err
	}
	return marshalJSON(result)
}

// DefaultWeightsJSON returns the initial slider positions.
func DefaultWeightsJSON() (string, error) {
	return marshalJSON(esg.DefaultWeights())
}

// RebalanceJSON moves one slider and returns the adjusted weights. An empty
// weightsJSON starts from the defaults.
func RebalanceJSON(weightsJSON, field string, value int) (string, error) {
	current := esg.DefaultWeights()
	if weightsJSON != "" {
		if err := json.Unmarshal([]byte(weightsJSON), &current); err != nil {
			return "", esg.WrapError(esg.ErrCodeInvalidInput, "invalid weights JSON", err)
		}
	}
	f, err := esg.ParseField(field)
	if err != nil {
		return "", err
	}
	return marshalJSON(esg.Rebalance(current, f, value))
}

// ParseReportJSON parses report text into its structured JSON form.
func ParseReportJSON(text string) (string, error) {
	return marshalJSON(esg.ParseReport(text))
}

// StylesJSON lists the investment styles and ESG fields for the questionnaire.
func StylesJSON() (string, error) {
	out := catalog{}
	for _, s := range esg.Styles {
		out.Styles = append(out.Styles, option{Code: string(s), Label: s.Label()})
	}
	for _, f := range esg.Fields {
		out.Fields = append(out.Fields, option{Code: string(f), Label: f.Label(), Icon: f.Icon()})
	}
	return marshalJSON(out)
}

func marshalJSON(value any) (string, error) {
	data, err := json.Marshal(value)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

type preferencesPayload struct {
	InvestmentStyle string `json:"investment_style"`
	Environment     int    `json:"environment"`
	Social          int    `json:"social"`
	Governance      int    `json:"governance"`
	Source          string `json:"source"`
}

type option struct {
	Code  string `json:"code"`
	Label string `json:"label"`
	Icon  string `json:"icon,omitempty"`
}

type catalog struct {
	Styles []option `json:"styles"`
	Fields []option `json:"fields"`
}
