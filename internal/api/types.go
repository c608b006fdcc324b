package api

import "esgpick/pkg/esg"

type rebalancePayload struct {
	// Weights defaults to the initial split when omitted.
	Weights *esg.Weights `json:"weights"`
	Field   string       `json:"field"`
	Value   int          `json:"value"`
}

type parseReportPayload struct {
	Report string `json:"report"`
}

type analyzePayload struct {
	InvestmentStyle string `json:"investment_style"`
	Environment     int    `json:"environment"`
	Social          int    `json:"social"`
	Governance      int    `json:"governance"`
	Source          string `json:"source"`
}

type styleOption struct {
	Code  esg.InvestmentStyle `json:"code"`
	Label string              `json:"label"`
}

type fieldOption struct {
	Code  esg.Field `json:"code"`
	Label string    `json:"label"`
	Icon  string    `json:"icon"`
}

type healthResponse struct {
	Status   string `json:"status"`
	Provider string `json:"provider"`
}

type rawAnalysisResponse struct {
	Result string `json:"result"`
}
