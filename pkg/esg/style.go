package esg

import (
	"fmt"
	"strings"
)

// InvestmentStyle is the user's risk appetite.
type InvestmentStyle string

const (
	StyleAggressive   InvestmentStyle = "aggressive"
	StyleNeutral      InvestmentStyle = "neutral"
	StyleConservative InvestmentStyle = "conservative"
)

// Styles lists the selectable styles in questionnaire order.
var Styles = []InvestmentStyle{StyleAggressive, StyleNeutral, StyleConservative}

var styleLabels = map[InvestmentStyle]string{
	StyleAggressive:   "공격적",
	StyleNeutral:      "중립적",
	StyleConservative: "보수적",
}

// ParseInvestmentStyle accepts a style code or its Korean label.
func ParseInvestmentStyle(raw string) (InvestmentStyle, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", NewError(ErrCodeInvalidInput, "investment style is required")
	}
	code := InvestmentStyle(strings.ToLower(trimmed))
	if _, ok := styleLabels[code]; ok {
		return code, nil
	}
	for style, label := range styleLabels {
		if label == trimmed {
			return style, nil
		}
	}
	return "", NewError(ErrCodeInvalidInput, fmt.Sprintf("unknown investment style %q", raw))
}

// Valid reports whether s is a known style.
func (s InvestmentStyle) Valid() bool {
	_, ok := styleLabels[s]
	return ok
}

// Label returns the Korean label the analysis service expects in user_style.
func (s InvestmentStyle) Label() string {
	return styleLabels[s]
}
