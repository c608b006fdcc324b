package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"esgpick/pkg/esg"
)

const maxRequestBodySize = 1 << 20

func (h *handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok", Provider: h.core.Provider()})
}

func (h *handler) getStyles(w http.ResponseWriter, r *http.Request) {
	styles := make([]styleOption, 0, len(esg.Styles))
	for _, style := range esg.Styles {
		styles = append(styles, styleOption{Code: style, Label: style.Label()})
	}
	fields := make([]fieldOption, 0, len(esg.Fields))
	for _, field := range esg.Fields {
		fields = append(fields, fieldOption{Code: field, Label: field.Label(), Icon: field.Icon()})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"styles": styles,
		"fields": fields,
	})
}

func (h *handler) getDefaultWeights(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, esg.DefaultWeights())
}

func (h *handler) rebalanceWeights(w http.ResponseWriter, r *http.Request) {
	var payload rebalancePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	field, err := esg.ParseField(payload.Field)
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	current := esg.DefaultWeights()
	if payload.Weights != nil {
		current = *payload.Weights
	}
	writeJSON(w, http.StatusOK, esg.Rebalance(current, field, payload.Value))
}

func (h *handler) parseReport(w http.ResponseWriter, r *http.Request) {
	var payload parseReportPayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, esg.ParseReport(payload.Report))
}

func (h *handler) analyze(w http.ResponseWriter, r *http.Request) {
	var payload analyzePayload
	if err := decodeJSON(w, r, &payload); err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	style, err := esg.ParseInvestmentStyle(payload.InvestmentStyle)
	if err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	result, err := h.core.Analyze(r.Context(), esg.Preferences{
		Weights: esg.Weights{
			Environment: payload.Environment,
			Social:      payload.Social,
			Governance:  payload.Governance,
		},
		Style:  style,
		Source: payload.Source,
	})
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// analyzeRaw accepts the analysis service's own request shape and relays its
// report text, so existing clients of the service can point here instead.
func (h *handler) analyzeRaw(w http.ResponseWriter, r *http.Request) {
	var payload esg.AnalysisRequest
	if err := decodeJSON(w, r, &payload); err != nil {
		writeErrorResponse(w, r, http.StatusBadRequest, err)
		return
	}
	result, err := h.core.AnalyzeRaw(r.Context(), payload)
	if err != nil {
		writeErrorResponse(w, r, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, rawAnalysisResponse{Result: result})
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBodySize))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return esg.NewError(esg.ErrCodeInvalidInput, "request body is required")
		}
		return esg.WrapError(esg.ErrCodeInvalidInput, "invalid request body", err)
	}
	if decoder.More() {
		return esg.NewError(esg.ErrCodeInvalidInput, "request body must hold a single JSON object")
	}
	return nil
}
