package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"esgpick/pkg/esg"
)

// errCodeRateLimited is reported by the analyze rate limiter.
const errCodeRateLimited = "RATE_LIMITED"

// ErrorResponse is the body of every non-2xx API response.
type ErrorResponse struct {
	Code      int    `json:"code"`
	Message   string `json:"message"`
	ErrorCode string `json:"error_code,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

// writeErrorResponse writes err with a status derived from its code. For
// structured errors only the top-level message is exposed, so upstream
// details of a failed analysis stay in the server log.
func writeErrorResponse(w http.ResponseWriter, r *http.Request, httpStatus int, err error) {
	response := ErrorResponse{
		Code:      httpStatus,
		Message:   err.Error(),
		RequestID: middleware.GetReqID(r.Context()),
	}

	var esgErr *esg.Error
	if errors.As(err, &esgErr) {
		httpStatus = mapErrorCodeToHTTPStatus(esgErr.Code)
		response.Code = httpStatus
		response.ErrorCode = string(esgErr.Code)
		response.Message = esgErr.Message
	}

	recordErrorMessage(w, err.Error())
	writeJSON(w, httpStatus, response)
}

func writeRateLimited(w http.ResponseWriter, r *http.Request) {
	recordErrorMessage(w, "rate limited")
	writeJSON(w, http.StatusTooManyRequests, ErrorResponse{
		Code:      http.StatusTooManyRequests,
		Message:   "too many analysis requests, try again shortly",
		ErrorCode: errCodeRateLimited,
		RequestID: middleware.GetReqID(r.Context()),
	})
}

func recordErrorMessage(w http.ResponseWriter, message string) {
	if recorder, ok := w.(interface{ SetErrorMessage(string) }); ok {
		recorder.SetErrorMessage(message)
	}
}

// mapErrorCodeToHTTPStatus maps business error codes to HTTP status codes.
func mapErrorCodeToHTTPStatus(code esg.ErrorCode) int {
	switch code {
	case esg.ErrCodeInvalidInput, esg.ErrCodeValidation:
		return http.StatusBadRequest
	case esg.ErrCodeAnalysisFailed:
		return http.StatusBadGateway
	case esg.ErrCodeUnsupported:
		return http.StatusNotImplemented
	default:
		return http.StatusInternalServerError
	}
}
