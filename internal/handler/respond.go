// Package handler provides shared response helpers for the JSON API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/LucasAlvarez99/LA-PICADA/internal/domain"
	"github.com/LucasAlvarez99/LA-PICADA/internal/middleware"
)

// RespondJSON writes v as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// ErrorBody is the JSON shape of every error response. Fields carries
// per-field validation messages when present.
type ErrorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Fields  map[string]string `json:"fields,omitempty"`
	} `json:"error"`
}

// RespondError writes a structured JSON error response and logs it with the
// request-scoped logger. Validation errors include the per-field messages.
func RespondError(w http.ResponseWriter, r *http.Request, err error) {
	code := domain.ErrorCode(err)
	status := ErrorCodeToHTTPStatus(code)

	logger := middleware.GetLogger(r.Context())
	if status >= 500 {
		logger.Error("request failed", "error", err, "code", code, "status", status)
	} else {
		logger.Info("request rejected", "error", err, "code", code, "status", status)
	}

	var body ErrorBody
	body.Error.Code = code
	body.Error.Message = domain.ErrorMessage(err)
	if fields := domain.GetValidationFields(err); len(fields) > 0 {
		body.Error.Fields = fields
	}

	RespondJSON(w, status, body)
}

// ErrorCodeToHTTPStatus maps domain error codes to HTTP status codes.
func ErrorCodeToHTTPStatus(code string) int {
	switch code {
	case domain.EINVALID:
		return http.StatusBadRequest
	case domain.ENOTFOUND:
		return http.StatusNotFound
	case domain.ECONFLICT:
		return http.StatusConflict
	case domain.EUNAVAILABLE:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
