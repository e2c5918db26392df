package httputil

import (
	"net/http"

	"github.com/bytedance/sonic"
)

type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind,omitempty"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string, details error) {
	writeError(w, ErrorResponse{Code: statusCode, Message: message}, details)
}

// WriteErrorKindResponse carries a machine-readable kind alongside the
// message, for conditions a client must dispatch on (partial_completion).
func WriteErrorKindResponse(w http.ResponseWriter, statusCode int, kind, message string, details error) {
	writeError(w, ErrorResponse{Code: statusCode, Kind: kind, Message: message}, details)
}

func writeError(w http.ResponseWriter, resp ErrorResponse, details error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(resp.Code)

	if details != nil {
		resp.Details = details.Error()
	}

	sonic.ConfigFastest.NewEncoder(w).Encode(resp)
}

func WriteJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body != nil {
		sonic.ConfigDefault.NewEncoder(w).Encode(body)
	}
}
