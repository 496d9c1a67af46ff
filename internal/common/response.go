package common

import (
	"encoding/json"
	"net/http"

	"p2v/internal/platform/logger"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func RespondWithError(w http.ResponseWriter, code int, message string) {
	RespondWithJSON(w, code, ErrorResponse{Error: message})
}

// RespondWithAppError renders err with its mapped status. Unclassified
// failures are logged and rendered without detail.
func RespondWithAppError(w http.ResponseWriter, log *logger.Logger, err error) {
	code := HTTPStatusFromError(err)
	if code == http.StatusInternalServerError && log != nil {
		log.Error("request failed", "error", err)
	}
	if code == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	RespondWithError(w, code, PublicMessage(err))
}

func RespondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": "Failed to marshal JSON response"}`))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}
