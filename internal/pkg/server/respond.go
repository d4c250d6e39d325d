package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

type errorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("encoding response failed", zap.Error(err))
	}
}

// fail logs the underlying error and returns the JSON error envelope. The
// message is human-readable; stack traces never reach the browser.
func (s *Server) fail(w http.ResponseWriter, status int, message string, err error) {
	if err != nil {
		s.logger.Error(message, zap.Error(err))
	} else {
		s.logger.Warn(message)
	}
	writeJSON(w, status, errorEnvelope{Success: false, Error: message})
}
