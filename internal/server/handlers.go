package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/ledgerlens/ledgerlens/internal/engine"
	"github.com/ledgerlens/ledgerlens/internal/version"
)

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	})
}

// statusHandler reports service state for dashboards.
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: StatusResponse{
		Service:           "ledgerlens",
		Version:           version.Version,
		UptimeSec:         int64(time.Since(s.startedAt).Seconds()),
		ClassifierTrained: s.classifier.Trained(),
		TrainingExamples:  s.classifier.ExampleCount(),
		Languages:         engine.SupportedLanguages,
		BackendURL:        s.cfg.Backend.BaseURL,
	}})
}

// writeJSON encodes v as the response body with the given status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encoding response failed", "error", err)
	}
}

// writeErrorResponse writes a JSON error envelope.
func writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	writeJSON(w, statusCode, apiResponse{Success: false, Error: message})
}
