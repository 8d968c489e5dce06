// Package server exposes the recognition and categorization pipeline
// over HTTP.
package server

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ledgerlens/ledgerlens/internal/classifier"
	"github.com/ledgerlens/ledgerlens/internal/config"
	"github.com/ledgerlens/ledgerlens/internal/engine"
	"github.com/ledgerlens/ledgerlens/internal/fusion"
)

// recognizer is the slice of the local engine the server needs; tests
// substitute a stub.
type recognizer interface {
	ExtractText(ctx context.Context, data []byte, opts engine.Options) (*engine.Result, error)
}

// dualRecognizer runs both the local and the backend branch.
type dualRecognizer interface {
	Recognize(ctx context.Context, data []byte, opts fusion.Options) (*fusion.Result, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	engine       recognizer
	orchestrator dualRecognizer
	classifier   *classifier.Classifier
	cfg          *config.Config
	startedAt    time.Time
}

// apiResponse is the envelope every JSON endpoint uses.
type apiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// StatusResponse is the /api/status payload.
type StatusResponse struct {
	Service           string   `json:"service"`
	Version           string   `json:"version"`
	UptimeSec         int64    `json:"uptime_sec"`
	ClassifierTrained bool     `json:"classifier_trained"`
	TrainingExamples  int      `json:"training_examples"`
	Languages         []string `json:"languages"`
	BackendURL        string   `json:"backend_url"`
}

// NewServer wires the pipeline from the configuration. The classifier
// is loaded from the configured model path when one is set, otherwise
// trained on the built-in default set.
func NewServer(cfg *config.Config) (*Server, error) {
	eng := engine.New()
	client := fusion.NewClient(cfg.Backend.BaseURL, time.Duration(cfg.Backend.TimeoutSec)*time.Second)

	cls := classifier.New()
	if cfg.Classifier.ModelPath != "" {
		if err := cls.Load(cfg.Classifier.ModelPath); err != nil {
			return nil, err
		}
	}
	if !cls.Trained() {
		if _, err := cls.Train(nil); err != nil {
			return nil, err
		}
	}

	return &Server{
		engine:       eng,
		orchestrator: fusion.New(eng, client, cfg.OCR.TempDir),
		classifier:   cls,
		cfg:          cfg,
		startedAt:    time.Now(),
	}, nil
}

// Classifier exposes the classifier so the serve command can persist
// it on shutdown.
func (s *Server) Classifier() *classifier.Classifier { return s.classifier }

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.middleware(s.healthHandler))
	mux.HandleFunc("/api/status", s.middleware(s.statusHandler))

	mux.HandleFunc("/api/ocr/extract", s.middleware(s.ocrExtractHandler))
	mux.HandleFunc("/api/ocr/receipt", s.middleware(s.ocrReceiptHandler))
	mux.HandleFunc("/api/ocr/recognize", s.middleware(s.ocrRecognizeHandler))

	mux.HandleFunc("/api/categorize/transaction", s.middleware(s.categorizeHandler))
	mux.HandleFunc("/api/categorize/batch", s.middleware(s.categorizeBatchHandler))
	mux.HandleFunc("/api/categorize/feedback", s.middleware(s.feedbackHandler))
	mux.HandleFunc("/api/categories", s.middleware(s.categoriesHandler))
	mux.HandleFunc("/api/categories/stats", s.middleware(s.categoryStatsHandler))

	mux.Handle("/metrics", promhttp.Handler())
}

func (s *Server) maxUploadBytes() int64 {
	return s.cfg.Server.MaxUploadMB * 1024 * 1024
}
