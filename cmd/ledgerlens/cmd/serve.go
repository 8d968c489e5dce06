package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerlens/ledgerlens/internal/server"
)

// serveCmd represents the serve command.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP server exposing the recognition and categorization API.

The server provides the following endpoints:
  POST /api/ocr/extract            - Extract text from an uploaded image
  POST /api/ocr/receipt            - Extract text and parse receipt fields
  POST /api/ocr/recognize          - Dual-engine recognition with merge
  POST /api/categorize/transaction - Categorize a transaction
  POST /api/categorize/batch      - Categorize several transactions
  POST /api/categorize/feedback   - Record a labeled training example
  GET  /api/categories            - List the category taxonomy
  GET  /api/categories/stats      - Training data statistics
  GET  /api/status                - Service status
  GET  /health                    - Health check
  GET  /metrics                   - Prometheus metrics

Examples:
  ledgerlens serve
  ledgerlens serve --port 3002
  ledgerlens serve --host 0.0.0.0 --backend-url http://backend:3001`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	if cmd.Flags().Changed("host") {
		cfg.Server.Host, _ = cmd.Flags().GetString("host")
	}
	if cmd.Flags().Changed("port") {
		cfg.Server.Port, _ = cmd.Flags().GetInt("port")
	}
	if cmd.Flags().Changed("cors-origin") {
		cfg.Server.CORSOrigin, _ = cmd.Flags().GetString("cors-origin")
	}
	if cmd.Flags().Changed("max-upload-size") {
		cfg.Server.MaxUploadMB, _ = cmd.Flags().GetInt64("max-upload-size")
	}
	if cmd.Flags().Changed("backend-url") {
		cfg.Backend.BaseURL, _ = cmd.Flags().GetString("backend-url")
	}
	if cmd.Flags().Changed("model-path") {
		cfg.Classifier.ModelPath, _ = cmd.Flags().GetString("model-path")
	}
	if cmd.Flags().Changed("language") {
		cfg.OCR.Language, _ = cmd.Flags().GetString("language")
	}

	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	srv, err := server.NewServer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize server: %w", err)
	}

	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       time.Duration(cfg.Server.TimeoutSec) * time.Second,
		WriteTimeout:      time.Duration(cfg.Server.TimeoutSec) * time.Second,
	}

	go func() {
		slog.Info("Starting ledgerlens server",
			"host", cfg.Server.Host, "port", cfg.Server.Port, "backend", cfg.Backend.BaseURL)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "error", err)
			cancel()
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	select {
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig.String())
	case <-ctx.Done():
		slog.Info("Context cancelled, initiating shutdown")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSec)*time.Second)
	defer shutdownCancel()

	slog.Info("Shutting down HTTP server")
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	}

	// Persist accumulated training feedback before exit.
	if cfg.Classifier.ModelPath != "" && cfg.Classifier.AutoSave {
		if err := srv.Classifier().Save(cfg.Classifier.ModelPath); err != nil {
			slog.Error("Classifier model save failed", "path", cfg.Classifier.ModelPath, "error", err)
		} else {
			slog.Info("Classifier model saved", "path", cfg.Classifier.ModelPath)
		}
	}

	slog.Info("Graceful shutdown completed")
	return nil
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("host", "H", "localhost", "server host")
	serveCmd.Flags().IntP("port", "p", 3002, "server port")
	serveCmd.Flags().String("cors-origin", "*", "CORS allowed origins")
	serveCmd.Flags().Int64("max-upload-size", 10, "maximum upload size in MB")
	serveCmd.Flags().String("backend-url", "", "document-analysis backend base URL")
	serveCmd.Flags().String("model-path", "", "classifier model file (loaded at start, saved on shutdown)")
	serveCmd.Flags().String("language", "eng", "default recognition language (eng, spa, fra, deu)")
}
