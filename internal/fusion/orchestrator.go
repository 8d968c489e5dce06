// Package fusion runs the remote document-analysis backend and the
// local recognition engine concurrently and reconciles their outputs
// into one unified result.
package fusion

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/internal/engine"
	"github.com/ledgerlens/ledgerlens/internal/receipt"
)

// localEngine is the slice of the recognition engine the orchestrator
// needs; tests substitute a stub.
type localEngine interface {
	ExtractText(ctx context.Context, data []byte, opts engine.Options) (*engine.Result, error)
}

// Options controls one Recognize call.
type Options struct {
	Language            string
	ConfidenceThreshold float64
}

// Orchestrator coordinates the two recognition branches. It is
// stateless between calls and safe for concurrent use.
type Orchestrator struct {
	local   localEngine
	client  *Client
	tempDir string
	logger  *slog.Logger
}

// New creates an orchestrator. tempDir falls back to the system temp
// directory when empty.
func New(local *engine.Engine, client *Client, tempDir string) *Orchestrator {
	return newOrchestrator(local, client, tempDir)
}

func newOrchestrator(local localEngine, client *Client, tempDir string) *Orchestrator {
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Orchestrator{
		local:   local,
		client:  client,
		tempDir: tempDir,
		logger:  slog.Default(),
	}
}

// Recognize runs both engines over the image bytes and merges their
// outputs. Both branches are started before either is awaited and both
// are always waited on: a fast failure on one side must never
// short-circuit a slow success on the other. A failed branch
// contributes nil to the merge instead of failing the call; there are
// no retries.
func (o *Orchestrator) Recognize(ctx context.Context, data []byte, opts Options) (*Result, error) {
	tmpPath, err := o.writeTempFile(data)
	if err != nil {
		return nil, fmt.Errorf("materializing upload file: %w", err)
	}
	defer o.removeTempFile(tmpPath)

	var (
		wg      sync.WaitGroup
		backend *BackendResult
		local   *engine.Result
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		res, err := o.client.Upload(ctx, tmpPath)
		if err != nil {
			o.logger.Warn("backend branch failed", "error", err)
			return
		}
		backend = res
	}()
	go func() {
		defer wg.Done()
		res, err := o.local.ExtractText(ctx, data, engine.Options{
			Language:            opts.Language,
			Preprocess:          true,
			ConfidenceThreshold: opts.ConfidenceThreshold,
		})
		if err != nil {
			o.logger.Warn("local branch failed", "error", err)
			return
		}
		local = res
	}()
	wg.Wait()

	return o.merge(local, backend), nil
}

// RecognizeFile reads a file from disk and runs Recognize on it.
func (o *Orchestrator) RecognizeFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if !engine.IsValidImagePath(path) {
		return nil, fmt.Errorf("%w: %s", engine.ErrInvalidImageFormat, filepath.Base(path))
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-provided receipt path is expected
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	return o.Recognize(ctx, data, opts)
}

// merge composes the unified result from whichever branches settled
// successfully.
func (o *Orchestrator) merge(local *engine.Result, backend *BackendResult) *Result {
	res := &Result{
		Success:    backend != nil || (local != nil && local.Success),
		Text:       mergeText(local, backend),
		Currency:   mergeCurrency(backend),
		GrandTotal: mergeGrandTotal(backend),
		Items:      mergeItems(backend),
		Local:      local,
		Backend:    backend,
	}
	if backend != nil {
		res.Structured = backend.Structured
		res.Canonical = backend.Canonical
		res.Warnings = backend.Warnings
		res.Diagnostics = backend.Diagnostics
	}

	// Backend gave us no structured fields (absent, or answered with
	// text only): fall back to rule-based extraction over the local
	// engine's raw text.
	backendStructured := backend != nil && (backend.Structured != nil || backend.Canonical != nil)
	if !backendStructured && local != nil && local.RawText != "" {
		r := receipt.Extract(local.RawText)
		res.Receipt = &r
		if res.GrandTotal == nil {
			res.GrandTotal = r.Total
		}
		if len(res.Items) == 0 {
			for _, it := range r.Items {
				res.Items = append(res.Items, LineItem{Description: it.Description, Price: it.Price})
			}
		}
	}
	return res
}

// writeTempFile materializes the upload bytes under a
// collision-resistant name; the multipart upload needs a real file.
func (o *Orchestrator) writeTempFile(data []byte) (string, error) {
	name := fmt.Sprintf("ledgerlens-%d-%s", time.Now().UnixNano(), uuid.NewString())
	path := filepath.Join(o.tempDir, name)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}

// removeTempFile deletes the per-call temp file. Cleanup runs on every
// exit path; a failure here is logged and never fails the request.
func (o *Orchestrator) removeTempFile(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		o.logger.Warn("temp file cleanup failed", "path", path, "error", err)
	}
}
