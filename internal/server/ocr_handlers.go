package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerlens/ledgerlens/internal/engine"
	"github.com/ledgerlens/ledgerlens/internal/fusion"
	"github.com/ledgerlens/ledgerlens/internal/pdf"
	"github.com/ledgerlens/ledgerlens/internal/receipt"
)

// ocrExtractHandler runs the local recognition engine over an uploaded
// image and returns the filtered text with confidence metadata.
func (s *Server) ocrExtractHandler(w http.ResponseWriter, r *http.Request) {
	data, opts, ok := s.readRecognitionRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, err := s.engine.ExtractText(r.Context(), data, opts)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidImageFormat) {
			writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
			return
		}
		ocrRequestsTotal.WithLabelValues("extract", "error").Inc()
		writeErrorResponse(w, fmt.Sprintf("OCR processing failed: %v", err), http.StatusInternalServerError)
		return
	}
	observeOCR("extract", start, res)

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: res})
}

// ocrReceiptHandler extracts text and parses receipt fields from it.
func (s *Server) ocrReceiptHandler(w http.ResponseWriter, r *http.Request) {
	data, opts, ok := s.readRecognitionRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, err := s.engine.ExtractText(r.Context(), data, opts)
	if err != nil {
		if errors.Is(err, engine.ErrInvalidImageFormat) {
			writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
			return
		}
		ocrRequestsTotal.WithLabelValues("receipt", "error").Inc()
		writeErrorResponse(w, fmt.Sprintf("OCR processing failed: %v", err), http.StatusInternalServerError)
		return
	}
	observeOCR("receipt", start, res)

	parsed := receipt.Extract(res.RawText)
	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: struct {
		OCR     *engine.Result  `json:"ocr"`
		Receipt receipt.Receipt `json:"receipt"`
	}{OCR: res, Receipt: parsed}})
}

// ocrRecognizeHandler runs the dual-engine flow: remote backend and
// local engine in parallel, merged into one result.
func (s *Server) ocrRecognizeHandler(w http.ResponseWriter, r *http.Request) {
	data, opts, ok := s.readRecognitionRequest(w, r)
	if !ok {
		return
	}

	start := time.Now()
	res, err := s.orchestrator.Recognize(r.Context(), data, fusion.Options{
		Language:            opts.Language,
		ConfidenceThreshold: opts.ConfidenceThreshold,
	})
	if err != nil {
		ocrRequestsTotal.WithLabelValues("recognize", "error").Inc()
		writeErrorResponse(w, fmt.Sprintf("Recognition failed: %v", err), http.StatusInternalServerError)
		return
	}

	status := "success"
	if !res.Success {
		status = "failure"
	}
	ocrRequestsTotal.WithLabelValues("recognize", status).Inc()
	ocrProcessingDuration.WithLabelValues("recognize").Observe(time.Since(start).Seconds())

	writeJSON(w, http.StatusOK, apiResponse{Success: true, Data: res})
}

// readRecognitionRequest parses the multipart upload shared by the OCR
// endpoints: field `image` (image bytes or a PDF, converted to its
// first embedded image) plus optional `language`. A false return means
// the response has already been written.
func (s *Server) readRecognitionRequest(w http.ResponseWriter, r *http.Request) ([]byte, engine.Options, bool) {
	opts := engine.DefaultOptions()
	opts.ConfidenceThreshold = s.cfg.OCR.ConfidenceThreshold
	opts.Preprocess = s.cfg.OCR.Preprocess

	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return nil, opts, false
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadBytes())
	if err := r.ParseMultipartForm(s.maxUploadBytes()); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "body too large") {
			writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		return nil, opts, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return nil, opts, false
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadBytes() {
		writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return nil, opts, false
	}

	if lang := r.FormValue("language"); lang != "" {
		if !engine.IsSupportedLanguage(lang) {
			writeErrorResponse(w, fmt.Sprintf("Unsupported language %q", lang), http.StatusBadRequest)
			return nil, opts, false
		}
		opts.Language = lang
	} else {
		opts.Language = s.cfg.OCR.Language
	}

	data, err := io.ReadAll(file)
	if err != nil {
		writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return nil, opts, false
	}
	uploadSizeBytes.Observe(float64(len(data)))

	if strings.EqualFold(filepath.Ext(header.Filename), ".pdf") {
		data, err = s.pdfToImage(data)
		if err != nil {
			if errors.Is(err, pdf.ErrNoImages) {
				writeErrorResponse(w, "PDF contains no extractable images", http.StatusBadRequest)
			} else {
				writeErrorResponse(w, "Failed to read PDF", http.StatusBadRequest)
			}
			return nil, opts, false
		}
	}

	return data, opts, true
}

// pdfToImage materializes the uploaded PDF and pulls its first embedded
// image as PNG bytes.
func (s *Server) pdfToImage(data []byte) ([]byte, error) {
	dir := s.cfg.OCR.TempDir
	if dir == "" {
		dir = os.TempDir()
	}
	path := filepath.Join(dir, fmt.Sprintf("ledgerlens-upload-%s.pdf", uuid.NewString()))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return nil, err
	}
	defer func() { _ = os.Remove(path) }()

	return pdf.FirstImagePNG(path)
}

// observeOCR records per-request metrics for the single-engine flows.
func observeOCR(kind string, start time.Time, res *engine.Result) {
	status := "success"
	if !res.Success {
		status = "failure"
	}
	ocrRequestsTotal.WithLabelValues(kind, status).Inc()
	ocrProcessingDuration.WithLabelValues(kind).Observe(time.Since(start).Seconds())
	ocrTextLength.WithLabelValues(kind).Observe(float64(len(res.Text)))
}
