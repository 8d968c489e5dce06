// Package engine wraps the local Tesseract OCR engine and exposes the
// confidence-filtered text extraction used across the service.
package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/otiai10/gosseract/v2"

	"github.com/ledgerlens/ledgerlens/internal/preprocess"
)

const (
	// DefaultLanguage is the Tesseract language hint used when none is given.
	DefaultLanguage = "eng"

	// DefaultConfidenceThreshold drops words the engine is unsure about.
	DefaultConfidenceThreshold = 60.0
)

// SupportedLanguages lists the language hints the service accepts.
var SupportedLanguages = []string{"eng", "spa", "fra", "deu"}

var supportedExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".tiff": {},
	".bmp":  {},
}

// Options controls a single extraction call. Use DefaultOptions as the
// starting point; a zero ConfidenceThreshold means "keep every word".
type Options struct {
	Language            string
	Preprocess          bool
	ConfidenceThreshold float64
}

// DefaultOptions returns the standard extraction settings.
func DefaultOptions() Options {
	return Options{
		Language:            DefaultLanguage,
		Preprocess:          true,
		ConfidenceThreshold: DefaultConfidenceThreshold,
	}
}

// Engine performs OCR via the local Tesseract installation. It holds no
// mutable state and is safe for concurrent use across requests.
type Engine struct{}

// New creates a recognition engine.
func New() *Engine { return &Engine{} }

// IsValidImagePath reports whether the path carries a supported image
// extension (jpg, jpeg, png, tiff, bmp).
func IsValidImagePath(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	_, ok := supportedExtensions[ext]
	return ok
}

// IsSupportedLanguage reports whether lang is an accepted hint.
func IsSupportedLanguage(lang string) bool {
	for _, l := range SupportedLanguages {
		if l == lang {
			return true
		}
	}
	return false
}

// ExtractText runs OCR over raw image bytes. Input validation problems
// surface as a hard error (ErrInvalidImageFormat); failures inside the
// engine itself are converted into a Result with Success=false so they
// never propagate past this boundary.
func (e *Engine) ExtractText(ctx context.Context, data []byte, opts Options) (*Result, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrInvalidImageFormat)
	}
	if opts.Language == "" {
		opts.Language = DefaultLanguage
	}

	if err := ctx.Err(); err != nil {
		return failure(opts.Language, err), nil
	}

	input := data
	if opts.Preprocess {
		input = preprocess.Normalize(data)
	}

	rawText, words, err := recognize(input, opts.Language)
	if err != nil {
		return failure(opts.Language, &EngineError{Op: "recognize", Err: err}), nil
	}

	retained, filteredText := FilterByConfidence(words, opts.ConfidenceThreshold)
	avg := AverageConfidence(retained)

	return &Result{
		Success:    true,
		Text:       filteredText,
		RawText:    rawText,
		Confidence: avg,
		Words:      retained,
		Language:   opts.Language,
		Metadata: Metadata{
			ImageByteSize:     len(input),
			WordCount:         len(retained),
			AverageConfidence: avg,
		},
	}, nil
}

// ExtractFile validates the file extension, loads the file and runs
// ExtractText on its contents.
func (e *Engine) ExtractFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if !IsValidImagePath(path) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidImageFormat, filepath.Base(path))
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-provided image path is expected
	if err != nil {
		return nil, fmt.Errorf("reading image file: %w", err)
	}
	return e.ExtractText(ctx, data, opts)
}

// recognize drives one Tesseract session and collects the full text
// plus per-word confidences.
func recognize(data []byte, language string) (string, []Word, error) {
	client := gosseract.NewClient()
	defer func() { _ = client.Close() }()

	if err := client.SetLanguage(language); err != nil {
		return "", nil, err
	}
	if err := client.SetImageFromBytes(data); err != nil {
		return "", nil, err
	}

	text, err := client.Text()
	if err != nil {
		return "", nil, err
	}

	boxes, err := client.GetBoundingBoxes(gosseract.RIL_WORD)
	if err != nil {
		return "", nil, err
	}

	words := make([]Word, 0, len(boxes))
	for _, b := range boxes {
		token := strings.TrimSpace(b.Word)
		if token == "" {
			continue
		}
		words = append(words, Word{Text: token, Confidence: b.Confidence})
	}
	return text, words, nil
}
