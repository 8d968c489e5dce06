package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/ledgerlens/ledgerlens/internal/engine"
	"github.com/ledgerlens/ledgerlens/internal/fusion"
	"github.com/ledgerlens/ledgerlens/internal/pdf"
	"github.com/ledgerlens/ledgerlens/internal/receipt"
)

const formatText = "text"

// imageCmd represents the image command.
var imageCmd = &cobra.Command{
	Use:   "image [file]",
	Short: "Recognize text in a receipt image or PDF",
	Long: `Run text recognition over a single receipt image (jpg, png, tiff, bmp)
or PDF. PDFs are reduced to their first embedded image.

By default only the local engine runs. With --dual the configured
document-analysis backend is called in parallel and the outputs are
merged. With --receipt the raw text is parsed into structured fields
(merchant, date, total, tax, line items).

Examples:
  ledgerlens image receipt.jpg
  ledgerlens image receipt.jpg --receipt --format json
  ledgerlens image invoice.pdf --dual --language deu`,
	Args: cobra.ExactArgs(1),
	RunE: runImage,
}

func runImage(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	language, _ := cmd.Flags().GetString("language")
	if language == "" {
		language = cfg.OCR.Language
	}
	if !engine.IsSupportedLanguage(language) {
		return fmt.Errorf("unsupported language %q (supported: %v)", language, engine.SupportedLanguages)
	}

	threshold, _ := cmd.Flags().GetFloat64("confidence")
	if !cmd.Flags().Changed("confidence") {
		threshold = cfg.OCR.ConfidenceThreshold
	}

	data, err := readInputFile(args[0])
	if err != nil {
		return err
	}

	dual, _ := cmd.Flags().GetBool("dual")
	parse, _ := cmd.Flags().GetBool("receipt")
	format, _ := cmd.Flags().GetString("format")

	ctx, cancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Backend.TimeoutSec+cfg.Server.TimeoutSec)*time.Second)
	defer cancel()

	if dual {
		client := fusion.NewClient(cfg.Backend.BaseURL, time.Duration(cfg.Backend.TimeoutSec)*time.Second)
		orch := fusion.New(engine.New(), client, cfg.OCR.TempDir)
		res, err := orch.Recognize(ctx, data, fusion.Options{
			Language:            language,
			ConfidenceThreshold: threshold,
		})
		if err != nil {
			return err
		}
		return printResult(cmd, format, res, res.Text)
	}

	opts := engine.Options{
		Language:            language,
		Preprocess:          cfg.OCR.Preprocess,
		ConfidenceThreshold: threshold,
	}
	res, err := engine.New().ExtractText(ctx, data, opts)
	if err != nil {
		return err
	}

	if parse {
		parsed := receipt.Extract(res.RawText)
		return printResult(cmd, format, struct {
			OCR     *engine.Result  `json:"ocr"`
			Receipt receipt.Receipt `json:"receipt"`
		}{OCR: res, Receipt: parsed}, res.Text)
	}
	return printResult(cmd, format, res, res.Text)
}

// readInputFile loads the image bytes, reducing PDFs to their first
// embedded image.
func readInputFile(path string) ([]byte, error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		return pdf.FirstImagePNG(path)
	}
	if !engine.IsValidImagePath(path) {
		return nil, fmt.Errorf("unsupported input file: %s", filepath.Base(path))
	}
	data, err := os.ReadFile(path) //nolint:gosec // G304: user-provided input path is expected
	if err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}
	return data, nil
}

// printResult writes either the plain recognized text or the full
// result as indented JSON.
func printResult(cmd *cobra.Command, format string, v any, text string) error {
	if format == formatText {
		_, err := fmt.Fprintln(cmd.OutOrStdout(), text)
		return err
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func init() {
	rootCmd.AddCommand(imageCmd)
	imageCmd.Flags().StringP("language", "l", "", "recognition language (eng, spa, fra, deu)")
	imageCmd.Flags().Float64P("confidence", "c", engine.DefaultConfidenceThreshold,
		"minimum word confidence (0-100)")
	imageCmd.Flags().Bool("dual", false, "also call the document-analysis backend and merge")
	imageCmd.Flags().Bool("receipt", false, "parse receipt fields from the recognized text")
	imageCmd.Flags().StringP("format", "f", "json", "output format (json, text)")
}
