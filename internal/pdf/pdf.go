// Package pdf pulls embedded raster images out of PDF receipts so the
// OCR engine can process scanned documents delivered as PDF.
package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// ErrNoImages reports a PDF without any extractable raster images.
var ErrNoImages = errors.New("pdf contains no extractable images")

// ExtractImages returns every embedded image in page order. The work
// happens through a throwaway directory that is removed before return.
func ExtractImages(filename string) ([]image.Image, error) {
	tempDir, err := os.MkdirTemp("", "ledgerlens-pdf-*")
	if err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}
	defer func() { _ = os.RemoveAll(tempDir) }()

	if err := api.ExtractImagesFile(filename, tempDir, nil, nil); err != nil {
		return nil, fmt.Errorf("extracting images from %s: %w", filepath.Base(filename), err)
	}

	images, err := collectImages(tempDir)
	if err != nil {
		return nil, err
	}
	if len(images) == 0 {
		return nil, ErrNoImages
	}
	return images, nil
}

// FirstImagePNG extracts the first embedded image and re-encodes it as
// PNG bytes, the form the recognition engine consumes. Receipts are
// single-page scans in practice, so the first image is the document.
func FirstImagePNG(filename string) ([]byte, error) {
	images, err := ExtractImages(filename)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, images[0]); err != nil {
		return nil, fmt.Errorf("encoding extracted image: %w", err)
	}
	return buf.Bytes(), nil
}

// collectImages loads extracted files ordered by the page number that
// pdfcpu embeds in filenames like page_2_image_1.png.
func collectImages(dir string) ([]image.Image, error) {
	type pageImage struct {
		page int
		img  image.Image
	}
	var found []pageImage

	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return err
		}
		page, ok := pageFromFilename(info.Name())
		if !ok {
			return nil
		}
		img, err := loadImage(path)
		if err != nil {
			// Unreadable intermediates are skipped, not fatal.
			return nil
		}
		found = append(found, pageImage{page: page, img: img})
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(found, func(i, j int) bool { return found[i].page < found[j].page })

	images := make([]image.Image, len(found))
	for i, f := range found {
		images[i] = f.img
	}
	return images, nil
}

func pageFromFilename(name string) (int, bool) {
	if !strings.HasPrefix(name, "page_") {
		return 0, false
	}
	parts := strings.Split(name, "_")
	if len(parts) < 2 {
		return 0, false
	}
	page, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return page, true
}

func loadImage(path string) (image.Image, error) {
	file, err := os.Open(path) //nolint:gosec // G304: paths come from our own temp dir
	if err != nil {
		return nil, err
	}
	defer func() { _ = file.Close() }()

	img, _, err := image.Decode(file)
	return img, err
}
