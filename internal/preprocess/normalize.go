// Package preprocess prepares receipt photos for text recognition.
// The transform is deterministic and best-effort: if any stage fails,
// the caller gets the original bytes back unchanged.
package preprocess

import (
	"bytes"
	"image"
	_ "image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

const (
	// MaxDimension bounds both axes of the normalized image.
	MaxDimension = 2000

	// BinarizeThreshold is the fixed luminance cut between ink and paper.
	BinarizeThreshold = 128
)

// Normalize converts raw image bytes into a recognition-friendly form:
// bounded to MaxDimension on both axes (aspect ratio preserved, never
// upscaled), sharpened, contrast-stretched, binarized and re-encoded as
// PNG. Normalization is an accuracy booster, not a hard dependency, so
// any decode or encode failure returns the input unchanged.
func Normalize(data []byte) []byte {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return data
	}

	img = boundSize(img)
	img = imaging.Sharpen(img, 1.0)
	gray := stretchContrast(imaging.Grayscale(img))
	bw := binarize(gray, BinarizeThreshold)

	var buf bytes.Buffer
	if err := png.Encode(&buf, bw); err != nil {
		return data
	}
	return buf.Bytes()
}

// boundSize scales the image down to fit MaxDimension x MaxDimension.
// Images already within bounds are returned as-is.
func boundSize(img image.Image) image.Image {
	b := img.Bounds()
	if b.Dx() <= MaxDimension && b.Dy() <= MaxDimension {
		return img
	}
	return imaging.Fit(img, MaxDimension, MaxDimension, imaging.Lanczos)
}

// stretchContrast linearly remaps grayscale luminance so the darkest
// pixel becomes 0 and the brightest 255. Flat images are left alone.
func stretchContrast(img *image.NRGBA) *image.NRGBA {
	b := img.Bounds()
	lo, hi := uint8(255), uint8(0)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			v := img.NRGBAAt(x, y).R
			if v < lo {
				lo = v
			}
			if v > hi {
				hi = v
			}
		}
	}
	if hi <= lo {
		return img
	}

	out := imaging.Clone(img)
	span := float64(hi - lo)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := out.NRGBAAt(x, y)
			v := uint8(float64(p.R-lo) / span * 255.0)
			p.R, p.G, p.B = v, v, v
			out.SetNRGBA(x, y, p)
		}
	}
	return out
}

// binarize maps every pixel to pure black or white at the given
// luminance threshold.
func binarize(img *image.NRGBA, threshold uint8) *image.NRGBA {
	b := img.Bounds()
	out := imaging.Clone(img)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			p := out.NRGBAAt(x, y)
			v := uint8(0)
			if p.R >= threshold {
				v = 255
			}
			p.R, p.G, p.B = v, v, v
			p.A = 255
			out.SetNRGBA(x, y, p)
		}
	}
	return out
}
