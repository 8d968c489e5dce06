package preprocess

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func encodePNG(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func gradientImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := uint8((x * 255) / max(w-1, 1))
			img.SetNRGBA(x, y, color.NRGBA{R: v, G: v, B: v, A: 255})
		}
	}
	return img
}

func TestNormalize_Deterministic(t *testing.T) {
	data := encodePNG(t, gradientImage(120, 80))

	first := Normalize(data)
	second := Normalize(data)
	assert.Equal(t, first, second)
}

func TestNormalize_InvalidBytesReturnedUnchanged(t *testing.T) {
	data := []byte("not an image at all")
	got := Normalize(data)
	assert.Equal(t, data, got)
}

func TestNormalize_NeverUpscales(t *testing.T) {
	data := encodePNG(t, gradientImage(64, 48))

	out := Normalize(data)
	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, img.Bounds().Dx())
	assert.Equal(t, 48, img.Bounds().Dy())
}

func TestNormalize_BoundsLargeImages(t *testing.T) {
	data := encodePNG(t, gradientImage(3000, 1500))

	out := Normalize(data)
	img, _, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.LessOrEqual(t, img.Bounds().Dx(), MaxDimension)
	assert.LessOrEqual(t, img.Bounds().Dy(), MaxDimension)
	// Aspect ratio preserved: 2:1 input stays 2:1.
	assert.Equal(t, img.Bounds().Dx(), 2*img.Bounds().Dy())
}

func TestNormalize_OutputIsBinarizedPNG(t *testing.T) {
	data := encodePNG(t, gradientImage(100, 60))

	out := Normalize(data)
	img, format, err := image.Decode(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			r, g, bb, _ := img.At(x, y).RGBA()
			v := uint8(r >> 8)
			assert.Contains(t, []uint8{0, 255}, v)
			assert.Equal(t, r, g)
			assert.Equal(t, r, bb)
		}
	}
}

func TestStretchContrast_FlatImageUntouched(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: 100, G: 100, B: 100, A: 255})
		}
	}
	out := stretchContrast(img)
	assert.Equal(t, uint8(100), out.NRGBAAt(3, 3).R)
}
