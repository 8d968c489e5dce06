// Package testutil provides fixture helpers shared by package tests.
package testutil

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

// RenderTextImage draws the given lines as black text on a white
// background and returns the PNG bytes. Scale multiplies the base
// 7x13 glyphs via nearest-neighbour so OCR engines have enough pixels
// to work with; 4 is a reasonable value for Tesseract.
func RenderTextImage(lines []string, scale int) []byte {
	if scale < 1 {
		scale = 1
	}

	const (
		lineHeight = 18
		margin     = 10
	)

	width := margin * 2
	for _, line := range lines {
		if w := margin*2 + len(line)*basicfont.Face7x13.Advance; w > width {
			width = w
		}
	}
	height := margin*2 + lineHeight*len(lines)

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.Black,
		Face: basicfont.Face7x13,
	}
	for i, line := range lines {
		drawer.Dot = fixed.P(margin, margin+lineHeight*i+basicfont.Face7x13.Ascent)
		drawer.DrawString(line)
	}

	scaled := scaleNearest(img, scale)

	var buf bytes.Buffer
	if err := png.Encode(&buf, scaled); err != nil {
		panic(err) // test fixture generation, programmer error only
	}
	return buf.Bytes()
}

func scaleNearest(src *image.RGBA, scale int) *image.RGBA {
	if scale == 1 {
		return src
	}
	b := src.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	for y := 0; y < dst.Bounds().Dy(); y++ {
		for x := 0; x < dst.Bounds().Dx(); x++ {
			dst.Set(x, y, src.At(b.Min.X+x/scale, b.Min.Y+y/scale))
		}
	}
	return dst
}

// SolidPNG returns PNG bytes for a single-color image, handy where a
// test only needs decodable input.
func SolidPNG(width, height int, c color.Color) []byte {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		panic(err)
	}
	return buf.Bytes()
}
