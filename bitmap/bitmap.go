/*
Package bitmap converts between the indexed-color model used by the Nitro
codecs and PNG images.

Decoding accepts any PNG; non-paletted input is quantized down to at most
256 colors first. Encoding writes an indexed PNG, substituting a generated
grayscale palette when the image carries none.
*/
package bitmap

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"

	"github.com/ericpauley/go-quantize/quantize"

	"github.com/bodgit/nitro/graphic"
)

const maxColors = 256

// Decode reads a PNG from r and returns it as an indexed image.
func Decode(r io.Reader) (*graphic.Image, error) {
	src, err := png.Decode(r)
	if err != nil {
		return nil, err
	}

	pm, _ := src.(*image.Paletted)
	if pm == nil {
		q := quantize.MedianCutQuantizer{}
		b := src.Bounds()
		pm = image.NewPaletted(b, q.Quantize(make(color.Palette, 0, maxColors), src))
		draw.Draw(pm, b, src, b.Min, draw.Src)
	}

	palette := make(graphic.Palette, 0, len(pm.Palette))
	for _, c := range pm.Palette {
		r, g, b, _ := c.RGBA()
		palette = append(palette, graphic.Color{
			Red:   uint8(r >> 8),
			Green: uint8(g >> 8),
			Blue:  uint8(b >> 8),
		})
	}

	width := pm.Bounds().Dx()
	height := pm.Bounds().Dy()
	pixels := make([]byte, 0, width*height)
	for y := 0; y < height; y++ {
		pixels = append(pixels, pm.Pix[y*pm.Stride:y*pm.Stride+width]...)
	}

	return graphic.NewImage(width, pixels, palette)
}

// Encode writes the image to w as an indexed PNG. An image with no palette
// gets a generated grayscale one sized to its pixel values.
func Encode(w io.Writer, m *graphic.Image) error {
	palette := m.Palette()
	if palette == nil {
		palette = graphic.Grayscale16()
		for _, pixel := range m.Pixels() {
			if pixel >= 16 {
				palette = graphic.Grayscale256()
				break
			}
		}
	}
	// A palette longer than PNG can index is truncated, matching how these
	// assets are edited in practice.
	if len(palette) > maxColors {
		palette = palette[:maxColors]
	}

	cp := make(color.Palette, 0, len(palette))
	for _, c := range palette {
		cp = append(cp, color.RGBA{c.Red, c.Green, c.Blue, 0xff})
	}

	pm := image.NewPaletted(image.Rect(0, 0, m.Width(), m.Height()), cp)
	copy(pm.Pix, m.Pixels())

	return png.Encode(w, pm)
}
