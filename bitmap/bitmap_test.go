package bitmap

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/bodgit/nitro/graphic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testImage(t *testing.T) *graphic.Image {
	pixels := make([]byte, 16*8)
	for i := range pixels {
		pixels[i] = byte(i % 16)
	}
	m, err := graphic.NewImage(16, pixels, graphic.Grayscale16())
	require.Nil(t, err)
	return m
}

func TestRoundTrip(t *testing.T) {
	orig := testImage(t)

	var buf bytes.Buffer
	require.Nil(t, Encode(&buf, orig))

	decoded, err := Decode(&buf)
	require.Nil(t, err)

	assert.Equal(t, orig.Width(), decoded.Width())
	assert.Equal(t, orig.Height(), decoded.Height())
	assert.Equal(t, orig.Pixels(), decoded.Pixels())
	assert.Equal(t, orig.Palette(), decoded.Palette())
}

func TestEncodeGeneratedPalette(t *testing.T) {
	pixels := make([]byte, 8*8)
	for i := range pixels {
		pixels[i] = byte(i % 16)
	}
	m, err := graphic.NewImage(8, pixels, nil)
	require.Nil(t, err)

	var buf bytes.Buffer
	require.Nil(t, Encode(&buf, m))

	decoded, err := Decode(&buf)
	require.Nil(t, err)
	assert.Equal(t, graphic.Grayscale16(), decoded.Palette())

	// Any pixel above 15 promotes the palette to 256 grays.
	pixels[0] = 200
	m, err = graphic.NewImage(8, pixels, nil)
	require.Nil(t, err)

	buf.Reset()
	require.Nil(t, Encode(&buf, m))

	decoded, err = Decode(&buf)
	require.Nil(t, err)
	assert.Equal(t, graphic.Grayscale256(), decoded.Palette())
}

func TestDecodeNonPaletted(t *testing.T) {
	// A truecolor PNG is quantized to an indexed image on decode.
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			c := color.RGBA{A: 0xff}
			if x >= 4 {
				c.R = 0xff
			}
			src.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	require.Nil(t, png.Encode(&buf, src))

	decoded, err := Decode(&buf)
	require.Nil(t, err)
	assert.Equal(t, 8, decoded.Width())
	assert.Equal(t, 8, decoded.Height())
	assert.True(t, len(decoded.Palette()) <= 256)

	// The two halves must land on different palette entries.
	pixels := decoded.Pixels()
	assert.NotEqual(t, pixels[0], pixels[7])
	assert.Equal(t, pixels[0], pixels[3])
	assert.Equal(t, pixels[7], pixels[4])
}

func TestDecodeNotPNG(t *testing.T) {
	_, err := Decode(bytes.NewReader([]byte("BM not a png")))
	assert.NotNil(t, err)
}
