package nclr

import (
	"testing"

	"github.com/bodgit/nitro/graphic"
	"github.com/bodgit/nitro/ntr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testPalette() graphic.Palette {
	p := make(graphic.Palette, 0, 16)
	for i := 0; i < 16; i++ {
		p = append(p, graphic.Color{
			Red:   uint8(i * 16),
			Green: uint8(i * 8),
			Blue:  uint8(248 - i*16),
		})
	}
	return p
}

func TestRoundTrip(t *testing.T) {
	orig := New(testPalette(), DefaultMetadata())

	b, err := orig.MarshalBinary()
	require.Nil(t, err)

	decoded := new(NCLR)
	require.Nil(t, decoded.UnmarshalBinary(b))

	assert.Equal(t, orig.Palette(), decoded.Palette())
	assert.Equal(t, orig.Metadata(), decoded.Metadata())

	again, err := decoded.MarshalBinary()
	require.Nil(t, err)
	assert.Equal(t, b, again)
}

func TestRoundTripInvertedSize(t *testing.T) {
	metadata := DefaultMetadata()
	metadata.InvertSize = true

	b, err := New(testPalette(), metadata).MarshalBinary()
	require.Nil(t, err)

	// 16 colors, 32 bytes of data, declared as 0x200-0x20.
	assert.Equal(t, []byte{0xe0, 0x01, 0x00, 0x00}, b[0x20:0x24])

	decoded := new(NCLR)
	require.Nil(t, decoded.UnmarshalBinary(b))
	assert.True(t, decoded.Metadata().InvertSize)
	assert.Equal(t, testPalette(), decoded.Palette())

	again, err := decoded.MarshalBinary()
	require.Nil(t, err)
	assert.Equal(t, b, again)
}

func TestRoundTripHighColorBit(t *testing.T) {
	metadata := DefaultMetadata()
	metadata.HighColorBit = true

	b, err := New(testPalette(), metadata).MarshalBinary()
	require.Nil(t, err)

	decoded := new(NCLR)
	require.Nil(t, decoded.UnmarshalBinary(b))
	assert.True(t, decoded.Metadata().HighColorBit)
	assert.Equal(t, testPalette(), decoded.Palette())

	again, err := decoded.MarshalBinary()
	require.Nil(t, err)
	assert.Equal(t, b, again)
}

func TestRoundTripPaletteIndexes(t *testing.T) {
	metadata := DefaultMetadata()
	metadata.Version = ntr.Version101
	metadata.TextureFormat = ntr.TexturePalette256
	metadata.Extended = true
	metadata.PaletteIndexes = []uint16{0, 2, 5}

	b, err := New(testPalette(), metadata).MarshalBinary()
	require.Nil(t, err)

	decoded := new(NCLR)
	require.Nil(t, decoded.UnmarshalBinary(b))
	assert.Equal(t, metadata, decoded.Metadata())

	again, err := decoded.MarshalBinary()
	require.Nil(t, err)
	assert.Equal(t, b, again)
}

func TestNoPCMPBlockWhenEmpty(t *testing.T) {
	b, err := New(testPalette(), DefaultMetadata()).MarshalBinary()
	require.Nil(t, err)

	var file ntr.File
	require.Nil(t, file.UnmarshalBinary(b))
	require.Len(t, file.Blocks, 1)
	assert.Equal(t, plttID, file.Blocks[0].ID)
}

func TestBadDeclaredSize(t *testing.T) {
	b, err := New(testPalette(), DefaultMetadata()).MarshalBinary()
	require.Nil(t, err)
	b[0x20] = 0x55

	decoded := new(NCLR)
	assert.Equal(t, errDeclaredSize, decoded.UnmarshalBinary(b))
}

func TestBadTextureFormat(t *testing.T) {
	b, err := New(testPalette(), DefaultMetadata()).MarshalBinary()
	require.Nil(t, err)
	b[0x18] = byte(ntr.TextureDirect)

	decoded := new(NCLR)
	assert.Equal(t, errPaletteDepth, decoded.UnmarshalBinary(b))
}

func TestBadContainerID(t *testing.T) {
	b, err := New(testPalette(), DefaultMetadata()).MarshalBinary()
	require.Nil(t, err)
	copy(b, "RGCN")

	decoded := new(NCLR)
	assert.NotNil(t, decoded.UnmarshalBinary(b))
}

func TestBadExtendedFlag(t *testing.T) {
	b, err := New(testPalette(), DefaultMetadata()).MarshalBinary()
	require.Nil(t, err)
	b[0x1c] = 2

	decoded := new(NCLR)
	assert.Equal(t, errExtendedFlag, decoded.UnmarshalBinary(b))
}
