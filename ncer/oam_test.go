package ncer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOAMRoundTrip(t *testing.T) {
	tables := []OAM{
		{},
		{Y: -8, X: -4, Size: Size16x16, TileNumber: 32, Priority: 1, PaletteNumber: 3},
		{Y: 127, X: 255, HFlip: true, VFlip: true, Size: Size64x64},
		{Y: -128, X: -256, Mode: ModeTranslucent, Mosaic: true, ColorMode: 1, Size: Size32x8},
		{Affine: true, Disable: true, Mode: ModeBitmap, Size: Size8x32, TileNumber: 0x3ff, Priority: 3, PaletteNumber: 15},
	}

	for _, oam := range tables {
		attr0, attr1, attr2, err := oam.Encode()
		require.Nil(t, err)

		back, err := DecodeOAM(attr0, attr1, attr2)
		require.Nil(t, err)
		assert.Equal(t, oam, back)
	}
}

func TestOAMWordRoundTrip(t *testing.T) {
	// Legal triples keep attr1 bits 9-11 clear and shape at most 2;
	// every other bit pattern must survive decode and re-encode exactly.
	tables := [][3]uint16{
		{0x0000, 0x0000, 0x0000},
		// y=-16, translucent, 256 colors, shape 1; x=500, h-flip,
		// size 3; tile 0x3ff, priority 2, palette 10.
		{0x68f0, 0xd1f4, 0xabff},
		// y=-128, disable, mosaic; x=256 (wraps to -256), v-flip.
		{0x1280, 0x2100, 0x0001},
		// shape 2, bitmap mode; size 1, both flips; priority 3.
		{0x8c00, 0x7001, 0x0c20},
	}

	for _, words := range tables {
		oam, err := DecodeOAM(words[0], words[1], words[2])
		require.Nil(t, err)

		attr0, attr1, attr2, err := oam.Encode()
		require.Nil(t, err)
		assert.Equal(t, words[0], attr0)
		assert.Equal(t, words[1], attr1)
		assert.Equal(t, words[2], attr2)
	}
}

func TestOAMXWraparound(t *testing.T) {
	// -4 is stored as 508 in the 9-bit field.
	oam := OAM{X: -4}
	_, attr1, _, err := oam.Encode()
	require.Nil(t, err)
	assert.Equal(t, uint16(508), attr1&0x1ff)

	back, err := DecodeOAM(0, attr1, 0)
	require.Nil(t, err)
	assert.Equal(t, int16(-4), back.X)

	// 255 is the largest positive position.
	back, err = DecodeOAM(0, 255, 0)
	require.Nil(t, err)
	assert.Equal(t, int16(255), back.X)

	// 256 wraps to -256.
	back, err = DecodeOAM(0, 256, 0)
	require.Nil(t, err)
	assert.Equal(t, int16(-256), back.X)
}

func TestDecodeOAMBadShape(t *testing.T) {
	// Shape 3 does not exist.
	_, err := DecodeOAM(3<<0xe, 0, 0)
	assert.NotNil(t, err)
}

func TestOAMEncodeBadSize(t *testing.T) {
	_, _, _, err := OAM{Size: Size(12)}.Encode()
	assert.NotNil(t, err)
}

func TestParseSize(t *testing.T) {
	s, err := ParseSize(1, 2)
	require.Nil(t, err)
	assert.Equal(t, Size32x16, s)

	shape, size, err := Size32x16.ShapeSize()
	require.Nil(t, err)
	assert.Equal(t, uint8(1), shape)
	assert.Equal(t, uint8(2), size)

	_, err = ParseSize(3, 0)
	assert.NotNil(t, err)
}

func TestCellAttributeRoundTrip(t *testing.T) {
	tables := []CellAttribute{
		{},
		{HFlip: true, BoundingSphereRadius: 63},
		{VFlip: true, HasBoundingRectangle: true},
		{HFlip: true, VFlip: true, BoundingSphereRadius: 7},
	}

	for _, attr := range tables {
		back, err := ParseCellAttribute(attr.Uint16())
		require.Nil(t, err)
		assert.Equal(t, attr, back)
	}
}

func TestCellAttributeCombinedFlip(t *testing.T) {
	// Combined-flip bit set without both flip bits.
	_, err := ParseCellAttribute(1 << 0xa)
	assert.Equal(t, errCombinedFlip, err)

	// Both flip bits without the combined bit.
	_, err = ParseCellAttribute(1<<0x8 | 1<<0x9)
	assert.Equal(t, errCombinedFlip, err)
}
