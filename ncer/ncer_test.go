package ncer

import (
	"testing"

	"github.com/bodgit/nitro/ntr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testBank() *NCER {
	return &NCER{
		Version: ntr.Version100,
		Cells: []Cell{
			{
				Attribute: CellAttribute{BoundingSphereRadius: 8},
				OAMs: []OAM{
					{Y: -8, X: -8, Size: Size16x16, TileNumber: 0},
					{Y: -8, X: 8, Size: Size16x16, TileNumber: 4, HFlip: true},
				},
			},
			{
				Attribute: CellAttribute{BoundingSphereRadius: 4},
				OAMs: []OAM{
					{Size: Size8x8, TileNumber: 8, PaletteNumber: 1},
				},
			},
		},
		MappingMode: ntr.Mapping1D32K,
		Labels:      []string{"body", "head"},
	}
}

func TestRoundTrip(t *testing.T) {
	orig := testBank()

	b, err := orig.MarshalBinary()
	require.Nil(t, err)

	decoded := new(NCER)
	require.Nil(t, decoded.UnmarshalBinary(b))
	assert.Equal(t, orig, decoded)

	again, err := decoded.MarshalBinary()
	require.Nil(t, err)
	assert.Equal(t, b, again)
}

func TestRoundTripBoundingRectangles(t *testing.T) {
	orig := testBank()
	for i := range orig.Cells {
		orig.Cells[i].Attribute.HasBoundingRectangle = true
		orig.Cells[i].BoundingRectangle = &BoundingRectangle{
			MaxX: 15, MaxY: 15, MinX: -16, MinY: -16,
		}
	}

	b, err := orig.MarshalBinary()
	require.Nil(t, err)

	decoded := new(NCER)
	require.Nil(t, decoded.UnmarshalBinary(b))
	assert.Equal(t, orig, decoded)
}

func TestRoundTripVRAMAndUserExtended(t *testing.T) {
	orig := testBank()
	orig.VRAM = &VRAMData{
		MaxSize: 0x100,
		Transfers: []VRAMTransfer{
			{SrcOffset: 0, Size: 0x80},
			{SrcOffset: 0x80, Size: 0x80},
		},
	}
	orig.HasUserExtendedAttributes = true

	b, err := orig.MarshalBinary()
	require.Nil(t, err)

	decoded := new(NCER)
	require.Nil(t, decoded.UnmarshalBinary(b))
	assert.Equal(t, orig, decoded)

	again, err := decoded.MarshalBinary()
	require.Nil(t, err)
	assert.Equal(t, b, again)
}

func TestOAMPaddingParity(t *testing.T) {
	// Three OAM records total: the table is followed by one padding word.
	odd := testBank()
	oddBytes, err := odd.MarshalBinary()
	require.Nil(t, err)

	even := testBank()
	even.Cells[1].OAMs = append(even.Cells[1].OAMs, OAM{Size: Size8x8})
	evenBytes, err := even.MarshalBinary()
	require.Nil(t, err)

	// One extra record is 6 bytes, but the odd layout also carries 2
	// bytes of padding the even one does not.
	assert.Equal(t, len(oddBytes)+4, len(evenBytes))

	decoded := new(NCER)
	require.Nil(t, decoded.UnmarshalBinary(oddBytes))
	assert.Equal(t, odd, decoded)

	decoded = new(NCER)
	require.Nil(t, decoded.UnmarshalBinary(evenBytes))
	assert.Equal(t, even, decoded)
}

func TestJSONRoundTrip(t *testing.T) {
	orig := testBank()
	orig.VRAM = &VRAMData{
		MaxSize:   0x40,
		Transfers: []VRAMTransfer{{Size: 0x20}, {SrcOffset: 0x20, Size: 0x20}},
	}

	j, err := orig.JSON()
	require.Nil(t, err)

	decoded, err := FromJSON(j)
	require.Nil(t, err)
	assert.Equal(t, orig, decoded)
}

func TestEmptyBank(t *testing.T) {
	c := &NCER{Version: ntr.Version100}
	_, err := c.MarshalBinary()
	assert.Equal(t, errNoCells, err)
}

func TestRectangleFlagMismatch(t *testing.T) {
	c := testBank()
	c.Cells[1].Attribute.HasBoundingRectangle = true
	_, err := c.MarshalBinary()
	assert.Equal(t, errRectMismatch, err)

	c = testBank()
	c.Cells[0].Attribute.HasBoundingRectangle = true
	c.Cells[1].Attribute.HasBoundingRectangle = true
	_, err = c.MarshalBinary()
	assert.Equal(t, errRectMismatch, err)
}

func TestVRAMCountMismatch(t *testing.T) {
	c := testBank()
	c.VRAM = &VRAMData{Transfers: []VRAMTransfer{{}}}
	_, err := c.MarshalBinary()
	assert.Equal(t, errVRAMCount, err)
}

func TestBlockCount(t *testing.T) {
	b, err := testBank().MarshalBinary()
	require.Nil(t, err)

	var file ntr.File
	require.Nil(t, file.UnmarshalBinary(b))
	file.Blocks = file.Blocks[:2]
	b, err = file.MarshalBinary()
	require.Nil(t, err)

	decoded := new(NCER)
	assert.Equal(t, errBlockCount, decoded.UnmarshalBinary(b))
}
