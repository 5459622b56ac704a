package ntr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileRoundTrip(t *testing.T) {
	f := File{
		ID:      "RLCN",
		Version: Version100,
		Blocks: []Block{
			{ID: "TTLP", Data: []byte{1, 2, 3, 4}},
			{ID: "PMCP", Data: []byte{5, 6}},
		},
	}

	b, err := f.MarshalBinary()
	require.Nil(t, err)

	// tag, BOM, version, total size, header size, block count
	assert.Equal(t, []byte{
		'R', 'L', 'C', 'N',
		0xff, 0xfe,
		0x00, 0x01,
		0x2e, 0x00, 0x00, 0x00,
		0x10, 0x00,
		0x02, 0x00,
	}, b[:headerSize])

	var g File
	require.Nil(t, g.UnmarshalBinary(b))
	assert.Equal(t, f, g)
}

func TestFileBadByteOrderMark(t *testing.T) {
	f := File{ID: "RLCN", Version: Version100}
	b, err := f.MarshalBinary()
	require.Nil(t, err)
	b[4], b[5] = 0xfe, 0xff

	var g File
	assert.Equal(t, errByteOrderMark, g.UnmarshalBinary(b))
}

func TestFileUnknownVersion(t *testing.T) {
	f := File{ID: "RLCN", Version: Version101}
	b, err := f.MarshalBinary()
	require.Nil(t, err)
	b[6] = 0x02

	var g File
	assert.NotNil(t, g.UnmarshalBinary(b))
}

func TestFileBadHeaderSize(t *testing.T) {
	f := File{ID: "RLCN", Version: Version100}
	b, err := f.MarshalBinary()
	require.Nil(t, err)
	b[12] = 0x20

	var g File
	assert.Equal(t, errHeaderSize, g.UnmarshalBinary(b))
}

func TestFileBlockSizeBelowMinimum(t *testing.T) {
	var w Writer
	w.Tag("RLCN")
	w.Uint16(byteOrderMark)
	w.Uint16(uint16(Version100))
	w.Uint32(headerSize + 8)
	w.Uint16(headerSize)
	w.Uint16(1)
	w.Tag("TTLP")
	w.Uint32(4)

	var f File
	assert.NotNil(t, f.UnmarshalBinary(w.Bytes()))
}

func TestFileTruncated(t *testing.T) {
	f := File{
		ID:      "RECN",
		Version: Version100,
		Blocks:  []Block{{ID: "KBEC", Data: []byte{1, 2, 3, 4}}},
	}
	b, err := f.MarshalBinary()
	require.Nil(t, err)

	var g File
	assert.Equal(t, errShortRead, g.UnmarshalBinary(b[:len(b)-2]))
}

func TestParseVersion(t *testing.T) {
	v, err := ParseVersion(0x0100)
	require.Nil(t, err)
	assert.Equal(t, Version100, v)

	v, err = ParseVersion(0x0101)
	require.Nil(t, err)
	assert.Equal(t, Version101, v)

	_, err = ParseVersion(0x0200)
	assert.NotNil(t, err)
}

func TestLabelsRoundTrip(t *testing.T) {
	labels := []string{"walk", "run", "jump"}

	block := LabelBlock(labels)
	assert.Equal(t, LabelBlockID, block.ID)

	decoded, err := Labels(block)
	require.Nil(t, err)
	assert.Equal(t, labels, decoded)
}

func TestLabelsEmpty(t *testing.T) {
	decoded, err := Labels(LabelBlock(nil))
	require.Nil(t, err)
	assert.Empty(t, decoded)
}

func TestLabelsWrongBlock(t *testing.T) {
	_, err := Labels(Block{ID: "KBEC"})
	assert.NotNil(t, err)
}

func TestLabelsNonASCII(t *testing.T) {
	block := LabelBlock([]string{"caf\xe9"})
	_, err := Labels(block)
	assert.Equal(t, errLabelByte, err)
}

func TestLabelsDuplicateOffsets(t *testing.T) {
	// Two empty labels share offset 0, so the second offset is not
	// strictly ascending and ends the offset run. Only the first label
	// is recovered; the under-count is silent.
	var w Writer
	w.Uint32(0)
	w.Uint32(0)
	w.Uint32(1)
	w.Uint8(0)
	w.String("a")
	w.Uint8(0)

	labels, err := Labels(Block{ID: LabelBlockID, Data: w.Bytes()})
	require.Nil(t, err)
	assert.Equal(t, []string{""}, labels)
}

func TestLabelsLongNames(t *testing.T) {
	// Label text long enough that its leading bytes, read as an offset,
	// cannot extend the offset run.
	labels := []string{"player_idle_animation", "player_walk_animation"}

	decoded, err := Labels(LabelBlock(labels))
	require.Nil(t, err)
	assert.Equal(t, labels, decoded)
}
