/*
Package nclr implements the Nitro palette container.

A file is an RLCN container holding one required TTLP block of packed 16-bit
colors and an optional PMCP block carrying a palette-swap index table. The
TTLP declared size field is stored either as the true color data size or as
0x200 minus that size; both occur in real files, so which one was used is
recorded as metadata and reproduced on write. Likewise the unused high bit of
each color and the presence of the PMCP block carry no color information but
are tracked for byte-exact round trips.
*/
package nclr

import (
	"errors"
	"fmt"

	"github.com/bodgit/nitro/graphic"
	"github.com/bodgit/nitro/ntr"
)

const (
	// Extension is the conventional file extension.
	Extension = "NCLR"

	fileID = "RLCN"
	plttID = "TTLP"
	pcmpID = "PMCP"

	plttHeaderLen = 16
	plttOffset    = 0x10
	pcmpMagic     = 0xbeef
	pcmpOffset    = 0x08
	invertBase    = 0x200
)

var (
	errNoBlocks     = errors.New("nclr: container has no blocks")
	errExtendedFlag = errors.New("nclr: extended flag is neither 0 nor 1")
	errDeclaredSize = errors.New("nclr: declared size matches neither form")
	errPaletteDepth = errors.New("nclr: texture format is not a palette depth")
)

// Metadata captures everything about an NCLR file other than the colors
// themselves. It is plain data; the zero value of Version and TextureFormat
// should normally be replaced via DefaultMetadata.
type Metadata struct {
	Version       ntr.Version
	TextureFormat ntr.TextureFormat

	// PLTT0002 is the value of the reserved 16-bit field at offset 2 of
	// the TTLP block, passed through untouched.
	PLTT0002 uint16

	// Extended records whether the extended-palette flag is set.
	Extended bool

	// InvertSize records whether the declared size was stored as
	// 0x200-size rather than the size itself.
	InvertSize bool

	// HighColorBit records whether the unused high bit was set on any
	// color.
	HighColorBit bool

	// PaletteIndexes is the PMCP palette-swap table. When empty no PMCP
	// block is written.
	PaletteIndexes []uint16
}

// DefaultMetadata returns the customary defaults: container revision 1.0 and
// 16-color palettes.
func DefaultMetadata() Metadata {
	return Metadata{
		Version:       ntr.Version100,
		TextureFormat: ntr.TexturePalette16,
	}
}

// NCLR is a decoded palette file. It implements encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler.
type NCLR struct {
	metadata Metadata
	palette  graphic.Palette
}

// New builds an NCLR from a palette and its metadata.
func New(palette graphic.Palette, metadata Metadata) *NCLR {
	return &NCLR{
		metadata: metadata,
		palette:  append(graphic.Palette(nil), palette...),
	}
}

// Palette returns the decoded colors.
func (p *NCLR) Palette() graphic.Palette {
	return append(graphic.Palette(nil), p.palette...)
}

// Metadata returns the round-trip metadata.
func (p *NCLR) Metadata() Metadata {
	m := p.metadata
	m.PaletteIndexes = append([]uint16(nil), p.metadata.PaletteIndexes...)
	return m
}

// UnmarshalBinary decodes an NCLR file from its on-disk form.
func (p *NCLR) UnmarshalBinary(b []byte) error {
	var file ntr.File
	if err := file.UnmarshalBinary(b); err != nil {
		return err
	}
	return p.unmarshalFile(&file)
}

func (p *NCLR) unmarshalFile(file *ntr.File) error {
	if file.ID != fileID {
		return fmt.Errorf("nclr: expected %q container, got %q", fileID, file.ID)
	}
	if len(file.Blocks) == 0 {
		return errNoBlocks
	}

	pltt := file.Blocks[0]
	if pltt.ID != plttID {
		return fmt.Errorf("nclr: expected %q block, got %q", plttID, pltt.ID)
	}
	r := ntr.NewReader(pltt.Data)

	rawFormat, err := r.Uint16()
	if err != nil {
		return err
	}
	textureFormat, err := ntr.ParseTextureFormat(rawFormat)
	if err != nil {
		return err
	}
	switch textureFormat {
	case ntr.TexturePalette16, ntr.TexturePalette256:
	default:
		return errPaletteDepth
	}

	pltt0002, err := r.Uint16()
	if err != nil {
		return err
	}

	rawExtended, err := r.Uint32()
	if err != nil {
		return err
	}
	if rawExtended > 1 {
		return errExtendedFlag
	}

	if len(pltt.Data) < plttHeaderLen {
		return fmt.Errorf("nclr: %q block truncated", plttID)
	}
	paletteSize := uint32(len(pltt.Data) - plttHeaderLen)
	declaredSize, err := r.Uint32()
	if err != nil {
		return err
	}
	var invertSize bool
	switch declaredSize {
	case paletteSize:
		invertSize = false
	case invertBase - paletteSize:
		invertSize = true
	default:
		return errDeclaredSize
	}

	offset, err := r.Uint32()
	if err != nil {
		return err
	}
	if offset != plttOffset {
		return fmt.Errorf("nclr: palette offset %#x, expected %#x", offset, plttOffset)
	}

	palette := make(graphic.Palette, 0, paletteSize/2)
	highColorBit := false
	for i := uint32(0); i < paletteSize/2; i++ {
		v, err := r.Uint16()
		if err != nil {
			return err
		}
		highColorBit = highColorBit || v>>0xf != 0
		palette = append(palette, graphic.ColorFromUint16(v))
	}

	var paletteIndexes []uint16
	if len(file.Blocks) > 1 {
		paletteIndexes, err = readPCMP(file.Blocks[1])
		if err != nil {
			return err
		}
	}

	p.metadata = Metadata{
		Version:        file.Version,
		TextureFormat:  textureFormat,
		PLTT0002:       pltt0002,
		Extended:       rawExtended == 1,
		InvertSize:     invertSize,
		HighColorBit:   highColorBit,
		PaletteIndexes: paletteIndexes,
	}
	p.palette = palette

	return nil
}

func readPCMP(block ntr.Block) ([]uint16, error) {
	if block.ID != pcmpID {
		return nil, fmt.Errorf("nclr: expected %q block, got %q", pcmpID, block.ID)
	}
	r := ntr.NewReader(block.Data)

	count, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	magic, err := r.Uint16()
	if err != nil {
		return nil, err
	}
	if magic != pcmpMagic {
		return nil, fmt.Errorf("nclr: %q magic %#04x, expected %#04x", pcmpID, magic, pcmpMagic)
	}
	offset, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if offset != pcmpOffset {
		return nil, fmt.Errorf("nclr: %q offset %#x, expected %#x", pcmpID, offset, pcmpOffset)
	}

	indexes := make([]uint16, 0, count)
	for i := 0; i < int(count); i++ {
		v, err := r.Uint16()
		if err != nil {
			return nil, err
		}
		indexes = append(indexes, v)
	}
	return indexes, nil
}

// MarshalBinary encodes the NCLR back to its on-disk form, honouring the
// round-trip metadata.
func (p *NCLR) MarshalBinary() ([]byte, error) {
	blocks := []ntr.Block{p.plttBlock()}
	if len(p.metadata.PaletteIndexes) > 0 {
		blocks = append(blocks, p.pcmpBlock())
	}

	file := ntr.File{
		ID:      fileID,
		Version: p.metadata.Version,
		Blocks:  blocks,
	}
	return file.MarshalBinary()
}

func (p *NCLR) plttBlock() ntr.Block {
	var w ntr.Writer
	w.Uint16(uint16(p.metadata.TextureFormat))
	w.Uint16(p.metadata.PLTT0002)
	if p.metadata.Extended {
		w.Uint32(1)
	} else {
		w.Uint32(0)
	}

	dataSize := uint32(len(p.palette) * 2)
	if p.metadata.InvertSize {
		w.Uint32(invertBase - dataSize)
	} else {
		w.Uint32(dataSize)
	}
	w.Uint32(plttOffset)

	for _, c := range p.palette {
		v := c.Uint16()
		if p.metadata.HighColorBit {
			v |= 1 << 0xf
		}
		w.Uint16(v)
	}

	return ntr.Block{ID: plttID, Data: w.Bytes()}
}

func (p *NCLR) pcmpBlock() ntr.Block {
	var w ntr.Writer
	w.Uint16(uint16(len(p.metadata.PaletteIndexes)))
	w.Uint16(pcmpMagic)
	w.Uint32(pcmpOffset)
	for _, index := range p.metadata.PaletteIndexes {
		w.Uint16(index)
	}
	return ntr.Block{ID: pcmpID, Data: w.Bytes()}
}
