/*
Package ncgr implements the Nitro character-graphics container.

A file is an RGCN container holding one required RAHC block of character
data and an optional SOPC block. Character data is either a sequence of 8 by
8 tiles or a flat bitmap, in 4-bit or 8-bit palette indices. In the four 1D
VRAM mapping modes the tile-grid dimensions are stored as the 0xFFFF
sentinel; in 2D mode they are real values. The SOPC block carries no
information recoverable from the data, so whether to write one is purely
caller intent, recorded as metadata.

Character data may additionally be obfuscated with the LCG-XOR stream cipher
from the crypt package, as used for sprite graphics in several titles.
*/
package ncgr

import (
	"errors"
	"fmt"

	"github.com/bodgit/nitro/crypt"
	"github.com/bodgit/nitro/graphic"
	"github.com/bodgit/nitro/ntr"
)

const (
	// Extension is the conventional file extension.
	Extension = "NCGR"

	fileID = "RGCN"
	charID = "RAHC"
	cposID = "SOPC"

	dimensionNone = 0xffff
	charOffset    = 0x18
)

var (
	errNoBlocks       = errors.New("ncgr: container has no blocks")
	errPaletteDepth   = errors.New("ncgr: texture format is not a palette depth")
	errDimensions     = errors.New("ncgr: tile-grid dimensions disagree with the mapping mode")
	errOddPixelCount  = errors.New("ncgr: 4-bit pixel count is odd")
	errNot2D          = errors.New("ncgr: operation requires 2D mapping")
	errNot1D          = errors.New("ncgr: operation requires 1D mapping")
	errTileRemainder  = errors.New("ncgr: character data does not divide into tiles")
	errCharacterValue = errors.New("ncgr: character value is neither 0 nor 256")
)

// Metadata is the per-file configuration bundle: plain data, all fields
// defaulted by DefaultMetadata.
type Metadata struct {
	Version         ntr.Version
	TextureFormat   ntr.TextureFormat
	MappingMode     ntr.MappingMode
	CharacterFormat ntr.CharacterFormat

	// IncludeCPOS requests the optional SOPC block on write. Its presence
	// in a decoded file is recorded here.
	IncludeCPOS bool
}

// DefaultMetadata returns the customary defaults: revision 1.0, 16-color
// tiles, 2D mapping.
func DefaultMetadata() Metadata {
	return Metadata{
		Version:         ntr.Version100,
		TextureFormat:   ntr.TexturePalette16,
		MappingMode:     ntr.Mapping2D,
		CharacterFormat: ntr.CharacterTiled,
	}
}

// mapping is the tagged 2D-grid-or-1D-region variant. The dimensions are
// meaningful only in 2D mode.
type mapping struct {
	mode          ntr.MappingMode
	widthInTiles  int
	heightInTiles int
}

// characters is the tagged tiles-or-bitmap variant: exactly one of tiles and
// bitmap is set. value distinguishes the two equivalent tiled encodings (0
// and 256).
type characters struct {
	tiles  []graphic.Tile
	value  ntr.CharacterFormat
	bitmap []byte
}

func (c characters) format() ntr.CharacterFormat {
	if c.tiles != nil {
		return c.value
	}
	return ntr.CharacterBitmap
}

// NCGR is a decoded character-graphics file. It implements
// encoding.BinaryMarshaler and encoding.BinaryUnmarshaler.
type NCGR struct {
	version       ntr.Version
	textureFormat ntr.TextureFormat
	mapping       mapping
	characters    characters
	includeCPOS   bool
}

// FromImage builds an NCGR from an indexed image under the given metadata.
// In 2D mapping mode the tile-grid dimensions are taken from the image,
// which must divide exactly into tiles.
func FromImage(m *graphic.Image, metadata Metadata) (*NCGR, error) {
	switch metadata.TextureFormat {
	case ntr.TexturePalette16, ntr.TexturePalette256:
	default:
		return nil, errPaletteDepth
	}

	widthInTiles, err := m.WidthInTiles()
	if err != nil {
		return nil, err
	}

	g := &NCGR{
		version:       metadata.Version,
		textureFormat: metadata.TextureFormat,
		includeCPOS:   metadata.IncludeCPOS,
	}

	if metadata.MappingMode == ntr.Mapping2D {
		heightInTiles, err := m.HeightInTiles()
		if err != nil {
			return nil, err
		}
		g.mapping = mapping{
			mode:          ntr.Mapping2D,
			widthInTiles:  widthInTiles,
			heightInTiles: heightInTiles,
		}
	} else {
		g.mapping = mapping{mode: metadata.MappingMode}
	}

	switch metadata.CharacterFormat {
	case ntr.CharacterTiled, ntr.CharacterTiled256:
		tiles, err := graphic.PixelsToTiles(m.Pixels(), widthInTiles)
		if err != nil {
			return nil, err
		}
		g.characters = characters{tiles: tiles, value: metadata.CharacterFormat}
	case ntr.CharacterBitmap:
		g.characters = characters{bitmap: append([]byte(nil), m.Pixels()...)}
	default:
		return nil, errCharacterValue
	}

	return g, nil
}

// Metadata returns the file's round-trip metadata.
func (g *NCGR) Metadata() Metadata {
	return Metadata{
		Version:         g.version,
		TextureFormat:   g.textureFormat,
		MappingMode:     g.mapping.mode,
		CharacterFormat: g.characters.format(),
		IncludeCPOS:     g.includeCPOS,
	}
}

// Image renders the character data as an indexed image using the stored 2D
// tile-grid width. It fails for 1D mapping modes, which store no width.
func (g *NCGR) Image() (*graphic.Image, error) {
	if g.mapping.mode != ntr.Mapping2D {
		return nil, errNot2D
	}
	return g.image(g.mapping.widthInTiles)
}

// ImageWithWidth renders the character data as an indexed image of the given
// pixel width. It is the 1D counterpart of Image.
func (g *NCGR) ImageWithWidth(width int) (*graphic.Image, error) {
	if g.mapping.mode == ntr.Mapping2D {
		return nil, errNot1D
	}
	if width <= 0 || width%graphic.TileLength != 0 {
		return nil, fmt.Errorf("ncgr: width %d is not a multiple of %d", width, graphic.TileLength)
	}
	return g.image(width / graphic.TileLength)
}

func (g *NCGR) image(widthInTiles int) (*graphic.Image, error) {
	var pixels []byte
	if g.characters.tiles != nil {
		var err error
		pixels, err = graphic.TilesToPixels(g.characters.tiles, widthInTiles)
		if err != nil {
			return nil, err
		}
	} else {
		pixels = g.characters.bitmap
	}
	return graphic.NewImage(widthInTiles*graphic.TileLength, pixels, nil)
}

// Cipher returns a copy of the file with its character data obfuscated under
// the given key.
func (g *NCGR) Cipher(key uint32) (*NCGR, error) {
	raw, err := g.rawData()
	if err != nil {
		return nil, err
	}
	ciphered, err := crypt.Cipher(raw, key)
	if err != nil {
		return nil, err
	}
	return g.withRawData(ciphered)
}

// Decipher returns a copy of the file with its character data deciphered,
// along with the recovered key.
func (g *NCGR) Decipher() (*NCGR, uint32, error) {
	raw, err := g.rawData()
	if err != nil {
		return nil, 0, err
	}
	deciphered, key, err := crypt.Decipher(raw)
	if err != nil {
		return nil, 0, err
	}
	out, err := g.withRawData(deciphered)
	if err != nil {
		return nil, 0, err
	}
	return out, key, nil
}

func (g *NCGR) withRawData(raw []byte) (*NCGR, error) {
	chars, err := parseCharacters(raw, g.textureFormat, g.characters.format())
	if err != nil {
		return nil, err
	}
	dup := *g
	dup.characters = chars
	return &dup, nil
}

// rawData packs the character data back into its on-disk byte form.
func (g *NCGR) rawData() ([]byte, error) {
	var pixels []byte
	if g.characters.tiles != nil {
		pixels = make([]byte, 0, len(g.characters.tiles)*graphic.TilePixels)
		for i := range g.characters.tiles {
			pixels = append(pixels, g.characters.tiles[i][:]...)
		}
	} else {
		pixels = g.characters.bitmap
	}

	switch g.textureFormat {
	case ntr.TexturePalette16:
		if len(pixels)%2 != 0 {
			return nil, errOddPixelCount
		}
		raw := make([]byte, 0, len(pixels)/2)
		for i := 0; i < len(pixels); i += 2 {
			raw = append(raw, pixels[i]&0xf|pixels[i+1]<<4)
		}
		return raw, nil
	case ntr.TexturePalette256:
		return append([]byte(nil), pixels...), nil
	}
	return nil, errPaletteDepth
}

// parseCharacters expands raw block bytes into the tagged tiles-or-bitmap
// variant. 4-bit data holds two pixels per byte, low nibble first.
func parseCharacters(raw []byte, textureFormat ntr.TextureFormat, characterFormat ntr.CharacterFormat) (characters, error) {
	var pixels []byte
	switch textureFormat {
	case ntr.TexturePalette16:
		pixels = make([]byte, 0, len(raw)*2)
		for _, b := range raw {
			pixels = append(pixels, b&0xf, b>>4)
		}
	case ntr.TexturePalette256:
		pixels = append([]byte(nil), raw...)
	default:
		return characters{}, errPaletteDepth
	}

	switch characterFormat {
	case ntr.CharacterTiled, ntr.CharacterTiled256:
		if len(pixels)%graphic.TilePixels != 0 {
			return characters{}, errTileRemainder
		}
		tiles := make([]graphic.Tile, len(pixels)/graphic.TilePixels)
		for i := range tiles {
			copy(tiles[i][:], pixels[i*graphic.TilePixels:])
		}
		return characters{tiles: tiles, value: characterFormat}, nil
	case ntr.CharacterBitmap:
		return characters{bitmap: pixels}, nil
	}
	return characters{}, errCharacterValue
}
