/*
Package nscr implements the Nitro screen (tilemap) container.

A file is an RCSN container holding a single NRCS block: the screen
dimensions in pixels, a texture-format selector, a background-type selector
and a table of screen entries. Background types 0 and 2 store 16-bit entries
carrying a tile index, two flip flags and a palette-bank index; the legacy
background type 1 stores bare 8-bit tile indices with no flip or palette
capability.

Only decoding is implemented. The write-side byte layout has not been
confirmed against real files, so no encoder is provided rather than
guessing one.
*/
package nscr

import (
	"errors"
	"fmt"

	"github.com/bodgit/nitro/graphic"
	"github.com/bodgit/nitro/ntr"
)

const (
	// Extension is the conventional file extension.
	Extension = "NSCR"

	fileID = "RCSN"
	scrnID = "NRCS"
)

var (
	errBlockCount    = errors.New("nscr: container does not have exactly one block")
	errTileAlign     = errors.New("nscr: dimension is not a multiple of the tile length")
	errColorSelector = errors.New("nscr: unknown color-depth selector")
	errBGType        = errors.New("nscr: unknown background type")
	errScreenSize    = errors.New("nscr: entry table size disagrees with the dimensions")
	errNoPalette     = errors.New("nscr: tileset image has no palette")
	errPaletteBank   = errors.New("nscr: 256-color screens cannot select a palette bank")
	errPaletteShort  = errors.New("nscr: tileset palette has too few colors")
	errTileIndex     = errors.New("nscr: screen entry references a tile outside the tileset")
)

// Entry is a single decoded screen entry.
type Entry struct {
	TileIndex    int
	HFlip, VFlip bool
	PaletteIndex int
}

// ParseEntry unpacks the 16-bit screen entry word: a 10-bit tile index, two
// flip flags and a 4-bit palette-bank index.
func ParseEntry(v uint16) Entry {
	return Entry{
		TileIndex:    int(v & 0x3ff),
		HFlip:        v>>0xa&1 != 0,
		VFlip:        v>>0xb&1 != 0,
		PaletteIndex: int(v >> 0xc & 0xf),
	}
}

// NSCR is a decoded screen file. It implements
// encoding.BinaryUnmarshaler; there is deliberately no encoder.
type NSCR struct {
	version       ntr.Version
	widthInTiles  int
	textureFormat ntr.TextureFormat
	entries       []Entry
}

// Version returns the container header revision.
func (s *NSCR) Version() ntr.Version { return s.version }

// WidthInTiles returns the width of the screen in tiles.
func (s *NSCR) WidthInTiles() int { return s.widthInTiles }

// TextureFormat returns the pixel depth of the tileset this screen indexes.
func (s *NSCR) TextureFormat() ntr.TextureFormat { return s.textureFormat }

// Entries returns the ordered screen entries.
func (s *NSCR) Entries() []Entry {
	return append([]Entry(nil), s.entries...)
}

// UnmarshalBinary decodes an NSCR file from its on-disk form.
func (s *NSCR) UnmarshalBinary(b []byte) error {
	var file ntr.File
	if err := file.UnmarshalBinary(b); err != nil {
		return err
	}
	return s.unmarshalFile(&file)
}

func (s *NSCR) unmarshalFile(file *ntr.File) error {
	if file.ID != fileID {
		return fmt.Errorf("nscr: expected %q container, got %q", fileID, file.ID)
	}
	if len(file.Blocks) != 1 {
		return errBlockCount
	}

	scrn := file.Blocks[0]
	if scrn.ID != scrnID {
		return fmt.Errorf("nscr: expected %q block, got %q", scrnID, scrn.ID)
	}
	r := ntr.NewReader(scrn.Data)

	width, err := r.Uint16()
	if err != nil {
		return err
	}
	height, err := r.Uint16()
	if err != nil {
		return err
	}
	if width%graphic.TileLength != 0 || height%graphic.TileLength != 0 {
		return errTileAlign
	}

	colorSelector, err := r.Uint16()
	if err != nil {
		return err
	}
	var textureFormat ntr.TextureFormat
	switch colorSelector {
	case 0:
		textureFormat = ntr.TexturePalette16
	case 1, 2:
		textureFormat = ntr.TexturePalette256
	default:
		return errColorSelector
	}

	bgType, err := r.Uint16()
	if err != nil {
		return err
	}

	screenSize, err := r.Uint32()
	if err != nil {
		return err
	}
	area := int(width) * int(height)
	switch bgType {
	case 0, 2:
		if int(screenSize)*graphic.TilePixels/2 != area {
			return errScreenSize
		}
	case 1:
		if int(screenSize)*graphic.TilePixels != area {
			return errScreenSize
		}
	default:
		return errBGType
	}

	raw, err := r.Bytes(int(screenSize))
	if err != nil {
		return err
	}

	var entries []Entry
	switch bgType {
	case 0, 2:
		entries = make([]Entry, 0, len(raw)/2)
		for i := 0; i < len(raw); i += 2 {
			entries = append(entries, ParseEntry(uint16(raw[i])|uint16(raw[i+1])<<8))
		}
	case 1:
		// The legacy entry is a bare tile index: there are no flip or
		// palette bits to interpret.
		entries = make([]Entry, 0, len(raw))
		for _, tile := range raw {
			entries = append(entries, Entry{TileIndex: int(tile)})
		}
	}

	s.version = file.Version
	s.widthInTiles = int(width) / graphic.TileLength
	s.textureFormat = textureFormat
	s.entries = entries

	return nil
}

// Image renders the screen through the supplied tileset image, which must
// carry its own palette. The palette must cover the highest pixel value
// actually referenced through the highest-used palette bank.
func (s *NSCR) Image(tileset *graphic.Image) (*graphic.Image, error) {
	palette := tileset.Palette()
	if palette == nil {
		return nil, errNoPalette
	}

	widthInTiles, err := tileset.WidthInTiles()
	if err != nil {
		return nil, err
	}
	tiles, err := graphic.PixelsToTiles(tileset.Pixels(), widthInTiles)
	if err != nil {
		return nil, err
	}

	min, err := s.minColors(tiles)
	if err != nil {
		return nil, err
	}
	if len(palette) < min {
		return nil, errPaletteShort
	}

	switch s.textureFormat {
	case ntr.TexturePalette16:
		for i := range tiles {
			for j := range tiles[i] {
				tiles[i][j] %= 16
			}
		}
	case ntr.TexturePalette256:
		for _, entry := range s.entries {
			if entry.PaletteIndex != 0 {
				return nil, errPaletteBank
			}
		}
	default:
		return nil, errColorSelector
	}

	arrangement := make([]graphic.Tile, 0, len(s.entries))
	for _, entry := range s.entries {
		if entry.TileIndex >= len(tiles) {
			return nil, errTileIndex
		}
		tile := tiles[entry.TileIndex]
		if entry.HFlip {
			tile.FlipHorizontal()
		}
		if entry.VFlip {
			tile.FlipVertical()
		}
		arrangement = append(arrangement, tile)
	}

	pixels, err := graphic.TilesToPixels(arrangement, s.widthInTiles)
	if err != nil {
		return nil, err
	}

	return graphic.NewImage(s.widthInTiles*graphic.TileLength, pixels, palette)
}

// minColors computes the number of palette entries the highest-used palette
// bank actually reaches into.
func (s *NSCR) minColors(tiles []graphic.Tile) (int, error) {
	biggest := 0
	for _, entry := range s.entries {
		if entry.PaletteIndex > biggest {
			biggest = entry.PaletteIndex
		}
	}

	maxPixel := 0
	for _, entry := range s.entries {
		if entry.PaletteIndex != biggest {
			continue
		}
		if entry.TileIndex >= len(tiles) {
			return 0, errTileIndex
		}
		for _, pixel := range tiles[entry.TileIndex] {
			if int(pixel) > maxPixel {
				maxPixel = int(pixel)
			}
		}
	}

	return maxPixel + biggest*16, nil
}
