package ncgr

import (
	"fmt"

	"github.com/bodgit/nitro/ntr"
)

// UnmarshalBinary decodes an NCGR file from its on-disk form.
func (g *NCGR) UnmarshalBinary(b []byte) error {
	var file ntr.File
	if err := file.UnmarshalBinary(b); err != nil {
		return err
	}
	return g.unmarshalFile(&file)
}

func (g *NCGR) unmarshalFile(file *ntr.File) error {
	if file.ID != fileID {
		return fmt.Errorf("ncgr: expected %q container, got %q", fileID, file.ID)
	}
	if len(file.Blocks) == 0 {
		return errNoBlocks
	}

	char := file.Blocks[0]
	if char.ID != charID {
		return fmt.Errorf("ncgr: expected %q block, got %q", charID, char.ID)
	}
	r := ntr.NewReader(char.Data)

	heightInTiles, err := r.Uint16()
	if err != nil {
		return err
	}
	widthInTiles, err := r.Uint16()
	if err != nil {
		return err
	}

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

	if _, err := r.Uint16(); err != nil { // reserved
		return err
	}

	rawMapping, err := r.Uint32()
	if err != nil {
		return err
	}
	mappingMode, err := ntr.ParseMappingModeCHAR(rawMapping)
	if err != nil {
		return err
	}

	var md mapping
	if mappingMode == ntr.Mapping2D {
		if heightInTiles == dimensionNone || widthInTiles == dimensionNone {
			return errDimensions
		}
		md = mapping{
			mode:          ntr.Mapping2D,
			widthInTiles:  int(widthInTiles),
			heightInTiles: int(heightInTiles),
		}
	} else {
		if heightInTiles != dimensionNone || widthInTiles != dimensionNone {
			return errDimensions
		}
		md = mapping{mode: mappingMode}
	}

	rawCharacterFormat, err := r.Uint32()
	if err != nil {
		return err
	}
	characterFormat, err := ntr.ParseCharacterFormat(rawCharacterFormat)
	if err != nil {
		return err
	}

	dataSize, err := r.Uint32()
	if err != nil {
		return err
	}
	offset, err := r.Uint32()
	if err != nil {
		return err
	}
	if offset != charOffset {
		return fmt.Errorf("ncgr: character data offset %#x, expected %#x", offset, charOffset)
	}

	raw, err := r.Bytes(int(dataSize))
	if err != nil {
		return err
	}
	chars, err := parseCharacters(raw, textureFormat, characterFormat)
	if err != nil {
		return err
	}

	includeCPOS := false
	if len(file.Blocks) > 1 {
		if file.Blocks[1].ID != cposID {
			return fmt.Errorf("ncgr: expected %q block, got %q", cposID, file.Blocks[1].ID)
		}
		includeCPOS = true
	}

	g.version = file.Version
	g.textureFormat = textureFormat
	g.mapping = md
	g.characters = chars
	g.includeCPOS = includeCPOS

	return nil
}

// MarshalBinary encodes the NCGR back to its on-disk form.
func (g *NCGR) MarshalBinary() ([]byte, error) {
	charBlock, err := g.charBlock()
	if err != nil {
		return nil, err
	}
	blocks := []ntr.Block{charBlock}

	if g.includeCPOS {
		cposBlock, err := g.cposBlock()
		if err != nil {
			return nil, err
		}
		blocks = append(blocks, cposBlock)
	}

	file := ntr.File{
		ID:      fileID,
		Version: g.version,
		Blocks:  blocks,
	}
	return file.MarshalBinary()
}

func (g *NCGR) charBlock() (ntr.Block, error) {
	widthInTiles, heightInTiles := uint16(dimensionNone), uint16(dimensionNone)
	if g.mapping.mode == ntr.Mapping2D {
		widthInTiles = uint16(g.mapping.widthInTiles)
		heightInTiles = uint16(g.mapping.heightInTiles)
	}

	raw, err := g.rawData()
	if err != nil {
		return ntr.Block{}, err
	}

	var w ntr.Writer
	w.Uint16(heightInTiles)
	w.Uint16(widthInTiles)
	w.Uint16(uint16(g.textureFormat))
	w.Uint16(0)
	w.Uint32(g.mapping.mode.CHAR())
	w.Uint32(uint32(g.characters.format()))
	w.Uint32(uint32(len(raw)))
	w.Uint32(charOffset)
	w.Write(raw)

	return ntr.Block{ID: charID, Data: w.Bytes()}, nil
}

func (g *NCGR) cposBlock() (ntr.Block, error) {
	if g.mapping.mode != ntr.Mapping2D {
		return ntr.Block{}, errNot2D
	}
	var w ntr.Writer
	w.Uint16(0)
	w.Uint16(0)
	w.Uint16(uint16(g.mapping.widthInTiles))
	w.Uint16(uint16(g.mapping.heightInTiles))
	return ntr.Block{ID: cposID, Data: w.Bytes()}, nil
}
