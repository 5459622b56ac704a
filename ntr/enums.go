package ntr

import "fmt"

// TextureFormat is the pixel index depth of character data. Only Palette16
// and Palette256 occur in the graphics containers handled here; the other
// values exist in the hardware enumeration but are rejected by the codecs.
type TextureFormat uint16

const (
	TextureNone TextureFormat = iota
	TextureA3I5
	TexturePalette4
	TexturePalette16
	TexturePalette256
	TextureCompressed
	TextureA5I3
	TextureDirect
)

// ParseTextureFormat converts the on-disk selector, rejecting values outside
// the hardware enumeration.
func ParseTextureFormat(v uint16) (TextureFormat, error) {
	if v > uint16(TextureDirect) {
		return 0, fmt.Errorf("ntr: unknown texture format %d", v)
	}
	return TextureFormat(v), nil
}

func (t TextureFormat) String() string {
	switch t {
	case TextureNone:
		return "none"
	case TextureA3I5:
		return "a3i5"
	case TexturePalette4:
		return "palette4"
	case TexturePalette16:
		return "palette16"
	case TexturePalette256:
		return "palette256"
	case TextureCompressed:
		return "compressed"
	case TextureA5I3:
		return "a5i3"
	case TextureDirect:
		return "direct"
	}
	return fmt.Sprintf("texture(%d)", uint16(t))
}

// MappingMode selects how character data is addressed: as a 2D tile grid or
// as a flat 1D VRAM region of a given size class. The character-graphics and
// cell-bank containers store it with two different integer encodings.
type MappingMode uint8

const (
	Mapping2D MappingMode = iota
	Mapping1D32K
	Mapping1D64K
	Mapping1D128K
	Mapping1D256K
)

// ParseMappingModeCHAR converts the encoding used by the character-graphics
// block.
func ParseMappingModeCHAR(v uint32) (MappingMode, error) {
	switch v {
	case 0x00000000:
		return Mapping2D, nil
	case 0x00000010:
		return Mapping1D32K, nil
	case 0x00100010:
		return Mapping1D64K, nil
	case 0x00200010:
		return Mapping1D128K, nil
	case 0x00300010:
		return Mapping1D256K, nil
	}
	return 0, fmt.Errorf("ntr: unknown character mapping mode %#08x", v)
}

// CHAR returns the encoding used by the character-graphics block.
func (m MappingMode) CHAR() uint32 {
	switch m {
	case Mapping1D32K:
		return 0x00000010
	case Mapping1D64K:
		return 0x00100010
	case Mapping1D128K:
		return 0x00200010
	case Mapping1D256K:
		return 0x00300010
	}
	return 0
}

// ParseMappingModeCEBK converts the encoding used by the cell-bank block.
func ParseMappingModeCEBK(v uint32) (MappingMode, error) {
	switch v {
	case 0:
		return Mapping1D32K, nil
	case 1:
		return Mapping1D64K, nil
	case 2:
		return Mapping1D128K, nil
	case 3:
		return Mapping1D256K, nil
	case 4:
		return Mapping2D, nil
	}
	return 0, fmt.Errorf("ntr: unknown cell mapping mode %#08x", v)
}

// CEBK returns the encoding used by the cell-bank block.
func (m MappingMode) CEBK() uint32 {
	switch m {
	case Mapping1D32K:
		return 0
	case Mapping1D64K:
		return 1
	case Mapping1D128K:
		return 2
	case Mapping1D256K:
		return 3
	}
	return 4
}

func (m MappingMode) String() string {
	switch m {
	case Mapping2D:
		return "2d"
	case Mapping1D32K:
		return "1d32k"
	case Mapping1D64K:
		return "1d64k"
	case Mapping1D128K:
		return "1d128k"
	case Mapping1D256K:
		return "1d256k"
	}
	return fmt.Sprintf("mapping(%d)", uint8(m))
}

// CharacterFormat selects whether character data is tile-organized or laid
// out linearly like scanlines. The two tile-organized values are functionally
// equivalent; the distinction is preserved only for byte-exact round trips.
type CharacterFormat uint32

const (
	CharacterTiled    CharacterFormat = 0
	CharacterBitmap   CharacterFormat = 1
	CharacterTiled256 CharacterFormat = 256
)

// ParseCharacterFormat converts the on-disk selector.
func ParseCharacterFormat(v uint32) (CharacterFormat, error) {
	switch CharacterFormat(v) {
	case CharacterTiled, CharacterBitmap, CharacterTiled256:
		return CharacterFormat(v), nil
	}
	return 0, fmt.Errorf("ntr: unknown character format %d", v)
}
