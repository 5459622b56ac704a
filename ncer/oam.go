package ncer

import (
	"errors"
	"fmt"
)

// ObjMode is the hardware object mode of a sprite.
type ObjMode uint8

const (
	ModeNormal ObjMode = iota
	ModeTranslucent
	ModeWindow
	ModeBitmap
)

// ParseObjMode converts the 2-bit on-disk value.
func ParseObjMode(v uint16) (ObjMode, error) {
	if v > uint16(ModeBitmap) {
		return 0, fmt.Errorf("ncer: unknown object mode %d", v)
	}
	return ObjMode(v), nil
}

// Size is the hardware sprite size, a 12-way enumeration formed from the
// 2-bit shape and 2-bit size fields. Shape 3 does not exist.
type Size uint8

const (
	Size8x8 Size = iota
	Size16x16
	Size32x32
	Size64x64
	Size16x8
	Size32x8
	Size32x16
	Size64x32
	Size8x16
	Size8x32
	Size16x32
	Size32x64
)

// ParseSize converts the shape and size field pair.
func ParseSize(shape, size uint8) (Size, error) {
	if shape > 2 || size > 3 {
		return 0, fmt.Errorf("ncer: unknown sprite shape/size %d/%d", shape, size)
	}
	return Size(shape<<2 | size), nil
}

// ShapeSize returns the shape and size field pair.
func (s Size) ShapeSize() (shape, size uint8, err error) {
	if s > Size32x64 {
		return 0, 0, fmt.Errorf("ncer: invalid sprite size %d", uint8(s))
	}
	return uint8(s) >> 2, uint8(s) & 3, nil
}

// OAM is a single hardware sprite attribute record, the decoded form of the
// three 16-bit attribute words.
type OAM struct {
	Y int8  `json:"y"`
	X int16 `json:"x"`

	Affine  bool `json:"affine"`
	Disable bool `json:"disable"`
	HFlip   bool `json:"h_flip"`
	VFlip   bool `json:"v_flip"`

	Mode   ObjMode `json:"mode"`
	Mosaic bool    `json:"mosaic"`

	ColorMode uint8 `json:"color_mode"`

	Size          Size   `json:"size"`
	TileNumber    uint16 `json:"tile_number"`
	Priority      uint8  `json:"priority"`
	PaletteNumber uint8  `json:"palette_number"`
}

var errOAMX = errors.New("ncer: sprite x position out of range")

// DecodeOAM unpacks the three attribute words. The x position is a 9-bit
// field with wraparound sign: values of 256 and above are 512 less than
// stored. The y position is a plain signed byte.
func DecodeOAM(attr0, attr1, attr2 uint16) (OAM, error) {
	mode, err := ParseObjMode(attr0 >> 0xa & 3)
	if err != nil {
		return OAM{}, err
	}
	size, err := ParseSize(uint8(attr0>>0xe&3), uint8(attr1>>0xe&3))
	if err != nil {
		return OAM{}, err
	}

	x := int16(attr1 & 0x1ff)
	if x >= 256 {
		x -= 512
	}
	if x < -256 || x > 255 {
		return OAM{}, errOAMX
	}

	return OAM{
		Y:             int8(attr0 & 0xff),
		X:             x,
		Affine:        attr0>>0x8&1 != 0,
		Disable:       attr0>>0x9&1 != 0,
		Mode:          mode,
		Mosaic:        attr0>>0xc&1 != 0,
		ColorMode:     uint8(attr0 >> 0xd & 1),
		Size:          size,
		HFlip:         attr1>>0xc&1 != 0,
		VFlip:         attr1>>0xd&1 != 0,
		TileNumber:    attr2 & 0x3ff,
		Priority:      uint8(attr2 >> 0xa & 3),
		PaletteNumber: uint8(attr2 >> 0xc & 0xf),
	}, nil
}

// Encode packs the record back into its three attribute words. Negative x
// positions have 512 added before storing in the 9-bit field.
func (o OAM) Encode() (attr0, attr1, attr2 uint16, err error) {
	shape, size, err := o.Size.ShapeSize()
	if err != nil {
		return 0, 0, 0, err
	}

	attr0 = uint16(uint8(o.Y)) |
		b16(o.Affine)<<0x8 |
		b16(o.Disable)<<0x9 |
		uint16(o.Mode)<<0xa |
		b16(o.Mosaic)<<0xc |
		uint16(o.ColorMode)<<0xd |
		uint16(shape)<<0xe

	x := o.X
	if x < 0 {
		x += 512
	}
	attr1 = uint16(x) |
		b16(o.HFlip)<<0xc |
		b16(o.VFlip)<<0xd |
		uint16(size)<<0xe

	attr2 = o.TileNumber |
		uint16(o.Priority)<<0xa |
		uint16(o.PaletteNumber)<<0xc

	return attr0, attr1, attr2, nil
}

func b16(v bool) uint16 {
	if v {
		return 1
	}
	return 0
}

// CellAttribute is the decoded form of the 16-bit per-cell attribute word.
// The word also stores a combined-flip bit which must equal HFlip && VFlip;
// it is derived on encode and asserted on decode, never stored.
type CellAttribute struct {
	HFlip                bool   `json:"h_flip"`
	VFlip                bool   `json:"v_flip"`
	HasBoundingRectangle bool   `json:"has_bounding_rectangle"`
	BoundingSphereRadius uint16 `json:"bounding_sphere_radius"`
}

var errCombinedFlip = errors.New("ncer: combined-flip bit disagrees with the flip bits")

// ParseCellAttribute unpacks the cell attribute word.
func ParseCellAttribute(v uint16) (CellAttribute, error) {
	hFlip := v>>0x8&1 != 0
	vFlip := v>>0x9&1 != 0
	if v>>0xa&1 != 0 != (hFlip && vFlip) {
		return CellAttribute{}, errCombinedFlip
	}
	return CellAttribute{
		HFlip:                hFlip,
		VFlip:                vFlip,
		HasBoundingRectangle: v>>0xb&1 != 0,
		BoundingSphereRadius: v & 0x3f,
	}, nil
}

// Uint16 packs the cell attribute word, deriving the combined-flip bit.
func (a CellAttribute) Uint16() uint16 {
	return a.BoundingSphereRadius&0x3f |
		b16(a.HFlip)<<0x8 |
		b16(a.VFlip)<<0x9 |
		b16(a.HFlip && a.VFlip)<<0xa |
		b16(a.HasBoundingRectangle)<<0xb
}
