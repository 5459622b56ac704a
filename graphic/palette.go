package graphic

// Color is a single palette entry with 8 bits per channel. Values read from
// disk are expanded from 5 bits per channel so the low three bits of each
// channel are always zero; arbitrary in-memory values lose those bits again
// on write.
type Color struct {
	Red, Green, Blue uint8
}

// ColorFromUint16 unpacks a 15-bit BGR555 value into a Color.
func ColorFromUint16(v uint16) Color {
	return Color{
		Red:   uint8(v&0x1f) * 8,
		Green: uint8(v>>5&0x1f) * 8,
		Blue:  uint8(v>>10&0x1f) * 8,
	}
}

// Uint16 packs the color back into its 15-bit BGR555 form. The high bit is
// always clear.
func (c Color) Uint16() uint16 {
	return uint16(c.Red/8)&0x1f | uint16(c.Green/8)&0x1f<<5 | uint16(c.Blue/8)&0x1f<<10
}

// Palette is an ordered list of colors.
type Palette []Color

// Grayscale16 returns a 16 entry grayscale palette.
func Grayscale16() Palette {
	p := make(Palette, 0, 16)
	for i := 0; i < 256; i += 0x11 {
		p = append(p, Color{uint8(i), uint8(i), uint8(i)})
	}
	return p
}

// Grayscale256 returns a 256 entry grayscale palette.
func Grayscale256() Palette {
	p := make(Palette, 0, 256)
	for i := 0; i < 256; i++ {
		p = append(p, Color{uint8(i), uint8(i), uint8(i)})
	}
	return p
}
