/*
Package graphic implements the pixel and palette model shared by the Nitro
graphics formats.

Pixels are palette indices, not colors. Character data is arranged in 8 by 8
pixel tiles scanned left-to-right, top-to-bottom of the tile grid, with each
tile stored row-major. Colors are stored on disk as packed 15-bit values with
5 bits per channel and expanded to 8 bits per channel in memory.
*/
package graphic

const (
	// TileLength is the width and height in pixels of a single tile.
	TileLength = 8

	// TilePixels is the number of pixels in a single tile.
	TilePixels = TileLength * TileLength
)

// Tile is a single 8 by 8 block of palette indices, stored row-major.
type Tile [TilePixels]byte

// FlipHorizontal mirrors the tile in place around its vertical axis.
func (t *Tile) FlipHorizontal() {
	for y := 0; y < TileLength; y++ {
		for x := 0; x < TileLength>>1; x++ {
			left := y*TileLength + x
			right := y*TileLength + TileLength - x - 1
			t[left], t[right] = t[right], t[left]
		}
	}
}

// FlipVertical mirrors the tile in place around its horizontal axis.
func (t *Tile) FlipVertical() {
	for y := 0; y < TileLength>>1; y++ {
		for x := 0; x < TileLength; x++ {
			top := y*TileLength + x
			bottom := (TileLength-y-1)*TileLength + x
			t[top], t[bottom] = t[bottom], t[top]
		}
	}
}
