package graphic

import "errors"

var (
	errPixelStride  = errors.New("graphic: pixel count is not a multiple of the width")
	errTileAlign    = errors.New("graphic: pixel count is not a multiple of the tile size")
	errTileStride   = errors.New("graphic: tile count is not a multiple of the width in tiles")
	errCropBounds   = errors.New("graphic: crop rectangle out of bounds")
	errNotTileExact = errors.New("graphic: dimension is not a multiple of the tile length")
)

// Image is an indexed-color image: a flat buffer of palette indices with a
// fixed width and an optional palette. The height is derived from the buffer
// length, never stored.
type Image struct {
	width   int
	pixels  []byte
	palette Palette
}

// NewImage builds an image from a flat pixel-index buffer. The buffer length
// must be a multiple of width. The palette may be nil. The buffer and palette
// are copied; the image exclusively owns its storage.
func NewImage(width int, pixels []byte, palette Palette) (*Image, error) {
	if width <= 0 || len(pixels)%width != 0 {
		return nil, errPixelStride
	}
	m := &Image{
		width:  width,
		pixels: append([]byte(nil), pixels...),
	}
	if palette != nil {
		m.palette = append(Palette(nil), palette...)
	}
	return m, nil
}

// WithPalette returns a copy of the image carrying the given palette.
func (m *Image) WithPalette(palette Palette) *Image {
	return &Image{
		width:   m.width,
		pixels:  m.pixels,
		palette: append(Palette(nil), palette...),
	}
}

// Width returns the width of the image in pixels.
func (m *Image) Width() int { return m.width }

// Height returns the derived height of the image in pixels.
func (m *Image) Height() int { return len(m.pixels) / m.width }

// Pixels returns a copy of the flat pixel-index buffer.
func (m *Image) Pixels() []byte {
	return append([]byte(nil), m.pixels...)
}

// Palette returns a copy of the attached palette, or nil if there is none.
func (m *Image) Palette() Palette {
	if m.palette == nil {
		return nil
	}
	return append(Palette(nil), m.palette...)
}

// WidthInTiles returns the width of the image in tiles. The width must be an
// exact multiple of the tile length.
func (m *Image) WidthInTiles() (int, error) {
	if m.width%TileLength != 0 {
		return 0, errNotTileExact
	}
	return m.width / TileLength, nil
}

// HeightInTiles returns the height of the image in tiles. The height must be
// an exact multiple of the tile length.
func (m *Image) HeightInTiles() (int, error) {
	if m.Height()%TileLength != 0 {
		return 0, errNotTileExact
	}
	return m.Height() / TileLength, nil
}

// Crop returns the sub-image bounded inclusively by the given edges.
func (m *Image) Crop(top, left, bottom, right int) (*Image, error) {
	if left < 0 || left >= right || right >= m.width {
		return nil, errCropBounds
	}
	if top < 0 || top >= bottom || bottom >= m.Height() {
		return nil, errCropBounds
	}

	pixels := make([]byte, 0, (right-left+1)*(bottom-top+1))
	for y := top; y <= bottom; y++ {
		pixels = append(pixels, m.pixels[y*m.width+left:y*m.width+right+1]...)
	}

	return &Image{
		width:   right - left + 1,
		pixels:  pixels,
		palette: m.palette,
	}, nil
}

// PixelsToTiles chunks a flat pixel buffer arranged as scanlines of
// widthInTiles*8 pixels into 8 by 8 tiles, left-to-right, top-to-bottom of
// the tile grid. The pixel count must be a multiple of the tile size and the
// tile count a multiple of widthInTiles.
func PixelsToTiles(pixels []byte, widthInTiles int) ([]Tile, error) {
	if len(pixels)%TilePixels != 0 {
		return nil, errTileAlign
	}
	numTiles := len(pixels) / TilePixels
	if widthInTiles <= 0 || numTiles%widthInTiles != 0 {
		return nil, errTileStride
	}

	tiles := make([]Tile, 0, numTiles)
	rowStride := TilePixels * widthInTiles
	for row := 0; row < len(pixels); row += rowStride {
		for tn := 0; tn < widthInTiles; tn++ {
			var tile Tile
			for y := 0; y < TileLength; y++ {
				for x := 0; x < TileLength; x++ {
					tile[y*TileLength+x] = pixels[row+tn*TileLength+y*TileLength*widthInTiles+x]
				}
			}
			tiles = append(tiles, tile)
		}
	}
	return tiles, nil
}

// TilesToPixels is the exact inverse of PixelsToTiles.
func TilesToPixels(tiles []Tile, widthInTiles int) ([]byte, error) {
	if widthInTiles <= 0 || len(tiles)%widthInTiles != 0 {
		return nil, errTileStride
	}

	pixels := make([]byte, 0, len(tiles)*TilePixels)
	for row := 0; row < len(tiles); row += widthInTiles {
		for y := 0; y < TileLength; y++ {
			for _, tile := range tiles[row : row+widthInTiles] {
				pixels = append(pixels, tile[y*TileLength:(y+1)*TileLength]...)
			}
		}
	}
	return pixels, nil
}
