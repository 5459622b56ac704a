/*
Package ncer implements the Nitro cell (sprite) bank container.

A file is an RECN container holding exactly three blocks: a KBEC cell bank,
an LBAL label table with one label per cell by position, and a fixed
four-zero-byte TXEU block. Each cell is an attribute word, a list of OAM
records and, when the bank-wide flag says so, a bounding rectangle; whether a
bounding rectangle is present is a bank-level invariant, not per-cell. All
cells' OAM records are packed contiguously after the cell table, padded with
one 16-bit word when the total record count is odd. Optional VRAM-transfer
and user-extended-attribute tables follow; the latter is fully derived from
the cell count, so its contents are validated arithmetically on decode and
regenerated on encode.

The whole model maps field-for-field to JSON for inspection and editing
workflows.
*/
package ncer

import (
	"encoding/json"

	"github.com/bodgit/nitro/ntr"
)

const (
	// Extension is the conventional file extension.
	Extension = "NCER"

	fileID = "RECN"
	cebkID = "KBEC"
	uextID = "TXEU"
	tacuID = "TACU"

	cebkHeaderLen = 0x18
	vramOffsetLen = 0x08
)

// BoundingRectangle is the per-cell bounding box, present only when the
// bank-wide flag is set.
type BoundingRectangle struct {
	MaxX int16 `json:"max_x"`
	MaxY int16 `json:"max_y"`
	MinX int16 `json:"min_x"`
	MinY int16 `json:"min_y"`
}

// Cell is a single sprite cell: its attribute word, its OAM records and its
// optional bounding rectangle.
type Cell struct {
	Attribute         CellAttribute      `json:"attribute"`
	OAMs              []OAM              `json:"oams"`
	BoundingRectangle *BoundingRectangle `json:"bounding_rectangle,omitempty"`
}

// VRAMTransfer is one entry of the VRAM-transfer table, one per cell.
type VRAMTransfer struct {
	SrcOffset uint32 `json:"src_offset"`
	Size      uint32 `json:"size"`
}

// VRAMData is the optional VRAM-transfer table.
type VRAMData struct {
	MaxSize   uint32         `json:"max_size"`
	Transfers []VRAMTransfer `json:"transfers"`
}

// NCER is a decoded cell bank. It implements encoding.BinaryMarshaler and
// encoding.BinaryUnmarshaler, and maps losslessly to and from JSON.
type NCER struct {
	Version     ntr.Version     `json:"version"`
	Cells       []Cell          `json:"cells"`
	MappingMode ntr.MappingMode `json:"mapping_mode"`

	// VRAM is nil when the file carries no VRAM-transfer table.
	VRAM *VRAMData `json:"vram,omitempty"`

	// HasUserExtendedAttributes records whether the fully-derived TACU
	// sub-block is present.
	HasUserExtendedAttributes bool `json:"user_extended_attributes"`

	// Labels holds one label per cell, by position.
	Labels []string `json:"labels"`
}

// FromJSON decodes the JSON debug representation.
func FromJSON(b []byte) (*NCER, error) {
	c := new(NCER)
	if err := json.Unmarshal(b, c); err != nil {
		return nil, err
	}
	return c, nil
}

// JSON encodes the bank as its indented JSON debug representation.
func (c *NCER) JSON() ([]byte, error) {
	return json.MarshalIndent(c, "", "  ")
}
