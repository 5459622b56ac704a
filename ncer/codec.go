package ncer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/bodgit/nitro/ntr"
)

var (
	errBlockCount   = errors.New("ncer: container does not have exactly three blocks")
	errNoCells      = errors.New("ncer: cell bank is empty")
	errBankFlag     = errors.New("ncer: bank attribute is neither 0 nor 1")
	errRectMismatch = errors.New("ncer: cell disagrees with the bank-wide bounding-rectangle flag")
	errUextBlock    = errors.New("ncer: user-extended block is not four zero bytes")
	errVRAMCount    = errors.New("ncer: VRAM-transfer table entry count disagrees with cell count")
)

// UnmarshalBinary decodes an NCER file from its on-disk form.
func (c *NCER) UnmarshalBinary(b []byte) error {
	var file ntr.File
	if err := file.UnmarshalBinary(b); err != nil {
		return err
	}
	return c.unmarshalFile(&file)
}

func (c *NCER) unmarshalFile(file *ntr.File) error {
	if file.ID != fileID {
		return fmt.Errorf("ncer: expected %q container, got %q", fileID, file.ID)
	}
	if len(file.Blocks) != 3 {
		return errBlockCount
	}

	if err := c.readCEBK(file.Blocks[0]); err != nil {
		return err
	}

	labels, err := ntr.Labels(file.Blocks[1])
	if err != nil {
		return err
	}

	uext := file.Blocks[2]
	if uext.ID != uextID || !bytes.Equal(uext.Data, []byte{0, 0, 0, 0}) {
		return errUextBlock
	}

	c.Version = file.Version
	c.Labels = labels

	return nil
}

func (c *NCER) readCEBK(block ntr.Block) error {
	if block.ID != cebkID {
		return fmt.Errorf("ncer: expected %q block, got %q", cebkID, block.ID)
	}
	r := ntr.NewReader(block.Data)

	numCells, err := r.Uint16()
	if err != nil {
		return err
	}
	if numCells == 0 {
		return errNoCells
	}

	bankAttributes, err := r.Uint16()
	if err != nil {
		return err
	}
	if bankAttributes > 1 {
		return errBankFlag
	}
	hasBoundingRectangle := bankAttributes != 0

	headerLen, err := r.Uint32()
	if err != nil {
		return err
	}
	if headerLen != cebkHeaderLen {
		return fmt.Errorf("ncer: cell bank header length %#x, expected %#x", headerLen, cebkHeaderLen)
	}

	rawMapping, err := r.Uint32()
	if err != nil {
		return err
	}
	mappingMode, err := ntr.ParseMappingModeCEBK(rawMapping)
	if err != nil {
		return err
	}

	vramOffset, err := r.Uint32()
	if err != nil {
		return err
	}
	reserved, err := r.Uint32()
	if err != nil {
		return err
	}
	if reserved != 0 {
		return fmt.Errorf("ncer: reserved field %#x, expected 0", reserved)
	}
	uextOffset, err := r.Uint32()
	if err != nil {
		return err
	}

	cells := make([]Cell, numCells)
	oamCounts := make([]uint16, numCells)
	for i := range cells {
		if oamCounts[i], err = r.Uint16(); err != nil {
			return err
		}

		attrWord, err := r.Uint16()
		if err != nil {
			return err
		}
		attr, err := ParseCellAttribute(attrWord)
		if err != nil {
			return err
		}
		if attr.HasBoundingRectangle != hasBoundingRectangle {
			return errRectMismatch
		}
		cells[i].Attribute = attr

		// The stored OAM offset is recomputed on encode; it is only
		// bookkeeping here.
		if _, err := r.Uint32(); err != nil {
			return err
		}

		if hasBoundingRectangle {
			rect := new(BoundingRectangle)
			for _, field := range []*int16{&rect.MaxX, &rect.MaxY, &rect.MinX, &rect.MinY} {
				if *field, err = r.Int16(); err != nil {
					return err
				}
			}
			cells[i].BoundingRectangle = rect
		}
	}

	totalOAMs := 0
	for i := range cells {
		oams := make([]OAM, 0, oamCounts[i])
		for j := 0; j < int(oamCounts[i]); j++ {
			var attrs [3]uint16
			for k := range attrs {
				if attrs[k], err = r.Uint16(); err != nil {
					return err
				}
			}
			oam, err := DecodeOAM(attrs[0], attrs[1], attrs[2])
			if err != nil {
				return err
			}
			oams = append(oams, oam)
		}
		cells[i].OAMs = oams
		totalOAMs += len(oams)
	}

	// The OAM table is kept 4-byte aligned by record count, not bytes: an
	// odd total count is followed by one padding word.
	if totalOAMs%2 == 1 {
		if _, err := r.Uint16(); err != nil {
			return err
		}
	}

	var vram *VRAMData
	if vramOffset != 0 {
		if vram, err = readVRAMData(r, int(numCells)); err != nil {
			return err
		}
	}

	if uextOffset != 0 {
		if err := validateTACU(r, numCells); err != nil {
			return err
		}
	}

	c.Cells = cells
	c.MappingMode = mappingMode
	c.VRAM = vram
	c.HasUserExtendedAttributes = uextOffset != 0

	return nil
}

func readVRAMData(r *ntr.Reader, numCells int) (*VRAMData, error) {
	maxSize, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	offset, err := r.Uint32()
	if err != nil {
		return nil, err
	}
	if offset != vramOffsetLen {
		return nil, fmt.Errorf("ncer: VRAM table offset %#x, expected %#x", offset, vramOffsetLen)
	}

	transfers := make([]VRAMTransfer, numCells)
	for i := range transfers {
		if transfers[i].SrcOffset, err = r.Uint32(); err != nil {
			return nil, err
		}
		if transfers[i].Size, err = r.Uint32(); err != nil {
			return nil, err
		}
	}

	return &VRAMData{MaxSize: maxSize, Transfers: transfers}, nil
}

// validateTACU checks the user-extended attribute sub-block. Its contents
// are fully derived from the cell count and carry no independent
// information, so any deviation from the generating formula is a decode
// failure.
func validateTACU(r *ntr.Reader, numCells uint16) error {
	tag, err := r.Tag()
	if err != nil {
		return err
	}
	if tag != tacuID {
		return fmt.Errorf("ncer: expected %q sub-block, got %q", tacuID, tag)
	}

	size, err := r.Uint32()
	if err != nil {
		return err
	}
	if size != uint32(16+numCells*8) {
		return fmt.Errorf("ncer: user-extended block size %d, expected %d", size, 16+numCells*8)
	}

	count, err := r.Uint16()
	if err != nil {
		return err
	}
	if count != numCells {
		return fmt.Errorf("ncer: user-extended count %d, expected %d", count, numCells)
	}

	one, err := r.Uint16()
	if err != nil {
		return err
	}
	if one != 1 {
		return fmt.Errorf("ncer: user-extended constant %#04x, expected 0x0001", one)
	}

	offset, err := r.Uint32()
	if err != nil {
		return err
	}
	if offset != 8 {
		return fmt.Errorf("ncer: user-extended offset %#x, expected 0x8", offset)
	}

	for i := uint16(0); i < numCells; i++ {
		v, err := r.Uint32()
		if err != nil {
			return err
		}
		if v != uint32(8+4*(numCells+i)) {
			return fmt.Errorf("ncer: user-extended index %d is %#x, expected %#x", i, v, 8+4*(numCells+i))
		}
	}
	for i := uint16(0); i < numCells; i++ {
		v, err := r.Uint32()
		if err != nil {
			return err
		}
		if v != 0 {
			return fmt.Errorf("ncer: user-extended attribute %d is %#x, expected 0", i, v)
		}
	}

	return nil
}

// MarshalBinary encodes the NCER back to its on-disk form.
func (c *NCER) MarshalBinary() ([]byte, error) {
	cebk, err := c.cebkBlock()
	if err != nil {
		return nil, err
	}

	file := ntr.File{
		ID:      fileID,
		Version: c.Version,
		Blocks: []ntr.Block{
			cebk,
			ntr.LabelBlock(c.Labels),
			{ID: uextID, Data: []byte{0, 0, 0, 0}},
		},
	}
	return file.MarshalBinary()
}

func (c *NCER) cebkBlock() (ntr.Block, error) {
	if len(c.Cells) == 0 {
		return ntr.Block{}, errNoCells
	}
	hasBoundingRectangle := c.Cells[0].Attribute.HasBoundingRectangle

	var oamData ntr.Writer
	oamOffsets := make([]uint32, len(c.Cells))
	for i, cell := range c.Cells {
		oamOffsets[i] = uint32(oamData.Len())
		for _, oam := range cell.OAMs {
			attr0, attr1, attr2, err := oam.Encode()
			if err != nil {
				return ntr.Block{}, err
			}
			oamData.Uint16(attr0)
			oamData.Uint16(attr1)
			oamData.Uint16(attr2)
		}
	}

	var cellData ntr.Writer
	for i, cell := range c.Cells {
		if cell.Attribute.HasBoundingRectangle != hasBoundingRectangle {
			return ntr.Block{}, errRectMismatch
		}
		cellData.Uint16(uint16(len(cell.OAMs)))
		cellData.Uint16(cell.Attribute.Uint16())
		cellData.Uint32(oamOffsets[i])
		if hasBoundingRectangle {
			if cell.BoundingRectangle == nil {
				return ntr.Block{}, errRectMismatch
			}
			cellData.Int16(cell.BoundingRectangle.MaxX)
			cellData.Int16(cell.BoundingRectangle.MaxY)
			cellData.Int16(cell.BoundingRectangle.MinX)
			cellData.Int16(cell.BoundingRectangle.MinY)
		}
	}
	cellData.Write(oamData.Bytes())
	for cellData.Len()%4 != 0 {
		cellData.Uint8(0)
	}

	var vramData ntr.Writer
	if c.VRAM != nil {
		if len(c.VRAM.Transfers) != len(c.Cells) {
			return ntr.Block{}, errVRAMCount
		}
		vramData.Uint32(c.VRAM.MaxSize)
		vramData.Uint32(vramOffsetLen)
		for _, transfer := range c.VRAM.Transfers {
			vramData.Uint32(transfer.SrcOffset)
			vramData.Uint32(transfer.Size)
		}
	}

	var uextData ntr.Writer
	if c.HasUserExtendedAttributes {
		numCells := uint16(len(c.Cells))
		uextData.Tag(tacuID)
		uextData.Uint32(uint32(16 + numCells*8))
		uextData.Uint16(numCells)
		uextData.Uint16(1)
		uextData.Uint32(8)
		for i := uint16(0); i < numCells; i++ {
			uextData.Uint32(uint32(8 + 4*(numCells+i)))
		}
		for i := uint16(0); i < numCells; i++ {
			uextData.Uint32(0)
		}
	}

	var w ntr.Writer
	w.Uint16(uint16(len(c.Cells)))
	if hasBoundingRectangle {
		w.Uint16(1)
	} else {
		w.Uint16(0)
	}
	w.Uint32(cebkHeaderLen)
	w.Uint32(c.MappingMode.CEBK())
	if c.VRAM != nil {
		w.Uint32(cebkHeaderLen + uint32(cellData.Len()))
	} else {
		w.Uint32(0)
	}
	w.Uint32(0)
	if c.HasUserExtendedAttributes {
		w.Uint32(cebkHeaderLen + uint32(cellData.Len()) + uint32(vramData.Len()))
	} else {
		w.Uint32(0)
	}
	w.Write(cellData.Bytes())
	w.Write(vramData.Bytes())
	w.Write(uextData.Bytes())

	return ntr.Block{ID: cebkID, Data: w.Bytes()}, nil
}
