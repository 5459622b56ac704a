package ntr

import (
	"errors"
	"fmt"
)

// LabelBlockID tags the shared label-table block.
const LabelBlockID = "LBAL"

var errLabelByte = errors.New("ntr: label contains a non-ASCII byte")

// Labels decodes the shared label-table block. The label count is not stored
// so it is inferred heuristically: the decoder scans a run of ascending
// 32-bit offsets for as long as each offset fits within the remaining block
// length and is strictly greater than the previous one, and stops at the
// first violation. The heuristic under-counts when leading labels are empty
// strings; that is a known limitation of the format, not fixed here. Each
// label is a NUL-terminated 7-bit-clean string.
func Labels(block Block) ([]string, error) {
	if block.ID != LabelBlockID {
		return nil, fmt.Errorf("ntr: expected %q block, got %q", LabelBlockID, block.ID)
	}

	r := NewReader(block.Data)

	var offsets []uint32
	for r.Len() >= 4 {
		offset, err := r.PeekUint32()
		if err != nil {
			return nil, err
		}
		if int(offset) > r.Len() {
			break
		}
		if len(offsets) > 0 && offset <= offsets[len(offsets)-1] {
			break
		}
		if _, err := r.Uint32(); err != nil {
			return nil, err
		}
		offsets = append(offsets, offset)
	}

	labels := make([]string, 0, len(offsets))
	for range offsets {
		var label []byte
		for {
			b, err := r.Uint8()
			if err != nil {
				return nil, err
			}
			if b >= 127 {
				return nil, errLabelByte
			}
			if b == 0 {
				break
			}
			label = append(label, b)
		}
		labels = append(labels, string(label))
	}

	return labels, nil
}

// LabelBlock encodes labels as a run of cumulative offsets followed by each
// label NUL-terminated in sequence.
func LabelBlock(labels []string) Block {
	var w Writer
	offset := uint32(0)
	for _, label := range labels {
		w.Uint32(offset)
		offset += uint32(len(label)) + 1
	}
	for _, label := range labels {
		w.String(label)
		w.Uint8(0)
	}
	return Block{ID: LabelBlockID, Data: w.Bytes()}
}
