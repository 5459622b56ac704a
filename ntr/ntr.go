/*
Package ntr implements the generic chunked container shared by the Nitro
graphics formats.

A file is a 16 byte header followed by an ordered list of tagged blocks. The
header is a 4-character tag, a fixed 0xFEFF byte-order mark, a version, the
total file size, the header size (always 16) and the block count. Each block
is a 4-character tag and a 32-bit size covering the tag, the size field and
the payload, so the payload is size-8 bytes. All integers are little-endian.

Block order is positional and semantically meaningful; it is preserved
exactly as produced by each format codec.
*/
package ntr

import (
	"errors"
	"fmt"
)

const (
	byteOrderMark = 0xfeff
	headerSize    = 16
	blockOverhead = 8
)

var (
	errByteOrderMark = errors.New("ntr: unsupported byte-order mark")
	errHeaderSize    = errors.New("ntr: header size is not 16")
)

// Version is the container header revision. Only two revisions exist.
type Version uint16

const (
	// Version100 is container revision 1.0.
	Version100 Version = 0x0100

	// Version101 is container revision 1.1.
	Version101 Version = 0x0101
)

// ParseVersion converts the on-disk version selector, rejecting unknown
// revisions.
func ParseVersion(v uint16) (Version, error) {
	switch Version(v) {
	case Version100, Version101:
		return Version(v), nil
	}
	return 0, fmt.Errorf("ntr: unknown version %#04x", v)
}

// Block is a tagged chunk of opaque payload bytes.
type Block struct {
	ID   string
	Data []byte
}

// File is a decoded container: a 4-character type tag, a header revision and
// an ordered sequence of blocks.
type File struct {
	ID      string
	Version Version
	Blocks  []Block
}

// UnmarshalBinary decodes a container from its on-disk form. The total size
// field is read but not re-validated against the content.
func (f *File) UnmarshalBinary(b []byte) error {
	r := NewReader(b)

	id, err := r.Tag()
	if err != nil {
		return err
	}

	bom, err := r.Uint16()
	if err != nil {
		return err
	}
	if bom != byteOrderMark {
		return errByteOrderMark
	}

	rawVersion, err := r.Uint16()
	if err != nil {
		return err
	}
	version, err := ParseVersion(rawVersion)
	if err != nil {
		return err
	}

	if _, err := r.Uint32(); err != nil { // total file size
		return err
	}

	hs, err := r.Uint16()
	if err != nil {
		return err
	}
	if hs != headerSize {
		return errHeaderSize
	}

	numBlocks, err := r.Uint16()
	if err != nil {
		return err
	}

	blocks := make([]Block, 0, numBlocks)
	for i := 0; i < int(numBlocks); i++ {
		blockID, err := r.Tag()
		if err != nil {
			return err
		}
		size, err := r.Uint32()
		if err != nil {
			return err
		}
		if size < blockOverhead {
			return fmt.Errorf("ntr: block %q size %d below minimum", blockID, size)
		}
		data, err := r.Bytes(int(size) - blockOverhead)
		if err != nil {
			return err
		}
		blocks = append(blocks, Block{ID: blockID, Data: data})
	}

	f.ID = id
	f.Version = version
	f.Blocks = blocks

	return nil
}

// MarshalBinary encodes the container, recomputing the total size field from
// the concatenated blocks.
func (f *File) MarshalBinary() ([]byte, error) {
	size := headerSize
	for _, block := range f.Blocks {
		size += len(block.Data) + blockOverhead
	}

	var w Writer
	w.Tag(f.ID)
	w.Uint16(byteOrderMark)
	w.Uint16(uint16(f.Version))
	w.Uint32(uint32(size))
	w.Uint16(headerSize)
	w.Uint16(uint16(len(f.Blocks)))

	for _, block := range f.Blocks {
		w.Tag(block.ID)
		w.Uint32(uint32(len(block.Data) + blockOverhead))
		w.Write(block.Data)
	}

	return w.Bytes(), nil
}
