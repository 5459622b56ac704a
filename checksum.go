package nitro

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Checksum returns the 64-bit xxHash of a byte buffer as a fixed-width hex
// string.
func Checksum(b []byte) string {
	return fmt.Sprintf("%016x", xxhash.Sum64(b))
}
