package nitro

import (
	"io/ioutil"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/bodgit/nitro/graphic"
	"github.com/bodgit/nitro/nclr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChecksum(t *testing.T) {
	assert.Len(t, Checksum(nil), 16)
	assert.NotEqual(t, Checksum([]byte("a")), Checksum([]byte("b")))
	assert.Equal(t, Checksum([]byte("a")), Checksum([]byte("a")))
}

func TestAssetDB(t *testing.T) {
	dir, err := ioutil.TempDir("", "nitro")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	db, err := NewAssetDB(filepath.Join(dir, "test.db"))
	require.Nil(t, err)
	defer db.Close()

	asset := &Asset{
		Path:     "/roms/sprites.NCER",
		Format:   "NCER",
		Version:  0x0100,
		Checksum: Checksum([]byte("sprites")),
		Detail:   "2 cells, 1d32k mapping",
		Labels:   []string{"body", "head"},
	}
	require.Nil(t, db.Store(asset))

	paths, err := db.FindByChecksum(asset.Checksum)
	require.Nil(t, err)
	assert.Equal(t, []string{asset.Path}, paths)

	paths, err = db.FindByChecksum(Checksum([]byte("other")))
	require.Nil(t, err)
	assert.Empty(t, paths)

	// Storing the same path again replaces rather than duplicates.
	asset.Detail = "rescanned"
	require.Nil(t, db.Store(asset))

	counts, err := db.Formats()
	require.Nil(t, err)
	assert.Equal(t, map[string]int{"NCER": 1}, counts)
}

func TestScan(t *testing.T) {
	dir, err := ioutil.TempDir("", "nitro")
	require.Nil(t, err)
	defer os.RemoveAll(dir)

	palette := writeTestNCLR(t, filepath.Join(dir, "test.nclr"))
	require.Nil(t, ioutil.WriteFile(filepath.Join(dir, "ignored.bin"), []byte("not a nitro file"), 0644))
	require.Nil(t, ioutil.WriteFile(filepath.Join(dir, "broken.nclr"), []byte("truncated"), 0644))

	n, err := New(filepath.Join(dir, "test.db"), log.New(ioutil.Discard, "", 0))
	require.Nil(t, err)
	defer n.Close()

	require.Nil(t, n.Scan(dir))

	counts, err := n.db.Formats()
	require.Nil(t, err)
	assert.Equal(t, map[string]int{nclr.Extension: 1}, counts)

	paths, err := n.db.FindByChecksum(Checksum(palette))
	require.Nil(t, err)
	require.Len(t, paths, 1)
	assert.Equal(t, "test.nclr", filepath.Base(paths[0]))
}

// writeTestNCLR writes a minimal valid NCLR to path and returns its bytes.
func writeTestNCLR(t *testing.T, path string) []byte {
	p := make(graphic.Palette, 16)
	for i := range p {
		p[i] = graphic.Color{Red: uint8(i * 16), Green: uint8(i * 16), Blue: uint8(i * 16)}
	}

	b, err := nclr.New(p, nclr.DefaultMetadata()).MarshalBinary()
	require.Nil(t, err)
	require.Nil(t, ioutil.WriteFile(path, b, 0644))
	return b
}
