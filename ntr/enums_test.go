package ntr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMappingModeCHAR(t *testing.T) {
	for _, m := range []MappingMode{
		Mapping2D, Mapping1D32K, Mapping1D64K, Mapping1D128K, Mapping1D256K,
	} {
		back, err := ParseMappingModeCHAR(m.CHAR())
		require.Nil(t, err)
		assert.Equal(t, m, back)
	}

	_, err := ParseMappingModeCHAR(0x00400010)
	assert.NotNil(t, err)
}

func TestMappingModeCEBK(t *testing.T) {
	for _, m := range []MappingMode{
		Mapping2D, Mapping1D32K, Mapping1D64K, Mapping1D128K, Mapping1D256K,
	} {
		back, err := ParseMappingModeCEBK(m.CEBK())
		require.Nil(t, err)
		assert.Equal(t, m, back)
	}

	_, err := ParseMappingModeCEBK(5)
	assert.NotNil(t, err)
}

func TestParseTextureFormat(t *testing.T) {
	f, err := ParseTextureFormat(3)
	require.Nil(t, err)
	assert.Equal(t, TexturePalette16, f)
	assert.Equal(t, "palette16", f.String())

	_, err = ParseTextureFormat(8)
	assert.NotNil(t, err)
}

func TestParseCharacterFormat(t *testing.T) {
	for _, f := range []CharacterFormat{CharacterTiled, CharacterBitmap, CharacterTiled256} {
		back, err := ParseCharacterFormat(uint32(f))
		require.Nil(t, err)
		assert.Equal(t, f, back)
	}

	_, err := ParseCharacterFormat(2)
	assert.NotNil(t, err)
}
