package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

// cmapOnly wraps a cmap table as the only table of a font.
func cmapOnly(data []byte) *sfntFile {
	return &sfntFile{tables: map[string]binarySegm{"cmap": data}}
}

func TestDecodeCmapOfGoRegular(t *testing.T) {
	file, err := readSFNT(goregular.TTF, 0)
	require.NoError(t, err)
	numGlyphs := int(file.table("maxp").U16(4))
	cm, err := decodeCmap(file, numGlyphs)
	require.NoError(t, err)
	for _, r := range "Hello, World!" {
		assert.NotZero(t, cm[r], "expected %q to be mapped", r)
	}
	_, ok := cm[0x0001]
	assert.False(t, ok, "control characters are not mapped")
}

func TestCmapWriteKeepsMapping(t *testing.T) {
	cm := cmapping{
		0x20: 3, 0x21: 4, 0x22: 5, // idDelta segment
		0x41: 40, 0x42: 17, 0x43: 9, // glyphIdArray segment
		0xE000:  200,
		0x1F600: 300, // beyond the BMP
	}
	data := writeCmap(cm)
	got, err := decodeCmap(cmapOnly(data), 1000)
	require.NoError(t, err)
	assert.Equal(t, cm, got)
	assert.Equal(t, uint16(4), binarySegm(data).U16(2), "expected four encoding records")
}

func TestCmapWriteBMPOnly(t *testing.T) {
	cm := cmapping{'a': 1, 'b': 2}
	data := binarySegm(writeCmap(cm))
	require.Equal(t, uint16(2), data.U16(2), "BMP-only cmap has (0,3) and (3,1) records")
	assert.Equal(t, uint16(0), data.U16(4))
	assert.Equal(t, uint16(3), data.U16(6))
	assert.Equal(t, uint16(3), data.U16(12))
	assert.Equal(t, uint16(1), data.U16(14))
	got, err := decodeCmap(cmapOnly(data), 10)
	require.NoError(t, err)
	assert.Equal(t, cm, got)
}

func TestCmapWriteEmpty(t *testing.T) {
	got, err := decodeCmap(cmapOnly(writeCmap(cmapping{})), 10)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestDecodeCmapRejectsGarbage(t *testing.T) {
	_, err := decodeCmap(cmapOnly([]byte{0, 0}), 10)
	assert.Error(t, err)
}
