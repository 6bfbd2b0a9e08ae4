package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJPEGOrientation(t *testing.T) {
	plain := jpegBytes(t, 8, 8)
	assert.Equal(t, 1, jpegOrientation(plain))
	assert.Nil(t, exifSegment(plain))

	for _, o := range []uint16{1, 3, 6, 8} {
		data := jpegWithOrientation(t, 8, 8, o)
		assert.Equal(t, int(o), jpegOrientation(data))
	}

	assert.Equal(t, 1, jpegOrientation(jpegWithOrientation(t, 8, 8, 42)), "out of range values are ignored")
	assert.Equal(t, 1, jpegOrientation([]byte("not a jpeg")))
	assert.Equal(t, 1, jpegOrientation(nil))
}

func TestWithUprightEXIF(t *testing.T) {
	seg := exifAPP1(6)
	encoded := jpegBytes(t, 8, 8)

	out := withUprightEXIF(encoded, seg)
	require.NotNil(t, exifSegment(out))
	assert.Equal(t, 1, jpegOrientation(out))
	assert.Equal(t, 6, jpegOrientation(withRawSegment(encoded, seg)), "input segment is not mutated")

	w, h := decodeSize(t, out)
	assert.Equal(t, 8, w)
	assert.Equal(t, 8, h)

	assert.Equal(t, encoded, withUprightEXIF(encoded, nil))
}

func TestFindAPP1_Truncated(t *testing.T) {
	data := jpegWithOrientation(t, 8, 8, 6)
	_, _, ok := findAPP1(data[:10])
	assert.False(t, ok)
}
