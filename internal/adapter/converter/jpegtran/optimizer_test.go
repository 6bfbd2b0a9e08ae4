package jpegtran

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func baselineJPEG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 64, 48))
	for y := 0; y < 48; y++ {
		for x := 0; x < 64; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 4), G: uint8(y * 5), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, img, &jpeg.Options{Quality: 85}))
	return buf.Bytes()
}

func TestIsProgressive(t *testing.T) {
	assert.False(t, IsProgressive(baselineJPEG(t)), "image/jpeg writes baseline frames")
	assert.False(t, IsProgressive(nil))
	assert.False(t, IsProgressive([]byte("not a jpeg")))

	progressive := []byte{
		0xFF, 0xD8,
		0xFF, 0xE0, 0x00, 0x04, 0x00, 0x00,
		0xFF, 0xC2, 0x00, 0x02,
		0xFF, 0xDA, 0x00, 0x02,
	}
	assert.True(t, IsProgressive(progressive))

	scanFirst := []byte{0xFF, 0xD8, 0xFF, 0xDA, 0x00, 0x02, 0xFF, 0xC2, 0x00, 0x02}
	assert.False(t, IsProgressive(scanFirst))
}

func TestOptimizer_EmptyInput(t *testing.T) {
	_, err := NewOptimizer("").Progressive(context.Background(), nil)
	assert.ErrorContains(t, err, "empty input")
}

func TestOptimizer_MissingBinary(t *testing.T) {
	o := NewOptimizer("/nonexistent/jpegtran")
	assert.Error(t, o.Available())

	_, err := o.Progressive(context.Background(), baselineJPEG(t))
	assert.ErrorContains(t, err, "jpegtran failed")
}

func TestOptimizer_Progressive(t *testing.T) {
	if _, err := exec.LookPath("jpegtran"); err != nil {
		t.Skip("jpegtran not installed")
	}

	out, err := NewOptimizer("").Progressive(context.Background(), baselineJPEG(t))
	require.NoError(t, err)
	assert.True(t, IsProgressive(out))

	cfg, err := jpeg.DecodeConfig(bytes.NewReader(out))
	require.NoError(t, err)
	assert.Equal(t, 64, cfg.Width)
	assert.Equal(t, 48, cfg.Height)
}
