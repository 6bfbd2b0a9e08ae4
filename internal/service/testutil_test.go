package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/bnema/galerie/internal/port/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func solidImage(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, color.NRGBA{R: uint8(x % 256), G: uint8(y % 256), B: 90, A: 255})
		}
	}
	return img
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, solidImage(w, h)))
	return buf.Bytes()
}

func jpegBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, solidImage(w, h), &jpeg.Options{Quality: 90}))
	return buf.Bytes()
}

// exifAPP1 builds a big-endian Exif APP1 segment carrying only an orientation tag.
func exifAPP1(orientation uint16) []byte {
	tiff := []byte{'M', 'M', 0x00, 0x2A, 0, 0, 0, 8}
	ifd := make([]byte, 2+12+4)
	binary.BigEndian.PutUint16(ifd[0:], 1)
	binary.BigEndian.PutUint16(ifd[2:], tagOrientation)
	binary.BigEndian.PutUint16(ifd[4:], typeShort)
	binary.BigEndian.PutUint32(ifd[6:], 1)
	binary.BigEndian.PutUint16(ifd[10:], orientation)

	payload := append(append(append([]byte{}, exifHeader...), tiff...), ifd...)
	seg := []byte{0xFF, markerAPP1, 0, 0}
	binary.BigEndian.PutUint16(seg[2:], uint16(len(payload)+2))
	return append(seg, payload...)
}

func jpegWithOrientation(t *testing.T, w, h int, orientation uint16) []byte {
	t.Helper()
	return withRawSegment(jpegBytes(t, w, h), exifAPP1(orientation))
}

func withRawSegment(encoded, seg []byte) []byte {
	out := append([]byte{}, encoded[:2]...)
	out = append(out, seg...)
	return append(out, encoded[2:]...)
}

func decodeSize(t *testing.T, data []byte) (int, int) {
	t.Helper()
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	return cfg.Width, cfg.Height
}

// passthroughJPEG stands in for jpegtran and hands back its input.
func passthroughJPEG(t *testing.T) *mocks.JPEGOptimizerMock {
	m := mocks.NewJPEGOptimizerMock(t)
	m.EXPECT().Progressive(mock.Anything, mock.Anything).
		RunAndReturn(func(_ context.Context, data []byte) ([]byte, error) {
			return data, nil
		}).
		Maybe()
	return m
}

// pngWebP stands in for cwebp: it records the image it was handed as PNG so
// tests can inspect the thumbnail geometry.
func pngWebP(t *testing.T) *mocks.WebPEncoderMock {
	m := mocks.NewWebPEncoderMock(t)
	m.EXPECT().EncodeWebP(mock.Anything, mock.Anything, 75).
		RunAndReturn(func(_ context.Context, img image.Image, _ int) ([]byte, error) {
			var buf bytes.Buffer
			if err := png.Encode(&buf, img); err != nil {
				return nil, err
			}
			return buf.Bytes(), nil
		}).
		Maybe()
	return m
}
