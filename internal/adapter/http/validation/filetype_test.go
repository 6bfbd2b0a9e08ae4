package validation

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pad(magic []byte) []byte {
	out := make([]byte, 512)
	copy(out, magic)
	return out
}

func ftyp(brand string) []byte {
	return append([]byte{0x00, 0x00, 0x00, 0x18, 'f', 't', 'y', 'p'}, brand...)
}

func TestDetectMIME(t *testing.T) {
	tests := []struct {
		name    string
		data    []byte
		mime    string
		allowed bool
	}{
		{"jpeg", pad([]byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F'}), "image/jpeg", true},
		{"png", pad([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A}), "image/png", true},
		{"webp", pad([]byte("RIFF\x00\x00\x00\x00WEBPVP8 ")), "image/webp", true},
		{"mp4 isom", pad(ftyp("isom")), "video/mp4", true},
		{"mp4 unknown brand", pad(ftyp("dash")), "video/mp4", true},
		{"quicktime", pad(ftyp("qt  ")), "video/quicktime", true},
		{"heic", pad(ftyp("heic")), "image/heic", false},
		{"avif", pad(ftyp("avif")), "image/avif", false},
		{"gif", pad([]byte("GIF89a")), "image/gif", false},
		{"wav", pad([]byte("RIFF\x00\x00\x00\x00WAVEfmt ")), "audio/wave", false},
		{"webm", pad([]byte{0x1A, 0x45, 0xDF, 0xA3}), "video/webm", false},
		{"html", []byte("<!DOCTYPE html><html><body></body></html>"), "text/html; charset=utf-8", false},
		{"exe", pad([]byte{'M', 'Z', 0x90, 0x00}), "application/octet-stream", false},
		{"short jpeg", []byte{0xFF, 0xD8, 0xFF}, "image/jpeg", true},
		{"empty", nil, "application/octet-stream", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mime, allowed, err := DetectMIME(bytes.NewReader(tt.data))
			require.NoError(t, err)
			assert.Equal(t, tt.mime, mime)
			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

func TestDetectMIME_Rewinds(t *testing.T) {
	data := pad([]byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A})
	data = append(data, []byte("tail")...)
	r := bytes.NewReader(data)

	_, _, err := DetectMIME(r)
	require.NoError(t, err)

	all, err := io.ReadAll(r)
	require.NoError(t, err)
	assert.Equal(t, data, all)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk gone") }
func (failingReader) Seek(int64, int) (int64, error) { return 0, nil }

func TestDetectMIME_ReadError(t *testing.T) {
	_, _, err := DetectMIME(failingReader{})
	assert.EqualError(t, err, "disk gone")
}
