// Package validation checks untrusted upload input.
package validation

import (
	"bytes"
	"errors"
	"io"
	"net/http"
)

var ErrDisallowedFileType = errors.New("file type not allowed")

// allowedMIMETypes is the set of content types the pipeline can ingest.
var allowedMIMETypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/webp":      true,
	"video/mp4":       true,
	"video/quicktime": true,
}

const sniffLen = 512

// DetectMIME sniffs the content type from the leading bytes of r and rewinds
// it. The client supplied Content-Type is never trusted.
func DetectMIME(r io.ReadSeeker) (mime string, allowed bool, err error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrUnexpectedEOF) {
		return "", false, err
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return "", false, err
	}
	if n == 0 {
		return "application/octet-stream", false, nil
	}
	buf = buf[:n]

	mime = sniffContainer(buf)
	if mime == "" {
		mime = http.DetectContentType(buf)
	}
	return mime, allowedMIMETypes[mime], nil
}

// sniffContainer covers the formats http.DetectContentType misreports.
func sniffContainer(buf []byte) string {
	if len(buf) < 12 {
		return ""
	}
	if bytes.Equal(buf[0:4], []byte("RIFF")) && bytes.Equal(buf[8:12], []byte("WEBP")) {
		return "image/webp"
	}
	// ISO base media: [size][ftyp][major brand]
	if bytes.Equal(buf[4:8], []byte("ftyp")) {
		switch string(buf[8:12]) {
		case "qt  ":
			return "video/quicktime"
		case "avif":
			return "image/avif"
		case "heic", "heix", "mif1", "msf1":
			return "image/heic"
		default:
			return "video/mp4"
		}
	}
	return ""
}
