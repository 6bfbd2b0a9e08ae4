package service

import (
	"bytes"
	"encoding/binary"
)

// Minimal JPEG/EXIF handling: locate the APP1 Exif segment, read the IFD0
// orientation tag and rewrite it.

const (
	markerSOI  = 0xD8
	markerEOI  = 0xD9
	markerSOS  = 0xDA
	markerAPP1 = 0xE1

	tagOrientation = 0x0112
	typeShort      = 3
)

var exifHeader = []byte("Exif\x00\x00")

// findAPP1 returns the byte range [start, end) of the Exif APP1 segment in a
// JPEG stream, including its marker and length bytes.
func findAPP1(data []byte) (int, int, bool) {
	if len(data) < 4 || data[0] != 0xFF || data[1] != markerSOI {
		return 0, 0, false
	}
	pos := 2
	for pos+4 <= len(data) {
		if data[pos] != 0xFF {
			return 0, 0, false
		}
		marker := data[pos+1]
		if marker == 0xFF {
			pos++
			continue
		}
		if marker == markerSOS || marker == markerEOI {
			return 0, 0, false
		}
		length := int(binary.BigEndian.Uint16(data[pos+2 : pos+4]))
		end := pos + 2 + length
		if length < 2 || end > len(data) {
			return 0, 0, false
		}
		if marker == markerAPP1 && bytes.HasPrefix(data[pos+4:end], exifHeader) {
			return pos, end, true
		}
		pos = end
	}
	return 0, 0, false
}

// exifSegment returns a copy of the Exif APP1 segment, or nil.
func exifSegment(data []byte) []byte {
	start, end, ok := findAPP1(data)
	if !ok {
		return nil
	}
	return append([]byte(nil), data[start:end]...)
}

// orientationOffset locates the value bytes of the orientation entry within
// an APP1 segment and reports the TIFF byte order.
func orientationOffset(seg []byte) (int, binary.ByteOrder, bool) {
	// marker(2) length(2) "Exif\0\0"(6)
	tiff := 4 + len(exifHeader)
	if len(seg) < tiff+8 {
		return 0, nil, false
	}
	var order binary.ByteOrder
	switch string(seg[tiff : tiff+2]) {
	case "II":
		order = binary.LittleEndian
	case "MM":
		order = binary.BigEndian
	default:
		return 0, nil, false
	}
	ifd := tiff + int(order.Uint32(seg[tiff+4:tiff+8]))
	if ifd+2 > len(seg) {
		return 0, nil, false
	}
	count := int(order.Uint16(seg[ifd : ifd+2]))
	for i := 0; i < count; i++ {
		entry := ifd + 2 + i*12
		if entry+12 > len(seg) {
			return 0, nil, false
		}
		if order.Uint16(seg[entry:entry+2]) != tagOrientation {
			continue
		}
		if order.Uint16(seg[entry+2:entry+4]) != typeShort {
			return 0, nil, false
		}
		return entry + 8, order, true
	}
	return 0, nil, false
}

// jpegOrientation returns the EXIF orientation (1-8), or 1 when absent.
func jpegOrientation(data []byte) int {
	start, end, ok := findAPP1(data)
	if !ok {
		return 1
	}
	seg := data[start:end]
	off, order, ok := orientationOffset(seg)
	if !ok {
		return 1
	}
	v := int(order.Uint16(seg[off : off+2]))
	if v < 1 || v > 8 {
		return 1
	}
	return v
}

// withUprightEXIF inserts seg right after the SOI marker of a freshly encoded
// JPEG, with its orientation rewritten to 1 since pixels are already upright.
func withUprightEXIF(encoded, seg []byte) []byte {
	if len(seg) == 0 || len(encoded) < 2 {
		return encoded
	}
	seg = append([]byte(nil), seg...)
	if off, order, ok := orientationOffset(seg); ok {
		order.PutUint16(seg[off:off+2], 1)
	}
	out := make([]byte, 0, len(encoded)+len(seg))
	out = append(out, encoded[:2]...)
	out = append(out, seg...)
	out = append(out, encoded[2:]...)
	return out
}
