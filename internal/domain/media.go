package domain

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

type MediaKind string

const (
	MediaKindImage MediaKind = "image"
	MediaKindVideo MediaKind = "video"
)

// ProcessingState mirrors the media.processing column: 0 ready, 1 in progress, -1 failed.
type ProcessingState int

const (
	ProcessingReady      ProcessingState = 0
	ProcessingInProgress ProcessingState = 1
	ProcessingFailed     ProcessingState = -1
)

func (p ProcessingState) String() string {
	switch p {
	case ProcessingReady:
		return "ready"
	case ProcessingInProgress:
		return "processing"
	case ProcessingFailed:
		return "failed"
	}
	return "unknown"
}

type Media struct {
	ID           string          `json:"id"`
	Kind         MediaKind       `json:"kind"`
	FileName     string          `json:"file_name"`
	MimeType     string          `json:"mime_type"`
	FileSize     int64           `json:"file_size"`
	Width        int             `json:"width"`
	Height       int             `json:"height"`
	Duration     float64         `json:"duration,omitempty"`
	Processing   ProcessingState `json:"processing"`
	OriginalPath string          `json:"original_path"`
	FullPath     string          `json:"full_path"`
	ThumbPath    string          `json:"thumb_path"`
	WebPath      string          `json:"web_path,omitempty"`
	LQIP         string          `json:"lqip"`
	CreatedAt    time.Time       `json:"created_at"`
}

func NewMedia(id string, kind MediaKind, fileName, mimeType string, size int64) *Media {
	if id == "" {
		id = uuid.NewString()
	}
	return &Media{
		ID:        id,
		Kind:      kind,
		FileName:  fileName,
		MimeType:  mimeType,
		FileSize:  size,
		CreatedAt: time.Now(),
	}
}

func (m *Media) IsReady() bool {
	return m.Processing == ProcessingReady
}

var imageMimeTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
}

var videoMimeTypes = map[string]bool{
	"video/mp4":       true,
	"video/mov":       true,
	"video/quicktime": true,
}

// DetectKind maps an accepted MIME type to its media kind.
func DetectKind(mimeType string) (MediaKind, bool) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if imageMimeTypes[mimeType] {
		return MediaKindImage, true
	}
	if videoMimeTypes[mimeType] {
		return MediaKindVideo, true
	}
	return "", false
}

// OriginalExt picks the extension used for the stored original.
// Images are always re-encoded (or passed through) as JPEG.
func OriginalExt(kind MediaKind, fileName, mimeType string) string {
	if kind == MediaKindImage {
		return "jpg"
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileName)), ".")
	if ext != "" {
		return ext
	}
	switch mimeType {
	case "video/quicktime", "video/mov":
		return "mov"
	}
	return "mp4"
}
