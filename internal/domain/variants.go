package domain

// ImageVariants holds every rendition derived from an uploaded photo.
// Width and Height come from the original rendition after orientation correction.
type ImageVariants struct {
	Original  []byte
	Full      []byte
	Thumbnail []byte
	LQIP      string
	Width     int
	Height    int
}

// VideoPoster holds the still renditions derived from a video's first frame
// along with the stream metadata of the video itself.
type VideoPoster struct {
	Full      []byte
	Thumbnail []byte
	LQIP      string
	Width     int
	Height    int
	Duration  float64
}
