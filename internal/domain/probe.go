package domain

import (
	"strconv"
)

// Fallback stream metadata used when probing a video yields nothing usable.
const (
	DefaultVideoWidth  = 1920
	DefaultVideoHeight = 1080
)

// ProbeFormat and ProbeStream keep only the ffprobe fields the pipeline reads.
type ProbeFormat struct {
	Duration string `json:"duration"`
}

type ProbeStream struct {
	CodecType string `json:"codec_type"`
	Width     int    `json:"width"`
	Height    int    `json:"height"`
	Duration  string `json:"duration"`
}

type ProbeResult struct {
	Format  ProbeFormat   `json:"format"`
	Streams []ProbeStream `json:"streams"`
}

// VideoMetadata is the subset of probe output the pipeline stores.
type VideoMetadata struct {
	Width    int
	Height   int
	Duration float64
}

func (p *ProbeResult) VideoStream() *ProbeStream {
	for i := range p.Streams {
		if p.Streams[i].CodecType == "video" {
			return &p.Streams[i]
		}
	}
	return nil
}

func (p *ProbeResult) HasAudio() bool {
	for i := range p.Streams {
		if p.Streams[i].CodecType == "audio" {
			return true
		}
	}
	return false
}

// VideoMetadata extracts dimensions and duration, falling back to 1920x1080
// and a zero duration for whatever the probe did not report.
func (p *ProbeResult) VideoMetadata() VideoMetadata {
	meta := VideoMetadata{Width: DefaultVideoWidth, Height: DefaultVideoHeight}
	if p == nil {
		return meta
	}
	if vs := p.VideoStream(); vs != nil {
		if vs.Width > 0 {
			meta.Width = vs.Width
		}
		if vs.Height > 0 {
			meta.Height = vs.Height
		}
		if d := ParseDuration(vs.Duration); d > 0 {
			meta.Duration = d
		}
	}
	if d := ParseDuration(p.Format.Duration); d > 0 {
		meta.Duration = d
	}
	return meta
}

func ParseDuration(durationStr string) float64 {
	if durationStr == "" || durationStr == "N/A" {
		return 0
	}
	duration, err := strconv.ParseFloat(durationStr, 64)
	if err != nil {
		return 0
	}
	return duration
}
