package service

import (
	"bytes"
	"context"
	"fmt"
	"image/jpeg"

	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/port"
	"golang.org/x/sync/errgroup"
)

// VideoPosterGenerator builds the still renditions shown for a video before
// and alongside playback.
type VideoPosterGenerator struct {
	encoder port.VideoEncoder
	webp    port.WebPEncoder
	jpegs   port.JPEGOptimizer
}

func NewVideoPosterGenerator(encoder port.VideoEncoder, webp port.WebPEncoder, jpegs port.JPEGOptimizer) *VideoPosterGenerator {
	return &VideoPosterGenerator{encoder: encoder, webp: webp, jpegs: jpegs}
}

func (g *VideoPosterGenerator) Generate(ctx context.Context, videoPath string) (*domain.VideoPoster, error) {
	probe, err := g.encoder.Probe(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("probe video: %w", err)
	}
	meta := probe.VideoMetadata()

	frameData, err := g.encoder.ExtractFrame(ctx, videoPath)
	if err != nil {
		return nil, fmt.Errorf("extract poster frame: %w", err)
	}
	frame, err := jpeg.Decode(bytes.NewReader(frameData))
	if err != nil {
		return nil, fmt.Errorf("decode poster frame: %w", err)
	}

	poster := &domain.VideoPoster{
		Width:    meta.Width,
		Height:   meta.Height,
		Duration: meta.Duration,
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		data, err := fullRendition.encodeProgressive(ctx, frame, g.jpegs)
		if err != nil {
			return fmt.Errorf("poster full: %w", err)
		}
		poster.Full = data
		return nil
	})
	eg.Go(func() error {
		data, err := g.webp.EncodeWebP(ctx, thumbnailRendition.resize(frame), thumbnailRendition.quality)
		if err != nil {
			return fmt.Errorf("poster thumbnail: %w", err)
		}
		poster.Thumbnail = data
		return nil
	})
	eg.Go(func() error {
		uri, err := lqipDataURI(frame)
		if err != nil {
			return fmt.Errorf("poster lqip: %w", err)
		}
		poster.LQIP = uri
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return poster, nil
}
