package service

import (
	"bytes"
	"context"
	"fmt"
	"image"

	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/port"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// ImageVariantGenerator derives the stored renditions of an uploaded photo.
type ImageVariantGenerator struct {
	webp  port.WebPEncoder
	jpegs port.JPEGOptimizer
}

func NewImageVariantGenerator(webp port.WebPEncoder, jpegs port.JPEGOptimizer) *ImageVariantGenerator {
	return &ImageVariantGenerator{webp: webp, jpegs: jpegs}
}

func (g *ImageVariantGenerator) Generate(ctx context.Context, input []byte) (*domain.ImageVariants, error) {
	cfg, format, err := image.DecodeConfig(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedMedia, err)
	}
	img, err := imaging.Decode(bytes.NewReader(input), imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrUnsupportedMedia, err)
	}

	var (
		exif        []byte
		orientation = 1
	)
	if format == "jpeg" {
		exif = exifSegment(input)
		orientation = jpegOrientation(input)
	}
	passthrough := format == "jpeg" && orientation == 1 && originalRendition.fits(cfg.Width, cfg.Height)

	variants := &domain.ImageVariants{}
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		if passthrough {
			variants.Original = input
			return nil
		}
		data, err := originalRendition.encodeJPEG(img)
		if err != nil {
			return fmt.Errorf("original rendition: %w", err)
		}
		variants.Original = withUprightEXIF(data, exif)
		return nil
	})
	eg.Go(func() error {
		data, err := fullRendition.encodeProgressive(ctx, img, g.jpegs)
		if err != nil {
			return fmt.Errorf("full rendition: %w", err)
		}
		variants.Full = data
		return nil
	})
	eg.Go(func() error {
		data, err := g.webp.EncodeWebP(ctx, thumbnailRendition.resize(img), thumbnailRendition.quality)
		if err != nil {
			return fmt.Errorf("thumbnail rendition: %w", err)
		}
		variants.Thumbnail = data
		return nil
	})
	eg.Go(func() error {
		uri, err := lqipDataURI(img)
		if err != nil {
			return fmt.Errorf("lqip rendition: %w", err)
		}
		variants.LQIP = uri
		return nil
	})
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	out, _, err := image.DecodeConfig(bytes.NewReader(variants.Original))
	if err != nil {
		return nil, fmt.Errorf("read original rendition size: %w", err)
	}
	variants.Width, variants.Height = out.Width, out.Height
	return variants, nil
}
