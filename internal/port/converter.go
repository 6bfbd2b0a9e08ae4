package port

import (
	"context"
	"image"

	"github.com/bnema/galerie/internal/domain"
)

// VideoEncoder drives the external encoder process.
type VideoEncoder interface {
	Transcode(ctx context.Context, inputPath, outputPath string) error
	Probe(ctx context.Context, inputPath string) (*domain.ProbeResult, error)
	ExtractFrame(ctx context.Context, inputPath string) ([]byte, error)
}

type WebPEncoder interface {
	EncodeWebP(ctx context.Context, img image.Image, quality int) ([]byte, error)
}

// JPEGOptimizer rewrites an encoded JPEG as progressive.
type JPEGOptimizer interface {
	Progressive(ctx context.Context, data []byte) ([]byte, error)
}
