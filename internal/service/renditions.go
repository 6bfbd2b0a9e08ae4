package service

import (
	"bytes"
	"context"
	"encoding/base64"
	"image"
	"image/jpeg"

	"github.com/bnema/galerie/internal/port"
	"github.com/disintegration/imaging"
)

type rendition struct {
	maxWidth  int
	maxHeight int
	quality   int
}

var (
	originalRendition  = rendition{maxWidth: 3500, maxHeight: 3500, quality: 92}
	fullRendition      = rendition{maxWidth: 2000, maxHeight: 2000, quality: 85}
	thumbnailRendition = rendition{maxWidth: 600, maxHeight: 600, quality: 75}
	lqipRendition      = rendition{maxWidth: 20, maxHeight: 20, quality: 60}
)

func (r rendition) fits(width, height int) bool {
	return width <= r.maxWidth && height <= r.maxHeight
}

// resize scales img down to fit the rendition box, preserving aspect ratio.
// Images already inside the box are returned untouched.
func (r rendition) resize(img image.Image) image.Image {
	b := img.Bounds()
	if r.fits(b.Dx(), b.Dy()) {
		return img
	}
	return imaging.Fit(img, r.maxWidth, r.maxHeight, imaging.Lanczos)
}

func (r rendition) encodeJPEG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, r.resize(img), &jpeg.Options{Quality: r.quality}); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeProgressive encodes like encodeJPEG, then has the optimizer rewrite
// the result as progressive.
func (r rendition) encodeProgressive(ctx context.Context, img image.Image, opt port.JPEGOptimizer) ([]byte, error) {
	data, err := r.encodeJPEG(img)
	if err != nil {
		return nil, err
	}
	return opt.Progressive(ctx, data)
}

func lqipDataURI(img image.Image) (string, error) {
	data, err := lqipRendition.encodeJPEG(img)
	if err != nil {
		return "", err
	}
	return "data:image/jpeg;base64," + base64.StdEncoding.EncodeToString(data), nil
}
