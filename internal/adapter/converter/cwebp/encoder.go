// Package cwebp encodes WebP through the libwebp command line encoder.
package cwebp

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"

	"github.com/bnema/galerie/internal/port"
)

type Encoder struct {
	binary  string
	tempDir string
}

// NewEncoder returns an encoder staging its intermediates in tempDir.
// An empty binary resolves cwebp on $PATH.
func NewEncoder(binary, tempDir string) *Encoder {
	if binary == "" {
		binary = "cwebp"
	}
	if tempDir == "" {
		tempDir = os.TempDir()
	}
	return &Encoder{binary: binary, tempDir: tempDir}
}

func (e *Encoder) Available() error {
	if _, err := exec.LookPath(e.binary); err != nil {
		return fmt.Errorf("cwebp not found: %w", err)
	}
	return nil
}

// EncodeWebP writes img as a lossless PNG intermediate and lets cwebp
// produce the lossy WebP at the given quality.
func (e *Encoder) EncodeWebP(ctx context.Context, img image.Image, quality int) ([]byte, error) {
	if quality <= 0 || quality > 100 {
		return nil, fmt.Errorf("webp quality %d out of range", quality)
	}
	if err := os.MkdirAll(e.tempDir, 0750); err != nil {
		return nil, fmt.Errorf("create temp dir: %w", err)
	}

	work, err := os.MkdirTemp(e.tempDir, "webp-*")
	if err != nil {
		return nil, fmt.Errorf("create work dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(work) }()

	inputPath := filepath.Join(work, "input.png")
	outputPath := filepath.Join(work, "output.webp")

	in, err := os.Create(inputPath)
	if err != nil {
		return nil, fmt.Errorf("create input file: %w", err)
	}
	enc := png.Encoder{CompressionLevel: png.BestSpeed}
	if err := enc.Encode(in, img); err != nil {
		_ = in.Close()
		return nil, fmt.Errorf("write intermediate png: %w", err)
	}
	if err := in.Close(); err != nil {
		return nil, fmt.Errorf("close input file: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, e.binary, "-quiet", "-q", strconv.Itoa(quality), inputPath, "-o", outputPath)
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("cwebp failed: %w, stderr: %s", err, stderr.String())
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("read webp output: %w", err)
	}
	return data, nil
}

var _ port.WebPEncoder = (*Encoder)(nil)
