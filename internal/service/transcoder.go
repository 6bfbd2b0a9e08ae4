package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/infrastructure/logger"
	"github.com/bnema/galerie/internal/port"
	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"
)

const DefaultTempFileMaxAge = 6 * time.Hour

type TranscodeRequest struct {
	MediaID    string
	SourcePath string
	TargetPath string
}

// Transcoder turns a stored original into its web rendition, staging both
// ends on local disk because the encoder only works with files.
type Transcoder struct {
	blobs      port.BlobStore
	encoder    port.VideoEncoder
	tempDir    string
	maxTempAge time.Duration
	now        func() time.Time
	log        zerolog.Logger
}

type TranscoderOption func(*Transcoder)

func WithTempFileMaxAge(d time.Duration) TranscoderOption {
	return func(t *Transcoder) {
		if d > 0 {
			t.maxTempAge = d
		}
	}
}

func WithTranscoderClock(now func() time.Time) TranscoderOption {
	return func(t *Transcoder) { t.now = now }
}

func NewTranscoder(blobs port.BlobStore, encoder port.VideoEncoder, tempDir string, opts ...TranscoderOption) *Transcoder {
	t := &Transcoder{
		blobs:      blobs,
		encoder:    encoder,
		tempDir:    tempDir,
		maxTempAge: DefaultTempFileMaxAge,
		now:        time.Now,
		log:        logger.Component("transcoder"),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transcoder) TempDir() string {
	return t.tempDir
}

func (t *Transcoder) TranscodeVideo(ctx context.Context, req TranscodeRequest) error {
	names := []string{req.MediaID + "-input.tmp", req.MediaID + "-output.mp4"}

	return withTempFiles(t.tempDir, names, func(paths []string) error {
		inputPath, outputPath := paths[0], paths[1]

		inSize, err := t.download(ctx, req.SourcePath, inputPath)
		if err != nil {
			return err
		}

		start := t.now()
		if err := t.encoder.Transcode(ctx, inputPath, outputPath); err != nil {
			return fmt.Errorf("transcode %s: %w", req.MediaID, err)
		}

		out, err := os.Open(outputPath)
		if err != nil {
			return fmt.Errorf("open transcoded output: %w", err)
		}
		defer func() { _ = out.Close() }()

		info, err := out.Stat()
		if err != nil {
			return fmt.Errorf("stat transcoded output: %w", err)
		}
		if err := t.blobs.Put(ctx, req.TargetPath, out, "video/mp4", info.Size()); err != nil {
			return fmt.Errorf("upload %s: %w", req.TargetPath, err)
		}

		t.log.Info().
			Str("media_id", req.MediaID).
			Str("input_size", humanize.Bytes(uint64(inSize))).
			Str("output_size", humanize.Bytes(uint64(info.Size()))).
			Dur("took", t.now().Sub(start)).
			Msg("video transcoded")
		return nil
	})
}

func (t *Transcoder) download(ctx context.Context, key, dst string) (int64, error) {
	src, err := t.blobs.Get(ctx, key)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, fmt.Errorf("%w: %s", domain.ErrSourceMissing, key)
		}
		return 0, fmt.Errorf("open source %s: %w", key, err)
	}
	defer func() { _ = src.Close() }()

	f, err := os.Create(dst)
	if err != nil {
		return 0, fmt.Errorf("create temp input: %w", err)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return 0, fmt.Errorf("stage source %s: %w", key, err)
	}
	return n, nil
}

// CleanupOrphanedTempFiles removes temp files left behind by transcodes that
// never reached their cleanup, such as after a crash.
func (t *Transcoder) CleanupOrphanedTempFiles() int {
	n := removeFilesOlderThan(t.tempDir, t.now().Add(-t.maxTempAge))
	if n > 0 {
		t.log.Info().Int("count", n).Msg("removed orphaned temp files")
	}
	return n
}

// PurgeTempDir removes every temp file. Only safe while no transcode runs.
func (t *Transcoder) PurgeTempDir() int {
	n := removeFilesOlderThan(t.tempDir, time.Time{})
	if n > 0 {
		t.log.Info().Int("count", n).Msg("purged temp dir")
	}
	return n
}
