package ffmpeg

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/infrastructure/logger"
	"github.com/bnema/galerie/internal/port"
	"github.com/rs/zerolog"
)

var (
	ErrEmptyPath   = errors.New("path is empty")
	ErrInvalidPath = errors.New("path contains null byte")
)

// Web rendition encoding parameters.
const (
	videoCodec   = "libx264"
	videoCRF     = "23"
	videoPreset  = "medium"
	maxHeight    = 1080
	audioCodec   = "aac"
	audioBitrate = "128k"
)

type Converter struct {
	ffmpegPath  string
	ffprobePath string
	log         zerolog.Logger
}

// NewConverter returns an encoder driving the given binaries. Empty paths
// fall back to ffmpeg and ffprobe on $PATH.
func NewConverter(ffmpegPath, ffprobePath string) *Converter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Converter{
		ffmpegPath:  ffmpegPath,
		ffprobePath: ffprobePath,
		log:         logger.Component("ffmpeg"),
	}
}

// Available reports whether both binaries resolve.
func (c *Converter) Available() error {
	if _, err := exec.LookPath(c.ffmpegPath); err != nil {
		return fmt.Errorf("ffmpeg not found: %w", err)
	}
	if _, err := exec.LookPath(c.ffprobePath); err != nil {
		return fmt.Errorf("ffprobe not found: %w", err)
	}
	return nil
}

func validatePath(p string) error {
	if p == "" {
		return ErrEmptyPath
	}
	if strings.ContainsRune(p, 0) {
		return ErrInvalidPath
	}
	return nil
}

func transcodeArgs(inputPath, outputPath string, withAudio bool) []string {
	args := []string{
		"-i", inputPath,
		"-c:v", videoCodec,
		"-crf", videoCRF,
		"-preset", videoPreset,
		"-vf", fmt.Sprintf("scale=-2:'min(%d,ih)'", maxHeight),
	}
	if withAudio {
		args = append(args, "-c:a", audioCodec, "-b:a", audioBitrate)
	} else {
		args = append(args, "-an")
	}
	return append(args,
		"-f", "mp4",
		"-movflags", "+faststart",
		"-y", outputPath,
	)
}

func probeArgs(inputPath string) []string {
	return []string{
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		inputPath,
	}
}

func frameArgs(inputPath string) []string {
	return []string{
		"-i", inputPath,
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "mjpeg",
		"-",
	}
}

// Transcode re-encodes inputPath as an H.264/AAC MP4 capped at 1080p with
// the moov atom up front for progressive playback. Sources without an audio
// track get a silent output instead of an empty AAC stream.
func (c *Converter) Transcode(ctx context.Context, inputPath, outputPath string) error {
	if err := validatePath(inputPath); err != nil {
		return fmt.Errorf("invalid input path: %w", err)
	}
	if err := validatePath(outputPath); err != nil {
		return fmt.Errorf("invalid output path: %w", err)
	}

	withAudio := true
	if probe, err := c.Probe(ctx, inputPath); err != nil {
		c.log.Debug().Err(err).Str("input", logger.SanitizeForLog(inputPath)).Msg("probe before transcode failed, keeping audio")
	} else {
		withAudio = probe.HasAudio()
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.ffmpegPath, transcodeArgs(inputPath, outputPath, withAudio)...)
	cmd.Stderr = &stderr

	c.log.Debug().Str("input", logger.SanitizeForLog(inputPath)).Str("output", logger.SanitizeForLog(outputPath)).Msg("transcoding")
	if err := cmd.Run(); err != nil {
		return &ExitError{Op: "ffmpeg", Err: err, Stderr: stderr.String()}
	}
	return nil
}

func (c *Converter) Probe(ctx context.Context, inputPath string) (*domain.ProbeResult, error) {
	if err := validatePath(inputPath); err != nil {
		return nil, fmt.Errorf("invalid input path: %w", err)
	}

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.ffprobePath, probeArgs(inputPath)...)
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, &ExitError{Op: "ffprobe", Err: err, Stderr: stderr.String()}
	}
	return parseProbe(output)
}

func parseProbe(output []byte) (*domain.ProbeResult, error) {
	var probe domain.ProbeResult
	if err := json.Unmarshal(output, &probe); err != nil {
		return nil, fmt.Errorf("failed to parse ffprobe output: %w", err)
	}
	return &probe, nil
}

// ExtractFrame decodes the first video frame and returns it as JPEG bytes.
func (c *Converter) ExtractFrame(ctx context.Context, inputPath string) ([]byte, error) {
	if err := validatePath(inputPath); err != nil {
		return nil, fmt.Errorf("invalid input path: %w", err)
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, c.ffmpegPath, frameArgs(inputPath)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, &ExitError{Op: "ffmpeg frame", Err: err, Stderr: stderr.String()}
	}
	if stdout.Len() == 0 {
		return nil, fmt.Errorf("ffmpeg frame: no frame produced")
	}
	return stdout.Bytes(), nil
}

// ExitError carries the captured stderr of a failed encoder run.
type ExitError struct {
	Op     string
	Err    error
	Stderr string
}

func (e *ExitError) Error() string {
	msg := strings.TrimSpace(e.Stderr)
	if msg == "" {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed: %v: %s", e.Op, e.Err, lastLines(msg, 5))
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func lastLines(s string, n int) string {
	lines := strings.Split(s, "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}

var _ port.VideoEncoder = (*Converter)(nil)
