package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/infrastructure/logger"
	"github.com/bnema/galerie/internal/infrastructure/metrics"
	"github.com/bnema/galerie/internal/port"
	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultMaxImageSize int64 = 10 << 20
	DefaultMaxVideoSize int64 = 100 << 20
)

// UploadRequest describes an upload already spooled to a local file.
type UploadRequest struct {
	ID       string
	FileName string
	MimeType string
	Size     int64
	Path     string
}

type ImageProcessor interface {
	Generate(ctx context.Context, input []byte) (*domain.ImageVariants, error)
}

type PosterProcessor interface {
	Generate(ctx context.Context, videoPath string) (*domain.VideoPoster, error)
}

// MediaDetails is a media row with its most recent job, if any.
type MediaDetails struct {
	Media *domain.Media `json:"media"`
	Job   *domain.Job   `json:"job,omitempty"`
}

type JobsOverview struct {
	Jobs  []*domain.Job   `json:"jobs"`
	Stats domain.JobStats `json:"stats"`
}

type MediaService struct {
	store        port.MediaStore
	blobs        port.BlobStore
	queue        port.JobQueue
	images       ImageProcessor
	posters      PosterProcessor
	dispatcher   Triggerer
	events       EventPublisher
	maxImageSize int64
	maxVideoSize int64
	inflight     sync.Map
	log          zerolog.Logger
}

type MediaOption func(*MediaService)

func WithSizeLimits(maxImage, maxVideo int64) MediaOption {
	return func(s *MediaService) {
		if maxImage > 0 {
			s.maxImageSize = maxImage
		}
		if maxVideo > 0 {
			s.maxVideoSize = maxVideo
		}
	}
}

func WithEvents(events EventPublisher) MediaOption {
	return func(s *MediaService) {
		s.events = events
	}
}

func NewMediaService(
	store port.MediaStore,
	blobs port.BlobStore,
	queue port.JobQueue,
	images ImageProcessor,
	posters PosterProcessor,
	dispatcher Triggerer,
	opts ...MediaOption,
) *MediaService {
	s := &MediaService{
		store:        store,
		blobs:        blobs,
		queue:        queue,
		images:       images,
		posters:      posters,
		dispatcher:   dispatcher,
		maxImageSize: DefaultMaxImageSize,
		maxVideoSize: DefaultMaxVideoSize,
		log:          logger.Component("media"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Upload routes the request to the image or video path by MIME type.
func (s *MediaService) Upload(ctx context.Context, req UploadRequest) (*domain.Media, error) {
	kind, ok := domain.DetectKind(req.MimeType)
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, req.MimeType)
	}
	if kind == domain.MediaKindImage {
		return s.UploadImage(ctx, req)
	}
	return s.UploadVideo(ctx, req)
}

func (s *MediaService) checkUpload(req UploadRequest, want domain.MediaKind, limit int64) error {
	kind, ok := domain.DetectKind(req.MimeType)
	if !ok || kind != want {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedMedia, req.MimeType)
	}
	if req.Size > limit {
		return fmt.Errorf("%w: %s exceeds %s", domain.ErrFileTooLarge,
			humanize.IBytes(uint64(req.Size)), humanize.IBytes(uint64(limit)))
	}
	if req.Path == "" {
		return errors.New("upload has no local file")
	}
	return nil
}

// reserveID picks the media id for an upload. A requested id already stored,
// or held by an upload still in progress, is refused with domain.ErrConflict
// before anything is written.
func (s *MediaService) reserveID(ctx context.Context, requested string) (string, func(), error) {
	if requested == "" {
		return uuid.NewString(), func() {}, nil
	}
	if _, held := s.inflight.LoadOrStore(requested, struct{}{}); held {
		return "", nil, fmt.Errorf("%w: %s", domain.ErrConflict, requested)
	}
	release := func() { s.inflight.Delete(requested) }

	_, err := s.store.GetMedia(ctx, requested)
	switch {
	case err == nil:
		release()
		return "", nil, fmt.Errorf("%w: %s", domain.ErrConflict, requested)
	case !errors.Is(err, domain.ErrNotFound):
		release()
		return "", nil, fmt.Errorf("check media %s: %w", requested, err)
	}
	return requested, release, nil
}

// UploadImage stores every rendition and returns the media ready to serve.
func (s *MediaService) UploadImage(ctx context.Context, req UploadRequest) (*domain.Media, error) {
	if err := s.checkUpload(req, domain.MediaKindImage, s.maxImageSize); err != nil {
		return nil, err
	}
	id, release, err := s.reserveID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	input, err := os.ReadFile(req.Path)
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	variants, err := s.images.Generate(ctx, input)
	if err != nil {
		return nil, err
	}

	media := domain.NewMedia(id, domain.MediaKindImage, req.FileName, req.MimeType, req.Size)
	media.Width = variants.Width
	media.Height = variants.Height
	media.LQIP = variants.LQIP
	media.OriginalPath = domain.OriginalKey(id, domain.OriginalExt(domain.MediaKindImage, req.FileName, req.MimeType))
	media.FullPath = domain.FullKey(id)
	media.ThumbPath = domain.ThumbKey(id)

	written, err := s.putAll(ctx, []blobWrite{
		{key: media.OriginalPath, data: variants.Original, contentType: "image/jpeg"},
		{key: media.FullPath, data: variants.Full, contentType: "image/jpeg"},
		{key: media.ThumbPath, data: variants.Thumbnail, contentType: "image/webp"},
	})
	if err != nil {
		s.removeBlobs(written)
		return nil, err
	}

	if err := s.store.CreateMedia(ctx, media); err != nil {
		s.removeBlobs(written)
		return nil, fmt.Errorf("save media: %w", err)
	}

	metrics.MediaIngestedTotal.WithLabelValues(string(domain.MediaKindImage)).Inc()
	s.log.Info().
		Str("media_id", id).
		Str("file", logger.SanitizeForLog(req.FileName)).
		Str("size", humanize.IBytes(uint64(req.Size))).
		Int("width", media.Width).
		Int("height", media.Height).
		Msg("image uploaded")
	return media, nil
}

// UploadVideo stores the original and its poster, then queues the web
// transcode. The returned media is still processing.
func (s *MediaService) UploadVideo(ctx context.Context, req UploadRequest) (*domain.Media, error) {
	if err := s.checkUpload(req, domain.MediaKindVideo, s.maxVideoSize); err != nil {
		return nil, err
	}
	id, release, err := s.reserveID(ctx, req.ID)
	if err != nil {
		return nil, err
	}
	defer release()

	poster, err := s.posters.Generate(ctx, req.Path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnsupportedMedia, err)
	}

	media := domain.NewMedia(id, domain.MediaKindVideo, req.FileName, req.MimeType, req.Size)
	media.Width = poster.Width
	media.Height = poster.Height
	media.Duration = poster.Duration
	media.LQIP = poster.LQIP
	media.Processing = domain.ProcessingInProgress
	media.OriginalPath = domain.OriginalKey(id, domain.OriginalExt(domain.MediaKindVideo, req.FileName, req.MimeType))
	media.FullPath = domain.PosterKey(id)
	media.ThumbPath = domain.ThumbKey(id)

	written, err := s.putOriginal(ctx, media.OriginalPath, req.Path, req.MimeType)
	if err != nil {
		return nil, err
	}
	more, err := s.putAll(ctx, []blobWrite{
		{key: media.FullPath, data: poster.Full, contentType: "image/jpeg"},
		{key: media.ThumbPath, data: poster.Thumbnail, contentType: "image/webp"},
	})
	written = append(written, more...)
	if err != nil {
		s.removeBlobs(written)
		return nil, err
	}

	if err := s.store.CreateMedia(ctx, media); err != nil {
		s.removeBlobs(written)
		return nil, fmt.Errorf("save media: %w", err)
	}

	jobID, err := s.queue.Enqueue(ctx, domain.NewJob{
		MediaID:    id,
		Type:       domain.JobTypeVideoTranscode,
		SourcePath: media.OriginalPath,
		TargetPath: domain.WebVideoKey(id),
	})
	if err != nil {
		if delErr := s.store.DeleteMedia(context.WithoutCancel(ctx), id); delErr != nil {
			s.log.Error().Err(delErr).Str("media_id", id).Msg("failed to roll back media row")
		}
		s.removeBlobs(written)
		return nil, fmt.Errorf("enqueue transcode: %w", err)
	}
	s.dispatcher.Trigger()

	metrics.MediaIngestedTotal.WithLabelValues(string(domain.MediaKindVideo)).Inc()
	s.log.Info().
		Str("media_id", id).
		Str("job_id", jobID).
		Str("file", logger.SanitizeForLog(req.FileName)).
		Str("size", humanize.IBytes(uint64(req.Size))).
		Float64("duration", media.Duration).
		Msg("video uploaded, transcode queued")
	return media, nil
}

type blobWrite struct {
	key         string
	data        []byte
	contentType string
}

// putAll writes blobs in order and returns the keys written before any failure.
func (s *MediaService) putAll(ctx context.Context, writes []blobWrite) ([]string, error) {
	written := make([]string, 0, len(writes))
	for _, w := range writes {
		if err := s.blobs.Put(ctx, w.key, bytes.NewReader(w.data), w.contentType, int64(len(w.data))); err != nil {
			return written, fmt.Errorf("store %s: %w", w.key, err)
		}
		written = append(written, w.key)
	}
	return written, nil
}

func (s *MediaService) putOriginal(ctx context.Context, key, path, contentType string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	defer f.Close() //nolint:errcheck

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat upload: %w", err)
	}
	if err := s.blobs.Put(ctx, key, f, contentType, info.Size()); err != nil {
		return nil, fmt.Errorf("store %s: %w", key, err)
	}
	return []string{key}, nil
}

// removeBlobs undoes a partial ingest. It survives request cancellation.
func (s *MediaService) removeBlobs(keys []string) {
	for _, key := range keys {
		if err := s.blobs.Delete(context.Background(), key); err != nil {
			s.log.Error().Err(err).Str("key", key).Msg("failed to remove orphaned blob")
		}
	}
}

func (s *MediaService) Get(ctx context.Context, id string) (*MediaDetails, error) {
	media, err := s.store.GetMedia(ctx, id)
	if err != nil {
		return nil, err
	}
	details := &MediaDetails{Media: media}
	if media.Kind != domain.MediaKindVideo {
		return details, nil
	}

	job, err := s.queue.LatestForMedia(ctx, id)
	switch {
	case errors.Is(err, domain.ErrNotFound):
	case err != nil:
		return nil, fmt.Errorf("latest job for %s: %w", id, err)
	default:
		details.Job = job
	}
	return details, nil
}

// Open streams a stored rendition.
func (s *MediaService) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return s.blobs.Get(ctx, key)
}

// Jobs lists jobs newest first. An empty status lists every job.
func (s *MediaService) Jobs(ctx context.Context, status domain.JobStatus, limit int) (*JobsOverview, error) {
	if status != "" && !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	jobs, err := s.queue.List(ctx, status, limit)
	if err != nil {
		return nil, err
	}
	stats, err := s.queue.Stats(ctx)
	if err != nil {
		return nil, err
	}
	return &JobsOverview{Jobs: jobs, Stats: stats}, nil
}

// RetryJob gives a job a fresh budget and puts its media back in progress.
func (s *MediaService) RetryJob(ctx context.Context, jobID string) (*domain.Job, error) {
	job, err := s.queue.Reset(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SetProcessing(ctx, job.MediaID, domain.ProcessingInProgress); err != nil {
		return nil, fmt.Errorf("reset media %s: %w", job.MediaID, err)
	}
	if s.events != nil {
		s.events.Publish(job.MediaID, statusEvent(domain.ProcessingInProgress.String(), ""))
	}
	s.dispatcher.Trigger()

	s.log.Info().Str("job_id", job.ID).Str("media_id", job.MediaID).Msg("job reset for retry")
	return job, nil
}
