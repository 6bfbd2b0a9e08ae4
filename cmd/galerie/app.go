package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/bnema/galerie/config"
	"github.com/bnema/galerie/internal/adapter/converter/cwebp"
	"github.com/bnema/galerie/internal/adapter/converter/ffmpeg"
	"github.com/bnema/galerie/internal/adapter/converter/jpegtran"
	"github.com/bnema/galerie/internal/adapter/storage/localfs"
	"github.com/bnema/galerie/internal/adapter/storage/objectstore"
	"github.com/bnema/galerie/internal/adapter/storage/sqlite"
	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/infrastructure/logger"
	"github.com/bnema/galerie/internal/port"
	"github.com/bnema/galerie/internal/service"
)

// app holds the wired pipeline shared by every command.
type app struct {
	store       *sqlite.Store
	blobs       port.BlobStore
	queue       *sqlite.JobQueue
	encoder     *ffmpeg.Converter
	webp        *cwebp.Encoder
	jpegs       *jpegtran.Optimizer
	transcoder  *service.Transcoder
	events      *service.EventBus
	dispatcher  *service.Dispatcher
	maintenance *service.Maintenance
	media       *service.MediaService
	spoolDir    string
}

func newApp(ctx context.Context, cfg *config.Config) (*app, error) {
	transcodeDir := filepath.Join(cfg.TempDir, "transcode")
	webpDir := filepath.Join(cfg.TempDir, "webp")
	spoolDir := filepath.Join(cfg.TempDir, "uploads")
	for _, dir := range []string{cfg.DataDir, transcodeDir, webpDir, spoolDir} {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, fmt.Errorf("create %s: %w", dir, err)
		}
	}

	store, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, err
	}

	blobs, err := newBlobStore(ctx, cfg)
	if err != nil {
		_ = store.Close()
		return nil, err
	}

	q := cfg.Queue
	queue := sqlite.NewJobQueue(store, blobs,
		sqlite.WithMaxAttempts(q.MaxAttempts),
		sqlite.WithRetention(q.StaleAfter.Std(), q.CompletedRetention.Std(), q.FailedRetention.Std()),
	)

	encoder := ffmpeg.NewConverter(cfg.FFmpegPath, cfg.FFprobePath)
	webp := cwebp.NewEncoder(cfg.CWebPPath, webpDir)
	jpegs := jpegtran.NewOptimizer(cfg.JPEGTranPath)
	transcoder := service.NewTranscoder(blobs, encoder, transcodeDir,
		service.WithTempFileMaxAge(q.TempFileMaxAge.Std()))

	events := service.NewEventBus()
	handler := service.NewVideoJobHandler(transcoder, store, events)
	dispatcher := service.NewDispatcher(queue, domain.JobTypeVideoTranscode, handler,
		service.WithDrainDelay(q.DrainDelay.Std()))
	maintenance := service.NewMaintenance(queue, transcoder, dispatcher,
		service.WithMaintenanceInterval(q.MaintenanceInterval.Std()),
		service.WithStartupGrace(q.StartupGrace.Std()))

	media := service.NewMediaService(store, blobs, queue,
		service.NewImageVariantGenerator(webp, jpegs),
		service.NewVideoPosterGenerator(encoder, webp, jpegs),
		dispatcher,
		service.WithSizeLimits(cfg.MaxImageSize(), cfg.MaxVideoSize()),
		service.WithEvents(events),
	)

	return &app{
		store:       store,
		blobs:       blobs,
		queue:       queue,
		encoder:     encoder,
		webp:        webp,
		jpegs:       jpegs,
		transcoder:  transcoder,
		events:      events,
		dispatcher:  dispatcher,
		maintenance: maintenance,
		media:       media,
		spoolDir:    spoolDir,
	}, nil
}

func newBlobStore(ctx context.Context, cfg *config.Config) (port.BlobStore, error) {
	switch cfg.BlobBackend {
	case config.BlobBackendMinIO:
		s3, err := objectstore.NewBlobStore(objectstore.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			Region:    cfg.MinIO.Region,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			return nil, err
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s3, nil
	default:
		return localfs.NewBlobStore(filepath.Join(cfg.DataDir, "uploads"))
	}
}

// checkBinaries logs missing encoders. Images and posters fail per request
// without them, so the server still starts.
func (a *app) checkBinaries() {
	log := logger.Component("startup")
	for name, err := range map[string]error{
		"ffmpeg":   a.encoder.Available(),
		"cwebp":    a.webp.Available(),
		"jpegtran": a.jpegs.Available(),
	} {
		if err != nil {
			log.Warn().Err(err).Str("binary", name).Msg("encoder unavailable")
		}
	}
}

func (a *app) Close() error {
	return a.store.Close()
}
