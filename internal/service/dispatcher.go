package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/bnema/galerie/internal/domain"
	"github.com/bnema/galerie/internal/infrastructure/logger"
	"github.com/bnema/galerie/internal/infrastructure/metrics"
	"github.com/bnema/galerie/internal/port"
	"github.com/rs/zerolog"
)

const DefaultDrainDelay = time.Second

// JobHandler runs claimed jobs of one type. Succeeded runs after the job is
// marked completed; Failed only once its retry budget is spent.
type JobHandler interface {
	Process(ctx context.Context, job *domain.Job) error
	Succeeded(ctx context.Context, job *domain.Job) error
	Failed(ctx context.Context, job *domain.Job, cause error) error
}

// Dispatcher drains the queue for one job type, one job at a time.
type Dispatcher struct {
	queue      port.JobQueue
	jobType    domain.JobType
	handler    JobHandler
	drainDelay time.Duration
	now        func() time.Time
	log        zerolog.Logger

	wake chan struct{}

	mu      sync.Mutex
	timer   *time.Timer
	stopped bool
}

type DispatcherOption func(*Dispatcher)

func WithDrainDelay(d time.Duration) DispatcherOption {
	return func(disp *Dispatcher) {
		if d > 0 {
			disp.drainDelay = d
		}
	}
}

func NewDispatcher(queue port.JobQueue, jobType domain.JobType, handler JobHandler, opts ...DispatcherOption) *Dispatcher {
	d := &Dispatcher{
		queue:      queue,
		jobType:    jobType,
		handler:    handler,
		drainDelay: DefaultDrainDelay,
		now:        time.Now,
		log:        logger.Component("dispatcher").With().Str("job_type", string(jobType)).Logger(),
		wake:       make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Trigger requests a drain pass. It never blocks and repeated calls before
// the pass starts collapse into one.
func (d *Dispatcher) Trigger() {
	select {
	case d.wake <- struct{}{}:
	default:
	}
}

// Run serves triggers until ctx is done.
func (d *Dispatcher) Run(ctx context.Context) {
	d.log.Info().Msg("dispatcher started")
	defer d.stop()

	for {
		select {
		case <-ctx.Done():
			d.log.Info().Msg("dispatcher shutting down")
			return
		case <-d.wake:
			if _, err := d.DrainOnce(ctx); err != nil && ctx.Err() == nil {
				d.log.Error().Err(err).Msg("drain pass failed")
			}
		}
	}
}

func (d *Dispatcher) stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stopped = true
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}

// scheduleNext arms a single delayed trigger so a backlog drains without a
// tight loop.
func (d *Dispatcher) scheduleNext() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stopped || d.timer != nil {
		return
	}
	d.timer = time.AfterFunc(d.drainDelay, func() {
		d.mu.Lock()
		d.timer = nil
		d.mu.Unlock()
		d.Trigger()
	})
}

// DrainOnce claims and handles at most one job. It reports whether a job was
// claimed.
func (d *Dispatcher) DrainOnce(ctx context.Context) (bool, error) {
	job, err := d.queue.ClaimNext(ctx, d.jobType)
	if err != nil {
		return false, fmt.Errorf("claim job: %w", err)
	}
	if job == nil {
		return false, nil
	}
	metrics.JobsClaimedTotal.WithLabelValues(string(d.jobType)).Inc()

	log := d.log.With().Str("job_id", job.ID).Str("media_id", job.MediaID).Int("attempt", job.Attempts).Logger()
	log.Info().Msg("processing job")

	start := d.now()
	procErr := d.handler.Process(ctx, job)
	elapsed := d.now().Sub(start).Seconds()

	if procErr != nil && ctx.Err() != nil {
		// Shutdown mid-job: the row stays processing until stuck-job recovery.
		log.Warn().Err(procErr).Msg("job interrupted by shutdown")
		return true, ctx.Err()
	}

	if procErr == nil {
		metrics.JobDuration.WithLabelValues(string(d.jobType), string(domain.JobStatusCompleted)).Observe(elapsed)
		if err := d.queue.Complete(ctx, job.ID); err != nil {
			return true, fmt.Errorf("complete job %s: %w", job.ID, err)
		}
		metrics.JobsCompletedTotal.WithLabelValues(string(d.jobType)).Inc()
		if err := d.handler.Succeeded(ctx, job); err != nil {
			log.Error().Err(err).Msg("failed to record job success")
		}
		log.Info().Float64("seconds", elapsed).Msg("job completed")
	} else {
		metrics.JobDuration.WithLabelValues(string(d.jobType), string(domain.JobStatusFailed)).Observe(elapsed)
		if err := d.fail(ctx, log, job, procErr); err != nil {
			return true, err
		}
	}

	pending, err := d.queue.PendingCount(ctx, d.jobType)
	if err != nil {
		return true, fmt.Errorf("count pending jobs: %w", err)
	}
	metrics.JobsPending.WithLabelValues(string(d.jobType)).Set(float64(pending))
	if pending > 0 {
		d.scheduleNext()
	}
	return true, nil
}

func (d *Dispatcher) fail(ctx context.Context, log zerolog.Logger, job *domain.Job, cause error) error {
	msg := logger.SanitizeForLog(cause.Error())
	status, err := d.queue.Fail(ctx, job.ID, cause.Error())
	if err != nil {
		return fmt.Errorf("fail job %s: %w", job.ID, err)
	}

	if status != domain.JobStatusFailed {
		metrics.JobsFailedTotal.WithLabelValues(string(d.jobType), "retry").Inc()
		log.Warn().Str("error", msg).Int("max_attempts", job.MaxAttempts).Msg("job failed, will retry")
		return nil
	}

	metrics.JobsFailedTotal.WithLabelValues(string(d.jobType), "terminal").Inc()
	log.Error().Str("error", msg).Msg("job failed permanently")
	if err := d.handler.Failed(ctx, job, cause); err != nil {
		log.Error().Err(err).Msg("failed to record job failure")
	}
	return nil
}

// VideoTranscoder is what VideoJobHandler needs from the Transcoder.
type VideoTranscoder interface {
	TranscodeVideo(ctx context.Context, req TranscodeRequest) error
}

// VideoJobHandler turns transcode job outcomes into media state.
type VideoJobHandler struct {
	transcoder VideoTranscoder
	media      port.MediaStore
	events     EventPublisher
}

func NewVideoJobHandler(transcoder VideoTranscoder, media port.MediaStore, events EventPublisher) *VideoJobHandler {
	return &VideoJobHandler{transcoder: transcoder, media: media, events: events}
}

func (h *VideoJobHandler) Process(ctx context.Context, job *domain.Job) error {
	return h.transcoder.TranscodeVideo(ctx, TranscodeRequest{
		MediaID:    job.MediaID,
		SourcePath: job.SourcePath,
		TargetPath: job.TargetPath,
	})
}

func (h *VideoJobHandler) Succeeded(ctx context.Context, job *domain.Job) error {
	if err := h.media.MarkReady(ctx, job.MediaID, job.TargetPath); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return fmt.Errorf("media %s vanished before its transcode finished: %w", job.MediaID, err)
		}
		return err
	}
	h.publish(job.MediaID, statusEvent(domain.ProcessingReady.String(), ""))
	return nil
}

func (h *VideoJobHandler) Failed(ctx context.Context, job *domain.Job, cause error) error {
	if err := h.media.SetProcessing(ctx, job.MediaID, domain.ProcessingFailed); err != nil {
		return err
	}
	h.publish(job.MediaID, statusEvent(domain.ProcessingFailed.String(), cause.Error()))
	return nil
}

func (h *VideoJobHandler) publish(mediaID string, event Event) {
	if h.events != nil {
		h.events.Publish(mediaID, event)
	}
}

var _ JobHandler = (*VideoJobHandler)(nil)
