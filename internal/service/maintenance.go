package service

import (
	"context"
	"time"

	"github.com/bnema/galerie/internal/infrastructure/logger"
	"github.com/bnema/galerie/internal/infrastructure/metrics"
	"github.com/bnema/galerie/internal/port"
	"github.com/rs/zerolog"
)

const (
	DefaultMaintenanceInterval = time.Minute
	DefaultStartupGrace        = 2 * time.Second
)

type Triggerer interface {
	Trigger()
}

// TempCleaner is the temp-dir side of the Transcoder.
type TempCleaner interface {
	CleanupOrphanedTempFiles() int
	PurgeTempDir() int
}

type MaintenanceReport struct {
	Recovered        int `json:"recovered"`
	CompletedRemoved int `json:"completed_removed"`
	FailedRemoved    int `json:"failed_removed"`
	TempFilesRemoved int `json:"temp_files_removed"`
	Pending          int `json:"pending"`
}

// Maintenance runs the periodic recovery and retention sweep, plus the one
// shot recovery at boot.
type Maintenance struct {
	queue      port.JobQueue
	temp       TempCleaner
	dispatcher Triggerer
	interval   time.Duration
	grace      time.Duration
	log        zerolog.Logger
}

type MaintenanceOption func(*Maintenance)

func WithMaintenanceInterval(d time.Duration) MaintenanceOption {
	return func(m *Maintenance) {
		if d > 0 {
			m.interval = d
		}
	}
}

// WithStartupGrace sets the boot delay. Zero is allowed and skips the wait.
func WithStartupGrace(d time.Duration) MaintenanceOption {
	return func(m *Maintenance) {
		if d >= 0 {
			m.grace = d
		}
	}
}

func NewMaintenance(queue port.JobQueue, temp TempCleaner, dispatcher Triggerer, opts ...MaintenanceOption) *Maintenance {
	m := &Maintenance{
		queue:      queue,
		temp:       temp,
		dispatcher: dispatcher,
		interval:   DefaultMaintenanceInterval,
		grace:      DefaultStartupGrace,
		log:        logger.Component("maintenance"),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Sweep runs every step in order. A failing step is logged and the sweep
// moves on.
func (m *Maintenance) Sweep(ctx context.Context) MaintenanceReport {
	var report MaintenanceReport
	var err error

	if report.Recovered, err = m.queue.RecoverStuck(ctx); err != nil {
		m.log.Error().Err(err).Msg("stuck job recovery failed")
	}
	metrics.JobsRecoveredTotal.Add(float64(report.Recovered))

	if report.CompletedRemoved, err = m.queue.CleanupCompleted(ctx); err != nil {
		m.log.Error().Err(err).Msg("completed job cleanup failed")
	}
	metrics.MaintenanceRemovedTotal.WithLabelValues("completed_jobs").Add(float64(report.CompletedRemoved))

	if report.FailedRemoved, err = m.queue.CleanupFailed(ctx); err != nil {
		m.log.Error().Err(err).Msg("failed job cleanup failed")
	}
	metrics.MaintenanceRemovedTotal.WithLabelValues("failed_jobs").Add(float64(report.FailedRemoved))

	report.TempFilesRemoved = m.temp.CleanupOrphanedTempFiles()
	metrics.MaintenanceRemovedTotal.WithLabelValues("temp_files").Add(float64(report.TempFilesRemoved))

	if report.Pending, err = m.queue.PendingCount(ctx, ""); err != nil {
		m.log.Error().Err(err).Msg("pending count failed")
	}

	if report.Recovered > 0 {
		m.dispatcher.Trigger()
	}

	m.log.Info().
		Int("recovered", report.Recovered).
		Int("completed_removed", report.CompletedRemoved).
		Int("failed_removed", report.FailedRemoved).
		Int("temp_files_removed", report.TempFilesRemoved).
		Int("pending", report.Pending).
		Msg("maintenance sweep finished")
	return report
}

func (m *Maintenance) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep(ctx)
		}
	}
}

// PurgeTemp clears the temp dir left by the previous process. It must run
// before the dispatcher starts, while no transcode can hold a temp file.
func (m *Maintenance) PurgeTemp() int {
	purged := m.temp.PurgeTempDir()
	m.log.Info().Int("purged_temp_files", purged).Msg("temp dir cleared")
	return purged
}

// Startup waits out the grace period and requeues the jobs the previous
// process abandoned.
func (m *Maintenance) Startup(ctx context.Context) error {
	if m.grace > 0 {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(m.grace):
		}
	}

	recovered, err := m.queue.RecoverStuck(ctx)
	if err != nil {
		return err
	}
	metrics.JobsRecoveredTotal.Add(float64(recovered))

	pending, err := m.queue.PendingCount(ctx, "")
	if err != nil {
		return err
	}

	m.log.Info().Int("recovered", recovered).Int("pending", pending).Msg("startup recovery finished")
	if pending > 0 {
		m.dispatcher.Trigger()
	}
	return nil
}
