package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cvlab-ar/cvgen-service/internal/queue"
	"github.com/cvlab-ar/cvgen-service/internal/submission"
)

// ContentGenerator produces AI content for a submission section.
type ContentGenerator interface {
	GenerateContent(ctx context.Context, sub *submission.Submission, section queue.Section) (string, error)
}

// SubmissionGetter resolves a submission id to its stored record.
type SubmissionGetter interface {
	GetByID(ctx context.Context, id string) (*submission.Submission, error)
}

// Config holds worker configuration
type Config struct {
	Logger          *slog.Logger
	Queue           *queue.Manager
	Submissions     SubmissionGetter
	Generator       ContentGenerator
	Interval        time.Duration
	CleanupInterval time.Duration
	CleanupMaxAge   time.Duration
}

// Worker drives queued AI jobs to completion at a fixed cadence, one job
// in flight at a time. The cadence is deliberately slow to stay inside
// the Groq rate limits.
type Worker struct {
	logger          *slog.Logger
	queue           *queue.Manager
	submissions     SubmissionGetter
	generator       ContentGenerator
	interval        time.Duration
	cleanupInterval time.Duration
	cleanupMaxAge   time.Duration

	busy     atomic.Bool
	running  atomic.Bool
	wg       sync.WaitGroup
	stopChan chan struct{}
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	return &Worker{
		logger:          cfg.Logger,
		queue:           cfg.Queue,
		submissions:     cfg.Submissions,
		generator:       cfg.Generator,
		interval:        cfg.Interval,
		cleanupInterval: cfg.CleanupInterval,
		cleanupMaxAge:   cfg.CleanupMaxAge,
		stopChan:        make(chan struct{}),
	}
}

// Start runs an immediate tick, then ticks at the configured interval
// until the context is canceled or Stop is called. Calling Start on a
// running worker is a no-op.
func (w *Worker) Start(ctx context.Context) error {
	if !w.running.CompareAndSwap(false, true) {
		w.logger.Info("Worker already running")
		return nil
	}

	w.logger.Info("Starting worker",
		slog.Duration("interval", w.interval),
		slog.Duration("cleanup_interval", w.cleanupInterval),
		slog.Duration("cleanup_max_age", w.cleanupMaxAge),
	)

	w.wg.Add(1)
	go w.run(ctx)

	return nil
}

// Stop gracefully stops the worker and waits for an in-flight job to
// settle.
func (w *Worker) Stop() {
	if !w.running.CompareAndSwap(true, false) {
		return
	}

	w.logger.Info("Stopping worker...")
	close(w.stopChan)
	w.wg.Wait()
	w.logger.Info("Worker stopped")
}

func (w *Worker) run(ctx context.Context) {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	cleanupTicker := time.NewTicker(w.cleanupInterval)
	defer cleanupTicker.Stop()

	// No initial delay: serve the head of the queue right away
	w.Tick(ctx)

	for {
		select {
		case <-w.stopChan:
			w.logger.Info("Worker loop stopping - stopChan closed")
			return

		case <-ctx.Done():
			w.logger.Info("Worker loop stopping - context canceled")
			return

		case <-ticker.C:
			w.Tick(ctx)

		case <-cleanupTicker.C:
			w.queue.Cleanup(w.cleanupMaxAge)
		}
	}
}

// Tick claims and processes at most one pending job. The busy flag makes
// the tick re-entrancy safe: overlapping invocations are skipped rather
// than run concurrently, so at most one job is ever processing.
func (w *Worker) Tick(ctx context.Context) {
	if !w.busy.CompareAndSwap(false, true) {
		w.logger.Info("Still processing a job, skipping tick")
		return
	}
	defer w.busy.Store(false)

	pending := w.queue.GetPendingJobs()
	if len(pending) == 0 {
		w.logger.Debug("No pending jobs")
		return
	}

	job := pending[0]
	w.logger.Info("Processing job",
		slog.String("job_id", job.ID),
		slog.String("submission_id", job.SubmissionID),
		slog.Int("pending_count", len(pending)),
	)

	w.processJob(ctx, job)
}

func (w *Worker) processJob(ctx context.Context, job queue.Job) {
	// A panic anywhere below must not wedge the scheduling loop; the job
	// is failed and the next tick proceeds normally.
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("Panic while processing job",
				slog.String("job_id", job.ID),
				slog.Any("panic", r),
			)
			w.failJob(job.ID, fmt.Sprintf("internal error: %v", r))
		}
	}()

	if err := w.queue.MarkProcessing(job.ID); err != nil {
		w.logger.Error("Failed to mark job processing",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	sub, err := w.submissions.GetByID(ctx, job.SubmissionID)
	if err != nil {
		if errors.Is(err, submission.ErrSubmissionNotFound) {
			w.failJob(job.ID, "submission not found")
		} else {
			w.failJob(job.ID, err.Error())
		}
		return
	}

	result, err := w.generator.GenerateContent(ctx, sub, job.Section)
	if err != nil {
		w.failJob(job.ID, err.Error())
		return
	}

	if err := w.queue.MarkCompleted(job.ID, result); err != nil {
		w.logger.Error("Failed to mark job completed",
			slog.String("job_id", job.ID),
			slog.String("error", err.Error()),
		)
		return
	}

	w.logger.Info("Job completed successfully",
		slog.String("job_id", job.ID),
		slog.String("submission_id", job.SubmissionID),
	)
}

func (w *Worker) failJob(jobID, message string) {
	w.logger.Error("Job failed",
		slog.String("job_id", jobID),
		slog.String("error", message),
	)

	if err := w.queue.MarkFailed(jobID, message); err != nil {
		w.logger.Error("Failed to mark job failed",
			slog.String("job_id", jobID),
			slog.String("error", err.Error()),
		)
	}
}
