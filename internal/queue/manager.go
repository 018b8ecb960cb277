package queue

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrJobNotFound is returned when a job id is not present in the queue
	ErrJobNotFound = errors.New("job not found")

	// ErrJobTerminal is returned when a state transition is attempted on a
	// completed or failed job
	ErrJobTerminal = errors.New("job already in terminal state")
)

// Manager is the authoritative in-memory registry of AI generation jobs.
// It is the sole mutator of job state; the worker and the HTTP handlers
// only ever see copies of job records.
type Manager struct {
	mu     sync.Mutex
	jobs   []*Job // insertion order
	byID   map[string]*Job
	logger *slog.Logger
}

// NewManager creates an empty queue manager.
func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		jobs:   make([]*Job, 0),
		byID:   make(map[string]*Job),
		logger: logger,
	}
}

// Enqueue appends a new pending job for the given submission. The
// submission id is not validated here; the worker resolves it at
// processing time. Enqueue always succeeds.
func (m *Manager) Enqueue(submissionID string, section Section) Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	job := &Job{
		ID:           uuid.New().String(),
		SubmissionID: submissionID,
		Section:      section,
		Status:       StatusPending,
		CreatedAt:    time.Now(),
	}

	m.jobs = append(m.jobs, job)
	m.byID[job.ID] = job

	m.logger.Info("Job enqueued",
		slog.String("job_id", job.ID),
		slog.String("submission_id", submissionID),
		slog.String("section", string(section)),
	)

	return *job
}

// GetJob returns a copy of the job with the given id.
func (m *Manager) GetJob(jobID string) (Job, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.byID[jobID]
	if !ok {
		return Job{}, false
	}
	return *job, true
}

// GetAllJobs returns a snapshot of every job in insertion order.
func (m *Manager) GetAllJobs() []Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := make([]Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		all = append(all, *job)
	}
	return all
}

// GetPendingJobs returns a snapshot of pending jobs in insertion order.
func (m *Manager) GetPendingJobs() []Job {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.pendingLocked()
}

func (m *Manager) pendingLocked() []Job {
	pending := make([]Job, 0)
	for _, job := range m.jobs {
		if job.Status == StatusPending {
			pending = append(pending, *job)
		}
	}
	return pending
}

// GetQueuePosition returns the 1-based rank of the job among pending jobs
// in enqueue order. The second return value is false when the job is not
// pending (processing, terminal or unknown).
func (m *Manager) GetQueuePosition(jobID string) (int, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	position := 0
	for _, job := range m.jobs {
		if job.Status != StatusPending {
			continue
		}
		position++
		if job.ID == jobID {
			return position, true
		}
	}
	return 0, false
}

// MarkProcessing transitions a pending job to processing.
func (m *Manager) MarkProcessing(jobID string) error {
	return m.transition(jobID, func(job *Job, now time.Time) {
		job.Status = StatusProcessing
		job.ProcessedAt = &now
	})
}

// MarkCompleted records the generated text and finalizes the job.
func (m *Manager) MarkCompleted(jobID, result string) error {
	return m.transition(jobID, func(job *Job, now time.Time) {
		job.Status = StatusCompleted
		job.Result = &result
		job.ProcessedAt = &now
	})
}

// MarkFailed records the failure message and finalizes the job.
func (m *Manager) MarkFailed(jobID, errMsg string) error {
	return m.transition(jobID, func(job *Job, now time.Time) {
		job.Status = StatusFailed
		job.Error = &errMsg
		job.ProcessedAt = &now
	})
}

func (m *Manager) transition(jobID string, apply func(job *Job, now time.Time)) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	job, ok := m.byID[jobID]
	if !ok {
		return ErrJobNotFound
	}
	if job.Terminal() {
		return ErrJobTerminal
	}

	apply(job, time.Now())

	m.logger.Info("Job updated",
		slog.String("job_id", jobID),
		slog.String("status", job.Status),
	)
	return nil
}

// Cleanup removes completed and failed jobs whose processing finished more
// than maxAge ago. Pending and processing jobs are always retained.
// Returns the number of jobs removed.
func (m *Manager) Cleanup(maxAge time.Duration) int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now()
	kept := m.jobs[:0]
	removed := 0

	for _, job := range m.jobs {
		if !job.Terminal() || job.ProcessedAt == nil || now.Sub(*job.ProcessedAt) < maxAge {
			kept = append(kept, job)
			continue
		}
		delete(m.byID, job.ID)
		removed++
	}
	m.jobs = kept

	if removed > 0 {
		m.logger.Info("Cleaned up old jobs",
			slog.Int("removed", removed),
			slog.Duration("max_age", maxAge),
		)
	}
	return removed
}

// Stats returns aggregate job counts by status.
func (m *Manager) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats := Stats{Total: len(m.jobs)}
	for _, job := range m.jobs {
		switch job.Status {
		case StatusPending:
			stats.Pending++
		case StatusProcessing:
			stats.Processing++
		case StatusCompleted:
			stats.Completed++
		case StatusFailed:
			stats.Failed++
		}
	}
	return stats
}
