package worker

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cvlab-ar/cvgen-service/internal/queue"
	"github.com/cvlab-ar/cvgen-service/internal/submission"
)

type fakeSubmissionStore struct {
	mu   sync.Mutex
	subs map[string]*submission.Submission
}

func newFakeSubmissionStore(subs ...*submission.Submission) *fakeSubmissionStore {
	store := &fakeSubmissionStore{subs: make(map[string]*submission.Submission)}
	for _, sub := range subs {
		store.subs[sub.ID] = sub
	}
	return store
}

func (s *fakeSubmissionStore) GetByID(ctx context.Context, id string) (*submission.Submission, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sub, ok := s.subs[id]
	if !ok {
		return nil, submission.ErrSubmissionNotFound
	}
	return sub, nil
}

type fakeGenerator struct {
	generate func(ctx context.Context, sub *submission.Submission, section queue.Section) (string, error)
}

func (g *fakeGenerator) GenerateContent(ctx context.Context, sub *submission.Submission, section queue.Section) (string, error) {
	return g.generate(ctx, sub, section)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestWorker(q *queue.Manager, store SubmissionGetter, gen ContentGenerator) *Worker {
	return NewWorker(&Config{
		Logger:          discardLogger(),
		Queue:           q,
		Submissions:     store,
		Generator:       gen,
		Interval:        10 * time.Millisecond,
		CleanupInterval: time.Hour,
		CleanupMaxAge:   24 * time.Hour,
	})
}

func TestTick_CompletesJob(t *testing.T) {
	q := queue.NewManager(discardLogger())
	store := newFakeSubmissionStore(&submission.Submission{ID: "S1", FullName: "Ana García"})
	gen := &fakeGenerator{generate: func(ctx context.Context, sub *submission.Submission, section queue.Section) (string, error) {
		assert.Equal(t, "S1", sub.ID)
		assert.Equal(t, queue.SectionResumen, section)
		return "Summary text", nil
	}}

	job := q.Enqueue("S1", queue.SectionResumen)

	// Before any tick the job is pending at position 1
	pos, ok := q.GetQueuePosition(job.ID)
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	w := newTestWorker(q, store, gen)
	w.Tick(context.Background())

	got, ok := q.GetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, queue.StatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "Summary text", *got.Result)
	assert.Nil(t, got.Error)
}

func TestTick_FIFOAcrossTicks(t *testing.T) {
	q := queue.NewManager(discardLogger())
	store := newFakeSubmissionStore(
		&submission.Submission{ID: "S1"},
		&submission.Submission{ID: "S2"},
	)

	var processed []string
	gen := &fakeGenerator{generate: func(ctx context.Context, sub *submission.Submission, section queue.Section) (string, error) {
		processed = append(processed, sub.ID)
		return "ok", nil
	}}

	j1 := q.Enqueue("S1", queue.SectionAll)
	j2 := q.Enqueue("S2", queue.SectionAll)

	pos, ok := q.GetQueuePosition(j1.ID)
	require.True(t, ok)
	assert.Equal(t, 1, pos)
	pos, ok = q.GetQueuePosition(j2.ID)
	require.True(t, ok)
	assert.Equal(t, 2, pos)

	w := newTestWorker(q, store, gen)
	w.Tick(context.Background())

	// J1 done, J2 moved to the head
	pos, ok = q.GetQueuePosition(j2.ID)
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	w.Tick(context.Background())
	assert.Equal(t, []string{"S1", "S2"}, processed)
}

func TestTick_SubmissionNotFound(t *testing.T) {
	q := queue.NewManager(discardLogger())
	store := newFakeSubmissionStore()
	gen := &fakeGenerator{generate: func(ctx context.Context, sub *submission.Submission, section queue.Section) (string, error) {
		t.Fatal("generator must not be called when the submission is missing")
		return "", nil
	}}

	job := q.Enqueue("missing", queue.SectionAll)

	w := newTestWorker(q, store, gen)
	w.Tick(context.Background())

	got, ok := q.GetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, queue.StatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Contains(t, *got.Error, "not found")
	assert.Nil(t, got.Result)
}

func TestTick_GeneratorFailureDoesNotWedgeLoop(t *testing.T) {
	q := queue.NewManager(discardLogger())
	store := newFakeSubmissionStore(
		&submission.Submission{ID: "S1"},
		&submission.Submission{ID: "S2"},
	)

	calls := 0
	gen := &fakeGenerator{generate: func(ctx context.Context, sub *submission.Submission, section queue.Section) (string, error) {
		calls++
		if sub.ID == "S1" {
			return "", errors.New("groq api error (status 500): upstream exploded")
		}
		return "second job text", nil
	}}

	failing := q.Enqueue("S1", queue.SectionAll)

	w := newTestWorker(q, store, gen)
	w.Tick(context.Background())

	got, ok := q.GetJob(failing.ID)
	require.True(t, ok)
	assert.Equal(t, queue.StatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Contains(t, *got.Error, "500")
	assert.Nil(t, got.Result)

	// The loop keeps serving newly enqueued jobs
	next := q.Enqueue("S2", queue.SectionAll)
	w.Tick(context.Background())

	got, ok = q.GetJob(next.ID)
	require.True(t, ok)
	assert.Equal(t, queue.StatusCompleted, got.Status)
	assert.Equal(t, 2, calls)
}

func TestTick_AtMostOneProcessing(t *testing.T) {
	q := queue.NewManager(discardLogger())
	store := newFakeSubmissionStore(
		&submission.Submission{ID: "S1"},
		&submission.Submission{ID: "S2"},
	)

	release := make(chan struct{})
	started := make(chan struct{})
	gen := &fakeGenerator{generate: func(ctx context.Context, sub *submission.Submission, section queue.Section) (string, error) {
		close(started)
		<-release
		return "ok", nil
	}}

	q.Enqueue("S1", queue.SectionAll)
	q.Enqueue("S2", queue.SectionAll)

	w := newTestWorker(q, store, gen)

	done := make(chan struct{})
	go func() {
		w.Tick(context.Background())
		close(done)
	}()

	<-started

	// Re-entrant ticks while a job is in flight are skipped entirely
	w.Tick(context.Background())
	w.Tick(context.Background())

	assert.Equal(t, 1, q.Stats().Processing)
	pending := q.GetPendingJobs()
	require.Len(t, pending, 1)
	assert.Equal(t, "S2", pending[0].SubmissionID)

	close(release)
	<-done

	assert.Equal(t, 1, q.Stats().Completed)
}

func TestTick_RecoversFromPanic(t *testing.T) {
	q := queue.NewManager(discardLogger())
	store := newFakeSubmissionStore(&submission.Submission{ID: "S1"}, &submission.Submission{ID: "S2"})
	gen := &fakeGenerator{generate: func(ctx context.Context, sub *submission.Submission, section queue.Section) (string, error) {
		if sub.ID == "S1" {
			panic("unexpected template explosion")
		}
		return "ok", nil
	}}

	job := q.Enqueue("S1", queue.SectionAll)

	w := newTestWorker(q, store, gen)
	w.Tick(context.Background())

	got, ok := q.GetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, queue.StatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Contains(t, *got.Error, "internal error")

	// Guard was cleared, the next job still runs
	next := q.Enqueue("S2", queue.SectionAll)
	w.Tick(context.Background())

	got, ok = q.GetJob(next.ID)
	require.True(t, ok)
	assert.Equal(t, queue.StatusCompleted, got.Status)
}

func TestTick_NoPendingJobsIsNoop(t *testing.T) {
	q := queue.NewManager(discardLogger())
	gen := &fakeGenerator{generate: func(ctx context.Context, sub *submission.Submission, section queue.Section) (string, error) {
		t.Fatal("generator must not be called")
		return "", nil
	}}

	w := newTestWorker(q, newFakeSubmissionStore(), gen)
	w.Tick(context.Background())

	assert.Equal(t, queue.Stats{}, q.Stats())
}

func TestStartStop(t *testing.T) {
	q := queue.NewManager(discardLogger())
	store := newFakeSubmissionStore(&submission.Submission{ID: "S1"})

	processed := make(chan string, 1)
	gen := &fakeGenerator{generate: func(ctx context.Context, sub *submission.Submission, section queue.Section) (string, error) {
		processed <- sub.ID
		return "ok", nil
	}}

	q.Enqueue("S1", queue.SectionAll)

	w := newTestWorker(q, store, gen)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	require.NoError(t, w.Start(ctx))

	// Second Start is a logged no-op
	require.NoError(t, w.Start(ctx))

	select {
	case id := <-processed:
		assert.Equal(t, "S1", id)
	case <-time.After(time.Second):
		t.Fatal("worker never processed the job")
	}

	w.Stop()
	w.Stop() // idempotent
}
