package queue

import (
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager() *Manager {
	return NewManager(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestParseSection(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Section
		wantKnown bool
	}{
		{name: "resumen", input: "resumen", want: SectionResumen, wantKnown: true},
		{name: "experiencia", input: "experiencia", want: SectionExperiencia, wantKnown: true},
		{name: "educacion", input: "educacion", want: SectionEducacion, wantKnown: true},
		{name: "habilidades", input: "habilidades", want: SectionHabilidades, wantKnown: true},
		{name: "all", input: "all", want: SectionAll, wantKnown: true},
		{name: "empty defaults to all", input: "", want: SectionAll, wantKnown: true},
		{name: "unknown falls back to all", input: "hobbies", want: SectionAll, wantKnown: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, known := ParseSection(tt.input)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantKnown, known)
		})
	}
}

func TestManager_Enqueue(t *testing.T) {
	m := newTestManager()

	job := m.Enqueue("sub-1", SectionResumen)

	assert.NotEmpty(t, job.ID)
	assert.Equal(t, "sub-1", job.SubmissionID)
	assert.Equal(t, SectionResumen, job.Section)
	assert.Equal(t, StatusPending, job.Status)
	assert.Nil(t, job.Result)
	assert.Nil(t, job.Error)
	assert.Nil(t, job.ProcessedAt)
	assert.False(t, job.CreatedAt.IsZero())

	stored, ok := m.GetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, job.ID, stored.ID)
}

func TestManager_GetJob_NotFound(t *testing.T) {
	m := newTestManager()

	_, ok := m.GetJob("does-not-exist")
	assert.False(t, ok)
}

func TestManager_FIFOOrdering(t *testing.T) {
	m := newTestManager()

	var ids []string
	for i := 0; i < 5; i++ {
		job := m.Enqueue(fmt.Sprintf("sub-%d", i), SectionAll)
		ids = append(ids, job.ID)
	}

	pending := m.GetPendingJobs()
	require.Len(t, pending, 5)
	for i, job := range pending {
		assert.Equal(t, ids[i], job.ID, "pending order must match enqueue order")

		pos, ok := m.GetQueuePosition(job.ID)
		require.True(t, ok)
		assert.Equal(t, i+1, pos)
	}
}

func TestManager_GetQueuePosition(t *testing.T) {
	m := newTestManager()

	j1 := m.Enqueue("sub-1", SectionAll)
	j2 := m.Enqueue("sub-2", SectionAll)

	pos, ok := m.GetQueuePosition(j1.ID)
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	pos, ok = m.GetQueuePosition(j2.ID)
	require.True(t, ok)
	assert.Equal(t, 2, pos)

	// Head leaves the pending set, second job moves up
	require.NoError(t, m.MarkProcessing(j1.ID))

	_, ok = m.GetQueuePosition(j1.ID)
	assert.False(t, ok, "processing job has no queue position")

	pos, ok = m.GetQueuePosition(j2.ID)
	require.True(t, ok)
	assert.Equal(t, 1, pos)

	// Unknown jobs have no position
	_, ok = m.GetQueuePosition("missing")
	assert.False(t, ok)
}

func TestManager_StatusPayloadCoupling(t *testing.T) {
	m := newTestManager()

	completed := m.Enqueue("sub-1", SectionAll)
	failed := m.Enqueue("sub-2", SectionAll)

	require.NoError(t, m.MarkProcessing(completed.ID))
	require.NoError(t, m.MarkCompleted(completed.ID, "generated text"))

	require.NoError(t, m.MarkProcessing(failed.ID))
	require.NoError(t, m.MarkFailed(failed.ID, "upstream exploded"))

	got, ok := m.GetJob(completed.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "generated text", *got.Result)
	assert.Nil(t, got.Error)
	assert.NotNil(t, got.ProcessedAt)

	got, ok = m.GetJob(failed.ID)
	require.True(t, ok)
	assert.Equal(t, StatusFailed, got.Status)
	require.NotNil(t, got.Error)
	assert.Equal(t, "upstream exploded", *got.Error)
	assert.Nil(t, got.Result)
	assert.NotNil(t, got.ProcessedAt)
}

func TestManager_TerminalImmutability(t *testing.T) {
	m := newTestManager()

	job := m.Enqueue("sub-1", SectionAll)
	require.NoError(t, m.MarkProcessing(job.ID))
	require.NoError(t, m.MarkCompleted(job.ID, "final text"))

	assert.ErrorIs(t, m.MarkProcessing(job.ID), ErrJobTerminal)
	assert.ErrorIs(t, m.MarkFailed(job.ID, "too late"), ErrJobTerminal)
	assert.ErrorIs(t, m.MarkCompleted(job.ID, "other text"), ErrJobTerminal)

	got, ok := m.GetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, StatusCompleted, got.Status)
	require.NotNil(t, got.Result)
	assert.Equal(t, "final text", *got.Result)
	assert.Nil(t, got.Error)
}

func TestManager_Transition_NotFound(t *testing.T) {
	m := newTestManager()

	assert.ErrorIs(t, m.MarkProcessing("nope"), ErrJobNotFound)
	assert.ErrorIs(t, m.MarkCompleted("nope", "x"), ErrJobNotFound)
	assert.ErrorIs(t, m.MarkFailed("nope", "x"), ErrJobNotFound)
}

func TestManager_Cleanup(t *testing.T) {
	m := newTestManager()

	oldCompleted := m.Enqueue("sub-1", SectionAll)
	require.NoError(t, m.MarkProcessing(oldCompleted.ID))
	require.NoError(t, m.MarkCompleted(oldCompleted.ID, "text"))

	oldFailed := m.Enqueue("sub-2", SectionAll)
	require.NoError(t, m.MarkProcessing(oldFailed.ID))
	require.NoError(t, m.MarkFailed(oldFailed.ID, "boom"))

	pending := m.Enqueue("sub-3", SectionAll)

	processing := m.Enqueue("sub-4", SectionAll)
	require.NoError(t, m.MarkProcessing(processing.ID))

	// Everything processed so far is "old" relative to a zero retention
	time.Sleep(5 * time.Millisecond)
	removed := m.Cleanup(time.Millisecond)

	assert.Equal(t, 2, removed)

	_, ok := m.GetJob(oldCompleted.ID)
	assert.False(t, ok)
	_, ok = m.GetJob(oldFailed.ID)
	assert.False(t, ok)

	// Non-terminal jobs survive regardless of age
	_, ok = m.GetJob(pending.ID)
	assert.True(t, ok)
	_, ok = m.GetJob(processing.ID)
	assert.True(t, ok)
}

func TestManager_Cleanup_RetainsRecentTerminalJobs(t *testing.T) {
	m := newTestManager()

	job := m.Enqueue("sub-1", SectionAll)
	require.NoError(t, m.MarkProcessing(job.ID))
	require.NoError(t, m.MarkCompleted(job.ID, "text"))

	removed := m.Cleanup(24 * time.Hour)
	assert.Zero(t, removed)

	_, ok := m.GetJob(job.ID)
	assert.True(t, ok)
}

func TestManager_Stats(t *testing.T) {
	m := newTestManager()

	m.Enqueue("sub-1", SectionAll)

	processing := m.Enqueue("sub-2", SectionAll)
	require.NoError(t, m.MarkProcessing(processing.ID))

	completed := m.Enqueue("sub-3", SectionAll)
	require.NoError(t, m.MarkProcessing(completed.ID))
	require.NoError(t, m.MarkCompleted(completed.ID, "text"))

	failed := m.Enqueue("sub-4", SectionAll)
	require.NoError(t, m.MarkProcessing(failed.ID))
	require.NoError(t, m.MarkFailed(failed.ID, "boom"))

	stats := m.Stats()
	assert.Equal(t, Stats{Total: 4, Pending: 1, Processing: 1, Completed: 1, Failed: 1}, stats)
}

func TestManager_SnapshotsAreCopies(t *testing.T) {
	m := newTestManager()

	job := m.Enqueue("sub-1", SectionAll)

	snapshot, ok := m.GetJob(job.ID)
	require.True(t, ok)
	snapshot.Status = StatusFailed

	got, ok := m.GetJob(job.ID)
	require.True(t, ok)
	assert.Equal(t, StatusPending, got.Status, "mutating a snapshot must not affect the store")
}
