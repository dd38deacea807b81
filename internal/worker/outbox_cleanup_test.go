package worker

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/repository/memory"
)

func TestOutboxCleanup(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOutboxRepository()

	evt := &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventAppointmentApproved,
		Payload:   json.RawMessage(`{}`),
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}
	require.NoError(t, repo.Create(ctx, evt))
	require.NoError(t, repo.Create(ctx, &model.OutboxEvent{
		ID:        uuid.New(),
		EventType: model.EventAppointmentCreated,
		Payload:   json.RawMessage(`{}`),
		Status:    model.OutboxStatusPending,
		CreatedAt: time.Now(),
	}))
	require.NoError(t, repo.UpdateStatus(ctx, evt.ID, model.OutboxStatusProcessed, nil))

	w := NewOutboxCleanupWorker(repo, time.Hour, time.Minute)

	rows, err := w.Cleanup(ctx)
	require.NoError(t, err)
	assert.Zero(t, rows, "inside retention")

	w.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	rows, err = w.Cleanup(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), rows)

	pending, err := repo.CountPending(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, pending)
}

type completerFunc func(ctx context.Context, now time.Time) (int, error)

func (f completerFunc) CompletePast(ctx context.Context, now time.Time) (int, error) { return f(ctx, now) }

func TestCompletionJob_Runs(t *testing.T) {
	calls := make(chan struct{}, 10)
	job := NewCompletionJob(completerFunc(func(context.Context, time.Time) (int, error) {
		calls <- struct{}{}
		return 1, nil
	}), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	select {
	case <-calls:
	case <-time.After(2 * time.Second):
		t.Fatal("completion job never ran")
	}
	cancel()
	<-done
}
