package worker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/repository/memory"
	"github.com/apper-apps/mediconnect-code/pkg/logger"
	"github.com/apper-apps/mediconnect-code/pkg/metrics"
)

type mockBroker struct {
	mock.Mock
}

func (m *mockBroker) Publish(ctx context.Context, channel string, message []byte) error {
	args := m.Called(ctx, channel, message)
	return args.Error(0)
}

func (m *mockBroker) Subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	args := m.Called(ctx, channel)
	return args.Get(0).(<-chan []byte), args.Error(1)
}

func (m *mockBroker) Close() error {
	return m.Called().Error(0)
}

func testConfig() OutboxProcessorConfig {
	return OutboxProcessorConfig{
		BatchSize:     10,
		PollInterval:  time.Second,
		RetryAttempts: 3,
		RetryDelay:    time.Millisecond,
	}
}

func TestNewOutboxProcessor_ValidatesConfig(t *testing.T) {
	cfg := testConfig()
	cfg.BatchSize = 0
	_, err := NewOutboxProcessor(memory.NewOutboxRepository(), new(mockBroker), cfg, logger.Nop(), metrics.New("test"))
	assert.Error(t, err)
}

func TestOutboxProcessor_PublishesPendingEvents(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOutboxRepository()
	event := &model.OutboxEvent{EventType: model.EventAppointmentApproved, Payload: []byte(`{"appointment_id":1}`)}
	require.NoError(t, repo.Create(ctx, event))

	broker := new(mockBroker)
	broker.On("Publish", mock.Anything, "portal.appointment.approved", []byte(`{"appointment_id":1}`)).Return(nil).Once()

	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	p, err := NewOutboxProcessor(repo, broker, testConfig(), logger.Nop(), m)
	require.NoError(t, err)

	require.NoError(t, p.ProcessEvents(ctx))

	broker.AssertExpectations(t)
	processed, err := repo.List(ctx, model.OutboxStatusProcessed)
	require.NoError(t, err)
	assert.Len(t, processed, 1)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxEventsProcessed))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.OutboxQueueSize))
}

func TestOutboxProcessor_RetriesThenMarksFailed(t *testing.T) {
	ctx := context.Background()
	repo := memory.NewOutboxRepository()
	require.NoError(t, repo.Create(ctx, &model.OutboxEvent{EventType: model.EventAppointmentCreated, Payload: []byte(`{}`)}))

	broker := new(mockBroker)
	broker.On("Publish", mock.Anything, "portal.appointment.created", mock.Anything).Return(errors.New("unavailable")).Times(3)

	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	p, err := NewOutboxProcessor(repo, broker, testConfig(), logger.Nop(), m)
	require.NoError(t, err)

	require.NoError(t, p.ProcessEvents(ctx))

	broker.AssertExpectations(t)
	failed, err := repo.List(ctx, model.OutboxStatusFailed)
	require.NoError(t, err)
	require.Len(t, failed, 1)
	assert.Equal(t, "unavailable", failed[0].LastError)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OutboxEventsFailed))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.OutboxRetries.WithLabelValues(model.EventAppointmentCreated)))
}

func TestPeriodicJob_RunsUntilCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	runs := make(chan struct{}, 10)

	job := NewPeriodicJob("test", 5*time.Millisecond, func(context.Context) error {
		runs <- struct{}{}
		return errors.New("keeps going")
	})

	done := make(chan struct{})
	go func() {
		job.Start(ctx)
		close(done)
	}()

	for i := 0; i < 2; i++ {
		select {
		case <-runs:
		case <-time.After(time.Second):
			t.Fatal("job did not run")
		}
	}
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("job did not stop")
	}
}
