package calendar

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/mediconnect-code/internal/calendar"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/store"
	apperrors "github.com/apper-apps/mediconnect-code/pkg/errors"
	"github.com/apper-apps/mediconnect-code/pkg/metrics"
)

var today = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newTestService(appts []model.Appointment, week []model.ScheduleDay, cfg Config) (*Service, *store.Collection[model.Appointment], *metrics.Metrics) {
	apptRepo := store.NewCollection(store.EntityAppointment, appts, store.Options{})
	schedRepo := store.NewCollection(store.EntitySchedule, week, store.Options{})
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	svc := NewService(apptRepo, schedRepo, calendar.New(time.UTC, calendar.PolicyExact), cfg, m)
	svc.now = func() time.Time { return today }
	return svc, apptRepo, m
}

func TestMonth_DefaultsToCurrentMonth(t *testing.T) {
	svc, _, _ := newTestService(nil, nil, Config{})

	view, err := svc.Month(context.Background(), MonthQuery{Role: model.RolePatient})
	require.NoError(t, err)
	assert.Equal(t, "2024-03", view.Month)
	assert.Len(t, view.Days, 31)
	assert.True(t, view.Days[9].Today)
	assert.Nil(t, view.Selected)
}

func TestMonth_RoleControlsSlotGrid(t *testing.T) {
	appts := []model.Appointment{{ID: 1, DateTime: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)}}
	svc, _, _ := newTestService(appts, nil, Config{})
	ctx := context.Background()

	patient, err := svc.Month(ctx, MonthQuery{Month: "2024-03", Selected: "2024-03-15", Role: model.RolePatient})
	require.NoError(t, err)
	require.NotNil(t, patient.Selected)
	assert.Len(t, patient.Selected.Slots, 12)
	assert.Len(t, patient.Selected.Appointments, 1)

	doctor, err := svc.Month(ctx, MonthQuery{Month: "2024-03", Selected: "2024-03-15", Role: model.RoleDoctor})
	require.NoError(t, err)
	require.NotNil(t, doctor.Selected)
	assert.Empty(t, doctor.Selected.Slots)
	assert.Len(t, doctor.Selected.Appointments, 1)
}

func TestMonth_InvalidInput(t *testing.T) {
	svc, _, _ := newTestService(nil, nil, Config{})
	ctx := context.Background()

	_, err := svc.Month(ctx, MonthQuery{Month: "03-2024"})
	assert.True(t, apperrors.IsBadRequest(err))

	_, err = svc.Month(ctx, MonthQuery{Month: "2024-03", Selected: "15/03/2024"})
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestMonth_ClinicScheduleCandidates(t *testing.T) {
	week := []model.ScheduleDay{
		{ID: 1, Day: model.Friday, IsAvailable: true, TimeSlots: []string{"09:00", "09:30"}},
		{ID: 2, Day: model.Saturday, IsAvailable: false},
	}
	svc, _, _ := newTestService(nil, week, Config{UseClinicSchedule: true})
	ctx := context.Background()

	friday, err := svc.Month(ctx, MonthQuery{Month: "2024-03", Selected: "2024-03-15", Role: model.RolePatient})
	require.NoError(t, err)
	assert.Len(t, friday.Selected.Slots, 2)

	saturday, err := svc.Month(ctx, MonthQuery{Month: "2024-03", Selected: "2024-03-16", Role: model.RolePatient})
	require.NoError(t, err)
	assert.Empty(t, saturday.Selected.Slots)
}

func TestMonth_CacheAndInvalidate(t *testing.T) {
	svc, repo, m := newTestService(nil, nil, Config{CacheTTL: time.Minute})
	ctx := context.Background()
	q := MonthQuery{Month: "2024-03", Selected: "2024-03-15", Role: model.RolePatient}

	_, err := svc.Month(ctx, q)
	require.NoError(t, err)

	_, err = repo.Create(ctx, model.Appointment{ID: 1, DateTime: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, err)

	cached, err := svc.Month(ctx, q)
	require.NoError(t, err)
	assert.Empty(t, cached.Selected.Appointments)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CalendarCacheHits))

	svc.Invalidate()
	fresh, err := svc.Month(ctx, q)
	require.NoError(t, err)
	assert.Len(t, fresh.Selected.Appointments, 1)
	assert.Equal(t, 2.0, testutil.ToFloat64(m.CalendarCacheMisses))
}

func TestMonth_InvalidateDuringBuildIsNotCached(t *testing.T) {
	week := []model.ScheduleDay{
		{ID: 1, Day: model.Friday, IsAvailable: true, TimeSlots: []string{"09:00", "10:00"}},
	}
	apptRepo := store.NewCollection[model.Appointment](store.EntityAppointment, nil, store.Options{})
	schedRepo := store.NewCollection(store.EntitySchedule, week, store.Options{
		Latency: store.Latency{GetAll: 200 * time.Millisecond},
	})
	m := metrics.NewMetrics("test", prometheus.NewRegistry())
	svc := NewService(apptRepo, schedRepo, calendar.New(time.UTC, calendar.PolicyExact),
		Config{UseClinicSchedule: true, CacheTTL: time.Minute}, m)
	svc.now = func() time.Time { return today }

	ctx := context.Background()
	q := MonthQuery{Month: "2024-03", Selected: "2024-03-15", Role: model.RolePatient}

	done := make(chan error, 1)
	go func() {
		_, err := svc.Month(ctx, q)
		done <- err
	}()

	time.Sleep(50 * time.Millisecond)
	booked, err := apptRepo.Create(ctx, model.Appointment{PatientName: "John Doe", DateTime: time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)})
	require.NoError(t, err)
	svc.Invalidate()
	require.NoError(t, <-done)

	view, err := svc.Month(ctx, q)
	require.NoError(t, err)
	require.NotNil(t, view.Selected)
	assert.Len(t, view.Selected.Appointments, 1)
	require.Len(t, view.Selected.Slots, 2)
	assert.True(t, view.Selected.Slots[1].Booked)
	assert.Equal(t, booked.ID, view.Selected.Slots[1].AppointmentID)
}
