package appointment

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/mediconnect-code/internal/calendar"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/store"
	apperrors "github.com/apper-apps/mediconnect-code/pkg/errors"
)

type mockEmitter struct {
	mock.Mock
}

func (m *mockEmitter) Emit(ctx context.Context, eventType string, payload interface{}) error {
	args := m.Called(ctx, eventType, payload)
	return args.Error(0)
}

type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) Invalidate() { c.calls++ }

func newTestService(t *testing.T, seed []model.Appointment) (*Service, *mockEmitter, *countingInvalidator) {
	t.Helper()
	repo := store.NewCollection(store.EntityAppointment, seed, store.Options{})
	emitter := new(mockEmitter)
	inv := &countingInvalidator{}
	return NewService(repo, emitter, inv), emitter, inv
}

func TestBookAndApproveScenario(t *testing.T) {
	ctx := context.Background()
	svc, emitter, inv := newTestService(t, nil)
	emitter.On("Emit", ctx, model.EventAppointmentCreated, mock.Anything).Return(nil).Once()
	emitter.On("Emit", ctx, model.EventAppointmentApproved, mock.Anything).Return(nil).Once()

	at := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	booked, err := svc.BookAppointment(ctx, &model.CreateAppointmentRequest{
		PatientName: "John Doe",
		DoctorName:  "Dr. Sarah Johnson",
		DateTime:    at,
		Reason:      "Checkup",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, booked.ID)
	assert.Equal(t, model.AppointmentStatusPending, booked.Status)

	approved, err := svc.ApproveAppointment(ctx, booked.ID)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusApproved, approved.Status)

	all, err := svc.ListAppointments(ctx, nil)
	require.NoError(t, err)

	engine := calendar.New(time.UTC, calendar.PolicyExact)
	buckets := engine.BucketByDay(all, engine.MonthDays(at))
	require.Len(t, buckets["2024-03-15"], 1)

	slots := engine.Slots(at, all, calendar.DefaultSlots())
	for _, s := range slots {
		assert.Equal(t, s.Time == "10:00", s.Booked, s.Time)
	}

	emitter.AssertExpectations(t)
	assert.Equal(t, 2, inv.calls)
}

func TestBookAppointment_RequiredFields(t *testing.T) {
	svc, _, _ := newTestService(t, nil)
	ctx := context.Background()

	tests := []struct {
		name string
		req  model.CreateAppointmentRequest
	}{
		{"patient", model.CreateAppointmentRequest{DoctorName: "Dr. A", DateTime: time.Now()}},
		{"doctor", model.CreateAppointmentRequest{PatientName: "P", DateTime: time.Now()}},
		{"date", model.CreateAppointmentRequest{PatientName: "P", DoctorName: "Dr. A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.BookAppointment(ctx, &tt.req)
			assert.True(t, apperrors.IsBadRequest(err))
		})
	}
}

func TestRejectAppointment(t *testing.T) {
	ctx := context.Background()
	svc, emitter, _ := newTestService(t, []model.Appointment{{ID: 3, Status: model.AppointmentStatusPending}})
	emitter.On("Emit", ctx, model.EventAppointmentCancelled, mock.Anything).Return(nil)

	apt, err := svc.RejectAppointment(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCancelled, apt.Status)

	_, err = svc.RejectAppointment(ctx, 99)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestEmitFailureDoesNotFailOperation(t *testing.T) {
	ctx := context.Background()
	svc, emitter, _ := newTestService(t, []model.Appointment{{ID: 1, Status: model.AppointmentStatusPending}})
	emitter.On("Emit", ctx, mock.Anything, mock.Anything).Return(errors.New("outbox full"))

	_, err := svc.ApproveAppointment(ctx, 1)
	assert.NoError(t, err)
}

func TestUpdateAppointment(t *testing.T) {
	ctx := context.Background()
	svc, emitter, inv := newTestService(t, []model.Appointment{{ID: 1, PatientName: "John", Status: model.AppointmentStatusPending}})

	reason := "Follow-up"
	apt, err := svc.UpdateAppointment(ctx, 1, &model.UpdateAppointmentRequest{Reason: &reason})
	require.NoError(t, err)
	assert.Equal(t, "Follow-up", apt.Reason)
	assert.Equal(t, "John", apt.PatientName)
	assert.Equal(t, 1, inv.calls)
	emitter.AssertNotCalled(t, "Emit", mock.Anything, mock.Anything, mock.Anything)

	bad := model.AppointmentStatus("lost")
	_, err = svc.UpdateAppointment(ctx, 1, &model.UpdateAppointmentRequest{Status: &bad})
	assert.True(t, apperrors.IsBadRequest(err))

	emitter.On("Emit", ctx, model.EventAppointmentApproved, mock.Anything).Return(nil).Once()
	approved := model.AppointmentStatusApproved
	_, err = svc.UpdateAppointment(ctx, 1, &model.UpdateAppointmentRequest{Status: &approved})
	require.NoError(t, err)
	emitter.AssertExpectations(t)
}

func TestUpdateAppointment_BlankNames(t *testing.T) {
	ctx := context.Background()
	svc, _, inv := newTestService(t, []model.Appointment{{ID: 1, PatientName: "John", DoctorName: "Dr. Sarah Wilson"}})

	blank := "  "
	_, err := svc.UpdateAppointment(ctx, 1, &model.UpdateAppointmentRequest{PatientName: &blank})
	assert.True(t, apperrors.IsBadRequest(err))

	_, err = svc.UpdateAppointment(ctx, 1, &model.UpdateAppointmentRequest{DoctorName: &blank})
	assert.True(t, apperrors.IsBadRequest(err))

	apt, err := svc.GetAppointment(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "John", apt.PatientName)
	assert.Equal(t, "Dr. Sarah Wilson", apt.DoctorName)
	assert.Zero(t, inv.calls)
}

func TestDeleteAppointment(t *testing.T) {
	ctx := context.Background()
	svc, emitter, _ := newTestService(t, []model.Appointment{{ID: 1}, {ID: 2}})
	emitter.On("Emit", ctx, model.EventAppointmentDeleted, mock.Anything).Return(nil).Once()

	require.NoError(t, svc.DeleteAppointment(ctx, 1))
	_, err := svc.GetAppointment(ctx, 1)
	assert.True(t, apperrors.IsNotFound(err))

	err = svc.DeleteAppointment(ctx, 1)
	assert.True(t, apperrors.IsNotFound(err))
	emitter.AssertExpectations(t)
}

func TestListAppointments_Filters(t *testing.T) {
	svc, _, _ := newTestService(t, []model.Appointment{
		{ID: 1, PatientID: 1, PatientName: "John Doe", Status: model.AppointmentStatusPending},
		{ID: 2, PatientID: 2, PatientName: "Emily Carter", Status: model.AppointmentStatusApproved},
		{ID: 3, PatientID: 1, PatientName: "John Doe", Status: model.AppointmentStatusApproved},
	})
	ctx := context.Background()

	got, err := svc.ListAppointments(ctx, &model.AppointmentFilters{Status: model.AppointmentStatusApproved})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	got, err = svc.ListAppointments(ctx, &model.AppointmentFilters{PatientID: 1, Search: "john", Status: "all"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestCompletePast(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)
	svc, emitter, _ := newTestService(t, []model.Appointment{
		{ID: 1, DateTime: now.Add(-time.Hour), Status: model.AppointmentStatusApproved},
		{ID: 2, DateTime: now.Add(-time.Hour), Status: model.AppointmentStatusPending},
		{ID: 3, DateTime: now.Add(time.Hour), Status: model.AppointmentStatusApproved},
	})
	emitter.On("Emit", ctx, model.EventAppointmentCompleted, mock.Anything).Return(nil).Once()

	n, err := svc.CompletePast(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	apt, err := svc.GetAppointment(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, apt.Status)
	emitter.AssertExpectations(t)
}
