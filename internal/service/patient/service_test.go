package patient

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/store"
	apperrors "github.com/apper-apps/mediconnect-code/pkg/errors"
)

var now = time.Date(2024, 3, 20, 12, 0, 0, 0, time.UTC)

func newTestService(patients []model.Patient, appts []model.Appointment) *Service {
	svc := NewService(
		store.NewCollection(store.EntityPatient, patients, store.Options{}),
		store.NewCollection(store.EntityAppointment, appts, store.Options{}),
	)
	svc.now = func() time.Time { return now }
	return svc
}

func TestDeletePatient_MissingLeavesCollectionUnchanged(t *testing.T) {
	ctx := context.Background()
	svc := newTestService([]model.Patient{{ID: 1, Name: "John Doe"}, {ID: 2, Name: "Emily Carter"}}, nil)

	err := svc.DeletePatient(ctx, 42)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))

	all, err := svc.ListPatients(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestCreateAndUpdatePatient(t *testing.T) {
	ctx := context.Background()
	svc := newTestService([]model.Patient{{ID: 3, Name: "John Doe"}}, nil)

	p, err := svc.CreatePatient(ctx, &model.CreatePatientRequest{Name: "  Ann Lee ", Email: "ann@email.com"})
	require.NoError(t, err)
	assert.Equal(t, 4, p.ID)
	assert.Equal(t, "Ann Lee", p.Name)
	assert.False(t, p.CreatedAt.IsZero())

	_, err = svc.CreatePatient(ctx, &model.CreatePatientRequest{Name: " "})
	assert.True(t, apperrors.IsBadRequest(err))

	phone := "+1 (555) 000-1111"
	updated, err := svc.UpdatePatient(ctx, 4, &model.UpdatePatientRequest{Phone: &phone})
	require.NoError(t, err)
	assert.Equal(t, phone, updated.Phone)
	assert.Equal(t, "ann@email.com", updated.Email)

	blank := ""
	_, err = svc.UpdatePatient(ctx, 4, &model.UpdatePatientRequest{Name: &blank})
	assert.True(t, apperrors.IsBadRequest(err))
}

func TestListPatients_Search(t *testing.T) {
	svc := newTestService([]model.Patient{
		{ID: 1, Name: "John Doe", Email: "john@email.com"},
		{ID: 2, Name: "Emily Carter", Phone: "555-0101"},
	}, nil)

	got, err := svc.ListPatients(context.Background(), "0101")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 2, got[0].ID)
}

func TestGetHistory(t *testing.T) {
	svc := newTestService(
		[]model.Patient{{ID: 1, Name: "John Doe"}},
		[]model.Appointment{
			{ID: 1, PatientID: 1, DateTime: now.AddDate(0, -1, 0), Status: model.AppointmentStatusCompleted},
			{ID: 2, PatientID: 1, DateTime: now.AddDate(0, 0, 3), Status: model.AppointmentStatusApproved},
			{ID: 3, PatientID: 1, DateTime: now.AddDate(0, 0, 5), Status: model.AppointmentStatusPending},
			{ID: 4, PatientName: "john doe", DateTime: now.AddDate(0, 0, -2), Status: model.AppointmentStatusApproved},
			{ID: 5, PatientID: 2, PatientName: "John Doe", DateTime: now},
		},
	)

	h, err := svc.GetHistory(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "John Doe", h.Patient.Name)

	ids := []int{}
	for _, a := range h.Appointments {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []int{3, 2, 4, 1}, ids)
	assert.Equal(t, model.PatientStats{Total: 4, Completed: 1, Upcoming: 1}, h.Stats)

	_, err = svc.GetHistory(context.Background(), 9)
	assert.True(t, apperrors.IsNotFound(err))
}
