package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/apper-apps/mediconnect-code/internal/model"
)

func ids[T interface{ GetID() int }](items []T) []int {
	out := make([]int, 0, len(items))
	for _, item := range items {
		out = append(out, item.GetID())
	}
	return out
}

func TestAppointments(t *testing.T) {
	items := []model.Appointment{
		{ID: 1, PatientName: "John Doe", DoctorName: "Dr. Sarah Johnson", Reason: "Checkup", Status: model.AppointmentStatusPending},
		{ID: 2, PatientName: "Emily Carter", DoctorName: "Dr. James Wilson", Reason: "Persistent cough", Status: model.AppointmentStatusApproved},
		{ID: 3, PatientName: "Michael Brown", DoctorName: "Dr. Sarah Johnson", Reason: "Follow-up", Status: model.AppointmentStatusCancelled},
	}

	tests := []struct {
		name   string
		search string
		status model.AppointmentStatus
		want   []int
	}{
		{"no filters", "", "", []int{1, 2, 3}},
		{"all status", "", All, []int{1, 2, 3}},
		{"patient name case insensitive", "JOHN", "", []int{1}},
		{"doctor name", "sarah", "", []int{1, 3}},
		{"reason", "cough", "", []int{2}},
		{"status only", "", model.AppointmentStatusCancelled, []int{3}},
		{"search and status", "sarah", model.AppointmentStatusPending, []int{1}},
		{"no match", "zzz", "", []int{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(Appointments(items, tt.search, tt.status)))
		})
	}
}

func TestPrescriptions(t *testing.T) {
	items := []model.Prescription{
		{ID: 1, PatientName: "John Doe", DoctorName: "Dr. Sarah Johnson", Medications: []model.Medication{{Name: "Metformin"}}},
		{ID: 2, PatientName: "Emily Carter", DoctorName: "Dr. Sarah Johnson", Medications: []model.Medication{{Name: "Paracetamol"}, {Name: "Cough Syrup"}}},
	}

	assert.Equal(t, []int{1, 2}, ids(Prescriptions(items, "")))
	assert.Equal(t, []int{2}, ids(Prescriptions(items, "syrup")))
	assert.Equal(t, []int{1}, ids(Prescriptions(items, "doe")))
	assert.Equal(t, []int{1, 2}, ids(Prescriptions(items, "johnson")))
}

func TestPatients(t *testing.T) {
	items := []model.Patient{
		{ID: 1, Name: "John Doe", Email: "john.doe@email.com", Phone: "+1 (555) 123-4567"},
		{ID: 2, Name: "Emily Carter", Email: "emily@email.com", Phone: "+1 (555) 234-5678"},
	}

	assert.Equal(t, []int{1}, ids(Patients(items, "john.doe@")))
	assert.Equal(t, []int{2}, ids(Patients(items, "234")))
	assert.Equal(t, []int{1, 2}, ids(Patients(items, "  ")))
}

func TestFiles(t *testing.T) {
	items := []model.FileRecord{
		{ID: 1, FileName: "blood_test.pdf", Category: model.FileCategoryLabResults},
		{ID: 2, FileName: "xray.jpg", Category: model.FileCategoryImages},
		{ID: 3, FileName: "BLOOD_panel.png", Category: model.FileCategoryImages},
	}

	assert.Equal(t, []int{1, 3}, ids(Files(items, "blood", All)))
	assert.Equal(t, []int{2, 3}, ids(Files(items, "", model.FileCategoryImages)))
	assert.Equal(t, []int{3}, ids(Files(items, "blood", model.FileCategoryImages)))
}

func TestAppointmentsForPatient(t *testing.T) {
	items := []model.Appointment{{ID: 1, PatientID: 4}, {ID: 2, PatientID: 5}, {ID: 3, PatientID: 4}}
	assert.Equal(t, []int{1, 3}, ids(AppointmentsForPatient(items, 4)))
	assert.Empty(t, AppointmentsForPatient(items, 9))
}
