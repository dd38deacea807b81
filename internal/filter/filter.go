// Package filter narrows entity lists by free-text search and exact-match
// options. Matching is case-insensitive and input order is preserved.
package filter

import (
	"strings"

	"github.com/apper-apps/mediconnect-code/internal/model"
)

// All disables an exact-match option.
const All = "all"

func contains(field, term string) bool {
	return strings.Contains(strings.ToLower(field), term)
}

func normalize(search string) string {
	return strings.ToLower(strings.TrimSpace(search))
}

func matchesOption(value, option string) bool {
	return option == "" || option == All || value == option
}

// Appointments keeps appointments whose patient name, doctor name or reason
// contains search and whose status equals status.
func Appointments(items []model.Appointment, search string, status model.AppointmentStatus) []model.Appointment {
	term := normalize(search)
	out := make([]model.Appointment, 0, len(items))
	for _, a := range items {
		if !matchesOption(string(a.Status), string(status)) {
			continue
		}
		if term != "" && !contains(a.PatientName, term) && !contains(a.DoctorName, term) && !contains(a.Reason, term) {
			continue
		}
		out = append(out, a)
	}
	return out
}

// Prescriptions matches patient name, doctor name and medication names.
func Prescriptions(items []model.Prescription, search string) []model.Prescription {
	term := normalize(search)
	out := make([]model.Prescription, 0, len(items))
	for _, p := range items {
		if term == "" || prescriptionMatches(p, term) {
			out = append(out, p)
		}
	}
	return out
}

func prescriptionMatches(p model.Prescription, term string) bool {
	if contains(p.PatientName, term) || contains(p.DoctorName, term) {
		return true
	}
	for _, m := range p.Medications {
		if contains(m.Name, term) {
			return true
		}
	}
	return false
}

// Patients matches name, email and phone.
func Patients(items []model.Patient, search string) []model.Patient {
	term := normalize(search)
	out := make([]model.Patient, 0, len(items))
	for _, p := range items {
		if term == "" || contains(p.Name, term) || contains(p.Email, term) || contains(p.Phone, term) {
			out = append(out, p)
		}
	}
	return out
}

// Files keeps files in category whose name contains search.
func Files(items []model.FileRecord, search string, category model.FileCategory) []model.FileRecord {
	term := normalize(search)
	out := make([]model.FileRecord, 0, len(items))
	for _, f := range items {
		if !matchesOption(string(f.Category), string(category)) {
			continue
		}
		if term != "" && !contains(f.FileName, term) {
			continue
		}
		out = append(out, f)
	}
	return out
}

// AppointmentsForPatient keeps the appointments booked for patientID.
func AppointmentsForPatient(items []model.Appointment, patientID int) []model.Appointment {
	out := make([]model.Appointment, 0)
	for _, a := range items {
		if a.PatientID == patientID {
			out = append(out, a)
		}
	}
	return out
}
