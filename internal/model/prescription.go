package model

import "time"

type Medication struct {
	Name      string `json:"name" binding:"required"`
	Dosage    string `json:"dosage"`
	Frequency string `json:"frequency"`
	Duration  string `json:"duration"`
}

type Prescription struct {
	ID            int          `json:"id"`
	AppointmentID int          `json:"appointment_id,omitempty"`
	PatientName   string       `json:"patient_name"`
	DoctorName    string       `json:"doctor_name"`
	CreatedAt     time.Time    `json:"created_at"`
	Medications   []Medication `json:"medications"`
	Instructions  string       `json:"instructions"`
	TemplateUsed  string       `json:"template_used,omitempty"`
}

func (p Prescription) GetID() int { return p.ID }

func (p Prescription) WithID(id int) Prescription {
	p.ID = id
	return p
}

func (p Prescription) Clone() Prescription {
	p.Medications = append([]Medication(nil), p.Medications...)
	return p
}

func (p Prescription) OnCreate(now time.Time) Prescription {
	p.CreatedAt = now
	return p
}

// PrescriptionTemplate is a named preset used to prefill a prescription.
type PrescriptionTemplate struct {
	Key          string       `json:"key"`
	Label        string       `json:"label"`
	Medications  []Medication `json:"medications"`
	Instructions string       `json:"instructions"`
}

type CreatePrescriptionRequest struct {
	AppointmentID int          `json:"appointment_id"`
	PatientName   string       `json:"patient_name" binding:"required"`
	DoctorName    string       `json:"doctor_name"`
	Template      string       `json:"template"`
	Medications   []Medication `json:"medications" binding:"dive"`
	Instructions  string       `json:"instructions"`
}

type UpdatePrescriptionRequest struct {
	PatientName  *string       `json:"patient_name"`
	DoctorName   *string       `json:"doctor_name"`
	Medications  *[]Medication `json:"medications"`
	Instructions *string       `json:"instructions"`
	TemplateUsed *string       `json:"template_used"`
}

func (r *UpdatePrescriptionRequest) Apply(p *Prescription) {
	if r.PatientName != nil {
		p.PatientName = *r.PatientName
	}
	if r.DoctorName != nil {
		p.DoctorName = *r.DoctorName
	}
	if r.Medications != nil {
		p.Medications = append([]Medication(nil), (*r.Medications)...)
	}
	if r.Instructions != nil {
		p.Instructions = *r.Instructions
	}
	if r.TemplateUsed != nil {
		p.TemplateUsed = *r.TemplateUsed
	}
}
