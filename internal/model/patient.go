package model

import "time"

type Patient struct {
	ID                int       `json:"id"`
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone"`
	DateOfBirth       string    `json:"date_of_birth,omitempty"`
	Address           string    `json:"address,omitempty"`
	Allergies         string    `json:"allergies,omitempty"`
	MedicalHistory    string    `json:"medical_history,omitempty"`
	EmergencyContact  string    `json:"emergency_contact,omitempty"`
	InsuranceProvider string    `json:"insurance_provider,omitempty"`
	CreatedAt         time.Time `json:"created_at"`
}

func (p Patient) GetID() int { return p.ID }

func (p Patient) WithID(id int) Patient {
	p.ID = id
	return p
}

func (p Patient) Clone() Patient { return p }

func (p Patient) OnCreate(now time.Time) Patient {
	p.CreatedAt = now
	return p
}

type CreatePatientRequest struct {
	Name              string `json:"name" binding:"required,max=120"`
	Email             string `json:"email" binding:"omitempty,email"`
	Phone             string `json:"phone"`
	DateOfBirth       string `json:"date_of_birth"`
	Address           string `json:"address"`
	Allergies         string `json:"allergies"`
	MedicalHistory    string `json:"medical_history"`
	EmergencyContact  string `json:"emergency_contact"`
	InsuranceProvider string `json:"insurance_provider"`
}

func (r *CreatePatientRequest) ToPatient() Patient {
	return Patient{
		Name:              r.Name,
		Email:             r.Email,
		Phone:             r.Phone,
		DateOfBirth:       r.DateOfBirth,
		Address:           r.Address,
		Allergies:         r.Allergies,
		MedicalHistory:    r.MedicalHistory,
		EmergencyContact:  r.EmergencyContact,
		InsuranceProvider: r.InsuranceProvider,
	}
}

type UpdatePatientRequest struct {
	Name              *string `json:"name"`
	Email             *string `json:"email" binding:"omitempty,email"`
	Phone             *string `json:"phone"`
	DateOfBirth       *string `json:"date_of_birth"`
	Address           *string `json:"address"`
	Allergies         *string `json:"allergies"`
	MedicalHistory    *string `json:"medical_history"`
	EmergencyContact  *string `json:"emergency_contact"`
	InsuranceProvider *string `json:"insurance_provider"`
}

func (r *UpdatePatientRequest) Apply(p *Patient) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&p.Name, r.Name)
	set(&p.Email, r.Email)
	set(&p.Phone, r.Phone)
	set(&p.DateOfBirth, r.DateOfBirth)
	set(&p.Address, r.Address)
	set(&p.Allergies, r.Allergies)
	set(&p.MedicalHistory, r.MedicalHistory)
	set(&p.EmergencyContact, r.EmergencyContact)
	set(&p.InsuranceProvider, r.InsuranceProvider)
}

// PatientStats summarizes one patient's appointment history.
type PatientStats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Upcoming  int `json:"upcoming"`
}

type PatientHistory struct {
	Patient      Patient       `json:"patient"`
	Appointments []Appointment `json:"appointments"`
	Stats        PatientStats  `json:"stats"`
}
