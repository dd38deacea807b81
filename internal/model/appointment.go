package model

import (
	"time"
)

type AppointmentStatus string

const (
	AppointmentStatusPending   AppointmentStatus = "pending"
	AppointmentStatusApproved  AppointmentStatus = "approved"
	AppointmentStatusCancelled AppointmentStatus = "cancelled"
	AppointmentStatusCompleted AppointmentStatus = "completed"
)

// Valid reports whether s is one of the known statuses.
func (s AppointmentStatus) Valid() bool {
	switch s {
	case AppointmentStatusPending, AppointmentStatusApproved,
		AppointmentStatusCancelled, AppointmentStatusCompleted:
		return true
	}
	return false
}

type Appointment struct {
	ID             int               `json:"id"`
	PatientID      int               `json:"patient_id,omitempty"`
	PatientName    string            `json:"patient_name"`
	DoctorName     string            `json:"doctor_name"`
	DateTime       time.Time         `json:"date_time"`
	Status         AppointmentStatus `json:"status"`
	Reason         string            `json:"reason,omitempty"`
	Specialization string            `json:"specialization,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
}

func (a Appointment) GetID() int { return a.ID }

func (a Appointment) WithID(id int) Appointment {
	a.ID = id
	return a
}

func (a Appointment) Clone() Appointment { return a }

// OnCreate stamps a freshly booked appointment. Bookings always start pending.
func (a Appointment) OnCreate(now time.Time) Appointment {
	a.Status = AppointmentStatusPending
	a.CreatedAt = now
	return a
}

type CreateAppointmentRequest struct {
	PatientID      int       `json:"patient_id"`
	PatientName    string    `json:"patient_name" binding:"required,max=120"`
	DoctorName     string    `json:"doctor_name" binding:"required,max=120"`
	DateTime       time.Time `json:"date_time" binding:"required"`
	Reason         string    `json:"reason" binding:"max=1000"`
	Specialization string    `json:"specialization" binding:"max=120"`
}

type UpdateAppointmentRequest struct {
	PatientName    *string            `json:"patient_name"`
	DoctorName     *string            `json:"doctor_name"`
	DateTime       *time.Time         `json:"date_time"`
	Status         *AppointmentStatus `json:"status"`
	Reason         *string            `json:"reason"`
	Specialization *string            `json:"specialization"`
}

// Apply merges the non-nil fields of r into a.
func (r *UpdateAppointmentRequest) Apply(a *Appointment) {
	if r.PatientName != nil {
		a.PatientName = *r.PatientName
	}
	if r.DoctorName != nil {
		a.DoctorName = *r.DoctorName
	}
	if r.DateTime != nil {
		a.DateTime = *r.DateTime
	}
	if r.Status != nil {
		a.Status = *r.Status
	}
	if r.Reason != nil {
		a.Reason = *r.Reason
	}
	if r.Specialization != nil {
		a.Specialization = *r.Specialization
	}
}

type AppointmentFilters struct {
	Search    string            `form:"search"`
	Status    AppointmentStatus `form:"status"`
	PatientID int               `form:"patient_id"`
}
