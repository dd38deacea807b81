package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type OutboxStatus string

const (
	OutboxStatusPending   OutboxStatus = "pending"
	OutboxStatusProcessed OutboxStatus = "processed"
	OutboxStatusFailed    OutboxStatus = "failed"
)

type OutboxEvent struct {
	ID          uuid.UUID       `json:"id"`
	EventType   string          `json:"event_type"`
	Payload     json.RawMessage `json:"payload"`
	Status      OutboxStatus    `json:"status"`
	RetryCount  int             `json:"retry_count"`
	LastError   string          `json:"last_error,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	ProcessedAt *time.Time      `json:"processed_at,omitempty"`
}

const (
	EventAppointmentCreated   = "appointment.created"
	EventAppointmentUpdated   = "appointment.updated"
	EventAppointmentApproved  = "appointment.approved"
	EventAppointmentCancelled = "appointment.cancelled"
	EventAppointmentCompleted = "appointment.completed"
	EventAppointmentDeleted   = "appointment.deleted"
)

// AppointmentEventTypes lists every appointment event, for subscribers.
var AppointmentEventTypes = []string{
	EventAppointmentCreated,
	EventAppointmentUpdated,
	EventAppointmentApproved,
	EventAppointmentCancelled,
	EventAppointmentCompleted,
	EventAppointmentDeleted,
}

// AppointmentEvent is the payload of every appointment.* event.
type AppointmentEvent struct {
	AppointmentID int               `json:"appointment_id"`
	PatientID     int               `json:"patient_id,omitempty"`
	PatientName   string            `json:"patient_name"`
	DoctorName    string            `json:"doctor_name"`
	DateTime      time.Time         `json:"date_time"`
	Status        AppointmentStatus `json:"status"`
}

func NewAppointmentEvent(a Appointment) AppointmentEvent {
	return AppointmentEvent{
		AppointmentID: a.ID,
		PatientID:     a.PatientID,
		PatientName:   a.PatientName,
		DoctorName:    a.DoctorName,
		DateTime:      a.DateTime,
		Status:        a.Status,
	}
}
