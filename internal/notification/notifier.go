// Package notification turns appointment events into emails.
package notification

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/apper-apps/mediconnect-code/internal/email"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/pkg/logger"
	"github.com/apper-apps/mediconnect-code/pkg/messaging"
)

const dateTimeLayout = "Monday, January 2, 2006 at 15:04"

// PatientDirectory resolves where a patient can be reached.
type PatientDirectory interface {
	GetAll(ctx context.Context) ([]model.Patient, error)
}

type Config struct {
	// ClinicEmail receives new booking requests. Empty disables them.
	ClinicEmail string
}

type Notifier struct {
	email    email.Service
	patients PatientDirectory
	cfg      Config
	logger   *logger.Logger
}

func NewNotifier(emailSvc email.Service, patients PatientDirectory, cfg Config, log *logger.Logger) *Notifier {
	if log == nil {
		log = logger.Nop()
	}
	return &Notifier{email: emailSvc, patients: patients, cfg: cfg, logger: log}
}

// Run consumes every appointment event until ctx is done.
func (n *Notifier) Run(ctx context.Context, broker messaging.Broker) error {
	if err := messaging.Consume(ctx, broker, n.Handle, model.AppointmentEventTypes...); err != nil {
		return fmt.Errorf("failed to subscribe: %w", err)
	}
	<-ctx.Done()
	return nil
}

// Handle sends the email for one event. Events nobody needs to hear about
// are dropped.
func (n *Notifier) Handle(ctx context.Context, msg messaging.Message) error {
	var evt model.AppointmentEvent
	if err := json.Unmarshal(msg.Payload, &evt); err != nil {
		return fmt.Errorf("failed to decode %s payload: %w", msg.Type, err)
	}

	to, err := n.recipient(ctx, msg.Type, evt)
	if err != nil {
		return err
	}
	if to == "" {
		n.logger.Debug("No recipient for event", "event_type", msg.Type, "appointment_id", evt.AppointmentID)
		return nil
	}

	m, ok := compose(msg.Type, evt)
	if !ok {
		return nil
	}
	m.To = to
	if err := n.email.Send(ctx, m); err != nil {
		return fmt.Errorf("failed to notify %s: %w", to, err)
	}
	n.logger.Info("Notification sent", "event_type", msg.Type, "appointment_id", evt.AppointmentID)
	return nil
}

func (n *Notifier) recipient(ctx context.Context, eventType string, evt model.AppointmentEvent) (string, error) {
	if eventType == model.EventAppointmentCreated {
		return n.cfg.ClinicEmail, nil
	}
	if n.patients == nil {
		return "", nil
	}
	patients, err := n.patients.GetAll(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to load patients: %w", err)
	}
	for _, p := range patients {
		if evt.PatientID != 0 && p.ID == evt.PatientID {
			return p.Email, nil
		}
	}
	for _, p := range patients {
		if evt.PatientID == 0 && strings.EqualFold(p.Name, evt.PatientName) {
			return p.Email, nil
		}
	}
	return "", nil
}

func compose(eventType string, evt model.AppointmentEvent) (email.Message, bool) {
	when := evt.DateTime.Format(dateTimeLayout)
	switch eventType {
	case model.EventAppointmentCreated:
		return email.Message{
			Subject: "New appointment request",
			Body: fmt.Sprintf("%s requested an appointment with %s on %s.\nPlease review it in the portal.",
				evt.PatientName, evt.DoctorName, when),
		}, true
	case model.EventAppointmentApproved:
		return email.Message{
			Subject: "Your appointment is confirmed",
			Body:    fmt.Sprintf("Dear %s,\n\nyour appointment with %s on %s has been approved.", evt.PatientName, evt.DoctorName, when),
		}, true
	case model.EventAppointmentCancelled:
		return email.Message{
			Subject: "Your appointment was cancelled",
			Body:    fmt.Sprintf("Dear %s,\n\nyour appointment with %s on %s has been cancelled.", evt.PatientName, evt.DoctorName, when),
		}, true
	case model.EventAppointmentCompleted:
		return email.Message{
			Subject: "Thank you for your visit",
			Body:    fmt.Sprintf("Dear %s,\n\nthank you for visiting %s on %s.", evt.PatientName, evt.DoctorName, when),
		}, true
	}
	return email.Message{}, false
}
