package appointment

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/apper-apps/mediconnect-code/internal/filter"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/service/event"
	"github.com/apper-apps/mediconnect-code/internal/store"
	"github.com/apper-apps/mediconnect-code/pkg/errors"
)

// Invalidator is told whenever appointments change.
type Invalidator interface {
	Invalidate()
}

type Service struct {
	repo        *store.Collection[model.Appointment]
	events      event.Emitter
	invalidator Invalidator
}

func NewService(repo *store.Collection[model.Appointment], events event.Emitter, invalidator Invalidator) *Service {
	if events == nil {
		events = event.Nop{}
	}
	return &Service{
		repo:        repo,
		events:      events,
		invalidator: invalidator,
	}
}

func (s *Service) ListAppointments(ctx context.Context, filters *model.AppointmentFilters) ([]model.Appointment, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	if filters == nil {
		return all, nil
	}
	if filters.PatientID > 0 {
		all = filter.AppointmentsForPatient(all, filters.PatientID)
	}
	return filter.Appointments(all, filters.Search, filters.Status), nil
}

func (s *Service) GetAppointment(ctx context.Context, id int) (model.Appointment, error) {
	return s.repo.GetByID(ctx, id)
}

// BookAppointment creates a pending appointment.
func (s *Service) BookAppointment(ctx context.Context, req *model.CreateAppointmentRequest) (model.Appointment, error) {
	if err := validateBooking(req); err != nil {
		return model.Appointment{}, err
	}

	apt, err := s.repo.Create(ctx, model.Appointment{
		PatientID:      req.PatientID,
		PatientName:    strings.TrimSpace(req.PatientName),
		DoctorName:     strings.TrimSpace(req.DoctorName),
		DateTime:       req.DateTime,
		Reason:         req.Reason,
		Specialization: req.Specialization,
	})
	if err != nil {
		return model.Appointment{}, err
	}

	s.changed(ctx, model.EventAppointmentCreated, apt)
	return apt, nil
}

func validateBooking(req *model.CreateAppointmentRequest) error {
	switch {
	case strings.TrimSpace(req.PatientName) == "":
		return errors.NewBadRequest("patient name is required", nil)
	case strings.TrimSpace(req.DoctorName) == "":
		return errors.NewBadRequest("doctor name is required", nil)
	case req.DateTime.IsZero():
		return errors.NewBadRequest("date and time are required", nil)
	}
	return nil
}

func (s *Service) ApproveAppointment(ctx context.Context, id int) (model.Appointment, error) {
	return s.setStatus(ctx, id, model.AppointmentStatusApproved)
}

// RejectAppointment cancels the appointment.
func (s *Service) RejectAppointment(ctx context.Context, id int) (model.Appointment, error) {
	return s.setStatus(ctx, id, model.AppointmentStatusCancelled)
}

func (s *Service) setStatus(ctx context.Context, id int, status model.AppointmentStatus) (model.Appointment, error) {
	apt, err := s.repo.Update(ctx, id, func(a *model.Appointment) {
		a.Status = status
	})
	if err != nil {
		return model.Appointment{}, err
	}
	s.changed(ctx, eventFor(status), apt)
	return apt, nil
}

func (s *Service) UpdateAppointment(ctx context.Context, id int, req *model.UpdateAppointmentRequest) (model.Appointment, error) {
	if req.Status != nil && !req.Status.Valid() {
		return model.Appointment{}, errors.NewBadRequest(fmt.Sprintf("invalid status %q", *req.Status), nil)
	}
	switch {
	case req.PatientName != nil && strings.TrimSpace(*req.PatientName) == "":
		return model.Appointment{}, errors.NewBadRequest("patient name is required", nil)
	case req.DoctorName != nil && strings.TrimSpace(*req.DoctorName) == "":
		return model.Appointment{}, errors.NewBadRequest("doctor name is required", nil)
	case req.DateTime != nil && req.DateTime.IsZero():
		return model.Appointment{}, errors.NewBadRequest("date and time are required", nil)
	}

	before, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Appointment{}, err
	}
	apt, err := s.repo.Update(ctx, id, req.Apply)
	if err != nil {
		return model.Appointment{}, err
	}

	if apt.Status != before.Status {
		s.changed(ctx, eventFor(apt.Status), apt)
	} else if s.invalidator != nil {
		s.invalidator.Invalidate()
	}
	return apt, nil
}

func (s *Service) DeleteAppointment(ctx context.Context, id int) error {
	apt, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.changed(ctx, model.EventAppointmentDeleted, apt)
	return nil
}

// CompletePast marks approved appointments that started before now as
// completed and returns how many changed.
func (s *Service) CompletePast(ctx context.Context, now time.Time) (int, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return 0, err
	}

	completed := 0
	for _, a := range all {
		if a.Status != model.AppointmentStatusApproved || !a.DateTime.Before(now) {
			continue
		}
		if _, err := s.setStatus(ctx, a.ID, model.AppointmentStatusCompleted); err != nil {
			if errors.IsNotFound(err) {
				continue
			}
			return completed, err
		}
		completed++
	}
	return completed, nil
}

func eventFor(status model.AppointmentStatus) string {
	switch status {
	case model.AppointmentStatusApproved:
		return model.EventAppointmentApproved
	case model.AppointmentStatusCancelled:
		return model.EventAppointmentCancelled
	case model.AppointmentStatusCompleted:
		return model.EventAppointmentCompleted
	default:
		return model.EventAppointmentUpdated
	}
}

// changed flushes cached views and emits eventType. Emit failures are logged only.
func (s *Service) changed(ctx context.Context, eventType string, apt model.Appointment) {
	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}
	if err := s.events.Emit(ctx, eventType, model.NewAppointmentEvent(apt)); err != nil {
		log.Error().
			Err(err).
			Int("appointment_id", apt.ID).
			Str("event_type", eventType).
			Msg("Failed to emit appointment event")
	}
}
