package patient

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/apper-apps/mediconnect-code/internal/filter"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/store"
	"github.com/apper-apps/mediconnect-code/pkg/errors"
)

type PatientService interface {
	ListPatients(ctx context.Context, search string) ([]model.Patient, error)
	GetPatient(ctx context.Context, id int) (model.Patient, error)
	CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (model.Patient, error)
	UpdatePatient(ctx context.Context, id int, req *model.UpdatePatientRequest) (model.Patient, error)
	DeletePatient(ctx context.Context, id int) error
	GetHistory(ctx context.Context, id int) (model.PatientHistory, error)
}

type Service struct {
	repo            *store.Collection[model.Patient]
	appointmentRepo *store.Collection[model.Appointment]
	now             func() time.Time
}

func NewService(repo *store.Collection[model.Patient], appointmentRepo *store.Collection[model.Appointment]) *Service {
	return &Service{
		repo:            repo,
		appointmentRepo: appointmentRepo,
		now:             time.Now,
	}
}

func (s *Service) ListPatients(ctx context.Context, search string) ([]model.Patient, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return filter.Patients(all, search), nil
}

func (s *Service) GetPatient(ctx context.Context, id int) (model.Patient, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) CreatePatient(ctx context.Context, req *model.CreatePatientRequest) (model.Patient, error) {
	p := req.ToPatient()
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return model.Patient{}, errors.NewBadRequest("patient name is required", nil)
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) UpdatePatient(ctx context.Context, id int, req *model.UpdatePatientRequest) (model.Patient, error) {
	if req.Name != nil && strings.TrimSpace(*req.Name) == "" {
		return model.Patient{}, errors.NewBadRequest("patient name is required", nil)
	}
	return s.repo.Update(ctx, id, req.Apply)
}

func (s *Service) DeletePatient(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

// GetHistory returns the patient with their appointments, newest first.
// Appointments booked without a patient id are matched by name.
func (s *Service) GetHistory(ctx context.Context, id int) (model.PatientHistory, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.PatientHistory{}, err
	}
	all, err := s.appointmentRepo.GetAll(ctx)
	if err != nil {
		return model.PatientHistory{}, err
	}

	appts := make([]model.Appointment, 0)
	for _, a := range all {
		if a.PatientID == id || (a.PatientID == 0 && strings.EqualFold(a.PatientName, p.Name)) {
			appts = append(appts, a)
		}
	}
	sortNewestFirst(appts)

	return model.PatientHistory{
		Patient:      p,
		Appointments: appts,
		Stats:        Stats(appts, s.now()),
	}, nil
}

// Stats counts total, completed and upcoming (approved, in the future) appointments.
func Stats(appts []model.Appointment, now time.Time) model.PatientStats {
	stats := model.PatientStats{Total: len(appts)}
	for _, a := range appts {
		switch {
		case a.Status == model.AppointmentStatusCompleted:
			stats.Completed++
		case a.Status == model.AppointmentStatusApproved && a.DateTime.After(now):
			stats.Upcoming++
		}
	}
	return stats
}

func sortNewestFirst(appts []model.Appointment) {
	sort.SliceStable(appts, func(i, j int) bool {
		return appts[i].DateTime.After(appts[j].DateTime)
	})
}
