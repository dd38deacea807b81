package prescription

import (
	"context"
	"fmt"
	"strings"

	"github.com/apper-apps/mediconnect-code/internal/filter"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/store"
	"github.com/apper-apps/mediconnect-code/pkg/errors"
)

type Service struct {
	repo          *store.Collection[model.Prescription]
	defaultDoctor string
}

func NewService(repo *store.Collection[model.Prescription], defaultDoctor string) *Service {
	return &Service{repo: repo, defaultDoctor: defaultDoctor}
}

func (s *Service) ListPrescriptions(ctx context.Context, search string) ([]model.Prescription, error) {
	all, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return filter.Prescriptions(all, search), nil
}

func (s *Service) GetPrescription(ctx context.Context, id int) (model.Prescription, error) {
	return s.repo.GetByID(ctx, id)
}

// CreatePrescription stores a prescription. A template prefills medications
// when none are given and instructions when they are blank.
func (s *Service) CreatePrescription(ctx context.Context, req *model.CreatePrescriptionRequest) (model.Prescription, error) {
	p := model.Prescription{
		AppointmentID: req.AppointmentID,
		PatientName:   strings.TrimSpace(req.PatientName),
		DoctorName:    strings.TrimSpace(req.DoctorName),
		Medications:   append([]model.Medication(nil), req.Medications...),
		Instructions:  req.Instructions,
	}
	if p.DoctorName == "" {
		p.DoctorName = s.defaultDoctor
	}

	if req.Template != "" {
		tmpl, ok := Template(req.Template)
		if !ok {
			return model.Prescription{}, errors.NewBadRequest(fmt.Sprintf("unknown template %q", req.Template), nil)
		}
		if len(p.Medications) == 0 {
			p.Medications = tmpl.Medications
		}
		if strings.TrimSpace(p.Instructions) == "" {
			p.Instructions = tmpl.Instructions
		}
		p.TemplateUsed = tmpl.Label
	}

	if err := validate(p); err != nil {
		return model.Prescription{}, err
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) UpdatePrescription(ctx context.Context, id int, req *model.UpdatePrescriptionRequest) (model.Prescription, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return model.Prescription{}, err
	}
	req.Apply(&current)
	if err := validate(current); err != nil {
		return model.Prescription{}, err
	}
	return s.repo.Update(ctx, id, req.Apply)
}

func (s *Service) DeletePrescription(ctx context.Context, id int) error {
	return s.repo.Delete(ctx, id)
}

func validate(p model.Prescription) error {
	if strings.TrimSpace(p.PatientName) == "" {
		return errors.NewBadRequest("patient name is required", nil)
	}
	if len(p.Medications) == 0 {
		return errors.NewBadRequest("at least one medication is required", nil)
	}
	for i, m := range p.Medications {
		if strings.TrimSpace(m.Name) == "" {
			return errors.NewBadRequest(fmt.Sprintf("medication %d name is required", i+1), nil)
		}
	}
	return nil
}
