package schedule

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/schedule"
	"github.com/apper-apps/mediconnect-code/internal/store"
	"github.com/apper-apps/mediconnect-code/pkg/errors"
)

// Invalidator is told whenever the stored week changes.
type Invalidator interface {
	Invalidate()
}

// Week is a saved schedule together with any slots outside working hours.
type Week struct {
	Days     []model.ScheduleDay     `json:"days"`
	Warnings []model.ScheduleWarning `json:"warnings"`
}

type Service struct {
	repo        *store.Collection[model.ScheduleDay]
	invalidator Invalidator
}

func NewService(repo *store.Collection[model.ScheduleDay], invalidator Invalidator) *Service {
	return &Service{repo: repo, invalidator: invalidator}
}

func (s *Service) editor(ctx context.Context) (*schedule.Editor, error) {
	days, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load schedule: %w", err)
	}
	return schedule.NewEditor(days), nil
}

// GetWeek returns Monday..Sunday with defaults for days never saved.
func (s *Service) GetWeek(ctx context.Context) (Week, error) {
	ed, err := s.editor(ctx)
	if err != nil {
		return Week{}, err
	}
	return Week{Days: ed.Days(), Warnings: ed.Warnings()}, nil
}

// SaveWeek stores each submitted day under its weekday. Days not submitted
// keep their stored value.
func (s *Service) SaveWeek(ctx context.Context, req *model.SaveScheduleRequest) (Week, error) {
	for _, d := range req.Days {
		if !d.Day.Valid() {
			return Week{}, errors.NewBadRequest(fmt.Sprintf("unknown weekday %q", d.Day), nil)
		}
	}

	submitted := schedule.NewEditor(req.Days)
	for _, d := range req.Days {
		day, err := submitted.Day(d.Day)
		if err != nil {
			return Week{}, err
		}
		if err := s.upsert(ctx, day); err != nil {
			return Week{}, err
		}
	}

	s.changed()
	return s.GetWeek(ctx)
}

// ToggleDay opens or closes a weekday and persists it.
func (s *Service) ToggleDay(ctx context.Context, day model.Weekday) (model.ScheduleDay, error) {
	return s.edit(ctx, func(ed *schedule.Editor) (model.ScheduleDay, error) {
		return ed.ToggleDay(day)
	})
}

func (s *Service) ToggleSlot(ctx context.Context, day model.Weekday, slot string) (model.ScheduleDay, error) {
	return s.edit(ctx, func(ed *schedule.Editor) (model.ScheduleDay, error) {
		return ed.ToggleSlot(day, slot)
	})
}

func (s *Service) SetHours(ctx context.Context, day model.Weekday, req *model.SetHoursRequest) (model.ScheduleDay, error) {
	return s.edit(ctx, func(ed *schedule.Editor) (model.ScheduleDay, error) {
		return ed.SetHours(day, req.StartTime, req.EndTime)
	})
}

func (s *Service) edit(ctx context.Context, op func(*schedule.Editor) (model.ScheduleDay, error)) (model.ScheduleDay, error) {
	ed, err := s.editor(ctx)
	if err != nil {
		return model.ScheduleDay{}, err
	}
	day, err := op(ed)
	if err != nil {
		return model.ScheduleDay{}, err
	}
	if err := s.upsert(ctx, day); err != nil {
		return model.ScheduleDay{}, err
	}
	s.changed()

	stored, err := s.editor(ctx)
	if err != nil {
		return model.ScheduleDay{}, err
	}
	return stored.Day(day.Day)
}

func (s *Service) upsert(ctx context.Context, day model.ScheduleDay) error {
	_, created, err := s.repo.Upsert(ctx, func(existing model.ScheduleDay) bool {
		return existing.Day == day.Day
	}, day)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", day.Day, err)
	}
	log.Debug().Str("day", string(day.Day)).Bool("created", created).Msg("Schedule day saved")
	return nil
}

func (s *Service) changed() {
	if s.invalidator != nil {
		s.invalidator.Invalidate()
	}
}
