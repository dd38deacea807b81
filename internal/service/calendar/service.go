package calendar

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/apper-apps/mediconnect-code/internal/calendar"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/role"
	"github.com/apper-apps/mediconnect-code/internal/store"
	"github.com/apper-apps/mediconnect-code/pkg/errors"
	"github.com/apper-apps/mediconnect-code/pkg/metrics"
)

type Config struct {
	// UseClinicSchedule derives candidate slots from the weekly schedule.
	UseClinicSchedule bool
	CacheTTL          time.Duration
}

// MonthQuery selects a month view. Empty Month means the current month.
type MonthQuery struct {
	Month    string
	Selected string
	Role     model.Role
}

type Service struct {
	appointments *store.Collection[model.Appointment]
	schedule     *store.Collection[model.ScheduleDay]
	engine       *calendar.Engine
	cache        *calendar.Cache
	metrics      *metrics.Metrics
	config       Config
	now          func() time.Time
	// generation advances on every Invalidate. Views built across a bump are not cached.
	generation atomic.Uint64
}

func NewService(
	appointments *store.Collection[model.Appointment],
	schedule *store.Collection[model.ScheduleDay],
	engine *calendar.Engine,
	config Config,
	m *metrics.Metrics,
) *Service {
	s := &Service{
		appointments: appointments,
		schedule:     schedule,
		engine:       engine,
		metrics:      m,
		config:       config,
		now:          time.Now,
	}
	if config.CacheTTL > 0 {
		s.cache = calendar.NewCache(config.CacheTTL)
	}
	return s
}

// Invalidate drops cached month views.
func (s *Service) Invalidate() {
	s.generation.Add(1)
	if s.cache != nil {
		s.cache.Invalidate()
	}
}

// Month renders one calendar month for the given role.
func (s *Service) Month(ctx context.Context, q MonthQuery) (calendar.MonthView, error) {
	now := s.now()

	month := s.engine.StartOfMonth(now)
	if q.Month != "" {
		parsed, err := s.engine.ParseMonth(q.Month)
		if err != nil {
			return calendar.MonthView{}, errors.NewBadRequest(err.Error(), err)
		}
		month = parsed
	}

	var selected time.Time
	if q.Selected != "" {
		parsed, err := s.engine.ParseDay(q.Selected)
		if err != nil {
			return calendar.MonthView{}, errors.NewBadRequest(err.Error(), err)
		}
		selected = parsed
	}

	canBook := role.Can(q.Role, role.BookAppointment)
	// Today flags change at midnight, so the key carries the current date.
	key := calendar.Key(month.Format(calendar.MonthLayout), canBook, q.Selected) + "|" + s.engine.DayKey(now)
	if s.cache != nil {
		if view, ok := s.cache.Get(key); ok {
			s.observeCache(true)
			return view, nil
		}
		s.observeCache(false)
	}
	gen := s.generation.Load()

	appts, err := s.appointments.GetAll(ctx)
	if err != nil {
		return calendar.MonthView{}, err
	}

	req := calendar.MonthRequest{
		Month:        month,
		Today:        now,
		Selected:     selected,
		Appointments: appts,
		CanBook:      canBook,
	}
	if s.config.UseClinicSchedule && canBook && !selected.IsZero() {
		week, err := s.schedule.GetAll(ctx)
		if err != nil {
			return calendar.MonthView{}, err
		}
		req.Candidates = func(date time.Time) []string {
			return s.engine.CandidatesFromSchedule(week, date)
		}
	}

	view := s.engine.BuildMonth(req)
	if s.cache != nil && s.generation.Load() == gen {
		s.cache.Set(key, view)
	}
	return view, nil
}

func (s *Service) observeCache(hit bool) {
	if s.metrics == nil {
		return
	}
	if hit {
		s.metrics.CalendarCacheHits.Inc()
		return
	}
	s.metrics.CalendarCacheMisses.Inc()
}
