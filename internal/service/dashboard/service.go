// Package dashboard assembles the landing view for the active role.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/apper-apps/mediconnect-code/internal/calendar"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/internal/store"
)

const (
	upcomingLimit = 3
	recentLimit   = 3
)

type StatCard struct {
	Title string `json:"title"`
	Value int    `json:"value"`
	Icon  string `json:"icon"`
	Color string `json:"color"`
}

type View struct {
	Role                 model.Role           `json:"role"`
	Stats                []StatCard           `json:"stats"`
	TodayAppointments    []model.Appointment  `json:"today_appointments"`
	UpcomingAppointments []model.Appointment  `json:"upcoming_appointments"`
	RecentPrescriptions  []model.Prescription `json:"recent_prescriptions"`
}

type Service struct {
	appointments  *store.Collection[model.Appointment]
	prescriptions *store.Collection[model.Prescription]
	engine        *calendar.Engine
	now           func() time.Time
}

func NewService(
	appointments *store.Collection[model.Appointment],
	prescriptions *store.Collection[model.Prescription],
	engine *calendar.Engine,
) *Service {
	return &Service{
		appointments:  appointments,
		prescriptions: prescriptions,
		engine:        engine,
		now:           time.Now,
	}
}

// Get loads appointments and prescriptions in parallel and builds the view.
func (s *Service) Get(ctx context.Context, r model.Role) (View, error) {
	var (
		appts []model.Appointment
		rxs   []model.Prescription
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		appts, err = s.appointments.GetAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to load appointments: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		rxs, err = s.prescriptions.GetAll(gctx)
		if err != nil {
			return fmt.Errorf("failed to load prescriptions: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return View{}, err
	}

	return s.Build(r, appts, rxs, s.now()), nil
}

// Build is the pure part of Get.
func (s *Service) Build(r model.Role, appts []model.Appointment, rxs []model.Prescription, now time.Time) View {
	today := s.engine.AppointmentsOn(appts, now)
	return View{
		Role:                 r,
		Stats:                stats(r, appts, rxs, len(today)),
		TodayAppointments:    today,
		UpcomingAppointments: upcoming(appts, now),
		RecentPrescriptions:  recent(rxs),
	}
}

func stats(r model.Role, appts []model.Appointment, rxs []model.Prescription, today int) []StatCard {
	pending := countStatus(appts, model.AppointmentStatusPending)
	completed := countStatus(appts, model.AppointmentStatusCompleted)

	if r == model.RoleDoctor {
		return []StatCard{
			{Title: "Today's Appointments", Value: today, Icon: "Calendar", Color: "primary"},
			{Title: "Pending Approvals", Value: pending, Icon: "Clock", Color: "warning"},
			{Title: "Patients Seen", Value: completed, Icon: "Users", Color: "success"},
			{Title: "Prescriptions Issued", Value: len(rxs), Icon: "Pill", Color: "purple"},
		}
	}
	return []StatCard{
		{Title: "Total Appointments", Value: len(appts), Icon: "Calendar", Color: "primary"},
		{Title: "Pending Appointments", Value: pending, Icon: "Clock", Color: "warning"},
		{Title: "Completed Visits", Value: completed, Icon: "CheckCircle", Color: "success"},
		{Title: "Active Prescriptions", Value: len(rxs), Icon: "Pill", Color: "purple"},
	}
}

func countStatus(appts []model.Appointment, status model.AppointmentStatus) int {
	n := 0
	for _, a := range appts {
		if a.Status == status {
			n++
		}
	}
	return n
}

func upcoming(appts []model.Appointment, now time.Time) []model.Appointment {
	out := make([]model.Appointment, 0, upcomingLimit)
	for _, a := range appts {
		if a.DateTime.After(now) {
			out = append(out, a)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].DateTime.Before(out[j].DateTime) })
	if len(out) > upcomingLimit {
		out = out[:upcomingLimit]
	}
	return out
}

func recent(rxs []model.Prescription) []model.Prescription {
	out := append([]model.Prescription(nil), rxs...)
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if len(out) > recentLimit {
		out = out[:recentLimit]
	}
	if out == nil {
		out = []model.Prescription{}
	}
	return out
}
