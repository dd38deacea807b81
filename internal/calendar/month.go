package calendar

import (
	"sort"
	"time"

	"github.com/apper-apps/mediconnect-code/internal/model"
)

// MonthRequest describes one render of the calendar.
type MonthRequest struct {
	Month        time.Time
	Today        time.Time
	Selected     time.Time
	Appointments []model.Appointment
	// CanBook enables the slot grid and the add-appointment affordance.
	CanBook bool
	// Candidates overrides DefaultSlots per date when set.
	Candidates func(date time.Time) []string
}

type DayCell struct {
	Date             string `json:"date"`
	Day              int    `json:"day"`
	Weekday          string `json:"weekday"`
	AppointmentCount int    `json:"appointment_count"`
	DayFlags
}

type SelectedDay struct {
	Date           string              `json:"date"`
	Appointments   []model.Appointment `json:"appointments"`
	Slots          []Slot              `json:"slots,omitempty"`
	AddAppointment bool                `json:"add_appointment"`
}

type MonthView struct {
	Month    string       `json:"month"`
	Label    string       `json:"label"`
	Previous string       `json:"previous"`
	Next     string       `json:"next"`
	Days     []DayCell    `json:"days"`
	Selected *SelectedDay `json:"selected,omitempty"`
}

// BuildMonth assembles the render-ready view of req.Month.
func (e *Engine) BuildMonth(req MonthRequest) MonthView {
	start := e.StartOfMonth(req.Month)
	days := e.MonthDays(start)
	buckets := e.BucketByDay(req.Appointments, days)

	view := MonthView{
		Month:    start.Format(MonthLayout),
		Label:    start.Format("January 2006"),
		Previous: e.NavigateMonth(start, -1).Format(MonthLayout),
		Next:     e.NavigateMonth(start, 1).Format(MonthLayout),
		Days:     make([]DayCell, 0, len(days)),
	}

	for _, d := range days {
		count := len(buckets[e.DayKey(d)])
		flags := e.Classify(d, start, req.Today, req.Selected)
		flags.HasAppointments = count > 0
		view.Days = append(view.Days, DayCell{
			Date:             e.DayKey(d),
			Day:              d.Day(),
			Weekday:          string(WeekdayOf(d)),
			AppointmentCount: count,
			DayFlags:         flags,
		})
	}

	if !req.Selected.IsZero() {
		view.Selected = e.selectedDay(req)
	}
	return view
}

func (e *Engine) selectedDay(req MonthRequest) *SelectedDay {
	appts := e.AppointmentsOn(req.Appointments, req.Selected)
	sort.SliceStable(appts, func(i, j int) bool {
		return appts[i].DateTime.Before(appts[j].DateTime)
	})

	sel := &SelectedDay{
		Date:         e.DayKey(req.Selected),
		Appointments: appts,
	}
	if req.CanBook {
		candidates := DefaultSlots()
		if req.Candidates != nil {
			candidates = req.Candidates(req.Selected)
		}
		sel.Slots = e.Slots(req.Selected, req.Appointments, candidates)
		sel.AddAppointment = len(appts) == 0
	}
	return sel
}
