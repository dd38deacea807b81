package calendar

import (
	"fmt"
	"sort"
	"time"

	"github.com/apper-apps/mediconnect-code/internal/model"
)

// SlotPolicy decides how appointments are matched against slot labels.
type SlotPolicy string

const (
	// PolicyExact books a slot only when an appointment starts exactly at its label.
	PolicyExact SlotPolicy = "exact"
	// PolicyEnclosing also books a slot whose window contains an off-grid appointment.
	PolicyEnclosing SlotPolicy = "enclosing"
)

func (p SlotPolicy) Valid() bool {
	return p == PolicyExact || p == PolicyEnclosing
}

// SlotLength is the width of one bookable slot.
const SlotLength = 30 * time.Minute

const (
	PeriodMorning   = "morning"
	PeriodAfternoon = "afternoon"
)

var (
	MorningSlots   = []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"}
	AfternoonSlots = []string{"14:00", "14:30", "15:00", "15:30", "16:00", "16:30"}
)

// DefaultSlots returns the fixed candidate grid, morning block first.
func DefaultSlots() []string {
	out := make([]string, 0, len(MorningSlots)+len(AfternoonSlots))
	out = append(out, MorningSlots...)
	return append(out, AfternoonSlots...)
}

type Slot struct {
	Time          string `json:"time"`
	Period        string `json:"period"`
	Booked        bool   `json:"booked"`
	AppointmentID int    `json:"appointment_id,omitempty"`
}

// ParseSlot converts an "HH:mm" label to minutes since midnight.
func ParseSlot(label string) (int, error) {
	t, err := time.Parse(SlotLayout, label)
	if err != nil || len(label) != len(SlotLayout) {
		return 0, fmt.Errorf("invalid time %q, expected HH:mm", label)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func periodOf(minutes int) string {
	if minutes < 12*60 {
		return PeriodMorning
	}
	return PeriodAfternoon
}

// Slots marks each candidate label booked or free for day. Appointments on
// other days are ignored. Invalid labels are skipped.
func (e *Engine) Slots(day time.Time, appts []model.Appointment, candidates []string) []Slot {
	onDay := e.AppointmentsOn(appts, day)

	slots := make([]Slot, 0, len(candidates))
	for _, label := range candidates {
		start, err := ParseSlot(label)
		if err != nil {
			continue
		}
		slot := Slot{Time: label, Period: periodOf(start)}
		for _, a := range onDay {
			if e.books(a, label, start) {
				slot.Booked = true
				slot.AppointmentID = a.ID
				break
			}
		}
		slots = append(slots, slot)
	}
	return slots
}

func (e *Engine) books(a model.Appointment, label string, start int) bool {
	at := a.DateTime.In(e.loc)
	if at.Format(SlotLayout) == label {
		return true
	}
	if e.policy != PolicyEnclosing {
		return false
	}
	minutes := at.Hour()*60 + at.Minute()
	return minutes >= start && minutes < start+int(SlotLength/time.Minute)
}

// CandidatesFromSchedule returns the open slots of date's weekday in the
// clinic schedule. A closed or missing day offers none.
func (e *Engine) CandidatesFromSchedule(week []model.ScheduleDay, date time.Time) []string {
	weekday := WeekdayOf(date.In(e.loc))
	for _, d := range week {
		if d.Day != weekday {
			continue
		}
		if !d.IsAvailable {
			return []string{}
		}
		out := append([]string(nil), d.TimeSlots...)
		sort.Strings(out)
		return out
	}
	return []string{}
}

// WeekdayOf maps a date to the clinic weekday key.
func WeekdayOf(t time.Time) model.Weekday {
	switch t.Weekday() {
	case time.Monday:
		return model.Monday
	case time.Tuesday:
		return model.Tuesday
	case time.Wednesday:
		return model.Wednesday
	case time.Thursday:
		return model.Thursday
	case time.Friday:
		return model.Friday
	case time.Saturday:
		return model.Saturday
	default:
		return model.Sunday
	}
}
