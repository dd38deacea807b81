// Package schedule edits the weekly clinic availability: which weekdays are
// open, their working hours and the bookable slots inside them.
package schedule

import (
	"fmt"
	"sort"

	"github.com/apper-apps/mediconnect-code/internal/calendar"
	"github.com/apper-apps/mediconnect-code/internal/model"
	"github.com/apper-apps/mediconnect-code/pkg/errors"
)

const (
	DefaultStart = "09:00"
	DefaultEnd   = "17:00"

	defaultSlotCount = 8
)

// EditorSlots is the grid of slots a doctor can open on a day.
var EditorSlots = []string{
	"09:00", "09:30", "10:00", "10:30", "11:00", "11:30", "12:00",
	"14:00", "14:30", "15:00", "15:30", "16:00", "16:30", "17:00",
}

// DefaultSlots is the subset opened when a day is switched on.
func DefaultSlots() []string {
	return append([]string(nil), EditorSlots[:defaultSlotCount]...)
}

// DefaultDay is the closed state of a weekday with no stored schedule.
func DefaultDay(day model.Weekday) model.ScheduleDay {
	return model.ScheduleDay{
		Day:       day,
		DayLabel:  day.Label(),
		StartTime: DefaultStart,
		EndTime:   DefaultEnd,
		TimeSlots: []string{},
	}
}

// Editor holds a working copy of the week keyed by weekday.
type Editor struct {
	days map[model.Weekday]model.ScheduleDay
}

// NewEditor copies week into an editor. Unknown weekdays are dropped and a
// later entry for the same weekday wins.
func NewEditor(week []model.ScheduleDay) *Editor {
	e := &Editor{days: make(map[model.Weekday]model.ScheduleDay, len(model.Weekdays))}
	for _, d := range week {
		if !d.Day.Valid() {
			continue
		}
		d = d.Clone()
		d.DayLabel = d.Day.Label()
		if d.TimeSlots == nil {
			d.TimeSlots = []string{}
		}
		sort.Strings(d.TimeSlots)
		e.days[d.Day] = d
	}
	return e
}

func (e *Editor) get(day model.Weekday) (model.ScheduleDay, error) {
	if !day.Valid() {
		return model.ScheduleDay{}, errors.NewBadRequest(fmt.Sprintf("unknown weekday %q", day), nil)
	}
	d, ok := e.days[day]
	if !ok {
		d = DefaultDay(day)
	}
	return d, nil
}

// Day returns the current state of one weekday.
func (e *Editor) Day(day model.Weekday) (model.ScheduleDay, error) {
	d, err := e.get(day)
	if err != nil {
		return d, err
	}
	return d.Clone(), nil
}

// ToggleDay flips availability. Opening a day resets its hours and slots to
// the defaults; closing keeps them.
func (e *Editor) ToggleDay(day model.Weekday) (model.ScheduleDay, error) {
	d, err := e.get(day)
	if err != nil {
		return d, err
	}

	d.IsAvailable = !d.IsAvailable
	if d.IsAvailable {
		d.StartTime = DefaultStart
		d.EndTime = DefaultEnd
		d.TimeSlots = DefaultSlots()
	}
	e.days[day] = d
	return d.Clone(), nil
}

// SetHours changes the working hours of a day.
func (e *Editor) SetHours(day model.Weekday, start, end string) (model.ScheduleDay, error) {
	d, err := e.get(day)
	if err != nil {
		return d, err
	}

	startMin, err := calendar.ParseSlot(start)
	if err != nil {
		return d, errors.NewBadRequest("invalid start time", err)
	}
	endMin, err := calendar.ParseSlot(end)
	if err != nil {
		return d, errors.NewBadRequest("invalid end time", err)
	}
	if endMin <= startMin {
		return d, errors.NewBadRequest("end time must be after start time", nil)
	}

	d.StartTime = start
	d.EndTime = end
	e.days[day] = d
	return d.Clone(), nil
}

// ToggleSlot opens or closes one slot, keeping the set sorted.
func (e *Editor) ToggleSlot(day model.Weekday, slot string) (model.ScheduleDay, error) {
	d, err := e.get(day)
	if err != nil {
		return d, err
	}
	if _, err := calendar.ParseSlot(slot); err != nil {
		return d, errors.NewBadRequest("invalid slot", err)
	}

	slots := make([]string, 0, len(d.TimeSlots)+1)
	found := false
	for _, s := range d.TimeSlots {
		if s == slot {
			found = true
			continue
		}
		slots = append(slots, s)
	}
	if !found {
		slots = append(slots, slot)
	}
	sort.Strings(slots)

	d.TimeSlots = slots
	e.days[day] = d
	return d.Clone(), nil
}

// Days returns Monday..Sunday, defaults filled in for missing days.
func (e *Editor) Days() []model.ScheduleDay {
	out := make([]model.ScheduleDay, 0, len(model.Weekdays))
	for _, day := range model.Weekdays {
		d, _ := e.get(day)
		out = append(out, d.Clone())
	}
	return out
}

// Warnings lists open slots that fall outside their day's working hours.
// A slot starting exactly at the end time counts as outside.
func (e *Editor) Warnings() []model.ScheduleWarning {
	warnings := make([]model.ScheduleWarning, 0)
	for _, d := range e.Days() {
		if !d.IsAvailable {
			continue
		}
		start, errStart := calendar.ParseSlot(d.StartTime)
		end, errEnd := calendar.ParseSlot(d.EndTime)
		if errStart != nil || errEnd != nil {
			warnings = append(warnings, model.ScheduleWarning{
				Day:     d.Day,
				Message: "working hours are not valid HH:mm times",
			})
			continue
		}
		for _, slot := range d.TimeSlots {
			m, err := calendar.ParseSlot(slot)
			if err == nil && m >= start && m < end {
				continue
			}
			warnings = append(warnings, model.ScheduleWarning{
				Day:     d.Day,
				Slot:    slot,
				Message: fmt.Sprintf("slot %s is outside %s-%s", slot, d.StartTime, d.EndTime),
			})
		}
	}
	return warnings
}
