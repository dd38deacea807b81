// Package calendar computes month grids, per-day appointment buckets and
// booked/free slot views for the appointment calendar.
package calendar

import (
	"fmt"
	"time"

	"github.com/apper-apps/mediconnect-code/internal/model"
)

const (
	MonthLayout = "2006-01"
	DayLayout   = "2006-01-02"
	SlotLayout  = "15:04"
)

// Engine evaluates calendar dates in a fixed location.
type Engine struct {
	loc    *time.Location
	policy SlotPolicy
}

func New(loc *time.Location, policy SlotPolicy) *Engine {
	if loc == nil {
		loc = time.Local
	}
	if policy == "" {
		policy = PolicyExact
	}
	return &Engine{loc: loc, policy: policy}
}

func (e *Engine) Location() *time.Location { return e.loc }

func (e *Engine) Policy() SlotPolicy { return e.policy }

// StartOfMonth returns midnight on the first day of t's month.
func (e *Engine) StartOfMonth(t time.Time) time.Time {
	t = t.In(e.loc)
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, e.loc)
}

// StartOfDay returns midnight of t's calendar day.
func (e *Engine) StartOfDay(t time.Time) time.Time {
	t = t.In(e.loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, e.loc)
}

// MonthDays lists every date of ref's month, from the 1st to the last day.
func (e *Engine) MonthDays(ref time.Time) []time.Time {
	start := e.StartOfMonth(ref)
	next := start.AddDate(0, 1, 0)

	days := make([]time.Time, 0, 31)
	for d := start; d.Before(next); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// NavigateMonth moves delta whole months from ref and returns the first day
// of the target month.
func (e *Engine) NavigateMonth(ref time.Time, delta int) time.Time {
	return e.StartOfMonth(ref).AddDate(0, delta, 0)
}

// ParseMonth reads a "YYYY-MM" month.
func (e *Engine) ParseMonth(s string) (time.Time, error) {
	t, err := time.ParseInLocation(MonthLayout, s, e.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid month %q, expected YYYY-MM: %w", s, err)
	}
	return t, nil
}

// ParseDay reads a "YYYY-MM-DD" date.
func (e *Engine) ParseDay(s string) (time.Time, error) {
	t, err := time.ParseInLocation(DayLayout, s, e.loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD: %w", s, err)
	}
	return t, nil
}

// SameDay reports whether a and b fall on the same calendar date.
func (e *Engine) SameDay(a, b time.Time) bool {
	a, b = a.In(e.loc), b.In(e.loc)
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

func (e *Engine) DayKey(t time.Time) string {
	return t.In(e.loc).Format(DayLayout)
}

// AppointmentsOn keeps the appointments scheduled on day, in input order.
func (e *Engine) AppointmentsOn(appts []model.Appointment, day time.Time) []model.Appointment {
	out := make([]model.Appointment, 0)
	for _, a := range appts {
		if e.SameDay(a.DateTime, day) {
			out = append(out, a)
		}
	}
	return out
}

// BucketByDay groups appointments by day key. Every day in days gets an
// entry; appointments outside days are dropped.
func (e *Engine) BucketByDay(appts []model.Appointment, days []time.Time) map[string][]model.Appointment {
	buckets := make(map[string][]model.Appointment, len(days))
	for _, d := range days {
		buckets[e.DayKey(d)] = []model.Appointment{}
	}
	for _, a := range appts {
		key := e.DayKey(a.DateTime)
		if bucket, ok := buckets[key]; ok {
			buckets[key] = append(bucket, a)
		}
	}
	return buckets
}

// DayFlags are independent render classifications of one date.
type DayFlags struct {
	CurrentMonth    bool `json:"current_month"`
	Today           bool `json:"today"`
	Selected        bool `json:"selected"`
	HasAppointments bool `json:"has_appointments"`
}

// Classify flags date against the reference month, today and the selected
// date. selected may be zero. HasAppointments is left for the caller.
func (e *Engine) Classify(date, ref, today, selected time.Time) DayFlags {
	d, r := date.In(e.loc), ref.In(e.loc)
	return DayFlags{
		CurrentMonth: d.Year() == r.Year() && d.Month() == r.Month(),
		Today:        e.SameDay(date, today),
		Selected:     !selected.IsZero() && e.SameDay(date, selected),
	}
}
