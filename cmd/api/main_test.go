package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/apper-apps/mediconnect-code/internal/calendar"
)

func TestDayCell_FixedWidth(t *testing.T) {
	cells := []calendar.DayCell{
		{Day: 1},
		{Day: 15, AppointmentCount: 3},
		{Day: 22, AppointmentCount: 12},
		{Day: 9, DayFlags: calendar.DayFlags{Today: true}},
	}
	for _, d := range cells {
		assert.Len(t, dayCell(d), 4, "day %d", d.Day)
	}
	assert.Equal(t, "22*+", dayCell(cells[2]))
	assert.Equal(t, "15*3", dayCell(cells[1]))
}

func TestPrintMonth_RowsAligned(t *testing.T) {
	weekdays := []string{"friday", "saturday", "sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday"}
	view := calendar.MonthView{Label: "March 2024"}
	for i, wd := range weekdays {
		view.Days = append(view.Days, calendar.DayCell{Day: i + 1, Weekday: wd})
	}
	view.Days[3].AppointmentCount = 14

	var buf bytes.Buffer
	printMonth(&buf, view)

	lines := strings.Split(buf.String(), "\n")
	require.GreaterOrEqual(t, len(lines), 4)
	assert.Len(t, lines[2], 35)
	assert.Len(t, lines[3], 35)
	assert.Contains(t, lines[3], " 4*+")
}
