package model

type Weekday string

const (
	Monday    Weekday = "monday"
	Tuesday   Weekday = "tuesday"
	Wednesday Weekday = "wednesday"
	Thursday  Weekday = "thursday"
	Friday    Weekday = "friday"
	Saturday  Weekday = "saturday"
	Sunday    Weekday = "sunday"
)

// Weekdays lists the clinic week in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday, Saturday, Sunday}

var weekdayLabels = map[Weekday]string{
	Monday:    "Monday",
	Tuesday:   "Tuesday",
	Wednesday: "Wednesday",
	Thursday:  "Thursday",
	Friday:    "Friday",
	Saturday:  "Saturday",
	Sunday:    "Sunday",
}

func (d Weekday) Label() string { return weekdayLabels[d] }

func (d Weekday) Valid() bool {
	_, ok := weekdayLabels[d]
	return ok
}

type ScheduleDay struct {
	ID          int      `json:"id"`
	Day         Weekday  `json:"day"`
	DayLabel    string   `json:"day_label"`
	IsAvailable bool     `json:"is_available"`
	StartTime   string   `json:"start_time"`
	EndTime     string   `json:"end_time"`
	TimeSlots   []string `json:"time_slots"`
}

func (s ScheduleDay) GetID() int { return s.ID }

func (s ScheduleDay) WithID(id int) ScheduleDay {
	s.ID = id
	return s
}

func (s ScheduleDay) Clone() ScheduleDay {
	s.TimeSlots = append([]string(nil), s.TimeSlots...)
	return s
}

type SetHoursRequest struct {
	StartTime string `json:"start_time" binding:"required,hhmm"`
	EndTime   string `json:"end_time" binding:"required,hhmm"`
}

type SaveScheduleRequest struct {
	Days []ScheduleDay `json:"days" binding:"required,dive"`
}

type ScheduleWarning struct {
	Day     Weekday `json:"day"`
	Slot    string  `json:"slot"`
	Message string  `json:"message"`
}
