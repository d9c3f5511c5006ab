package model

import (
	"time"
)

// Weekdays lists the seven day names a WorkSchedule must cover, in display
// order starting from Monday. The names match time.Weekday.String().
var Weekdays = []string{
	"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday",
}

// DayWindow is a staff member's availability window on one weekday. Empty
// start and end times mean the staff member does not work that day.
type DayWindow struct {
	Day       string `json:"day" bson:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime string `json:"start_time" bson:"start_time" validate:"hhmm_or_empty"`
	EndTime   string `json:"end_time" bson:"end_time" validate:"hhmm_or_empty"`
}

// Working reports whether the window describes an actual working day.
func (w DayWindow) Working() bool {
	return w.StartTime != "" && w.EndTime != ""
}

// WorkSchedule holds a staff member's recurring weekly availability. There is
// at most one schedule document per staff account; updates replace the whole
// days collection.
type WorkSchedule struct {
	ID        string      `json:"id,omitempty" bson:"_id,omitempty" validate:"omitempty,mongodb"`
	StaffID   string      `json:"staff_id" bson:"staff_id" validate:"required,mongodb"`
	Days      []DayWindow `json:"days" bson:"days" validate:"required,len=7,dive"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at" validate:"omitempty"`
}

// Window returns the day entry for the given weekday name, if present.
func (ws *WorkSchedule) Window(day string) (DayWindow, bool) {
	for _, w := range ws.Days {
		if w.Day == day {
			return w, true
		}
	}
	return DayWindow{}, false
}

// NewDefaultWorkSchedule builds the schedule auto-created at staff
// registration: all seven weekdays present, none of them working yet.
func NewDefaultWorkSchedule(staffID string) *WorkSchedule {
	days := make([]DayWindow, 0, len(Weekdays))
	for _, d := range Weekdays {
		days = append(days, DayWindow{Day: d})
	}
	return &WorkSchedule{StaffID: staffID, Days: days}
}

// DayWindowInput is the update shape for a single weekday. Nil start or end
// means "apply the default working hours"; an explicit empty string marks the
// day as not working.
type DayWindowInput struct {
	Day       string  `json:"day" validate:"required,oneof=Monday Tuesday Wednesday Thursday Friday Saturday Sunday"`
	StartTime *string `json:"start_time,omitempty"`
	EndTime   *string `json:"end_time,omitempty"`
}
