package service

import (
	"time"

	"daily-task-portal/internal/domain"
)

// DeriveCalendarStatus maps each day (domain.DateLayout, in loc) to its status.
// A day with any incomplete task before today is Missed, even if other tasks that
// day were submitted. Days holding only open tasks from today or later are omitted.
func DeriveCalendarStatus(tasks []domain.Task, today time.Time, loc *time.Location) map[string]domain.CalendarStatus {
	if loc == nil {
		loc = time.Local
	}
	todayKey := today.In(loc).Format(domain.DateLayout)
	out := make(map[string]domain.CalendarStatus)
	for _, t := range tasks {
		day := t.Date.In(loc).Format(domain.DateLayout)
		switch {
		case !t.Completed && day < todayKey:
			out[day] = domain.CalendarMissed
		case t.Completed:
			if _, seen := out[day]; !seen {
				out[day] = domain.CalendarSubmitted
			}
		}
	}
	return out
}
