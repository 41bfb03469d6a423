package schedule

import (
	"strings"
	"time"

	"classcal/internal/model"
	"classcal/internal/records"
)

// Classify assigns the single semantic category for one calendar date,
// scanning the sources in strict priority order and returning on the first
// match: makeup, then attendance, then schedule, then active recurring
// class. CategoryNone is the valid terminal result for a date with no
// scheduling significance.
//
// Day matching against record date strings is a prefix match on the ISO
// date portion, so both "2025-01-06" and "2025-01-06T09:00:00Z" match the
// day 2025-01-06.
func Classify(date time.Time, c records.Collections) model.Category {
	key := date.Format("2006-01-02")

	for _, m := range c.Makeups {
		if sameDay(m.MakeupDate, key) {
			return model.CategoryMakeup
		}
	}
	for _, a := range c.Attendance {
		if sameDay(a.Date, key) {
			return model.CategoryAttendance
		}
	}
	for _, s := range c.Schedules {
		if sameDay(s.Date, key) {
			return model.CategorySchedule
		}
	}
	for _, def := range c.Classes {
		if definitionCovers(def, date) {
			return model.CategoryClass
		}
	}
	return model.CategoryNone
}

func sameDay(raw, key string) bool {
	return strings.HasPrefix(strings.TrimSpace(raw), key)
}

// definitionCovers reports whether date falls inside the definition's
// inclusive [start_date, end_date] range on one of its weekdays.
func definitionCovers(def records.ClassDefinition, date time.Time) bool {
	days := ParseDaySet(def.DaysOfWeek)
	if !days.Has(date.Weekday()) {
		return false
	}

	start, ok := parseDay(def.StartDate)
	if !ok {
		return false
	}
	end, ok := parseDay(def.EndDate)
	if !ok {
		return false
	}

	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	return !day.Before(start) && !day.After(end)
}
