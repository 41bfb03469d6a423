package schedule

import (
	"strings"
	"time"

	"github.com/teambition/rrule-go"

	appLog "classcal/internal/log"
	"classcal/internal/records"
)

// rruleWeekdays maps time.Weekday (Sunday-first) onto rrule BYDAY values.
var rruleWeekdays = [7]rrule.Weekday{
	rrule.SU, rrule.MO, rrule.TU, rrule.WE, rrule.TH, rrule.FR, rrule.SA,
}

// Instance is one concrete occurrence of a recurring class definition, as
// produced by Expand and before normalization into a model.Occurrence.
type Instance struct {
	// ID is "{definitionID}_{YYYYMMDD}", unique per definition and day.
	ID string
	// Timestamp is the occurrence's local wall-clock start.
	Timestamp time.Time
	// Definition is the owning recurring definition, unmodified.
	Definition records.ClassDefinition
}

// Expand produces the concrete date-time instances a recurring class
// definition implies: one per calendar date between StartDate and EndDate
// (both inclusive) whose weekday appears in DaysOfWeek, stamped with the
// parsed StartTime (midnight when absent), ascending by date.
//
// Every degenerate input — missing or unparseable dates, StartDate after
// EndDate, an empty resolved weekday set — yields an empty result, never an
// error: one bad definition must not abort the batch.
func Expand(def records.ClassDefinition) []Instance {
	days := ParseDaySet(def.DaysOfWeek)
	if days.Empty() {
		return nil
	}

	start, ok := parseDay(def.StartDate)
	if !ok {
		return nil
	}
	end, ok := parseDay(def.EndDate)
	if !ok || end.Before(start) {
		return nil
	}

	at := clockOrMidnight(def.StartTime)

	var byday []rrule.Weekday
	for _, d := range days.Weekdays() {
		byday = append(byday, rruleWeekdays[d])
	}

	rule, err := rrule.NewRRule(rrule.ROption{
		Freq:      rrule.WEEKLY,
		Dtstart:   time.Date(start.Year(), start.Month(), start.Day(), at.Hour, at.Minute, at.Second, 0, time.Local),
		Until:     time.Date(end.Year(), end.Month(), end.Day(), 23, 59, 59, 0, time.Local),
		Byweekday: byday,
	})
	if err != nil {
		appLog.Error("expand: building recurrence rule failed", err, "definition_id", def.ID)
		return nil
	}

	times := rule.All()
	out := make([]Instance, 0, len(times))
	for _, ts := range times {
		out = append(out, Instance{
			ID:         def.ID + "_" + ts.Format("20060102"),
			Timestamp:  ts,
			Definition: def,
		})
	}
	return out
}

// parseDay parses the calendar-day portion of a date string. Full ISO
// timestamps are accepted by reading only their leading "YYYY-MM-DD".
func parseDay(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if len(s) > 10 {
		s = s[:10]
	}
	t, err := time.ParseInLocation("2006-01-02", s, time.Local)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
