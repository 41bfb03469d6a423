// Package feed serializes the unified occurrence list as an iCalendar feed
// so external calendar apps can subscribe to the reconciled schedule.
package feed

import (
	"time"

	ical "github.com/arran4/golang-ical"

	"classcal/internal/model"
	"classcal/internal/records"
	"classcal/internal/schedule"
)

const productID = "-//classcal//calendar feed//EN"

// Build serializes occurrences into an ICS payload. Each occurrence becomes
// one VEVENT keyed by the occurrence id; end times come from the resolved
// end_time when present, otherwise a one-hour default duration applies.
func Build(occurrences []model.Occurrence, now time.Time) string {
	cal := ical.NewCalendar()
	cal.SetMethod(ical.MethodPublish)
	cal.SetProductId(productID)

	for _, occ := range occurrences {
		if occ.ID == "" || occ.Timestamp.IsZero() {
			continue
		}
		ev := cal.AddEvent(occ.ID)
		ev.SetDtStampTime(now)
		ev.SetStartAt(occ.Timestamp)
		ev.SetEndAt(eventEnd(occ))
		ev.SetSummary(summary(occ))
		if occ.Category == model.CategoryMakeup {
			if m, ok := occ.Meta.Source.(records.MakeupEntry); ok && m.Reason != "" {
				ev.SetDescription(m.Reason)
			}
		}
	}

	return cal.Serialize()
}

func eventEnd(occ model.Occurrence) time.Time {
	if tod := schedule.ParseClock(occ.Meta.EndTime); tod != nil {
		ts := occ.Timestamp
		end := time.Date(ts.Year(), ts.Month(), ts.Day(), tod.Hour, tod.Minute, tod.Second, 0, ts.Location())
		if end.After(ts) {
			return end
		}
	}
	return occ.Timestamp.Add(time.Hour)
}

// summary derives a human label from the original record, falling back to
// the category name for records that carry none.
func summary(occ model.Occurrence) string {
	switch src := occ.Meta.Source.(type) {
	case records.ClassDefinition:
		if src.Name != "" {
			return src.Name
		}
	case records.ScheduleEntry:
		if src.Name != "" {
			return src.Name
		}
	case records.MakeupEntry:
		return "Makeup session"
	}
	return string(occ.Category)
}
