package schedule

import (
	"fmt"
	"time"

	"classcal/internal/model"
	"classcal/internal/records"
)

// Overrides are caller-supplied global display values. A non-zero override
// always wins over the per-record value; callbacks can only arrive this way,
// since the JSON boundary cannot carry functions.
type Overrides struct {
	Style   string
	OnClick func(id, dateKey string)
	OnHover func(id string) string
}

// firstNonEmpty is the fallback-chain policy used for id and time-field
// resolution: candidates are evaluated in order and the first present value
// wins.
func firstNonEmpty(candidates ...string) string {
	for _, c := range candidates {
		if c != "" {
			return c
		}
	}
	return ""
}

// resolveTime picks a canonical time string from the accepted spellings, in
// order: snake_case, camelCase, then the same pair nested under meta.
func resolveTime(snake, camel string, meta *records.EmbeddedMeta, start bool) string {
	metaSnake, metaCamel := "", ""
	if meta != nil {
		if start {
			metaSnake, metaCamel = meta.StartTimeSnake, meta.StartTimeCamel
		} else {
			metaSnake, metaCamel = meta.EndTimeSnake, meta.EndTimeCamel
		}
	}
	return firstNonEmpty(snake, camel, metaSnake, metaCamel)
}

// resolveID picks a record identity: explicit id, then either class-id
// spelling, then the nested meta id, and finally the date-derived key.
func resolveID(id, classIDSnake, classIDCamel string, meta *records.EmbeddedMeta, dateKey string) string {
	metaID := ""
	if meta != nil {
		metaID = meta.ID
	}
	return firstNonEmpty(id, classIDSnake, classIDCamel, metaID, dateKey)
}

func resolveStyle(perRecord string, ov Overrides) string {
	if ov.Style != "" {
		return ov.Style
	}
	return perRecord
}

// dayKey renders a date-derived identity key ("2025-1-6", unpadded).
func dayKey(t time.Time) string {
	return fmt.Sprintf("%d-%d-%d", t.Year(), int(t.Month()), t.Day())
}

// datedRecord is the common projection of the three one-off record kinds
// (schedule, attendance, makeup); each kind maps its own spellings into it
// before the shared normalization step.
type datedRecord struct {
	source   any
	category model.Category
	dateRaw  string

	id           string
	classIDSnake string
	classIDCamel string
	meta         *records.EmbeddedMeta

	startSnake, startCamel string
	endSnake, endCamel     string

	style string
}

// normalizeDated turns a projected record into an Occurrence. The record is
// dropped (ok == false) when its calendar day cannot be parsed; identity is
// always resolvable after that point because the date key serves as the
// final fallback.
func normalizeDated(r datedRecord, ov Overrides) (model.Occurrence, bool) {
	base, ok := parseDay(r.dateRaw)
	if !ok {
		return model.Occurrence{}, false
	}

	startRaw := resolveTime(r.startSnake, r.startCamel, r.meta, true)
	endRaw := resolveTime(r.endSnake, r.endCamel, r.meta, false)

	ts := base
	if tod := ParseClock(startRaw); tod != nil {
		ts = time.Date(base.Year(), base.Month(), base.Day(), tod.Hour, tod.Minute, tod.Second, 0, time.Local)
	}

	return model.Occurrence{
		ID:           resolveID(r.id, r.classIDSnake, r.classIDCamel, r.meta, dayKey(base)),
		Timestamp:    ts,
		Category:     r.category,
		StartDisplay: displayTime(startRaw),
		EndDisplay:   displayTime(endRaw),
		Style:        resolveStyle(r.style, ov),
		OnClick:      ov.OnClick,
		OnHover:      ov.OnHover,
		Meta: model.Meta{
			Source:    r.source,
			StartTime: startRaw,
			EndTime:   endRaw,
		},
	}, true
}

// NormalizeInstances converts expanded class instances into unified
// occurrences. Instance ids are already date-namespaced by Expand, keeping
// repeated occurrences of one definition distinct.
func NormalizeInstances(instances []Instance, ov Overrides) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(instances))
	for _, in := range instances {
		if in.ID == "" || in.Timestamp.IsZero() {
			continue
		}
		def := in.Definition
		out = append(out, model.Occurrence{
			ID:           in.ID,
			Timestamp:    in.Timestamp,
			Category:     model.CategoryClass,
			StartDisplay: displayTime(def.StartTime),
			EndDisplay:   displayTime(def.EndTime),
			Style:        resolveStyle(def.Style, ov),
			OnClick:      ov.OnClick,
			OnHover:      ov.OnHover,
			Meta: model.Meta{
				Source:    def,
				StartTime: def.StartTime,
				EndTime:   def.EndTime,
			},
		})
	}
	return out
}

// NormalizeSchedules converts one-off schedule entries, preserving input order.
func NormalizeSchedules(entries []records.ScheduleEntry, ov Overrides) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(entries))
	for _, e := range entries {
		occ, ok := normalizeDated(datedRecord{
			source:       e,
			category:     model.CategorySchedule,
			dateRaw:      e.Date,
			id:           e.ID,
			classIDSnake: e.ClassIDSnake,
			classIDCamel: e.ClassIDCamel,
			meta:         e.Meta,
			startSnake:   e.StartTimeSnake,
			startCamel:   e.StartTimeCamel,
			endSnake:     e.EndTimeSnake,
			endCamel:     e.EndTimeCamel,
			style:        e.Style,
		}, ov)
		if ok {
			out = append(out, occ)
		}
	}
	return out
}

// NormalizeAttendance converts attendance entries, preserving input order.
func NormalizeAttendance(entries []records.AttendanceEntry, ov Overrides) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(entries))
	for _, e := range entries {
		occ, ok := normalizeDated(datedRecord{
			source:       e,
			category:     model.CategoryAttendance,
			dateRaw:      e.Date,
			id:           e.ID,
			classIDSnake: e.ClassIDSnake,
			classIDCamel: e.ClassIDCamel,
			meta:         e.Meta,
			startSnake:   e.StartTimeSnake,
			startCamel:   e.StartTimeCamel,
			endSnake:     e.EndTimeSnake,
			endCamel:     e.EndTimeCamel,
			style:        e.Style,
		}, ov)
		if ok {
			out = append(out, occ)
		}
	}
	return out
}

// NormalizeMakeups converts makeup entries, whose calendar day lives in
// makeup_date, preserving input order.
func NormalizeMakeups(entries []records.MakeupEntry, ov Overrides) []model.Occurrence {
	out := make([]model.Occurrence, 0, len(entries))
	for _, e := range entries {
		occ, ok := normalizeDated(datedRecord{
			source:       e,
			category:     model.CategoryMakeup,
			dateRaw:      e.MakeupDate,
			id:           e.ID,
			classIDSnake: e.ClassIDSnake,
			classIDCamel: e.ClassIDCamel,
			meta:         e.Meta,
			startSnake:   e.StartTimeSnake,
			startCamel:   e.StartTimeCamel,
			endSnake:     e.EndTimeSnake,
			endCamel:     e.EndTimeCamel,
			style:        e.Style,
		}, ov)
		if ok {
			out = append(out, occ)
		}
	}
	return out
}

// NormalizeAll expands every recurring definition and normalizes all four
// sources into one unified list. Order is preserved within each source;
// cross-source ordering is a display concern left to callers.
func NormalizeAll(c records.Collections, ov Overrides) []model.Occurrence {
	var out []model.Occurrence
	for _, def := range c.Classes {
		out = append(out, NormalizeInstances(Expand(def), ov)...)
	}
	out = append(out, NormalizeSchedules(c.Schedules, ov)...)
	out = append(out, NormalizeAttendance(c.Attendance, ov)...)
	out = append(out, NormalizeMakeups(c.Makeups, ov)...)
	return out
}
