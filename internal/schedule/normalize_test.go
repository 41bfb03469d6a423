package schedule

import (
	"testing"
	"time"

	"classcal/internal/model"
	"classcal/internal/records"
)

func TestNormalizeSchedulesIDFallbackChain(t *testing.T) {
	tests := []struct {
		name  string
		entry records.ScheduleEntry
		want  string
	}{
		{
			"explicit id wins",
			records.ScheduleEntry{ID: "s1", ClassIDSnake: "c1", Date: "2025-01-06", Meta: &records.EmbeddedMeta{ID: "m1"}},
			"s1",
		},
		{
			"class_id next",
			records.ScheduleEntry{ClassIDSnake: "c1", ClassIDCamel: "c2", Date: "2025-01-06"},
			"c1",
		},
		{
			"classId next",
			records.ScheduleEntry{ClassIDCamel: "c2", Date: "2025-01-06"},
			"c2",
		},
		{
			"meta id next",
			records.ScheduleEntry{Date: "2025-01-06", Meta: &records.EmbeddedMeta{ID: "m1"}},
			"m1",
		},
		{
			"date-derived key last",
			records.ScheduleEntry{Date: "2025-01-06"},
			"2025-1-6",
		},
	}

	for _, tt := range tests {
		got := NormalizeSchedules([]records.ScheduleEntry{tt.entry}, Overrides{})
		if len(got) != 1 {
			t.Fatalf("%s: got %d occurrences, want 1", tt.name, len(got))
		}
		if got[0].ID != tt.want {
			t.Errorf("%s: id = %q, want %q", tt.name, got[0].ID, tt.want)
		}
	}
}

func TestNormalizeTimeSpellingResolution(t *testing.T) {
	tests := []struct {
		name  string
		entry records.ScheduleEntry
		want  string
	}{
		{"start_time wins", records.ScheduleEntry{Date: "2025-01-06", StartTimeSnake: "09:00", StartTimeCamel: "10:00"}, "09:00"},
		{"startTime next", records.ScheduleEntry{Date: "2025-01-06", StartTimeCamel: "10:00", Meta: &records.EmbeddedMeta{StartTimeSnake: "11:00"}}, "10:00"},
		{"meta.start_time next", records.ScheduleEntry{Date: "2025-01-06", Meta: &records.EmbeddedMeta{StartTimeSnake: "11:00", StartTimeCamel: "12:00"}}, "11:00"},
		{"meta.startTime last", records.ScheduleEntry{Date: "2025-01-06", Meta: &records.EmbeddedMeta{StartTimeCamel: "12:00"}}, "12:00"},
		{"absent everywhere", records.ScheduleEntry{Date: "2025-01-06"}, ""},
	}

	for _, tt := range tests {
		got := NormalizeSchedules([]records.ScheduleEntry{tt.entry}, Overrides{})
		if len(got) != 1 {
			t.Fatalf("%s: got %d occurrences, want 1", tt.name, len(got))
		}
		if got[0].Meta.StartTime != tt.want {
			t.Errorf("%s: canonical start_time = %q, want %q", tt.name, got[0].Meta.StartTime, tt.want)
		}
	}
}

func TestNormalizeTimestampCombinesDateAndTime(t *testing.T) {
	got := NormalizeSchedules([]records.ScheduleEntry{
		{ID: "s1", Date: "2025-01-06", StartTimeSnake: "2:30pm", EndTimeCamel: "15:30"},
	}, Overrides{})
	if len(got) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(got))
	}

	ts := got[0].Timestamp
	want := time.Date(2025, time.January, 6, 14, 30, 0, 0, time.Local)
	if !ts.Equal(want) {
		t.Errorf("timestamp = %v, want %v", ts, want)
	}
	if got[0].StartDisplay != "02:30 PM" {
		t.Errorf("StartDisplay = %q, want %q", got[0].StartDisplay, "02:30 PM")
	}
	if got[0].EndDisplay != "03:30 PM" {
		t.Errorf("EndDisplay = %q, want %q", got[0].EndDisplay, "03:30 PM")
	}
}

func TestNormalizeDropsUnparseableDate(t *testing.T) {
	entries := []records.ScheduleEntry{
		{ID: "keep", Date: "2025-01-06"},
		{ID: "drop", Date: "not-a-date"},
		{ID: "drop2"},
	}
	got := NormalizeSchedules(entries, Overrides{})
	if len(got) != 1 || got[0].ID != "keep" {
		t.Fatalf("got %+v, want only the parseable record", got)
	}
}

func TestNormalizeGlobalOverridesWin(t *testing.T) {
	clicked := ""
	ov := Overrides{
		Style: "bg-red",
		OnClick: func(id, dateKey string) {
			clicked = id
		},
		OnHover: func(id string) string {
			return "hover:" + id
		},
	}

	got := NormalizeSchedules([]records.ScheduleEntry{
		{ID: "s1", Date: "2025-01-06", Style: "bg-blue"},
	}, ov)
	if len(got) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(got))
	}
	if got[0].Style != "bg-red" {
		t.Errorf("Style = %q, want global override %q", got[0].Style, "bg-red")
	}
	if got[0].OnClick == nil || got[0].OnHover == nil {
		t.Fatal("callbacks not carried through")
	}

	// Carried, not called: invoking is the rendering layer's business.
	got[0].OnClick("s1", "2025-1-6")
	if clicked != "s1" {
		t.Errorf("OnClick passthrough broken, clicked = %q", clicked)
	}
	if hover := got[0].OnHover("s1"); hover != "hover:s1" {
		t.Errorf("OnHover passthrough broken, got %q", hover)
	}
}

func TestNormalizePerRecordStyleWithoutOverride(t *testing.T) {
	got := NormalizeSchedules([]records.ScheduleEntry{
		{ID: "s1", Date: "2025-01-06", Style: "bg-blue"},
		{ID: "s2", Date: "2025-01-07"},
	}, Overrides{})
	if len(got) != 2 {
		t.Fatalf("got %d occurrences, want 2", len(got))
	}
	if got[0].Style != "bg-blue" {
		t.Errorf("per-record style = %q, want %q", got[0].Style, "bg-blue")
	}
	if got[1].Style != "" {
		t.Errorf("absent style = %q, want empty", got[1].Style)
	}
	if got[1].OnClick != nil || got[1].OnHover != nil {
		t.Error("callbacks present without an override")
	}
}

func TestNormalizeMakeupsUseMakeupDate(t *testing.T) {
	got := NormalizeMakeups([]records.MakeupEntry{
		{ID: "mk1", MakeupDate: "2025-02-14T00:00:00Z", Reason: "teacher away"},
	}, Overrides{})
	if len(got) != 1 {
		t.Fatalf("got %d occurrences, want 1", len(got))
	}
	if got[0].Category != model.CategoryMakeup {
		t.Errorf("category = %q, want makeup", got[0].Category)
	}
	ts := got[0].Timestamp
	if ts.Year() != 2025 || ts.Month() != time.February || ts.Day() != 14 {
		t.Errorf("timestamp = %v, want 2025-02-14", ts)
	}
}

func TestNormalizeAll(t *testing.T) {
	c := records.Collections{
		Classes: []records.ClassDefinition{
			{ID: "c1", StartDate: "2025-01-06", EndDate: "2025-01-10", DaysOfWeek: "M,W,F", StartTime: "09:00:00"},
		},
		Schedules:  []records.ScheduleEntry{{ID: "s1", Date: "2025-01-07"}},
		Attendance: []records.AttendanceEntry{{ID: "a1", Date: "2025-01-06"}},
		Makeups:    []records.MakeupEntry{{ID: "mk1", MakeupDate: "2025-01-09"}},
	}

	got := NormalizeAll(c, Overrides{})
	if len(got) != 6 {
		t.Fatalf("got %d occurrences, want 6 (3 class + 1 each)", len(got))
	}

	counts := map[model.Category]int{}
	for _, occ := range got {
		counts[occ.Category]++
		if occ.Meta.Source == nil {
			t.Errorf("occurrence %q carries no source record", occ.ID)
		}
	}
	if counts[model.CategoryClass] != 3 || counts[model.CategorySchedule] != 1 ||
		counts[model.CategoryAttendance] != 1 || counts[model.CategoryMakeup] != 1 {
		t.Errorf("category counts = %v", counts)
	}
}

func TestNormalizeAllEmptyCollections(t *testing.T) {
	if got := NormalizeAll(records.Collections{}, Overrides{}); len(got) != 0 {
		t.Fatalf("zero-value collections produced %d occurrences", len(got))
	}
}
