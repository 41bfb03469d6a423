package schedule

import (
	"testing"

	"classcal/internal/model"
)

func TestParseClock(t *testing.T) {
	tod := func(h, m, s int) *model.TimeOfDay {
		return &model.TimeOfDay{Hour: h, Minute: m, Second: s}
	}

	tests := []struct {
		in   string
		want *model.TimeOfDay
	}{
		{"14:30", tod(14, 30, 0)},
		{"09:00:00", tod(9, 0, 0)},
		{"00:00", tod(0, 0, 0)},
		{"23:59:59", tod(23, 59, 59)},
		{"2:30pm", tod(14, 30, 0)},
		{"2:30PM", tod(14, 30, 0)},
		{"2:30 pm", tod(14, 30, 0)},
		{"12:00am", tod(0, 0, 0)},   // midnight
		{"12:15pm", tod(12, 15, 0)}, // noon hour stays 12
		{"11:59pm", tod(23, 59, 0)},
		{"9am", tod(9, 0, 0)},
		{"xx:30", tod(0, 30, 0)}, // non-numeric segment counts as zero
		{"14:xx", tod(14, 0, 0)},
		{"", nil},
		{"   ", nil},
		{"25:00", nil},
		{"14:75", nil},
	}

	for _, tt := range tests {
		got := ParseClock(tt.in)
		switch {
		case got == nil && tt.want == nil:
		case got == nil || tt.want == nil:
			t.Errorf("ParseClock(%q) = %v, want %v", tt.in, got, tt.want)
		case *got != *tt.want:
			t.Errorf("ParseClock(%q) = %+v, want %+v", tt.in, *got, *tt.want)
		}
	}
}

func TestFormatAmPm(t *testing.T) {
	tests := []struct {
		in   model.TimeOfDay
		want string
	}{
		{model.TimeOfDay{Hour: 0, Minute: 0}, "12:00 AM"},
		{model.TimeOfDay{Hour: 12, Minute: 0}, "12:00 PM"},
		{model.TimeOfDay{Hour: 9, Minute: 5}, "09:05 AM"},
		{model.TimeOfDay{Hour: 14, Minute: 30}, "02:30 PM"},
		{model.TimeOfDay{Hour: 23, Minute: 59}, "11:59 PM"},
	}

	for _, tt := range tests {
		if got := FormatAmPm(tt.in); got != tt.want {
			t.Errorf("FormatAmPm(%+v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

// Equivalent textual representations must normalize to the same display
// string, and formatting must be stable under reparsing.
func TestClockRoundTrip(t *testing.T) {
	pairs := [][2]string{
		{"14:30", "2:30pm"},
		{"09:00:00", "9:00am"},
		{"00:15", "12:15am"},
		{"12:00", "12:00pm"},
	}
	for _, p := range pairs {
		a, b := ParseClock(p[0]), ParseClock(p[1])
		if a == nil || b == nil {
			t.Fatalf("ParseClock failed for %q / %q", p[0], p[1])
		}
		if FormatAmPm(*a) != FormatAmPm(*b) {
			t.Errorf("FormatAmPm mismatch: %q -> %q, %q -> %q", p[0], FormatAmPm(*a), p[1], FormatAmPm(*b))
		}
	}

	for hour := 0; hour < 24; hour++ {
		in := model.TimeOfDay{Hour: hour, Minute: 45}
		display := FormatAmPm(in)
		back := ParseClock(display)
		if back == nil {
			t.Fatalf("ParseClock(%q) = nil", display)
		}
		if FormatAmPm(*back) != display {
			t.Errorf("round trip unstable at hour %d: %q -> %q", hour, display, FormatAmPm(*back))
		}
	}
}
