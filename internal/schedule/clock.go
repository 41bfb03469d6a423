package schedule

import (
	"fmt"
	"strconv"
	"strings"

	"classcal/internal/model"
)

// ParseClock parses flexible time text into a TimeOfDay. Accepted forms:
//
//	"HH:MM" / "HH:MM:SS"        24-hour
//	"H:MM[:SS]am" / "...pm"     12-hour, case-insensitive suffix
//
// Non-numeric segments count as zero ("xx:30" is 00:30), matching how loose
// backend data is tolerated elsewhere. Empty input and out-of-range results
// yield nil — never an error.
func ParseClock(s string) *model.TimeOfDay {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "" {
		return nil
	}

	meridiem := ""
	for _, suffix := range []string{"am", "pm"} {
		if strings.HasSuffix(s, suffix) {
			meridiem = suffix
			s = strings.TrimSpace(strings.TrimSuffix(s, suffix))
			break
		}
	}

	parts := strings.Split(s, ":")
	segment := func(i int) int {
		if i >= len(parts) {
			return 0
		}
		n, err := strconv.Atoi(strings.TrimSpace(parts[i]))
		if err != nil || n < 0 {
			return 0
		}
		return n
	}

	hour, minute, second := segment(0), segment(1), segment(2)

	switch meridiem {
	case "pm":
		if hour < 12 {
			hour += 12
		}
	case "am":
		if hour == 12 {
			hour = 0
		}
	}

	if hour > 23 || minute > 59 || second > 59 {
		return nil
	}
	return &model.TimeOfDay{Hour: hour, Minute: minute, Second: second}
}

// FormatAmPm renders a TimeOfDay as a zero-padded 12-hour display string,
// e.g. "09:00 AM". Hours 0 and 12 both display as 12.
func FormatAmPm(t model.TimeOfDay) string {
	suffix := "AM"
	if t.Hour >= 12 {
		suffix = "PM"
	}
	hour := t.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%02d:%02d %s", hour, t.Minute, suffix)
}

// clockOrMidnight parses raw time text, defaulting to midnight when the
// text is absent or unparseable.
func clockOrMidnight(raw string) model.TimeOfDay {
	if t := ParseClock(raw); t != nil {
		return *t
	}
	return model.TimeOfDay{}
}

// displayTime formats raw time text for display, returning "" when the text
// does not parse.
func displayTime(raw string) string {
	t := ParseClock(raw)
	if t == nil {
		return ""
	}
	return FormatAmPm(*t)
}
