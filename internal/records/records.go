// Package records defines the four raw record shapes the backend serves and
// the client that fetches them. The backend is loose about field naming:
// the same logical time field may arrive as start_time, startTime, or nested
// under a meta object, so each shape declares every accepted spelling and
// leaves picking a winner to the normalizer.
package records

import (
	"encoding/json"

	appLog "classcal/internal/log"
)

// EmbeddedMeta is the optional nested meta object some backend rows carry.
type EmbeddedMeta struct {
	ID             string `json:"id"`
	StartTimeSnake string `json:"start_time"`
	StartTimeCamel string `json:"startTime"`
	EndTimeSnake   string `json:"end_time"`
	EndTimeCamel   string `json:"endTime"`
}

// ClassDefinition describes a recurring class: a date range plus the
// weekdays it runs on. Dates are "YYYY-MM-DD" strings, end inclusive.
type ClassDefinition struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	DaysOfWeek string `json:"days_of_week"`
	StartTime  string `json:"start_time"`
	EndTime    string `json:"end_time"`
	Style      string `json:"style"`
}

// ScheduleEntry is a one-off scheduled session on a concrete date.
type ScheduleEntry struct {
	ID             string        `json:"id"`
	ClassIDSnake   string        `json:"class_id"`
	ClassIDCamel   string        `json:"classId"`
	Name           string        `json:"name"`
	Date           string        `json:"date"`
	StartTimeSnake string        `json:"start_time"`
	StartTimeCamel string        `json:"startTime"`
	EndTimeSnake   string        `json:"end_time"`
	EndTimeCamel   string        `json:"endTime"`
	Status         string        `json:"status"`
	Style          string        `json:"style"`
	Meta           *EmbeddedMeta `json:"meta"`
}

// AttendanceEntry records attendance taken on a concrete date.
type AttendanceEntry struct {
	ID             string        `json:"id"`
	ClassIDSnake   string        `json:"class_id"`
	ClassIDCamel   string        `json:"classId"`
	StudentID      string        `json:"student_id"`
	Date           string        `json:"date"`
	Status         string        `json:"status"`
	StartTimeSnake string        `json:"start_time"`
	StartTimeCamel string        `json:"startTime"`
	EndTimeSnake   string        `json:"end_time"`
	EndTimeCamel   string        `json:"endTime"`
	Style          string        `json:"style"`
	Meta           *EmbeddedMeta `json:"meta"`
}

// MakeupEntry is a rescheduled (makeup) session. Its calendar day lives in
// makeup_date rather than date.
type MakeupEntry struct {
	ID             string        `json:"id"`
	ClassIDSnake   string        `json:"class_id"`
	ClassIDCamel   string        `json:"classId"`
	MakeupDate     string        `json:"makeup_date"`
	Reason         string        `json:"reason"`
	StartTimeSnake string        `json:"start_time"`
	StartTimeCamel string        `json:"startTime"`
	EndTimeSnake   string        `json:"end_time"`
	EndTimeCamel   string        `json:"endTime"`
	Style          string        `json:"style"`
	Meta           *EmbeddedMeta `json:"meta"`
}

// Collections groups the four raw record lists as fetched from the backend.
// Any of the slices may be nil; consumers treat nil as empty.
type Collections struct {
	Classes    []ClassDefinition
	Schedules  []ScheduleEntry
	Attendance []AttendanceEntry
	Makeups    []MakeupEntry
}

// decodeList decodes a JSON array into a record slice. A body that is not a
// JSON array (or not JSON at all) yields an empty slice: a malformed
// collection must never abort the batch.
func decodeList[T any](sourceID string, body []byte) []T {
	if len(body) == 0 {
		return nil
	}
	var out []T
	if err := json.Unmarshal(body, &out); err != nil {
		appLog.Error("records: collection decode failed, treating as empty", err, "source", sourceID)
		return nil
	}
	return out
}
