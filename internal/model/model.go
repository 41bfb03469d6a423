package model

import "time"

// Category is the semantic category assigned to a calendar occurrence or to
// a classified date. Exactly one category applies per date; when several
// record sources match the same day, the fixed precedence
// makeup > attendance > schedule > class decides.
type Category string

const (
	CategoryNone       Category = ""
	CategoryClass      Category = "class"
	CategorySchedule   Category = "schedule"
	CategoryAttendance Category = "attendance"
	CategoryMakeup     Category = "makeup"
)

// TimeOfDay is a wall-clock time with no date attached.
type TimeOfDay struct {
	Hour   int // 0-23
	Minute int // 0-59
	Second int // 0-59
}

// Meta carries the original source record alongside the canonical time
// strings resolved from whichever spelling the source used. Raw values
// stay reachable through Source for callers that need them unmodified.
type Meta struct {
	Source    any
	StartTime string
	EndTime   string
}

// Occurrence is the unified calendar entry produced from any of the four
// record sources. OnClick and OnHover are carried through for the rendering
// layer; nothing in this package ever invokes them.
type Occurrence struct {
	ID        string
	Timestamp time.Time
	Category  Category

	// StartDisplay / EndDisplay are 12-hour display strings ("09:00 AM"),
	// empty when the source carried no usable time.
	StartDisplay string
	EndDisplay   string

	// Style is a color/background descriptor for the rendering layer,
	// empty when neither the record nor a global override supplied one.
	Style string

	OnClick func(id, dateKey string)
	OnHover func(id string) string

	Meta Meta
}
