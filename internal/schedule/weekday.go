// Package schedule is the reconciliation core: it expands recurring class
// definitions into concrete occurrences, normalizes the four heterogeneous
// record sources into one unified occurrence shape, and classifies single
// dates against all sources under a fixed precedence. Everything here is a
// pure function over its inputs; no input is ever mutated and no error is
// ever returned — malformed records are dropped, not surfaced.
package schedule

import (
	"strings"
	"time"
)

// dayTokens maps every accepted weekday abbreviation, lower-cased, to its
// weekday. Tokens are matched by full spelling, never by prefix: "t" is
// Tuesday while "th" is Thursday. Bare "s" is Saturday; Sunday always
// carries at least two letters ("su"/"sun").
var dayTokens = map[string]time.Weekday{
	"su":  time.Sunday,
	"sun": time.Sunday,

	"m":   time.Monday,
	"mo":  time.Monday,
	"mon": time.Monday,

	"t":    time.Tuesday,
	"tu":   time.Tuesday,
	"tue":  time.Tuesday,
	"tues": time.Tuesday,

	"w":   time.Wednesday,
	"we":  time.Wednesday,
	"wed": time.Wednesday,

	"th":    time.Thursday,
	"thu":   time.Thursday,
	"thur":  time.Thursday,
	"thurs": time.Thursday,

	"f":   time.Friday,
	"fr":  time.Friday,
	"fri": time.Friday,

	"s":   time.Saturday,
	"sa":  time.Saturday,
	"sat": time.Saturday,
}

// ParseDayToken resolves a single free-text weekday token (case-insensitive)
// to a weekday. The second result is false for unrecognized tokens.
func ParseDayToken(tok string) (time.Weekday, bool) {
	d, ok := dayTokens[strings.ToLower(strings.TrimSpace(tok))]
	return d, ok
}

// DaySet is a set of weekdays, one bit per time.Weekday value.
type DaySet uint8

// ParseDaySet resolves a comma-separated weekday token list ("M,W,F") into a
// DaySet. Unrecognized tokens are silently dropped; an unresolvable list
// yields the empty set.
func ParseDaySet(list string) DaySet {
	var set DaySet
	for _, tok := range strings.Split(list, ",") {
		if d, ok := ParseDayToken(tok); ok {
			set |= 1 << uint(d)
		}
	}
	return set
}

func (s DaySet) Has(d time.Weekday) bool {
	return s&(1<<uint(d)) != 0
}

func (s DaySet) Empty() bool {
	return s == 0
}

// Weekdays returns the member weekdays in Sunday-first order.
func (s DaySet) Weekdays() []time.Weekday {
	var out []time.Weekday
	for d := time.Sunday; d <= time.Saturday; d++ {
		if s.Has(d) {
			out = append(out, d)
		}
	}
	return out
}
