// Package model holds the data types shared across the scheduling
// pipeline: desired meetings, slots, busy intervals, candidates and
// the solver's input/output shapes.
package model

import (
	"strings"
	"time"
	"unicode"
)

// DefaultTimezone is used when a DesiredMeeting does not specify one.
const DefaultTimezone = "America/Los_Angeles"

// DefaultStep and DefaultDuration are applied when the input omits them.
const (
	DefaultStep     = 30 * time.Minute
	DefaultDuration = 30 * time.Minute
)

// DesiredMeeting is an immutable request to schedule one meeting within
// a window. It is parsed once from input and never mutated.
type DesiredMeeting struct {
	Title       string
	Slug        string
	Description string
	Attendees   []string

	// MinDate and MaxDate are absolute UTC instants. The window they
	// describe is interpreted local to Timezone: MinDate carries the
	// earliest allowed start-of-day wall time, MaxDate the latest
	// allowed end-of-day wall time.
	MinDate time.Time
	MaxDate time.Time

	Step     time.Duration
	Duration time.Duration
	Timezone string

	loc *time.Location
}

// Location returns the parsed IANA timezone, loading it lazily.
func (m *DesiredMeeting) Location() (*time.Location, error) {
	if m.loc != nil {
		return m.loc, nil
	}
	tz := m.Timezone
	if tz == "" {
		tz = DefaultTimezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, err
	}
	m.loc = loc
	return loc, nil
}

// Slugify derives a stable, alphanumeric-only identity from a meeting
// title: every rune that isn't an ASCII letter or digit is dropped and
// the result is lowercased. Two titles differing only in punctuation
// or case collide on purpose — that collision is what the loader's
// duplicate-slug check is meant to catch.
func Slugify(title string) string {
	var b strings.Builder
	b.Grow(len(title))
	for _, r := range title {
		switch {
		case unicode.IsLetter(r) && r <= unicode.MaxASCII:
			b.WriteRune(unicode.ToLower(r))
		case unicode.IsDigit(r) && r <= unicode.MaxASCII:
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate checks the invariants a DesiredMeeting must satisfy on its
// own (not across the full input set — see loader for the
// cross-meeting slug-uniqueness check).
func (m *DesiredMeeting) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return &Error{Kind: KindInput, Message: "meeting title must not be empty"}
	}
	if m.MinDate.After(m.MaxDate) {
		return &Error{Kind: KindInput, Message: "min_date must not be after max_date: " + m.Title}
	}
	if m.Step <= 0 {
		return &Error{Kind: KindInput, Message: "step must be positive: " + m.Title}
	}
	if m.Duration <= 0 {
		return &Error{Kind: KindInput, Message: "duration must be positive: " + m.Title}
	}
	if _, err := m.Location(); err != nil {
		return &Error{Kind: KindInput, Message: "unparseable timezone for " + m.Title, Err: err}
	}
	return nil
}
