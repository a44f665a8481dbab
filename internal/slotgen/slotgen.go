// Package slotgen expands one DesiredMeeting into the concrete slots
// consistent with its window, step, duration, and day/intraday
// rejection policies. It is grounded on
// original_source/src/gen.rs's generate_all_possible_meetings /
// generate_meetings_for_date, translated into idiomatic Go.
package slotgen

import (
	"fmt"
	"time"

	"github.com/optirust-go/scheduler/internal/model"
)

// DateRejector decides whether an entire calendar day should be
// skipped for a given meeting.
type DateRejector interface {
	RejectDate(d time.Time) bool
}

// DatetimeRejector decides whether a specific [start, end) slot should
// be skipped (e.g. because it intersects a lunch block), independent
// of day rejection.
type DatetimeRejector interface {
	RejectDatetime(start, end time.Time) bool
}

// DateRejectorFunc adapts a function to a DateRejector.
type DateRejectorFunc func(d time.Time) bool

func (f DateRejectorFunc) RejectDate(d time.Time) bool { return f(d) }

// DatetimeRejectorFunc adapts a function to a DatetimeRejector.
type DatetimeRejectorFunc func(start, end time.Time) bool

func (f DatetimeRejectorFunc) RejectDatetime(start, end time.Time) bool { return f(start, end) }

// DefaultRejectDate rejects Wednesday, Saturday and Sunday.
func DefaultRejectDate(d time.Time) bool {
	switch d.Weekday() {
	case time.Wednesday, time.Saturday, time.Sunday:
		return true
	default:
		return false
	}
}

// DefaultRejectDatetime rejects any slot intersecting the local
// [12:00, 13:00) lunch block on the slot's start date.
func DefaultRejectDatetime(start, end time.Time) bool {
	date := start
	lunchStart := time.Date(date.Year(), date.Month(), date.Day(), 12, 0, 0, 0, date.Location())
	lunchEnd := time.Date(date.Year(), date.Month(), date.Day(), 13, 0, 0, 0, date.Location())
	return start.Before(lunchEnd) && end.After(lunchStart)
}

// Generate produces every candidate Slot for m, applying rejectDate
// and rejectDatetime. It converts the meeting's window to wall-clock
// time in m.Timezone, walks each calendar day in range, and within
// each accepted day emits duration-length slots every step until the
// slot's end would exceed the window's end-of-day time.
func Generate(m *model.DesiredMeeting, rejectDate DateRejector, rejectDatetime DatetimeRejector) ([]model.Slot, error) {
	loc, err := m.Location()
	if err != nil {
		return nil, err
	}

	startLocal := m.MinDate.In(loc)
	endLocal := m.MaxDate.In(loc)

	minTime := startLocal
	maxTimeOfDay := endLocal

	startDate := dateOnly(startLocal, loc)
	endDate := dateOnly(endLocal, loc)

	var slots []model.Slot
	dayIndex := 0
	for d := startDate; !d.After(endDate); d = d.AddDate(0, 0, 1) {
		if rejectDate != nil && rejectDate.RejectDate(d) {
			continue
		}

		daySlots := generateForDate(d, minTime, maxTimeOfDay, m.Step, m.Duration, m.Slug, dayIndex, rejectDatetime)
		slots = append(slots, daySlots...)
		dayIndex++
	}

	return slots, nil
}

func dateOnly(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

func generateForDate(
	date time.Time,
	minTime, maxTime time.Time,
	step, duration time.Duration,
	slug string,
	dayIndex int,
	rejectDatetime DatetimeRejector,
) []model.Slot {
	loc := date.Location()

	dayStart := time.Date(date.Year(), date.Month(), date.Day(),
		minTime.Hour(), minTime.Minute(), minTime.Second(), minTime.Nanosecond(), loc)
	maxOfDay := time.Date(date.Year(), date.Month(), date.Day(),
		maxTime.Hour(), maxTime.Minute(), maxTime.Second(), maxTime.Nanosecond(), loc)

	// A window that straddles midnight (max_time < min_time) produces
	// no slots that day; the implementation treats the window as
	// same-day.
	var slots []model.Slot
	slotIndex := 0
	t := dayStart
	for {
		start := t
		end := t.Add(duration)
		if end.After(maxOfDay) {
			break
		}
		t = t.Add(step)

		if rejectDatetime != nil && rejectDatetime.RejectDatetime(start, end) {
			continue
		}

		slots = append(slots, model.Slot{
			ID:    fmt.Sprintf("%s_%d_%d", slug, dayIndex, slotIndex),
			Start: start.UTC(),
			End:   end.UTC(),
		})
		slotIndex++
	}
	return slots
}
