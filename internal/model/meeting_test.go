package model

import (
	"testing"
	"time"
)

func TestSlugifyDropsPunctuationAndLowercases(t *testing.T) {
	if got := Slugify("Q3 Planning!!"); got != "q3planning" {
		t.Fatalf("expected %q, got %q", "q3planning", got)
	}
}

func TestSlugifyCollidesOnCaseAndPunctuation(t *testing.T) {
	a := Slugify("Foo!")
	b := Slugify("foo")
	if a != b {
		t.Fatalf("expected titles differing only in case/punctuation to collide, got %q vs %q", a, b)
	}
}

func TestValidateRejectsEmptyTitle(t *testing.T) {
	m := &DesiredMeeting{
		MinDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		MaxDate:  time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Step:     time.Minute,
		Duration: time.Minute,
	}
	if err := m.Validate(); err == nil {
		t.Fatal("expected an error for an empty title")
	}
}

func TestValidateRejectsInvertedWindow(t *testing.T) {
	m := &DesiredMeeting{
		Title:    "x",
		MinDate:  time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		MaxDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Step:     time.Minute,
		Duration: time.Minute,
	}
	if err := m.Validate(); err == nil {
		t.Fatal("expected an error for min_date after max_date")
	}
}

func TestValidateRejectsUnparseableTimezone(t *testing.T) {
	m := &DesiredMeeting{
		Title:    "x",
		MinDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		MaxDate:  time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Step:     time.Minute,
		Duration: time.Minute,
		Timezone: "Not/A_Zone",
	}
	if err := m.Validate(); err == nil {
		t.Fatal("expected an error for an unparseable timezone")
	}
}

func TestValidateAcceptsWellFormedMeeting(t *testing.T) {
	m := &DesiredMeeting{
		Title:    "Planning sync",
		MinDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		MaxDate:  time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC),
		Step:     30 * time.Minute,
		Duration: 30 * time.Minute,
		Timezone: "America/New_York",
	}
	if err := m.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
