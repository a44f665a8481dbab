// Package availability holds the busy-time index: one interval tree per
// identity (attendee or room), fetched once per run and queried by the
// candidate builder. It is grounded on the prior Google Calendar FreeBusy
// fetch and working-hours helpers, generalized from percentage-based
// conflict scoring to exact per-identity interval membership.
package availability

import (
	"context"
	"time"

	"github.com/optirust-go/scheduler/internal/intervaltree"
	"github.com/optirust-go/scheduler/internal/model"
)

// Store indexes every identity's busy intervals. The zero value is an
// empty, ready-to-use store.
type Store struct {
	trees map[string]*intervaltree.Tree
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{trees: make(map[string]*intervaltree.Tree)}
}

// Add registers one busy interval for identity.
func (s *Store) Add(identity string, interval model.BusyInterval) {
	if s.trees == nil {
		s.trees = make(map[string]*intervaltree.Tree)
	}
	t, ok := s.trees[identity]
	if !ok {
		t = &intervaltree.Tree{}
		s.trees[identity] = t
	}
	t.Insert(interval.Start, interval.End, interval.ID)
}

// Busy reports whether identity has any busy interval overlapping
// [start, end). An identity never added is treated as entirely free.
func (s *Store) Busy(identity string, start, end time.Time) bool {
	t, ok := s.trees[identity]
	if !ok {
		return false
	}
	return t.Any(start, end)
}

// Overlaps returns how many of identity's busy intervals overlap
// [start, end), used by the candidate scorer's clustering kernel.
func (s *Store) Overlaps(identity string, start, end time.Time) int {
	t, ok := s.trees[identity]
	if !ok {
		return 0
	}
	return len(t.Query(start, end))
}

// Identities returns every identity the store has availability data for.
func (s *Store) Identities() []string {
	out := make([]string, 0, len(s.trees))
	for id := range s.trees {
		out = append(out, id)
	}
	return out
}

// Fetcher retrieves busy intervals for a set of identities over a
// window and reports which identities could not be resolved (the
// GetMissingCalendars diagnostic).
type Fetcher interface {
	Fetch(ctx context.Context, identities []string, start, end time.Time) (*Store, []string, error)
}

// Booker inserts a calendar event for a chosen candidate (the --book
// flag). Grounded on original_source/src/gcal.rs's
// candidate_and_meeting_to_event / book_with_api.
type Booker interface {
	Book(ctx context.Context, meeting *model.DesiredMeeting, candidate *model.MeetingCandidate) error
}
