package model

import "time"

// Slot is a concrete (start, end) time-of-day candidate for one
// desired meeting, prior to attendee/room filtering.
type Slot struct {
	ID    string
	Start time.Time
	End   time.Time
}

// BusyInterval describes an already-committed meeting for one identity.
type BusyInterval struct {
	ID    string
	Start time.Time
	End   time.Time
}

// MeetingCandidate is a filtered slot promoted to a solver variable.
type MeetingCandidate struct {
	Title string
	ID    string
	Start time.Time
	End   time.Time

	// Room is the chosen room identity, or "" when no room was
	// required for this meeting. A required-but-exhausted room pool
	// is not representable here: candidate.Builder rejects that slot
	// outright rather than emitting it with an empty room.
	Room string

	Score int
}

// HasRoom reports whether this candidate carries a room assignment.
func (c *MeetingCandidate) HasRoom() bool {
	return c.Room != ""
}
