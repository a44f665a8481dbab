// Package candidate builds MeetingCandidates from generated slots: it
// checks attendee availability, assigns a room, and scores the result
// Grounded on the optimizer package's conflict-checking loop over busy
// slots, generalized from a fixed 30-minute grid to a per-meeting
// step/duration, and on original_source/src/types.rs's MeetingCandidate
// shape.
package candidate

import (
	"time"

	"github.com/optirust-go/scheduler/internal/availability"
	"github.com/optirust-go/scheduler/internal/model"
)

// RoomPicker chooses a pool of candidate rooms for a meeting of n
// attendees. A nil pool with ok=false means "no room required" for
// this meeting size; a non-nil pool means every room in it should be
// tried in order until one is free, and an empty pool with ok=true
// means a room is required but none exists, so the candidate must be
// rejected.
type RoomPicker interface {
	PickRooms(n int) (pool []string, ok bool)
}

// RoomPickerFunc adapts a function to a RoomPicker.
type RoomPickerFunc func(n int) ([]string, bool)

func (f RoomPickerFunc) PickRooms(n int) ([]string, bool) { return f(n) }

// ConfigRoomPicker is the default, config-backed picker: meetings with
// two or fewer attendees draw from SmallRooms, larger meetings from
// LargeRooms.
type ConfigRoomPicker struct {
	SmallRooms []string
	LargeRooms []string
}

func (p ConfigRoomPicker) PickRooms(n int) ([]string, bool) {
	if n <= 2 {
		return p.SmallRooms, true
	}
	return p.LargeRooms, true
}

// Scorer computes a candidate's objective contribution.
type Scorer interface {
	Score(store *availability.Store, attendees []string, start, end time.Time) int
}

// Builder turns slots into candidates for one desired meeting.
type Builder struct {
	Store      *availability.Store
	RoomPicker RoomPicker
	Scorer     Scorer
}

// Build checks attendee availability, assigns a room, scores, and
// returns the resulting candidate. ok is false when the slot must be
// rejected (an attendee clash, or an exhausted room pool).
func (b *Builder) Build(m *model.DesiredMeeting, slot model.Slot) (model.MeetingCandidate, bool) {
	for _, a := range m.Attendees {
		if b.Store.Busy(a, slot.Start, slot.End) {
			return model.MeetingCandidate{}, false
		}
	}

	room := ""
	if b.RoomPicker != nil {
		if pool, ok := b.RoomPicker.PickRooms(len(m.Attendees)); ok {
			found := false
			for _, r := range pool {
				if !b.Store.Busy(r, slot.Start, slot.End) {
					room = r
					found = true
					break
				}
			}
			// A non-empty pool with nothing free rejects the
			// candidate; an empty pool ("no rooms configured for
			// this size") also rejects it, since ok==true means a
			// room was required. Only PickRooms returning ok==false
			// means "no room required."
			if !found {
				return model.MeetingCandidate{}, false
			}
		}
	}

	score := 1
	if b.Scorer != nil {
		score = b.Scorer.Score(b.Store, m.Attendees, slot.Start, slot.End)
	}

	return model.MeetingCandidate{
		Title: m.Title,
		ID:    slot.ID,
		Start: slot.Start,
		End:   slot.End,
		Room:  room,
		Score: score,
	}, true
}
