package candidate

import (
	"testing"
	"time"

	"github.com/optirust-go/scheduler/internal/availability"
	"github.com/optirust-go/scheduler/internal/model"
)

func slot(startMin, durMin int) model.Slot {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	start := base.Add(time.Duration(startMin) * time.Minute)
	return model.Slot{
		ID:    "s",
		Start: start,
		End:   start.Add(time.Duration(durMin) * time.Minute),
	}
}

func TestBuildRejectsAttendeeClash(t *testing.T) {
	store := availability.NewStore()
	store.Add("a@x", model.BusyInterval{ID: "busy", Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC)})

	b := &Builder{Store: store}
	m := &model.DesiredMeeting{Title: "t", Attendees: []string{"a@x"}}

	_, ok := b.Build(m, slot(0, 30))
	if ok {
		t.Fatal("expected rejection on attendee clash")
	}
}

func TestBuildRejectsExhaustedRoomPool(t *testing.T) {
	store := availability.NewStore()
	store.Add("room1", model.BusyInterval{ID: "busy", Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC)})

	b := &Builder{
		Store:      store,
		RoomPicker: RoomPickerFunc(func(n int) ([]string, bool) { return []string{"room1"}, true }),
	}
	m := &model.DesiredMeeting{Title: "t", Attendees: []string{"a@x", "b@x"}}

	_, ok := b.Build(m, slot(0, 30))
	if ok {
		t.Fatal("expected rejection when every room in the pool is busy")
	}
}

func TestBuildAllowsNoRoomRequired(t *testing.T) {
	store := availability.NewStore()
	b := &Builder{
		Store:      store,
		RoomPicker: RoomPickerFunc(func(n int) ([]string, bool) { return nil, false }),
	}
	m := &model.DesiredMeeting{Title: "t", Attendees: []string{"a@x"}}

	c, ok := b.Build(m, slot(0, 30))
	if !ok {
		t.Fatal("expected candidate when picker reports no room required")
	}
	if c.HasRoom() {
		t.Fatalf("expected no room, got %q", c.Room)
	}
}

func TestBuildDefaultScoreIsOne(t *testing.T) {
	store := availability.NewStore()
	b := &Builder{Store: store}
	m := &model.DesiredMeeting{Title: "t", Attendees: []string{"a@x"}}

	c, ok := b.Build(m, slot(0, 30))
	if !ok {
		t.Fatal("expected candidate")
	}
	if c.Score != 1 {
		t.Fatalf("expected default score 1, got %d", c.Score)
	}
}

func TestDefaultScorerRewardsClustering(t *testing.T) {
	store := availability.NewStore()
	busyStart := time.Date(2026, 1, 1, 0, 10, 0, 0, time.UTC)
	store.Add("a@x", model.BusyInterval{ID: "busy", Start: busyStart, End: busyStart.Add(30 * time.Minute)})

	scored := DefaultScorer{}.Score(store, []string{"a@x"}, time.Date(2026, 1, 1, 1, 0, 0, 0, time.UTC), time.Date(2026, 1, 1, 1, 30, 0, 0, time.UTC))
	unscored := DefaultScorer{}.Score(store, []string{"a@x"}, time.Date(2026, 1, 2, 1, 0, 0, 0, time.UTC), time.Date(2026, 1, 2, 1, 30, 0, 0, time.UTC))

	if scored <= unscored {
		t.Fatalf("expected a slot near an existing busy interval to score higher: near=%d far=%d", scored, unscored)
	}
}
