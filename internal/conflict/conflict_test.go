package conflict

import (
	"testing"
	"time"

	"github.com/optirust-go/scheduler/internal/model"
)

func cand(id string, startMin, durMin int) *model.MeetingCandidate {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	start := base.Add(time.Duration(startMin) * time.Minute)
	return &model.MeetingCandidate{
		ID:    id,
		Start: start,
		End:   start.Add(time.Duration(durMin) * time.Minute),
	}
}

func TestIndexFindsOverlappingPairs(t *testing.T) {
	candidates := []*model.MeetingCandidate{
		cand("a", 0, 30),
		cand("b", 15, 30),
		cand("c", 100, 30),
	}

	pairs := Index(candidates)
	if len(pairs) != 1 {
		t.Fatalf("expected exactly one conflicting pair, got %d: %v", len(pairs), pairs)
	}
	if pairs[0] != model.NewPair("a", "b") {
		t.Fatalf("expected pair {a,b}, got %v", pairs[0])
	}
}

func TestIndexDeduplicates(t *testing.T) {
	candidates := []*model.MeetingCandidate{
		cand("a", 0, 60),
		cand("b", 10, 60),
	}
	pairs := Index(candidates)
	if len(pairs) != 1 {
		t.Fatalf("expected one deduplicated pair, got %d", len(pairs))
	}
}

func TestIndexNoOverlap(t *testing.T) {
	candidates := []*model.MeetingCandidate{
		cand("a", 0, 30),
		cand("b", 30, 30),
	}
	pairs := Index(candidates)
	if len(pairs) != 0 {
		t.Fatalf("expected no pairs for adjacent half-open candidates, got %d", len(pairs))
	}
}
