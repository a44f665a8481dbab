package encode

import (
	"testing"

	"github.com/optirust-go/scheduler/internal/model"
)

// TestToLPGoldenOutput checks the exact LP text produced for two
// non-conflicting candidates.
func TestToLPGoldenOutput(t *testing.T) {
	input := model.NewSolverInput()
	input.AddCandidate(&model.MeetingCandidate{ID: "id0", Title: "title2", Score: 23})
	input.AddCandidate(&model.MeetingCandidate{ID: "id10873", Title: "title", Score: 23})

	want := "Maximize\n" +
		"  obj: 23 id0 + 23 id10873\n" +
		"Subject To\n" +
		"  id0 = 1\n" +
		"  id10873 = 1\n" +
		"Binary\n" +
		"  id0 id10873\n" +
		"End"

	got := ToLP(input)
	if got != want {
		t.Fatalf("LP output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestToLPIsDeterministic(t *testing.T) {
	input := model.NewSolverInput()
	input.AddCandidate(&model.MeetingCandidate{ID: "id2", Title: "b", Score: 5})
	input.AddCandidate(&model.MeetingCandidate{ID: "id1", Title: "a", Score: 7})
	input.Intersections = []model.Pair{model.NewPair("id2", "id1")}

	first := ToLP(input)
	second := ToLP(input)
	if first != second {
		t.Fatal("expected byte-identical output across repeated calls")
	}
}

func TestToLPEncodesIntersections(t *testing.T) {
	input := model.NewSolverInput()
	input.AddCandidate(&model.MeetingCandidate{ID: "id1", Title: "a", Score: 1})
	input.AddCandidate(&model.MeetingCandidate{ID: "id2", Title: "b", Score: 1})
	input.Intersections = []model.Pair{model.NewPair("id2", "id1")}

	got := ToLP(input)
	want := "Maximize\n" +
		"  obj: 1 id1 + 1 id2\n" +
		"Subject To\n" +
		"  id1 = 1\n" +
		"  id2 = 1\n" +
		"  id1 + id2 <= 1\n" +
		"Binary\n" +
		"  id1 id2\n" +
		"End"
	if got != want {
		t.Fatalf("LP output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}
