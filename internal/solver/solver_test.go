package solver

import (
	"strings"
	"testing"

	"github.com/optirust-go/scheduler/internal/model"
)

// TestParseSolutionRoundTrip exercises the solver.rs-derived
// round-trip: an LP solution file parsed back into a slug-keyed
// assignment.
func TestParseSolutionRoundTrip(t *testing.T) {
	input := model.NewSolverInput()
	input.AddCandidate(&model.MeetingCandidate{ID: "id0", Title: "title2"})
	input.AddCandidate(&model.MeetingCandidate{ID: "id10873", Title: "title"})
	input.DesiredMeetings = []model.DesiredMeeting{
		{Title: "title2", Slug: "title2"},
		{Title: "title", Slug: "title"},
	}

	sol := "Optimal - objective value -2422.00000000\n" +
		"1 id10873 1 0\n" +
		"2 id0 1 0\n"

	solution, err := ParseSolution(strings.NewReader(sol), input)
	if err != nil {
		t.Fatalf("parse solution: %v", err)
	}
	if !solution.Solved {
		t.Fatal("expected solved solution")
	}
	if len(solution.Assignment) != 2 {
		t.Fatalf("expected 2 assignment entries, got %d", len(solution.Assignment))
	}
	if solution.Assignment["title"].Candidate.ID != "id10873" {
		t.Fatalf("expected title -> id10873, got %v", solution.Assignment["title"].Candidate.ID)
	}
	if solution.Assignment["title2"].Candidate.ID != "id0" {
		t.Fatalf("expected title2 -> id0, got %v", solution.Assignment["title2"].Candidate.ID)
	}
}

func TestParseSolutionInfeasible(t *testing.T) {
	input := model.NewSolverInput()
	sol := "Infeasible - no solution found\n"

	solution, err := ParseSolution(strings.NewReader(sol), input)
	if err != nil {
		t.Fatalf("parse solution: %v", err)
	}
	if solution.Solved {
		t.Fatal("expected unsolved solution when first line is not Optimal")
	}
}

func TestParseSolutionEmptyFile(t *testing.T) {
	input := model.NewSolverInput()
	solution, err := ParseSolution(strings.NewReader(""), input)
	if err != nil {
		t.Fatalf("parse solution: %v", err)
	}
	if solution.Solved {
		t.Fatal("expected unsolved solution for empty input")
	}
}
