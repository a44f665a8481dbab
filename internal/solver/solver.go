// Package solver drives the external cbc integer-programming solver:
// it writes the encoded LP file, invokes cbc, and parses its solution
// file back into an assignment. Grounded on
// original_source/src/solver.rs's solve_with_cbc_solver and
// read_cbc_solver_solution.
package solver

import (
	"bufio"
	"context"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/optirust-go/scheduler/internal/encode"
	"github.com/optirust-go/scheduler/internal/model"
)

// Backend solves a SolverInput and returns the resulting Solution.
// Pluggable so alternative backends can be swapped in
// via Options.
type Backend interface {
	Solve(ctx context.Context, input *model.SolverInput) (*model.Solution, error)
}

// CBCBackend shells out to the cbc command-line solver. Each run uses a
// unique working directory (named with a uuid) so concurrent
// invocations of the same process never collide on temp.lp/solution.sol.
type CBCBackend struct {
	// WorkDir is the parent directory for per-run scratch
	// subdirectories; defaults to os.TempDir() when empty.
	WorkDir string
}

func (c *CBCBackend) Solve(ctx context.Context, input *model.SolverInput) (*model.Solution, error) {
	base := c.WorkDir
	if base == "" {
		base = os.TempDir()
	}

	runDir := filepath.Join(base, "optirust-"+uuid.NewString())
	if err := os.MkdirAll(runDir, 0o755); err != nil {
		return nil, &model.Error{Kind: model.KindSolver, Message: "create solver work directory", Err: err}
	}
	defer os.RemoveAll(runDir)

	lpPath := filepath.Join(runDir, "temp.lp")
	solutionPath := filepath.Join(runDir, "solution.sol")

	lp := encode.ToLP(input)
	if err := os.WriteFile(lpPath, []byte(lp), 0o644); err != nil {
		return nil, &model.Error{Kind: model.KindSolver, Message: "write LP file", Err: err}
	}

	cmd := exec.CommandContext(ctx, "cbc", lpPath, "solve", "solution", solutionPath)
	if out, err := cmd.CombinedOutput(); err != nil {
		return nil, &model.Error{Kind: model.KindSolver, Message: "cbc invocation failed: " + string(out), Err: err}
	}

	f, err := os.Open(solutionPath)
	if err != nil {
		return nil, &model.Error{Kind: model.KindSolver, Message: "open cbc solution file", Err: err}
	}
	defer f.Close()

	return ParseSolution(f, input)
}

// ParseSolution reads a cbc .sol file and resolves it against input's
// candidates and desired meetings. The first line must contain
// "Optimal"; otherwise the run is unsolved. Each subsequent line is
// whitespace-delimited with the variable name in column 2 and its
// value in column 3; variables with value "1" are looked up against
// input.Candidates and matched to the desired meeting sharing the
// candidate's title.
func ParseSolution(r io.Reader, input *model.SolverInput) (*model.Solution, error) {
	scanner := bufio.NewScanner(r)

	if !scanner.Scan() {
		return &model.Solution{Solved: false}, nil
	}
	firstLine := scanner.Text()
	if !strings.Contains(firstLine, "Optimal") {
		return &model.Solution{Solved: false}, nil
	}

	meetingByTitle := make(map[string]model.DesiredMeeting, len(input.DesiredMeetings))
	for _, m := range input.DesiredMeetings {
		meetingByTitle[m.Title] = m
	}

	assignment := make(map[string]model.AssignmentEntry)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}
		varName := fields[1]
		value := fields[2]
		if value != "1" {
			continue
		}

		candidate, ok := input.Candidates[varName]
		if !ok {
			continue
		}
		meeting, ok := meetingByTitle[candidate.Title]
		if !ok {
			continue
		}
		assignment[meeting.Slug] = model.AssignmentEntry{Meeting: meeting, Candidate: *candidate}
	}

	if err := scanner.Err(); err != nil {
		return nil, &model.Error{Kind: model.KindSolver, Message: "read cbc solution", Err: err}
	}

	return &model.Solution{Solved: true, Assignment: assignment}, nil
}
