package model

import "fmt"

// Kind classifies an Error into the taxonomy of §7: input, config,
// provider, solver, and booking errors. Solver "errors" are surfaced as
// infeasibility rather than being fatal; the others abort the run.
type Kind string

const (
	KindInput    Kind = "input"
	KindConfig   Kind = "config"
	KindProvider Kind = "provider"
	KindSolver   Kind = "solver"
	KindBooking  Kind = "booking"
)

// Error is a typed, taxonomy-tagged error. It mirrors the shape of
// joaldelo-meetsync's AppError, adapted from HTTP status codes to the
// CLI's exit-code/log-level decision in cmd.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Fatal reports whether errors of this kind should abort the process
// immediately (as opposed to solver errors, which are folded into an
// unsolved Solution and handled by the orchestrator's normal return path).
func (k Kind) Fatal() bool {
	return k != KindSolver
}
