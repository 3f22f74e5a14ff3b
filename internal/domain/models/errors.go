package models

import (
	"fmt"
	"strings"
	"time"
)

// MissingColumnError reports a required column absent from an input table.
type MissingColumnError struct {
	Table  string
	Column string
}

func (e *MissingColumnError) Error() string {
	return fmt.Sprintf("table %s is missing required column %q", e.Table, e.Column)
}

// UnknownCropError reports a field whose crop has no requirement entry.
type UnknownCropError struct {
	Field string
	Crop  string
}

func (e *UnknownCropError) Error() string {
	return fmt.Sprintf("field %q references crop %q which is not in the requirements table", e.Field, e.Crop)
}

// PrecheckInfeasibleError carries every diagnostic produced by the
// feasibility precheck. The presence of any diagnostic aborts the pipeline
// before a solve is attempted.
type PrecheckInfeasibleError struct {
	Diagnostics []string
}

func (e *PrecheckInfeasibleError) Error() string {
	return fmt.Sprintf("infeasible before solve: %s", strings.Join(e.Diagnostics, "; "))
}

// SolverNonOptimalError reports an LP solve that did not reach a provably
// optimal solution. Status is one of "Infeasible", "Unbounded" or "Undefined".
type SolverNonOptimalError struct {
	Status string
	Err    error
}

func (e *SolverNonOptimalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("solver finished %s: %v", e.Status, e.Err)
	}
	return fmt.Sprintf("solver finished %s", e.Status)
}

func (e *SolverNonOptimalError) Unwrap() error { return e.Err }

// SolverTimeoutError reports a solve abandoned because its context deadline
// expired before the solver returned.
type SolverTimeoutError struct {
	Elapsed time.Duration
}

func (e *SolverTimeoutError) Error() string {
	return fmt.Sprintf("solver timed out after %s", e.Elapsed)
}
