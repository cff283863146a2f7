// Package filter decides, for every file of a template, whether it is
// copied, rendered, or left out.
package filter

import (
	"errors"
	"fmt"
)

type Decision int

const (
	Skip Decision = iota
	IncludeVerbatim
	IncludeRender
)

func (d Decision) String() string {
	switch d {
	case Skip:
		return "skip"
	case IncludeVerbatim:
		return "verbatim"
	case IncludeRender:
		return "render"
	default:
		return fmt.Sprintf("Decision(%d)", int(d))
	}
}

func (d Decision) Included() bool {
	return d == IncludeVerbatim || d == IncludeRender
}

// Explanation is a decision together with the rule that produced it.
type Explanation struct {
	Decision Decision
	Reason   string
}

var (
	// ErrEvaluation marks a condition that could not be evaluated.
	ErrEvaluation = errors.New("evaluation error")
	// ErrInvalidPath marks a path that is not a clean template-relative path.
	ErrInvalidPath = errors.New("invalid template path")
)

// EvaluationError reports the condition that failed and the file that
// triggered it.
type EvaluationError struct {
	Path      string
	Condition string
	Err       error
}

func (e *EvaluationError) Error() string {
	return fmt.Sprintf("%v: %s: condition %q: %v", ErrEvaluation, e.Path, e.Condition, e.Err)
}

func (e *EvaluationError) Unwrap() []error {
	return []error{ErrEvaluation, e.Err}
}
