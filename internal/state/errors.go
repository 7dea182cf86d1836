package state

import (
	"errors"
	"fmt"

	"github.com/sriram020204/website-prototype-sub000/internal/validate"
)

var (
	// ErrAtFirstStep is returned by Retreat on step 0.
	ErrAtFirstStep = errors.New("wizard: already at the first step")
	// ErrAtReview is returned by the section transition when the review step
	// is current; advancing from review means submitting.
	ErrAtReview = errors.New("wizard: already at the review step")
	// ErrNotAtReview guards operations only the review step allows.
	ErrNotAtReview = errors.New("wizard: only available at the review step")
	// ErrInvalidStep is returned for out-of-range or forward jumps.
	ErrInvalidStep = errors.New("wizard: invalid step")
	// ErrUnknownField is returned when editing a field the catalog lacks.
	ErrUnknownField = errors.New("wizard: unknown field")
	// ErrBusy rejects a call while another of the same kind is in flight.
	ErrBusy = errors.New("wizard: another request is in flight")
	// ErrFormIncomplete aborts advisory validation when the profile fails
	// structural validation.
	ErrFormIncomplete = errors.New("wizard: form incomplete")
	// ErrAdvisoryFailed wraps a failure of the advisory service. Retry
	// explicitly.
	ErrAdvisoryFailed = errors.New("wizard: advisory validation failed")
	// ErrStaleAdvisory reports a response discarded because the data
	// changed while the call was in flight.
	ErrStaleAdvisory = errors.New("wizard: advisory result is stale")
	// ErrSubmissionBlocked means the advisor was not consulted for the
	// current data.
	ErrSubmissionBlocked = errors.New("wizard: submission blocked: run advisory validation on the current data first")
	// ErrSubmissionFailed wraps a failure of the submission side effect. The
	// advisory result is kept so the submission can be retried directly.
	ErrSubmissionFailed = errors.New("wizard: submission failed")
)

// ValidationError carries the field errors that blocked a transition.
type ValidationError struct {
	Step   string
	Fields validate.Errors
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("wizard: step %q has %d invalid field(s)", e.Step, len(e.Fields))
}

// Unwrap lets errors.Is match ErrFormIncomplete for whole-profile failures.
func (e *ValidationError) Unwrap() error {
	if e.Step == ReviewStep {
		return ErrFormIncomplete
	}
	return nil
}
