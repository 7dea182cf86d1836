package wizard

import "github.com/sriram020204/website-prototype-sub000/internal/state"

// Errors returned by the Orchestrator. They are the state package's
// sentinels, re-exported so callers only import wizard.
var (
	ErrAtFirstStep       = state.ErrAtFirstStep
	ErrNotAtReview       = state.ErrNotAtReview
	ErrInvalidStep       = state.ErrInvalidStep
	ErrUnknownField      = state.ErrUnknownField
	ErrBusy              = state.ErrBusy
	ErrFormIncomplete    = state.ErrFormIncomplete
	ErrAdvisoryFailed    = state.ErrAdvisoryFailed
	ErrStaleAdvisory     = state.ErrStaleAdvisory
	ErrSubmissionBlocked = state.ErrSubmissionBlocked
	ErrSubmissionFailed  = state.ErrSubmissionFailed
)

// ValidationError carries the field errors that blocked a transition.
type ValidationError = state.ValidationError
