// Package state holds the wizard state as a plain value. Every transition is
// a method that returns the next State and leaves the receiver untouched.
package state

import (
	"fmt"

	"github.com/sriram020204/website-prototype-sub000/internal/advisory"
	"github.com/sriram020204/website-prototype-sub000/internal/profile"
	"github.com/sriram020204/website-prototype-sub000/internal/validate"
)

// ReviewStep is the ID of the terminal step.
const ReviewStep = "review"

// Step is one position in the wizard. Section is empty for the review step.
type Step struct {
	ID      string
	Title   string
	Section profile.SectionID
}

func (s Step) IsReview() bool { return s.ID == ReviewStep }

// Steps returns one step per catalog section followed by the review step.
func Steps(cat *profile.Catalog) []Step {
	sections := cat.Sections()
	steps := make([]Step, 0, len(sections)+1)
	for _, s := range sections {
		steps = append(steps, Step{ID: string(s.ID), Title: s.Title, Section: s.ID})
	}
	return append(steps, Step{ID: ReviewStep, Title: "Review & Submit"})
}

// Validator is the structural check the transitions gate on.
type Validator interface {
	Validate(id profile.SectionID, data profile.Section) validate.Errors
	ValidateAll(p profile.Profile) validate.Errors
}

// Advisory is a stored verdict and the Version it was issued for.
type Advisory struct {
	Result  advisory.Result
	Version uint64
}

type State struct {
	StepIndex int
	Profile   profile.Profile
	// Validity records the outcome of the last check of each step. Edits
	// drop the entry; nothing is trusted forward without re-validation.
	Validity map[string]bool
	Advisory *Advisory
	// Version is a generation counter. Every change that invalidates an
	// advisory verdict bumps it: data edits, leaving review, reset.
	Version         uint64
	AdvisoryPending bool
	Submitting      bool
	// Errors are the field errors surfaced by the last failed transition.
	Errors validate.Errors
}

// New returns the initial state for p: step 0, no advisory result.
func New(p profile.Profile) State {
	return State{Profile: p, Validity: make(map[string]bool)}
}

// Clone returns a deep copy.
func (s State) Clone() State {
	out := s
	out.Profile = s.Profile.Clone()
	out.Validity = make(map[string]bool, len(s.Validity))
	for k, v := range s.Validity {
		out.Validity[k] = v
	}
	if s.Advisory != nil {
		a := *s.Advisory
		a.Result.Flags = append([]advisory.Flag(nil), s.Advisory.Result.Flags...)
		out.Advisory = &a
	}
	out.Errors = append(validate.Errors(nil), s.Errors...)
	return out
}

// AtReview reports whether the current step is the review step.
func (s State) AtReview(steps []Step) bool {
	return s.StepIndex == len(steps)-1
}

// Edit sets one field. Unchanged values leave the state as is; any real
// change bumps Version and drops the advisory result.
func (s State) Edit(cat *profile.Catalog, id profile.SectionID, key string, value any) (State, error) {
	return s.Update(cat, id, profile.Section{key: value})
}

// Update sets several fields of one section as a single change.
func (s State) Update(cat *profile.Catalog, id profile.SectionID, values profile.Section) (State, error) {
	if s.Submitting {
		return s, ErrBusy
	}
	spec, ok := cat.Section(id)
	if !ok {
		return s, fmt.Errorf("%w: section %q", ErrUnknownField, id)
	}
	normalized := make(profile.Section, len(values))
	for key, raw := range values {
		if _, ok := spec.Field(key); !ok {
			return s, fmt.Errorf("%w: %s.%s", ErrUnknownField, id, key)
		}
		v, err := profile.NormalizeValue(raw)
		if err != nil {
			return s, fmt.Errorf("wizard: %s.%s: %w", id, key, err)
		}
		normalized[key] = v
	}

	changed := false
	for key, v := range normalized {
		if cur, ok := s.Profile.Get(id, key); !ok || cur != v {
			changed = true
			break
		}
	}
	if !changed {
		return s, nil
	}

	next := s.Clone()
	if next.Profile == nil {
		next.Profile = make(profile.Profile)
	}
	sec := next.Profile[id]
	if sec == nil {
		sec = make(profile.Section)
		next.Profile[id] = sec
	}
	kept := next.Errors[:0]
	for _, fe := range next.Errors {
		if _, edited := normalized[fe.Field]; edited && fe.Section == id {
			continue
		}
		kept = append(kept, fe)
	}
	next.Errors = kept
	for key, v := range normalized {
		sec[key] = v
	}
	delete(next.Validity, string(id))
	next.invalidate()
	return next, nil
}

func (s *State) invalidate() {
	s.Version++
	s.Advisory = nil
}

// Advance validates the current section against the current data and moves
// forward one step on success. On failure only Errors and Validity change.
func (s State) Advance(steps []Step, v Validator) (State, error) {
	if s.Submitting {
		return s, ErrBusy
	}
	if s.AtReview(steps) {
		return s, ErrAtReview
	}
	step := steps[s.StepIndex]
	next := s.Clone()
	errs := v.Validate(step.Section, next.Profile[step.Section])
	if len(errs) > 0 {
		next.Validity[step.ID] = false
		next.Errors = errs
		return next, &ValidationError{Step: step.ID, Fields: errs}
	}
	next.Validity[step.ID] = true
	next.Errors = nil
	next.Advisory = nil
	next.StepIndex++
	return next, nil
}

// Retreat moves back one step without validation.
func (s State) Retreat(steps []Step) (State, error) {
	if s.StepIndex == 0 {
		return s, ErrAtFirstStep
	}
	return s.GoTo(steps, s.StepIndex-1)
}

// GoTo jumps back to an earlier step. Leaving review invalidates any verdict,
// including one still in flight.
func (s State) GoTo(steps []Step, index int) (State, error) {
	if s.Submitting {
		return s, ErrBusy
	}
	if index < 0 || index > s.StepIndex || index >= len(steps) {
		return s, fmt.Errorf("%w: %d", ErrInvalidStep, index)
	}
	if index == s.StepIndex {
		return s, nil
	}
	next := s.Clone()
	if s.AtReview(steps) {
		next.invalidate()
	}
	next.StepIndex = index
	next.Errors = nil
	return next, nil
}

// BeginAdvisory runs whole-profile validation and, on success, marks an
// advisory call as pending. The returned token must be handed back to
// FinishAdvisory.
func (s State) BeginAdvisory(steps []Step, v Validator) (State, uint64, error) {
	if !s.AtReview(steps) {
		return s, 0, ErrNotAtReview
	}
	if s.AdvisoryPending || s.Submitting {
		return s, 0, ErrBusy
	}
	next := s.Clone()
	if errs := v.ValidateAll(next.Profile); len(errs) > 0 {
		next.Errors = errs
		return next, 0, &ValidationError{Step: ReviewStep, Fields: errs}
	}
	next.Errors = nil
	next.Advisory = nil
	next.AdvisoryPending = true
	return next, next.Version, nil
}

// FinishAdvisory records the outcome of the call started with token. A
// response for an older Version is discarded.
func (s State) FinishAdvisory(token uint64, res *advisory.Result, callErr error) (State, error) {
	next := s.Clone()
	next.AdvisoryPending = false
	if callErr != nil {
		return next, fmt.Errorf("%w: %w", ErrAdvisoryFailed, callErr)
	}
	if res == nil {
		return next, fmt.Errorf("%w: empty response", ErrAdvisoryFailed)
	}
	if token != s.Version {
		return next, ErrStaleAdvisory
	}
	r := *res
	r.Flags = append([]advisory.Flag{}, res.Flags...)
	next.Advisory = &Advisory{Result: r, Version: token}
	return next, nil
}

// CanSubmit reports whether the advisor was consulted for the current data.
// The verdict itself does not matter.
func (s State) CanSubmit(steps []Step) bool {
	return s.AtReview(steps) && s.Advisory != nil && s.Advisory.Version == s.Version
}

// BeginSubmit marks a submission as in flight.
func (s State) BeginSubmit(steps []Step) (State, error) {
	if !s.AtReview(steps) {
		return s, ErrNotAtReview
	}
	if s.Submitting || s.AdvisoryPending {
		return s, ErrBusy
	}
	if !s.CanSubmit(steps) {
		return s, ErrSubmissionBlocked
	}
	next := s.Clone()
	next.Submitting = true
	next.Errors = nil
	return next, nil
}

// FailSubmit clears the busy flag and keeps everything else, advisory result
// included.
func (s State) FailSubmit(cause error) (State, error) {
	next := s.Clone()
	next.Submitting = false
	return next, fmt.Errorf("%w: %w", ErrSubmissionFailed, cause)
}

// Reset returns the initial state for defaults. Version keeps counting so
// responses issued before the reset stay stale.
func (s State) Reset(defaults profile.Profile) State {
	next := New(defaults)
	next.Version = s.Version + 1
	return next
}
