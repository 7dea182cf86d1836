// Package wizard drives a company profile through its steps. The Orchestrator
// owns the current state.State and coordinates validation, persistence, the
// advisory service and the final submission around it.
package wizard

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sriram020204/website-prototype-sub000/internal/advisory"
	"github.com/sriram020204/website-prototype-sub000/internal/profile"
	"github.com/sriram020204/website-prototype-sub000/internal/state"
	"github.com/sriram020204/website-prototype-sub000/internal/store"
	"github.com/sriram020204/website-prototype-sub000/internal/submission"
	"github.com/sriram020204/website-prototype-sub000/internal/validate"
)

// DefaultKey is the store key holding the profile snapshot.
const DefaultKey = "companyProfileWizardData"

// Options configures an Orchestrator. Catalog, Store and Advisor are required.
type Options struct {
	Catalog *profile.Catalog
	// Validator defaults to a validate.Validator built from Catalog.
	Validator state.Validator
	Store     store.Store
	// Key defaults to DefaultKey.
	Key string
	// SaveDelay debounces snapshot writes. Zero writes on every change.
	SaveDelay time.Duration
	Advisor   advisory.Advisor
	// Submitter defaults to submission.Nop.
	Submitter submission.Submitter
	Logger    *slog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

// Outcome classifies a Submit call.
type Outcome int

const (
	// OutcomeBlocked means nothing was sent: the gate refused the call.
	OutcomeBlocked Outcome = iota
	// OutcomeFailed means the submission side effect returned an error.
	OutcomeFailed
	// OutcomeSubmitted means the profile was delivered and the wizard reset.
	OutcomeSubmitted
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBlocked:
		return "blocked"
	case OutcomeFailed:
		return "failed"
	case OutcomeSubmitted:
		return "submitted"
	}
	return fmt.Sprintf("Outcome(%d)", int(o))
}

// Orchestrator is safe for concurrent use. The mutex is never held across
// an advisory or submission call; staleness is detected with the state's
// Version instead.
type Orchestrator struct {
	cat       *profile.Catalog
	validator state.Validator
	store     store.Store
	key       string
	saver     *store.Saver
	advisor   advisory.Advisor
	submitter submission.Submitter
	log       *slog.Logger
	now       func() time.Time
	steps     []state.Step

	mu        sync.Mutex
	st        state.State
	sessionID string
	resumed   bool
}

// New builds an Orchestrator and hydrates it from the stored snapshot, if
// any. A missing, unreadable or corrupt snapshot never fails construction.
func New(ctx context.Context, opts Options) (*Orchestrator, error) {
	if opts.Catalog == nil {
		return nil, errors.New("wizard: catalog is required")
	}
	if opts.Store == nil {
		return nil, errors.New("wizard: store is required")
	}
	if opts.Advisor == nil {
		return nil, errors.New("wizard: advisor is required")
	}
	if opts.Key == "" {
		opts.Key = DefaultKey
	}
	if err := store.ValidateKey(opts.Key); err != nil {
		return nil, fmt.Errorf("wizard: %w", err)
	}
	if opts.Validator == nil {
		v, err := validate.New(opts.Catalog)
		if err != nil {
			return nil, fmt.Errorf("wizard: %w", err)
		}
		opts.Validator = v
	}
	if opts.Submitter == nil {
		opts.Submitter = submission.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	o := &Orchestrator{
		cat:       opts.Catalog,
		validator: opts.Validator,
		store:     opts.Store,
		key:       opts.Key,
		saver:     store.NewSaver(opts.Store, opts.Key, opts.SaveDelay, opts.Logger),
		advisor:   opts.Advisor,
		submitter: opts.Submitter,
		log:       opts.Logger,
		now:       opts.Now,
		steps:     state.Steps(opts.Catalog),
		sessionID: uuid.NewString(),
	}
	p, resumed := o.hydrate(ctx)
	o.st = state.New(p)
	o.resumed = resumed
	o.log.Debug("wizard started", "session", o.sessionID, "resumed", resumed, "steps", len(o.steps))
	return o, nil
}

func (o *Orchestrator) hydrate(ctx context.Context) (profile.Profile, bool) {
	raw, ok, err := o.store.Get(ctx, o.key)
	if err != nil {
		o.log.Warn("reading snapshot failed, starting empty", "key", o.key, "error", err)
		return o.cat.Defaults(), false
	}
	if !ok {
		return o.cat.Defaults(), false
	}
	p, err := o.cat.Decode([]byte(raw))
	if err != nil {
		o.log.Warn("discarding corrupt snapshot", "key", o.key, "error", err)
		if err := o.store.Delete(ctx, o.key); err != nil {
			o.log.Warn("deleting corrupt snapshot failed", "key", o.key, "error", err)
		}
		return o.cat.Defaults(), false
	}
	return p, true
}

// Resumed reports whether construction restored a stored snapshot.
func (o *Orchestrator) Resumed() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.resumed
}

// SessionID identifies the current fill-in session. It is also the
// submission ID, so retries of a failed submission reuse it.
func (o *Orchestrator) SessionID() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.sessionID
}

func (o *Orchestrator) Catalog() *profile.Catalog { return o.cat }

// Steps returns the ordered steps, review last.
func (o *Orchestrator) Steps() []state.Step {
	return append([]state.Step(nil), o.steps...)
}

// Snapshot returns a copy of the current state.
func (o *Orchestrator) Snapshot() state.State {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.st.Clone()
}

// Current returns the current step.
func (o *Orchestrator) Current() state.Step {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.steps[o.st.StepIndex]
}

// Errors returns the field errors from the last failed transition.
func (o *Orchestrator) Errors() validate.Errors {
	o.mu.Lock()
	defer o.mu.Unlock()
	return append(validate.Errors(nil), o.st.Errors...)
}

// Set edits one field.
func (o *Orchestrator) Set(id profile.SectionID, key string, value any) error {
	return o.Update(id, profile.Section{key: value})
}

// Update edits several fields of one section as a single change.
func (o *Orchestrator) Update(id profile.SectionID, values profile.Section) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	next, err := o.st.Update(o.cat, id, values)
	if err != nil {
		return err
	}
	if next.Version == o.st.Version {
		return nil
	}
	o.st = next
	o.persistLocked()
	return nil
}

func (o *Orchestrator) persistLocked() {
	data, err := profile.Encode(o.st.Profile)
	if err != nil {
		o.log.Warn("encoding snapshot failed", "error", err)
		return
	}
	o.saver.Schedule(string(data))
}

// Advance validates the current section and moves forward. On the review
// step it submits instead.
func (o *Orchestrator) Advance(ctx context.Context) error {
	o.mu.Lock()
	if o.st.AtReview(o.steps) {
		o.mu.Unlock()
		_, err := o.Submit(ctx)
		return err
	}
	defer o.mu.Unlock()
	from := o.st.StepIndex
	next, err := o.st.Advance(o.steps, o.validator)
	o.st = next
	if err != nil {
		o.log.Debug("advance refused", "step", o.steps[from].ID, "error", err)
		return err
	}
	o.log.Debug("advanced", "from", o.steps[from].ID, "to", o.steps[next.StepIndex].ID)
	return nil
}

// Retreat moves back one step without validation.
func (o *Orchestrator) Retreat() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	next, err := o.st.Retreat(o.steps)
	if err != nil {
		return err
	}
	o.st = next
	o.log.Debug("retreated", "to", o.steps[next.StepIndex].ID)
	return nil
}

// GoTo jumps back to an earlier step.
func (o *Orchestrator) GoTo(index int) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	next, err := o.st.GoTo(o.steps, index)
	if err != nil {
		return err
	}
	o.st = next
	o.log.Debug("jumped", "to", o.steps[next.StepIndex].ID)
	return nil
}

// RequestAdvisoryValidation checks the whole profile and, if it is
// structurally complete, asks the advisory service for a verdict. A response
// that arrives after the data changed is discarded with ErrStaleAdvisory.
func (o *Orchestrator) RequestAdvisoryValidation(ctx context.Context) (*advisory.Result, error) {
	o.mu.Lock()
	next, token, err := o.st.BeginAdvisory(o.steps, o.validator)
	o.st = next
	if err != nil {
		o.mu.Unlock()
		return nil, err
	}
	req := advisory.BuildRequest(o.cat, o.st.Profile)
	o.mu.Unlock()

	o.log.Debug("requesting advisory validation", "version", token)
	res, callErr := o.advisor.Assess(ctx, req)

	o.mu.Lock()
	defer o.mu.Unlock()
	next, err = o.st.FinishAdvisory(token, res, callErr)
	o.st = next
	if err != nil {
		if errors.Is(err, ErrStaleAdvisory) {
			o.log.Warn("discarding stale advisory response", "issued", token, "current", o.st.Version)
		}
		return nil, err
	}
	out := o.st.Advisory.Result
	out.Flags = append([]advisory.Flag{}, out.Flags...)
	o.log.Debug("advisory validation done", "valid", out.IsValid, "flags", len(out.Flags))
	return &out, nil
}

// Submit delivers the profile. The call is blocked unless the advisory
// service was consulted for the current data; its verdict does not matter.
// On success the snapshot is erased and the wizard starts over.
func (o *Orchestrator) Submit(ctx context.Context) (Outcome, error) {
	o.mu.Lock()
	next, err := o.st.BeginSubmit(o.steps)
	if err != nil {
		o.mu.Unlock()
		if errors.Is(err, ErrSubmissionBlocked) {
			o.log.Info("submission blocked", "reason", "advisory validation required")
		}
		return OutcomeBlocked, err
	}
	o.st = next
	res := o.st.Advisory.Result
	res.Flags = append([]advisory.Flag{}, res.Flags...)
	sub := submission.Submission{
		ID:          o.sessionID,
		SubmittedAt: o.now().UTC(),
		Profile:     o.st.Profile.Clone(),
		Advisory:    &res,
	}
	o.mu.Unlock()

	callErr := o.submitter.Submit(ctx, sub)

	o.mu.Lock()
	defer o.mu.Unlock()
	if callErr != nil {
		next, err := o.st.FailSubmit(callErr)
		o.st = next
		o.log.Warn("submission failed", "id", sub.ID, "error", callErr)
		return OutcomeFailed, err
	}

	o.saver.Cancel()
	if err := o.store.Delete(ctx, o.key); err != nil {
		o.log.Warn("erasing snapshot failed", "key", o.key, "error", err)
	}
	o.st = o.st.Reset(o.cat.Defaults())
	o.sessionID = uuid.NewString()
	o.resumed = false
	o.log.Info("profile submitted", "id", sub.ID)
	return OutcomeSubmitted, nil
}

// Close writes any pending snapshot.
func (o *Orchestrator) Close() error {
	o.saver.Flush()
	return nil
}
