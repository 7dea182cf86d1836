// Package present walks a user through the wizard in the terminal. It only
// consumes the orchestrator: every decision about validity, staleness and
// gating is made there.
package present

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/sriram020204/website-prototype-sub000/internal/advisory"
	"github.com/sriram020204/website-prototype-sub000/internal/profile"
	"github.com/sriram020204/website-prototype-sub000/internal/state"
	"github.com/sriram020204/website-prototype-sub000/internal/ux"
	"github.com/sriram020204/website-prototype-sub000/internal/wizard"
)

// Wizard is the orchestrator surface the presenter drives.
type Wizard interface {
	Catalog() *profile.Catalog
	Steps() []state.Step
	Snapshot() state.State
	SessionID() string
	Set(id profile.SectionID, key string, value any) error
	Advance(ctx context.Context) error
	Retreat() error
	GoTo(index int) error
	RequestAdvisoryValidation(ctx context.Context) (*advisory.Result, error)
	Submit(ctx context.Context) (wizard.Outcome, error)
}

// Menu labels.
const (
	actionContinue = "Continue"
	actionBack     = "Back"
	actionQuit     = "Save and quit"
	actionAdvisory = "Run advisory check"
	actionSubmit   = "Submit profile"
	actionEdit     = "Edit a section"
	noChoice       = "(none)"
)

// longText fields get a multi-line editor.
const longText = 1000

// Presenter renders one step at a time and maps menu choices onto wizard
// transitions.
type Presenter struct {
	w      Wizard
	driver PromptDriver
}

func New(w Wizard, driver PromptDriver) *Presenter {
	if driver == nil {
		driver = NewSurveyDriver()
	}
	return &Presenter{w: w, driver: driver}
}

// Run loops until the profile is submitted (true) or the user quits
// (false). Interrupting a prompt returns ErrAborted.
func (p *Presenter) Run(ctx context.Context) (bool, error) {
	for {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		steps := p.w.Steps()
		snap := p.w.Snapshot()
		step := steps[snap.StepIndex]
		desc := ""
		if spec, ok := p.w.Catalog().Section(step.Section); ok {
			desc = spec.Description
		}
		ux.StepHeader(snap.StepIndex, len(steps), step.Title, desc)

		var (
			done, quit bool
			err        error
		)
		if step.IsReview() {
			done, quit, err = p.review(ctx, snap)
		} else {
			quit, err = p.section(ctx, step, snap)
		}
		if err != nil {
			return false, err
		}
		if done {
			return true, nil
		}
		if quit {
			return false, nil
		}
	}
}

func (p *Presenter) section(ctx context.Context, step state.Step, snap state.State) (bool, error) {
	spec, _ := p.w.Catalog().Section(step.Section)
	ux.FieldErrors(snap.Errors)
	for _, f := range spec.Fields {
		cur := snap.Profile[step.Section][f.Key]
		v, err := p.ask(ctx, f, cur)
		if err != nil {
			return false, err
		}
		if err := p.w.Set(step.Section, f.Key, v); err != nil {
			return false, err
		}
	}

	options := []string{actionContinue}
	if snap.StepIndex > 0 {
		options = append(options, actionBack)
	}
	options = append(options, actionQuit)
	choice, err := p.choose(ctx, "Next", options)
	if err != nil {
		return false, err
	}
	switch choice {
	case actionContinue:
		err := p.w.Advance(ctx)
		var ve *wizard.ValidationError
		if errors.As(err, &ve) {
			return false, nil
		}
		if err != nil {
			return false, err
		}
		ux.StepComplete(snap.StepIndex, step.Title)
	case actionBack:
		return false, p.w.Retreat()
	case actionQuit:
		return true, nil
	}
	return false, nil
}

func (p *Presenter) review(ctx context.Context, snap state.State) (done, quit bool, err error) {
	steps := p.w.Steps()
	ux.ReviewSummary(p.w.Catalog(), snap.Profile)
	ux.FieldErrors(snap.Errors)
	if snap.Advisory != nil {
		ux.AdvisoryFlags(&snap.Advisory.Result)
	}

	options := []string{actionAdvisory}
	if snap.CanSubmit(steps) {
		options = append(options, actionSubmit)
	}
	options = append(options, actionEdit, actionBack, actionQuit)
	choice, err := p.choose(ctx, "Review", options)
	if err != nil {
		return false, false, err
	}

	switch choice {
	case actionAdvisory:
		res, err := p.w.RequestAdvisoryValidation(ctx)
		switch {
		case errors.Is(err, wizard.ErrFormIncomplete):
			ux.Notice("the profile is incomplete; fix the fields listed above first")
		case errors.Is(err, wizard.ErrAdvisoryFailed), errors.Is(err, wizard.ErrStaleAdvisory):
			ux.Notice(err.Error() + "; try again")
		case err != nil:
			return false, false, err
		default:
			ux.AdvisoryFlags(res)
		}
	case actionSubmit:
		id := p.w.SessionID()
		outcome, err := p.w.Submit(ctx)
		switch outcome {
		case wizard.OutcomeSubmitted:
			ux.Success(id)
			return true, false, nil
		case wizard.OutcomeBlocked:
			ux.Blocked(err.Error())
		case wizard.OutcomeFailed:
			ux.Notice(err.Error() + "; your advisory check still counts, submit again to retry")
		}
	case actionEdit:
		titles := make([]string, 0, len(steps)-1)
		for _, s := range steps[:len(steps)-1] {
			titles = append(titles, s.Title)
		}
		idx, err := p.driver.Select(ctx, SelectConfig{Message: "Section", Options: titles})
		if err != nil {
			return false, false, err
		}
		if idx >= 0 {
			return false, false, p.w.GoTo(idx)
		}
	case actionBack:
		return false, false, p.w.Retreat()
	case actionQuit:
		return false, true, nil
	}
	return false, false, nil
}

func (p *Presenter) choose(ctx context.Context, msg string, options []string) (string, error) {
	idx, err := p.driver.Select(ctx, SelectConfig{Message: msg, Options: options})
	if err != nil {
		return "", err
	}
	if idx < 0 || idx >= len(options) {
		return "", errors.New("present: invalid menu choice")
	}
	return options[idx], nil
}

// ask prompts for one field and returns the value to store. Numbers are
// parsed when they parse; anything else is kept as typed so the validator
// can report it.
func (p *Presenter) ask(ctx context.Context, f profile.Field, cur any) (any, error) {
	label := f.Label
	if f.Required {
		label += " *"
	}
	switch f.Kind {
	case profile.KindBool:
		b, _ := cur.(bool)
		return p.driver.Confirm(ctx, ConfirmConfig{Message: label, Default: b, Help: f.Help})

	case profile.KindChoice:
		options := append([]string(nil), f.Options...)
		if !f.Required {
			options = append([]string{noChoice}, options...)
		}
		s, _ := cur.(string)
		def := indexOf(options, s)
		if def < 0 {
			def = 0
		}
		idx, err := p.driver.Select(ctx, SelectConfig{Message: label, Options: options, DefaultIndex: def, Help: f.Help})
		if err != nil {
			return nil, err
		}
		if idx < 0 || options[idx] == noChoice {
			return "", nil
		}
		return options[idx], nil

	case profile.KindNumber, profile.KindInteger:
		raw, err := p.driver.Input(ctx, InputConfig{Message: label, Default: formatValue(cur), Help: f.Help, Validator: numberText})
		if err != nil {
			return nil, err
		}
		raw = strings.TrimSpace(raw)
		if raw == "" {
			return nil, nil
		}
		if n, ok := parseFinite(raw); ok {
			return n, nil
		}
		return raw, nil
	}

	def, _ := cur.(string)
	if f.MaxLength >= longText {
		return p.driver.TextArea(ctx, TextAreaConfig{Message: label, Default: def, Help: f.Help})
	}
	return p.driver.Input(ctx, InputConfig{Message: label, Default: def, Help: f.Help})
}

// numberText accepts blank input or a finite number.
func numberText(s string) error {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if _, ok := parseFinite(s); !ok {
		return fmt.Errorf("%q is not a number", s)
	}
	return nil
}

func parseFinite(s string) (float64, bool) {
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0, false
	}
	return n, true
}

func formatValue(v any) string {
	switch t := v.(type) {
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		return t
	}
	return ""
}
