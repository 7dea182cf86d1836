package wizard

import (
	"fmt"

	"github.com/sriram020204/website-prototype-sub000/internal/state"
	"github.com/sriram020204/website-prototype-sub000/internal/validate"
)

// StepProgress is the outcome of checking one step against the current data.
type StepProgress struct {
	Step     state.Step
	Complete bool
	Errors   validate.Errors
}

// Progress summarises how far the profile is from being submittable. It is
// computed from the data alone and does not move the wizard.
type Progress struct {
	Steps []StepProgress
	// NextStep is the first incomplete section, or the review step once
	// every section passes.
	NextStep int
	// Ready means every section passes structural validation.
	Ready bool
	// UnmetReasons lists one line per failing field.
	UnmetReasons []string
}

// Progress validates every section of the current profile.
func (o *Orchestrator) Progress() Progress {
	o.mu.Lock()
	st := o.st.Clone()
	o.mu.Unlock()
	return Evaluate(o.steps, o.validator, st)
}

// Evaluate computes Progress for st. It is exported for tools that inspect a
// stored snapshot without running a wizard.
func Evaluate(steps []state.Step, v state.Validator, st state.State) Progress {
	p := Progress{NextStep: -1}
	for i, step := range steps {
		if step.IsReview() {
			p.Steps = append(p.Steps, StepProgress{Step: step})
			continue
		}
		errs := v.Validate(step.Section, st.Profile[step.Section])
		p.Steps = append(p.Steps, StepProgress{Step: step, Complete: len(errs) == 0, Errors: errs})
		if len(errs) > 0 && p.NextStep < 0 {
			p.NextStep = i
		}
		for _, fe := range errs {
			p.UnmetReasons = append(p.UnmetReasons, fmt.Sprintf("%s: %s", step.Title, fe.Message))
		}
	}
	if p.NextStep < 0 {
		p.Ready = true
		p.NextStep = len(steps) - 1
	}
	return p
}
