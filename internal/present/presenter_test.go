package present

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/sriram020204/website-prototype-sub000/internal/advisory"
	"github.com/sriram020204/website-prototype-sub000/internal/profile"
	"github.com/sriram020204/website-prototype-sub000/internal/store"
	"github.com/sriram020204/website-prototype-sub000/internal/submission"
	"github.com/sriram020204/website-prototype-sub000/internal/wizard"
)

// scriptDriver answers prompts by message. Text prompts fall back to their
// default, as does an answer the prompt's validator rejects; selects pop the
// next scripted label for that message.
type scriptDriver struct {
	inputs    map[string]string
	confirms  map[string]bool
	selects   map[string][]string
	asked     []string
	rejected  []string
	unchecked bool
	fail      error
}

func (s *scriptDriver) Input(_ context.Context, cfg InputConfig) (string, error) {
	s.asked = append(s.asked, cfg.Message)
	if s.fail != nil {
		return "", s.fail
	}
	v, ok := s.inputs[cfg.Message]
	if !ok {
		return cfg.Default, nil
	}
	if cfg.Validator != nil && !s.unchecked {
		if err := cfg.Validator(v); err != nil {
			s.rejected = append(s.rejected, v)
			return cfg.Default, nil
		}
	}
	return v, nil
}

func (s *scriptDriver) TextArea(_ context.Context, cfg TextAreaConfig) (string, error) {
	return s.Input(context.Background(), InputConfig{Message: cfg.Message, Default: cfg.Default})
}

func (s *scriptDriver) Confirm(_ context.Context, cfg ConfirmConfig) (bool, error) {
	s.asked = append(s.asked, cfg.Message)
	if v, ok := s.confirms[cfg.Message]; ok {
		return v, nil
	}
	return cfg.Default, nil
}

func (s *scriptDriver) Select(_ context.Context, cfg SelectConfig) (int, error) {
	s.asked = append(s.asked, cfg.Message)
	queue := s.selects[cfg.Message]
	if len(queue) == 0 {
		if cfg.Message == "Next" || cfg.Message == "Review" || cfg.Message == "Section" {
			return -1, fmt.Errorf("no menu choice scripted for %q", cfg.Message)
		}
		return cfg.DefaultIndex, nil
	}
	s.selects[cfg.Message] = queue[1:]
	idx := indexOf(cfg.Options, queue[0])
	if idx < 0 {
		return -1, fmt.Errorf("%q not offered in %q: %v", queue[0], cfg.Message, cfg.Options)
	}
	return idx, nil
}

func repeat(label string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = label
	}
	return out
}

func completeAnswers() *scriptDriver {
	return &scriptDriver{
		inputs: map[string]string{
			"Company Name *":         "Acme Innovations Inc.",
			"Address *":              "123 Tech Park, CA 94000",
			"Industry *":             "Software",
			"Contact Email *":        "x@acme.com",
			"Services Offered *":     "Cloud migration",
			"Employee Count *":       "25",
			"Annual Revenue *":       "1250000",
			"Headquarters Country *": "United States",
			"Operating Regions *":    "North America",
		},
		confirms: map[string]bool{"Profitable": true},
		selects: map[string][]string{
			"Revenue Currency *": {"USD"},
			"Digital Maturity *": {"advanced"},
		},
	}
}

type countingSubmitter struct{ n int }

func (c *countingSubmitter) Submit(context.Context, submission.Submission) error {
	c.n++
	return nil
}

func newWizard(t *testing.T, mem store.Store, sub *countingSubmitter) *wizard.Orchestrator {
	t.Helper()
	o, err := wizard.New(context.Background(), wizard.Options{
		Catalog: profile.Default(),
		Store:   mem,
		Advisor: advisory.AdvisorFunc(func(context.Context, advisory.Request) (*advisory.Result, error) {
			return &advisory.Result{IsValid: false, Flags: []advisory.Flag{{Field: "capabilities", Reason: "thin"}}}, nil
		}),
		Submitter: sub,
	})
	if err != nil {
		t.Fatal(err)
	}
	return o
}

func TestRun_FillAndSubmit(t *testing.T) {
	mem := store.NewMemoryStore()
	sub := &countingSubmitter{}
	w := newWizard(t, mem, sub)
	d := completeAnswers()
	d.selects["Next"] = repeat(actionContinue, 6)
	d.selects["Review"] = []string{actionAdvisory, actionSubmit}

	submitted, err := New(w, d).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if !submitted {
		t.Fatal("expected submission")
	}
	if sub.n != 1 {
		t.Fatalf("submitter calls = %d", sub.n)
	}
	if _, ok, _ := mem.Get(context.Background(), wizard.DefaultKey); ok {
		t.Fatal("snapshot should be erased after submit")
	}
	if w.Snapshot().StepIndex != 0 {
		t.Fatal("wizard should be reset")
	}
}

func TestRun_InvalidStepThenQuit(t *testing.T) {
	mem := store.NewMemoryStore()
	w := newWizard(t, mem, &countingSubmitter{})
	d := &scriptDriver{selects: map[string][]string{
		"Next": {actionContinue, actionQuit},
	}}

	submitted, err := New(w, d).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if submitted {
		t.Fatal("nothing should be submitted")
	}
	snap := w.Snapshot()
	if snap.StepIndex != 0 {
		t.Fatalf("StepIndex = %d", snap.StepIndex)
	}
	if len(snap.Errors) == 0 {
		t.Fatal("failed advance should leave field errors")
	}
}

func TestRun_SubmitHiddenUntilConsulted(t *testing.T) {
	w := newWizard(t, store.NewMemoryStore(), &countingSubmitter{})
	d := completeAnswers()
	d.selects["Next"] = repeat(actionContinue, 6)
	d.selects["Review"] = []string{actionSubmit}

	_, err := New(w, d).Run(context.Background())
	if err == nil {
		t.Fatal("submit should not be offered before the advisory check")
	}
}

func TestRun_EditSectionFromReview(t *testing.T) {
	w := newWizard(t, store.NewMemoryStore(), &countingSubmitter{})
	d := completeAnswers()
	d.selects["Next"] = append(repeat(actionContinue, 6), actionQuit)
	d.selects["Review"] = []string{actionEdit}
	d.selects["Section"] = []string{"Financial Information"}

	submitted, err := New(w, d).Run(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if submitted {
		t.Fatal("nothing should be submitted")
	}
	if got := w.Current().Section; got != profile.FinancialInfo {
		t.Fatalf("current section = %s", got)
	}
}

func TestRun_Aborted(t *testing.T) {
	w := newWizard(t, store.NewMemoryStore(), &countingSubmitter{})
	d := &scriptDriver{fail: ErrAborted}
	if _, err := New(w, d).Run(context.Background()); !errors.Is(err, ErrAborted) {
		t.Fatalf("err = %v, want ErrAborted", err)
	}
}

func TestAsk_ParsesNumbers(t *testing.T) {
	p := New(nil, &scriptDriver{inputs: map[string]string{
		"Employee Count *": " 40 ",
		"IT Staff Count":   "",
		"Annual Revenue *": "lots",
	}})
	ctx := context.Background()
	cat := profile.Default()

	caps, _ := cat.Section(profile.Capabilities)
	f, _ := caps.Field("employeeCount")
	if v, err := p.ask(ctx, f, nil); err != nil || v != float64(40) {
		t.Fatalf("employeeCount = %v, %v", v, err)
	}

	dr, _ := cat.Section(profile.DigitalReadiness)
	f, _ = dr.Field("itStaffCount")
	if v, err := p.ask(ctx, f, nil); err != nil || v != nil {
		t.Fatalf("itStaffCount = %v, %v", v, err)
	}

	fin, _ := cat.Section(profile.FinancialInfo)
	f, _ = fin.Field("annualRevenue")
	if v, err := p.ask(ctx, f, float64(5)); err != nil || v != float64(5) {
		t.Fatalf("annualRevenue = %v, %v", v, err)
	}

	f, _ = fin.Field("fundingStage")
	if v, err := p.ask(ctx, f, "seed"); err != nil || v != "seed" {
		t.Fatalf("fundingStage = %v, %v", v, err)
	}
}

func TestAsk_RejectsNonNumericText(t *testing.T) {
	d := &scriptDriver{inputs: map[string]string{"Annual Revenue *": "lots"}}
	p := New(nil, d)
	fin, _ := profile.Default().Section(profile.FinancialInfo)
	f, _ := fin.Field("annualRevenue")

	for _, typed := range []string{"lots", "NaN", "Inf", "-Infinity"} {
		d.inputs["Annual Revenue *"] = typed
		v, err := p.ask(context.Background(), f, nil)
		if err != nil || v != nil {
			t.Fatalf("%q: ask = %v, %v", typed, v, err)
		}
	}
	if len(d.rejected) != 4 {
		t.Fatalf("rejected = %q", d.rejected)
	}
}

func TestAsk_NonFiniteKeptAsText(t *testing.T) {
	d := &scriptDriver{unchecked: true, inputs: map[string]string{}}
	p := New(nil, d)
	fin, _ := profile.Default().Section(profile.FinancialInfo)
	f, _ := fin.Field("annualRevenue")

	for _, typed := range []string{"NaN", "Inf", "lots"} {
		d.inputs["Annual Revenue *"] = typed
		v, err := p.ask(context.Background(), f, nil)
		if err != nil || v != typed {
			t.Fatalf("%q: ask = %v, %v", typed, v, err)
		}
	}
}

func TestRun_NaNRevenueDoesNotStopTheWizard(t *testing.T) {
	w := newWizard(t, store.NewMemoryStore(), &countingSubmitter{})
	d := completeAnswers()
	d.unchecked = true
	d.inputs["Annual Revenue *"] = "NaN"
	d.selects["Next"] = append(repeat(actionContinue, 3), actionQuit)

	if _, err := New(w, d).Run(context.Background()); err != nil {
		t.Fatal(err)
	}
	snap := w.Snapshot()
	if got := w.Current().Section; got != profile.FinancialInfo {
		t.Fatalf("current section = %s", got)
	}
	if len(snap.Errors) != 1 || snap.Errors[0].Field != "annualRevenue" {
		t.Fatalf("Errors = %v", snap.Errors)
	}
}
