package state

import (
	"errors"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sriram020204/website-prototype-sub000/internal/advisory"
	"github.com/sriram020204/website-prototype-sub000/internal/profile"
	"github.com/sriram020204/website-prototype-sub000/internal/validate"
)

// stubValidator fails any section listed in failing.
type stubValidator struct {
	failing map[profile.SectionID]bool
	calls   []profile.SectionID
}

func (v *stubValidator) Validate(id profile.SectionID, _ profile.Section) validate.Errors {
	v.calls = append(v.calls, id)
	if v.failing[id] {
		return validate.Errors{{Section: id, Field: "x", Message: "x is required"}}
	}
	return nil
}

func (v *stubValidator) ValidateAll(p profile.Profile) validate.Errors {
	var out validate.Errors
	for id := range v.failing {
		out = append(out, validate.FieldError{Section: id, Field: "x", Message: "x is required"})
	}
	return out
}

func fixture(t *testing.T) (*profile.Catalog, []Step, State) {
	t.Helper()
	cat := profile.Default()
	return cat, Steps(cat), New(cat.Defaults())
}

func atReview(t *testing.T, steps []Step, s State) State {
	t.Helper()
	v := &stubValidator{}
	for !s.AtReview(steps) {
		var err error
		if s, err = s.Advance(steps, v); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func TestSteps(t *testing.T) {
	cat, steps, _ := fixture(t)
	if len(steps) != len(cat.Sections())+1 {
		t.Fatalf("len(steps) = %d", len(steps))
	}
	if steps[0].Section != profile.CompanyDetails {
		t.Fatalf("first step = %q", steps[0].ID)
	}
	if !steps[len(steps)-1].IsReview() {
		t.Fatal("last step should be review")
	}
}

func TestNew(t *testing.T) {
	_, _, s := fixture(t)
	if s.StepIndex != 0 || s.Advisory != nil || s.Version != 0 {
		t.Fatalf("unexpected initial state: %+v", s)
	}
}

func TestAdvance_IncrementsByOne(t *testing.T) {
	_, steps, s := fixture(t)
	v := &stubValidator{}
	for i := 0; i < len(steps)-1; i++ {
		next, err := s.Advance(steps, v)
		if err != nil {
			t.Fatal(err)
		}
		if next.StepIndex != s.StepIndex+1 {
			t.Fatalf("StepIndex = %d, want %d", next.StepIndex, s.StepIndex+1)
		}
		if !next.Validity[steps[i].ID] {
			t.Fatalf("step %q not marked valid", steps[i].ID)
		}
		s = next
	}
	if _, err := s.Advance(steps, v); !errors.Is(err, ErrAtReview) {
		t.Fatalf("advance at review: %v", err)
	}
}

func TestAdvance_FailureStays(t *testing.T) {
	_, steps, s := fixture(t)
	v := &stubValidator{failing: map[profile.SectionID]bool{profile.CompanyDetails: true}}
	next, err := s.Advance(steps, v)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("err = %v, want *ValidationError", err)
	}
	if ve.Step != string(profile.CompanyDetails) || len(ve.Fields) != 1 {
		t.Fatalf("unexpected validation error: %+v", ve)
	}
	if errors.Is(err, ErrFormIncomplete) {
		t.Fatal("section failure should not match ErrFormIncomplete")
	}
	if next.StepIndex != 0 {
		t.Fatalf("StepIndex = %d, want 0", next.StepIndex)
	}
	if len(next.Errors) != 1 {
		t.Fatalf("Errors = %v", next.Errors)
	}
	if diff := cmp.Diff(s.Profile, next.Profile); diff != "" {
		t.Fatalf("profile changed on failed advance:\n%s", diff)
	}
}

func TestAdvance_RevalidatesEveryTime(t *testing.T) {
	_, steps, s := fixture(t)
	v := &stubValidator{}
	s, _ = s.Advance(steps, v)
	s, _ = s.Retreat(steps)
	v.failing = map[profile.SectionID]bool{profile.CompanyDetails: true}
	if _, err := s.Advance(steps, v); err == nil {
		t.Fatal("a step validated earlier must be re-validated")
	}
	if len(v.calls) != 2 {
		t.Fatalf("validator calls = %v", v.calls)
	}
}

func TestEdit_BumpsVersionAndClearsAdvisory(t *testing.T) {
	cat, steps, s := fixture(t)
	s = atReview(t, steps, s)
	s.Advisory = &Advisory{Version: s.Version}
	s.Validity[string(profile.CompanyDetails)] = true

	next, err := s.Edit(cat, profile.CompanyDetails, "companyName", "Acme")
	if err != nil {
		t.Fatal(err)
	}
	if next.Version != s.Version+1 {
		t.Fatalf("Version = %d, want %d", next.Version, s.Version+1)
	}
	if next.Advisory != nil {
		t.Fatal("edit must clear the advisory result")
	}
	if _, ok := next.Validity[string(profile.CompanyDetails)]; ok {
		t.Fatal("edit must drop the section's validity")
	}
	if s.Profile[profile.CompanyDetails]["companyName"] != "" {
		t.Fatal("receiver was mutated")
	}
	if next.Profile[profile.CompanyDetails]["companyName"] != "Acme" {
		t.Fatal("edit not applied")
	}
}

func TestEdit_UnchangedValueIsNoop(t *testing.T) {
	cat, _, s := fixture(t)
	next, err := s.Edit(cat, profile.CompanyDetails, "companyName", "")
	if err != nil {
		t.Fatal(err)
	}
	if next.Version != s.Version {
		t.Fatal("unchanged value should not bump Version")
	}
}

func TestEdit_Rejects(t *testing.T) {
	cat, _, s := fixture(t)
	if _, err := s.Edit(cat, "nope", "x", "y"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("unknown section: %v", err)
	}
	if _, err := s.Edit(cat, profile.CompanyDetails, "nope", "y"); !errors.Is(err, ErrUnknownField) {
		t.Fatalf("unknown field: %v", err)
	}
	if _, err := s.Edit(cat, profile.CompanyDetails, "companyName", []int{1}); err == nil {
		t.Fatal("unsupported value type should fail")
	}
	s.Submitting = true
	if _, err := s.Edit(cat, profile.CompanyDetails, "companyName", "x"); !errors.Is(err, ErrBusy) {
		t.Fatalf("edit while submitting: %v", err)
	}
}

func TestEdit_RejectsNonFiniteNumbers(t *testing.T) {
	cat, steps, s := fixture(t)
	s = atReview(t, steps, s)
	s, token, err := s.BeginAdvisory(steps, &stubValidator{})
	if err != nil {
		t.Fatal(err)
	}
	s, err = s.FinishAdvisory(token, &advisory.Result{IsValid: true}, nil)
	if err != nil {
		t.Fatal(err)
	}

	for _, f := range []float64{math.NaN(), math.Inf(1), math.Inf(-1)} {
		next, err := s.Edit(cat, profile.FinancialInfo, "annualRevenue", f)
		if !errors.Is(err, profile.ErrNotFinite) {
			t.Fatalf("Edit(%v) err = %v, want ErrNotFinite", f, err)
		}
		if next.Version != s.Version || next.Advisory == nil {
			t.Fatalf("rejected edit changed state: %+v", next)
		}
	}
}

func TestEdit_ClearsErrorsForEditedField(t *testing.T) {
	cat, _, s := fixture(t)
	s.Errors = validate.Errors{
		{Section: profile.CompanyDetails, Field: "companyName", Message: "required"},
		{Section: profile.CompanyDetails, Field: "address", Message: "required"},
	}
	next, err := s.Edit(cat, profile.CompanyDetails, "companyName", "Acme")
	if err != nil {
		t.Fatal(err)
	}
	if len(next.Errors) != 1 || next.Errors[0].Field != "address" {
		t.Fatalf("Errors = %v", next.Errors)
	}
	if len(s.Errors) != 2 {
		t.Fatal("receiver errors were mutated")
	}
}

func TestRetreat(t *testing.T) {
	_, steps, s := fixture(t)
	if _, err := s.Retreat(steps); !errors.Is(err, ErrAtFirstStep) {
		t.Fatalf("retreat at 0: %v", err)
	}

	s = atReview(t, steps, s)
	s.Advisory = &Advisory{Version: s.Version}
	back, err := s.Retreat(steps)
	if err != nil {
		t.Fatal(err)
	}
	if back.StepIndex != len(steps)-2 {
		t.Fatalf("StepIndex = %d", back.StepIndex)
	}
	if back.Advisory != nil {
		t.Fatal("leaving review must clear the advisory result")
	}
	if back.Version == s.Version {
		t.Fatal("leaving review must bump Version")
	}
}

func TestGoTo(t *testing.T) {
	_, steps, s := fixture(t)
	s = atReview(t, steps, s)
	if _, err := s.GoTo(steps, len(steps)); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("out of range: %v", err)
	}
	next, err := s.GoTo(steps, 2)
	if err != nil {
		t.Fatal(err)
	}
	if next.StepIndex != 2 {
		t.Fatalf("StepIndex = %d", next.StepIndex)
	}
	if _, err := next.GoTo(steps, 4); !errors.Is(err, ErrInvalidStep) {
		t.Fatalf("forward jump: %v", err)
	}
}

func TestAdvisory_Lifecycle(t *testing.T) {
	_, steps, s := fixture(t)
	v := &stubValidator{}

	if _, _, err := s.BeginAdvisory(steps, v); !errors.Is(err, ErrNotAtReview) {
		t.Fatalf("begin off review: %v", err)
	}

	s = atReview(t, steps, s)
	pending, token, err := s.BeginAdvisory(steps, v)
	if err != nil {
		t.Fatal(err)
	}
	if !pending.AdvisoryPending {
		t.Fatal("AdvisoryPending not set")
	}
	if _, _, err := pending.BeginAdvisory(steps, v); !errors.Is(err, ErrBusy) {
		t.Fatalf("re-entrant begin: %v", err)
	}
	if _, err := pending.BeginSubmit(steps); !errors.Is(err, ErrBusy) {
		t.Fatalf("submit while advisory pending: %v", err)
	}

	res := &advisory.Result{Flags: []advisory.Flag{{Field: "companyDetails", Reason: "thin"}}, IsValid: false}
	done, err := pending.FinishAdvisory(token, res, nil)
	if err != nil {
		t.Fatal(err)
	}
	if done.AdvisoryPending || done.Advisory == nil {
		t.Fatalf("unexpected state after finish: %+v", done)
	}
	if !done.CanSubmit(steps) {
		t.Fatal("a consulted advisor allows submission even when flags were raised")
	}
	res.Flags[0].Reason = "mutated"
	if done.Advisory.Result.Flags[0].Reason != "thin" {
		t.Fatal("stored result aliases the caller's flags")
	}
}

func TestAdvisory_IncompleteProfileAborts(t *testing.T) {
	_, steps, s := fixture(t)
	s = atReview(t, steps, s)
	v := &stubValidator{failing: map[profile.SectionID]bool{profile.FinancialInfo: true}}

	next, _, err := s.BeginAdvisory(steps, v)
	if !errors.Is(err, ErrFormIncomplete) {
		t.Fatalf("err = %v, want ErrFormIncomplete", err)
	}
	if next.AdvisoryPending || next.Advisory != nil {
		t.Fatal("incomplete profile must not start a call")
	}
	if len(next.Errors) != 1 {
		t.Fatalf("Errors = %v", next.Errors)
	}
}

func TestAdvisory_StaleResponseDiscarded(t *testing.T) {
	cat, steps, s := fixture(t)
	s = atReview(t, steps, s)
	pending, token, err := s.BeginAdvisory(steps, &stubValidator{})
	if err != nil {
		t.Fatal(err)
	}
	edited, err := pending.Edit(cat, profile.CompanyDetails, "industry", "Robotics")
	if err != nil {
		t.Fatal(err)
	}
	done, err := edited.FinishAdvisory(token, &advisory.Result{IsValid: true}, nil)
	if !errors.Is(err, ErrStaleAdvisory) {
		t.Fatalf("err = %v, want ErrStaleAdvisory", err)
	}
	if done.Advisory != nil || done.AdvisoryPending {
		t.Fatalf("stale response applied: %+v", done)
	}
}

func TestAdvisory_ServiceFailure(t *testing.T) {
	_, steps, s := fixture(t)
	s = atReview(t, steps, s)
	pending, token, _ := s.BeginAdvisory(steps, &stubValidator{})
	done, err := pending.FinishAdvisory(token, nil, errors.New("timeout"))
	if !errors.Is(err, ErrAdvisoryFailed) {
		t.Fatalf("err = %v", err)
	}
	if done.AdvisoryPending || done.Advisory != nil {
		t.Fatalf("failure should clear busy and store nothing: %+v", done)
	}
}

func TestSubmit_Gate(t *testing.T) {
	cat, steps, s := fixture(t)
	s = atReview(t, steps, s)
	if _, err := s.BeginSubmit(steps); !errors.Is(err, ErrSubmissionBlocked) {
		t.Fatalf("submit without consultation: %v", err)
	}

	pending, token, _ := s.BeginAdvisory(steps, &stubValidator{})
	consulted, _ := pending.FinishAdvisory(token, &advisory.Result{IsValid: false}, nil)

	edited, err := consulted.Edit(cat, profile.GeographicReach, "remoteDelivery", true)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := edited.BeginSubmit(steps); !errors.Is(err, ErrSubmissionBlocked) {
		t.Fatalf("submit after edit: %v", err)
	}

	submitting, err := consulted.BeginSubmit(steps)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := submitting.BeginSubmit(steps); !errors.Is(err, ErrBusy) {
		t.Fatalf("re-entrant submit: %v", err)
	}
	if _, err := submitting.Retreat(steps); !errors.Is(err, ErrBusy) {
		t.Fatalf("retreat while submitting: %v", err)
	}

	failed, err := submitting.FailSubmit(errors.New("503"))
	if !errors.Is(err, ErrSubmissionFailed) {
		t.Fatalf("err = %v", err)
	}
	if failed.Submitting || !failed.CanSubmit(steps) {
		t.Fatal("a failed submission keeps the advisory result for retry")
	}

	reset := failed.Reset(cat.Defaults())
	if reset.StepIndex != 0 || reset.Advisory != nil || reset.Version <= failed.Version {
		t.Fatalf("unexpected reset state: %+v", reset)
	}
}
