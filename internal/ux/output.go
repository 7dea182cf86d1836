package ux

import (
	"fmt"
	"strings"
	"time"

	"github.com/sriram020204/website-prototype-sub000/internal/advisory"
	"github.com/sriram020204/website-prototype-sub000/internal/profile"
	"github.com/sriram020204/website-prototype-sub000/internal/validate"
)

// ANSI color helpers
const (
	Reset  = "\033[0m"
	Bold   = "\033[1m"
	Dim    = "\033[2m"
	Red    = "\033[31m"
	Green  = "\033[32m"
	Yellow = "\033[33m"
	Cyan   = "\033[36m"
)

func timestamp() string {
	return time.Now().Format("15:04:05")
}

// StepHeader prints a timestamped step header.
func StepHeader(index, total int, title, description string) {
	fmt.Printf("\n%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
	desc := ""
	if description != "" {
		desc = fmt.Sprintf(" · %s", description)
	}
	fmt.Printf("%s[%s]%s  %sStep %d/%d: %s%s%s\n",
		Dim, timestamp(), Reset, Bold, index+1, total, title, desc, Reset)
	fmt.Printf("%s[%s]%s %s══════════════════════════════════════%s\n",
		Dim, timestamp(), Reset, Cyan, Reset)
}

// StepComplete prints a step completion message.
func StepComplete(index int, title string) {
	fmt.Printf("%s[%s]%s  %s✓ Step %d (%s) complete%s\n",
		Dim, timestamp(), Reset, Green, index+1, title, Reset)
}

// FieldErrors prints one line per field error.
func FieldErrors(errs validate.Errors) {
	if len(errs) == 0 {
		return
	}
	fmt.Printf("%s[%s]%s  %s✗ %d field(s) need attention:%s\n",
		Dim, timestamp(), Reset, Red, len(errs), Reset)
	for _, fe := range errs {
		fmt.Printf("      %s•%s %s %s(%s.%s)%s\n", Red, Reset, fe.Message, Dim, fe.Section, fe.Field, Reset)
	}
}

// ReviewSummary prints every section as the advisory service will see it.
func ReviewSummary(cat *profile.Catalog, p profile.Profile) {
	for _, spec := range cat.Sections() {
		fmt.Printf("\n  %s%s%s\n", Bold, spec.Title, Reset)
		for _, part := range strings.Split(advisory.Describe(spec, p[spec.ID]), "; ") {
			fmt.Printf("    %s\n", part)
		}
	}
	fmt.Println()
}

// AdvisoryFlags prints an advisory verdict. Flags are informational.
func AdvisoryFlags(res *advisory.Result) {
	if res == nil {
		return
	}
	if res.IsValid && len(res.Flags) == 0 {
		fmt.Printf("  %s✓ Advisory check passed with no flags%s\n", Green, Reset)
		return
	}
	verdict := "passed"
	if !res.IsValid {
		verdict = "raised concerns"
	}
	fmt.Printf("  %s⚠ Advisory check %s (%d flag(s)); you may still submit%s\n",
		Yellow, verdict, len(res.Flags), Reset)
	for _, f := range res.Flags {
		fmt.Printf("      %s•%s %s%s%s: %s\n", Yellow, Reset, Bold, f.Field, Reset, f.Reason)
	}
}

// Notice prints a retryable warning.
func Notice(msg string) {
	fmt.Printf("%s[%s]%s  %s⚠ %s%s\n", Dim, timestamp(), Reset, Yellow, msg, Reset)
}

// Blocked prints a submission-blocked notice.
func Blocked(reason string) {
	fmt.Printf("%s[%s]%s  %s✗ Submission blocked: %s%s\n", Dim, timestamp(), Reset, Red, reason, Reset)
}

// ResumeHint prints how to pick up a saved session.
func ResumeHint(configPath string) {
	cmd := "profilewiz run"
	if configPath != "" {
		cmd += " --config " + configPath
	}
	fmt.Printf("\n%sProgress saved. Resume:%s %s\n", Yellow, Reset, cmd)
}

// Success prints a final success message.
func Success(id string) {
	fmt.Printf("\n%s[%s]%s  %s%s══ Profile submitted (%s) ══%s\n\n",
		Dim, timestamp(), Reset, Bold, Green, id, Reset)
}
