package ux

import (
	"fmt"

	"github.com/sriram020204/website-prototype-sub000/internal/wizard"
)

// RenderStatus prints the per-step progress of a stored snapshot.
func RenderStatus(key string, found bool, prog wizard.Progress) {
	fmt.Printf("%sSnapshot:%s %s\n", Bold, Reset, key)
	if !found {
		fmt.Printf("%sState:%s    %s(none, a new session starts empty)%s\n\n", Bold, Reset, Dim, Reset)
		return
	}
	if prog.Ready {
		fmt.Printf("%sState:%s    %s%sready for review%s\n", Bold, Reset, Green, Bold, Reset)
	} else {
		next := prog.Steps[prog.NextStep].Step
		fmt.Printf("%sState:%s    %d/%d (%s) incomplete\n",
			Bold, Reset, prog.NextStep+1, len(prog.Steps), next.Title)
	}

	fmt.Printf("\n%sSteps:%s\n", Bold, Reset)
	for i, sp := range prog.Steps {
		marker := "  "
		if i == prog.NextStep {
			marker = fmt.Sprintf("%s→%s ", Yellow, Reset)
		}
		switch {
		case sp.Step.IsReview():
			fmt.Printf("  %s%s%d%s  %-28s %s(review)%s\n", marker, Dim, i+1, Reset, sp.Step.Title, Dim, Reset)
		case sp.Complete:
			fmt.Printf("  %s%s%d%s  %-28s %sdone%s\n", marker, Dim, i+1, Reset, sp.Step.Title, Green, Reset)
		default:
			fmt.Printf("  %s%s%d%s  %-28s %s%d missing/invalid%s\n",
				marker, Dim, i+1, Reset, sp.Step.Title, Red, len(sp.Errors), Reset)
		}
	}
	fmt.Println()
}
