package docs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sriram020204/website-prototype-sub000/internal/profile"
)

// Topic holds a single documentation article.
type Topic struct {
	Name    string // short slug used as CLI argument
	Title   string // human-readable title
	Summary string // one-line description for topic listing
	Content string // full article text (plain text, no ANSI)
}

// All returns every topic in display order. The field reference is
// generated from the default catalog.
func All() []Topic {
	out := append([]Topic(nil), topics...)
	return append(out, Topic{
		Name:    "fields",
		Title:   "Field Reference",
		Summary: "Every section and field, with types and requirements",
		Content: FieldReference(profile.Default()),
	})
}

// Get looks up a topic by name. Returns an error with a hint if not found.
func Get(name string) (Topic, error) {
	for _, t := range All() {
		if t.Name == name {
			return t, nil
		}
	}
	return Topic{}, fmt.Errorf("unknown topic %q; run 'profilewiz docs' to list available topics", name)
}

// FieldReference renders the catalog as plain text.
func FieldReference(cat *profile.Catalog) string {
	var b strings.Builder
	b.WriteString("Field Reference\n===============\n")
	for i, s := range cat.Sections() {
		fmt.Fprintf(&b, "\n%d. %s (%s)\n", i+1, s.Title, s.ID)
		if s.Description != "" {
			fmt.Fprintf(&b, "   %s\n", s.Description)
		}
		b.WriteString("\n")
		for _, f := range s.Fields {
			fmt.Fprintf(&b, "   %-28s %-8s %s\n", f.Key, f.Kind, requirement(f))
			if c := constraints(f); c != "" {
				fmt.Fprintf(&b, "   %-28s          %s\n", "", c)
			}
			if f.Help != "" {
				fmt.Fprintf(&b, "   %-28s          %s\n", "", f.Help)
			}
		}
		for _, r := range s.Rules {
			fmt.Fprintf(&b, "\n   rule on %s: %s\n", r.Field, r.Message)
		}
	}
	b.WriteString("\nThe review step owns no fields. See 'profilewiz docs workflow'.\n")
	return b.String()
}

func requirement(f profile.Field) string {
	switch {
	case f.Required:
		return "required"
	case f.RequiredWhen != "":
		return "required when " + f.RequiredWhen
	}
	return "optional"
}

func constraints(f profile.Field) string {
	var parts []string
	if f.Min != nil {
		parts = append(parts, "min "+strconv.FormatFloat(*f.Min, 'f', -1, 64))
	}
	if f.Max != nil {
		parts = append(parts, "max "+strconv.FormatFloat(*f.Max, 'f', -1, 64))
	}
	if f.MaxLength > 0 {
		parts = append(parts, fmt.Sprintf("at most %d characters", f.MaxLength))
	}
	if len(f.Options) > 0 {
		parts = append(parts, "one of: "+strings.Join(f.Options, ", "))
	}
	return strings.Join(parts, "; ")
}
