// Package validate checks profile sections. Presence and numeric coercion are
// handled here; shape, range, format and enum checks are delegated to a JSON
// Schema generated per section; conditional requirements and cross-field
// rules are expr programs compiled once per catalog.
package validate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/sriram020204/website-prototype-sub000/internal/profile"
)

// FieldError is a single field-level failure.
type FieldError struct {
	Section profile.SectionID `json:"section"`
	Field   string            `json:"field"`
	Message string            `json:"message"`
}

func (e FieldError) String() string {
	return fmt.Sprintf("%s.%s: %s", e.Section, e.Field, e.Message)
}

// Errors is an ordered list of field errors. An empty list means the data
// passed.
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, len(e))
	for i, fe := range e {
		parts[i] = fe.String()
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// For returns the errors recorded against one field.
func (e Errors) For(field string) []FieldError {
	var out []FieldError
	for _, fe := range e {
		if fe.Field == field {
			out = append(out, fe)
		}
	}
	return out
}

type compiledRule struct {
	field   string
	program *vm.Program
	message string
}

type compiledSection struct {
	spec         profile.SectionSpec
	schema       *jsonschema.Schema
	order        map[string]int
	requiredWhen map[string]*vm.Program
	rules        []compiledRule
}

// Validator validates sections of one catalog. It holds no mutable state and
// is safe for concurrent use.
type Validator struct {
	catalog  *profile.Catalog
	sections map[profile.SectionID]*compiledSection
}

// New compiles schemas and expressions for every section of cat.
func New(cat *profile.Catalog) (*Validator, error) {
	v := &Validator{
		catalog:  cat,
		sections: make(map[profile.SectionID]*compiledSection),
	}
	for _, spec := range cat.Sections() {
		cs, err := compileSection(spec)
		if err != nil {
			return nil, err
		}
		v.sections[spec.ID] = cs
	}
	return v, nil
}

func compileSection(spec profile.SectionSpec) (*compiledSection, error) {
	cs := &compiledSection{
		spec:         spec,
		order:        make(map[string]int, len(spec.Fields)),
		requiredWhen: make(map[string]*vm.Program),
	}
	for i, f := range spec.Fields {
		cs.order[f.Key] = i
		if f.RequiredWhen != "" {
			prog, err := expr.Compile(f.RequiredWhen, expr.AsBool())
			if err != nil {
				return nil, fmt.Errorf("validate: %s.%s: requiredWhen: %w", spec.ID, f.Key, err)
			}
			cs.requiredWhen[f.Key] = prog
		}
	}
	for _, r := range spec.Rules {
		prog, err := expr.Compile(r.Expr, expr.AsBool())
		if err != nil {
			return nil, fmt.Errorf("validate: %s.%s: rule: %w", spec.ID, r.Field, err)
		}
		cs.rules = append(cs.rules, compiledRule{field: r.Field, program: prog, message: r.Message})
	}

	raw, err := json.Marshal(schemaFor(spec))
	if err != nil {
		return nil, fmt.Errorf("validate: %s: encoding schema: %w", spec.ID, err)
	}
	url := "https://profilewiz.local/schemas/" + string(spec.ID) + ".json"
	c := jsonschema.NewCompiler()
	c.Draft = jsonschema.Draft2020
	c.AssertFormat = true
	if err := c.AddResource(url, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("validate: %s: %w", spec.ID, err)
	}
	cs.schema, err = c.Compile(url)
	if err != nil {
		return nil, fmt.Errorf("validate: %s: compiling schema: %w", spec.ID, err)
	}
	return cs, nil
}

func schemaFor(spec profile.SectionSpec) map[string]any {
	props := make(map[string]any, len(spec.Fields))
	for _, f := range spec.Fields {
		p := map[string]any{}
		switch f.Kind {
		case profile.KindNumber:
			p["type"] = "number"
		case profile.KindInteger:
			p["type"] = "integer"
		case profile.KindBool:
			p["type"] = "boolean"
		case profile.KindEmail:
			p["type"] = "string"
			p["format"] = "email"
		case profile.KindURL:
			p["type"] = "string"
			p["format"] = "uri"
		case profile.KindChoice:
			p["type"] = "string"
			p["enum"] = f.Options
		default:
			p["type"] = "string"
		}
		if f.Min != nil {
			p["minimum"] = *f.Min
		}
		if f.Max != nil {
			p["maximum"] = *f.Max
		}
		if f.MaxLength > 0 {
			p["maxLength"] = f.MaxLength
		}
		props[f.Key] = p
	}
	return map[string]any{
		"$schema":    "https://json-schema.org/draft/2020-12/schema",
		"type":       "object",
		"properties": props,
	}
}

// Validate checks one section. Errors come back in field declaration order,
// at most one per field. Sections the catalog does not know own no fields and
// always pass.
func (v *Validator) Validate(id profile.SectionID, data profile.Section) Errors {
	cs, ok := v.sections[id]
	if !ok {
		return nil
	}

	failed := make(map[string]FieldError)
	fail := func(f profile.Field, msg string) {
		if _, dup := failed[f.Key]; !dup {
			failed[f.Key] = FieldError{Section: id, Field: f.Key, Message: msg}
		}
	}

	env := make(map[string]any, len(cs.spec.Fields))
	instance := make(map[string]any, len(cs.spec.Fields))
	present := make(map[string]bool, len(cs.spec.Fields))
	for _, f := range cs.spec.Fields {
		val, ok, valid := coerce(f, data[f.Key])
		env[f.Key] = val
		if !valid {
			fail(f, describe(f, "type", ""))
			continue
		}
		if ok {
			instance[f.Key] = val
			present[f.Key] = true
		}
	}

	for _, f := range cs.spec.Fields {
		if present[f.Key] {
			continue
		}
		if _, bad := failed[f.Key]; bad {
			continue
		}
		if f.Required || cs.evalRequiredWhen(f.Key, env) {
			fail(f, f.Label+" is required")
		}
	}

	if err := cs.schema.Validate(instance); err != nil {
		var ve *jsonschema.ValidationError
		if errors.As(err, &ve) {
			for _, leaf := range leaves(ve) {
				key := fieldFromPointer(leaf.InstanceLocation)
				f, ok := cs.spec.Field(key)
				if !ok {
					continue
				}
				fail(f, describe(f, keywordOf(leaf.KeywordLocation), leaf.Message))
			}
		}
	}

	for _, r := range cs.rules {
		if _, bad := failed[r.field]; bad {
			continue
		}
		out, err := expr.Run(r.program, env)
		if err != nil {
			continue
		}
		if ok, _ := out.(bool); !ok {
			f, _ := cs.spec.Field(r.field)
			fail(f, r.message)
		}
	}

	if len(failed) == 0 {
		return nil
	}
	out := make(Errors, 0, len(failed))
	for _, fe := range failed {
		out = append(out, fe)
	}
	sort.Slice(out, func(i, j int) bool {
		return cs.order[out[i].Field] < cs.order[out[j].Field]
	})
	return out
}

// ValidateAll is the union of Validate over every section, in catalog order.
func (v *Validator) ValidateAll(p profile.Profile) Errors {
	var out Errors
	for _, spec := range v.catalog.Sections() {
		out = append(out, v.Validate(spec.ID, p[spec.ID])...)
	}
	return out
}

func (cs *compiledSection) evalRequiredWhen(key string, env map[string]any) bool {
	prog, ok := cs.requiredWhen[key]
	if !ok {
		return false
	}
	out, err := expr.Run(prog, env)
	if err != nil {
		return false
	}
	b, _ := out.(bool)
	return b
}

// coerce converts raw into the value the schema checks. present is false for
// absent values; valid is false when raw cannot be read as the field's kind.
// Optional fields still fail on a bad shape.
func coerce(f profile.Field, raw any) (val any, present, valid bool) {
	switch {
	case f.Kind == profile.KindBool:
		switch t := raw.(type) {
		case nil:
			return false, true, true
		case bool:
			return t, true, true
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				return false, true, true
			}
			b, err := strconv.ParseBool(s)
			if err != nil {
				return nil, false, false
			}
			return b, true, true
		}
		return nil, false, false

	case f.Kind.Numeric():
		switch t := raw.(type) {
		case nil:
			return nil, false, true
		case float64:
			if math.IsNaN(t) || math.IsInf(t, 0) {
				return nil, false, false
			}
			return t, true, true
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				return nil, false, true
			}
			n, err := strconv.ParseFloat(s, 64)
			if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
				return nil, false, false
			}
			return n, true, true
		}
		return nil, false, false

	default:
		switch t := raw.(type) {
		case nil:
			return nil, false, true
		case string:
			s := strings.TrimSpace(t)
			if s == "" {
				return nil, false, true
			}
			return s, true, true
		}
		return nil, false, false
	}
}

func leaves(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var out []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		out = append(out, leaves(c)...)
	}
	return out
}

func keywordOf(location string) string {
	if i := strings.LastIndex(location, "/"); i >= 0 {
		return location[i+1:]
	}
	return location
}

func fieldFromPointer(pointer string) string {
	trimmed := strings.TrimPrefix(strings.TrimPrefix(pointer, "#"), "/")
	if i := strings.Index(trimmed, "/"); i >= 0 {
		trimmed = trimmed[:i]
	}
	trimmed = strings.ReplaceAll(trimmed, "~1", "/")
	return strings.ReplaceAll(trimmed, "~0", "~")
}

func describe(f profile.Field, keyword, fallback string) string {
	switch keyword {
	case "type":
		switch f.Kind {
		case profile.KindInteger:
			return f.Label + " must be a whole number"
		case profile.KindNumber:
			return f.Label + " must be a number"
		case profile.KindBool:
			return f.Label + " must be yes or no"
		default:
			return f.Label + " must be text"
		}
	case "minimum":
		return fmt.Sprintf("%s must be at least %s", f.Label, formatBound(f.Min))
	case "maximum":
		return fmt.Sprintf("%s must be at most %s", f.Label, formatBound(f.Max))
	case "maxLength":
		return fmt.Sprintf("%s must be at most %d characters", f.Label, f.MaxLength)
	case "enum":
		return fmt.Sprintf("%s must be one of: %s", f.Label, strings.Join(f.Options, ", "))
	case "format":
		if f.Kind == profile.KindEmail {
			return f.Label + " must be a valid email address"
		}
		if f.Kind == profile.KindURL {
			return f.Label + " must be a valid URL"
		}
	}
	return f.Label + ": " + strings.TrimPrefix(fallback, "jsonschema: ")
}

func formatBound(b *float64) string {
	if b == nil {
		return ""
	}
	return strconv.FormatFloat(*b, 'f', -1, 64)
}
