// Package advisory talks to the external content-quality service. Its
// verdict is advisory: the wizard only requires that it was consulted.
package advisory

import (
	"html"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/sriram020204/website-prototype-sub000/internal/profile"
)

// NotAvailable stands in for absent values in request text.
const NotAvailable = "N/A"

// Request carries one descriptive string per profile section.
type Request struct {
	CompanyDetails   string `json:"companyDetails"`
	Capabilities     string `json:"capabilities"`
	FinancialInfo    string `json:"financialInfo"`
	TenderExperience string `json:"tenderExperience"`
	GeographicReach  string `json:"geographicReach"`
	DigitalReadiness string `json:"digitalReadiness"`
}

// Flag is one issue raised by the service.
type Flag struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// Result is the service verdict.
type Result struct {
	Flags   []Flag `json:"flags"`
	IsValid bool   `json:"isValid"`
}

var strict = bluemonday.StrictPolicy()

// BuildRequest projects p into request text. Each section becomes
// "Label: value" pairs joined by "; " in field declaration order.
func BuildRequest(cat *profile.Catalog, p profile.Profile) Request {
	var req Request
	for _, spec := range cat.Sections() {
		text := Describe(spec, p[spec.ID])
		switch spec.ID {
		case profile.CompanyDetails:
			req.CompanyDetails = text
		case profile.Capabilities:
			req.Capabilities = text
		case profile.FinancialInfo:
			req.FinancialInfo = text
		case profile.TenderExperience:
			req.TenderExperience = text
		case profile.GeographicReach:
			req.GeographicReach = text
		case profile.DigitalReadiness:
			req.DigitalReadiness = text
		}
	}
	return req
}

// Describe renders one section. Markup in free text is stripped.
func Describe(spec profile.SectionSpec, sec profile.Section) string {
	parts := make([]string, 0, len(spec.Fields))
	for _, f := range spec.Fields {
		parts = append(parts, f.Label+": "+formatValue(sec[f.Key]))
	}
	return strings.Join(parts, "; ")
}

func formatValue(v any) string {
	if profile.IsAbsent(v) {
		return NotAvailable
	}
	switch t := v.(type) {
	case bool:
		if t {
			return "Yes"
		}
		return "No"
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case string:
		clean := strings.TrimSpace(html.UnescapeString(strict.Sanitize(t)))
		if clean == "" {
			return NotAvailable
		}
		return clean
	default:
		return NotAvailable
	}
}
