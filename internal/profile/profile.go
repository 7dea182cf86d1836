package profile

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

// SectionID names one topical group of fields within a Profile.
type SectionID string

const (
	CompanyDetails   SectionID = "companyDetails"
	Capabilities     SectionID = "capabilities"
	FinancialInfo    SectionID = "financialInfo"
	TenderExperience SectionID = "tenderExperience"
	GeographicReach  SectionID = "geographicReach"
	DigitalReadiness SectionID = "digitalReadiness"
)

// Section is a flat record of field values keyed by field key. Values are
// string, float64, bool, or nil (absent).
type Section map[string]any

// Profile is the aggregate of every section.
type Profile map[SectionID]Section

// Clone returns a deep copy of the profile.
func (p Profile) Clone() Profile {
	if p == nil {
		return nil
	}
	out := make(Profile, len(p))
	for id, sec := range p {
		out[id] = sec.Clone()
	}
	return out
}

// Clone returns a copy of the section.
func (s Section) Clone() Section {
	if s == nil {
		return nil
	}
	out := make(Section, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Get returns the value stored for section/key.
func (p Profile) Get(id SectionID, key string) (any, bool) {
	sec, ok := p[id]
	if !ok {
		return nil, false
	}
	v, ok := sec[key]
	return v, ok
}

// IsAbsent reports whether v counts as "not provided". Blank strings are
// absent; false and zero are present values.
func IsAbsent(v any) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return strings.TrimSpace(t) == ""
	default:
		return false
	}
}

// ErrNotFinite rejects NaN and infinities, which JSON cannot encode.
var ErrNotFinite = errors.New("profile: number is not finite")

// NormalizeValue converts v into one of the value types a Section may hold.
// Integer kinds widen to float64 so that values survive a JSON round trip
// unchanged.
func NormalizeValue(v any) (any, error) {
	switch t := v.(type) {
	case nil, string, bool:
		return t, nil
	case float64:
		return finite(t)
	case float32:
		return finite(float64(t))
	case int:
		return float64(t), nil
	case int8:
		return float64(t), nil
	case int16:
		return float64(t), nil
	case int32:
		return float64(t), nil
	case int64:
		return float64(t), nil
	case uint:
		return float64(t), nil
	case uint8:
		return float64(t), nil
	case uint16:
		return float64(t), nil
	case uint32:
		return float64(t), nil
	case uint64:
		return float64(t), nil
	default:
		return nil, fmt.Errorf("profile: unsupported value type %T", v)
	}
}

func finite(f float64) (any, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("%w: %v", ErrNotFinite, f)
	}
	return f, nil
}
