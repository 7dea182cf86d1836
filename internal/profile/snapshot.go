package profile

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrCorrupt is returned by Decode when a snapshot cannot be parsed.
var ErrCorrupt = errors.New("profile: corrupt snapshot")

// Encode serializes the whole profile. Map keys are emitted sorted, so equal
// profiles encode to identical bytes.
func Encode(p Profile) ([]byte, error) {
	return json.Marshal(p)
}

// Decode parses a snapshot and merges it over the catalog defaults. Sections
// or fields missing from the snapshot keep their default values; unknown
// sections, unknown fields and values of unsupported shape are ignored.
func (c *Catalog) Decode(data []byte) (Profile, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if raw == nil {
		return nil, fmt.Errorf("%w: snapshot is null", ErrCorrupt)
	}

	p := c.Defaults()
	for _, spec := range c.sections {
		stored, ok := raw[string(spec.ID)].(map[string]any)
		if !ok {
			continue
		}
		sec := p[spec.ID]
		for _, f := range spec.Fields {
			v, ok := stored[f.Key]
			if !ok {
				continue
			}
			switch v.(type) {
			case nil, string, bool, float64:
				sec[f.Key] = v
			}
		}
	}
	return p, nil
}
