package attribute

import (
	"encoding/json"
	"fmt"
)

// Set holds one option per dimension, indexed by Dimension.
type Set [Count]Option

// Get returns the option stored for d.
func (s Set) Get(d Dimension) Option {
	if !d.Valid() {
		return Unset
	}
	return s[d]
}

// Complete reports whether every dimension holds a valid option.
func (s Set) Complete() bool {
	for d := range s {
		if !Dimension(d).Contains(s[d]) {
			return false
		}
	}
	return true
}

// Slugs returns the set as dimension key -> option slug, skipping unset dimensions.
func (s Set) Slugs() map[string]string {
	out := make(map[string]string, Count)
	for d := range s {
		dim := Dimension(d)
		if slug := dim.Slug(s[d]); slug != "" {
			out[dim.Key()] = slug
		}
	}
	return out
}

// MarshalJSON encodes the set as an object of slugs.
func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Slugs())
}

// UnmarshalJSON decodes an object of dimension key -> slug/label.
func (s *Set) UnmarshalJSON(data []byte) error {
	var raw map[string]string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	var out Set
	for k, v := range raw {
		d, ok := ParseDimension(k)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownDimension, k)
		}
		o, err := d.Parse(v)
		if err != nil {
			return err
		}
		out[d] = o
	}
	*s = out
	return nil
}

// MarshalYAML encodes the set as a mapping of slugs.
func (s Set) MarshalYAML() (interface{}, error) {
	return s.Slugs(), nil
}
