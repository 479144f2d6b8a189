package model

import (
	"time"

	"github.com/okian/duet/internal/domain/attribute"
)

// Profile is an eligible, canonicalized participant.
type Profile struct {
	ID          string        `json:"id" yaml:"id"`
	DisplayName string        `json:"display_name" yaml:"display_name"`
	Attributes  attribute.Set `json:"attributes" yaml:"attributes"`
	SubmittedAt time.Time     `json:"submitted_at" yaml:"submitted_at"`
}

// Get returns the option p holds for d.
func (p Profile) Get(d attribute.Dimension) attribute.Option {
	return p.Attributes.Get(d)
}
