// Package attribute enumerates the questionnaire dimensions and the closed
// set of options each one accepts.
//
// Options are small integers indexing into a dimension's catalog so the
// scorer can use table lookups instead of string comparison. The zero
// Option is reserved for "unset".
package attribute

import (
	"fmt"
	"strings"
)

// Dimension identifies one categorical question of the profile.
type Dimension uint8

// Questionnaire dimensions in canonical order.
const (
	PrimaryDomain Dimension = iota
	SecondaryDomain
	WorkStyle
	TeamStyle
	WorkPace
	TeamRole
	MotivationSource
	PressureResponse
	ConflictStyle
	CommunicationStyle
	LifeInterest
	ImportanceLevel
	numDimensions
)

// Count is the number of dimensions every profile carries.
const Count = int(numDimensions)

// Option is a 1-based index into a dimension's choices.
type Option uint8

// Unset marks a dimension without an answer.
const Unset Option = 0

// Choice describes one selectable answer.
type Choice struct {
	Slug    string   `json:"slug" yaml:"slug"`
	Label   string   `json:"label" yaml:"label"`
	Aliases []string `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

type descriptor struct {
	key     string // config/JSON key, e.g. "primary_domain"
	field   string // raw submission field, e.g. "mainDomain"
	title   string // human wording used in reasons
	choices []Choice
}

var domainChoices = []Choice{
	{Slug: "core_tech", Label: "Core high-tech: infrastructure, development and complex systems",
		Aliases: []string{"core tech", "הייטק ליבה – תשתיות, פיתוח ומערכות מורכבות"}},
	{Slug: "self_resilience", Label: "Self and resilience in a technological age",
		Aliases: []string{"self and resilience", "העצמי והחוסן בעידן טכנולוגי"}},
	{Slug: "sustainability", Label: "Environment, sustainability and technology",
		Aliases: []string{"environment", "סביבה, קיימות וטכנולוגיה"}},
	{Slug: "community", Label: "Society, community and digital impact",
		Aliases: []string{"society", "חברה, קהילה והשפעה דיגיטלית"}},
	{Slug: "entrepreneurship", Label: "Future, entrepreneurship and technology",
		Aliases: []string{"future", "עתיד, יזמות וטכנולוגיה"}},
}

var descriptors = [numDimensions]descriptor{
	PrimaryDomain:   {key: "primary_domain", field: "mainDomain", title: "primary domain", choices: domainChoices},
	SecondaryDomain: {key: "secondary_domain", field: "secondDomain", title: "secondary domain", choices: domainChoices},
	WorkStyle: {key: "work_style", field: "workStyle", title: "work style", choices: []Choice{
		{Slug: "independent", Label: "Independently"},
		{Slug: "collaborative", Label: "Side by side"},
		{Slug: "mixed", Label: "A mix of both"},
	}},
	TeamStyle: {key: "team_style", field: "teamStyle", title: "team style", choices: []Choice{
		{Slug: "pair", Label: "In a pair"},
		{Slug: "small_group", Label: "In a small group"},
		{Slug: "large_group", Label: "In a large group"},
	}},
	WorkPace: {key: "work_pace", field: "workPace", title: "work pace", choices: []Choice{
		{Slug: "fast", Label: "Fast and intense"},
		{Slug: "steady", Label: "Steady"},
		{Slug: "deliberate", Label: "Slow and thorough"},
	}},
	TeamRole: {key: "team_role", field: "teamRole", title: "team role", choices: []Choice{
		{Slug: "leader", Label: "Leads the way"},
		{Slug: "planner", Label: "Plans and organizes"},
		{Slug: "creator", Label: "Brings the ideas"},
		{Slug: "executor", Label: "Gets things done"},
		{Slug: "connector", Label: "Connects people"},
	}},
	MotivationSource: {key: "motivation_source", field: "motivationSource", title: "motivation", choices: []Choice{
		{Slug: "impact", Label: "Making an impact"},
		{Slug: "learning", Label: "Learning something new"},
		{Slug: "achievement", Label: "Reaching a goal"},
		{Slug: "belonging", Label: "Being part of a team"},
	}},
	PressureResponse: {key: "pressure_response", field: "pressureResponse", title: "response to pressure", choices: []Choice{
		{Slug: "calm", Label: "Stays calm"},
		{Slug: "energized", Label: "Gets energized"},
		{Slug: "structured", Label: "Needs a clear plan"},
	}},
	ConflictStyle: {key: "conflict_style", field: "conflictStyle", title: "conflict style", choices: []Choice{
		{Slug: "direct", Label: "Talks it out directly"},
		{Slug: "diplomatic", Label: "Looks for a compromise"},
		{Slug: "reflective", Label: "Takes time to think first"},
	}},
	CommunicationStyle: {key: "communication_style", field: "communicationStyle", title: "communication style", choices: []Choice{
		{Slug: "verbal", Label: "Talking"},
		{Slug: "written", Label: "Writing"},
		{Slug: "visual", Label: "Drawing and showing"},
	}},
	LifeInterest: {key: "life_interest", field: "lifeInterest", title: "interest outside work", choices: []Choice{
		{Slug: "arts", Label: "Art and music"},
		{Slug: "sport", Label: "Sport and movement"},
		{Slug: "technology", Label: "Technology and gaming"},
		{Slug: "nature", Label: "Nature and animals"},
		{Slug: "people", Label: "People and volunteering"},
	}},
	ImportanceLevel: {key: "importance_level", field: "importanceLevel", title: "importance of the activity", choices: []Choice{
		{Slug: "low", Label: "Nice to have"},
		{Slug: "medium", Label: "Important"},
		{Slug: "high", Label: "Very important"},
	}},
}

// lookup maps a lower-cased slug, label or alias to its option, per dimension.
var lookup [numDimensions]map[string]Option

func init() { //nolint:gochecknoinits // static catalog index
	for d := range descriptors {
		idx := make(map[string]Option)
		for i, c := range descriptors[d].choices {
			o := Option(i + 1)
			idx[fold(c.Slug)] = o
			idx[fold(c.Label)] = o
			for _, a := range c.Aliases {
				idx[fold(a)] = o
			}
		}
		lookup[d] = idx
	}
}

func fold(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// All returns every dimension in canonical order.
func All() []Dimension {
	out := make([]Dimension, Count)
	for i := range out {
		out[i] = Dimension(i)
	}
	return out
}

// ParseDimension resolves a dimension by its key ("work_pace") or raw field name ("workPace").
func ParseDimension(name string) (Dimension, bool) {
	name = strings.TrimSpace(name)
	for d := range descriptors {
		if descriptors[d].key == name || descriptors[d].field == name {
			return Dimension(d), true
		}
	}
	return 0, false
}

// Valid reports whether d is a known dimension.
func (d Dimension) Valid() bool { return d < numDimensions }

// Key returns the snake_case key used in configuration and JSON output.
func (d Dimension) Key() string {
	if !d.Valid() {
		return fmt.Sprintf("dimension(%d)", d)
	}
	return descriptors[d].key
}

// Field returns the raw submission field name.
func (d Dimension) Field() string {
	if !d.Valid() {
		return ""
	}
	return descriptors[d].field
}

// Title returns the wording used in reasons.
func (d Dimension) Title() string {
	if !d.Valid() {
		return ""
	}
	return descriptors[d].title
}

// String implements fmt.Stringer.
func (d Dimension) String() string { return d.Key() }

// Len returns the number of options of d.
func (d Dimension) Len() int {
	if !d.Valid() {
		return 0
	}
	return len(descriptors[d].choices)
}

// Choices returns a copy of the options of d in catalog order.
func (d Dimension) Choices() []Choice {
	if !d.Valid() {
		return nil
	}
	out := make([]Choice, len(descriptors[d].choices))
	copy(out, descriptors[d].choices)
	return out
}

// Contains reports whether o is a selectable option of d.
func (d Dimension) Contains(o Option) bool {
	return d.Valid() && o != Unset && int(o) <= d.Len()
}

// Parse resolves free text to an option. Matching is case-insensitive over
// slug, label and aliases.
func (d Dimension) Parse(raw string) (Option, error) {
	if !d.Valid() {
		return Unset, fmt.Errorf("%w: %d", ErrUnknownDimension, d)
	}
	key := fold(raw)
	if key == "" {
		return Unset, fmt.Errorf("%s: %w", d.Key(), ErrBlank)
	}
	o, ok := lookup[d][key]
	if !ok {
		return Unset, fmt.Errorf("%s: %w %q", d.Key(), ErrUnknownValue, raw)
	}
	return o, nil
}

// Slug returns the slug of o, or "" when o is not part of d.
func (d Dimension) Slug(o Option) string {
	if !d.Contains(o) {
		return ""
	}
	return descriptors[d].choices[o-1].Slug
}

// Label returns the display label of o, or "" when o is not part of d.
func (d Dimension) Label(o Option) string {
	if !d.Contains(o) {
		return ""
	}
	return descriptors[d].choices[o-1].Label
}
