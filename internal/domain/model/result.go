package model

import "fmt"

// Reason explains one positive scoring contribution.
type Reason struct {
	Factor string  `json:"factor" yaml:"factor"`
	Points float64 `json:"points" yaml:"points"`
	Text   string  `json:"text" yaml:"text"`
}

// String renders the reason with its contribution, e.g. "Same work style: Steady (+12)".
func (r Reason) String() string {
	return fmt.Sprintf("%s (+%g)", r.Text, r.Points)
}

// ScoredPair is an unordered pair of participants with its compatibility
// score. A holds the lexically smaller id. Reasons are ordered by descending
// contribution and keep every contributing factor.
type ScoredPair struct {
	A       Profile  `json:"a" yaml:"a"`
	B       Profile  `json:"b" yaml:"b"`
	Score   float64  `json:"score" yaml:"score"`
	Reasons []Reason `json:"reasons" yaml:"reasons"`
}

// TopReasons returns the texts of at most n leading reasons.
func (p ScoredPair) TopReasons(n int) []string {
	if n <= 0 {
		return []string{}
	}
	if n > len(p.Reasons) {
		n = len(p.Reasons)
	}
	out := make([]string, n)
	for i := 0; i < n; i++ {
		out[i] = p.Reasons[i].Text
	}
	return out
}

// Has reports whether id is a member of the pair.
func (p ScoredPair) Has(id string) bool {
	return p.A.ID == id || p.B.ID == id
}

// TrioAnnotation attaches the leftover participant of an odd roster to an
// existing pair. The referenced pair is unchanged.
type TrioAnnotation struct {
	Lone          Profile `json:"lone" yaml:"lone"`
	WithPairIndex int     `json:"with_pair_index" yaml:"with_pair_index"`
	// Affinity is score(lone, pair.A) + score(lone, pair.B).
	Affinity float64 `json:"affinity" yaml:"affinity"`
}

// Status tells a caller whether the result is usable.
type Status string

// Result statuses.
const (
	StatusReady                    Status = "ready"
	StatusInsufficientParticipants Status = "insufficient_participants"
)

// MatchingResult is the output of one pairing run.
type MatchingResult struct {
	Status Status          `json:"status" yaml:"status"`
	Pairs  []ScoredPair    `json:"pairs" yaml:"pairs"`
	Trio   *TrioAnnotation `json:"trio,omitempty" yaml:"trio,omitempty"`
}

// Participants returns the number of people placed by the result.
func (r MatchingResult) Participants() int {
	n := 2 * len(r.Pairs)
	if r.Trio != nil {
		n++
	}
	return n
}

// PartnersOf returns the other members of id's group, or nil when id is absent.
func (r MatchingResult) PartnersOf(id string) []Profile {
	for i, p := range r.Pairs {
		var out []Profile
		switch id {
		case p.A.ID:
			out = []Profile{p.B}
		case p.B.ID:
			out = []Profile{p.A}
		default:
			continue
		}
		if r.Trio != nil && r.Trio.WithPairIndex == i {
			out = append(out, r.Trio.Lone)
		}
		return out
	}
	if r.Trio != nil && r.Trio.Lone.ID == id && r.Trio.WithPairIndex < len(r.Pairs) {
		base := r.Pairs[r.Trio.WithPairIndex]
		return []Profile{base.A, base.B}
	}
	return nil
}
