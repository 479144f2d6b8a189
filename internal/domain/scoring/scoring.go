// Package scoring computes the compatibility of two participant profiles.
package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/duet/internal/domain/attribute"
	"github.com/okian/duet/internal/domain/model"
)

// Points are rounded to this many decimals so totals print cleanly.
const pointsPrecision = 100

// Result holds a compatibility score and the reasons behind it.
type Result struct {
	Value   float64
	Reasons []model.Reason
}

// Scorer computes a symmetric compatibility score for two profiles.
// Implementations must be pure: Score(a, b) == Score(b, a) and no I/O.
type Scorer interface {
	Score(a, b model.Profile) (Result, error)
}

// Option applies a configuration option to the TableScorer.
type Option func(*TableScorer)

// WithTable replaces the default scoring table.
func WithTable(t *Table) Option {
	return func(s *TableScorer) {
		if t != nil {
			s.table = t
		}
	}
}

// WithWeightsFromConfig overrides factor points by name, e.g. {"work_pace": 14}.
// Unknown names make NewTableScorer fail.
func WithWeightsFromConfig(weights map[string]float64) Option {
	return func(s *TableScorer) {
		if len(weights) == 0 {
			return
		}
		s.overrides = make(map[string]float64, len(weights))
		for k, w := range weights {
			s.overrides[k] = w
		}
	}
}

// TableScorer implements Scorer with a weight table lookup per dimension.
type TableScorer struct {
	table     *Table
	overrides map[string]float64
}

// NewTableScorer creates a scorer. It fails with ErrTableMisconfigured when
// the resulting table cannot score every option pair.
func NewTableScorer(opts ...Option) (*TableScorer, error) {
	s := &TableScorer{table: DefaultTable()}
	for _, opt := range opts {
		opt(s)
	}
	if s.overrides != nil {
		t, err := s.table.WithWeights(s.overrides)
		if err != nil {
			return nil, err
		}
		s.table = t
		s.overrides = nil
	}
	if err := s.table.Validate(); err != nil {
		return nil, err
	}
	return s, nil
}

// Table returns the table in use.
func (s *TableScorer) Table() *Table { return s.table }

// Score computes the compatibility of a and b. Dimensions where either
// profile is unset are skipped. Reasons are sorted by descending points,
// then factor and text, and the total is summed in that order so the result
// does not depend on argument order.
func (s *TableScorer) Score(a, b model.Profile) (Result, error) {
	reasons := make([]model.Reason, 0, attribute.Count+1)

	for _, d := range attribute.All() {
		oa, ob := a.Get(d), b.Get(d)
		if oa == attribute.Unset || ob == attribute.Unset {
			continue
		}
		aff, err := s.table.Affinity(d, oa, ob)
		if err != nil {
			return Result{}, err
		}
		pts := Round(s.table.Weight(DimensionFactor(d)) * aff)
		if pts <= 0 {
			continue
		}
		reasons = append(reasons, model.Reason{
			Factor: string(DimensionFactor(d)),
			Points: pts,
			Text:   describe(d, oa, ob),
		})
	}

	reasons = append(reasons, s.domainOverlap(a, b)...)
	sortReasons(reasons)

	total := 0.0
	for _, r := range reasons {
		total += r.Points
	}
	return Result{Value: Round(total), Reasons: reasons}, nil
}

// domainOverlap awards points when one participant's primary domain is the
// other's secondary domain. Both directions count; the same domain in both
// directions is reported once with the combined points.
func (s *TableScorer) domainOverlap(a, b model.Profile) []model.Reason {
	w := s.table.Weight(FactorDomainOverlap)
	if w <= 0 {
		return nil
	}
	hits := make(map[attribute.Option]int, 2)
	if p := a.Get(attribute.PrimaryDomain); p != attribute.Unset && p == b.Get(attribute.SecondaryDomain) {
		hits[p]++
	}
	if p := b.Get(attribute.PrimaryDomain); p != attribute.Unset && p == a.Get(attribute.SecondaryDomain) {
		hits[p]++
	}
	out := make([]model.Reason, 0, len(hits))
	for o, n := range hits {
		out = append(out, model.Reason{
			Factor: string(FactorDomainOverlap),
			Points: Round(w * float64(n)),
			Text:   "Overlapping interests: " + attribute.PrimaryDomain.Label(o),
		})
	}
	return out
}

// describe words a contribution. Option order is canonical so the text is
// the same whichever profile comes first.
func describe(d attribute.Dimension, a, b attribute.Option) string {
	if a == b {
		return fmt.Sprintf("Same %s: %s", d.Title(), d.Label(a))
	}
	if a > b {
		a, b = b, a
	}
	prefix := "Compatible " + d.Title()
	if d == attribute.TeamRole {
		prefix = "Complementary team roles"
	}
	return fmt.Sprintf("%s: %s + %s", prefix, d.Label(a), d.Label(b))
}

func sortReasons(rs []model.Reason) {
	sort.SliceStable(rs, func(i, j int) bool {
		if rs[i].Points != rs[j].Points {
			return rs[i].Points > rs[j].Points
		}
		if rs[i].Factor != rs[j].Factor {
			return rs[i].Factor < rs[j].Factor
		}
		return rs[i].Text < rs[j].Text
	})
}

// Round rounds points to the precision used in scores and reasons. Anything
// derived from scores, such as trio affinity, rounds the same way.
func Round(v float64) float64 {
	return math.Round(v*pointsPrecision) / pointsPrecision
}
