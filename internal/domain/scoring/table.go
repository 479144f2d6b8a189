package scoring

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/duet/internal/domain/attribute"
)

// Factor names one scoring contribution. Every dimension is a factor under
// its key; FactorDomainOverlap is the cross-weighted primary/secondary bonus.
type Factor string

// FactorDomainOverlap scores one participant's primary domain matching the
// other's secondary domain.
const FactorDomainOverlap Factor = "domain_overlap"

// DimensionFactor returns the factor scoring agreement on d.
func DimensionFactor(d attribute.Dimension) Factor { return Factor(d.Key()) }

// Factors lists every factor in report order.
func Factors() []Factor {
	out := make([]Factor, 0, attribute.Count+1)
	for _, d := range attribute.All() {
		out = append(out, DimensionFactor(d))
		if d == attribute.PrimaryDomain {
			out = append(out, FactorDomainOverlap)
		}
	}
	return out
}

// Default points awarded for a full match on each factor.
var defaultWeights = map[Factor]float64{
	Factor("primary_domain"):      30,
	FactorDomainOverlap:           12,
	Factor("secondary_domain"):    10,
	Factor("work_style"):          12,
	Factor("team_style"):          8,
	Factor("work_pace"):           10,
	Factor("team_role"):           10,
	Factor("motivation_source"):   8,
	Factor("pressure_response"):   6,
	Factor("conflict_style"):      8,
	Factor("communication_style"): 10,
	Factor("life_interest"):       6,
	Factor("importance_level"):    6,
}

// Default affinity matrices for dimensions where two different answers
// still go well together. Rows and columns follow the catalog order.
// Dimensions missing here use exact agreement (identity).
var defaultAffinity = map[attribute.Dimension][][]float64{
	// independent, collaborative, mixed
	attribute.WorkStyle: {
		{1, 0, 0.5},
		{0, 1, 0.5},
		{0.5, 0.5, 1},
	},
	// fast, steady, deliberate
	attribute.WorkPace: {
		{1, 0.5, 0},
		{0.5, 1, 0.5},
		{0, 0.5, 1},
	},
	// leader, planner, creator, executor, connector
	attribute.TeamRole: {
		{0.2, 0.8, 0.6, 1, 0.6},
		{0.8, 0.3, 1, 0.6, 0.6},
		{0.6, 1, 0.4, 0.8, 0.8},
		{1, 0.6, 0.8, 0.3, 0.6},
		{0.6, 0.6, 0.8, 0.6, 0.5},
	},
	// calm, energized, structured
	attribute.PressureResponse: {
		{1, 0.6, 0.6},
		{0.6, 1, 0.2},
		{0.6, 0.2, 1},
	},
	// direct, diplomatic, reflective
	attribute.ConflictStyle: {
		{1, 0.6, 0.2},
		{0.6, 1, 0.6},
		{0.2, 0.6, 1},
	},
	// low, medium, high
	attribute.ImportanceLevel: {
		{1, 0.5, 0},
		{0.5, 1, 0.5},
		{0, 0.5, 1},
	},
}

// Table holds the points per factor and the affinity between every pair of
// options of each dimension. A Table is immutable once built.
type Table struct {
	weights  map[Factor]float64
	affinity [attribute.Count][][]float64
}

// DefaultTable returns the built-in scoring table.
func DefaultTable() *Table {
	t, err := NewTable(defaultWeights, defaultAffinity)
	if err != nil {
		panic(fmt.Sprintf("default scoring table: %v", err))
	}
	return t
}

// NewTable builds and validates a table. Dimensions absent from affinity
// score exact agreement only.
func NewTable(weights map[Factor]float64, affinity map[attribute.Dimension][][]float64) (*Table, error) {
	t := &Table{weights: make(map[Factor]float64, len(weights))}
	for f, w := range weights {
		t.weights[f] = w
	}
	for _, d := range attribute.All() {
		m, ok := affinity[d]
		if !ok {
			m = identity(d.Len())
		}
		t.affinity[d] = cloneMatrix(m)
	}
	for d := range affinity {
		if !d.Valid() {
			return nil, fmt.Errorf("%w: affinity for unknown dimension %d", ErrTableMisconfigured, d)
		}
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// WithWeights returns a copy of t where the given factors use new points.
// Keys must be factor names; unknown keys are a misconfiguration.
func (t *Table) WithWeights(overrides map[string]float64) (*Table, error) {
	weights := make(map[Factor]float64, len(t.weights))
	for f, w := range t.weights {
		weights[f] = w
	}
	known := make(map[Factor]bool)
	for _, f := range Factors() {
		known[f] = true
	}
	for k, w := range overrides {
		f := Factor(k)
		if !known[f] {
			return nil, fmt.Errorf("%w: unknown factor %q", ErrTableMisconfigured, k)
		}
		weights[f] = w
	}
	affinity := make(map[attribute.Dimension][][]float64, attribute.Count)
	for _, d := range attribute.All() {
		affinity[d] = t.affinity[d]
	}
	return NewTable(weights, affinity)
}

// Validate checks that every factor has finite non-negative points and that
// every dimension has a square, symmetric affinity matrix over its options
// with entries in [0, 1].
func (t *Table) Validate() error {
	known := make(map[Factor]bool)
	for _, f := range Factors() {
		known[f] = true
		w, ok := t.weights[f]
		if !ok {
			return fmt.Errorf("%w: no weight for factor %q", ErrTableMisconfigured, f)
		}
		if math.IsNaN(w) || math.IsInf(w, 0) || w < 0 {
			return fmt.Errorf("%w: factor %q has invalid weight %v", ErrTableMisconfigured, f, w)
		}
	}
	for f := range t.weights {
		if !known[f] {
			return fmt.Errorf("%w: unknown factor %q", ErrTableMisconfigured, f)
		}
	}
	for _, d := range attribute.All() {
		m := t.affinity[d]
		n := d.Len()
		if len(m) != n {
			return fmt.Errorf("%w: %s affinity has %d rows, want %d", ErrTableMisconfigured, d, len(m), n)
		}
		for i := range m {
			if len(m[i]) != n {
				return fmt.Errorf("%w: %s affinity row %d has %d columns, want %d", ErrTableMisconfigured, d, i, len(m[i]), n)
			}
		}
		for i := range m {
			for j := range m[i] {
				v := m[i][j]
				if math.IsNaN(v) || v < 0 || v > 1 {
					return fmt.Errorf("%w: %s affinity[%d][%d]=%v out of [0,1]", ErrTableMisconfigured, d, i, j, v)
				}
				if m[j][i] != v {
					return fmt.Errorf("%w: %s affinity is not symmetric at [%d][%d]", ErrTableMisconfigured, d, i, j)
				}
			}
		}
	}
	return nil
}

// Weight returns the points for a full match on f.
func (t *Table) Weight(f Factor) float64 { return t.weights[f] }

// Weights returns a copy of the points per factor.
func (t *Table) Weights() map[Factor]float64 {
	out := make(map[Factor]float64, len(t.weights))
	for f, w := range t.weights {
		out[f] = w
	}
	return out
}

// Affinity returns how well options a and b of d go together, in [0, 1].
func (t *Table) Affinity(d attribute.Dimension, a, b attribute.Option) (float64, error) {
	if !d.Contains(a) || !d.Contains(b) {
		return 0, fmt.Errorf("%w: %s has no entry for options %d/%d", ErrTableMisconfigured, d, a, b)
	}
	m := t.affinity[d]
	if int(a) > len(m) || int(b) > len(m[a-1]) {
		return 0, fmt.Errorf("%w: %s affinity does not cover options %d/%d", ErrTableMisconfigured, d, a, b)
	}
	return m[a-1][b-1], nil
}

// SortedFactors returns the factors ordered by descending weight, then name.
func (t *Table) SortedFactors() []Factor {
	fs := Factors()
	sort.SliceStable(fs, func(i, j int) bool {
		wi, wj := t.weights[fs[i]], t.weights[fs[j]]
		if wi != wj {
			return wi > wj
		}
		return fs[i] < fs[j]
	})
	return fs
}

func identity(n int) [][]float64 {
	m := make([][]float64, n)
	for i := range m {
		m[i] = make([]float64, n)
		m[i][i] = 1
	}
	return m
}

func cloneMatrix(m [][]float64) [][]float64 {
	out := make([][]float64, len(m))
	for i := range m {
		out[i] = append([]float64(nil), m[i]...)
	}
	return out
}
