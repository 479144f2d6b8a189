// Package matching partitions eligible profiles into scored pairs and, for
// odd rosters, one trio.
package matching

import (
	"fmt"

	"github.com/okian/duet/internal/domain/model"
	"github.com/okian/duet/internal/domain/scoring"
)

// Matrix caches the score of every unordered pair of profiles.
// It also implements scoring.Scorer for the profiles it was built from.
type Matrix struct {
	profiles []model.Profile
	index    map[string]int
	cells    []scoring.Result // upper triangle, row-major, i < j
	scorer   scoring.Scorer
}

var _ scoring.Scorer = (*Matrix)(nil)

// BuildMatrix scores all n(n-1)/2 pairs of profiles. Ids must be unique.
func BuildMatrix(profiles []model.Profile, s scoring.Scorer) (*Matrix, error) {
	n := len(profiles)
	m := &Matrix{
		profiles: profiles,
		index:    make(map[string]int, n),
		cells:    make([]scoring.Result, n*(n-1)/2),
		scorer:   s,
	}
	for i, p := range profiles {
		if _, dup := m.index[p.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateProfile, p.ID)
		}
		m.index[p.ID] = i
	}
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			r, err := s.Score(profiles[i], profiles[j])
			if err != nil {
				return nil, fmt.Errorf("score %q/%q: %w", profiles[i].ID, profiles[j].ID, err)
			}
			m.cells[m.offset(i, j)] = r
		}
	}
	return m, nil
}

// Len returns the number of profiles.
func (m *Matrix) Len() int { return len(m.profiles) }

// At returns the score of profiles i and j. The diagonal is zero.
func (m *Matrix) At(i, j int) scoring.Result {
	if i == j {
		return scoring.Result{}
	}
	if i > j {
		i, j = j, i
	}
	return m.cells[m.offset(i, j)]
}

// Score implements scoring.Scorer, answering from the cache when both
// profiles are known and delegating otherwise.
func (m *Matrix) Score(a, b model.Profile) (scoring.Result, error) {
	i, okA := m.index[a.ID]
	j, okB := m.index[b.ID]
	if okA && okB {
		return m.At(i, j), nil
	}
	return m.scorer.Score(a, b)
}

// offset maps i < j to the flat upper-triangle position.
func (m *Matrix) offset(i, j int) int {
	n := len(m.profiles)
	return i*(2*n-i-1)/2 + (j - i - 1)
}
