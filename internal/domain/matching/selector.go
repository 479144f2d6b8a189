package matching

import (
	"sort"

	"github.com/okian/duet/internal/domain/model"
	"github.com/okian/duet/internal/domain/scoring"
)

type candidate struct {
	i, j   int // profile indices, profiles[i].ID < profiles[j].ID
	score  float64
	lo, hi string
}

// Select builds the score matrix for profiles and extracts a greedy maximal
// matching. Pairs come back in selection order, highest score first. The
// remaining profile, if n is odd, is returned as leftover.
func Select(profiles []model.Profile, s scoring.Scorer) ([]model.ScoredPair, *model.Profile, error) {
	m, err := BuildMatrix(profiles, s)
	if err != nil {
		return nil, nil, err
	}
	pairs, leftover := SelectFromMatrix(m)
	return pairs, leftover, nil
}

// SelectFromMatrix repeatedly takes the highest-scoring pair whose members
// are both still free. Ties break on the lexical order of the lower id, then
// the higher id, so identical input yields identical pairs.
func SelectFromMatrix(m *Matrix) ([]model.ScoredPair, *model.Profile) {
	n := m.Len()
	cands := make([]candidate, 0, n*(n-1)/2)
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			c := candidate{i: i, j: j, score: m.At(i, j).Value, lo: m.profiles[i].ID, hi: m.profiles[j].ID}
			if c.lo > c.hi {
				c.i, c.j = c.j, c.i
				c.lo, c.hi = c.hi, c.lo
			}
			cands = append(cands, c)
		}
	}
	sort.Slice(cands, func(a, b int) bool {
		ca, cb := cands[a], cands[b]
		if ca.score != cb.score {
			return ca.score > cb.score
		}
		if ca.lo != cb.lo {
			return ca.lo < cb.lo
		}
		return ca.hi < cb.hi
	})

	used := make([]bool, n)
	free := n
	pairs := make([]model.ScoredPair, 0, n/2)
	for _, c := range cands {
		if free < 2 {
			break
		}
		if used[c.i] || used[c.j] {
			continue
		}
		used[c.i], used[c.j] = true, true
		free -= 2
		r := m.At(c.i, c.j)
		pairs = append(pairs, model.ScoredPair{
			A:       m.profiles[c.i],
			B:       m.profiles[c.j],
			Score:   r.Value,
			Reasons: append([]model.Reason(nil), r.Reasons...),
		})
	}

	for i, u := range used {
		if !u {
			p := m.profiles[i]
			return pairs, &p
		}
	}
	return pairs, nil
}
