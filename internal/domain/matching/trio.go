package matching

import (
	"github.com/okian/duet/internal/domain/model"
	"github.com/okian/duet/internal/domain/scoring"
)

// ResolveOddCount attaches the leftover participant to the pair with the
// highest combined affinity score(lone, A) + score(lone, B). Ties go to the
// earlier pair. It returns nil when there is no leftover or no pair.
func ResolveOddCount(pairs []model.ScoredPair, leftover *model.Profile, s scoring.Scorer) (*model.TrioAnnotation, error) {
	if leftover == nil || len(pairs) == 0 {
		return nil, nil
	}
	best, bestAffinity := -1, 0.0
	for i, p := range pairs {
		ra, err := s.Score(*leftover, p.A)
		if err != nil {
			return nil, err
		}
		rb, err := s.Score(*leftover, p.B)
		if err != nil {
			return nil, err
		}
		if aff := ra.Value + rb.Value; best < 0 || aff > bestAffinity {
			best, bestAffinity = i, aff
		}
	}
	return &model.TrioAnnotation{
		Lone:          *leftover,
		WithPairIndex: best,
		Affinity:      scoring.Round(bestAffinity),
	}, nil
}
