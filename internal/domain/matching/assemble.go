package matching

import "github.com/okian/duet/internal/domain/model"

// Assemble packages selected pairs and the optional trio. Pairs keep their
// selection order; nothing is recomputed.
func Assemble(pairs []model.ScoredPair, trio *model.TrioAnnotation) model.MatchingResult {
	res := model.MatchingResult{
		Status: model.StatusReady,
		Pairs:  make([]model.ScoredPair, len(pairs)),
	}
	copy(res.Pairs, pairs)
	if len(pairs) == 0 {
		res.Status = model.StatusInsufficientParticipants
		return res
	}
	if trio != nil {
		t := *trio
		res.Trio = &t
	}
	return res
}

// AsError converts an insufficient result into ErrInsufficientParticipants.
func AsError(res model.MatchingResult) error {
	if res.Status == model.StatusInsufficientParticipants {
		return ErrInsufficientParticipants
	}
	return nil
}
