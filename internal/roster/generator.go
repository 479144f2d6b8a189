package roster

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/okian/duet/internal/domain/attribute"
	"github.com/okian/duet/internal/domain/model"
)

// Bounds for generated submission ages.
const (
	maxFreshAge = 6 * time.Hour
	staleAge    = 72 * time.Hour
)

var firstNames = []string{ //nolint:gochecknoglobals // fixed sample data
	"Noa", "Itai", "Maya", "Omer", "Tamar", "Yoav", "Shira", "Ariel",
	"Lia", "Eden", "Daniel", "Roni", "Gal", "Amit", "Yael", "Nadav",
}

// GenerateOption tunes Generate.
type GenerateOption func(*generator)

type generator struct {
	resubmits int
	invalid   int
	stale     int
}

// WithResubmissions appends n later submissions from already generated participants.
func WithResubmissions(n int) GenerateOption {
	return func(g *generator) {
		if n > 0 {
			g.resubmits = n
		}
	}
}

// WithInvalid appends n submissions with an unknown answer.
func WithInvalid(n int) GenerateOption {
	return func(g *generator) {
		if n > 0 {
			g.invalid = n
		}
	}
}

// WithStale appends n submissions older than a day.
func WithStale(n int) GenerateOption {
	return func(g *generator) {
		if n > 0 {
			g.stale = n
		}
	}
}

// Generate returns n complete, fresh submissions relative to now. The same
// seed yields the same roster, ids included.
func Generate(n int, seed int64, now time.Time, opts ...GenerateOption) ([]model.RawRecord, error) {
	if n < 0 {
		return nil, fmt.Errorf("participant count must not be negative, got %d", n)
	}
	g := generator{}
	for _, opt := range opts {
		opt(&g)
	}
	rng := rand.New(rand.NewSource(seed)) //nolint:gosec // reproducible sample data

	out := make([]model.RawRecord, 0, n+g.resubmits+g.invalid+g.stale)
	for i := 0; i < n; i++ {
		rec, err := randomRecord(rng, now.Add(-randomAge(rng, maxFreshAge)))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	for i := 0; i < g.resubmits && n > 0; i++ {
		again, err := randomRecord(rng, now.Add(-randomAge(rng, time.Minute)))
		if err != nil {
			return nil, err
		}
		orig := out[rng.Intn(n)]
		again.DeviceID, again.DisplayName = orig.DeviceID, orig.DisplayName
		out = append(out, again)
	}
	for i := 0; i < g.invalid; i++ {
		rec, err := randomRecord(rng, now.Add(-randomAge(rng, maxFreshAge)))
		if err != nil {
			return nil, err
		}
		rec.SetValue(attribute.Dimension(rng.Intn(attribute.Count)), "not-an-option")
		out = append(out, rec)
	}
	for i := 0; i < g.stale; i++ {
		rec, err := randomRecord(rng, now.Add(-staleAge-randomAge(rng, maxFreshAge)))
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, nil
}

func randomAge(rng *rand.Rand, limit time.Duration) time.Duration {
	return time.Duration(rng.Int63n(int64(limit)))
}

func randomRecord(rng *rand.Rand, at time.Time) (model.RawRecord, error) {
	id, err := uuid.NewRandomFromReader(rng)
	if err != nil {
		return model.RawRecord{}, fmt.Errorf("generate id: %w", err)
	}
	rec := model.RawRecord{
		DeviceID:    id.String(),
		DisplayName: fmt.Sprintf("%s %c.", firstNames[rng.Intn(len(firstNames))], 'A'+rune(rng.Intn(26))),
		CreatedAt:   at.UnixMilli(),
	}
	for _, d := range attribute.All() {
		choices := d.Choices()
		rec.SetValue(d, choices[rng.Intn(len(choices))].Slug)
	}
	return rec, nil
}
