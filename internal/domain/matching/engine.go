package matching

import (
	"time"

	"github.com/okian/duet/internal/domain/model"
	"github.com/okian/duet/internal/domain/normalize"
	"github.com/okian/duet/internal/domain/scoring"
)

// Default engine configuration constants.
const (
	defaultFreshnessWindow = 24 * time.Hour
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithScorer replaces the default table scorer.
func WithScorer(s scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithFreshnessWindow sets how old a submission may be. A non-positive
// window disables the age check.
func WithFreshnessWindow(d time.Duration) Option {
	return func(e *Engine) {
		e.window = d
	}
}

// Engine runs Normalize -> Score-all -> Select -> Resolve-odd -> Assemble.
// It keeps no state between runs and is safe for concurrent use as long as
// its scorer is.
type Engine struct {
	scorer scoring.Scorer
	window time.Duration
}

// NewEngine creates an engine. Without WithScorer it uses the default table,
// which can only fail if the built-in table is broken.
func NewEngine(opts ...Option) (*Engine, error) {
	e := &Engine{window: defaultFreshnessWindow}
	for _, opt := range opts {
		opt(e)
	}
	if e.scorer == nil {
		s, err := scoring.NewTableScorer()
		if err != nil {
			return nil, err
		}
		e.scorer = s
	}
	return e, nil
}

// Window returns the freshness window in use.
func (e *Engine) Window() time.Duration { return e.window }

// Run normalizes records against now and pairs the eligible profiles.
// Invalid records are reported, not returned as errors. An error means the
// scorer faulted and no result is produced.
func (e *Engine) Run(records []model.RawRecord, now time.Time) (model.MatchingResult, normalize.Report, error) {
	profiles, rep := normalize.Normalize(records, now, e.window)
	res, err := e.Pair(profiles)
	if err != nil {
		return model.MatchingResult{}, rep, err
	}
	return res, rep, nil
}

// Pair runs the pipeline on already eligible profiles.
func (e *Engine) Pair(profiles []model.Profile) (model.MatchingResult, error) {
	m, err := BuildMatrix(profiles, e.scorer)
	if err != nil {
		return model.MatchingResult{}, err
	}
	pairs, leftover := SelectFromMatrix(m)
	trio, err := ResolveOddCount(pairs, leftover, m)
	if err != nil {
		return model.MatchingResult{}, err
	}
	return Assemble(pairs, trio), nil
}
