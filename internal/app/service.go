// Package service provides the pairing service that implements the
// dependencies required by the HTTP API and the CLI.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/okian/duet/internal/domain/matching"
	"github.com/okian/duet/internal/domain/model"
	"github.com/okian/duet/internal/domain/normalize"
	"github.com/okian/duet/internal/domain/scoring"
	"github.com/okian/duet/pkg/logger"
	"github.com/okian/duet/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultFreshnessWindow = 24 * time.Hour
	defaultMaxParticipants = 200
	defaultReasonsShown    = 2
)

// Highlight is the short, human facing view of one group.
type Highlight struct {
	IDs     []string `json:"ids" yaml:"ids"`
	Names   []string `json:"names" yaml:"names"`
	Score   float64  `json:"score" yaml:"score"`
	Reasons []string `json:"reasons" yaml:"reasons"`
}

// Outcome is the full answer to a pairing request.
type Outcome struct {
	Result     model.MatchingResult `json:"result" yaml:"result"`
	Report     normalize.Report     `json:"report" yaml:"report"`
	Highlights []Highlight          `json:"highlights" yaml:"highlights"`
}

// Progress counts valid submissions against the expected head count.
type Progress struct {
	Valid    int  `json:"valid"`
	Expected int  `json:"expected"`
	Complete bool `json:"complete"`
}

// Service runs the pairing engine with configured limits and records
// metrics and logs around each run.
type Service struct {
	mu sync.RWMutex

	engine *matching.Engine
	scorer scoring.Scorer

	// Configuration
	window          time.Duration
	weights         map[string]float64
	maxParticipants int
	reasonsShown    int

	// State
	started      bool
	runs         int
	failedRuns   int
	lastRunAt    time.Time
	lastEligible int
	lastPairs    int
	lastTrio     bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithFreshnessWindow sets how old a submission may be. A non-positive
// window disables the age check.
func WithFreshnessWindow(d time.Duration) Option {
	return func(s *Service) {
		s.window = d
	}
}

// WithWeights overrides points per scoring factor.
func WithWeights(weights map[string]float64) Option {
	return func(s *Service) {
		s.weights = weights
	}
}

// WithScorer replaces the table scorer. Weights are ignored when set.
func WithScorer(sc scoring.Scorer) Option {
	return func(s *Service) {
		s.scorer = sc
	}
}

// WithMaxParticipants caps the number of records per request.
func WithMaxParticipants(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxParticipants = n
		}
	}
}

// WithReasonsShown sets how many reasons each highlight carries.
func WithReasonsShown(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.reasonsShown = n
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		window:          defaultFreshnessWindow,
		maxParticipants: defaultMaxParticipants,
		reasonsShown:    defaultReasonsShown,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start builds the scoring table and the engine. A misconfigured table is
// reported here, before any request is served.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	sc := s.scorer
	if sc == nil {
		ts, err := scoring.NewTableScorer(scoring.WithWeightsFromConfig(s.weights))
		if err != nil {
			metrics.RecordScorerFault()
			s.logger.Error(ctx, "scoring table rejected", logger.Error(err))
			return err
		}
		sc = ts
	}
	engine, err := matching.NewEngine(
		matching.WithScorer(sc),
		matching.WithFreshnessWindow(s.window),
	)
	if err != nil {
		return err
	}
	s.engine = engine
	s.started = true

	s.logger.Info(ctx, "pairing service started",
		logger.Duration("freshness_window", s.window),
		logger.Int("max_participants", s.maxParticipants),
		logger.Int("reasons_shown", s.reasonsShown),
	)
	return nil
}

// Stop marks the service as stopped. Runs in flight complete.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "pairing service stopped")
}

func (s *Service) currentEngine() (*matching.Engine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return nil, ErrNotStarted
	}
	return s.engine, nil
}

// Pair normalizes records against now and pairs the eligible participants.
// Ineligible records are counted in the report. An error means the request
// was refused or the scoring table faulted; no partial result is returned.
func (s *Service) Pair(ctx context.Context, records []model.RawRecord, now time.Time) (Outcome, error) {
	engine, err := s.currentEngine()
	if err != nil {
		return Outcome{}, err
	}
	if len(records) > s.maxParticipants {
		return Outcome{}, fmt.Errorf("%w: %d records, limit %d", ErrTooManyParticipants, len(records), s.maxParticipants)
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	start := time.Now()
	res, rep, err := engine.Run(records, now)
	latencyMs := float64(time.Since(start).Microseconds()) / 1000

	s.recordIntake(ctx, rep)
	if err != nil {
		if errors.Is(err, scoring.ErrTableMisconfigured) {
			metrics.RecordScorerFault()
		}
		metrics.RecordRun(metrics.RunFailed, latencyMs)
		s.mu.Lock()
		s.failedRuns++
		s.mu.Unlock()
		s.logger.Error(ctx, "pairing run failed", logger.Error(err), logger.Int("eligible", rep.Eligible))
		return Outcome{}, err
	}

	scores := make([]float64, len(res.Pairs))
	for i, p := range res.Pairs {
		scores[i] = p.Score
	}
	metrics.RecordPairs(scores, res.Trio != nil)
	metrics.RecordRun(string(res.Status), latencyMs)

	s.mu.Lock()
	s.runs++
	s.lastRunAt = now
	s.lastEligible = rep.Eligible
	s.lastPairs = len(res.Pairs)
	s.lastTrio = res.Trio != nil
	s.mu.Unlock()

	s.logger.Info(ctx, "pairing run finished",
		logger.String("status", string(res.Status)),
		logger.Int("records", rep.Total),
		logger.Int("eligible", rep.Eligible),
		logger.Int("skipped", rep.SkippedTotal()),
		logger.Int("pairs", len(res.Pairs)),
		logger.Bool("trio", res.Trio != nil),
		logger.Float64("latency_ms", latencyMs),
	)

	return Outcome{
		Result:     res,
		Report:     rep,
		Highlights: Highlights(res, s.reasonsShown),
	}, nil
}

// recordIntake logs every skipped record at debug level and counts skips by reason.
func (s *Service) recordIntake(ctx context.Context, rep normalize.Report) {
	metrics.RecordIntake(rep.Total, rep.Eligible)
	reasons := make([]string, 0, len(rep.Skipped))
	for r := range rep.Skipped {
		reasons = append(reasons, string(r))
	}
	sort.Strings(reasons)
	for _, r := range reasons {
		metrics.RecordSkipped(r, rep.Skipped[normalize.SkipReason(r)])
	}
	for _, sk := range rep.Skips {
		fields := []logger.Field{
			logger.Int("index", sk.Index),
			logger.String("device_id", sk.DeviceID),
			logger.String("reason", string(sk.Reason)),
		}
		if sk.Err != nil {
			fields = append(fields, logger.Error(sk.Err))
		}
		s.logger.Debug(ctx, "record skipped", fields...)
	}
}

// Progress reports how many valid submissions exist against expected.
func (s *Service) Progress(ctx context.Context, records []model.RawRecord, expected int, now time.Time) (Progress, error) {
	engine, err := s.currentEngine()
	if err != nil {
		return Progress{}, err
	}
	if expected < 0 {
		return Progress{}, ErrInvalidExpectedCount
	}
	if len(records) > s.maxParticipants {
		return Progress{}, fmt.Errorf("%w: %d records, limit %d", ErrTooManyParticipants, len(records), s.maxParticipants)
	}
	if err := ctx.Err(); err != nil {
		return Progress{}, err
	}
	_, rep := normalize.Normalize(records, now, engine.Window())
	return Progress{
		Valid:    rep.Eligible,
		Expected: expected,
		Complete: expected > 0 && rep.Eligible >= expected,
	}, nil
}

// Highlights condenses a result into one entry per group, keeping at most
// n reasons each. The trio member is listed with the pair it joins.
func Highlights(res model.MatchingResult, n int) []Highlight {
	out := make([]Highlight, len(res.Pairs))
	for i, p := range res.Pairs {
		h := Highlight{
			IDs:     []string{p.A.ID, p.B.ID},
			Names:   []string{p.A.DisplayName, p.B.DisplayName},
			Score:   p.Score,
			Reasons: p.TopReasons(n),
		}
		if res.Trio != nil && res.Trio.WithPairIndex == i {
			h.IDs = append(h.IDs, res.Trio.Lone.ID)
			h.Names = append(h.Names, res.Trio.Lone.DisplayName)
		}
		out[i] = h
	}
	return out
}

// MaxParticipants returns the per-request record limit.
func (s *Service) MaxParticipants() int { return s.maxParticipants }

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":         s.started,
		"freshnessWindow": s.window.String(),
		"maxParticipants": s.maxParticipants,
		"reasonsShown":    s.reasonsShown,
		"runs":            s.runs,
		"failedRuns":      s.failedRuns,
		"lastEligible":    s.lastEligible,
		"lastPairs":       s.lastPairs,
		"lastTrio":        s.lastTrio,
	}
	if !s.lastRunAt.IsZero() {
		stats["lastRunAt"] = s.lastRunAt.UTC().Format(time.RFC3339)
	}
	return stats
}
