// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	service "github.com/okian/duet/internal/app"
	"github.com/okian/duet/internal/domain/model"
	"github.com/okian/duet/internal/domain/scoring"
	"github.com/okian/duet/pkg/logger"
)

// Default server configuration constants.
const (
	defaultMaxBodyBytes = 1 << 20
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	Pair(ctx context.Context, records []model.RawRecord, now time.Time) (service.Outcome, error)
	Progress(ctx context.Context, records []model.RawRecord, expected int, now time.Time) (service.Progress, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler     *HealthHandler
	statsHandler      *StatsHandler
	pairingsHandler   *PairingsHandler
	progressHandler   *ProgressHandler
	attributesHandler *AttributesHandler

	maxBodyBytes int64
	rps          float64
	burst        int
	clock        func() time.Time
	logger       logger.Logger
}

// Option applies a configuration option to the Server.
type Option func(*Server)

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// WithRateLimit limits POST endpoints to rps requests per second per client
// with the given burst. A non-positive rps disables limiting.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		s.rps = rps
		s.burst = burst
	}
}

// WithClock sets the time source used when a request carries no "now".
func WithClock(now func() time.Time) Option {
	return func(s *Server) {
		if now != nil {
			s.clock = now
		}
	}
}

// WithLogger sets the logger for request failures.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) *Server {
	s := &Server{
		maxBodyBytes: defaultMaxBodyBytes,
		clock:        time.Now,
		logger:       logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.healthHandler = NewHealthHandler()
	s.statsHandler = NewStatsHandler(statsProvider, s.maxBodyBytes, s.rps, s.burst)
	s.pairingsHandler = NewPairingsHandler(deps, s.maxBodyBytes, s.clock, s.logger)
	s.progressHandler = NewProgressHandler(deps, s.maxBodyBytes, s.clock)
	s.attributesHandler = NewAttributesHandler()
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	limit := NewRateLimiter(s.rps, s.burst)

	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/metrics", s.healthHandler.HandleMetrics)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/v1/attributes", MetricsMiddleware(s.attributesHandler.HandleGetAttributes, "attributes"))
	mux.HandleFunc("/v1/pairings", MetricsMiddleware(limit.Wrap(s.pairingsHandler.HandlePostPairings, "pairings"), "pairings"))
	mux.HandleFunc("/v1/progress", MetricsMiddleware(limit.Wrap(s.progressHandler.HandlePostProgress, "progress"), "progress"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// decodeBody reads one JSON document of at most limit bytes into v.
// Numbers are kept as json.Number so epoch milliseconds stay exact.
func decodeBody(w http.ResponseWriter, r *http.Request, limit int64, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, limit))
	dec.UseNumber()
	if err := dec.Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: body exceeds %d bytes", ErrPayloadTooLarge, tooLarge.Limit)
		}
		if errors.Is(err, io.EOF) {
			return fmt.Errorf("%w: empty body", ErrBadRequest)
		}
		return fmt.Errorf("%w: %w", ErrBadRequest, err)
	}
	if dec.More() {
		return fmt.Errorf("%w: trailing data after JSON body", ErrBadRequest)
	}
	return nil
}

// requestTime resolves the optional "now" field in epoch milliseconds.
func requestTime(now *json.Number, clock func() time.Time) (time.Time, error) {
	if now == nil || *now == "" {
		return clock(), nil
	}
	ms, err := now.Int64()
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: now must be epoch milliseconds", ErrBadRequest)
	}
	return time.UnixMilli(ms).UTC(), nil
}

// writeFailure maps an error to its status and error code.
func writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, ErrPayloadTooLarge):
		writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", WrapKind(op, ErrPayloadTooLarge, err))
	case errors.Is(err, service.ErrTooManyParticipants):
		writeError(w, http.StatusRequestEntityTooLarge, "too_many_participants", WrapKind(op, ErrBadRequest, err))
	case errors.Is(err, ErrBadRequest), errors.Is(err, service.ErrInvalidExpectedCount):
		writeError(w, http.StatusBadRequest, "bad_request", Wrap(op, err))
	case errors.Is(err, service.ErrNotStarted):
		writeError(w, http.StatusServiceUnavailable, "unavailable", WrapKind(op, ErrUnavailable, err))
	case errors.Is(err, scoring.ErrTableMisconfigured):
		writeError(w, http.StatusInternalServerError, "misconfigured", WrapKind(op, ErrInternal, err))
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", WrapKind(op, ErrInternal, err))
	}
}
