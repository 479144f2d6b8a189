package api

import (
	"net/http"
)

// StatsProvider reports service counters for GET /stats.
type StatsProvider interface {
	GetStats() map[string]interface{}
}

// httpLimits is the request shaping the server applies.
type httpLimits struct {
	MaxBodyBytes   int64   `json:"maxBodyBytes"`
	RateLimitRPS   float64 `json:"rateLimitRps"`
	RateLimitBurst int     `json:"rateLimitBurst"`
}

// StatsHandler serves service counters and HTTP limits.
type StatsHandler struct {
	statsProvider StatsProvider
	limits        httpLimits
}

// NewStatsHandler creates a stats handler. A nil provider reports limits only.
func NewStatsHandler(statsProvider StatsProvider, maxBodyBytes int64, rps float64, burst int) *StatsHandler {
	l := httpLimits{MaxBodyBytes: maxBodyBytes}
	if rps > 0 {
		l.RateLimitRPS, l.RateLimitBurst = rps, burst
	}
	return &StatsHandler{statsProvider: statsProvider, limits: l}
}

// HandleStats handles GET /stats. The provider's map is copied so the
// "http" entry never leaks into it.
func (h *StatsHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	out := map[string]interface{}{}
	if h.statsProvider != nil {
		for k, v := range h.statsProvider.GetStats() {
			out[k] = v
		}
	}
	out["http"] = h.limits
	writeJSON(w, http.StatusOK, out)
}
