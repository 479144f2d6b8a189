package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/okian/duet/internal/domain/model"
)

// progressRequest is the body of POST /v1/progress.
type progressRequest struct {
	Now      *json.Number      `json:"now,omitempty"`
	Expected int               `json:"expected"`
	Records  []model.RawRecord `json:"records"`
}

// ProgressHandler reports how many valid answers have arrived.
type ProgressHandler struct {
	deps         Dependencies
	maxBodyBytes int64
	clock        func() time.Time
}

// NewProgressHandler creates a new progress handler.
func NewProgressHandler(deps Dependencies, maxBodyBytes int64, clock func() time.Time) *ProgressHandler {
	return &ProgressHandler{deps: deps, maxBodyBytes: maxBodyBytes, clock: clock}
}

// HandlePostProgress handles POST /v1/progress requests.
func (h *ProgressHandler) HandlePostProgress(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_progress"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req progressRequest
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		writeFailure(w, op, err)
		return
	}
	now, err := requestTime(req.Now, h.clock)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	p, err := h.deps.Progress(r.Context(), req.Records, req.Expected, now)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}
