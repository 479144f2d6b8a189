package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/okian/duet/internal/domain/model"
	"github.com/okian/duet/pkg/logger"
)

// pairingsRequest is the body of POST /v1/pairings.
type pairingsRequest struct {
	// Now is the evaluation time in epoch milliseconds; the server clock when omitted.
	Now     *json.Number      `json:"now,omitempty"`
	Records []model.RawRecord `json:"records"`
}

// PairingsHandler handles pairing requests.
type PairingsHandler struct {
	deps         Dependencies
	maxBodyBytes int64
	clock        func() time.Time
	logger       logger.Logger
}

// NewPairingsHandler creates a new pairings handler.
func NewPairingsHandler(deps Dependencies, maxBodyBytes int64, clock func() time.Time, l logger.Logger) *PairingsHandler {
	return &PairingsHandler{deps: deps, maxBodyBytes: maxBodyBytes, clock: clock, logger: l}
}

// HandlePostPairings handles POST /v1/pairings requests.
func (h *PairingsHandler) HandlePostPairings(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_pairings"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req pairingsRequest
	if err := decodeBody(w, r, h.maxBodyBytes, &req); err != nil {
		writeFailure(w, op, err)
		return
	}
	now, err := requestTime(req.Now, h.clock)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	out, err := h.deps.Pair(r.Context(), req.Records, now)
	if err != nil {
		h.logger.Warn(r.Context(), "pairing request failed", logger.String("op", op), logger.Error(err))
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}
