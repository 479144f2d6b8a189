package api

import (
	"net/http"

	"github.com/okian/duet/internal/domain/attribute"
)

// dimensionView is one entry of GET /v1/attributes.
type dimensionView struct {
	Key     string             `json:"key"`
	Field   string             `json:"field"`
	Title   string             `json:"title"`
	Options []attribute.Choice `json:"options"`
}

// AttributesHandler serves the questionnaire catalog.
type AttributesHandler struct {
	catalog []dimensionView
}

// NewAttributesHandler creates a new attributes handler.
func NewAttributesHandler() *AttributesHandler {
	dims := attribute.All()
	catalog := make([]dimensionView, len(dims))
	for i, d := range dims {
		catalog[i] = dimensionView{Key: d.Key(), Field: d.Field(), Title: d.Title(), Options: d.Choices()}
	}
	return &AttributesHandler{catalog: catalog}
}

// HandleGetAttributes handles GET /v1/attributes requests.
func (h *AttributesHandler) HandleGetAttributes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"dimensions": h.catalog})
}
