package handler

import (
	"net/http"

	"github.com/msomdec/bis-arena/internal/service"
	"github.com/msomdec/bis-arena/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

// HubHandler serves the learning-hub catalog, as JSON and as page fragments.
type HubHandler struct {
	hub *service.HubService
}

// NewHubHandler creates a new HubHandler.
func NewHubHandler(hub *service.HubService) *HubHandler {
	return &HubHandler{hub: hub}
}

// HandleCategories returns hub categories, optionally filtered by the
// search query parameter.
// GET /api/hub?search=...
// Response: 200 {"categories":[...]}
func (h *HubHandler) HandleCategories(w http.ResponseWriter, r *http.Request) {
	cats := h.hub.Search(r.URL.Query().Get("search"))
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": toCategoryDTOs(cats),
	})
}

// HandleSearch patches the hub results section in place as the user types.
// GET /hub/search
func (h *HubHandler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		Search string `json:"search"`
	}
	// Fall back to the raw query parameter when no signals are attached.
	if err := datastar.ReadSignals(r, &signals); err != nil {
		signals.Search = r.URL.Query().Get("search")
	}

	cats := h.hub.Search(signals.Search)

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(
		view.HubResults(cats),
		datastar.WithSelectorID("hub-results"),
		datastar.WithModeInner(),
	)
}
