package api

import (
	"net/http"

	"github.com/venturelens/pulse/internal/domain/model"
)

// KnowledgeHandler serves knowledge-base administration endpoints.
type KnowledgeHandler struct {
	deps Dependencies
}

// NewKnowledgeHandler creates a new knowledge handler.
func NewKnowledgeHandler(deps Dependencies) *KnowledgeHandler {
	return &KnowledgeHandler{deps: deps}
}

type reloadResponse struct {
	Status string `json:"status"`
}

// HandleReload handles POST /v1/knowledge/reload. A rejected reload leaves
// the previous knowledge base active, so failure here is a 422, not a 500.
func (h *KnowledgeHandler) HandleReload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	if err := h.deps.Reload(r.Context()); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_knowledge_base", err)
		return
	}
	writeJSON(w, http.StatusOK, reloadResponse{Status: "reloaded"})
}

type profilesResponse struct {
	Profiles []model.ClusterKey `json:"profiles"`
}

// HandleProfiles handles GET /v1/profiles.
func (h *KnowledgeHandler) HandleProfiles(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, profilesResponse{Profiles: h.deps.Profiles(r.Context())})
}
