package handler

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"lexibase/internal/service"
)

// CatalogHandler serves the listing and detail endpoints
type CatalogHandler struct {
	responder
	svc *service.CatalogService
}

// NewCatalogHandler creates a catalog handler
func NewCatalogHandler(svc *service.CatalogService, logger *zap.Logger) *CatalogHandler {
	return &CatalogHandler{responder: newResponder(logger, "catalog"), svc: svc}
}

// ListWords returns every word
func (h *CatalogHandler) ListWords(w http.ResponseWriter, r *http.Request) {
	words, err := h.svc.Words(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list words", err)
		return
	}
	h.writeJSON(w, words, http.StatusOK)
}

// GetWord returns a word by slug
func (h *CatalogHandler) GetWord(w http.ResponseWriter, r *http.Request) {
	word, err := h.svc.Word(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.fail(w, r, "Failed to get word", err)
		return
	}
	h.writeJSON(w, word, http.StatusOK)
}

// GetSubset returns a word subset and its words
func (h *CatalogHandler) GetSubset(w http.ResponseWriter, r *http.Request) {
	subset, err := h.svc.Subset(r.Context(), r.PathValue("slug"))
	if err != nil {
		h.fail(w, r, "Failed to get word subset", err)
		return
	}
	h.writeJSON(w, subset, http.StatusOK)
}

// GetCognateSet returns a cognate set with members and notes
func (h *CatalogHandler) GetCognateSet(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, "Invalid cognate set ID", err.Error(), http.StatusBadRequest)
		return
	}
	set, err := h.svc.CognateSet(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to get cognate set", err)
		return
	}
	h.writeJSON(w, set, http.StatusOK)
}

// ListTasks returns every task
func (h *CatalogHandler) ListTasks(w http.ResponseWriter, r *http.Request) {
	tasks, err := h.svc.Tasks(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to list tasks", err)
		return
	}
	h.writeJSON(w, tasks, http.StatusOK)
}

// GetTask returns a task
func (h *CatalogHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, "Invalid task ID", err.Error(), http.StatusBadRequest)
		return
	}
	task, err := h.svc.Task(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to get task", err)
		return
	}
	h.writeJSON(w, task, http.StatusOK)
}

// GetClades returns the clade aggregation; ?depth=N overrides the default
func (h *CatalogHandler) GetClades(w http.ResponseWriter, r *http.Request) {
	depth := 0
	if v := r.URL.Query().Get("depth"); v != "" {
		d, err := strconv.Atoi(v)
		if err != nil || d < 1 {
			h.writeError(w, "Invalid depth", "depth must be a positive integer", http.StatusBadRequest)
			return
		}
		depth = d
	}
	clades, err := h.svc.Clades(r.Context(), depth)
	if err != nil {
		h.fail(w, r, "Failed to aggregate clades", err)
		return
	}
	h.writeJSON(w, clades, http.StatusOK)
}

// GetStatistics returns row counts
func (h *CatalogHandler) GetStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := h.svc.Statistics(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to compute statistics", err)
		return
	}
	h.writeJSON(w, stats, http.StatusOK)
}

// Health reports liveness
func (h *CatalogHandler) Health(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, map[string]string{"status": "ok"}, http.StatusOK)
}
