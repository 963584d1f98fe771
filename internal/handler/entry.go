package handler

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"

	"lexibase/internal/domain"
	"lexibase/internal/service"
)

// EntryHandler serves the per-task data-entry forms
type EntryHandler struct {
	responder
	svc *service.EntryService
}

// NewEntryHandler creates an entry handler
func NewEntryHandler(svc *service.EntryService, logger *zap.Logger) *EntryHandler {
	return &EntryHandler{responder: newResponder(logger, "entry"), svc: svc}
}

// EntrySubmission is the body of a task submission
type EntrySubmission struct {
	Rows []domain.EntryRow `json:"rows"`
}

// GetTask returns a task with its rows
func (h *EntryHandler) GetTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, "Invalid task ID", err.Error(), http.StatusBadRequest)
		return
	}
	f, err := h.svc.Form(r.Context(), id)
	if err != nil {
		h.fail(w, r, "Failed to build task form", err)
		return
	}
	h.writeJSON(w, f, http.StatusOK)
}

// PostTask saves submitted rows for a task
func (h *EntryHandler) PostTask(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		h.writeError(w, "Invalid task ID", err.Error(), http.StatusBadRequest)
		return
	}
	var body EntrySubmission
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.svc.Submit(r.Context(), id, body.Rows)
	if err != nil {
		h.fail(w, r, "Failed to save entries", err)
		return
	}
	h.writeJSON(w, result, http.StatusOK)
}
