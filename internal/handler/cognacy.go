package handler

import (
	"net/http"

	"go.uber.org/zap"

	"lexibase/internal/domain"
	"lexibase/internal/service"
)

// CognacyHandler serves the cognate assignment and merge forms
type CognacyHandler struct {
	responder
	svc *service.CognacyService
}

// NewCognacyHandler creates a cognacy handler
func NewCognacyHandler(svc *service.CognacyService, logger *zap.Logger) *CognacyHandler {
	return &CognacyHandler{responder: newResponder(logger, "cognacy"), svc: svc}
}

// MergeForm is the state of the merge form for a word
type MergeForm struct {
	Word        domain.Word         `json:"word"`
	CognateSets []domain.CognateSet `json:"cognatesets"`
}

// GetAssign returns the assignment form choices
func (h *CognacyHandler) GetAssign(w http.ResponseWriter, r *http.Request) {
	choices, err := h.svc.Choices(r.Context())
	if err != nil {
		h.fail(w, r, "Failed to load choices", err)
		return
	}
	h.writeJSON(w, choices, http.StatusOK)
}

// PostAssign validates the assignment form and returns its candidates
func (h *CognacyHandler) PostAssign(w http.ResponseWriter, r *http.Request) {
	values, err := decodeValues(r)
	if err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	assignment, err := h.svc.DoCognate(r.Context(), values)
	if err != nil {
		h.fail(w, r, "Failed to select candidates", err)
		return
	}
	h.writeJSON(w, assignment, http.StatusOK)
}

// GetMerge returns the cognate sets that can be merged for a word
func (h *CognacyHandler) GetMerge(w http.ResponseWriter, r *http.Request) {
	word, sets, err := h.svc.MergeCandidates(r.Context(), r.PathValue("word"))
	if err != nil {
		h.fail(w, r, "Failed to load cognate sets", err)
		return
	}
	h.writeJSON(w, MergeForm{Word: *word, CognateSets: sets}, http.StatusOK)
}

// PostMerge merges two of the word's cognate sets
func (h *CognacyHandler) PostMerge(w http.ResponseWriter, r *http.Request) {
	_, sets, err := h.svc.MergeCandidates(r.Context(), r.PathValue("word"))
	if err != nil {
		h.fail(w, r, "Failed to load cognate sets", err)
		return
	}
	values, err := decodeValues(r)
	if err != nil {
		h.writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}
	result, err := h.svc.Merge(r.Context(), values, sets)
	if err != nil {
		h.fail(w, r, "Failed to merge cognate sets", err)
		return
	}
	h.writeJSON(w, result, http.StatusOK)
}
