package api

import "net/http"

// VocabularyHandler serves the evaluation form choices.
type VocabularyHandler struct {
	deps Dependencies
}

// NewVocabularyHandler creates a new vocabulary handler.
func NewVocabularyHandler(deps Dependencies) *VocabularyHandler {
	return &VocabularyHandler{deps: deps}
}

// HandleVocabulary handles GET /vocabulary.
func (h *VocabularyHandler) HandleVocabulary(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.deps.Vocabulary())
}
