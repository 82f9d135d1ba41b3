package handlers

import (
	"net/http"
)

// SpecHandler отдаёт OpenAPI документ, подготовленный при старте.
type SpecHandler struct {
	document []byte
}

// NewSpecHandler создаёт обработчик GET /openapi.json.
func NewSpecHandler(document []byte) *SpecHandler {
	return &SpecHandler{document: document}
}

// GetOpenAPISpec — GET /openapi.json.
func (h *SpecHandler) GetOpenAPISpec(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(h.document)
}
