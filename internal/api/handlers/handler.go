// handler.go — APIHandler реализует generated.ServerInterface,
// делегируя вызовы в отдельные handler'ы по доменам.
package handlers

import (
	"net/http"

	"github.com/bigkaa/goartstore/file-api/internal/api/generated"
)

// APIHandler — единая реализация ServerInterface.
type APIHandler struct {
	files  *FilesHandler
	health *HealthHandler
	spec   *SpecHandler
}

// NewAPIHandler создаёт единый handler для всех endpoints.
func NewAPIHandler(files *FilesHandler, health *HealthHandler, spec *SpecHandler) *APIHandler {
	return &APIHandler{
		files:  files,
		health: health,
		spec:   spec,
	}
}

// --- Files ---

func (h *APIHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	h.files.UploadFile(w, r)
}

func (h *APIHandler) GetFilesMetas(w http.ResponseWriter, r *http.Request) {
	h.files.GetFilesMetas(w, r)
}

func (h *APIHandler) DownloadFile(w http.ResponseWriter, r *http.Request, token generated.Token) {
	h.files.DownloadFile(w, r, token)
}

func (h *APIHandler) DeleteFile(w http.ResponseWriter, r *http.Request, token generated.Token) {
	h.files.DeleteFile(w, r, token)
}

// --- System ---

func (h *APIHandler) GetStatus(w http.ResponseWriter, r *http.Request) {
	h.health.GetStatus(w, r)
}

func (h *APIHandler) HealthLive(w http.ResponseWriter, r *http.Request) {
	h.health.HealthLive(w, r)
}

func (h *APIHandler) HealthReady(w http.ResponseWriter, r *http.Request) {
	h.health.HealthReady(w, r)
}

func (h *APIHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.health.GetMetrics(w, r)
}

func (h *APIHandler) GetOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	h.spec.GetOpenAPISpec(w, r)
}

// Проверка соответствия интерфейсу на этапе компиляции.
var _ generated.ServerInterface = (*APIHandler)(nil)
