// health.go — обработчики health endpoints File API.
// /health/live — liveness probe (процесс жив)
// /health/ready — readiness probe (хранилище метаданных и blob-хранилище доступны)
// /status — статус сервиса в формате {"ok": true}
// /metrics — Prometheus метрики
package handlers

import (
	"net/http"
	"sort"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bigkaa/goartstore/file-api/internal/api/generated"
	"github.com/bigkaa/goartstore/file-api/internal/config"
)

// serviceName — имя сервиса в ответах health.
const serviceName = "file-api"

const statusOK = "ok"

// ReadinessChecker — интерфейс проверки готовности зависимости.
type ReadinessChecker interface {
	// CheckReady возвращает статус ("ok", "fail") и сообщение.
	CheckReady() (status string, message string)
}

// HealthHandler — обработчик health endpoints.
type HealthHandler struct {
	checks      map[string]ReadinessChecker
	promHandler http.Handler
}

// NewHealthHandler создаёт обработчик health endpoints.
// checks — проверки готовности по именам (metadata, storage).
func NewHealthHandler(checks map[string]ReadinessChecker) *HealthHandler {
	return &HealthHandler{
		checks:      checks,
		promHandler: promhttp.Handler(),
	}
}

// HealthLive — liveness probe. Возвращает 200 если процесс жив.
func (h *HealthHandler) HealthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, generated.HealthResponse{
		Status:    generated.HealthResponseStatusOk,
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Version:   config.Version,
		Service:   serviceName,
	})
}

// HealthReady — readiness probe. 503, если хотя бы одна проверка не прошла.
func (h *HealthHandler) HealthReady(w http.ResponseWriter, _ *http.Request) {
	overall := generated.HealthResponseStatusOk
	httpStatus := http.StatusOK
	checks := make(map[string]generated.HealthCheck, len(h.checks))

	names := make([]string, 0, len(h.checks))
	for name := range h.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		status, message := h.checks[name].CheckReady()
		check := generated.HealthCheck{Status: generated.HealthCheckStatusOk}
		if status != statusOK {
			check.Status = generated.HealthCheckStatusFail
			overall = generated.HealthResponseStatusFail
			httpStatus = http.StatusServiceUnavailable
		}
		if message != "" {
			check.Message = &message
		}
		checks[name] = check
	}

	writeJSON(w, httpStatus, generated.HealthResponse{
		Status:    overall,
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Version:   config.Version,
		Service:   serviceName,
		Checks:    &checks,
	})
}

// GetStatus — GET /status.
func (h *HealthHandler) GetStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, generated.StatusResponse{Ok: true})
}

// GetMetrics — Prometheus метрики.
func (h *HealthHandler) GetMetrics(w http.ResponseWriter, r *http.Request) {
	h.promHandler.ServeHTTP(w, r)
}
