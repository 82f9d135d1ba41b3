// metrics.go — Prometheus HTTP метрики для File API.
// Регистрирует метрики: fa_http_requests_total, fa_http_request_duration_seconds.
// Бизнес-метрика fa_operations_total обновляется из сервисного слоя.
package middleware

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fa_http_requests_total",
			Help: "Общее количество HTTP-запросов к File API",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fa_http_request_duration_seconds",
			Help:    "Длительность HTTP-запросов к File API в секундах",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
)

// OperationsTotal — количество файловых операций (upload, download, delete)
// по результату: success, not_found, error, inconsistent.
var OperationsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Name: "fa_operations_total",
		Help: "Общее количество файловых операций",
	},
	[]string{"operation", "result"},
)

// MetricsMiddleware считает запросы и их длительность по методу,
// нормализованному пути и статусу.
func MetricsMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			path := normalizePath(r.URL.Path)
			httpRequestsTotal.WithLabelValues(r.Method, path, strconv.Itoa(responseStatus(ww))).Inc()
			httpRequestDuration.WithLabelValues(r.Method, path).Observe(time.Since(start).Seconds())
		})
	}
}

// knownPaths — статические пути API.
var knownPaths = map[string]struct{}{
	"/files":        {},
	"/files/metas":  {},
	"/status":       {},
	"/health/live":  {},
	"/health/ready": {},
	"/metrics":      {},
	"/openapi.json": {},
}

// normalizePath заменяет токен файла на {token}, чтобы лейбл path
// не рос вместе с количеством файлов.
// /file/6f1c...e2 → /file/{token}
func normalizePath(path string) string {
	if _, ok := knownPaths[path]; ok {
		return path
	}
	if rest, ok := strings.CutPrefix(path, "/file/"); ok && rest != "" && !strings.Contains(rest, "/") {
		return "/file/{token}"
	}
	return "other"
}
