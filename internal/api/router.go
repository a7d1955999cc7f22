package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"

	"github.com/wonny/trendwatch/internal/api/handlers"
	"github.com/wonny/trendwatch/pkg/logger"
	"github.com/wonny/trendwatch/pkg/metrics"
)

// NewRouter creates and configures the HTTP router. rec may be nil, in which
// case /metrics is not served.
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(cardHandler *handlers.CardHandler, rec *metrics.Recorder, log *logger.Logger) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	if rec != nil {
		r.Handle("/metrics", rec.Handler()).Methods("GET")
	}

	api := r.PathPrefix("/api").Subrouter()

	api.HandleFunc("/tickers", cardHandler.GetTickers).Methods("GET")
	api.HandleFunc("/cards", cardHandler.GetCards).Methods("GET")
	api.HandleFunc("/cards/{code}", cardHandler.GetCard).Methods("GET")
	api.HandleFunc("/refresh", cardHandler.Refresh).Methods("POST")

	// Apply middleware
	r.Use(loggingMiddleware(log, rec))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": logger.ServiceName,
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

// statusRecorder captures the status code written by a handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// routeTemplate keeps metric labels bounded by using the matched route template.
func routeTemplate(r *http.Request) string {
	if route := mux.CurrentRoute(r); route != nil {
		if tpl, err := route.GetPathTemplate(); err == nil {
			return tpl
		}
	}
	return "unmatched"
}

// loggingMiddleware logs HTTP requests and records request metrics
func loggingMiddleware(log *logger.Logger, rec *metrics.Recorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			duration := time.Since(start)
			rec.RecordHTTPRequest(routeTemplate(r), r.Method, sw.status, duration)

			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   sw.status,
				"duration": duration,
			}).Debug("HTTP request")
		})
	}
}

// recoveryMiddleware recovers from panics
func recoveryMiddleware(log *logger.Logger) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					log.WithFields(map[string]interface{}{
						"error": err,
						"path":  r.URL.Path,
					}).Error("Panic recovered")

					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					json.NewEncoder(w).Encode(map[string]string{
						"error": "Internal server error",
					})
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}
