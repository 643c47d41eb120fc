package api

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wonny/fleetdeck/internal/api/handlers"
	"github.com/wonny/fleetdeck/pkg/logger"
	"github.com/wonny/fleetdeck/pkg/metrics"
)

// NewRouter creates and configures the HTTP router
// ⭐ SSOT: 라우팅 설정은 이 함수에서만
func NewRouter(
	envHandler *handlers.EnvironmentHandler,
	missionHandler *handlers.MissionHandler,
	hub *Hub,
	recorder *metrics.Recorder,
	log *logger.Logger,
) http.Handler {
	r := mux.NewRouter()

	// Health check
	r.HandleFunc("/health", healthCheckHandler).Methods("GET")

	if recorder != nil {
		r.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}

	// API v1
	api := r.PathPrefix("/api").Subrouter()

	// Environment endpoints
	api.HandleFunc("/environment/{ticker}", envHandler.GetEnvironment).Methods("GET")
	api.HandleFunc("/recommendations/{ticker}", envHandler.GetRecommendations).Methods("GET")

	// Mission endpoints
	api.HandleFunc("/mission-types", missionHandler.GetTypes).Methods("GET")
	api.HandleFunc("/missions", missionHandler.List).Methods("GET")
	api.HandleFunc("/missions", missionHandler.Create).Methods("POST")
	api.HandleFunc("/missions/{id}", missionHandler.Get).Methods("GET")
	api.HandleFunc("/missions/{id}/log", missionHandler.AddLog).Methods("POST")
	api.HandleFunc("/missions/{id}/start", missionHandler.Start).Methods("POST")
	api.HandleFunc("/missions/{id}/complete", missionHandler.Complete).Methods("POST")
	api.HandleFunc("/missions/{id}/abandon", missionHandler.Abandon).Methods("POST")

	// Live snapshot stream
	if hub != nil {
		api.HandleFunc("/stream", hub.HandleWS).Methods("GET")
	}

	// Apply middleware
	r.Use(loggingMiddleware(log, recorder))
	r.Use(recoveryMiddleware(log))

	return r
}

// healthCheckHandler returns server health status
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":  "ok",
		"service": "fleetdeck-api",
	})
}

// statusRecorder captures the response status for logging and metrics
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(status int) {
	sr.status = status
	sr.ResponseWriter.WriteHeader(status)
}

// Hijack passes through so the websocket upgrade keeps working behind
// the middleware.
func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hj.Hijack()
}

// loggingMiddleware logs HTTP requests and feeds the request counter
func loggingMiddleware(log *logger.Logger, recorder *metrics.Recorder) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

			// Call next handler
			next.ServeHTTP(sr, r)

			// Log request
			log.WithFields(map[string]interface{}{
				"method":   r.Method,
				"path":     r.URL.Path,
				"status":   sr.status,
				"duration": time.Since(start),
			}).Debug("HTTP request")

			if recorder != nil {
				recorder.RecordHTTPRequest(r.URL.Path, strconv.Itoa(sr.status))
			}
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
