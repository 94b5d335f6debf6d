// File: internal/server/server.go
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/smartdevs17/health-sms-relay/internal/metrics"
	"github.com/smartdevs17/health-sms-relay/internal/relay"
	"github.com/smartdevs17/health-sms-relay/pkg/utils"
)

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port          int           `json:"port"`
	Host          string        `json:"host"`
	ReadTimeout   time.Duration `json:"read_timeout"`
	WriteTimeout  time.Duration `json:"write_timeout"`
	EnableMetrics bool          `json:"enable_metrics"`
}

// HTTPServer represents the HTTP server
type HTTPServer struct {
	config         *ServerConfig
	server         *http.Server
	router         *mux.Router
	relay          *relay.Relay
	metricsManager *metrics.Manager
	logger         *logrus.Logger
}

// webhookPayload is the JSON body posted by the Android relay
type webhookPayload struct {
	Sender string `json:"sender"`
	Body   string `json:"body"`
}

// NewHTTPServer creates a new HTTP server
func NewHTTPServer(
	config *ServerConfig,
	messageRelay *relay.Relay,
	metricsManager *metrics.Manager,
) (*HTTPServer, error) {

	server := &HTTPServer{
		config:         config,
		relay:          messageRelay,
		metricsManager: metricsManager,
		logger:         utils.GetLogger(),
	}

	// Setup router
	server.setupRouter()

	// Create HTTP server
	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", config.Host, config.Port),
		Handler:      server.router,
		ReadTimeout:  config.ReadTimeout,
		WriteTimeout: config.WriteTimeout,
	}

	return server, nil
}

// setupRouter sets up the HTTP routes
func (s *HTTPServer) setupRouter() {
	s.router = mux.NewRouter()

	// Middleware
	s.router.Use(s.recoveryMiddleware)
	s.router.Use(s.loggingMiddleware)
	if s.metricsManager != nil {
		s.router.Use(s.metricsMiddleware)
	}

	// Liveness check
	s.router.HandleFunc("/", s.indexHandler).Methods("GET")

	// Scheduled trigger
	s.router.HandleFunc("/trigger-daily-checkin", s.triggerDailyCheckinHandler).Methods("GET")

	// Incoming SMS notifications from the Android relay
	s.router.HandleFunc("/android-webhook", s.androidWebhookHandler).Methods("POST")

	// Metrics endpoint
	if s.config.EnableMetrics {
		s.router.Handle("/metrics", promhttp.Handler()).Methods("GET")
	}
}

// Handler returns the configured router, for tests and embedding
func (s *HTTPServer) Handler() http.Handler {
	return s.router
}

// Start starts the HTTP server
func (s *HTTPServer) Start() error {
	s.logger.Info("Starting HTTP server", map[string]interface{}{
		"address":         s.server.Addr,
		"metrics_enabled": s.config.EnableMetrics,
	})

	if s.metricsManager != nil {
		s.metricsManager.UpdateSystemMetrics()
		go s.systemMetricsUpdater()
	}

	// Create a channel to receive startup errors
	errChan := make(chan error, 1)

	go func() {
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			s.logger.Error("HTTP server error", map[string]interface{}{"error": err})
			errChan <- err
		}
	}()

	// Give the server a moment to start and check for immediate binding errors
	select {
	case err := <-errChan:
		return fmt.Errorf("failed to start HTTP server: %w", err)
	case <-time.After(100 * time.Millisecond):
		return nil
	}
}

// systemMetricsUpdater updates system metrics periodically
func (s *HTTPServer) systemMetricsUpdater() {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for range ticker.C {
		s.metricsManager.UpdateSystemMetrics()
	}
}

// Stop stops the HTTP server
func (s *HTTPServer) Stop() error {
	s.logger.Info("Stopping HTTP server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}

// Handlers

// indexHandler answers the liveness check
func (s *HTTPServer) indexHandler(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "ok",
		"message": "Personal Health SMS Bot is running",
	})
}

// triggerDailyCheckinHandler handles the authenticated cron trigger
func (s *HTTPServer) triggerDailyCheckinHandler(w http.ResponseWriter, r *http.Request) {
	providedSecret := r.URL.Query().Get("secret")

	if err := s.relay.TriggerCheckin(r.Context(), providedSecret); err != nil {
		switch utils.ErrorCode(err) {
		case utils.ErrCodeUnauthorized:
			s.writeError(w, http.StatusUnauthorized, "Unauthorized")
		case utils.ErrCodeDelivery:
			s.writeError(w, http.StatusInternalServerError, "Failed to send SMS")
		default:
			s.logger.Error("Error in trigger handler", map[string]interface{}{"error": err})
			s.writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("Triggered"))
}

// androidWebhookHandler handles incoming SMS notifications
func (s *HTTPServer) androidWebhookHandler(w http.ResponseWriter, r *http.Request) {
	var payload webhookPayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.logger.Error("Invalid payload received", map[string]interface{}{"error": err})
		s.writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	if payload.Sender == "" || payload.Body == "" {
		s.logger.Error("Invalid payload received: missing sender or body")
		s.writeError(w, http.StatusBadRequest, "Invalid payload")
		return
	}

	result, err := s.relay.HandleMessage(r.Context(), payload.Sender, payload.Body)
	if err != nil {
		switch utils.ErrorCode(err) {
		case utils.ErrCodePersistence:
			s.writeError(w, http.StatusInternalServerError, "Failed to log entry")
		default:
			s.logger.Error("Error in webhook handler", map[string]interface{}{"error": err})
			s.writeError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	s.writeJSON(w, http.StatusOK, result)
}

// Utility Methods

// writeJSON writes a JSON response
func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.logger.Error("Failed to encode JSON response", map[string]interface{}{"error": err})
	}
}

// writeError writes an error response. The body shape is part of the
// webhook contract: exactly {"error": "<message>"}.
func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]interface{}{
		"error": message,
	})
}
