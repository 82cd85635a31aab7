package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"time"
)

type HealthResponse struct {
	Status     string                 `json:"status"`
	Timestamp  time.Time              `json:"timestamp"`
	Service    string                 `json:"service"`
	Components map[string]interface{} `json:"components"`
}

// SessionCounter reports how many browser sessions are live.
type SessionCounter interface {
	Len() int
}

type HealthHandler struct {
	sessions   SessionCounter
	serviceURL string
	logger     *slog.Logger
}

func NewHealthHandler(sessions SessionCounter, serviceURL string, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		sessions:   sessions,
		serviceURL: serviceURL,
		logger:     logger,
	}
}

func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	h.logger.Debug("Health check requested",
		"method", r.Method,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr)

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   "adventure-web",
		Components: map[string]interface{}{
			"sessions":     h.sessions.Len(),
			"game_service": h.serviceURL,
		},
	}

	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		h.logger.Error("Error encoding health response",
			"error", err,
			"method", r.Method,
			"path", r.URL.Path)
	}
}
