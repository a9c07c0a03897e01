package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// WebSocketHandler serves the console websocket and its stats
type WebSocketHandler struct {
	hub *Hub
	// identify names the user behind a request, "" when anonymous
	identify func(r *http.Request) string
}

func NewWebSocketHandler(hub *Hub, identify func(r *http.Request) string) *WebSocketHandler {
	if identify == nil {
		identify = func(*http.Request) string { return "" }
	}
	return &WebSocketHandler{hub: hub, identify: identify}
}

// HandleConsole upgrades a console page to receive table updates
func (h *WebSocketHandler) HandleConsole(w http.ResponseWriter, r *http.Request) {
	username := h.identify(r)
	if err := h.hub.Upgrade(w, r, username); err != nil {
		// the upgrader has already replied to the client
		log.Error().
			Err(err).
			Str("username", username).
			Msg("failed to upgrade WebSocket connection")
	}
}

// HandleStats returns statistics about active connections
func (h *WebSocketHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(h.hub.Stats()); err != nil {
		log.Error().Err(err).Msg("failed to write connection stats")
	}
}

// RegisterRoutes registers WebSocket routes with a router
func (h *WebSocketHandler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/console", h.HandleConsole)
	r.Get("/ws/stats", h.HandleStats)
}
