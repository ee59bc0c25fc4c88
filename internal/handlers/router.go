package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/devhassan17/montabridge/internal/config"
	"github.com/devhassan17/montabridge/internal/database"
	"github.com/devhassan17/montabridge/internal/services/bridge"
	"github.com/gorilla/mux"
)

// Router wraps the mux router with the database and bridge service
type Router struct {
	*mux.Router
	db     *database.DB
	cfg    *config.Config
	bridge *bridge.Service
}

// NewRouter creates a new HTTP router with all routes
func NewRouter(db *database.DB, cfg *config.Config, svc *bridge.Service) *Router {
	r := &Router{
		Router: mux.NewRouter(),
		db:     db,
		cfg:    cfg,
		bridge: svc,
	}

	// Health check endpoint
	r.HandleFunc("/health", r.healthCheck).Methods("GET")

	// Webhook receiver for Monta push notifications
	r.HandleFunc("/monta/webhook", r.handleWebhook).Methods("POST")

	// API routes
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/status", r.getStatus).Methods("GET")
	api.HandleFunc("/sync/status", r.triggerStatusSync).Methods("POST")
	api.HandleFunc("/sync/qty", r.triggerQtySync).Methods("POST")
	api.HandleFunc("/orders/{name}/status", r.getOrderStatus).Methods("GET")
	api.HandleFunc("/orders/{name}/sync", r.syncOrder).Methods("POST")

	return r
}

// healthCheck returns the health status of the API
func (r *Router) healthCheck(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"server": "local",
	})
}

// getStatus returns the current bridge status
func (r *Router) getStatus(w http.ResponseWriter, req *http.Request) {
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":           "running",
		"version":          "1.0.0",
		"monta_configured": r.bridge.Client().Configured(),
		"account_key":      r.bridge.Client().AccountKey(),
	})
}

// respondJSON sends a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}
