package handlers

import (
	"context"
	"net/http"

	"github.com/devhassan17/montabridge/internal/models"
	"github.com/gorilla/mux"
	"gorm.io/gorm"
)

// triggerStatusSync runs one status batch immediately
func (r *Router) triggerStatusSync(w http.ResponseWriter, req *http.Request) {
	if !r.bridge.Client().Configured() {
		respondError(w, http.StatusServiceUnavailable, "Monta API not configured")
		return
	}
	// Detach from the request context, the batch outlives the response
	go r.bridge.SyncStatuses(context.Background(), r.cfg.Sync.BatchLimit)
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// triggerQtySync runs one quantity pull immediately
func (r *Router) triggerQtySync(w http.ResponseWriter, req *http.Request) {
	if !r.bridge.Client().Configured() {
		respondError(w, http.StatusServiceUnavailable, "Monta API not configured")
		return
	}
	go r.bridge.SyncQuantities(context.Background())
	respondJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// getOrderStatus returns the stored snapshot for one order
func (r *Router) getOrderStatus(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]

	var snap models.MontaOrderStatus
	err := r.db.Where("order_name = ? AND account_key = ?", name, r.bridge.Client().AccountKey()).
		First(&snap).Error
	if err == gorm.ErrRecordNotFound {
		respondError(w, http.StatusNotFound, "no snapshot for order "+name)
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, snap)
}

// syncOrder resolves one order against Monta right now and returns the
// refreshed mirror record.
func (r *Router) syncOrder(w http.ResponseWriter, req *http.Request) {
	name := mux.Vars(req)["name"]

	so, err := r.bridge.SyncOrderStatus(req.Context(), name)
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	respondJSON(w, http.StatusOK, map[string]interface{}{
		"name":              so.Name,
		"status":            so.MontaStatus,
		"status_normalized": so.MontaStatusNormalized,
		"source":            so.MontaStatusSource,
		"track_trace":       so.MontaTrackTrace,
		"on_monta":          so.MontaOnMonta,
	})
}
