package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/devhassan17/montabridge/internal/models"
	"github.com/devhassan17/montabridge/internal/services/monta"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// webhookEnvelope is the body Monta POSTs to /monta/webhook
type webhookEnvelope struct {
	Secret string                 `json:"secret"`
	Event  string                 `json:"event"`
	Data   map[string]interface{} `json:"data"`
}

// handleWebhook receives push notifications from Monta. The shared
// secret gates every event; an unknown event type is acknowledged and
// ignored so Monta does not retry it forever.
func (r *Router) handleWebhook(w http.ResponseWriter, req *http.Request) {
	var env webhookEnvelope
	if err := json.NewDecoder(req.Body).Decode(&env); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	if secret := r.cfg.Monta.WebhookSecret; secret != "" && env.Secret != secret {
		log.Printf("[Webhook] invalid secret for event %q", env.Event)
		respondError(w, http.StatusForbidden, "invalid webhook secret")
		return
	}

	log.Printf("[Webhook] received %q", env.Event)
	switch env.Event {
	case "shipment.updated":
		r.processShipmentUpdate(env.Data)
	case "order.updated":
		r.processOrderUpdate(env.Data)
	case "inventory.updated":
		r.processInventoryUpdate(env.Data)
	default:
		log.Printf("[Webhook] ignoring unknown event %q", env.Event)
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func str(m map[string]interface{}, key string) string {
	if v, okv := m[key].(string); okv {
		return v
	}
	return ""
}

// orderByMontaID finds the mirrored order carrying a webshop order id
func (r *Router) orderByMontaID(montaOrderID string) *models.SaleOrder {
	if strings.TrimSpace(montaOrderID) == "" {
		return nil
	}
	var so models.SaleOrder
	err := r.db.Where("monta_order_id = ? OR name = ?", montaOrderID, montaOrderID).First(&so).Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Printf("[Webhook] order lookup %s: %v", montaOrderID, err)
		}
		return nil
	}
	return &so
}

// processShipmentUpdate mirrors tracking and status from a shipment
// event and records per-line batch traces when the payload has them.
func (r *Router) processShipmentUpdate(data map[string]interface{}) {
	so := r.orderByMontaID(str(data, "orderId"))
	if so == nil {
		log.Printf("[Webhook] no order found for Monta ID %q", str(data, "orderId"))
		return
	}

	status := str(data, "status")
	tracking := str(data, "trackingNumber")
	now := time.Now()

	updates := map[string]interface{}{"monta_last_sync": now}
	if status != "" {
		normalized := monta.Normalize(status)
		updates["monta_status"] = status
		updates["monta_status_normalized"] = normalized
		updates["monta_status_source"] = models.SourceShipments
		// Shipment webhooks reporting shipped/delivered complete the
		// delivery, mirroring the ERP's picking validation
		if !so.DeliveryDone && (normalized == monta.StatusShipped || normalized == monta.StatusDelivered) {
			updates["delivery_done"] = true
			updates["delivery_done_at"] = now
		}
	}
	if tracking != "" {
		updates["monta_track_trace"] = tracking
	}
	if err := r.db.Model(so).Updates(updates).Error; err != nil {
		log.Printf("[Webhook] update %s: %v", so.Name, err)
		return
	}

	if lines, okl := data["lines"].([]interface{}); okl {
		for _, item := range lines {
			lm, okm := item.(map[string]interface{})
			if !okm {
				continue
			}
			qty, _ := lm["quantity"].(float64)
			raw, _ := json.Marshal(lm)
			trace := models.OrderBatchTrace{
				SaleOrderID:    so.ID,
				SKU:            str(lm, "sku"),
				BatchNumber:    str(lm, "batchNumber"),
				Qty:            qty,
				Carrier:        str(data, "carrier"),
				TrackingNumber: tracking,
				RawPayload:     datatypes.JSON(raw),
			}
			if d, err := time.Parse("2006-01-02", str(lm, "expiryDate")); err == nil {
				trace.ExpiryDate = &d
			}
			if err := r.db.Create(&trace).Error; err != nil {
				log.Printf("[Webhook] batch trace for %s: %v", so.Name, err)
			}
		}
	}

	log.Printf("[Webhook] %s shipment update applied (status=%q, tracking=%q)", so.Name, status, tracking)
}

// processOrderUpdate mirrors an order-level status change
func (r *Router) processOrderUpdate(data map[string]interface{}) {
	id := str(data, "id")
	if id == "" {
		id = str(data, "orderId")
	}
	so := r.orderByMontaID(id)
	if so == nil {
		log.Printf("[Webhook] no order found for Monta ID %q", id)
		return
	}

	status := str(data, "status")
	if status == "" {
		return
	}
	updates := map[string]interface{}{
		"monta_status":            status,
		"monta_status_normalized": monta.Normalize(status),
		"monta_status_source":     models.SourceOrders,
		"monta_last_sync":         time.Now(),
	}
	if monta.Normalize(status) == monta.StatusCancelled {
		updates["monta_sync_state"] = models.MontaSyncCancelled
	}
	if err := r.db.Model(so).Updates(updates).Error; err != nil {
		log.Printf("[Webhook] update %s: %v", so.Name, err)
	}
}

// processInventoryUpdate applies a stock level pushed by Monta
func (r *Router) processInventoryUpdate(data map[string]interface{}) {
	sku := strings.TrimSpace(str(data, "sku"))
	if sku == "" {
		return
	}
	qty, _ := data["quantity"].(float64)
	if qty < 0 {
		qty = 0
	}

	var product models.ProductProduct
	err := r.db.Where("monta_sku = ? OR default_code = ? OR barcode = ?", sku, sku, sku).
		First(&product).Error
	if err != nil {
		log.Printf("[Webhook] no product found for SKU %q", sku)
		return
	}
	// Kits never take a direct quantity
	if product.IsKit {
		log.Printf("[Webhook] ignoring inventory event for kit SKU %q", sku)
		return
	}

	err = r.db.Model(&product).Updates(map[string]interface{}{
		"qty_available":  qty,
		"last_synced_at": time.Now(),
	}).Error
	if err != nil {
		log.Printf("[Webhook] stock update for %q: %v", sku, err)
		return
	}
	log.Printf("[Webhook] stock for %q set to %.0f", sku, qty)
}
