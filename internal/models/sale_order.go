package models

import (
	"time"
)

// MontaSyncState tracks the push lifecycle of an order towards Monta
type MontaSyncState string

const (
	MontaSyncDraft     MontaSyncState = "draft"
	MontaSyncSent      MontaSyncState = "sent"
	MontaSyncUpdated   MontaSyncState = "updated"
	MontaSyncCancelled MontaSyncState = "cancelled"
	MontaSyncError     MontaSyncState = "error"
)

// MontaStatusSource identifies which WMS endpoint supplied a status
type MontaStatusSource string

const (
	SourceOrders      MontaStatusSource = "orders"
	SourceShipments   MontaStatusSource = "shipments"
	SourceOrderEvents MontaStatusSource = "orderevents"
)

// SaleOrder mirrors 'sale.order' plus the Monta sync fields.
// Name is the ERP order reference shared (imperfectly) with the WMS.
type SaleOrder struct {
	ID             int64      `gorm:"primaryKey;autoIncrement:false" json:"id" xmlrpc:"id"`
	Name           string     `gorm:"uniqueIndex;not null" json:"name" xmlrpc:"name"`
	State          string     `gorm:"index" json:"state" xmlrpc:"state"` // draft, sale, done, cancel
	ClientOrderRef OdooString `json:"client_order_ref" xmlrpc:"client_order_ref"`
	PartnerID      int64      `gorm:"index" json:"partner_id" xmlrpc:"partner_id"`
	AmountTotal    float64    `json:"amount_total" xmlrpc:"amount_total"`
	AmountTax      float64    `json:"amount_tax" xmlrpc:"amount_tax"`
	Currency       string     `json:"currency" xmlrpc:"currency"`
	WriteDate      time.Time  `gorm:"index" json:"write_date" xmlrpc:"write_date"`

	// Push state towards Monta
	MontaOrderID   string         `gorm:"index" json:"monta_order_id"`
	MontaSyncState MontaSyncState `gorm:"default:draft;index" json:"monta_sync_state"`
	MontaLastPush  *time.Time     `json:"monta_last_push,omitempty"`
	MontaNeedsSync bool           `gorm:"default:false" json:"monta_needs_sync"`

	// Status mirrors resolved from Monta
	MontaStatus           string            `gorm:"index" json:"monta_status"`
	MontaStatusNormalized string            `gorm:"index" json:"monta_status_normalized"`
	MontaStatusCode       string            `json:"monta_status_code"`
	MontaStatusSource     MontaStatusSource `json:"monta_status_source"`
	MontaTrackTrace       string            `json:"monta_track_trace"`
	MontaDeliveryDate     *time.Time        `json:"monta_delivery_date,omitempty"`
	MontaDeliveryMessage  string            `json:"monta_delivery_message"`
	MontaLastSync         *time.Time        `json:"monta_last_sync,omitempty"`
	MontaOnMonta          bool              `gorm:"default:false" json:"monta_on_monta"`

	// Delivery completion, set once the WMS reports the goods shipped
	// or delivered. Stands in for the ERP's picking validation.
	DeliveryDone   bool       `gorm:"default:false;index" json:"delivery_done"`
	DeliveryDoneAt *time.Time `json:"delivery_done_at,omitempty"`

	// Sync meta
	LastSyncedAt time.Time `json:"last_synced_at"`

	// Relations
	Partner *Partner        `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	Lines   []SaleOrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

func (SaleOrder) TableName() string {
	return "sale_order"
}

// ShouldPushNow applies the per-order throttle between pushes
func (so *SaleOrder) ShouldPushNow(minGap time.Duration) bool {
	if so.MontaLastPush == nil {
		return true
	}
	return time.Since(*so.MontaLastPush) >= minGap
}

// SaleOrderLine mirrors 'sale.order.line'
type SaleOrderLine struct {
	ID        int64   `gorm:"primaryKey;autoIncrement:false" json:"id" xmlrpc:"id"`
	OrderID   int64   `gorm:"index" json:"order_id" xmlrpc:"order_id"`
	ProductID int64   `gorm:"index" json:"product_id" xmlrpc:"product_id"`
	Qty       float64 `json:"product_uom_qty" xmlrpc:"product_uom_qty"`
	PriceTax  float64 `json:"price_tax" xmlrpc:"price_tax"`

	Product *ProductProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (SaleOrderLine) TableName() string {
	return "sale_order_line"
}
