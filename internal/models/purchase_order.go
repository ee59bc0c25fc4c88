package models

import (
	"time"
)

// PurchaseOrder mirrors 'purchase.order' and feeds inbound forecasts.
type PurchaseOrder struct {
	ID          int64      `gorm:"primaryKey;autoIncrement:false" json:"id" xmlrpc:"id"`
	Name        string     `gorm:"uniqueIndex;not null" json:"name" xmlrpc:"name"`
	State       string     `gorm:"index" json:"state" xmlrpc:"state"` // draft, purchase, done, cancel
	PartnerID   int64      `gorm:"index" json:"partner_id" xmlrpc:"partner_id"`
	Origin      OdooString `json:"origin" xmlrpc:"origin"`
	DatePlanned *time.Time `json:"date_planned,omitempty" xmlrpc:"date_planned"`
	WriteDate   time.Time  `gorm:"index" json:"write_date" xmlrpc:"write_date"`

	// Monta inbound forecast group id returned on creation
	MontaForecastUID string     `gorm:"index" json:"monta_forecast_uid"`
	MontaLastPush    *time.Time `json:"monta_last_push,omitempty"`

	// Warehouse display name override for this PO's warehouse
	InboundWarehouse string `json:"inbound_warehouse"`

	// Sync meta
	LastSyncedAt time.Time `json:"last_synced_at"`

	// Relations
	Partner *Partner            `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
	Lines   []PurchaseOrderLine `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"lines,omitempty"`
}

func (PurchaseOrder) TableName() string {
	return "purchase_order"
}

// PurchaseOrderLine mirrors 'purchase.order.line'
type PurchaseOrderLine struct {
	ID        int64   `gorm:"primaryKey;autoIncrement:false" json:"id" xmlrpc:"id"`
	OrderID   int64   `gorm:"index" json:"order_id" xmlrpc:"order_id"`
	ProductID int64   `gorm:"index" json:"product_id" xmlrpc:"product_id"`
	Qty       float64 `json:"product_qty" xmlrpc:"product_qty"`

	Product *ProductProduct `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

func (PurchaseOrderLine) TableName() string {
	return "purchase_order_line"
}
