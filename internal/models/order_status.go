package models

import (
	"time"

	"gorm.io/datatypes"
)

// MontaOrderStatus is the last-known status snapshot of one order as
// resolved from Monta. At most one row exists per (order reference,
// account); the composite unique index enforces it at write time.
// Rows are removed only by cascading deletion of the parent order.
type MontaOrderStatus struct {
	ID uint `gorm:"primaryKey" json:"id"`

	OrderName  string `gorm:"not null;uniqueIndex:idx_status_order_account,priority:1" json:"order_name"`
	AccountKey string `gorm:"not null;uniqueIndex:idx_status_order_account,priority:2;index" json:"account_key"`

	SaleOrderID int64      `gorm:"index" json:"sale_order_id"`
	SaleOrder   *SaleOrder `gorm:"foreignKey:SaleOrderID;constraint:OnDelete:CASCADE" json:"-"`

	// Monta's own reference for the order. Guarded against being
	// claimed by two different ERP orders within one account.
	MontaOrderRef string `gorm:"index" json:"monta_order_ref"`

	Status          string            `json:"status"`
	StatusCode      string            `json:"status_code"`
	Source          MontaStatusSource `json:"source"`
	TrackTrace      string            `json:"track_trace"`
	DeliveryDate    *time.Time        `json:"delivery_date,omitempty"`
	DeliveryMessage string            `json:"delivery_message"`
	StatusRaw       datatypes.JSON    `json:"status_raw,omitempty"`

	LastSync time.Time `gorm:"index" json:"last_sync"`
}

func (MontaOrderStatus) TableName() string {
	return "monta_order_status"
}
