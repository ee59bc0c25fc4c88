package models

import (
	"time"

	"gorm.io/datatypes"
)

// MontaSaleLog stores compact request/response audit rows for Monta
// API traffic, one row per call or notable event.
type MontaSaleLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	OrderName string         `gorm:"index" json:"order_name"`
	Tag       string         `gorm:"index" json:"tag"`   // "Monta API", "Monta IF", ...
	Level     string         `gorm:"index" json:"level"` // info | error
	Data      datatypes.JSON `json:"data"`
	CreatedAt time.Time      `json:"created_at"`
}

func (MontaSaleLog) TableName() string {
	return "monta_sale_log"
}

// OrderBatchTrace holds per-line batch/expiry/tracking details reported
// by shipment webhooks.
type OrderBatchTrace struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	SaleOrderID    int64      `gorm:"index;not null" json:"sale_order_id"`
	SaleOrder      *SaleOrder `gorm:"foreignKey:SaleOrderID;constraint:OnDelete:CASCADE" json:"-"`
	SKU            string     `gorm:"index" json:"sku"`
	BatchNumber    string     `json:"batch_number"`
	ExpiryDate     *time.Time `json:"expiry_date,omitempty"`
	Qty            float64    `json:"qty"`
	Carrier        string     `json:"carrier"`
	TrackingNumber string     `json:"tracking_number"`
	// Raw JSON excerpt for troubleshooting
	RawPayload datatypes.JSON `json:"raw_payload,omitempty"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (OrderBatchTrace) TableName() string {
	return "monta_order_batch_trace"
}
