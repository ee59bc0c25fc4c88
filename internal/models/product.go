package models

import (
	"time"
)

// ProductProduct mirrors 'product.product' plus the Monta stock mirrors.
type ProductProduct struct {
	ID           int64      `gorm:"primaryKey;autoIncrement:false" json:"id" xmlrpc:"id"`
	DefaultCode  OdooString `gorm:"index" json:"default_code" xmlrpc:"default_code"`
	MontaSKU     string     `gorm:"index" json:"monta_sku"`
	Barcode      OdooString `gorm:"index" json:"barcode" xmlrpc:"barcode"`
	SupplierCode string     `json:"supplier_code"`
	TemplateCode OdooString `json:"template_code"`
	Name         string     `json:"name" xmlrpc:"name"`
	Type         string     `json:"type" xmlrpc:"type"`
	Active       bool       `gorm:"default:true" json:"active" xmlrpc:"active"`
	WriteDate    time.Time  `gorm:"index" json:"write_date" xmlrpc:"write_date"`

	// A kit is never stocked directly; availability derives from components.
	IsKit bool `gorm:"default:false;index" json:"is_kit"`

	// Stock mirrors pulled from Monta
	QtyAvailable float64 `json:"qty_available"`
	MinimumStock float64 `json:"minimum_stock"`

	// Sync meta
	LastSyncedAt time.Time `json:"last_synced_at"`

	// Relations
	BomLines []BomLine `gorm:"foreignKey:ParentID;constraint:OnDelete:CASCADE" json:"bom_lines,omitempty"`
}

func (ProductProduct) TableName() string {
	return "product_product"
}

// BomLine is one component of a kit product
type BomLine struct {
	ID          int64   `gorm:"primaryKey" json:"id"`
	ParentID    int64   `gorm:"index;not null" json:"parent_id"`
	ComponentID int64   `gorm:"index;not null" json:"component_id"`
	Qty         float64 `json:"qty"` // required per single pack

	Component *ProductProduct `gorm:"foreignKey:ComponentID" json:"component,omitempty"`
}

func (BomLine) TableName() string {
	return "product_bom_line"
}
