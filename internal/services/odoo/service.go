package odoo

import (
	"log"
	"time"

	"github.com/devhassan17/montabridge/internal/config"
	"github.com/devhassan17/montabridge/internal/database"
	"github.com/devhassan17/montabridge/internal/models"
	"gorm.io/gorm/clause"
)

// SyncService pulls ERP records over XML-RPC into the local mirror
// tables the bridge works from. The whole feed is optional: without
// ODOO_URL the mirrors are maintained by other means (imports, tests).
type SyncService struct {
	client *Client
	db     *database.DB
	cfg    config.OdooConfig
	stop   chan struct{}
}

// NewSyncService creates a new synchronization service
func NewSyncService(db *database.DB, cfg config.OdooConfig) *SyncService {
	return &SyncService{
		client: NewClient(cfg.URL, cfg.Database, cfg.Username, cfg.Password),
		db:     db,
		cfg:    cfg,
		stop:   make(chan struct{}),
	}
}

// Start begins the background synchronization loop
func (s *SyncService) Start() {
	if s.cfg.URL == "" {
		log.Println("Odoo feed disabled: ODOO_URL not configured")
		return
	}

	go func() {
		log.Println("📡 Odoo Feed Service started")

		if _, err := s.client.Authenticate(); err != nil {
			log.Printf("❌ Odoo authentication failed: %v", err)
			return
		}

		// Initial sync delay
		time.Sleep(5 * time.Second)
		s.runFullSync()

		interval := time.Duration(s.cfg.SyncInterval) * time.Minute
		if s.cfg.SyncInterval <= 0 {
			interval = 15 * time.Minute
		}

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.runFullSync()
			case <-s.stop:
				log.Println("🛑 Odoo Feed Service stopped")
				return
			}
		}
	}()
}

// Stop halts the service
func (s *SyncService) Stop() {
	close(s.stop)
}

// runFullSync runs all sync operations
func (s *SyncService) runFullSync() {
	log.Println("🔄 Odoo: Starting full sync...")

	// Order matters: partners and products before the orders
	// referencing them
	s.syncPartners()
	s.syncProducts()
	s.syncSaleOrders()
	s.syncPurchaseOrders()

	log.Println("✅ Odoo: Full sync completed")
}

// lastWriteDate returns the newest mirrored write_date for incremental
// pulls, with a far-past default for the first run.
func (s *SyncService) lastWriteDate(model interface{}) string {
	lastWriteDate := "2000-01-01 00:00:00"
	var ts time.Time
	row := s.db.Model(model).Select("MAX(write_date)").Row()
	if row != nil {
		if err := row.Scan(&ts); err == nil && !ts.IsZero() {
			lastWriteDate = ts.Format("2006-01-02 15:04:05")
		}
	}
	return lastWriteDate
}

func (s *SyncService) upsert(record interface{}) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(record).Error
}

// syncPartners pulls customer/supplier data into 'res_partner'
func (s *SyncService) syncPartners() {
	log.Println("👥 Odoo: Syncing Partners...")

	var partners []models.Partner
	err := s.client.SearchRead("res.partner", []interface{}{}, []string{
		"name", "ref", "vat", "street", "street2", "zip", "city", "phone", "email",
	}, 1000, 0, &partners)
	if err != nil {
		log.Printf("❌ Odoo Sync Error (Partners): %v", err)
		return
	}

	count := 0
	for _, p := range partners {
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "ref", "vat", "street", "street2",
				"zip", "city", "phone", "email",
			}),
		}).Create(&p).Error
		if err != nil {
			log.Printf("Failed to save partner %d: %v", p.ID, err)
		} else {
			count++
		}
	}

	log.Printf("✅ Odoo: Updated %d partners", count)
}

// syncProducts pulls product data into 'product_product'
func (s *SyncService) syncProducts() {
	log.Println("📦 Odoo: Syncing Products...")

	domain := []interface{}{
		[]interface{}{"write_date", ">", s.lastWriteDate(&models.ProductProduct{})},
	}

	var products []models.ProductProduct
	err := s.client.SearchRead("product.product", domain, []string{
		"default_code", "barcode", "name", "type", "write_date", "active",
	}, 1000, 0, &products)
	if err != nil {
		log.Printf("❌ Odoo Sync Error (Products): %v", err)
		return
	}
	if len(products) == 0 {
		return
	}

	count := 0
	for _, p := range products {
		p.LastSyncedAt = time.Now()
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"default_code", "barcode", "name", "type",
				"write_date", "active", "last_synced_at",
			}),
		}).Create(&p).Error
		if err != nil {
			log.Printf("Failed to save product %d: %v", p.ID, err)
		} else {
			count++
		}
	}

	log.Printf("✅ Odoo: Updated %d products", count)
}

// syncSaleOrders pulls confirmed sale orders and their lines
func (s *SyncService) syncSaleOrders() {
	log.Println("🛒 Odoo: Syncing Sale Orders...")

	domain := []interface{}{
		[]interface{}{"write_date", ">", s.lastWriteDate(&models.SaleOrder{})},
	}

	var orders []models.SaleOrder
	err := s.client.SearchRead("sale.order", domain, []string{
		"name", "state", "client_order_ref", "partner_id", "amount_total", "amount_tax", "write_date",
	}, 1000, 0, &orders)
	if err != nil {
		log.Printf("❌ Odoo Sync Error (Sale Orders): %v", err)
		return
	}
	if len(orders) == 0 {
		return
	}

	count := 0
	ids := make([]interface{}, 0, len(orders))
	for _, o := range orders {
		o.LastSyncedAt = time.Now()
		// A fresh ERP edit means the push loop should pick it up again
		if o.State == "sale" || o.State == "done" {
			o.MontaNeedsSync = true
		}
		// Only ERP-owned columns may be overwritten; the monta_*
		// mirrors belong to the bridge.
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "state", "client_order_ref", "partner_id",
				"amount_total", "amount_tax", "write_date",
				"monta_needs_sync", "last_synced_at",
			}),
		}).Create(&o).Error
		if err != nil {
			log.Printf("Failed to save sale order %d: %v", o.ID, err)
			continue
		}
		ids = append(ids, o.ID)
		count++
	}
	log.Printf("✅ Odoo: Updated %d sale orders", count)

	if len(ids) == 0 {
		return
	}
	var lines []models.SaleOrderLine
	lineDomain := []interface{}{
		[]interface{}{"order_id", "in", ids},
	}
	if err := s.client.SearchRead("sale.order.line", lineDomain, []string{
		"order_id", "product_id", "product_uom_qty", "price_tax",
	}, 5000, 0, &lines); err != nil {
		log.Printf("❌ Odoo Sync Error (Sale Order Lines): %v", err)
		return
	}
	for _, l := range lines {
		if err := s.upsert(&l); err != nil {
			log.Printf("Failed to save sale order line %d: %v", l.ID, err)
		}
	}
}

// syncPurchaseOrders pulls confirmed purchase orders and their lines
func (s *SyncService) syncPurchaseOrders() {
	log.Println("📥 Odoo: Syncing Purchase Orders...")

	domain := []interface{}{
		[]interface{}{"write_date", ">", s.lastWriteDate(&models.PurchaseOrder{})},
	}

	var orders []models.PurchaseOrder
	err := s.client.SearchRead("purchase.order", domain, []string{
		"name", "state", "partner_id", "origin", "date_planned", "write_date",
	}, 1000, 0, &orders)
	if err != nil {
		log.Printf("❌ Odoo Sync Error (Purchase Orders): %v", err)
		return
	}
	if len(orders) == 0 {
		return
	}

	count := 0
	ids := make([]interface{}, 0, len(orders))
	for _, o := range orders {
		o.LastSyncedAt = time.Now()
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"name", "state", "partner_id", "origin",
				"date_planned", "write_date", "last_synced_at",
			}),
		}).Create(&o).Error
		if err != nil {
			log.Printf("Failed to save purchase order %d: %v", o.ID, err)
			continue
		}
		ids = append(ids, o.ID)
		count++
	}
	log.Printf("✅ Odoo: Updated %d purchase orders", count)

	if len(ids) == 0 {
		return
	}
	var lines []models.PurchaseOrderLine
	lineDomain := []interface{}{
		[]interface{}{"order_id", "in", ids},
	}
	if err := s.client.SearchRead("purchase.order.line", lineDomain, []string{
		"order_id", "product_id", "product_qty",
	}, 5000, 0, &lines); err != nil {
		log.Printf("❌ Odoo Sync Error (Purchase Order Lines): %v", err)
		return
	}
	for _, l := range lines {
		if err := s.upsert(&l); err != nil {
			log.Printf("Failed to save purchase order line %d: %v", l.ID, err)
		}
	}
}
