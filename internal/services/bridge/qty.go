package bridge

import (
	"context"
	"log"
	"math"
	"time"

	"github.com/devhassan17/montabridge/internal/models"
	"github.com/devhassan17/montabridge/internal/utils"
)

// FeasiblePacks computes how many complete kits the component
// availability allows: floor of the minimum over components of
// available/required. A kit without components yields zero.
func FeasiblePacks(components []models.BomLine, availability map[int64]float64) int {
	if len(components) == 0 {
		return 0
	}
	packs := math.Inf(1)
	for _, c := range components {
		if c.Qty <= 0 {
			continue
		}
		avail := availability[c.ComponentID]
		packs = math.Min(packs, avail/c.Qty)
	}
	if math.IsInf(packs, 1) || packs < 0 {
		return 0
	}
	return int(math.Floor(packs))
}

// SyncQuantities pulls StockAvailable and MinimumStock per SKU from
// Monta and mirrors them locally. Plain products take the clamped
// warehouse number; kits never take a direct quantity and get the
// feasible pack count computed from their components instead.
func (s *Service) SyncQuantities(ctx context.Context) {
	var products []models.ProductProduct
	if err := s.db.Where("active = ?", true).Find(&products).Error; err != nil {
		log.Printf("❌ [Monta Qty] product query failed: %v", err)
		return
	}
	if len(products) == 0 {
		return
	}

	log.Printf("📦 [Monta Qty] Syncing %d products", len(products))
	availability := map[int64]float64{}
	var kits []*models.ProductProduct
	updated, skipped := 0, 0

	for i := range products {
		p := &products[i]
		if p.IsKit {
			kits = append(kits, p)
			continue
		}
		sku, source := s.skuFor(p)
		if sku == "" {
			skipped++
			continue
		}
		// Synthetic SKUs exist only on our side, Monta cannot know them
		if source == utils.SKUSourceSynthetic {
			skipped++
			continue
		}

		stock, found := s.client.GetProductStock(ctx, sku, s.cfg.Monta.Channel)
		if !found || stock.StockAvailable == nil {
			skipped++
			continue
		}

		qty := *stock.StockAvailable
		if qty < 0 {
			qty = 0
		}
		availability[p.ID] = qty

		updates := map[string]interface{}{
			"qty_available":  qty,
			"last_synced_at": time.Now(),
		}
		if stock.MinimumStock != nil {
			updates["minimum_stock"] = *stock.MinimumStock
		}
		if err := s.db.Model(p).Updates(updates).Error; err != nil {
			log.Printf("❌ [Monta Qty] update %s: %v", sku, err)
			continue
		}
		updated++
	}

	// Kits after components so availability is complete
	for _, kit := range kits {
		var comps []models.BomLine
		if err := s.db.Where("parent_id = ?", kit.ID).Find(&comps).Error; err != nil {
			log.Printf("❌ [Monta Qty] bom lines for kit %d: %v", kit.ID, err)
			continue
		}
		// Components missing from this run keep their stored quantity
		for _, c := range comps {
			if _, seen := availability[c.ComponentID]; !seen {
				var comp models.ProductProduct
				if err := s.db.First(&comp, c.ComponentID).Error; err == nil {
					availability[c.ComponentID] = comp.QtyAvailable
				}
			}
		}
		packs := FeasiblePacks(comps, availability)
		if err := s.db.Model(kit).Updates(map[string]interface{}{
			"qty_available":  float64(packs),
			"last_synced_at": time.Now(),
		}).Error; err != nil {
			log.Printf("❌ [Monta Qty] update kit %d: %v", kit.ID, err)
			continue
		}
		updated++
	}

	log.Printf("✅ [Monta Qty] Done: %d updated, %d skipped", updated, skipped)
}
