package bridge

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/devhassan17/montabridge/internal/models"
	"github.com/devhassan17/montabridge/internal/services/monta"
	"github.com/devhassan17/montabridge/internal/utils"
)

// buildForecastLines aggregates PO lines per SKU after kit expansion.
// Forecast lines never use synthetic SKUs: inbound goods must land on
// SKUs the warehouse actually knows.
func (s *Service) buildForecastLines(po *models.PurchaseOrder, deliveryDate string) ([]monta.ForecastLine, error) {
	skuQty := map[string]float64{}
	var skuOrder []string

	for i := range po.Lines {
		line := &po.Lines[i]
		if line.Qty <= 0 {
			continue
		}
		var product models.ProductProduct
		if err := s.db.Preload("BomLines.Component").First(&product, line.ProductID).Error; err != nil {
			return nil, fmt.Errorf("product %d on %s: %w", line.ProductID, po.Name, err)
		}

		leaves := []orderLeaf{{Product: &product, Qty: line.Qty}}
		if product.IsKit && len(product.BomLines) > 0 {
			leaves = leaves[:0]
			for j := range product.BomLines {
				bl := &product.BomLines[j]
				if bl.Component == nil || bl.Qty <= 0 {
					continue
				}
				leaves = append(leaves, orderLeaf{Product: bl.Component, Qty: bl.Qty * line.Qty})
			}
		}

		for _, lf := range leaves {
			sku, source := s.skuFor(lf.Product)
			if sku == "" || source == utils.SKUSourceSynthetic || source == utils.SKUSourceMissing {
				return nil, fmt.Errorf("line %q on %s has no warehouse SKU", lf.Product.Name, po.Name)
			}
			if _, seen := skuQty[sku]; !seen {
				skuOrder = append(skuOrder, sku)
			}
			skuQty[sku] += lf.Qty
		}
	}

	var lines []monta.ForecastLine
	for _, sku := range skuOrder {
		qty := int(skuQty[sku] + 0.5)
		if qty <= 0 {
			continue
		}
		lines = append(lines, monta.ForecastLine{
			Sku:          sku,
			Quantity:     qty,
			DeliveryDate: deliveryDate,
			Reference:    po.Name,
		})
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("%s has no positive-quantity lines after expansion", po.Name)
	}
	return lines, nil
}

// SyncForecastForPO announces a confirmed purchase order to the
// warehouse as an inbound forecast group. Safe to call repeatedly.
func (s *Service) SyncForecastForPO(ctx context.Context, po *models.PurchaseOrder) error {
	if !s.cfg.Monta.InboundEnable {
		log.Printf("[Monta IF] disabled, skipping %s", po.Name)
		return nil
	}
	if po.State != "purchase" && po.State != "done" {
		log.Printf("[Monta IF] skip %s (state=%s)", po.Name, po.State)
		return nil
	}

	if po.Partner == nil {
		var partner models.Partner
		if err := s.db.First(&partner, po.PartnerID).Error; err != nil {
			return fmt.Errorf("partner %d for %s: %w", po.PartnerID, po.Name, err)
		}
		po.Partner = &partner
	}
	if len(po.Lines) == 0 {
		if err := s.db.Where("order_id = ?", po.ID).Find(&po.Lines).Error; err != nil {
			return err
		}
	}

	planned := time.Now()
	if po.DatePlanned != nil {
		planned = *po.DatePlanned
	}
	edd := monta.FormatDeliveryDate(planned, s.cfg.Monta.WarehouseTZ)

	warehouse := po.InboundWarehouse
	if warehouse == "" {
		warehouse = s.cfg.Monta.InboundWarehouse
	}

	header := monta.ForecastGroup{
		Reference: po.Name,
		SupplierCode: monta.ResolveSupplierCode(s.cfg.Monta, monta.SupplierRef{
			Name:         po.Partner.Name,
			Ref:          po.Partner.Ref.String(),
			VAT:          po.Partner.VAT.String(),
			ExplicitCode: po.Partner.MontaSupplierCode,
		}),
		ExpectedDeliveryDate:    edd,
		AllocateStockOnDelivery: true,
		WarehouseDisplayName:    warehouse,
		Comment:                 truncateComment(po.Origin.String(), 200),
	}

	lines, err := s.buildForecastLines(po, edd)
	if err != nil {
		return err
	}

	uid, err := s.client.SyncForecastGroup(ctx, header, lines)
	if err != nil {
		return err
	}

	updates := map[string]interface{}{"monta_last_push": time.Now()}
	if uid != "" {
		updates["monta_forecast_uid"] = uid
	}
	return s.db.Model(po).Updates(updates).Error
}

// SyncForecasts pushes every confirmed purchase order whose ERP record
// changed since its last announcement, and withdraws groups for
// cancelled orders that were announced before.
func (s *Service) SyncForecasts(ctx context.Context) {
	if !s.cfg.Monta.InboundEnable {
		return
	}

	var pending []models.PurchaseOrder
	err := s.db.
		Where("state IN ?", []string{"purchase", "done"}).
		Where("monta_last_push IS NULL OR write_date > monta_last_push").
		Order("write_date ASC").
		Find(&pending).Error
	if err != nil {
		log.Printf("❌ [Monta IF] pending query failed: %v", err)
		return
	}
	for i := range pending {
		po := &pending[i]
		if err := s.SyncForecastForPO(ctx, po); err != nil {
			log.Printf("❌ [Monta IF] %s: %v", po.Name, err)
		}
	}

	var cancelled []models.PurchaseOrder
	err = s.db.
		Where("state = ?", "cancel").
		Where("monta_forecast_uid <> ''").
		Find(&cancelled).Error
	if err != nil {
		log.Printf("❌ [Monta IF] cancelled query failed: %v", err)
		return
	}
	for i := range cancelled {
		po := &cancelled[i]
		if err := s.DeleteForecastForPO(ctx, po, "Cancelled in ERP"); err != nil {
			log.Printf("❌ [Monta IF] withdraw %s: %v", po.Name, err)
			continue
		}
		if err := s.db.Model(po).Update("monta_forecast_uid", "").Error; err != nil {
			log.Printf("❌ [Monta IF] clear uid %s: %v", po.Name, err)
		}
	}
}

// DeleteForecastForPO withdraws the forecast for a cancelled or
// deleted purchase order.
func (s *Service) DeleteForecastForPO(ctx context.Context, po *models.PurchaseOrder, note string) error {
	if !s.cfg.Monta.InboundEnable {
		return nil
	}
	return s.client.DeleteForecastGroup(ctx, po.Name, note)
}

func truncateComment(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
