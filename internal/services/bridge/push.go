package bridge

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/devhassan17/montabridge/internal/models"
	"github.com/devhassan17/montabridge/internal/services/monta"
	"github.com/devhassan17/montabridge/internal/utils"
)

var digitsRe = regexp.MustCompile(`\D`)

// skuFor resolves the push SKU of a product via the resolution ladder
func (s *Service) skuFor(p *models.ProductProduct) (string, string) {
	return utils.ResolveSKU(utils.SKUCandidate{
		ID:           uint(p.ID),
		MontaSKU:     p.MontaSKU,
		DefaultCode:  p.DefaultCode.String(),
		SupplierCode: p.SupplierCode,
		Barcode:      p.Barcode.String(),
		TemplateCode: p.TemplateCode.String(),
	}, s.cfg.Monta.AllowSyntheticSKU, s.cfg.Monta.SyntheticSKUPrefix)
}

// orderLeaf is one (product, qty) pair after kit expansion
type orderLeaf struct {
	Product *models.ProductProduct
	Qty     float64
}

// expandLine turns one order line into (product, qty) leaves. A kit
// contributes its components scaled by the ordered quantity and is
// never pushed under its own SKU.
func (s *Service) expandLine(line *models.SaleOrderLine) ([]orderLeaf, error) {
	var product models.ProductProduct
	if err := s.db.Preload("BomLines.Component").First(&product, line.ProductID).Error; err != nil {
		return nil, fmt.Errorf("product %d: %w", line.ProductID, err)
	}

	if product.IsKit && len(product.BomLines) > 0 {
		var leaves []orderLeaf
		for i := range product.BomLines {
			bl := &product.BomLines[i]
			if bl.Component == nil || bl.Qty <= 0 {
				continue
			}
			leaves = append(leaves, orderLeaf{Product: bl.Component, Qty: bl.Qty * line.Qty})
		}
		if len(leaves) > 0 {
			return leaves, nil
		}
	}
	return []orderLeaf{{Product: &product, Qty: line.Qty}}, nil
}

// buildOrderLines aggregates order lines per resolved SKU after kit
// expansion. A product with no resolvable SKU aborts the push.
func (s *Service) buildOrderLines(so *models.SaleOrder) ([]monta.OrderLine, error) {
	skuQty := map[string]float64{}
	var skuOrder []string
	var missing []string

	for i := range so.Lines {
		line := &so.Lines[i]
		if line.Qty <= 0 {
			continue
		}
		leaves, err := s.expandLine(line)
		if err != nil {
			return nil, err
		}
		for _, lf := range leaves {
			if lf.Qty <= 0 {
				continue
			}
			sku, source := s.skuFor(lf.Product)
			if sku == "" || source == utils.SKUSourceMissing {
				missing = append(missing, lf.Product.Name)
				continue
			}
			if _, seen := skuQty[sku]; !seen {
				skuOrder = append(skuOrder, sku)
			}
			skuQty[sku] += lf.Qty
		}
	}

	if len(missing) > 0 {
		s.logCall(so.Name, "Monta SKU check", "error", map[string]interface{}{
			"missing_skus": missing,
		})
		return nil, fmt.Errorf("order %s has %d product(s) with no mapped SKU: %s",
			so.Name, len(missing), strings.Join(missing, ", "))
	}

	var lines []monta.OrderLine
	for _, sku := range skuOrder {
		if qty := int(skuQty[sku]); qty > 0 {
			lines = append(lines, monta.OrderLine{Sku: sku, OrderedQuantity: qty})
		}
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("order %s expanded to empty/zero quantities", so.Name)
	}
	return lines, nil
}

// addressFor builds a Monta address block from a partner, filling the
// placeholders Monta requires for optional ERP fields.
func addressFor(p *models.Partner) monta.OrderAddress {
	name := strings.TrimSpace(p.Name)
	first, last := name, ""
	if idx := strings.IndexByte(name, ' '); idx > 0 {
		first, last = name[:idx], strings.TrimSpace(name[idx+1:])
	}
	street, houseNumber, suffix := utils.SplitStreet(p.Street.String(), p.Street2.String())
	if houseNumber == "" {
		houseNumber = "1"
	}
	country := p.CountryCode
	if country == "" {
		country = "NL"
	}

	company := p.CompanyName.String()
	if company == "" {
		company = name
	}
	return monta.OrderAddress{
		Company:             company,
		FirstName:           first,
		LastName:            last,
		Street:              street,
		HouseNumber:         houseNumber,
		HouseNumberAddition: suffix,
		PostalCode:          defaultStr(p.Zip.String(), "0000AA"),
		City:                defaultStr(p.City.String(), "Unknown"),
		CountryCode:         country,
		PhoneNumber:         defaultStr(p.Phone.String(), "0000000000"),
		EmailAddress:        defaultStr(p.Email.String(), "unknown@example.com"),
	}
}

func defaultStr(v, fallback string) string {
	if strings.TrimSpace(v) == "" {
		return fallback
	}
	return v
}

// BuildOrderPayload assembles the full POST/PUT body for an order
func (s *Service) BuildOrderPayload(so *models.SaleOrder) (*monta.OrderPayload, error) {
	if so.Partner == nil {
		var partner models.Partner
		if err := s.db.First(&partner, so.PartnerID).Error; err != nil {
			return nil, fmt.Errorf("partner %d for %s: %w", so.PartnerID, so.Name, err)
		}
		so.Partner = &partner
	}
	if len(so.Lines) == 0 {
		if err := s.db.Where("order_id = ?", so.ID).Find(&so.Lines).Error; err != nil {
			return nil, err
		}
	}

	lines, err := s.buildOrderLines(so)
	if err != nil {
		return nil, err
	}

	invoiceID := 9999
	if digits := digitsRe.ReplaceAllString(so.Name, ""); digits != "" {
		if n, err := strconv.Atoi(digits); err == nil {
			invoiceID = n
		}
	}
	currency := so.Currency
	if currency == "" {
		currency = "EUR"
	}

	addr := addressFor(so.Partner)
	return &monta.OrderPayload{
		WebshopOrderID: so.Name,
		Reference:      so.ClientOrderRef.String(),
		Origin:         s.cfg.Monta.Origin,
		ConsumerDetails: monta.ConsumerDetails{
			DeliveryAddress: addr,
			InvoiceAddress:  addr,
		},
		Lines: lines,
		Invoice: monta.OrderInvoice{
			PaymentMethodDescription: "ERP Order",
			AmountInclTax:            so.AmountTotal,
			TotalTax:                 so.AmountTax,
			WebshopFactuurID:         invoiceID,
			Currency:                 currency,
		},
	}, nil
}

// PushOrder creates or updates the order on Monta depending on
// whether a webshop id was stored from an earlier push.
func (s *Service) PushOrder(ctx context.Context, so *models.SaleOrder) error {
	if !s.cfg.PushAllowed() {
		log.Printf("[Monta] push blocked for %s: environment %q not in allow-list", so.Name, s.cfg.NodeEnv)
		return nil
	}

	payload, err := s.BuildOrderPayload(so)
	if err != nil {
		s.markPushError(so)
		return err
	}

	now := time.Now()
	var status int
	if so.MontaOrderID == "" {
		status, _ = s.client.CreateOrder(ctx, payload)
		if status == 200 || status == 201 {
			return s.db.Model(so).Updates(map[string]interface{}{
				"monta_order_id":   so.Name,
				"monta_sync_state": models.MontaSyncSent,
				"monta_last_push":  now,
				"monta_needs_sync": false,
			}).Error
		}
	} else {
		status, _ = s.client.UpdateOrder(ctx, so.MontaOrderID, payload)
		if status >= 200 && status < 300 {
			state := models.MontaSyncUpdated
			if so.MontaSyncState == models.MontaSyncSent {
				state = models.MontaSyncSent
			}
			return s.db.Model(so).Updates(map[string]interface{}{
				"monta_sync_state": state,
				"monta_last_push":  now,
				"monta_needs_sync": false,
			}).Error
		}
	}

	s.markPushError(so)
	return fmt.Errorf("push %s failed: HTTP %d", so.Name, status)
}

// CancelOrder deletes the order on Monta with a note. A 404 counts as
// done since the order is gone either way.
func (s *Service) CancelOrder(ctx context.Context, so *models.SaleOrder, note string) error {
	webshopID := so.MontaOrderID
	if webshopID == "" {
		webshopID = so.Name
	}
	status, _ := s.client.DeleteOrder(ctx, webshopID, note)
	if status == 200 || status == 204 || status == 404 {
		return s.db.Model(so).Update("monta_sync_state", models.MontaSyncCancelled).Error
	}
	return fmt.Errorf("cancel %s failed: %s", so.Name, monta.DescribeDeleteFailure(status))
}

func (s *Service) markPushError(so *models.SaleOrder) {
	if err := s.db.Model(so).Updates(map[string]interface{}{
		"monta_sync_state": models.MontaSyncError,
		"monta_needs_sync": true,
	}).Error; err != nil {
		log.Printf("[Monta] mark push error for %s: %v", so.Name, err)
	}
}

// PushPending sends every confirmed order flagged for sync, honoring
// the per-order minimum gap between pushes.
func (s *Service) PushPending(ctx context.Context) {
	var orders []models.SaleOrder
	err := s.db.
		Where("state IN ?", []string{"sale", "done"}).
		Where("monta_needs_sync = ?", true).
		Order("write_date ASC").
		Find(&orders).Error
	if err != nil {
		log.Printf("❌ [Monta] pending push query failed: %v", err)
		return
	}
	if len(orders) == 0 {
		return
	}

	minGap := time.Duration(s.cfg.Monta.MinPushGap) * time.Second
	log.Printf("[Monta] Pushing %d pending orders", len(orders))
	for i := range orders {
		so := &orders[i]
		if !so.ShouldPushNow(minGap) {
			continue
		}
		if err := s.PushOrder(ctx, so); err != nil {
			log.Printf("❌ [Monta] push %s: %v", so.Name, err)
		}
	}
}

// CancelPending withdraws orders cancelled in the ERP after they were
// sent to Monta.
func (s *Service) CancelPending(ctx context.Context) {
	var orders []models.SaleOrder
	err := s.db.
		Where("state = ?", "cancel").
		Where("monta_sync_state IN ?", []models.MontaSyncState{models.MontaSyncSent, models.MontaSyncUpdated}).
		Find(&orders).Error
	if err != nil {
		log.Printf("❌ [Monta] pending cancel query failed: %v", err)
		return
	}
	for i := range orders {
		so := &orders[i]
		if err := s.CancelOrder(ctx, so, "Cancelled in ERP"); err != nil {
			log.Printf("❌ [Monta] cancel %s: %v", so.Name, err)
		}
	}
}
