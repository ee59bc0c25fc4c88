package bridge

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/devhassan17/montabridge/internal/models"
	"github.com/devhassan17/montabridge/internal/services/monta"
	"gorm.io/gorm"
)

// SyncStatuses resolves the WMS status for every open order, newest
// first, up to batchLimit. Orders already delivered are left alone.
// One failing order never stops the batch.
func (s *Service) SyncStatuses(ctx context.Context, batchLimit int) {
	if batchLimit <= 0 {
		batchLimit = 200
	}

	var orders []models.SaleOrder
	err := s.db.
		Where("state IN ?", []string{"sale", "done"}).
		Where("monta_status_normalized NOT IN ? OR monta_status_normalized IS NULL OR monta_status_normalized = ''",
			[]string{monta.StatusDelivered, monta.StatusCancelled}).
		Order("write_date DESC").
		Limit(batchLimit).
		Find(&orders).Error
	if err != nil {
		log.Printf("❌ [Monta] status batch query failed: %v", err)
		return
	}

	log.Printf("[Monta] Status sync for %d orders", len(orders))
	for i := range orders {
		if err := s.syncOrderStatus(ctx, &orders[i]); err != nil {
			log.Printf("❌ [Monta] %s status sync failed: %v", orders[i].Name, err)
		}
	}
}

// SyncOrderStatus resolves one order by its ERP name, on demand
func (s *Service) SyncOrderStatus(ctx context.Context, orderName string) (*models.SaleOrder, error) {
	var so models.SaleOrder
	if err := s.db.Where("name = ?", orderName).First(&so).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("order %s not found", orderName)
		}
		return nil, err
	}
	if err := s.syncOrderStatus(ctx, &so); err != nil {
		return nil, err
	}
	return &so, nil
}

func (s *Service) syncOrderStatus(ctx context.Context, so *models.SaleOrder) error {
	status, meta := s.resolver.Resolve(ctx, so.Name)

	now := time.Now()
	if status == "" {
		// Not found on Monta: record the attempt, keep the last status
		if err := s.UpsertSnapshot(so, "", meta); err != nil {
			return err
		}
		so.MontaOnMonta = false
		return s.db.Model(so).Updates(map[string]interface{}{
			"monta_last_sync": now,
			"monta_on_monta":  false,
		}).Error
	}

	normalized := monta.Normalize(status)
	updates := map[string]interface{}{
		"monta_status":            status,
		"monta_status_normalized": normalized,
		"monta_status_code":       meta.StatusCode,
		"monta_status_source":     meta.Source,
		"monta_last_sync":         now,
		"monta_on_monta":          true,
	}
	if meta.TrackTrace != "" {
		updates["monta_track_trace"] = meta.TrackTrace
	}
	if d := parseMontaDate(meta.DeliveryDate); d != nil {
		updates["monta_delivery_date"] = d
	}
	if meta.DeliveryMessage != "" {
		updates["monta_delivery_message"] = meta.DeliveryMessage
	}
	// Shipped or delivered completes the delivery on our side, the way
	// the ERP would validate its pickings
	if !so.DeliveryDone && (normalized == monta.StatusShipped || normalized == monta.StatusDelivered) {
		updates["delivery_done"] = true
		updates["delivery_done_at"] = now
		so.DeliveryDone = true
		so.DeliveryDoneAt = &now
	}
	if err := s.db.Model(so).Updates(updates).Error; err != nil {
		return err
	}

	so.MontaStatus = status
	so.MontaStatusNormalized = normalized
	so.MontaStatusSource = models.MontaStatusSource(meta.Source)
	if meta.TrackTrace != "" {
		so.MontaTrackTrace = meta.TrackTrace
	}
	so.MontaOnMonta = true

	return s.UpsertSnapshot(so, status, meta)
}
