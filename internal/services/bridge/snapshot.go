package bridge

import (
	"log"
	"strings"
	"time"

	"github.com/devhassan17/montabridge/internal/models"
	"github.com/devhassan17/montabridge/internal/services/monta"
	"gorm.io/datatypes"
	"gorm.io/gorm/clause"
)

// snapshotDateLayouts are the timestamp shapes Monta has been seen to
// return for delivery dates.
var snapshotDateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func parseMontaDate(raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range snapshotDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t
		}
	}
	return nil
}

// UpsertSnapshot writes the single snapshot row for an order within
// the current account. The conflict target is the composite unique
// index on (order_name, account_key), so concurrent writers update the
// same row instead of erroring; a second row per order is never
// created. Columns whose incoming value is empty stay untouched on an
// existing row.
//
// The MontaOrderRef guard keeps one WMS order from being claimed by
// two different ERP orders inside the same account: the first order
// that stored the ref wins, later claimants keep their row without it.
func (s *Service) UpsertSnapshot(so *models.SaleOrder, status string, meta *monta.ResolveMeta) error {
	accountKey := s.client.AccountKey()

	snap := models.MontaOrderStatus{
		OrderName:   so.Name,
		AccountKey:  accountKey,
		SaleOrderID: so.ID,
		Status:      status,
		LastSync:    time.Now(),
	}
	cols := []string{"sale_order_id", "status", "status_code", "source", "last_sync"}

	if meta != nil {
		snap.StatusCode = meta.StatusCode
		snap.Source = models.MontaStatusSource(meta.Source)
		if meta.TrackTrace != "" {
			snap.TrackTrace = meta.TrackTrace
			cols = append(cols, "track_trace")
		}
		if d := parseMontaDate(meta.DeliveryDate); d != nil {
			snap.DeliveryDate = d
			cols = append(cols, "delivery_date")
		}
		msg := meta.DeliveryMessage
		if meta.Reason != "" && status == "" {
			msg = meta.Reason
		}
		if msg != "" {
			snap.DeliveryMessage = msg
			cols = append(cols, "delivery_message")
		}
		if len(meta.StatusRaw) > 0 {
			snap.StatusRaw = datatypes.JSON(meta.StatusRaw)
			cols = append(cols, "status_raw")
		}
		if ref := strings.TrimSpace(meta.MontaOrderRef); ref != "" {
			if s.montaRefAvailable(ref, accountKey, so.Name) {
				snap.MontaOrderRef = ref
				cols = append(cols, "monta_order_ref")
			} else {
				log.Printf("[Monta] %s: monta ref %q already claimed by another order, keeping snapshot without it", so.Name, ref)
			}
		}
	}

	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "order_name"}, {Name: "account_key"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(&snap).Error
}

// montaRefAvailable reports whether no other order in this account
// already holds the given Monta reference.
func (s *Service) montaRefAvailable(ref, accountKey, orderName string) bool {
	var count int64
	s.db.Model(&models.MontaOrderStatus{}).
		Where("monta_order_ref = ? AND account_key = ? AND order_name <> ?", ref, accountKey, orderName).
		Count(&count)
	return count == 0
}
